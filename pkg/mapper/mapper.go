// Package mapper copies source records into a profile.
//
// Each source has one stage. Stages mutate the profile they are given and
// are applied in HRIS, LDAP, Mozillians order by the reconciler:
//
//	m := mapper.New(mapper.Config{Entropy: entropy})
//	p := schema.NewProfile()
//	for _, stage := range []mapper.Stage{m.HRIS(hris), m.LDAP(ldap), m.Mozillians(moz)} {
//		if err := stage(ctx, p); err != nil {
//			return err
//		}
//	}
package mapper

import (
	"context"
	"sync/atomic"

	"github.com/agentstation/profilemerge/internal/utils/ptr"
	"github.com/agentstation/profilemerge/pkg/avatar"
	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/identity"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/provenance"
	"github.com/agentstation/profilemerge/pkg/schema"
	"github.com/agentstation/profilemerge/pkg/types"
)

// Stage applies one source record to a profile.
type Stage func(ctx context.Context, p *schema.Profile) error

// Config configures a Mapper.
type Config struct {
	// AvatarsIn is the directory holding directory pictures, by base name.
	AvatarsIn string

	// Avatars writes renditions. Nil disables avatar handling.
	Avatars *avatar.Normalizer

	// Entropy salts generated usernames.
	Entropy string
}

// Mapper builds the per-source stages.
type Mapper struct {
	avatarsIn string
	avatars   *avatar.Normalizer
	entropy   string

	avatarFailures atomic.Int64
}

// New creates a Mapper.
func New(cfg Config) *Mapper {
	return &Mapper{
		avatarsIn: cfg.AvatarsIn,
		avatars:   cfg.Avatars,
		entropy:   cfg.Entropy,
	}
}

// Entropy returns the username entropy.
func (m *Mapper) Entropy() string {
	return m.entropy
}

// AvatarFailures returns the number of pictures that could not be converted.
func (m *Mapper) AvatarFailures() int64 {
	return m.avatarFailures.Load()
}

// avatarName is the rendition file name of a dinopark id.
func avatarName(dinoparkID string) string {
	return dinoparkID + constants.AvatarExtension
}

// picture runs convert and returns the rendition name, or nil after
// logging the failure.
func (m *Mapper) picture(ctx context.Context, source types.SourceID, name string, convert func() error) *string {
	if err := convert(); err != nil {
		m.avatarFailures.Add(1)
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("source", source.String()).
			Msg("error handling picture")
		return nil
	}
	return ptr.To(name)
}

// setString assigns v to dst and tracks it.
func setString(ctx context.Context, source types.SourceID, field string, dst *schema.String, v *string) {
	dst.Value = v
	if v != nil {
		provenance.Record(ctx, source, field, *v)
	}
}

// fillString assigns v to dst when dst has no value yet.
func fillString(ctx context.Context, source types.SourceID, field string, dst *schema.String, v *string) {
	if dst.Value == nil {
		setString(ctx, source, field, dst, v)
	}
}

// setBool assigns v to dst and tracks it.
func setBool(ctx context.Context, source types.SourceID, field string, dst *schema.Bool, v bool) {
	dst.Value = v
	provenance.Record(ctx, source, field, v)
}

// setValues assigns v to dst and tracks it.
func setValues(ctx context.Context, source types.SourceID, field string, dst *schema.Collection, v schema.Values) {
	dst.Value = v
	provenance.Record(ctx, source, field, len(v))
}

// setUsername stores the primary handle and tracks it.
func setUsername(ctx context.Context, source types.SourceID, p *schema.Profile, handle string) {
	p.SetUsername(identity.UsernameKey, handle)
	provenance.Record(ctx, source, "usernames."+identity.UsernameKey, handle)
}
