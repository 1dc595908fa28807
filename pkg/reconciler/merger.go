package reconciler

import (
	"context"

	"github.com/agentstation/profilemerge/internal/utils/ptr"
	"github.com/agentstation/profilemerge/pkg/identity"
	"github.com/agentstation/profilemerge/pkg/joiner"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/mapper"
	"github.com/agentstation/profilemerge/pkg/provenance"
	"github.com/agentstation/profilemerge/pkg/schema"
)

// outcome is what merging one bundle produced.
type outcome struct {
	key        string
	profile    *schema.Profile
	provenance provenance.Map
	drop       *Drop
	skipped    bool
}

// merger merges single bundles. It holds no per-bundle state and is shared
// by all workers.
type merger struct {
	mapper        *mapper.Mapper
	tracking      bool
	identityGuard bool
}

// merge runs the stages planned for b on a fresh profile.
func (m *merger) merge(ctx context.Context, b *joiner.Bundle) outcome {
	ctx = logging.WithRecord(ctx, b.Key)
	logger := logging.FromContext(ctx)

	state := Classify(b)
	switch state {
	case StateEmpty:
		logger.Debug().Msg("empty bundle")
		return outcome{key: b.Key, skipped: true}
	case StateNoLDAP:
		logger.Warn().Msgf("no ldap data for %s", b.Key)
		return outcome{key: b.Key, drop: &Drop{Key: b.Key, Reason: ReasonNoLDAP}}
	case StateNoHRIS:
		logger.Warn().Msgf("no hris data for %s", b.Key)
		return outcome{key: b.Key, drop: &Drop{Key: b.Key, Reason: ReasonNoHRIS}}
	}

	var tracker provenance.Tracker
	if m.tracking {
		tracker = provenance.NewTracker(true)
		ctx = provenance.WithScope(ctx, tracker, b.Key)
	}

	p := schema.NewProfile()
	for _, st := range plan(m.mapper, state, b) {
		if err := st.run(logging.WithSource(ctx, st.source.String()), p); err != nil {
			logger.Warn().
				Err(err).
				Str("source", st.source.String()).
				Msg("dropping record")
			return outcome{key: b.Key, drop: &Drop{Key: b.Key, Reason: ReasonInvalidRecord, Source: st.source, Err: err}}
		}
	}

	if m.identityGuard && identity.Ensure(p, guardSeed(p, b), m.mapper.Entropy()) {
		logger.Debug().Msg("generated missing username")
	}

	out := outcome{key: b.Key, profile: p}
	if tracker != nil {
		out.provenance = tracker.Map()
	}
	return out
}

// guardSeed is the primary email, or the bundle key without one.
func guardSeed(p *schema.Profile, b *joiner.Bundle) string {
	return ptr.ValueOr(p.PrimaryEmail.Value, b.Key)
}
