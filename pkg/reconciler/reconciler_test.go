package reconciler_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/profilemerge/internal/testhelper"
	"github.com/agentstation/profilemerge/pkg/avatar"
	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/identity"
	"github.com/agentstation/profilemerge/pkg/joiner"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/mapper"
	"github.com/agentstation/profilemerge/pkg/reconciler"
	"github.com/agentstation/profilemerge/pkg/schema"
	"github.com/agentstation/profilemerge/pkg/sources"
	"github.com/agentstation/profilemerge/pkg/types"
)

const entropy = "test-entropy"

func fixtureBundles(t *testing.T) *joiner.Bundles {
	t.Helper()
	hris, _, err := sources.DecodeHRIS(testhelper.LoadTestdata(t, "hris.json"))
	require.NoError(t, err)
	ldap, _, err := sources.DecodeLDAP(testhelper.LoadTestdata(t, "ldap.json"))
	require.NoError(t, err)
	mozillians, _, err := sources.DecodeMozillians(testhelper.LoadTestdata(t, "mozillians.json"))
	require.NoError(t, err)
	return joiner.Join(hris, ldap, mozillians)
}

func merge(t *testing.T, ctx context.Context, m *mapper.Mapper, opts ...reconciler.Option) *reconciler.Result {
	t.Helper()
	r, err := reconciler.New(m, opts...)
	require.NoError(t, err)
	res, err := r.Merge(ctx, fixtureBundles(t))
	require.NoError(t, err)
	return res
}

func byKey(t *testing.T, res *reconciler.Result, key string) *schema.Profile {
	t.Helper()
	for i, k := range res.Keys {
		if k == key {
			return res.Profiles[i]
		}
	}
	t.Fatalf("no profile for %s", key)
	return nil
}

func TestMergeFixtures(t *testing.T) {
	res := merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}))

	assert.Equal(t, []string{"asmith@mozilla.com", "github|424242", "jdoe@mozilla.com"}, res.Keys)
	require.Len(t, res.Profiles, 3)
	assert.Equal(t, 3, res.DroppedCount())
	assert.Equal(t, map[reconciler.DropReason]int{
		reconciler.ReasonNoLDAP:        1,
		reconciler.ReasonNoHRIS:        1,
		reconciler.ReasonInvalidRecord: 1,
	}, res.DroppedByReason())
	assert.Equal(t, 6, res.Metadata.Stats.BundlesTotal)
	assert.Equal(t, 3, res.Metadata.Stats.ProfilesEmitted)
	assert.False(t, res.Metadata.EndTime.Before(res.Metadata.StartTime))
}

func TestMergeStaffProfile(t *testing.T) {
	res := merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}))
	p := byKey(t, res, "jdoe@mozilla.com")

	assert.Equal(t, "Jane", *p.FirstName.Value)
	assert.Equal(t, "Doe", *p.LastName.Value)
	assert.Equal(t, "jdoe@mozilla.com", *p.PrimaryEmail.Value)
	assert.Equal(t, identity.DeriveID("jdoe@mozilla.com"), *p.Identities.DinoparkID.Value)
	assert.Equal(t, "Staff Engineering", *p.StaffInformation.Title.Value)
	assert.True(t, p.StaffInformation.Manager.Value)
	assert.Equal(t, "Chief Dino Wrangler", *p.FunTitle.Value)
	assert.Equal(t, "Europe/Berlin", *p.Timezone.Value)
	assert.True(t, p.Active.Value)
	assert.Nil(t, p.Picture.Value)

	handle, ok := p.Username(identity.UsernameKey)
	require.True(t, ok)
	assert.Equal(t, "janedoe", handle)
}

func TestMergeGeneratedUsername(t *testing.T) {
	res := merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}))
	p := byKey(t, res, "asmith@mozilla.com")

	assert.Nil(t, p.FirstName.Value)
	assert.Equal(t, "Smith", *p.LastName.Value)
	assert.Equal(t, "Senior Engineer", *p.StaffInformation.Title.Value)
	handle, _ := p.Username(identity.UsernameKey)
	assert.Equal(t, identity.DeriveUsername("asmith@mozilla.com", entropy), handle)
}

func TestMergeCommunityProfileIsActive(t *testing.T) {
	res := merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}))
	p := byKey(t, res, "github|424242")

	assert.True(t, p.Active.Value)
	assert.Equal(t, identity.DeriveID("volunteer"), *p.Identities.DinoparkID.Value)
	assert.Equal(t, "github|424242", *p.UserID.Value)
	assert.Equal(t, "val@example.org", *p.PrimaryEmail.Value)
	assert.Equal(t, schema.Values{"l10n": nil}, p.Tags.Value)
	assert.Nil(t, p.StaffInformation.Title.Value)
}

func TestMergeNeverEmitsPartialStaff(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	res := merge(t, ctx, mapper.New(mapper.Config{Entropy: entropy}))

	assert.NotContains(t, res.Keys, "hrisonly@mozilla.com")
	assert.NotContains(t, res.Keys, "ldaponly@mozilla.com")
	logger.AssertContains(t, "no ldap data for hrisonly@mozilla.com")
	logger.AssertContains(t, "no hris data for ldaponly@mozilla.com")
	logger.AssertContains(t, "dropping record")

	var invalid reconciler.Drop
	for _, d := range res.Dropped {
		if d.Reason == reconciler.ReasonInvalidRecord {
			invalid = d
		}
	}
	assert.Equal(t, "email|nousername", invalid.Key)
	assert.Equal(t, types.MozilliansID, invalid.Source)
	assert.ErrorIs(t, invalid.Err, errors.ErrMissingIdentity)
}

func TestMergeIsIdempotent(t *testing.T) {
	render := func(workers int) []byte {
		res := merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}), reconciler.WithWorkers(workers))
		out, err := json.Marshal(res.Profiles)
		require.NoError(t, err)
		return out
	}

	first := render(1)
	assert.Equal(t, string(first), string(render(1)))
	assert.Equal(t, string(first), string(render(8)))
}

func TestMergeMozilliansOnly(t *testing.T) {
	res := merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}), reconciler.WithMozilliansOnly(true))

	assert.Equal(t, []string{"github|424242", "jdoe@mozilla.com"}, res.Keys)
	assert.Equal(t, 3, res.Metadata.Stats.BundlesFiltered)
	assert.Equal(t, 1, res.DroppedCount())
	assert.True(t, res.Metadata.MozilliansOnly)
}

func TestMergeProvenance(t *testing.T) {
	res := merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}))

	history := res.Provenance["jdoe@mozilla.com:usernames.mozilliansorg"]
	require.Len(t, history, 2)
	assert.Equal(t, types.LDAPID, history[0].Source)
	assert.Equal(t, "jdoe_irc", history[0].Value)
	assert.Equal(t, types.MozilliansID, history[1].Source)
	assert.Equal(t, "janedoe", history[1].Value)

	for key := range res.Provenance {
		assert.NotContains(t, key, "hrisonly@mozilla.com", "dropped bundles carry no provenance")
	}

	res = merge(t, context.Background(), mapper.New(mapper.Config{Entropy: entropy}), reconciler.WithProvenance(false))
	assert.Empty(t, res.Provenance)
}

type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("unreachable")
}

func TestMergeAvatarFailuresAreSoft(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := mapper.New(mapper.Config{
		AvatarsIn: "/avatars_in",
		Avatars:   avatar.New(fs, "/avatars_out", failingFetcher{}),
		Entropy:   entropy,
	})

	res := merge(t, context.Background(), m)

	// jdoe has a missing directory picture and an unreachable community one
	assert.Equal(t, int64(2), res.AvatarFailures)
	assert.Len(t, res.Profiles, 3)
	assert.Nil(t, byKey(t, res, "jdoe@mozilla.com").Picture.Value)

	res = merge(t, context.Background(), m)
	assert.Equal(t, int64(2), res.AvatarFailures, "failures are counted per run")
}

func TestMergeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := reconciler.New(mapper.New(mapper.Config{}))
	require.NoError(t, err)
	res, err := r.Merge(ctx, fixtureBundles(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestMergeNilBundles(t *testing.T) {
	r, err := reconciler.New(mapper.New(mapper.Config{}))
	require.NoError(t, err)
	res, err := r.Merge(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Profiles)
}

func TestNewValidation(t *testing.T) {
	_, err := reconciler.New(nil)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "mapper", verr.Field)

	_, err = reconciler.New(mapper.New(mapper.Config{}), reconciler.WithWorkers(0))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "workers", verr.Field)
}

func TestClassify(t *testing.T) {
	hris := &sources.HRISRecord{}
	ldap := &sources.LDAPRecord{}
	moz := &sources.MozilliansRecord{}

	tests := []struct {
		name   string
		bundle *joiner.Bundle
		want   reconciler.State
	}{
		{"staff", &joiner.Bundle{HRIS: hris, LDAP: ldap}, reconciler.StateStaff},
		{"staff with community", &joiner.Bundle{HRIS: hris, LDAP: ldap, Mozillians: moz}, reconciler.StateStaff},
		{"hris only", &joiner.Bundle{HRIS: hris}, reconciler.StateNoLDAP},
		{"hris with community", &joiner.Bundle{HRIS: hris, Mozillians: moz}, reconciler.StateNoLDAP},
		{"ldap only", &joiner.Bundle{LDAP: ldap, Mozillians: moz}, reconciler.StateNoHRIS},
		{"community", &joiner.Bundle{Mozillians: moz}, reconciler.StateCommunity},
		{"empty", &joiner.Bundle{}, reconciler.StateEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconciler.Classify(tt.bundle))
		})
	}
}
