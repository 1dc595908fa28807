package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEnvelopePayloadKey(t *testing.T) {
	scalar := decode(t, NewEnvelope[*string](nil, Public, nil))
	assert.Contains(t, scalar, "value")
	assert.NotContains(t, scalar, "values")
	assert.Nil(t, scalar["value"])

	coll := decode(t, NewEnvelope(nil, Public, Values{"b": nil, "a": "x"}))
	assert.Contains(t, coll, "values")
	assert.NotContains(t, coll, "value")

	raw := decode(t, NewEnvelope(nil, Public, EmptyObject()))
	assert.Equal(t, map[string]any{}, raw["values"])

	flag := decode(t, NewEnvelope(nil, Public, true))
	assert.Equal(t, true, flag["value"])
}

func TestEnvelopeWireOrder(t *testing.T) {
	data, err := json.Marshal(NewEnvelope(DisplayStaff.Ptr(), Public, Values{"z": 1, "a": 2}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"metadata": {"classification": "PUBLIC", "created": "", "display": "staff", "last_modified": "", "verified": false},
		"signature": {"additional": [], "publisher": {"alg": "HS256", "name": "mozilliansorg", "typ": "JWS", "value": ""}},
		"values": {"a": 2, "z": 1}
	}`, string(data))
	assert.Less(t, strings.Index(string(data), `"a"`), strings.Index(string(data), `"z"`))
	assert.Less(t, strings.Index(string(data), `"metadata"`), strings.Index(string(data), `"signature"`))
}

func TestValuesNilIsEmptyObject(t *testing.T) {
	data, err := json.Marshal(Values(nil))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestRawIsVerbatim(t *testing.T) {
	data, err := json.Marshal(Raw(`{"EmployeeID":"42","Team":"IAM"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"EmployeeID":"42","Team":"IAM"}`, string(data))

	data, err = json.Marshal(Raw(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestNoHTMLEscaping(t *testing.T) {
	data, err := json.Marshal(NewEnvelope(nil, Public, Values{"EA#site": "https://a.example/?x=1&y=<2>"}))
	require.NoError(t, err)
	assert.Contains(t, string(data), "&y=<2>")
}

func TestEnvelopeRoundTrip(t *testing.T) {
	name := "Jane"
	in := NewEnvelope(DisplayPublic.Ptr(), WorkgroupConfidential, &name)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out String
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotNil(t, out.Value)
	assert.Equal(t, "Jane", *out.Value)
	assert.Equal(t, in.Metadata, out.Metadata)

	var coll Collection
	require.NoError(t, json.Unmarshal([]byte(`{"metadata":{},"signature":{},"values":{"k":"v"}}`), &coll))
	assert.Equal(t, Values{"k": "v"}, coll.Value)
}

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile()

	assert.True(t, p.Active.Value)
	assert.Nil(t, p.Active.Metadata.Display)
	assert.Equal(t, WorkgroupConfidential, p.Active.Metadata.Classification)

	assert.Equal(t, "https://person-api.sso.mozilla.com/schema/v2/profile", p.Schema)

	tests := []struct {
		name           string
		meta           Metadata
		display        *Display
		classification Classification
	}{
		{"first_name", p.FirstName.Metadata, DisplayStaff.Ptr(), Public},
		{"created", p.Created.Metadata, DisplayPrivate.Ptr(), Public},
		{"cost_center", p.StaffInformation.CostCenter.Metadata, DisplayStaff.Ptr(), WorkgroupConfidentialStaffOnly},
		{"worker_type", p.StaffInformation.WorkerType.Metadata, DisplayStaff.Ptr(), WorkgroupConfidentialStaffOnly},
		{"access_information.access_provider", p.AccessInformation.AccessProvider.Metadata, nil, WorkgroupConfidential},
		{"access_information.hris", p.AccessInformation.HRIS.Metadata, nil, WorkgroupConfidentialStaffOnly},
		{"access_information.ldap", p.AccessInformation.LDAP.Metadata, nil, Public},
		{"access_information.mozilliansorg", p.AccessInformation.Mozilliansorg.Metadata, DisplayStaff.Ptr(), Public},
		{"usernames", p.Usernames.Metadata, DisplayPublic.Ptr(), WorkgroupConfidential},
		{"dinopark_id", p.Identities.DinoparkID.Metadata, DisplayPublic.Ptr(), WorkgroupConfidential},
		{"github_id_v3", p.Identities.GithubIDV3.Metadata, DisplayStaff.Ptr(), WorkgroupConfidential},
		{"ssh_public_keys", p.SSHPublicKeys.Metadata, DisplayStaff.Ptr(), Public},
		{"tags", p.Tags.Metadata, DisplayStaff.Ptr(), WorkgroupConfidential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.classification, tt.meta.Classification)
			assert.Equal(t, tt.display, tt.meta.Display)
			assert.Empty(t, tt.meta.Created)
			assert.False(t, tt.meta.Verified)
		})
	}
}

func TestNewProfileSerializes(t *testing.T) {
	out := decode(t, NewProfile())

	assert.Len(t, out, 26)
	ai := out["access_information"].(map[string]any)
	assert.Equal(t, map[string]any{}, ai["hris"].(map[string]any)["values"])
	provider := ai["access_provider"].(map[string]any)["metadata"].(map[string]any)
	assert.Contains(t, provider, "display")
	assert.Nil(t, provider["display"])
	assert.Nil(t, out["picture"].(map[string]any)["value"])
	assert.Equal(t, map[string]any{}, out["usernames"].(map[string]any)["values"])
	assert.Len(t, out["identities"], 14)
	assert.Len(t, out["staff_information"], 9)
}

func TestNewProfileIndependent(t *testing.T) {
	a, b := NewProfile(), NewProfile()
	a.SetUsername("mozilliansorg", "jdoe")
	*a.FirstName.Metadata.Display = DisplayPrivate

	_, ok := b.Username("mozilliansorg")
	assert.False(t, ok)
	assert.Equal(t, DisplayStaff, *b.FirstName.Metadata.Display)
	assert.Equal(t, DisplayStaff, *a.LastName.Metadata.Display)
}

func TestUsername(t *testing.T) {
	p := NewProfile()
	p.Usernames.Value = nil
	p.SetUsername("mozilliansorg", "jdoe")

	got, ok := p.Username("mozilliansorg")
	assert.True(t, ok)
	assert.Equal(t, "jdoe", got)
}
