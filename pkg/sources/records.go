package sources

import (
	"encoding/json"

	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/schema"
	"github.com/agentstation/profilemerge/pkg/types"
)

// HRISRecord is one Report_Entry of the Workday export. All fields are
// read leniently: a non-string value is treated as absent.
type HRISRecord struct {
	PrimaryWorkEmail    Text `json:"PrimaryWorkEmail" validate:"required"`
	CurrentlyActive     Text `json:"CurrentlyActive" validate:"required,eq=1"`
	CostCenter          Text `json:"Cost_Center"`
	IsDirectorOrAbove   Text `json:"isDirectorOrAbove"`
	IsManager           Text `json:"IsManager"`
	LocationDescription Text `json:"LocationDescription"`
	EmployeeID          Text `json:"EmployeeID"`
	Team                Text `json:"Team"`
	BusinessTitle       Text `json:"businessTitle"`
	WorkerType          Text `json:"WorkerType"`
	WPRDeskNumber       Text `json:"WPRDeskNumber"`

	// Raw is the entry as it appeared in the export.
	Raw schema.Raw `json:"-"`
}

// Email returns the bundle key of the record.
func (r *HRISRecord) Email() string {
	return r.PrimaryWorkEmail.Value
}

// StringValue is a directory envelope holding an optional string.
type StringValue struct {
	Value *string `json:"value"`
}

// BoolValue is a directory envelope holding a required bool.
type BoolValue struct {
	Value *bool `json:"value" validate:"required"`
}

// CollectionValues is a directory envelope holding a required keyed collection.
type CollectionValues struct {
	Values schema.Values `json:"values" validate:"required"`
}

// RawValues is a directory envelope holding arbitrary JSON.
type RawValues struct {
	Values schema.Raw `json:"values"`
}

// LDAPIdentities are the identities copied from the directory.
type LDAPIdentities struct {
	BugzillaMozillaOrgID StringValue `json:"bugzilla_mozilla_org_id"`
	FirefoxAccountsID    StringValue `json:"firefox_accounts_id"`
	GithubIDV3           StringValue `json:"github_id_v3"`
	GithubIDV4           StringValue `json:"github_id_v4"`
	GoogleOAuth2ID       StringValue `json:"google_oauth2_id"`
	MozillaLDAPID        StringValue `json:"mozilla_ldap_id"`
	MozillaPosixID       StringValue `json:"mozilla_posix_id"`
	MozilliansorgID      StringValue `json:"mozilliansorg_id"`
}

// LDAPAccessInformation holds the directory access block.
type LDAPAccessInformation struct {
	LDAP RawValues `json:"ldap"`
}

// LDAPRecord is one directory entry, already shaped like profile-v2.
type LDAPRecord struct {
	PrimaryEmail      StringValue           `json:"primary_email"`
	UserID            StringValue           `json:"user_id"`
	FirstName         StringValue           `json:"first_name"`
	LastName          StringValue           `json:"last_name"`
	LoginMethod       StringValue           `json:"login_method"`
	FunTitle          StringValue           `json:"fun_title"`
	Description       StringValue           `json:"description"`
	Picture           StringValue           `json:"picture"`
	Active            BoolValue             `json:"active"`
	SSHPublicKeys     CollectionValues      `json:"ssh_public_keys"`
	PGPPublicKeys     CollectionValues      `json:"pgp_public_keys"`
	PhoneNumbers      CollectionValues      `json:"phone_numbers"`
	Usernames         CollectionValues      `json:"usernames"`
	Identities        LDAPIdentities        `json:"identities"`
	AccessInformation LDAPAccessInformation `json:"access_information"`

	// key and userID are read leniently at load time, before the typed decode.
	key    string
	userID string
	err    error
}

// Email returns the primary email the record was keyed by.
func (r *LDAPRecord) Email() string {
	return r.key
}

// DirectoryUserID returns user_id.value, or "" when it is not a string.
func (r *LDAPRecord) DirectoryUserID() string {
	return r.userID
}

// Validate reports a decode failure or a missing required field.
func (r *LDAPRecord) Validate() error {
	if r.err != nil {
		return r.err
	}
	if r.PrimaryEmail.Value == nil {
		return errors.NewIdentityError(types.LDAPID.String(), "primary_email", r.key)
	}
	return structError(types.LDAPID, validate.Struct(r))
}

// IDP is one identity provider entry of a community profile.
type IDP struct {
	Email *string `json:"email"`
}

// MozilliansRecord is one community profile.
type MozilliansRecord struct {
	Username          Text            `json:"username"`
	FirstName         *string         `json:"first_name"`
	LastName          *string         `json:"last_name"`
	UserID            *string         `json:"user_id"`
	FunTitle          *string         `json:"fun_title"`
	Description       *string         `json:"description"`
	Timezone          *string         `json:"timezone"`
	AccessInformation schema.Raw      `json:"access_information"`
	Tags              Strings         `json:"tags"`
	Skills            Strings         `json:"skills"`
	PreferredLanguage Strings         `json:"preferred_language"`
	URIs              StringMap       `json:"uris"`
	Picture           Text            `json:"picture"`
	IDPs              json.RawMessage `json:"idps"`

	key string
	err error
}

// Key returns the user id the record was keyed by.
func (r *MozilliansRecord) Key() string {
	return r.key
}

// PrimaryIDPEmail returns idps[0].email. A missing or non-array idps list
// yields nil.
func (r *MozilliansRecord) PrimaryIDPEmail() (*string, error) {
	var idps []json.RawMessage
	if err := json.Unmarshal(r.IDPs, &idps); err != nil || len(idps) == 0 {
		return nil, nil //nolint:nilerr // non-arrays are treated as empty
	}
	var idp IDP
	if err := json.Unmarshal(idps[0], &idp); err != nil {
		var peek map[string]json.RawMessage
		if json.Unmarshal(idps[0], &peek) != nil {
			return nil, nil
		}
		return nil, errors.WrapShape(types.MozilliansID.String(), "idps.email", err)
	}
	return idp.Email, nil
}

// Validate reports a decode failure or a username that is absent or not a
// string. An empty string is a valid username.
func (r *MozilliansRecord) Validate() error {
	if r.err != nil {
		return r.err
	}
	if !r.Username.Valid {
		return errors.NewIdentityError(types.MozilliansID.String(), "username", r.key)
	}
	return nil
}
