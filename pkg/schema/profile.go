package schema

import "github.com/agentstation/profilemerge/pkg/constants"

// AccessInformation holds the per-source access blocks.
type AccessInformation struct {
	AccessProvider AccessInfo `json:"access_provider"`
	HRIS           AccessInfo `json:"hris"`
	LDAP           AccessInfo `json:"ldap"`
	Mozilliansorg  AccessInfo `json:"mozilliansorg"`
}

// Identities holds external identifiers of a person.
type Identities struct {
	GithubIDV3                  String `json:"github_id_v3"`
	GithubIDV4                  String `json:"github_id_v4"`
	GithubPrimaryEmail          String `json:"github_primary_email"`
	DinoparkID                  String `json:"dinopark_id"`
	MozilliansorgID             String `json:"mozilliansorg_id"`
	BugzillaMozillaOrgID        String `json:"bugzilla_mozilla_org_id"`
	BugzillaMozillaPrimaryEmail String `json:"bugzilla_mozilla_primary_email"`
	MozillaLDAPID               String `json:"mozilla_ldap_id"`
	MozillaLDAPPrimaryEmail     String `json:"mozilla_ldap_primary_email"`
	MozillaPosixID              String `json:"mozilla_posix_id"`
	GoogleOAuth2ID              String `json:"google_oauth2_id"`
	GooglePrimaryEmail          String `json:"google_primary_email"`
	FirefoxAccountsID           String `json:"firefox_accounts_id"`
	FirefoxAccountsPrimaryEmail String `json:"firefox_accounts_primary_email"`
}

// StaffInformation holds the HRIS-derived employment fields.
type StaffInformation struct {
	Manager        Bool   `json:"manager"`
	Director       Bool   `json:"director"`
	Staff          Bool   `json:"staff"`
	Title          String `json:"title"`
	Team           String `json:"team"`
	CostCenter     String `json:"cost_center"`
	WorkerType     String `json:"worker_type"`
	WPRDeskNumber  String `json:"wpr_desk_number"`
	OfficeLocation String `json:"office_location"`
}

// Profile is a unified profile-v2 record.
type Profile struct {
	AccessInformation AccessInformation `json:"access_information"`
	Active            Bool              `json:"active"`
	AlternativeName   String            `json:"alternative_name"`
	Created           String            `json:"created"`
	Description       String            `json:"description"`
	FirstName         String            `json:"first_name"`
	FunTitle          String            `json:"fun_title"`
	Identities        Identities        `json:"identities"`
	Languages         Collection        `json:"languages"`
	LastModified      String            `json:"last_modified"`
	LastName          String            `json:"last_name"`
	Location          String            `json:"location"`
	LoginMethod       String            `json:"login_method"`
	PGPPublicKeys     Collection        `json:"pgp_public_keys"`
	PhoneNumbers      Collection        `json:"phone_numbers"`
	Picture           String            `json:"picture"`
	PrimaryEmail      String            `json:"primary_email"`
	Pronouns          String            `json:"pronouns"`
	Schema            string            `json:"schema"`
	SSHPublicKeys     Collection        `json:"ssh_public_keys"`
	StaffInformation  StaffInformation  `json:"staff_information"`
	Tags              Collection        `json:"tags"`
	Timezone          String            `json:"timezone"`
	URIs              Collection        `json:"uris"`
	UserID            String            `json:"user_id"`
	Usernames         Collection        `json:"usernames"`
}

var (
	public = DisplayPublic.Ptr
	staff  = DisplayStaff.Ptr
)

func str(display *Display, c Classification) String {
	return NewEnvelope[*string](display, c, nil)
}

func values(display *Display, c Classification) Collection {
	return NewEnvelope(display, c, Values{})
}

func access(display *Display, c Classification) AccessInfo {
	return NewEnvelope(display, c, EmptyObject())
}

// defaultString is staff display with the default classification.
func defaultString() String {
	return str(staff(), DefaultClassification)
}

// NewProfile returns a profile with every envelope at its default metadata
// and every payload empty. The only preset payloads are active = true and
// the schema URL.
func NewProfile() *Profile {
	return &Profile{
		AccessInformation: AccessInformation{
			AccessProvider: access(nil, DefaultClassification),
			HRIS:           access(nil, WorkgroupConfidentialStaffOnly),
			LDAP:           access(nil, Public),
			Mozilliansorg:  access(staff(), Public),
		},
		Active:          NewEnvelope(nil, DefaultClassification, true),
		AlternativeName: defaultString(),
		Created:         str(DisplayPrivate.Ptr(), Public),
		Description:     defaultString(),
		FirstName:       str(staff(), Public),
		FunTitle:        defaultString(),
		Identities: Identities{
			GithubIDV3:                  defaultString(),
			GithubIDV4:                  defaultString(),
			GithubPrimaryEmail:          str(public(), DefaultClassification),
			DinoparkID:                  str(public(), DefaultClassification),
			MozilliansorgID:             defaultString(),
			BugzillaMozillaOrgID:        defaultString(),
			BugzillaMozillaPrimaryEmail: str(public(), DefaultClassification),
			MozillaLDAPID:               defaultString(),
			MozillaLDAPPrimaryEmail:     str(public(), DefaultClassification),
			MozillaPosixID:              defaultString(),
			GoogleOAuth2ID:              defaultString(),
			GooglePrimaryEmail:          str(public(), DefaultClassification),
			FirefoxAccountsID:           defaultString(),
			FirefoxAccountsPrimaryEmail: str(public(), DefaultClassification),
		},
		Languages:     values(staff(), DefaultClassification),
		LastModified:  str(staff(), Public),
		LastName:      str(staff(), Public),
		Location:      defaultString(),
		LoginMethod:   str(staff(), Public),
		PGPPublicKeys: values(staff(), Public),
		PhoneNumbers:  values(staff(), DefaultClassification),
		Picture:       str(staff(), Public),
		PrimaryEmail:  str(staff(), Public),
		Pronouns:      defaultString(),
		Schema:        constants.ProfileSchema,
		SSHPublicKeys: values(staff(), Public),
		StaffInformation: StaffInformation{
			Manager:        NewEnvelope(staff(), DefaultClassification, false),
			Director:       NewEnvelope(staff(), DefaultClassification, false),
			Staff:          NewEnvelope(staff(), DefaultClassification, false),
			Title:          defaultString(),
			Team:           defaultString(),
			CostCenter:     str(staff(), WorkgroupConfidentialStaffOnly),
			WorkerType:     str(staff(), WorkgroupConfidentialStaffOnly),
			WPRDeskNumber:  defaultString(),
			OfficeLocation: defaultString(),
		},
		Tags:      values(staff(), DefaultClassification),
		Timezone:  defaultString(),
		URIs:      values(staff(), DefaultClassification),
		UserID:    str(staff(), Public),
		Usernames: values(public(), DefaultClassification),
	}
}

// Username returns the handle stored under usernames.values[key].
func (p *Profile) Username(key string) (string, bool) {
	v, ok := p.Usernames.Value[key].(string)
	return v, ok
}

// SetUsername stores a handle under usernames.values[key].
func (p *Profile) SetUsername(key, handle string) {
	if p.Usernames.Value == nil {
		p.Usernames.Value = Values{}
	}
	p.Usernames.Value[key] = handle
}
