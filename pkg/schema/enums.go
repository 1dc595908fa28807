package schema

// Classification is the visibility classification of an envelope.
type Classification string

// Classifications.
const (
	MozillaConfidential            Classification = "MOZILLA CONFIDENTIAL"
	WorkgroupConfidentialStaffOnly Classification = "WORKGROUP CONFIDENTIAL: STAFF ONLY"
	WorkgroupConfidential          Classification = "WORKGROUP CONFIDENTIAL"
	Public                         Classification = "PUBLIC"
	IndividualConfidential         Classification = "INDIVIDUAL CONFIDENTIAL"
)

// DefaultClassification is used by envelopes that do not specify one.
const DefaultClassification = WorkgroupConfidential

// Display is the audience an envelope may be shown to.
type Display string

// Display audiences.
const (
	DisplayPublic        Display = "public"
	DisplayAuthenticated Display = "authenticated"
	DisplayVouched       Display = "vouched"
	DisplayNDAed         Display = "ndaed"
	DisplayStaff         Display = "staff"
	DisplayPrivate       Display = "private"
)

// Ptr returns a pointer to d, for use in Metadata.
func (d Display) Ptr() *Display {
	return &d
}

// Alg is a signing algorithm.
type Alg string

// Signing algorithms.
const (
	HS256   Alg = "HS256"
	RS256   Alg = "RS256"
	RSA     Alg = "RSA"
	ED25519 Alg = "ED25519"
)

// PublisherAuthority names the system that published an attribute.
type PublisherAuthority string

// Publisher authorities.
const (
	AuthorityLDAP           PublisherAuthority = "ldap"
	AuthorityMozilliansorg  PublisherAuthority = "mozilliansorg"
	AuthorityHRIS           PublisherAuthority = "hris"
	AuthorityCIS            PublisherAuthority = "cis"
	AuthorityAccessProvider PublisherAuthority = "access_provider"
)

// Typ is the signature type.
type Typ string

// Signature types.
const (
	JWS Typ = "JWS"
	PGP Typ = "PGP"
)
