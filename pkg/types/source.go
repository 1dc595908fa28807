//nolint:revive // Package types provides common type definitions
package types

import "slices"

// SourceID identifies one of the exports merged into a profile.
type SourceID string

// String returns the string representation of a source ID.
func (id SourceID) String() string {
	return string(id)
}

// Source identifiers, in the order their mappers are applied.
const (
	// HRISID identifies the Workday report export.
	HRISID SourceID = "hris"

	// LDAPID identifies the directory export, already shaped like profile-v2.
	LDAPID SourceID = "ldap"

	// MozilliansID identifies the community profile export.
	MozilliansID SourceID = "mozillians"
)

// SourceIDs returns all source identifiers in merge order.
func SourceIDs() []SourceID {
	return []SourceID{
		HRISID,
		LDAPID,
		MozilliansID,
	}
}

// IsValid returns true if the SourceID is one of the defined constants.
func (id SourceID) IsValid() bool {
	return slices.Contains(SourceIDs(), id)
}
