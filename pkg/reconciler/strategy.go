package reconciler

import (
	"github.com/agentstation/profilemerge/pkg/joiner"
	"github.com/agentstation/profilemerge/pkg/mapper"
	"github.com/agentstation/profilemerge/pkg/types"
)

// State is the merge state of a bundle, decided by the sources it carries.
type State int

const (
	// StateEmpty bundles carry no record at all.
	StateEmpty State = iota
	// StateStaff bundles carry HRIS and directory records, and optionally
	// a community profile.
	StateStaff
	// StateNoLDAP bundles carry an HRIS record without a directory record.
	StateNoLDAP
	// StateNoHRIS bundles carry a directory record without an HRIS record.
	StateNoHRIS
	// StateCommunity bundles carry only a community profile.
	StateCommunity
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStaff:
		return "staff"
	case StateNoLDAP:
		return "no_ldap"
	case StateNoHRIS:
		return "no_hris"
	case StateCommunity:
		return "community"
	default:
		return "empty"
	}
}

// Classify returns the merge state of b.
func Classify(b *joiner.Bundle) State {
	hris, ldap := b.Has(types.HRISID), b.Has(types.LDAPID)
	switch {
	case hris && ldap:
		return StateStaff
	case hris:
		return StateNoLDAP
	case ldap:
		return StateNoHRIS
	case b.Has(types.MozilliansID):
		return StateCommunity
	default:
		return StateEmpty
	}
}

// stage is a mapper stage and the source it applies.
type stage struct {
	source types.SourceID
	run    mapper.Stage
}

// plan returns the stages merged for a bundle in state. States that do not
// produce a profile have no stages.
func plan(m *mapper.Mapper, state State, b *joiner.Bundle) []stage {
	switch state {
	case StateStaff:
		return []stage{
			{types.HRISID, m.HRIS(b.HRIS)},
			{types.LDAPID, m.LDAP(b.LDAP)},
			{types.MozilliansID, m.Mozillians(b.Mozillians)},
		}
	case StateCommunity:
		return []stage{
			{types.MozilliansID, m.Mozillians(b.Mozillians)},
		}
	default:
		return nil
	}
}
