// Package joiner groups source records into one bundle per person.
//
// HRIS and directory records are keyed by primary email, exact match.
// Community records are attached through the directory user id; those
// without a directory match get a bundle of their own keyed by user id.
package joiner

import (
	"maps"
	"slices"

	"github.com/agentstation/profilemerge/pkg/sources"
	"github.com/agentstation/profilemerge/pkg/types"
)

// Bundle is the transient grouping of a person's source records.
type Bundle struct {
	Key        string
	HRIS       *sources.HRISRecord
	LDAP       *sources.LDAPRecord
	Mozillians *sources.MozilliansRecord
}

// Has reports whether the bundle carries a record from source.
func (b *Bundle) Has(source types.SourceID) bool {
	switch source {
	case types.HRISID:
		return b.HRIS != nil
	case types.LDAPID:
		return b.LDAP != nil
	case types.MozilliansID:
		return b.Mozillians != nil
	default:
		return false
	}
}

// Sources returns the sources present on the bundle, in merge order.
func (b *Bundle) Sources() []types.SourceID {
	var present []types.SourceID
	for _, id := range types.SourceIDs() {
		if b.Has(id) {
			present = append(present, id)
		}
	}
	return present
}

// Bundles is the identity to bundle map of one run.
type Bundles struct {
	bundles map[string]*Bundle
	// directory user_id -> primary email
	ldapIndex map[string]string
}

// Join builds bundles from the loaded records. Later records replace
// earlier ones with the same key.
func Join(hris []*sources.HRISRecord, ldap []*sources.LDAPRecord, mozillians []*sources.MozilliansRecord) *Bundles {
	b := &Bundles{
		bundles:   make(map[string]*Bundle, len(hris)+len(ldap)),
		ldapIndex: make(map[string]string, len(ldap)),
	}

	for _, rec := range hris {
		b.bundles[rec.Email()] = &Bundle{Key: rec.Email(), HRIS: rec}
	}

	for _, rec := range ldap {
		if id := rec.DirectoryUserID(); id != "" {
			b.ldapIndex[id] = rec.Email()
		}
		b.get(rec.Email()).LDAP = rec
	}

	for _, rec := range mozillians {
		key := rec.Key()
		if email, ok := b.ldapIndex[key]; ok {
			key = email
		}
		b.get(key).Mozillians = rec
	}

	return b
}

// JoinData is Join over a loaded data set.
func JoinData(d *sources.Data) *Bundles {
	return Join(d.HRIS, d.LDAP, d.Mozillians)
}

func (b *Bundles) get(key string) *Bundle {
	bundle, ok := b.bundles[key]
	if !ok {
		bundle = &Bundle{Key: key}
		b.bundles[key] = bundle
	}
	return bundle
}

// Get returns the bundle for key.
func (b *Bundles) Get(key string) (*Bundle, bool) {
	bundle, ok := b.bundles[key]
	return bundle, ok
}

// EmailForUserID resolves a directory user id to its primary email.
func (b *Bundles) EmailForUserID(userID string) (string, bool) {
	email, ok := b.ldapIndex[userID]
	return email, ok
}

// Len returns the number of bundles.
func (b *Bundles) Len() int {
	return len(b.bundles)
}

// Keys returns the bundle keys in sorted order.
func (b *Bundles) Keys() []string {
	return slices.Sorted(maps.Keys(b.bundles))
}

// Sorted returns the bundles in key order.
func (b *Bundles) Sorted() []*Bundle {
	keys := b.Keys()
	out := make([]*Bundle, 0, len(keys))
	for _, k := range keys {
		out = append(out, b.bundles[k])
	}
	return out
}
