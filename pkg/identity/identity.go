// Package identity derives the synthetic identifiers of a merged profile:
// the dinopark id used to name avatar files, and the fallback username for
// people without a chosen handle.
package identity

import (
	"encoding/base64"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/schema"
)

// UsernameKey is the usernames.values key holding the primary handle.
const UsernameKey = constants.UsernameKey

var fold = cases.Fold()

// DeriveID returns the UUID v5 of seed under the URL namespace.
func DeriveID(seed string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

// DeriveUsername returns a pseudonymous handle for email. The same email
// and entropy always yield the same handle.
func DeriveUsername(email, entropy string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(email+"#"+entropy))
	return constants.GeneratedUsernamePrefix + base64.RawURLEncoding.EncodeToString(id[:])
}

// IRCHandle finds the first IRC entry among directory usernames, scanning
// keys in sorted order. The handle is everything after the first space of
// the value; an entry without one carries no handle.
func IRCHandle(usernames schema.Values) (string, bool) {
	for _, key := range slices.Sorted(maps.Keys(usernames)) {
		s, ok := usernames[key].(string)
		if !ok || len(s) < len(constants.IRCTag) {
			continue
		}
		if fold.String(s[:len(constants.IRCTag)]) != constants.IRCTag {
			continue
		}
		_, rest, found := strings.Cut(s, " ")
		if rest = strings.TrimSpace(rest); !found || rest == "" {
			continue
		}
		return rest, true
	}
	return "", false
}

// Handle returns the directory IRC handle, or a generated username when
// there is none.
func Handle(usernames schema.Values, email, entropy string) string {
	if h, ok := IRCHandle(usernames); ok {
		return h
	}
	return DeriveUsername(email, entropy)
}

// Ensure stores a generated username on p when it has none and reports
// whether it did. A handle that is present but empty is kept.
func Ensure(p *schema.Profile, seed, entropy string) bool {
	if _, ok := p.Username(UsernameKey); ok {
		return false
	}
	p.SetUsername(UsernameKey, DeriveUsername(seed, entropy))
	return true
}
