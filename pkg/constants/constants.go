// Package constants provides shared constants used throughout the profilemerge codebase.
// This includes timeouts, limits, file permissions, and the fixed values of the
// profile-v2 conversion (avatar sizes, organizational domains, key prefixes).
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the timeout for the single remote avatar fetch
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxConcurrentMerges is the default number of bundles merged concurrently
	MaxConcurrentMerges = 8

	// MaxAvatarBytes caps the body read from a remote avatar URL (20 MB)
	MaxAvatarBytes = 20 * 1024 * 1024
)

// Avatar constants
const (
	// MinAspectRatio is the lowest accepted width/height ratio of an avatar
	MinAspectRatio = 0.95

	// MaxAspectRatio is the highest accepted width/height ratio of an avatar
	MaxAspectRatio = 1.05

	// AvatarExtension is appended to the dinopark id to form rendition file names
	AvatarExtension = ".png"
)

// AvatarSizes returns the square rendition sizes in pixels, largest first.
func AvatarSizes() []int {
	return []int{230, 100, 40}
}

// OrganizationDomains returns the email suffixes accepted from the directory export.
func OrganizationDomains() []string {
	return []string{
		"@mozilla.com",
		"@mozillafoundation.org",
		"@getpocket.com",
	}
}

// Profile constants
const (
	// ProfileSchema is the schema URI stamped on every profile
	ProfileSchema = "https://person-api.sso.mozilla.com/schema/v2/profile"

	// UsernameKey is the usernames.values key holding the primary handle
	UsernameKey = "mozilliansorg"

	// GeneratedUsernamePrefix marks handles derived from an email hash
	GeneratedUsernamePrefix = "r--"

	// IRCTag is the prefix identifying an IRC entry among directory usernames
	IRCTag = "irc"

	// URIKeyPrefix is prepended to every community URI key
	URIKeyPrefix = "EA#"

	// HRISActive is the CurrentlyActive value of employees kept from the HRIS export
	HRISActive = "1"

	// HRISTrue is the HRIS string encoding of a true boolean
	HRISTrue = "TRUE"
)
