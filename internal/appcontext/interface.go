// Package appcontext provides the shared application context interface
// used by all commands.
package appcontext

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/profilemerge/app implements it; tests use Mock.
type Interface interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Fs returns the filesystem sources are read from and output,
	// avatars and provenance are written to.
	Fs() afero.Fs

	// MergeDefaults returns the configured merge settings. Flags given on
	// the command line override them.
	MergeDefaults() MergeDefaults

	// Version returns the application version string.
	Version() string
}

// MergeDefaults are the configured values of the merge flags.
type MergeDefaults struct {
	Entropy    string
	Workers    int
	AvatarsIn  string
	AvatarsOut string
	Format     string
}
