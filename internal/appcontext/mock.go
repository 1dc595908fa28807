package appcontext

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/logging"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding field.
// If a field is unset, the method returns a default value.
type Mock struct {
	LoggerFunc func() *zerolog.Logger
	FsValue    afero.Fs
	Defaults   *MergeDefaults
	VersionStr string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// Fs returns FsValue, creating an in-memory filesystem on first use.
func (m *Mock) Fs() afero.Fs {
	if m.FsValue == nil {
		m.FsValue = afero.NewMemMapFs()
	}
	return m.FsValue
}

// MergeDefaults returns Defaults, or JSON output with the default worker count.
func (m *Mock) MergeDefaults() MergeDefaults {
	if m.Defaults != nil {
		return *m.Defaults
	}
	return MergeDefaults{Workers: constants.MaxConcurrentMerges, Format: "json"}
}

// Version returns VersionStr or "dev".
func (m *Mock) Version() string {
	if m.VersionStr != "" {
		return m.VersionStr
	}
	return "dev"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
