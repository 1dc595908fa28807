package save

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/profilemerge/pkg/errors"
)

// Format is an output serialization.
type Format int

// Format constants.
const (
	FormatJSON Format = iota
	FormatYAML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// Extension returns the file extension of chunk files, with the dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat parses a format name, case-insensitively. "yml" is accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatJSON, &errors.ValidationError{
		Field:   "format",
		Value:   s,
		Message: fmt.Sprintf("unsupported format %q (use json or yaml)", s),
	}
}

// Options is the configuration for save.
type Options struct {
	path   string
	writer io.Writer
	format Format
	split  int
	fs     afero.Fs
}

// Path returns the path for the save options.
func (s *Options) Path() string {
	return s.path
}

// Writer returns the writer for the save options.
func (s *Options) Writer() io.Writer {
	return s.writer
}

// Format returns the format for the save options.
func (s *Options) Format() Format {
	return s.format
}

// Split returns the chunk size, or 0 when output is not split.
func (s *Options) Split() int {
	return s.split
}

// Fs returns the filesystem files are written to.
func (s *Options) Fs() afero.Fs {
	return s.fs
}

// Defaults returns the default save options.
func Defaults() *Options {
	return &Options{
		path:   "",
		writer: os.Stdout,
		format: FormatJSON,
		fs:     afero.NewOsFs(),
	}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithFormat for custom output format.
func WithFormat(f Format) Option {
	return func(s *Options) {
		s.format = f
	}
}

// WithPath for filesystem saves. With a split it names the output
// directory.
func WithPath(path string) Option {
	return func(s *Options) {
		s.path = path
	}
}

// WithWriter for custom outputs.
func WithWriter(w io.Writer) Option {
	return func(s *Options) {
		s.writer = w
	}
}

// WithSplit splits the output into chunks of at most n profiles.
func WithSplit(n int) Option {
	return func(s *Options) {
		s.split = n
	}
}

// WithFs for filesystem saves on something other than the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Options) {
		s.fs = fs
	}
}
