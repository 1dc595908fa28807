package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/profilemerge/pkg/errors"
)

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
	if app.Fs() == nil {
		t.Error("Fs() returned nil")
	}
}

// TestApp_WithOptions verifies functional options.
func TestApp_WithOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := zerolog.Nop()
	config := &Config{Entropy: "salt", Workers: 2, Format: "yaml"}

	app, err := New("1.0.0", "test", "2024-01-01", "test",
		WithFs(fs),
		WithLogger(&logger),
		WithConfig(config),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Fs() != fs {
		t.Error("WithFs() not applied")
	}
	if app.Logger() != &logger {
		t.Error("WithLogger() not applied")
	}

	defaults := app.MergeDefaults()
	if defaults.Entropy != "salt" || defaults.Workers != 2 || defaults.Format != "yaml" {
		t.Errorf("MergeDefaults() = %+v", defaults)
	}
}

// TestApp_WithNilConfig verifies that a nil config is rejected.
func TestApp_WithNilConfig(t *testing.T) {
	_, err := New("1.0.0", "test", "2024-01-01", "test", WithConfig(nil))
	if !errors.IsValidationError(err) {
		t.Fatalf("New(WithConfig(nil)) error = %v, want validation error", err)
	}
}

func testApp(t *testing.T, fs afero.Fs) *App {
	t.Helper()
	logger := zerolog.Nop()
	app, err := New("1.2.3", "abc123", "2024-01-01", "test",
		WithFs(fs),
		WithLogger(&logger),
		WithConfig(&Config{Entropy: "salt", Workers: 2, Format: "json", LogLevel: "error"}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := app.createRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestExecute_Merge runs the merge command end to end on fixture exports.
func TestExecute_Merge(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"hris.json", "ldap.json", "mozillians.json"} {
		data, err := os.ReadFile(filepath.Join("..", "cmd", "merge", "testdata", name))
		if err != nil {
			t.Fatalf("read fixture: %v", err)
		}
		if err := afero.WriteFile(fs, "/in/"+name, data, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	app := testApp(t, fs)
	out, err := execute(t, app, "merge",
		"-w", "/in/hris.json", "-l", "/in/ldap.json", "-m", "/in/mozillians.json")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	var profiles []map[string]any
	if err := json.Unmarshal([]byte(out), &profiles); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("got %d profiles, want 3", len(profiles))
	}
}

// TestExecute_Default verifies the default profile command.
func TestExecute_Default(t *testing.T) {
	out, err := execute(t, testApp(t, afero.NewMemMapFs()), "default")
	if err != nil {
		t.Fatalf("default failed: %v", err)
	}
	if !strings.Contains(out, `"primary_email"`) {
		t.Errorf("default output missing primary_email: %s", out)
	}
}

// TestExecute_Version verifies the version command.
func TestExecute_Version(t *testing.T) {
	app := testApp(t, afero.NewMemMapFs())

	out, err := execute(t, app, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "profilemerge 1.2.3\n" {
		t.Errorf("version output = %q", out)
	}

	out, err = execute(t, app, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version --format json failed: %v", err)
	}
	var info VersionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version output is not JSON: %v", err)
	}
	if info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("VersionInfo = %+v", info)
	}
}

// TestExecute_UnknownCommand verifies that unknown commands fail.
func TestExecute_UnknownCommand(t *testing.T) {
	if _, err := execute(t, testApp(t, afero.NewMemMapFs()), "frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}
