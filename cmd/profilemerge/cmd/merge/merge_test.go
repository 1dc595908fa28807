package merge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/profilemerge/cmd/profilemerge/cmd/merge"
	"github.com/agentstation/profilemerge/internal/appcontext"
	"github.com/agentstation/profilemerge/internal/testhelper"
	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/provenance"
)

func newFakeApp(t *testing.T) *appcontext.Mock {
	t.Helper()
	fs := afero.NewMemMapFs()
	testhelper.CopyTestdata(t, fs, "/in", "hris.json", "ldap.json", "mozillians.json")
	return &appcontext.Mock{
		FsValue: fs,
		Defaults: &appcontext.MergeDefaults{
			Entropy: "test-entropy",
			Workers: 4,
			Format:  "json",
		},
	}
}

func fixtureOptions() *merge.Options {
	return &merge.Options{
		HRIS:       "/in/hris.json",
		LDAP:       "/in/ldap.json",
		Mozillians: "/in/mozillians.json",
		Entropy:    "test-entropy",
		Workers:    4,
		Format:     "json",
	}
}

func decodeProfiles(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(data, &profiles))
	return profiles
}

func TestRunToStdout(t *testing.T) {
	app := newFakeApp(t)
	var stdout, stderr bytes.Buffer

	err := merge.Run(context.Background(), app, fixtureOptions(), &stdout, &stderr)
	require.NoError(t, err)

	assert.Len(t, decodeProfiles(t, stdout.Bytes()), 3)
	assert.Empty(t, stderr.String())
}

func TestRunToFile(t *testing.T) {
	app := newFakeApp(t)
	opts := fixtureOptions()
	opts.Out = "/out/profiles.json"
	var stdout, stderr bytes.Buffer

	require.NoError(t, merge.Run(context.Background(), app, opts, &stdout, &stderr))

	assert.Empty(t, stdout.String())
	data, err := afero.ReadFile(app.FsValue, "/out/profiles.json")
	require.NoError(t, err)
	assert.Len(t, decodeProfiles(t, data), 3)
}

func TestRunSplit(t *testing.T) {
	app := newFakeApp(t)
	opts := fixtureOptions()
	opts.Out = "/out/chunks"
	opts.Split = 2
	var stdout, stderr bytes.Buffer

	require.NoError(t, merge.Run(context.Background(), app, opts, &stdout, &stderr))

	assert.Equal(t, 2, testhelper.CountFiles(t, app.FsValue, "/out/chunks"))
	first, err := afero.ReadFile(app.FsValue, "/out/chunks/0.json")
	require.NoError(t, err)
	second, err := afero.ReadFile(app.FsValue, "/out/chunks/1.json")
	require.NoError(t, err)
	assert.Len(t, decodeProfiles(t, first), 2)
	assert.Len(t, decodeProfiles(t, second), 1)
}

func TestRunMozilliansOnly(t *testing.T) {
	app := newFakeApp(t)
	opts := fixtureOptions()
	opts.MozilliansOnly = true
	var stdout, stderr bytes.Buffer

	require.NoError(t, merge.Run(context.Background(), app, opts, &stdout, &stderr))

	assert.Len(t, decodeProfiles(t, stdout.Bytes()), 2)
}

func TestRunSummary(t *testing.T) {
	app := newFakeApp(t)
	opts := fixtureOptions()
	opts.Summary = true
	var stdout, stderr bytes.Buffer

	require.NoError(t, merge.Run(context.Background(), app, opts, &stdout, &stderr))

	assert.Contains(t, stderr.String(), "Profiles")
	assert.Contains(t, stderr.String(), "no_ldap")
	assert.Contains(t, stderr.String(), "hrisonly@mozilla.com")
}

func TestRunProvenance(t *testing.T) {
	app := newFakeApp(t)
	opts := fixtureOptions()
	opts.Provenance = "/out/provenance.yaml"
	var stdout, stderr bytes.Buffer

	require.NoError(t, merge.Run(context.Background(), app, opts, &stdout, &stderr))

	file, err := provenance.Load(app.FsValue, "/out/provenance.yaml")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Contains(t, file.Provenance.Profiles(), "jdoe@mozilla.com")
}

func TestRunYAML(t *testing.T) {
	app := newFakeApp(t)
	opts := fixtureOptions()
	opts.Format = "yaml"
	var stdout, stderr bytes.Buffer

	require.NoError(t, merge.Run(context.Background(), app, opts, &stdout, &stderr))

	assert.Contains(t, stdout.String(), "primary_email:")
}

func TestRunTagsLogsWithOperation(t *testing.T) {
	app := newFakeApp(t)
	logger := logging.NewTestLogger(t)
	app.LoggerFunc = func() *zerolog.Logger { return logger.Logger }
	var stdout, stderr bytes.Buffer

	require.NoError(t, merge.Run(context.Background(), app, fixtureOptions(), &stdout, &stderr))

	logger.AssertContains(t, `"operation":"merge"`)
	logger.AssertContains(t, `"record_key":"hrisonly@mozilla.com"`)
}

func TestRunMissingInput(t *testing.T) {
	app := newFakeApp(t)
	opts := fixtureOptions()
	opts.HRIS = "/in/missing.json"
	var stdout, stderr bytes.Buffer

	err := merge.Run(context.Background(), app, opts, &stdout, &stderr)
	require.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*merge.Options)
	}{
		{"negative split", func(o *merge.Options) { o.Split = -1 }},
		{"zero workers", func(o *merge.Options) { o.Workers = 0 }},
		{"bad format", func(o *merge.Options) { o.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fixtureOptions()
			tt.mutate(opts)
			var stdout, stderr bytes.Buffer
			err := merge.Run(context.Background(), newFakeApp(t), opts, &stdout, &stderr)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestCommandUsesDefaults(t *testing.T) {
	app := newFakeApp(t)
	app.Defaults.Format = "yaml"
	cmd := merge.NewCommand(app)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-w", "/in/hris.json", "-l", "/in/ldap.json", "-m", "/in/mozillians.json"})
	cmd.SetContext(context.Background())

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "primary_email:")
}

func TestCommandFlagOverridesDefault(t *testing.T) {
	app := newFakeApp(t)
	app.Defaults.Format = "yaml"
	cmd := merge.NewCommand(app)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-w", "/in/hris.json", "-l", "/in/ldap.json", "--format", "json"})
	cmd.SetContext(context.Background())

	require.NoError(t, cmd.Execute())
	assert.Len(t, decodeProfiles(t, stdout.Bytes()), 2)
}

func TestCommandRejectsArgs(t *testing.T) {
	cmd := merge.NewCommand(newFakeApp(t))
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
