package defaults

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var profile map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &profile))
	assert.Contains(t, profile, "primary_email")
	assert.Contains(t, profile, "staff_information")
	assert.Contains(t, out.String(), "\n  \"")
}

func TestDefaultYAML(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "yaml"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "primary_email:")
}

func TestDefaultBadFormat(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml"})
	assert.Error(t, cmd.Execute())
}
