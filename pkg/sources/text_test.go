package sources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextLenient(t *testing.T) {
	var v struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
		D Text `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "x", "b": 1, "c": null, "d": {"k": "v"}}`), &v))

	assert.Equal(t, NewText("x"), v.A)
	assert.False(t, v.B.Valid)
	assert.False(t, v.C.Valid)
	assert.False(t, v.D.Valid)
	assert.Nil(t, v.B.Ptr())
	assert.Equal(t, "x", *v.A.Ptr())
}

func TestStringsLenient(t *testing.T) {
	var v struct {
		A Strings `json:"a"`
		B Strings `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": ["x", 1, null, "y"], "b": "nope"}`), &v))
	assert.Equal(t, Strings{"x", "y"}, v.A)
	assert.Empty(t, v.B)
}

func TestStringMapLenient(t *testing.T) {
	var v struct {
		A StringMap `json:"a"`
		B StringMap `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": {"x": "1", "y": 2}, "b": []}`), &v))
	assert.Equal(t, StringMap{"x": "1"}, v.A)
	assert.Empty(t, v.B)
}
