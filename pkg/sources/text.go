package sources

import (
	"bytes"
	"encoding/json"

	"github.com/agentstation/profilemerge/internal/utils/ptr"
)

// Text is a leniently decoded JSON string. Any non-string value, null
// included, decodes to an unset Text without error.
type Text struct {
	Value string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return nil
	}
	if err := json.Unmarshal(data, &t.Value); err != nil {
		return err
	}
	t.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// Ptr returns the string, or nil when unset.
func (t Text) Ptr() *string {
	if !t.Valid {
		return nil
	}
	return ptr.To(t.Value)
}

// Is reports whether t is set to s.
func (t Text) Is(s string) bool {
	return t.Valid && t.Value == s
}

// NewText returns a set Text.
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

// Strings is a leniently decoded JSON array keeping only string elements.
// Any non-array value decodes to an empty list.
type Strings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Strings) UnmarshalJSON(data []byte) error {
	*s = nil
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil //nolint:nilerr // non-arrays are treated as empty
	}
	for _, item := range items {
		var t Text
		if err := t.UnmarshalJSON(item); err != nil {
			return err
		}
		if t.Valid {
			*s = append(*s, t.Value)
		}
	}
	return nil
}

// StringMap is a leniently decoded JSON object keeping only string values.
// Any non-object value decodes to an empty map.
type StringMap map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (m *StringMap) UnmarshalJSON(data []byte) error {
	*m = nil
	var items map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil //nolint:nilerr // non-objects are treated as empty
	}
	out := make(StringMap, len(items))
	for k, item := range items {
		var t Text
		if err := t.UnmarshalJSON(item); err != nil {
			return err
		}
		if t.Valid {
			out[k] = t.Value
		}
	}
	*m = out
	return nil
}
