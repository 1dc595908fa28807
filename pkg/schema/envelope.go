package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metadata carries the visibility information of an envelope.
type Metadata struct {
	Classification Classification `json:"classification" yaml:"classification"`
	Created        string         `json:"created" yaml:"created"`
	Display        *Display       `json:"display" yaml:"display"`
	LastModified   string         `json:"last_modified" yaml:"last_modified"`
	Verified       bool           `json:"verified" yaml:"verified"`
}

// NewMetadata returns metadata with the given display and classification.
// A nil display is serialized as null.
func NewMetadata(display *Display, classification Classification) Metadata {
	return Metadata{
		Classification: classification,
		Display:        display,
	}
}

// DefaultMetadata is staff display with the default classification.
func DefaultMetadata() Metadata {
	return NewMetadata(DisplayStaff.Ptr(), DefaultClassification)
}

// Publisher describes one signature over an attribute.
type Publisher struct {
	Alg   Alg                `json:"alg" yaml:"alg"`
	Name  PublisherAuthority `json:"name" yaml:"name"`
	Typ   Typ                `json:"typ" yaml:"typ"`
	Value string             `json:"value" yaml:"value"`
}

// Signature is the signature stub of an envelope. Signing is not computed
// here; the structure is carried through unchanged.
type Signature struct {
	Additional []Publisher `json:"additional" yaml:"additional"`
	Publisher  Publisher   `json:"publisher" yaml:"publisher"`
}

// DefaultSignature returns an unsigned HS256/mozilliansorg/JWS stub.
func DefaultSignature() Signature {
	return Signature{
		Additional: []Publisher{},
		Publisher: Publisher{
			Alg:  HS256,
			Name: AuthorityMozilliansorg,
			Typ:  JWS,
		},
	}
}

// collection is implemented by payload types written under "values".
type collection interface {
	valuesPayload()
}

// Values is a keyed collection payload. Keys are written in sorted order.
type Values map[string]any

func (Values) valuesPayload() {}

// MarshalJSON writes a nil collection as an empty object.
func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return marshal(map[string]any(v))
}

// Len returns the number of entries.
func (v Values) Len() int {
	return len(v)
}

// Raw is an arbitrary JSON payload, used by the access-information blocks
// which carry source records verbatim.
type Raw json.RawMessage

func (Raw) valuesPayload() {}

// EmptyObject is the default access-information payload.
func EmptyObject() Raw {
	return Raw("{}")
}

// MarshalJSON writes the raw bytes, or null when unset.
func (r Raw) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON stores a copy of data.
func (r *Raw) UnmarshalJSON(data []byte) error {
	if r == nil {
		return fmt.Errorf("schema.Raw: UnmarshalJSON on nil pointer")
	}
	*r = append((*r)[0:0], data...)
	return nil
}

// Envelope wraps one profile field.
type Envelope[T any] struct {
	Metadata  Metadata
	Signature Signature
	Value     T
}

// String, Bool, Collection and AccessInfo are the envelope kinds used by Profile.
type (
	String     = Envelope[*string]
	Bool       = Envelope[bool]
	Collection = Envelope[Values]
	AccessInfo = Envelope[Raw]
)

// NewEnvelope returns an envelope with the given metadata and payload and
// the default signature.
func NewEnvelope[T any](display *Display, classification Classification, value T) Envelope[T] {
	return Envelope[T]{
		Metadata:  NewMetadata(display, classification),
		Signature: DefaultSignature(),
		Value:     value,
	}
}

// IsCollection reports whether the payload is written under "values".
func (e Envelope[T]) IsCollection() bool {
	_, ok := any(e.Value).(collection)
	return ok
}

type scalarWire[T any] struct {
	Metadata  Metadata  `json:"metadata"`
	Signature Signature `json:"signature"`
	Value     T         `json:"value"`
}

type collectionWire[T any] struct {
	Metadata  Metadata  `json:"metadata"`
	Signature Signature `json:"signature"`
	Values    T         `json:"values"`
}

// MarshalJSON picks the payload key from the payload type.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	if e.IsCollection() {
		return marshal(collectionWire[T]{Metadata: e.Metadata, Signature: e.Signature, Values: e.Value})
	}
	return marshal(scalarWire[T]{Metadata: e.Metadata, Signature: e.Signature, Value: e.Value})
}

// UnmarshalJSON reads an envelope written by MarshalJSON.
func (e *Envelope[T]) UnmarshalJSON(data []byte) error {
	var wire struct {
		Metadata  Metadata        `json:"metadata"`
		Signature Signature       `json:"signature"`
		Value     json.RawMessage `json:"value"`
		Values    json.RawMessage `json:"values"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	e.Metadata = wire.Metadata
	e.Signature = wire.Signature

	payload := wire.Value
	if e.IsCollection() {
		payload = wire.Values
	}
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, &e.Value)
}

// marshal encodes v without HTML escaping, matching the rest of the output.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
