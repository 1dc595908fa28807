package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/agentstation/profilemerge/pkg/errors"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/types"
)

// Paths names the export files of one run. Empty paths are skipped.
type Paths struct {
	HRIS       string
	LDAP       string
	Mozillians string
}

// Data holds the records loaded from all exports.
type Data struct {
	HRIS       []*HRISRecord
	LDAP       []*LDAPRecord
	Mozillians []*MozilliansRecord
}

// Len returns the total number of records.
func (d *Data) Len() int {
	return len(d.HRIS) + len(d.LDAP) + len(d.Mozillians)
}

// Loader reads exports from a filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a Loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// LoadAll loads every configured export. The first failure aborts.
func (l *Loader) LoadAll(paths Paths) (*Data, error) {
	var (
		data = &Data{}
		err  error
	)
	if data.HRIS, err = l.LoadHRIS(paths.HRIS); err != nil {
		return nil, err
	}
	if data.LDAP, err = l.LoadLDAP(paths.LDAP); err != nil {
		return nil, err
	}
	if data.Mozillians, err = l.LoadMozillians(paths.Mozillians); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadHRIS loads the Workday export at path.
func (l *Loader) LoadHRIS(path string) ([]*HRISRecord, error) {
	return load(l, types.HRISID, path, DecodeHRIS)
}

// LoadLDAP loads the directory export at path.
func (l *Loader) LoadLDAP(path string) ([]*LDAPRecord, error) {
	return load(l, types.LDAPID, path, DecodeLDAP)
}

// LoadMozillians loads the community export at path.
func (l *Loader) LoadMozillians(path string) ([]*MozilliansRecord, error) {
	return load(l, types.MozilliansID, path, DecodeMozillians)
}

func load[T any](l *Loader, source types.SourceID, path string, decode func([]byte) ([]T, int, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.NewLoadError(source.String(), path, errors.WrapIO("read", path, err))
	}

	records, skipped, err := decode(data)
	if err != nil {
		return nil, errors.NewLoadError(source.String(), path, err)
	}

	logging.Debug().
		Str("source", source.String()).
		Str("path", path).
		Int("records", len(records)).
		Int("skipped", skipped).
		Msg("Loaded source")

	return records, nil
}

// DecodeHRIS decodes a Workday export and returns the kept records and the
// number of skipped entries.
func DecodeHRIS(data []byte) ([]*HRISRecord, int, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, errors.WrapParse("json", "hris", err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(doc["Report_Entry"], &entries); err != nil || entries == nil {
		return nil, 0, fmt.Errorf("%w: hris data should be an array", errors.ErrInvalidShape)
	}

	records := make([]*HRISRecord, 0, len(entries))
	skipped := 0
	for _, raw := range entries {
		rec := &HRISRecord{}
		if err := json.Unmarshal(raw, rec); err != nil || validate.Struct(rec) != nil {
			skipped++
			continue
		}
		rec.Raw = append(rec.Raw, raw...)
		records = append(records, rec)
	}
	return records, skipped, nil
}

type ldapIdentity struct {
	PrimaryEmail struct {
		Value Text `json:"value" validate:"required,orgdomain"`
	} `json:"primary_email"`
	UserID struct {
		Value Text `json:"value"`
	} `json:"user_id"`
}

// DecodeLDAP decodes a directory export, an object of records, in document
// order.
func DecodeLDAP(data []byte) ([]*LDAPRecord, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, 0, errors.WrapParse("json", "ldap", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, 0, fmt.Errorf("%w: ldap data should be an object", errors.ErrInvalidShape)
	}

	var (
		records []*LDAPRecord
		skipped int
	)
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, 0, errors.WrapParse("json", "ldap", err)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, 0, errors.WrapParse("json", "ldap", err)
		}

		var peek ldapIdentity
		_ = json.Unmarshal(raw, &peek)
		if validate.Struct(&peek) != nil {
			skipped++
			continue
		}

		rec := &LDAPRecord{
			key:    peek.PrimaryEmail.Value.Value,
			userID: peek.UserID.Value.Value,
		}
		if err := json.Unmarshal(raw, rec); err != nil {
			rec.err = decodeError(types.LDAPID, err)
		}
		records = append(records, rec)
	}
	if err := closeDocument(dec, "ldap"); err != nil {
		return nil, 0, err
	}
	return records, skipped, nil
}

type mozilliansIdentity struct {
	UserID Text `json:"user_id" validate:"required"`
}

// DecodeMozillians decodes a community export, an array of profiles.
func DecodeMozillians(data []byte) ([]*MozilliansRecord, int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, 0, fmt.Errorf("%w: mozillians data should be an array", errors.ErrInvalidShape)
		}
		return nil, 0, errors.WrapParse("json", "mozillians", err)
	}
	if entries == nil {
		return nil, 0, fmt.Errorf("%w: mozillians data should be an array", errors.ErrInvalidShape)
	}

	records := make([]*MozilliansRecord, 0, len(entries))
	skipped := 0
	for _, raw := range entries {
		var peek mozilliansIdentity
		_ = json.Unmarshal(raw, &peek)
		if validate.Struct(&peek) != nil {
			skipped++
			continue
		}

		rec := &MozilliansRecord{key: peek.UserID.Value}
		if err := json.Unmarshal(raw, rec); err != nil {
			rec.err = decodeError(types.MozilliansID, err)
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func closeDocument(dec *json.Decoder, source string) error {
	if _, err := dec.Token(); err != nil {
		return errors.WrapParse("json", source, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.WrapParse("json", source, fmt.Errorf("unexpected data after top-level value"))
	}
	return nil
}

func decodeError(source types.SourceID, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errors.NewShapeError(source.String(), typeErr.Field, err)
	}
	return errors.NewShapeError(source.String(), "", err)
}
