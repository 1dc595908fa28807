// Package save writes merged profiles as JSON or YAML, to a file, a
// writer, or a directory of numbered chunk files.
package save

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/errors"
)

// Chunks splits items into ceil(n/size) consecutive chunks of at most size
// items. The last chunk may be shorter. A non-positive size yields one
// chunk holding every item.
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// Marshal encodes v in format f. JSON is indented by two spaces without
// HTML escaping; YAML is rendered from the JSON encoding of v.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.MarshalWithOptions(v,
			yaml.UseJSONMarshaler(),
			yaml.Indent(2),
			yaml.IndentSequence(false),
		)
	}
	return nil, &errors.ValidationError{Field: "format", Value: f, Message: "unsupported format"}
}

// Items writes items according to opts.
//
// Without a split, items are written as one document to the path, or to
// the writer when no path is set. With a split of k, ceil(n/k) documents
// are written to <path>/0.<ext>, <path>/1.<ext>, ..., or to the writer one
// after the other.
func Items[T any](items []T, opts ...Option) error {
	o := Defaults().Apply(opts...)
	if !o.format.IsValid() {
		return &errors.ValidationError{Field: "format", Value: o.format, Message: "unsupported format"}
	}
	if items == nil {
		items = []T{}
	}

	if o.split <= 0 {
		return write(&o, o.path, items)
	}

	chunks := Chunks(items, o.split)
	if o.path != "" {
		if err := o.fs.MkdirAll(o.path, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", o.path, err)
		}
	}
	for i, chunk := range chunks {
		path := ""
		if o.path != "" {
			path = filepath.Join(o.path, strconv.Itoa(i)+o.format.Extension())
		}
		if err := write(&o, path, chunk); err != nil {
			return fmt.Errorf("writing chunk %d: %w", i, err)
		}
	}
	return nil
}

func write(o *Options, path string, v any) error {
	data, err := Marshal(v, o.format)
	if err != nil {
		return errors.WrapParse(o.format.String(), path, err)
	}

	if path == "" {
		if o.writer == nil {
			return &errors.ValidationError{Field: "writer", Message: "no path or writer configured"}
		}
		if _, err := o.writer.Write(data); err != nil {
			return errors.WrapIO("write", "output", err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := o.fs.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	if err := afero.WriteFile(o.fs, path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
