package schema

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a schema document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// wireSchema keeps presence information for the required sequences so a
// missing key can be told apart from an empty list.
type wireSchema struct {
	Artboard            string         `json:"artboard" yaml:"artboard"`
	StateMachine        string         `json:"stateMachine" yaml:"stateMachine"`
	ViewModelProperties *[]Property    `json:"viewModelProperties" yaml:"viewModelProperties"`
	ViewModelProps      *[]Property    `json:"viewModelProps" yaml:"viewModelProps"`
	Inputs              *[]Input       `json:"inputs" yaml:"inputs"`
	Meta                map[string]any `json:"meta" yaml:"meta"`
}

// Parse decodes and validates a schema document. The legacy key
// "viewModelProps" is accepted when "viewModelProperties" is absent.
func Parse(data []byte, format Format) (Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Schema{}, &ValidationError{Issues: []Issue{{Path: "schema", Message: "is required"}}}
	}

	var wire wireSchema
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, &wire); err != nil {
			return Schema{}, fmt.Errorf("%w: decode yaml: %v", ErrInvalidSchema, err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return Schema{}, fmt.Errorf("%w: decode json: %v", ErrInvalidSchema, err)
		}
	default:
		return Schema{}, fmt.Errorf("schema: unsupported format %q", format)
	}

	return Validate(wire.schema())
}

func (w wireSchema) schema() Schema {
	out := Schema{
		Artboard:     w.Artboard,
		StateMachine: w.StateMachine,
		Meta:         w.Meta,
	}
	props := w.ViewModelProperties
	if props == nil {
		props = w.ViewModelProps
	}
	if props != nil {
		out.ViewModelProperties = *props
		if out.ViewModelProperties == nil {
			out.ViewModelProperties = []Property{}
		}
	}
	if w.Inputs != nil {
		out.Inputs = *w.Inputs
		if out.Inputs == nil {
			out.Inputs = []Input{}
		}
	}
	return out
}

// FormatFromPath infers the document format from a file extension,
// defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// LoadFile reads and validates a schema document from disk.
func LoadFile(path string) (Schema, error) {
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read %s: %w", clean, err)
	}
	return Parse(data, FormatFromPath(clean))
}

// LoadFS reads and validates a schema document from an fs.FS.
func LoadFS(fsys fs.FS, name string) (Schema, error) {
	if fsys == nil {
		return Schema{}, fmt.Errorf("schema: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(data, FormatFromPath(name))
}
