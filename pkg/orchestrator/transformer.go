package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-rivegen/pkg/schema"
)

// Transformer rewrites a schema before validation. Implementations receive a
// private copy and may change it freely.
type Transformer interface {
	Transform(ctx context.Context, s *schema.Schema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, s *schema.Schema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, s *schema.Schema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, s)
}

// PatchTransformer applies declarative overrides loaded from a JSON document,
// typically to pin per-deployment defaults:
//
//	{
//	  "artboard": "LowerThird",
//	  "stateMachine": "Main",
//	  "properties": {
//	    "Title": {"value": "Evening News", "rename": "Headline"}
//	  },
//	  "remove": ["Subtitle"]
//	}
type PatchTransformer struct {
	document patchDocument
}

type patchDocument struct {
	Artboard     *string                  `json:"artboard"`
	StateMachine *string                  `json:"stateMachine"`
	Properties   map[string]propertyPatch `json:"properties"`
	Remove       []string                 `json:"remove"`
}

type propertyPatch struct {
	Value  json.RawMessage `json:"value"`
	Rename string          `json:"rename"`
}

// NewPatchTransformer constructs a transformer from raw JSON bytes.
func NewPatchTransformer(data []byte) (*PatchTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("patch transformer: document is empty")
	}
	var document patchDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("patch transformer: parse document: %w", err)
	}
	return &PatchTransformer{document: document}, nil
}

// NewPatchTransformerFromFS loads a patch document from the provided
// filesystem path.
func NewPatchTransformerFromFS(fsys fs.FS, path string) (*PatchTransformer, error) {
	if fsys == nil {
		return nil, errors.New("patch transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("patch transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("patch transformer: read %s: %w", path, err)
	}
	return NewPatchTransformer(data)
}

// Transform applies the patch. Property patches run in name order and remove
// matches names after renames. Patches naming undeclared properties fail.
func (t *PatchTransformer) Transform(ctx context.Context, s *schema.Schema) error {
	if t == nil || s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := t.document
	if doc.Artboard != nil {
		s.Artboard = *doc.Artboard
	}
	if doc.StateMachine != nil {
		s.StateMachine = *doc.StateMachine
	}

	names := make([]string, 0, len(doc.Properties))
	for name := range doc.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		patch := doc.Properties[name]
		idx := propertyIndex(s.ViewModelProperties, name)
		if idx < 0 {
			return fmt.Errorf("patch transformer: property %q not found", name)
		}
		prop := &s.ViewModelProperties[idx]
		if len(patch.Value) > 0 {
			var value any
			if err := json.Unmarshal(patch.Value, &value); err != nil {
				return fmt.Errorf("patch transformer: property %q value: %w", name, err)
			}
			prop.Value = value
		}
		if rename := strings.TrimSpace(patch.Rename); rename != "" {
			prop.Name = rename
		}
	}

	if len(doc.Remove) > 0 && s.ViewModelProperties != nil {
		drop := make(map[string]bool, len(doc.Remove))
		for _, name := range doc.Remove {
			drop[name] = true
		}
		kept := make([]schema.Property, 0, len(s.ViewModelProperties))
		for _, prop := range s.ViewModelProperties {
			if !drop[prop.Name] {
				kept = append(kept, prop)
			}
		}
		s.ViewModelProperties = kept
	}
	return nil
}

func propertyIndex(props []schema.Property, name string) int {
	for i, prop := range props {
		if prop.Name == name {
			return i
		}
	}
	return -1
}
