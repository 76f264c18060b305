package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rivegen/pkg/schema"
)

// SampleSchema returns a validated lower-third schema that exercises every
// property type plus one input of each kind.
func SampleSchema() schema.Schema {
	return schema.Schema{
		Artboard:     "LowerThird",
		StateMachine: "Main",
		ViewModelProperties: []schema.Property{
			{Name: "Title", Type: schema.PropertyString, Value: "Breaking News"},
			{Name: "Score", Type: schema.PropertyNumber, Value: float64(7)},
			{Name: "Live", Type: schema.PropertyBoolean, Value: true},
			{Name: "Accent", Type: schema.PropertyColor, Value: "#FF0000"},
			{Name: "Subtitle", Type: schema.PropertyString},
			{Name: "In", Type: schema.PropertyTrigger},
			{Name: "Out", Type: schema.PropertyTrigger},
			{Name: "Next", Type: schema.PropertyTrigger},
		},
		Inputs: []schema.Input{
			{Name: "Hover", Type: schema.InputBoolean},
			{Name: "Level", Type: schema.InputNumber},
			{Name: "Bump", Type: schema.InputTrigger},
		},
	}
}

// LoadSchema reads and validates a schema fixture, failing the test on error.
func LoadSchema(t testing.TB, path string) schema.Schema {
	t.Helper()

	s, err := schema.LoadFile(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return s
}

// MustParseSchema parses an inline JSON schema, failing the test on error.
func MustParseSchema(t testing.TB, raw string) schema.Schema {
	t.Helper()

	s, err := schema.Parse([]byte(raw), schema.FormatJSON)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return s
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t testing.TB, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
