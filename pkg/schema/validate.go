package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrInvalidSchema is matched by every validation failure via errors.Is.
var ErrInvalidSchema = errors.New("schema: invalid schema")

// Issue describes a single validation problem using a dotted path such as
// "viewModelProperties[2].name".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError aggregates every issue found while validating a schema.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrInvalidSchema.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return ErrInvalidSchema.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSchema
}

// Validate checks the schema invariants and returns a normalised copy:
// property defaults are coerced to their declared type (colors to "#RRGGBB",
// triggers to nil). The input is never mutated.
func Validate(s Schema) (Schema, error) {
	var issues []Issue
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if s.ViewModelProperties == nil {
		add("viewModelProperties", "is required")
	}
	if s.Inputs == nil {
		add("inputs", "is required")
	}

	out := Schema{
		Artboard:     s.Artboard,
		StateMachine: s.StateMachine,
		Meta:         s.Meta,
	}
	if s.ViewModelProperties != nil {
		out.ViewModelProperties = make([]Property, 0, len(s.ViewModelProperties))
	}
	if s.Inputs != nil {
		out.Inputs = make([]Input, 0, len(s.Inputs))
	}

	seen := make(map[string]int, len(s.ViewModelProperties))
	for i, prop := range s.ViewModelProperties {
		path := fmt.Sprintf("viewModelProperties[%d]", i)
		if strings.TrimSpace(prop.Name) == "" {
			add(path+".name", "is required")
		} else if first, dup := seen[prop.Name]; dup {
			add(path+".name", "duplicates viewModelProperties[%d]", first)
		} else {
			seen[prop.Name] = i
		}
		if !prop.Type.Valid() {
			add(path+".type", "unsupported type %q", prop.Type)
			continue
		}
		out.ViewModelProperties = append(out.ViewModelProperties, Property{
			Name:  prop.Name,
			Type:  prop.Type,
			Value: CoerceValue(prop.Type, prop.Value),
		})
	}

	for i, input := range s.Inputs {
		path := fmt.Sprintf("inputs[%d]", i)
		if strings.TrimSpace(input.Name) == "" {
			add(path+".name", "is required")
		}
		if !input.Type.Valid() {
			add(path+".type", "unsupported type %q", input.Type)
			continue
		}
		out.Inputs = append(out.Inputs, input)
	}

	if len(issues) > 0 {
		return Schema{}, &ValidationError{Issues: issues}
	}
	return out, nil
}

// CoerceValue normalises a raw default to the representation used for t.
// Values that cannot be coerced, and every trigger value, become nil.
func CoerceValue(t PropertyType, raw any) any {
	if raw == nil {
		return nil
	}
	switch t {
	case PropertyString:
		switch v := raw.(type) {
		case string:
			return v
		case bool:
			return strconv.FormatBool(v)
		}
		if n, ok := toFloat(raw); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return nil
	case PropertyNumber:
		if n, ok := toFloat(raw); ok {
			return n
		}
		if s, ok := raw.(string); ok {
			n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
				return n
			}
		}
		return nil
	case PropertyBoolean:
		switch v := raw.(type) {
		case bool:
			return v
		case string:
			if b, ok := ParseBool(v); ok {
				return b
			}
			return nil
		}
		if n, ok := toFloat(raw); ok {
			return n != 0
		}
		return nil
	case PropertyColor:
		if hex, ok := NormalizeColor(raw); ok {
			return hex
		}
		return nil
	}
	return nil
}

// ParseBool accepts the lexicon shared with the URL player: true/false,
// 1/0 and yes/no, case-insensitively.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

func toFloat(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
