package schema

import (
	"strconv"
)

// PropertyType enumerates the view-model property kinds a generator can bind.
type PropertyType string

const (
	PropertyString  PropertyType = "string"
	PropertyNumber  PropertyType = "number"
	PropertyBoolean PropertyType = "boolean"
	PropertyColor   PropertyType = "color"
	PropertyTrigger PropertyType = "trigger"
)

// Valid reports whether t is one of the supported property kinds.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyString, PropertyNumber, PropertyBoolean, PropertyColor, PropertyTrigger:
		return true
	}
	return false
}

// InputType enumerates state-machine input kinds.
type InputType string

const (
	InputBoolean InputType = "boolean"
	InputNumber  InputType = "number"
	InputTrigger InputType = "trigger"
)

// Valid reports whether t is one of the supported input kinds.
func (t InputType) Valid() bool {
	switch t {
	case InputBoolean, InputNumber, InputTrigger:
		return true
	}
	return false
}

// Property is a named, typed data-binding slot exposed by the asset's view
// model. Value holds the normalised default: string, float64, bool, a
// canonical "#RRGGBB" string for colors, or nil.
type Property struct {
	Name  string       `json:"name" yaml:"name"`
	Type  PropertyType `json:"type" yaml:"type"`
	Value any          `json:"value" yaml:"value"`
}

// HasDefault reports whether the property carries a usable default value.
// Triggers never do.
func (p Property) HasDefault() bool {
	return p.Type != PropertyTrigger && p.Value != nil
}

// FormatValue renders the default as text: "true"/"false" for booleans, the
// shortest decimal for numbers, and the raw string otherwise.
func (p Property) FormatValue() (string, bool) {
	if !p.HasDefault() {
		return "", false
	}
	switch v := p.Value.(type) {
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case string:
		return v, true
	}
	return "", false
}

// Input is a state-machine input. Inputs live in their own namespace, so a
// name may collide with a view-model property.
type Input struct {
	Name string    `json:"name" yaml:"name"`
	Type InputType `json:"type" yaml:"type"`
}

// Schema is the compiler input. ViewModelProperties and Inputs must be
// non-nil (possibly empty) for the schema to validate.
type Schema struct {
	Artboard            string         `json:"artboard" yaml:"artboard"`
	StateMachine        string         `json:"stateMachine" yaml:"stateMachine"`
	ViewModelProperties []Property     `json:"viewModelProperties" yaml:"viewModelProperties"`
	Inputs              []Input        `json:"inputs" yaml:"inputs"`
	Meta                map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Property looks up a view-model property by its internal name.
func (s Schema) Property(name string) (Property, bool) {
	for _, prop := range s.ViewModelProperties {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// Triggers returns the names of trigger-typed properties in declaration order.
func (s Schema) Triggers() []string {
	var out []string
	for _, prop := range s.ViewModelProperties {
		if prop.Type == PropertyTrigger {
			out = append(out, prop.Name)
		}
	}
	return out
}

// Defaults returns the properties that carry a default value, in declaration
// order.
func (s Schema) Defaults() []Property {
	var out []Property
	for _, prop := range s.ViewModelProperties {
		if prop.HasDefault() {
			out = append(out, prop)
		}
	}
	return out
}

// Clone returns a copy whose slices and meta map can be modified without
// affecting s. Nil sequences stay nil.
func (s Schema) Clone() Schema {
	out := s
	if s.ViewModelProperties != nil {
		out.ViewModelProperties = append([]Property{}, s.ViewModelProperties...)
	}
	if s.Inputs != nil {
		out.Inputs = append([]Input{}, s.Inputs...)
	}
	if s.Meta != nil {
		out.Meta = make(map[string]any, len(s.Meta))
		for k, v := range s.Meta {
			out.Meta[k] = v
		}
	}
	return out
}
