package render

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Config carries the per-request inputs a generator needs besides the
// schema.
type Config struct {
	// Filename is the requested document name. Generators that bundle
	// several files derive inner names from it.
	Filename string
	// AliasMap renames properties at the protocol boundary: external key ->
	// internal property name.
	AliasMap map[string]string
	// Options holds dialect-specific settings as decoded from the request.
	Options Options
}

// Options is the loosely typed option bag sent by callers. Generators decode
// it into their own typed struct with Decode.
type Options map[string]any

// Decode copies the options into target (a pointer to a struct with json
// tags). Fields absent from the bag keep the values target already holds, so
// callers seed target with their defaults first.
func (o Options) Decode(target any) error {
	if len(o) == 0 {
		return nil
	}
	raw, err := json.Marshal(map[string]any(o))
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrInvalidOptions, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// With returns a shallow copy with key set to value.
func (o Options) With(key string, value any) Options {
	out := make(Options, len(o)+1)
	for k, v := range o {
		out[k] = v
	}
	out[key] = value
	return out
}
