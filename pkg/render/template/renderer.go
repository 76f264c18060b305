package template

import (
	"errors"
	"io"
	"sort"
)

// ErrFilterExists is returned by RegisterFilter when the name is taken.
var ErrFilterExists = errors.New("template: filter already registered")

// FilterFunc transforms a template value. param is nil when the filter is
// used without an argument.
type FilterFunc func(input any, param any) (any, error)

// TemplateRenderer is the engine contract generators depend on. Templates are
// addressed by name without extension; out writers receive a copy of the
// rendered text.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// RegisterFilters registers every filter in name order. Names that are
// already registered are skipped, so several generators can share one
// engine (or pongo2's process-wide filter table).
func RegisterFilters(r TemplateRenderer, filters map[string]FilterFunc) error {
	if r == nil {
		return errors.New("template: renderer is nil")
	}
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.RegisterFilter(name, filters[name]); err != nil && !errors.Is(err, ErrFilterExists) {
			return err
		}
	}
	return nil
}
