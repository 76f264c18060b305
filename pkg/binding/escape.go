package binding

import (
	"fmt"
	"strings"

	rendertemplate "github.com/goliatone/go-rivegen/pkg/render/template"
)

// EscapeJS escapes s for embedding between double or single quotes in
// generated script. Besides quotes and backslashes it escapes control
// characters, the HTML-significant runes and the JS line separators so the
// literal cannot terminate the surrounding <script> element.
func EscapeJS(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '<':
			b.WriteString(`\u003c`)
		case '>':
			b.WriteString(`\u003e`)
		case '&':
			b.WriteString(`\u0026`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Quote returns s as a double-quoted JS string literal.
func Quote(s string) string {
	return `"` + EscapeJS(s) + `"`
}

// QuoteOrUndefined returns a string literal, or the bare `undefined` when s
// is empty so the runtime falls back to the asset default.
func QuoteOrUndefined(s string) string {
	if s == "" {
		return "undefined"
	}
	return Quote(s)
}

// Template filter names registered by TemplateFilters.
const (
	FilterQuote            = "jsquote"
	FilterQuoteOrUndefined = "jsquote_or_undefined"
)

// TemplateFilters returns the filters document templates use to emit JS
// string literals. Non-string inputs are formatted with fmt.Sprint; nil is
// treated as empty.
func TemplateFilters() map[string]rendertemplate.FilterFunc {
	return map[string]rendertemplate.FilterFunc{
		FilterQuote: func(input any, _ any) (any, error) {
			return Quote(filterString(input)), nil
		},
		FilterQuoteOrUndefined: func(input any, _ any) (any, error) {
			return QuoteOrUndefined(filterString(input)), nil
		},
	}
}

func filterString(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(input)
}
