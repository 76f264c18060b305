package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var titlePolicy = bluemonday.StrictPolicy()

// SanitizeTitle strips markup from a document title and returns text that is
// already HTML-escaped, so templates emit it unescaped. Blank titles fall back
// to fallback.
func SanitizeTitle(title, fallback string) string {
	cleaned := strings.TrimSpace(titlePolicy.Sanitize(title))
	if cleaned == "" {
		cleaned = titlePolicy.Sanitize(fallback)
	}
	return cleaned
}
