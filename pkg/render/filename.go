package render

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFilename is used when a request does not name its document.
const DefaultFilename = "caspar-template.html"

var unsafeFilenameChars = regexp.MustCompile(`[^\w.-]`)

// SanitizeFilename drops directory components, folds accented letters to
// their base form and replaces anything outside [A-Za-z0-9_.-] with "_".
// Case is preserved. Names made only of safe characters pass through
// unchanged.
func SanitizeFilename(name, fallback string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = fallback
	}
	base := path.Base(strings.ReplaceAll(trimmed, `\`, "/"))

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), base)
	if err == nil {
		base = folded
	}
	base = unsafeFilenameChars.ReplaceAllString(base, "_")

	if base == "" || base == "." || base == ".." || base == "/" {
		return fallback
	}
	return base
}

// WithExtension replaces the final extension of name with ext (for example
// ".zip"). Names without an extension get ext appended.
func WithExtension(name, ext string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}
