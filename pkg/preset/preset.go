// Package preset builds CasparCG client preset XML for generated documents.
package preset

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/schema"
)

// DefaultLayer is the flash layer used when none is configured.
const DefaultLayer = 20

// ErrNameRequired is returned when the template name is blank.
var ErrNameRequired = errors.New("preset: template name is required")

// Options tunes the preset item.
type Options struct {
	Layer      int
	SendAsJSON bool
}

// DefaultOptions returns layer 20 with JSON payloads enabled.
func DefaultOptions() Options {
	return Options{Layer: DefaultLayer, SendAsJSON: true}
}

// ComponentData is one templatedata row: a property name and its default.
type ComponentData struct {
	ID    string
	Value string
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Escape escapes the five XML-significant characters.
func Escape(s string) string {
	return xmlEscaper.Replace(s)
}

// Components lists the non-trigger properties of s that carry a default, in
// declaration order, keyed by their internal names.
func Components(s schema.Schema) []ComponentData {
	var out []ComponentData
	for _, prop := range s.Defaults() {
		value, ok := prop.FormatValue()
		if !ok {
			continue
		}
		out = append(out, ComponentData{ID: prop.Name, Value: value})
	}
	return out
}

// Serialize renders the preset for the document the host knows as name.
// name is written verbatim; label falls back to name when blank.
func Serialize(s schema.Schema, label, name string, opts Options) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(label) == "" {
		label = name
	}
	layer := opts.Layer
	if layer <= 0 {
		layer = DefaultLayer
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n")
	b.WriteString("<items>\n")
	b.WriteString("  <item>\n")
	b.WriteString("    <type>TEMPLATE</type>\n")
	fmt.Fprintf(&b, "    <label>%s</label>\n", Escape(label))
	fmt.Fprintf(&b, "    <name>%s</name>\n", Escape(name))
	fmt.Fprintf(&b, "    <flashlayer>%d</flashlayer>\n", layer)
	b.WriteString("    <invoke></invoke>\n")
	b.WriteString("    <usestoreddata>false</usestoreddata>\n")
	b.WriteString("    <useuppercasedata>false</useuppercasedata>\n")
	b.WriteString("    <triggeronnext>false</triggeronnext>\n")
	fmt.Fprintf(&b, "    <sendasjson>%s</sendasjson>\n", strconv.FormatBool(opts.SendAsJSON))

	rows := Components(s)
	if len(rows) == 0 {
		b.WriteString("    <templatedata />\n")
	} else {
		b.WriteString("    <templatedata>\n")
		for _, row := range rows {
			b.WriteString("      <componentdata>\n")
			fmt.Fprintf(&b, "        <id>%s</id>\n", Escape(row.ID))
			fmt.Fprintf(&b, "        <value>%s</value>\n", Escape(row.Value))
			b.WriteString("      </componentdata>\n")
		}
		b.WriteString("    </templatedata>\n")
	}

	b.WriteString("    <color>Transparent</color>\n")
	b.WriteString("  </item>\n")
	b.WriteString("</items>\n")
	return []byte(b.String()), nil
}

// NameFromFilename strips the final extension of a document filename. Case
// is preserved so the host resolves the same template file.
func NameFromFilename(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

var illegalLabelChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// LabelFromAsset derives a preset label from an asset filename by dropping
// its extension and replacing path-illegal characters. Blank results fall
// back to "preset".
func LabelFromAsset(filename string) string {
	trimmed := strings.TrimSpace(filename)
	label := strings.TrimSuffix(trimmed, path.Ext(trimmed))
	label = strings.TrimSpace(illegalLabelChars.ReplaceAllString(label, "_"))
	if label == "" {
		return "preset"
	}
	return label
}
