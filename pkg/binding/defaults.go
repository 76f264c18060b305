package binding

import (
	"math"
	"strconv"

	"github.com/goliatone/go-rivegen/pkg/schema"
)

// BindDefault returns the statement that writes prop's validated default
// through its typed accessor. It reports false when the property carries no
// default or the value does not fit its type.
func BindDefault(prop schema.Property) (string, bool) {
	if !prop.HasDefault() {
		return "", false
	}
	name := Quote(prop.Name)

	var kind, literal string
	switch prop.Type {
	case schema.PropertyString:
		s, ok := prop.Value.(string)
		if !ok {
			return "", false
		}
		kind, literal = "string", Quote(s)
	case schema.PropertyNumber:
		n, ok := prop.Value.(float64)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return "", false
		}
		kind, literal = "number", strconv.FormatFloat(n, 'g', -1, 64)
	case schema.PropertyBoolean:
		b, ok := prop.Value.(bool)
		if !ok {
			return "", false
		}
		kind, literal = "boolean", strconv.FormatBool(b)
	case schema.PropertyColor:
		packed, ok := schema.ParseColor(prop.Value)
		if !ok {
			return "", false
		}
		kind, literal = "color", strconv.FormatUint(uint64(packed), 10)
	default:
		return "", false
	}
	return "try { " + assign(kind, name, literal) + " } catch (e) {}", true
}

// ProbeDefault returns the statement that assigns raw to a view-model
// property the schema does not declare, trying each accessor kind in turn.
func ProbeDefault(name, raw string) string {
	return "probeAssign(" + Quote(name) + ", " + Quote(raw) + ");"
}
