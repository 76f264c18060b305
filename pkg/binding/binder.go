package binding

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/schema"
)

// Dialect selects where a fragment reads its external value from.
type Dialect int

const (
	// ObjectLiteral reads from the parsed JSON update payload `o`.
	ObjectLiteral Dialect = iota
	// QueryParam reads from the URLSearchParams instance `params`.
	QueryParam
)

func (d Dialect) String() string {
	switch d {
	case ObjectLiteral:
		return "object-literal"
	case QueryParam:
		return "query-param"
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

//go:embed runtime/helpers.js
var runtimeHelpers string

// RuntimeHelpers returns the ES5 helper block every generated document
// embeds. It expects `r`, `vmi`, `smInputs` and `smName` to be declared in
// the enclosing scope.
func RuntimeHelpers() string {
	return runtimeHelpers
}

// TemplateGlobals are the values every document template can reference
// without per-request data: the runtime helper block as "helpers".
func TemplateGlobals() map[string]any {
	return map[string]any{"helpers": runtimeHelpers}
}

// Bind returns the fragment that applies one external value to prop. The
// property name is escaped before interpolation; externalKey is only ever
// emitted as a quoted lookup key.
func Bind(prop schema.Property, externalKey string, dialect Dialect) (string, error) {
	source, err := sourceExpr(externalKey, dialect)
	if err != nil {
		return "", err
	}
	name := Quote(prop.Name)

	var body string
	switch prop.Type {
	case schema.PropertyString:
		body = assign("string", name, "String(v)")
	case schema.PropertyNumber:
		body = "var n = Number(v); if (!isFinite(n)) return; " + assign("number", name, "n")
	case schema.PropertyBoolean:
		if dialect == QueryParam {
			body = "var b = toBool(v, null); if (b === null) return; " + assign("boolean", name, "b")
		} else {
			body = assign("boolean", name, "!!v")
		}
	case schema.PropertyColor:
		body = "var c = toColor32(v); if (c === null) return; " + assign("color", name, "c")
	case schema.PropertyTrigger:
		return wrap(triggerGuard(dialect), "fireVmTrigger("+name+");", source), nil
	default:
		return "", fmt.Errorf("binding: property %q has unsupported type %q", prop.Name, prop.Type)
	}
	return wrap("if (v == null) return;", body, source), nil
}

// BindInput returns the fragment that applies an update payload value to a
// state-machine input. Inputs are only addressable through JSON updates.
func BindInput(input schema.Input, externalKey string) (string, error) {
	source, err := sourceExpr(externalKey, ObjectLiteral)
	if err != nil {
		return "", err
	}
	name := Quote(input.Name)

	lookup := "var i = findInput(" + name + "); if (!i) return; "
	switch input.Type {
	case schema.InputBoolean:
		return wrap("if (v == null) return;", lookup+"i.value = !!v;", source), nil
	case schema.InputNumber:
		return wrap("if (v == null) return;", "var n = Number(v); if (!isFinite(n)) return; "+lookup+"i.value = n;", source), nil
	case schema.InputTrigger:
		return wrap("if (v !== true) return;", lookup+`if (typeof i.fire === "function") i.fire();`, source), nil
	}
	return "", fmt.Errorf("binding: input %q has unsupported type %q", input.Name, input.Type)
}

// BindAll binds every property in declaration order using resolver for the
// external keys.
func BindAll(props []schema.Property, resolver Resolver, dialect Dialect) ([]string, error) {
	out := make([]string, 0, len(props))
	for _, prop := range props {
		key := resolver.Key(prop.Name)
		if dialect == QueryParam {
			key = resolver.QueryKey(prop.Name)
		}
		fragment, err := Bind(prop, key, dialect)
		if err != nil {
			return nil, err
		}
		out = append(out, fragment)
	}
	return out, nil
}

// BindInputs binds every state-machine input in declaration order.
func BindInputs(inputs []schema.Input, resolver Resolver) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		fragment, err := BindInput(input, resolver.Key(input.Name))
		if err != nil {
			return nil, err
		}
		out = append(out, fragment)
	}
	return out, nil
}

func sourceExpr(key string, dialect Dialect) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("binding: external key is required")
	}
	switch dialect {
	case ObjectLiteral:
		return "o[" + Quote(key) + "]", nil
	case QueryParam:
		return "params.get(" + Quote(key) + ")", nil
	}
	return "", fmt.Errorf("binding: unsupported dialect %s", dialect)
}

func triggerGuard(dialect Dialect) string {
	if dialect == QueryParam {
		return `if (v !== "true" && v !== "1") return;`
	}
	return "if (v !== true) return;"
}

func assign(kind, name, value string) string {
	return `var it = accessor("` + kind + `", ` + name + `); if (it) it.value = ` + value + `;`
}

func wrap(guard, body, source string) string {
	return "(function (v) { " + guard + " try { " + body + " } catch (e) {} })(" + source + ");"
}
