package testsupport

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-rivegen/pkg/schema"
)

// DefaultPageURL is the location generated documents see unless overridden.
const DefaultPageURL = "file:///templates/graphic.html"

var inlineScript = regexp.MustCompile(`(?s)<script>(.*?)</script>`)

// HarnessOption configures a Harness before the document script runs.
type HarnessOption func(*harnessConfig)

type harnessConfig struct {
	pageURL string
	props   map[string]string
	inputs  []schema.Input
	throws  map[string]bool
}

// WithPageURL sets window.location.href, including the query string URL
// driven documents read.
func WithPageURL(raw string) HarnessOption {
	return func(cfg *harnessConfig) {
		cfg.pageURL = raw
	}
}

// WithViewModel declares every property and input of s on the fake runtime.
func WithViewModel(s schema.Schema) HarnessOption {
	return func(cfg *harnessConfig) {
		for _, prop := range s.ViewModelProperties {
			cfg.props[prop.Name] = string(prop.Type)
		}
		cfg.inputs = append(cfg.inputs, s.Inputs...)
	}
}

// WithProperty declares a view-model property the schema may not know about.
func WithProperty(name string, kind schema.PropertyType) HarnessOption {
	return func(cfg *harnessConfig) {
		cfg.props[name] = string(kind)
	}
}

// WithThrowingProperty declares a property whose runtime accessor throws:
// setting the value of a typed property, or firing a trigger, raises a JS
// error. The property is declared if it was not already.
func WithThrowingProperty(name string, kind schema.PropertyType) HarnessOption {
	return func(cfg *harnessConfig) {
		cfg.props[name] = string(kind)
		cfg.throws[string(kind)+":"+name] = true
	}
}

// Harness executes the inline script of a generated document inside goja
// against a fake Rive runtime, a virtual clock and minimal DOM shims. It
// records every view-model write, trigger fire and playback call.
type Harness struct {
	t  testing.TB
	vm *goja.Runtime
}

// NewHarness loads document and runs its inline scripts. Timers, including
// the runtime's onLoad callback, only run on Advance or Flush.
func NewHarness(t testing.TB, document []byte, options ...HarnessOption) *Harness {
	t.Helper()

	cfg := &harnessConfig{pageURL: DefaultPageURL, props: map[string]string{}, throws: map[string]bool{}}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	h := &Harness{t: t, vm: goja.New()}
	h.set("__pageURL", cfg.pageURL)
	h.set("__queryJSON", mustJSON(t, queryPairs(t, cfg.pageURL)))
	h.set("__declJSON", mustJSON(t, cfg.props))
	h.set("__inputJSON", mustJSON(t, cfg.inputs))
	h.set("__throwJSON", mustJSON(t, cfg.throws))
	h.set("atob", func(s string) (string, error) {
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", err
		}
		runes := make([]rune, len(raw))
		for i, b := range raw {
			runes[i] = rune(b)
		}
		return string(runes), nil
	})

	if _, err := h.vm.RunString(harnessPrelude); err != nil {
		t.Fatalf("harness prelude: %v", err)
	}

	scripts := inlineScript.FindAllSubmatch(document, -1)
	if len(scripts) == 0 {
		t.Fatalf("document has no inline script")
	}
	for _, match := range scripts {
		if _, err := h.vm.RunString(string(match[1])); err != nil {
			t.Fatalf("run document script: %v", err)
		}
	}
	return h
}

// Call invokes a global function such as play or update.
func (h *Harness) Call(name string, args ...any) {
	h.t.Helper()

	fn, ok := goja.AssertFunction(h.vm.Get(name))
	if !ok {
		h.t.Fatalf("%s is not a function", name)
	}
	values := make([]goja.Value, 0, len(args))
	for _, arg := range args {
		values = append(values, h.vm.ToValue(arg))
	}
	if _, err := fn(goja.Undefined(), values...); err != nil {
		h.t.Fatalf("call %s: %v", name, err)
	}
}

// Defined reports whether a global of the given name exists.
func (h *Harness) Defined(name string) bool {
	v := h.vm.Get(name)
	return v != nil && !goja.IsUndefined(v)
}

// Advance moves the virtual clock forward by ms, running due timers in order.
func (h *Harness) Advance(ms float64) {
	h.t.Helper()
	h.eval(fmt.Sprintf("__advance(%s)", strconv.FormatFloat(ms, 'f', -1, 64)))
}

// Flush runs every pending timer, including ones scheduled while flushing.
func (h *Harness) Flush() {
	h.t.Helper()
	h.eval("__advance(Infinity)")
}

// Now returns the virtual clock in milliseconds.
func (h *Harness) Now() float64 {
	h.t.Helper()
	return h.eval("__now").ToFloat()
}

// Value returns the last value written to a view-model property. Numbers are
// reported as float64.
func (h *Harness) Value(kind schema.PropertyType, name string) (any, bool) {
	h.t.Helper()
	v := h.eval("__log.sets[" + strconv.Quote(string(kind)+":"+name) + "]")
	if goja.IsUndefined(v) {
		return nil, false
	}
	return normalize(v.Export()), true
}

// Writes returns "kind:name" for every view-model write in order.
func (h *Harness) Writes() []string {
	h.t.Helper()
	return h.strings("__log.order")
}

// Fires returns the view-model triggers fired, in order.
func (h *Harness) Fires() []string {
	h.t.Helper()
	return h.strings("__log.fires")
}

// InputValue returns the last value written to a state-machine input.
func (h *Harness) InputValue(name string) (any, bool) {
	h.t.Helper()
	v := h.eval("__log.inputs[" + strconv.Quote(name) + "]")
	if goja.IsUndefined(v) {
		return nil, false
	}
	return normalize(v.Export()), true
}

// InputFires returns the state-machine trigger inputs fired, in order.
func (h *Harness) InputFires() []string {
	h.t.Helper()
	return h.strings("__log.inputFires")
}

// Calls returns the playback calls made on the runtime, for example
// "play:Main", "stop:Main" or "cleanup".
func (h *Harness) Calls() []string {
	h.t.Helper()
	return h.strings("__log.calls")
}

// Errors returns the messages passed to console.error.
func (h *Harness) Errors() []string {
	h.t.Helper()
	return h.strings("__log.errors")
}

// Fetches returns the URLs requested through XMLHttpRequest.
func (h *Harness) Fetches() []string {
	h.t.Helper()
	return h.strings("__log.fetches")
}

// Blobs returns the number of object URLs created.
func (h *Harness) Blobs() int {
	h.t.Helper()
	return int(h.eval("__log.blobs.length").ToInteger())
}

// Constructions returns how many runtime instances were created.
func (h *Harness) Constructions() int {
	h.t.Helper()
	return int(h.eval("__log.constructed").ToInteger())
}

// RiveOption returns a field of the options the runtime was constructed with.
// Missing and undefined fields report false.
func (h *Harness) RiveOption(field string) (any, bool) {
	h.t.Helper()
	v := h.eval("__log.options ? __log.options[" + strconv.Quote(field) + "] : undefined")
	if goja.IsUndefined(v) {
		return nil, false
	}
	return normalize(v.Export()), true
}

// Dispatch fires the listeners registered for a window event.
func (h *Harness) Dispatch(event string) {
	h.t.Helper()
	h.eval("__dispatch(" + strconv.Quote(event) + ")")
}

func (h *Harness) set(name string, value any) {
	if err := h.vm.Set(name, value); err != nil {
		h.t.Fatalf("set %s: %v", name, err)
	}
}

func (h *Harness) eval(src string) goja.Value {
	h.t.Helper()
	v, err := h.vm.RunString(src)
	if err != nil {
		h.t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

func (h *Harness) strings(expr string) []string {
	h.t.Helper()
	raw, ok := h.eval(expr + ".slice()").Export().([]any)
	if !ok {
		h.t.Fatalf("%s is not an array", expr)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func normalize(v any) any {
	switch n := v.(type) {
	case int64:
		return float64(n)
	}
	return v
}

// queryPairs splits the query of raw into ordered, decoded key/value pairs,
// the same way URLSearchParams does.
func queryPairs(t testing.TB, raw string) [][2]string {
	t.Helper()

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse page url: %v", err)
	}
	var out [][2]string
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			t.Fatalf("decode query key %q: %v", key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			t.Fatalf("decode query value %q: %v", value, err)
		}
		out = append(out, [2]string{k, v})
	}
	return out
}

func mustJSON(t testing.TB, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal harness data: %v", err)
	}
	return string(b)
}
