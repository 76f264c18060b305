package caspar_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/renderers/caspar"
	"github.com/goliatone/go-rivegen/pkg/schema"
	"github.com/goliatone/go-rivegen/pkg/testsupport"
)

func generate(t *testing.T, gen render.Generator, s schema.Schema, cfg render.Config) []byte {
	t.Helper()
	doc, err := gen.Generate(testsupport.Context(), s, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return doc.Content
}

func newCanvas(t *testing.T) *caspar.Generator {
	t.Helper()
	gen, err := caspar.NewCanvas()
	if err != nil {
		t.Fatalf("new canvas generator: %v", err)
	}
	return gen
}

func loaded(t *testing.T, html []byte, s schema.Schema) *testsupport.Harness {
	t.Helper()
	h := testsupport.NewHarness(t, html, testsupport.WithViewModel(s))
	h.Flush()
	return h
}

func TestCanvas_UpdateReachesTypedSetters(t *testing.T) {
	s := testsupport.SampleSchema()
	h := loaded(t, generate(t, newCanvas(t), s, render.Config{}), s)

	h.Call("update", `{"Score":42,"Title":"Hello","Live":false,"Accent":"#00FF00"}`)

	want := map[string]any{
		"number:Score": float64(42),
		"string:Title": "Hello",
		"boolean:Live": false,
		"color:Accent": float64(0xFF00FF00),
	}
	for key, value := range want {
		kind, name, _ := strings.Cut(key, ":")
		got, ok := h.Value(schema.PropertyType(kind), name)
		if !ok {
			t.Fatalf("%s was never written", key)
		}
		if diff := cmp.Diff(value, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", key, diff)
		}
	}
}

func TestCanvas_MalformedValueDoesNotBlockOthers(t *testing.T) {
	s := testsupport.SampleSchema()
	h := loaded(t, generate(t, newCanvas(t), s, render.Config{}), s)

	h.Call("update", `{"Score":"not a number","Accent":"#zz","Title":"still here"}`)

	if _, ok := h.Value(schema.PropertyNumber, "Score"); ok {
		t.Fatalf("malformed number should leave Score unchanged")
	}
	if _, ok := h.Value(schema.PropertyColor, "Accent"); ok {
		t.Fatalf("malformed color should leave Accent unchanged")
	}
	if got, _ := h.Value(schema.PropertyString, "Title"); got != "still here" {
		t.Fatalf("Title = %v, want still here", got)
	}
}

func TestHostAPI_RuntimeFailureDoesNotBlockOthers(t *testing.T) {
	s := testsupport.SampleSchema()
	webgl, err := caspar.NewWebGL()
	if err != nil {
		t.Fatalf("new webgl generator: %v", err)
	}

	for _, gen := range []*caspar.Generator{newCanvas(t), webgl} {
		t.Run(gen.Key(), func(t *testing.T) {
			h := testsupport.NewHarness(t, generate(t, gen, s, render.Config{}),
				testsupport.WithViewModel(s),
				testsupport.WithThrowingProperty("Title", schema.PropertyString),
				testsupport.WithThrowingProperty("In", schema.PropertyTrigger),
			)
			h.Flush()

			h.Call("update", `{"Title":"x","Score":42,"In":true,"Out":true,"Next":true}`)

			if _, ok := h.Value(schema.PropertyString, "Title"); ok {
				t.Fatalf("throwing setter should leave Title unset")
			}
			if got, _ := h.Value(schema.PropertyNumber, "Score"); got != float64(42) {
				t.Fatalf("Score = %v, want 42", got)
			}
			if diff := cmp.Diff([]string{"Out", "Next"}, h.Fires()); diff != "" {
				t.Fatalf("fires mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCanvas_BadJSONIsLoggedNotThrown(t *testing.T) {
	s := testsupport.SampleSchema()
	h := loaded(t, generate(t, newCanvas(t), s, render.Config{}), s)

	h.Call("update", `{"Score":`)

	if len(h.Errors()) == 0 {
		t.Fatalf("expected console error for malformed JSON")
	}
	if len(h.Writes()) != 0 {
		t.Fatalf("unexpected writes: %v", h.Writes())
	}
}

func TestCanvas_AliasReplacesInternalKey(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, newCanvas(t), s, render.Config{AliasMap: map[string]string{"headline": "Title"}})
	h := loaded(t, html, s)

	h.Call("update", `{"Title":"ignored"}`)
	if _, ok := h.Value(schema.PropertyString, "Title"); ok {
		t.Fatalf("aliased property must not be reachable by its internal name")
	}

	h.Call("update", `{"headline":"Breaking"}`)
	if got, _ := h.Value(schema.PropertyString, "Title"); got != "Breaking" {
		t.Fatalf("Title = %v, want Breaking", got)
	}
}

func TestCanvas_ColorForms(t *testing.T) {
	s := testsupport.SampleSchema()
	h := loaded(t, generate(t, newCanvas(t), s, render.Config{}), s)

	cases := []struct {
		payload string
		want    float64
	}{
		{`{"Accent":"#1A2B3C"}`, 0xFF1A2B3C},
		{`{"Accent":"#801A2B3C"}`, 0x801A2B3C},
		{`{"Accent":4278190335}`, 0xFF0000FF},
	}
	for _, tc := range cases {
		h.Call("update", tc.payload)
		got, _ := h.Value(schema.PropertyColor, "Accent")
		if got != tc.want {
			t.Fatalf("update(%s): Accent = %v, want %v", tc.payload, got, tc.want)
		}
	}
}

func TestCanvas_LifecycleWithConfiguredTriggers(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, newCanvas(t), s, render.Config{Options: render.Options{
		"casparTriggers": map[string]any{"in": "In", "out": "Out", "next": "Next"},
	}})
	h := loaded(t, html, s)

	h.Call("play")
	h.Call("next")
	h.Call("stop")
	h.Call("update", `{"In":true,"Out":false}`)
	h.Call("remove")

	if diff := cmp.Diff([]string{"In", "Next", "Out", "In"}, h.Fires()); diff != "" {
		t.Fatalf("fires mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"play:Main", "cleanup"}, h.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCanvas_LifecycleDefaults(t *testing.T) {
	s := testsupport.SampleSchema()
	h := loaded(t, generate(t, newCanvas(t), s, render.Config{}), s)

	h.Call("play")
	h.Call("next")
	h.Call("stop")

	if len(h.Fires()) != 0 {
		t.Fatalf("no trigger should fire without configuration, got %v", h.Fires())
	}
	if diff := cmp.Diff([]string{"play:Main", "stop:Main"}, h.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCanvas_InputsAndToggles(t *testing.T) {
	s := testsupport.SampleSchema()

	h := loaded(t, generate(t, newCanvas(t), s, render.Config{}), s)
	h.Call("update", `{"Hover":true,"Level":3,"Bump":true}`)
	if got, _ := h.InputValue("Hover"); got != true {
		t.Fatalf("Hover = %v", got)
	}
	if got, _ := h.InputValue("Level"); got != float64(3) {
		t.Fatalf("Level = %v", got)
	}
	if diff := cmp.Diff([]string{"Bump"}, h.InputFires()); diff != "" {
		t.Fatalf("input fires mismatch (-want +got):\n%s", diff)
	}

	html := generate(t, newCanvas(t), s, render.Config{Options: render.Options{
		"bindInputs":            false,
		"includeViewModelProps": false,
	}})
	h = loaded(t, html, s)
	h.Call("update", `{"Hover":true,"Title":"x"}`)
	if _, ok := h.InputValue("Hover"); ok {
		t.Fatalf("inputs must not be bound when bindInputs is false")
	}
	if len(h.Writes()) != 0 {
		t.Fatalf("properties must not be bound when includeViewModelProps is false: %v", h.Writes())
	}
}

func TestCanvas_RuntimeConstruction(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, newCanvas(t), s, render.Config{Options: render.Options{"rivPath": "./show.riv"}})
	h := loaded(t, html, s)

	if got, _ := h.RiveOption("src"); got != "./show.riv" {
		t.Fatalf("src = %v", got)
	}
	if got, _ := h.RiveOption("artboard"); got != "LowerThird" {
		t.Fatalf("artboard = %v", got)
	}
	if got, _ := h.RiveOption("autoplay"); got != false {
		t.Fatalf("autoplay = %v", got)
	}
	if !bytes.Contains(html, []byte(`<script src="https://unpkg.com/@rive-app/canvas"></script>`)) {
		t.Fatalf("canvas runtime script missing")
	}
}

func TestCanvas_EmptyArtboardIsUndefined(t *testing.T) {
	s := testsupport.SampleSchema()
	s.Artboard = ""
	h := loaded(t, generate(t, newCanvas(t), s, render.Config{}), s)
	if _, ok := h.RiveOption("artboard"); ok {
		t.Fatalf("empty artboard should be passed as undefined")
	}
}

func TestCanvas_EscapesHostileNames(t *testing.T) {
	s := schema.Schema{
		ViewModelProperties: []schema.Property{{Name: `Bad"</script><script>alert(1)//`, Type: schema.PropertyString}},
		Inputs:              []schema.Input{},
	}
	html := generate(t, newCanvas(t), s, render.Config{Options: render.Options{"title": "<b>Show</b> & Tell"}})

	if got := bytes.Count(html, []byte("</script>")); got != 2 {
		t.Fatalf("expected exactly two closing script tags, got %d", got)
	}
	if !bytes.Contains(html, []byte("<title>Show &amp; Tell</title>")) {
		t.Fatalf("title not sanitised:\n%s", html)
	}

	h := loaded(t, html, s)
	h.Call("update", `{"Bad\"</script><script>alert(1)//":"ok"}`)
	if got, _ := h.Value(schema.PropertyString, `Bad"</script><script>alert(1)//`); got != "ok" {
		t.Fatalf("hostile property name not bound correctly, got %v", got)
	}
}

func TestCanvas_Deterministic(t *testing.T) {
	s := testsupport.SampleSchema()
	cfg := render.Config{
		AliasMap: map[string]string{"a": "Title", "b": "Score", "c": "Accent"},
		Options:  render.Options{"casparTriggers": map[string]any{"in": "In"}},
	}
	first := generate(t, newCanvas(t), s, cfg)
	second := generate(t, newCanvas(t), s, cfg)
	if !bytes.Equal(first, second) {
		t.Fatalf("output differs between runs")
	}
}

func TestCanvas_InvalidOptions(t *testing.T) {
	s := testsupport.SampleSchema()
	for name, opts := range map[string]render.Options{
		"negative width":   {"width": -1},
		"trigger as text":  {"casparTriggers": "In"},
		"fractional width": {"width": 12.5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newCanvas(t).Generate(testsupport.Context(), s, render.Config{Options: opts})
			if !errors.Is(err, render.ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestCanvas_FilenameAndDescriptor(t *testing.T) {
	gen := newCanvas(t)
	doc, err := gen.Generate(testsupport.Context(), testsupport.SampleSchema(), render.Config{Filename: "Lower Third.html"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if doc.Filename != "Lower_Third.html" || doc.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected document metadata: %q %q", doc.Filename, doc.ContentType())
	}
	if got := gen.Describe(); got.Key != caspar.KeyCanvas || got.Kind != render.KindHTML {
		t.Fatalf("unexpected descriptor: %+v", got)
	}
}

func TestWebGL_ReplaysUpdatesReceivedBeforeLoad(t *testing.T) {
	s := testsupport.SampleSchema()
	gen, err := caspar.NewWebGL(caspar.WithRivPath("./assets/show.riv"))
	if err != nil {
		t.Fatalf("new webgl generator: %v", err)
	}
	html := generate(t, gen, s, render.Config{})

	h := testsupport.NewHarness(t, html, testsupport.WithViewModel(s))
	h.Call("update", `{"Score":5}`)
	h.Call("update", `{"Title":"early"}`)
	if len(h.Writes()) != 0 {
		t.Fatalf("nothing should be written before load: %v", h.Writes())
	}

	h.Flush()

	if got, _ := h.Value(schema.PropertyNumber, "Score"); got != float64(5) {
		t.Fatalf("Score = %v, want 5 after replay", got)
	}
	if got, _ := h.Value(schema.PropertyString, "Title"); got != "early" {
		t.Fatalf("Title = %v, want early after replay", got)
	}
	if diff := cmp.Diff([]string{"./assets/show.riv"}, h.Fetches()); diff != "" {
		t.Fatalf("fetches mismatch (-want +got):\n%s", diff)
	}
	if _, ok := h.RiveOption("buffer"); !ok {
		t.Fatalf("runtime should be constructed from fetched bytes")
	}
	if h.Constructions() != 1 {
		t.Fatalf("runtime constructed %d times", h.Constructions())
	}
	if !bytes.Contains(html, []byte(`<script src="https://unpkg.com/@rive-app/webgl"></script>`)) {
		t.Fatalf("webgl runtime script missing")
	}

	h.Call("update", `{"Score":6}`)
	if got, _ := h.Value(schema.PropertyNumber, "Score"); got != float64(6) {
		t.Fatalf("Score = %v, want 6 after load", got)
	}
}
