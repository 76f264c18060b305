package obs_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/renderers/obs"
	"github.com/goliatone/go-rivegen/pkg/schema"
	"github.com/goliatone/go-rivegen/pkg/testsupport"
)

func generate(t *testing.T, embedded bool, s schema.Schema, cfg render.Config) []byte {
	t.Helper()
	var (
		gen *obs.Player
		err error
	)
	if embedded {
		gen, err = obs.NewEmbeddedPlayer()
	} else {
		gen, err = obs.NewPlayer()
	}
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	doc, err := gen.Generate(testsupport.Context(), s, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return doc.Content
}

func open(t *testing.T, html []byte, query string, s schema.Schema, extra ...testsupport.HarnessOption) *testsupport.Harness {
	t.Helper()
	options := append([]testsupport.HarnessOption{
		testsupport.WithViewModel(s),
		testsupport.WithPageURL(testsupport.DefaultPageURL + query),
	}, extra...)
	return testsupport.NewHarness(t, html, options...)
}

func TestPlayer_QueryOverridesBakedDefault(t *testing.T) {
	s := testsupport.SampleSchema()
	h := open(t, generate(t, false, s, render.Config{}), "?vm.Title=On%20Air&vm.Score=12", s)
	h.Flush()

	if got, _ := h.Value(schema.PropertyString, "Title"); got != "On Air" {
		t.Fatalf("Title = %v, want On Air", got)
	}
	if got, _ := h.Value(schema.PropertyNumber, "Score"); got != float64(12) {
		t.Fatalf("Score = %v, want 12", got)
	}
	if got, _ := h.Value(schema.PropertyBoolean, "Live"); got != true {
		t.Fatalf("Live = %v, want baked default true", got)
	}
	if got, _ := h.Value(schema.PropertyColor, "Accent"); got != float64(0xFFFF0000) {
		t.Fatalf("Accent = %v, want baked default", got)
	}

	writes := h.Writes()
	first, last := -1, -1
	for i, w := range writes {
		if w == "string:Title" {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 || first == last {
		t.Fatalf("expected baked then query write for Title, got %v", writes)
	}
}

func TestPlayer_BooleanLexicon(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, false, s, render.Config{})

	cases := map[string]any{
		"?vm.Live=no":    false,
		"?vm.Live=0":     false,
		"?vm.Live=YES":   true,
		"?vm.Live=maybe": true,
	}
	for query, want := range cases {
		h := open(t, html, query, s)
		h.Flush()
		if got, _ := h.Value(schema.PropertyBoolean, "Live"); got != want {
			t.Fatalf("%s: Live = %v, want %v", query, got, want)
		}
	}
}

func TestPlayer_IncludeDefaultsAndVMDefaults(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, false, s, render.Config{Options: render.Options{
		"includeDefaults": false,
		"vmDefaults": map[string]any{
			"Score": "99",
			"Live":  "not a bool",
			"Extra": "probe me",
		},
	}})
	h := open(t, html, "", s, testsupport.WithProperty("Extra", schema.PropertyString))
	h.Flush()

	if _, ok := h.Value(schema.PropertyString, "Title"); ok {
		t.Fatalf("schema defaults must not be baked when includeDefaults is false")
	}
	if got, _ := h.Value(schema.PropertyNumber, "Score"); got != float64(99) {
		t.Fatalf("Score = %v, want vmDefaults value 99", got)
	}
	if _, ok := h.Value(schema.PropertyBoolean, "Live"); ok {
		t.Fatalf("uncoercible vmDefaults value must be skipped")
	}
	if got, _ := h.Value(schema.PropertyString, "Extra"); got != "probe me" {
		t.Fatalf("Extra = %v, want probed default", got)
	}
}

func TestPlayer_FallbackPassIsAdditive(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, false, s, render.Config{AliasMap: map[string]string{"headline": "Title"}})
	h := open(t, html, "?vm.Title=internal&vm.headline=aliased&vm.Extra=12&vm.Missing=x&vm.Go=1", s,
		testsupport.WithProperty("Extra", schema.PropertyNumber),
		testsupport.WithProperty("Go", schema.PropertyTrigger),
	)
	h.Flush()

	if got, _ := h.Value(schema.PropertyString, "Title"); got != "aliased" {
		t.Fatalf("Title = %v, want aliased", got)
	}
	for _, w := range h.Writes() {
		if w == "string:Missing" {
			t.Fatalf("unknown names must not be written")
		}
	}
	count := 0
	for _, w := range h.Writes() {
		if w == "string:Title" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("Title written %d times, want baked + aliased only", count)
	}
	if got, _ := h.Value(schema.PropertyNumber, "Extra"); got != float64(12) {
		t.Fatalf("Extra = %v, want 12 through the fallback pass", got)
	}
	if diff := cmp.Diff([]string{"Go"}, h.Fires()); diff != "" {
		t.Fatalf("fires mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayer_ColorRoundTrip(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, false, s, render.Config{})

	cases := map[string]float64{
		"?vm.Accent=%23336699":   0xFF336699,
		"?vm.Accent=%2380336699": 0x80336699,
		"?vm.Accent=4278190335":  0xFF0000FF,
		"?vm.Accent=oops":        0xFFFF0000,
	}
	for query, want := range cases {
		h := open(t, html, query, s)
		h.Flush()
		if got, _ := h.Value(schema.PropertyColor, "Accent"); got != want {
			t.Fatalf("%s: Accent = %v, want %v", query, got, want)
		}
	}
}

func TestPlayer_Schedule(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, false, s, render.Config{Options: render.Options{
		"startMs":      100,
		"outAfterMs":   500,
		"clearAfterMs": 200,
		"triggers":     map[string]any{"in": "In", "out": "Out"},
	}})
	h := open(t, html, "", s)

	h.Advance(0)
	h.Advance(99)
	if len(h.Calls()) != 0 || len(h.Fires()) != 0 {
		t.Fatalf("nothing should play before startMs: %v %v", h.Calls(), h.Fires())
	}
	h.Advance(1)
	if diff := cmp.Diff([]string{"play:Main"}, h.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"In"}, h.Fires()); diff != "" {
		t.Fatalf("fires mismatch (-want +got):\n%s", diff)
	}
	h.Advance(500)
	if diff := cmp.Diff([]string{"In", "Out"}, h.Fires()); diff != "" {
		t.Fatalf("fires mismatch (-want +got):\n%s", diff)
	}
	h.Advance(200)
	if diff := cmp.Diff([]string{"play:Main", "cleanup"}, h.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayer_QueryControlsScheduleAndRuntime(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, false, s, render.Config{Options: render.Options{"outAfterMs": 1000}})
	h := open(t, html, "?riv=./other.riv&ab=Alt&statemachine=SM2&startMs=-50&outAfterMs=10&in=In", s)
	h.Flush()

	if got, _ := h.RiveOption("src"); got != "./other.riv" {
		t.Fatalf("src = %v", got)
	}
	if got, _ := h.RiveOption("artboard"); got != "Alt" {
		t.Fatalf("artboard = %v", got)
	}
	if diff := cmp.Diff([]string{"play:SM2", "stop:SM2"}, h.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"In"}, h.Fires()); diff != "" {
		t.Fatalf("fires mismatch (-want +got):\n%s", diff)
	}
	if h.Now() != 10 {
		t.Fatalf("stop should happen at 10ms, clock at %v", h.Now())
	}
}

func TestPlayer_NoOutWithoutPositiveDelay(t *testing.T) {
	s := testsupport.SampleSchema()
	h := open(t, generate(t, false, s, render.Config{}), "?out=Out", s)
	h.Flush()

	if diff := cmp.Diff([]string{"play:Main"}, h.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if len(h.Fires()) != 0 {
		t.Fatalf("out must not fire without outAfterMs: %v", h.Fires())
	}
}

func TestEmbeddedPlayer_SourcePriority(t *testing.T) {
	s := testsupport.SampleSchema()
	html := generate(t, true, s, render.Config{Options: render.Options{"assetBase64": "UklWRQ=="}})

	h := open(t, html, "", s)
	h.Flush()
	if got, _ := h.RiveOption("src"); got != "blob:rivegen/1" {
		t.Fatalf("src = %v, want embedded blob", got)
	}

	h = open(t, html, "?asset=./live.riv&riv=./ignored.riv", s)
	h.Flush()
	if got, _ := h.RiveOption("src"); got != "./live.riv" {
		t.Fatalf("src = %v, want ?asset", got)
	}
	if h.Blobs() != 0 {
		t.Fatalf("embedded asset should not be decoded when the URL names one")
	}
}

func TestEmbeddedPlayer_RequiresValidAsset(t *testing.T) {
	gen, err := obs.NewEmbeddedPlayer()
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	for _, opts := range []render.Options{nil, {"assetBase64": "@@"}} {
		_, err := gen.Generate(testsupport.Context(), testsupport.SampleSchema(), render.Config{Options: opts})
		if !errors.Is(err, render.ErrInvalidOptions) {
			t.Fatalf("expected ErrInvalidOptions for %v, got %v", opts, err)
		}
	}
}

func TestPlayer_Deterministic(t *testing.T) {
	s := testsupport.SampleSchema()
	cfg := render.Config{
		AliasMap: map[string]string{"h": "Title", "s": "Score"},
		Options: render.Options{"vmDefaults": map[string]any{
			"b": "1", "a": "2", "Score": 3,
		}},
	}
	if !bytes.Equal(generate(t, false, s, cfg), generate(t, false, s, cfg)) {
		t.Fatalf("output differs between runs")
	}
}

func TestPlayer_BoundKeysClaimAliasedNames(t *testing.T) {
	s := schema.Schema{ViewModelProperties: []schema.Property{
		{Name: "Title", Type: schema.PropertyString},
		{Name: "Score", Type: schema.PropertyNumber},
	}}

	cases := []struct {
		name    string
		aliases map[string]string
		want    string
	}{
		{"plain", nil, `var BOUND = {"vm.Score": true, "vm.Title": true};`},
		{"aliased", map[string]string{"headline": "Title"}, `var BOUND = {"vm.Score": true, "vm.Title": true, "vm.headline": true};`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			html := generate(t, false, s, render.Config{AliasMap: tc.aliases})
			if !bytes.Contains(html, []byte(tc.want)) {
				t.Fatalf("expected %s in document", tc.want)
			}
		})
	}
}
