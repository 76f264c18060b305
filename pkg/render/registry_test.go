package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

type stubGenerator struct {
	key string
}

func (s stubGenerator) Key() string { return s.key }

func (s stubGenerator) Describe() render.Descriptor {
	return render.Descriptor{Key: s.key, Name: "Stub " + s.key, Kind: render.KindHTML, Description: "stub"}
}

func (s stubGenerator) Generate(context.Context, schema.Schema, render.Config) (render.Document, error) {
	return render.Document{Kind: render.KindHTML, Content: []byte(s.key)}, nil
}

func TestRegistry_StrictAndPermissiveLookups(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubGenerator{key: "b"})
	reg.MustRegister(stubGenerator{key: "a"})

	if _, err := reg.Get("missing"); !errors.Is(err, render.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if got := reg.Lookup("missing"); got == nil || got.Key() != "b" {
		t.Fatalf("Lookup should fall back to the first registered generator, got %v", got)
	}

	if err := reg.SetDefault("a"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got := reg.Lookup("missing").Key(); got != "a" {
		t.Fatalf("Lookup fallback = %q, want a", got)
	}
	if err := reg.SetDefault("zzz"); !errors.Is(err, render.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate from SetDefault, got %v", err)
	}
	if !reg.Has("a") || reg.Has("missing") {
		t.Fatalf("unexpected Has results")
	}
	if got := reg.Lookup("").Key(); got != "a" {
		t.Fatalf("Lookup(\"\") = %q, want the default", got)
	}
	if got := render.NewRegistry().Lookup("a"); got != nil {
		t.Fatalf("empty registry Lookup = %v, want nil", got)
	}
}

func TestRegistry_RejectsDuplicatesAndBlankKeys(t *testing.T) {
	reg := render.NewRegistry()
	if err := reg.Register(stubGenerator{key: "a"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(stubGenerator{key: "a"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(stubGenerator{key: "  "}); err == nil {
		t.Fatalf("expected blank key error")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil generator error")
	}
}

func TestRegistry_ListSortedByKey(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubGenerator{key: "url-player"})
	reg.MustRegister(stubGenerator{key: "host-api-canvas"})

	got := reg.List()
	keys := []string{got[0].Key, got[1].Key}
	if diff := cmp.Diff([]string{"host-api-canvas", "url-player"}, keys); diff != "" {
		t.Fatalf("list order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_EmptyLookup(t *testing.T) {
	if got := render.NewRegistry().Lookup("x"); got != nil {
		t.Fatalf("expected nil from empty registry, got %v", got)
	}
}

func TestOptions_Decode(t *testing.T) {
	type target struct {
		Path    string  `json:"rivPath"`
		StartMs float64 `json:"startMs"`
		Keep    string  `json:"keep"`
	}
	got := target{Keep: "default"}
	err := render.Options{"rivPath": "./a.riv", "startMs": 250}.Decode(&got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := target{Path: "./a.riv", StartMs: 250, Keep: "default"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}

	err = render.Options{"startMs": "soon"}.Decode(&got)
	if !errors.Is(err, render.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestFilenames(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"lowerthird.html", "lowerthird.html"},
		{"Lower Third.HTML", "Lower_Third.HTML"},
		{"../../etc/passwd", "passwd"},
		{`C:\temp\Crème brûlée.html`, "Creme_brulee.html"},
		{"", render.DefaultFilename},
	}
	for _, tc := range cases {
		if got := render.SanitizeFilename(tc.in, render.DefaultFilename); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if got := render.WithExtension("caspar-Show.html", ".zip"); got != "caspar-Show.zip" {
		t.Fatalf("WithExtension = %q", got)
	}
}

func TestSanitizeTitle(t *testing.T) {
	if got := render.SanitizeTitle("<script>alert(1)</script>Show <b>One</b>", "x"); strings.Contains(got, "<") {
		t.Fatalf("title still carries markup: %q", got)
	}
	if got := render.SanitizeTitle("  ", "Fallback"); got != "Fallback" {
		t.Fatalf("SanitizeTitle fallback = %q", got)
	}
}

func TestDecodeAsset(t *testing.T) {
	got, err := render.DecodeAsset("data:application/octet-stream;base64,UklWRQ==")
	if err != nil || string(got) != "RIVE" {
		t.Fatalf("DecodeAsset = %q, %v", got, err)
	}
	if got, err := render.DecodeAsset("  "); got != nil || err != nil {
		t.Fatalf("blank asset = %q, %v", got, err)
	}
	if _, err := render.DecodeAsset("not base64!"); !errors.Is(err, render.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}
