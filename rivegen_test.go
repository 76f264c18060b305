package rivegen

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-rivegen/pkg/testsupport"
)

func TestCompileDefaultsToCanvas(t *testing.T) {
	doc, err := Compile(context.Background(), testsupport.SampleSchema(), "", "show.html", nil)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if doc.Filename != "show.html" || !strings.Contains(string(doc.Content), "@rive-app/canvas") {
		t.Fatalf("unexpected document %q", doc.Filename)
	}
}

func TestEmbeddedTemplatesReadable(t *testing.T) {
	for name, fsys := range map[string]fs.FS{
		"host-api-canvas.tmpl": HostTemplates(),
		"host-api-webgl.tmpl":  HostTemplates(),
		"url-player.tmpl":      PlayerTemplates(),
	} {
		if _, err := fs.ReadFile(fsys, name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestRuntimeHelpersIncludeColorPacking(t *testing.T) {
	if !strings.Contains(RuntimeHelpers(), "function toColor32") {
		t.Fatalf("expected runtime helpers to define toColor32")
	}
}
