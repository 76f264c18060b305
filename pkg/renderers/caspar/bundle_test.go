package caspar_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/renderers/caspar"
	"github.com/goliatone/go-rivegen/pkg/testsupport"
)

func readZip(t *testing.T, data []byte) (names []string, files map[string]string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	files = make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		names = append(names, f.Name)
		files[f.Name] = string(body)
	}
	return names, files
}

func TestBundle_PacksDocumentPresetAndAsset(t *testing.T) {
	gen, err := caspar.NewBundle(caspar.WithPresetLayer(30))
	if err != nil {
		t.Fatalf("new bundle: %v", err)
	}
	doc, err := gen.Generate(testsupport.Context(), testsupport.SampleSchema(), render.Config{
		Filename: "caspar-Show.html",
		Options: render.Options{
			"runtime":     "webgl",
			"assetBase64": "UklWRQ==",
			"assetName":   "MyGraphic.riv",
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if doc.Kind != render.KindZIP || doc.Filename != "caspar-Show.zip" || doc.ContentType() != "application/zip" {
		t.Fatalf("unexpected document metadata: %+v", doc.Filename)
	}

	names, files := readZip(t, doc.Content)
	if diff := cmp.Diff([]string{"caspar-Show.html", "MyGraphic.xml", "MyGraphic.riv"}, names); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if files["MyGraphic.riv"] != "RIVE" {
		t.Fatalf("asset not packed verbatim")
	}
	html := files["caspar-Show.html"]
	if !strings.Contains(html, `var RIVE_FILE = "./MyGraphic.riv";`) {
		t.Fatalf("document does not reference the packed asset")
	}
	xml := files["MyGraphic.xml"]
	for _, want := range []string{
		"<name>caspar-Show</name>",
		"<label>MyGraphic</label>",
		"<flashlayer>30</flashlayer>",
		"<id>Title</id>",
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("preset missing %q:\n%s", want, xml)
		}
	}
}

func TestBundle_WithoutAssetUsesRequestedPath(t *testing.T) {
	gen, err := caspar.NewBundle()
	if err != nil {
		t.Fatalf("new bundle: %v", err)
	}
	cfg := render.Config{
		Filename: "show.html",
		Options:  render.Options{"rivPath": "../shared/show.riv", "presetLabel": "Show Open"},
	}
	doc, err := gen.Generate(testsupport.Context(), testsupport.SampleSchema(), cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	names, files := readZip(t, doc.Content)
	if diff := cmp.Diff([]string{"show.html", "Show_Open.xml"}, names); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(files["show.html"], `src: "../shared/show.riv"`) {
		t.Fatalf("canvas document should keep the requested rivPath")
	}
	if !strings.Contains(files["Show_Open.xml"], "<flashlayer>20</flashlayer>") {
		t.Fatalf("expected default layer")
	}

	again, err := gen.Generate(testsupport.Context(), testsupport.SampleSchema(), cfg)
	if err != nil {
		t.Fatalf("generate again: %v", err)
	}
	if !bytes.Equal(doc.Content, again.Content) {
		t.Fatalf("bundle output is not deterministic")
	}
}

func TestBundle_RejectsBadOptions(t *testing.T) {
	gen, err := caspar.NewBundle()
	if err != nil {
		t.Fatalf("new bundle: %v", err)
	}
	for name, opts := range map[string]render.Options{
		"runtime": {"runtime": "svg"},
		"asset":   {"assetBase64": "%%%"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := gen.Generate(testsupport.Context(), testsupport.SampleSchema(), render.Config{Options: opts})
			if !errors.Is(err, render.ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}
