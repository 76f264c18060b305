package caspar

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/preset"
	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

const defaultAssetName = "graphics.riv"

// BundleOptions are the settings a bundle adds on top of HostOptions.
type BundleOptions struct {
	Runtime     Runtime `json:"runtime"`
	PresetLabel string  `json:"presetLabel"`
	Layer       int     `json:"layer"`
	AssetBase64 string  `json:"assetBase64"`
	AssetName   string  `json:"assetName"`
}

// Bundle packs a host-API document, its CasparCG preset and optionally the
// asset into one zip archive.
type Bundle struct {
	hosts       map[Runtime]*Generator
	presetLayer int
}

var _ render.Generator = (*Bundle)(nil)

// NewBundle constructs the host-api-bundle generator.
func NewBundle(options ...Option) (*Bundle, error) {
	cfg, err := buildConfig(options)
	if err != nil {
		return nil, err
	}
	hosts := make(map[Runtime]*Generator, 2)
	for _, runtime := range []Runtime{RuntimeCanvas, RuntimeWebGL} {
		hosts[runtime] = &Generator{
			runtime:    runtime,
			templates:  cfg.templateRenderer,
			rivPath:    cfg.rivPath,
			runtimeURL: cfg.runtimeURLs[runtime],
		}
	}
	layer := cfg.presetLayer
	if layer <= 0 {
		layer = preset.DefaultLayer
	}
	return &Bundle{hosts: hosts, presetLayer: layer}, nil
}

// Key returns the registry key.
func (b *Bundle) Key() string {
	return KeyBundle
}

// Describe returns the listing entry.
func (b *Bundle) Describe() render.Descriptor {
	return render.Descriptor{
		Key:         KeyBundle,
		Name:        "Host API bundle (zip)",
		Kind:        render.KindZIP,
		Description: "Host API document plus CasparCG preset XML and, when supplied, the .riv asset in one archive.",
	}
}

// Generate renders the document and packs the archive. Entries are written
// in a fixed order without timestamps so identical input yields identical
// bytes.
func (b *Bundle) Generate(ctx context.Context, s schema.Schema, cfg render.Config) (render.Document, error) {
	if err := ctx.Err(); err != nil {
		return render.Document{}, err
	}

	bopts := BundleOptions{Runtime: RuntimeCanvas, Layer: b.presetLayer}
	if err := cfg.Options.Decode(&bopts); err != nil {
		return render.Document{}, err
	}
	if bopts.Layer <= 0 {
		bopts.Layer = b.presetLayer
	}
	host, ok := b.hosts[Runtime(strings.ToLower(strings.TrimSpace(string(bopts.Runtime))))]
	if !ok {
		return render.Document{}, fmt.Errorf("%w: runtime must be canvas or webgl, got %q", render.ErrInvalidOptions, bopts.Runtime)
	}

	asset, err := render.DecodeAsset(bopts.AssetBase64)
	if err != nil {
		return render.Document{}, err
	}

	options := cfg.Options
	assetName := ""
	if asset != nil {
		assetName = render.SanitizeFilename(bopts.AssetName, defaultAssetName)
		if _, set := options["rivPath"]; !set {
			options = options.With("rivPath", "./"+assetName)
		}
	}

	hopts, err := host.decodeOptions(options)
	if err != nil {
		return render.Document{}, err
	}
	html, err := host.render(s, cfg.AliasMap, hopts)
	if err != nil {
		return render.Document{}, err
	}

	filename := render.SanitizeFilename(cfg.Filename, render.DefaultFilename)
	htmlName := render.WithExtension(filename, render.KindHTML.Extension())
	presetName := preset.NameFromFilename(htmlName)

	label := strings.TrimSpace(bopts.PresetLabel)
	if label == "" && asset != nil {
		label = preset.LabelFromAsset(assetName)
	}
	if label == "" {
		label = presetName
	}
	xml, err := preset.Serialize(s, label, presetName, preset.Options{Layer: bopts.Layer, SendAsJSON: true})
	if err != nil {
		return render.Document{}, fmt.Errorf("caspar: build preset: %w", err)
	}

	entries := []zipEntry{
		{name: htmlName, data: html},
		{name: render.SanitizeFilename(label+".xml", "preset.xml"), data: xml},
	}
	if asset != nil {
		entries = append(entries, zipEntry{name: assetName, data: asset})
	}
	archive, err := writeZip(entries)
	if err != nil {
		return render.Document{}, err
	}

	return render.Document{
		Kind:     render.KindZIP,
		Content:  archive,
		Filename: render.WithExtension(filename, render.KindZIP.Extension()),
	}, nil
}

type zipEntry struct {
	name string
	data []byte
}

func writeZip(entries []zipEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   entry.name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("caspar: create zip entry %q: %w", entry.name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			return nil, fmt.Errorf("caspar: write zip entry %q: %w", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("caspar: close zip: %w", err)
	}
	return buf.Bytes(), nil
}
