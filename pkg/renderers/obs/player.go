// Package obs generates players for OBS-style browser sources. They take no
// host calls: everything is configured through the page URL, on top of
// defaults baked in at generation time.
package obs

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/binding"
	"github.com/goliatone/go-rivegen/pkg/render"
	rendertemplate "github.com/goliatone/go-rivegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-rivegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rivegen/pkg/schema"
	"github.com/goliatone/go-rivegen/pkg/triggers"
)

const (
	KeyPlayer         = "url-player"
	KeyEmbeddedPlayer = "url-player-embedded"

	templateName = "url-player"
	bodyIndent   = "\n      "
	onLoadIndent = "\n            "
)

// Player renders URL-driven documents. The embedded variant inlines the asset
// as base64 and plays it from a Blob URL unless the page names another one.
type Player struct {
	embedded   bool
	templates  rendertemplate.TemplateRenderer
	rivPath    string
	runtimeURL string
}

var _ render.Generator = (*Player)(nil)

// NewPlayer constructs the url-player generator.
func NewPlayer(options ...Option) (*Player, error) {
	return newPlayer(false, options)
}

// NewEmbeddedPlayer constructs the url-player-embedded generator.
func NewEmbeddedPlayer(options ...Option) (*Player, error) {
	return newPlayer(true, options)
}

func newPlayer(embedded bool, options []Option) (*Player, error) {
	cfg := &config{
		templateFS: TemplatesFS(),
		rivPath:    DefaultRivPath,
		runtimeURL: DefaultRuntimeURL,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.templatesDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithGlobalData(binding.TemplateGlobals()),
		)
		if err != nil {
			return nil, fmt.Errorf("obs: configure template renderer: %w", err)
		}
		renderer = engine
	} else if err := renderer.GlobalContext(binding.TemplateGlobals()); err != nil {
		return nil, fmt.Errorf("obs: seed template globals: %w", err)
	}
	if err := rendertemplate.RegisterFilters(renderer, binding.TemplateFilters()); err != nil {
		return nil, fmt.Errorf("obs: register template filters: %w", err)
	}

	return &Player{
		embedded:   embedded,
		templates:  renderer,
		rivPath:    cfg.rivPath,
		runtimeURL: cfg.runtimeURL,
	}, nil
}

// Key returns the registry key.
func (p *Player) Key() string {
	if p.embedded {
		return KeyEmbeddedPlayer
	}
	return KeyPlayer
}

// Describe returns the listing entry.
func (p *Player) Describe() render.Descriptor {
	if p.embedded {
		return render.Descriptor{
			Key:         KeyEmbeddedPlayer,
			Name:        "URL player (embedded asset)",
			Kind:        render.KindHTML,
			Description: "Self-contained browser source player with the .riv inlined as base64. ?asset= or ?riv= still override the embedded file.",
		}
	}
	return render.Descriptor{
		Key:         KeyPlayer,
		Name:        "URL player",
		Kind:        render.KindHTML,
		Description: "Browser source player controlled through URL parameters: vm.* values, in/out triggers and timers.",
	}
}

// Generate renders the document.
func (p *Player) Generate(ctx context.Context, s schema.Schema, cfg render.Config) (render.Document, error) {
	if err := ctx.Err(); err != nil {
		return render.Document{}, err
	}
	opts, err := p.decodeOptions(cfg.Options)
	if err != nil {
		return render.Document{}, err
	}

	asset := ""
	if p.embedded {
		data, err := render.DecodeAsset(opts.AssetBase64)
		if err != nil {
			return render.Document{}, err
		}
		if data == nil {
			return render.Document{}, fmt.Errorf("%w: assetBase64 is required", render.ErrInvalidOptions)
		}
		asset = base64.StdEncoding.EncodeToString(data)
	}

	resolver := binding.NewResolver(cfg.AliasMap)
	bindings, err := binding.BindAll(s.ViewModelProperties, resolver, binding.QueryParam)
	if err != nil {
		return render.Document{}, fmt.Errorf("obs: bind properties: %w", err)
	}

	title := "OBS Rive Player (URL)"
	if p.embedded {
		title = "OBS Rive Player (Embedded)"
	}

	result, err := p.templates.RenderTemplate(templateName, map[string]any{
		"title":        render.SanitizeTitle(opts.Title, title),
		"width":        opts.Width,
		"height":       opts.Height,
		"runtimeUrl":   opts.RuntimeURL,
		"rivPath":      opts.RivPath,
		"artboard":     s.Artboard,
		"stateMachine": s.StateMachine,
		"trigIn":       opts.Triggers.In,
		"trigOut":      opts.Triggers.Out,
		"startMs":      formatNumber(opts.StartMs),
		"outAfterMs":   formatNumber(opts.OutAfterMs),
		"clearAfterMs": formatNumber(opts.ClearAfterMs),
		"bound":        boundKeys(s.ViewModelProperties, resolver),
		"embedded":     p.embedded,
		"assetBase64":  asset,
		"defaults":     strings.Join(bakedDefaults(s, opts), bodyIndent),
		"bindings":     strings.Join(bindings, bodyIndent),
		"schedule":     strings.ReplaceAll(triggers.Schedule(), "\n", onLoadIndent),
	})
	if err != nil {
		return render.Document{}, fmt.Errorf("obs: render template: %w", err)
	}

	return render.Document{
		Kind:     render.KindHTML,
		Content:  []byte(result),
		Filename: render.SanitizeFilename(cfg.Filename, render.DefaultFilename),
	}, nil
}

// bakedDefaults returns the statements applied before any URL value. Schema
// defaults come first in declaration order (unless disabled), with vmDefaults
// overriding declared properties after coercion to their type. vmDefaults for
// undeclared names follow in key order and are probed at runtime.
func bakedDefaults(s schema.Schema, opts PlayerOptions) []string {
	var out []string
	for _, prop := range s.ViewModelProperties {
		if prop.Type == schema.PropertyTrigger {
			continue
		}
		value := prop.Value
		if !opts.IncludeDefaults {
			value = nil
		}
		if raw, ok := opts.VMDefaults[prop.Name]; ok {
			if coerced := schema.CoerceValue(prop.Type, raw); coerced != nil {
				value = coerced
			}
		}
		prop.Value = value
		if stmt, ok := binding.BindDefault(prop); ok {
			out = append(out, stmt)
		}
	}

	extras := make([]string, 0, len(opts.VMDefaults))
	for name := range opts.VMDefaults {
		if _, declared := s.Property(name); !declared && strings.TrimSpace(name) != "" {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		if raw, ok := stringify(opts.VMDefaults[name]); ok {
			out = append(out, binding.ProbeDefault(name, raw))
		}
	}
	return out
}

// boundKeys returns a JS object literal whose keys are the query parameters
// claimed by declared bindings: the external key of every property, plus the
// internal name of aliased ones so they cannot be reached through the
// fallback pass either.
func boundKeys(props []schema.Property, resolver binding.Resolver) string {
	seen := make(map[string]struct{}, len(props)*2)
	for _, prop := range props {
		seen[resolver.QueryKey(prop.Name)] = struct{}{}
		if resolver.Aliased(prop.Name) {
			seen[binding.QueryPrefix+prop.Name] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, binding.Quote(key)+": true")
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func stringify(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return formatNumber(v), true
	}
	return "", false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
