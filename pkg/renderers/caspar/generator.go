// Package caspar generates documents driven by a CasparCG-style playout host
// through the play, stop, next, remove and update(json) verbs.
package caspar

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/binding"
	"github.com/goliatone/go-rivegen/pkg/render"
	rendertemplate "github.com/goliatone/go-rivegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-rivegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rivegen/pkg/schema"
	"github.com/goliatone/go-rivegen/pkg/triggers"
)

// Runtime selects the Rive renderer a host-API document loads.
type Runtime string

const (
	RuntimeCanvas Runtime = "canvas"
	RuntimeWebGL  Runtime = "webgl"
)

const (
	KeyCanvas = "host-api-canvas"
	KeyWebGL  = "host-api-webgl"
	KeyBundle = "host-api-bundle"
)

const setterIndent = "\n      "

// Generator renders host-API documents for one runtime.
type Generator struct {
	runtime    Runtime
	templates  rendertemplate.TemplateRenderer
	rivPath    string
	runtimeURL string
}

var _ render.Generator = (*Generator)(nil)

// NewCanvas constructs the host-api-canvas generator.
func NewCanvas(options ...Option) (*Generator, error) {
	return newGenerator(RuntimeCanvas, options)
}

// NewWebGL constructs the host-api-webgl generator.
func NewWebGL(options ...Option) (*Generator, error) {
	return newGenerator(RuntimeWebGL, options)
}

func newGenerator(runtime Runtime, options []Option) (*Generator, error) {
	cfg, err := buildConfig(options)
	if err != nil {
		return nil, err
	}
	return &Generator{
		runtime:    runtime,
		templates:  cfg.templateRenderer,
		rivPath:    cfg.rivPath,
		runtimeURL: cfg.runtimeURLs[runtime],
	}, nil
}

func buildConfig(options []Option) (*config, error) {
	cfg := &config{
		templateFS: TemplatesFS(),
		rivPath:    DefaultRivPath,
		runtimeURLs: map[Runtime]string{
			RuntimeCanvas: DefaultCanvasRuntimeURL,
			RuntimeWebGL:  DefaultWebGLRuntimeURL,
		},
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
	if cfg.templateRenderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.templatesDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithGlobalData(binding.TemplateGlobals()),
		)
		if err != nil {
			return nil, fmt.Errorf("caspar: configure template renderer: %w", err)
		}
		cfg.templateRenderer = engine
	} else if err := cfg.templateRenderer.GlobalContext(binding.TemplateGlobals()); err != nil {
		return nil, fmt.Errorf("caspar: seed template globals: %w", err)
	}
	if err := rendertemplate.RegisterFilters(cfg.templateRenderer, binding.TemplateFilters()); err != nil {
		return nil, fmt.Errorf("caspar: register template filters: %w", err)
	}
	return cfg, nil
}

// Key returns the registry key.
func (g *Generator) Key() string {
	if g.runtime == RuntimeWebGL {
		return KeyWebGL
	}
	return KeyCanvas
}

// Describe returns the listing entry.
func (g *Generator) Describe() render.Descriptor {
	if g.runtime == RuntimeWebGL {
		return render.Descriptor{
			Key:         KeyWebGL,
			Name:        "Host API (WebGL)",
			Kind:        render.KindHTML,
			Description: "Rive WebGL runtime driven by play/stop/next/remove/update. Fetches the asset bytes and replays updates received before load.",
		}
	}
	return render.Descriptor{
		Key:         KeyCanvas,
		Name:        "Host API (Canvas)",
		Kind:        render.KindHTML,
		Description: "Rive Canvas runtime driven by play/stop/next/remove/update. Compatible with the embedded Chromium of CasparCG 2.4.",
	}
}

// Generate renders the document.
func (g *Generator) Generate(ctx context.Context, s schema.Schema, cfg render.Config) (render.Document, error) {
	if err := ctx.Err(); err != nil {
		return render.Document{}, err
	}
	opts, err := g.decodeOptions(cfg.Options)
	if err != nil {
		return render.Document{}, err
	}
	html, err := g.render(s, cfg.AliasMap, opts)
	if err != nil {
		return render.Document{}, err
	}
	return render.Document{
		Kind:     render.KindHTML,
		Content:  html,
		Filename: render.SanitizeFilename(cfg.Filename, render.DefaultFilename),
	}, nil
}

func (g *Generator) render(s schema.Schema, aliases map[string]string, opts HostOptions) ([]byte, error) {
	if g.templates == nil {
		return nil, fmt.Errorf("caspar: template renderer is nil")
	}

	resolver := binding.NewResolver(aliases)
	var setters []string
	if opts.IncludeViewModelProps {
		props, err := binding.BindAll(s.ViewModelProperties, resolver, binding.ObjectLiteral)
		if err != nil {
			return nil, fmt.Errorf("caspar: bind properties: %w", err)
		}
		setters = append(setters, props...)
	}
	if opts.BindInputs {
		inputs, err := binding.BindInputs(s.Inputs, resolver)
		if err != nil {
			return nil, fmt.Errorf("caspar: bind inputs: %w", err)
		}
		setters = append(setters, inputs...)
	}

	hooks := triggers.Wire(opts.CasparTriggers)
	title := "CasparCG + Rive (Canvas)"
	if g.runtime == RuntimeWebGL {
		title = "CasparCG + Rive (WebGL)"
	}

	result, err := g.templates.RenderTemplate(g.Key(), map[string]any{
		"title":        render.SanitizeTitle(opts.Title, title),
		"width":        opts.Width,
		"height":       opts.Height,
		"runtimeUrl":   opts.RuntimeURL,
		"rivPath":      opts.RivPath,
		"artboard":     s.Artboard,
		"stateMachine": s.StateMachine,
		"setters":      strings.Join(setters, setterIndent),
		"bindInputs":   opts.BindInputs,
		"play":         hooks.Play,
		"stop":         hooks.Stop,
		"next":         hooks.Next,
		"remove":       hooks.Remove,
	})
	if err != nil {
		return nil, fmt.Errorf("caspar: render template: %w", err)
	}
	return []byte(result), nil
}
