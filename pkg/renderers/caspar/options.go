package caspar

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/render"
	rendertemplate "github.com/goliatone/go-rivegen/pkg/render/template"
	"github.com/goliatone/go-rivegen/pkg/triggers"
)

const (
	DefaultRivPath          = "./graphics.riv"
	DefaultCanvasRuntimeURL = "https://unpkg.com/@rive-app/canvas"
	DefaultWebGLRuntimeURL  = "https://unpkg.com/@rive-app/webgl"
	DefaultWidth            = 1920
	DefaultHeight           = 1080
)

// Option configures a generator at construction time.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	rivPath          string
	runtimeURLs      map[Runtime]string
	presetLayer      int
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Files found
// there take precedence; missing ones fall back to the template FS.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithRivPath changes the asset path used when a request does not set
// rivPath.
func WithRivPath(path string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			cfg.rivPath = trimmed
		}
	}
}

// WithRuntimeURL changes the runtime script loaded for one renderer when a
// request does not set runtimeUrl.
func WithRuntimeURL(runtime Runtime, url string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			cfg.runtimeURLs[runtime] = trimmed
		}
	}
}

// WithPresetLayer sets the flash layer bundles write into their preset.
func WithPresetLayer(layer int) Option {
	return func(cfg *config) {
		if layer > 0 {
			cfg.presetLayer = layer
		}
	}
}

// HostOptions are the per-request settings of host-API documents.
type HostOptions struct {
	RivPath               string         `json:"rivPath"`
	RuntimeURL            string         `json:"runtimeUrl"`
	CasparTriggers        triggers.Names `json:"casparTriggers"`
	IncludeViewModelProps bool           `json:"includeViewModelProps"`
	BindInputs            bool           `json:"bindInputs"`
	Title                 string         `json:"title"`
	Width                 int            `json:"width"`
	Height                int            `json:"height"`
}

func (g *Generator) decodeOptions(opts render.Options) (HostOptions, error) {
	out := HostOptions{
		RivPath:               g.rivPath,
		RuntimeURL:            g.runtimeURL,
		IncludeViewModelProps: true,
		BindInputs:            true,
		Width:                 DefaultWidth,
		Height:                DefaultHeight,
	}
	if err := opts.Decode(&out); err != nil {
		return HostOptions{}, err
	}

	if strings.TrimSpace(out.RivPath) == "" {
		out.RivPath = g.rivPath
	}
	if strings.TrimSpace(out.RuntimeURL) == "" {
		out.RuntimeURL = g.runtimeURL
	}
	out.CasparTriggers = out.CasparTriggers.Normalize()
	if out.Width <= 0 || out.Height <= 0 {
		return HostOptions{}, fmt.Errorf("%w: width and height must be positive, got %dx%d", render.ErrInvalidOptions, out.Width, out.Height)
	}
	return out, nil
}
