package obs

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/render"
	rendertemplate "github.com/goliatone/go-rivegen/pkg/render/template"
	"github.com/goliatone/go-rivegen/pkg/triggers"
)

const (
	DefaultRivPath      = "./graphics.riv"
	DefaultRuntimeURL   = "https://unpkg.com/@rive-app/canvas"
	DefaultWidth        = 1920
	DefaultHeight       = 1080
	DefaultStartMs      = 0
	DefaultOutAfterMs   = -1
	DefaultClearAfterMs = -1
)

// Option configures a player generator at construction time.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	rivPath          string
	runtimeURL       string
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

// WithRivPath changes the baked asset path.
func WithRivPath(path string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			cfg.rivPath = trimmed
		}
	}
}

// WithRuntimeURL changes the runtime script the player loads.
func WithRuntimeURL(url string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			cfg.runtimeURL = trimmed
		}
	}
}

// PlayerOptions are the per-request settings of URL players. Every value is
// a baked default the page URL can override.
type PlayerOptions struct {
	RivPath         string         `json:"rivPath"`
	RuntimeURL      string         `json:"runtimeUrl"`
	StartMs         float64        `json:"startMs"`
	OutAfterMs      float64        `json:"outAfterMs"`
	ClearAfterMs    float64        `json:"clearAfterMs"`
	Triggers        triggers.Names `json:"triggers"`
	IncludeDefaults bool           `json:"includeDefaults"`
	VMDefaults      map[string]any `json:"vmDefaults"`
	Title           string         `json:"title"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	AssetBase64     string         `json:"assetBase64"`
}

func (p *Player) decodeOptions(opts render.Options) (PlayerOptions, error) {
	out := PlayerOptions{
		RivPath:         p.rivPath,
		RuntimeURL:      p.runtimeURL,
		StartMs:         DefaultStartMs,
		OutAfterMs:      DefaultOutAfterMs,
		ClearAfterMs:    DefaultClearAfterMs,
		IncludeDefaults: true,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
	}
	if err := opts.Decode(&out); err != nil {
		return PlayerOptions{}, err
	}

	if strings.TrimSpace(out.RivPath) == "" {
		out.RivPath = p.rivPath
	}
	if strings.TrimSpace(out.RuntimeURL) == "" {
		out.RuntimeURL = p.runtimeURL
	}
	out.Triggers = out.Triggers.Normalize()
	if out.Width <= 0 || out.Height <= 0 {
		return PlayerOptions{}, fmt.Errorf("%w: width and height must be positive, got %dx%d", render.ErrInvalidOptions, out.Width, out.Height)
	}
	return out, nil
}
