package orchestrator

import (
	"fmt"

	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/renderers/caspar"
	"github.com/goliatone/go-rivegen/pkg/renderers/obs"
)

// Defaults are the deployment-wide values built-in generators fall back to
// when a request leaves them unset. Zero values keep each generator's own
// default.
type Defaults struct {
	RivPath          string
	CanvasRuntimeURL string
	WebGLRuntimeURL  string
	PresetLayer      int
	// TemplatesDir overrides the embedded document templates with files on
	// disk. It must hold every template of every generator.
	TemplatesDir string
}

// DefaultRegistry builds a registry holding every built-in generator. The
// canvas host-API generator is registered first and is the default.
func DefaultRegistry(defaults Defaults) (*render.Registry, error) {
	hostOptions := []caspar.Option{
		caspar.WithTemplatesDir(defaults.TemplatesDir),
		caspar.WithRivPath(defaults.RivPath),
		caspar.WithRuntimeURL(caspar.RuntimeCanvas, defaults.CanvasRuntimeURL),
		caspar.WithRuntimeURL(caspar.RuntimeWebGL, defaults.WebGLRuntimeURL),
		caspar.WithPresetLayer(defaults.PresetLayer),
	}
	playerOptions := []obs.Option{
		obs.WithTemplatesDir(defaults.TemplatesDir),
		obs.WithRivPath(defaults.RivPath),
		obs.WithRuntimeURL(defaults.CanvasRuntimeURL),
	}

	canvas, err := caspar.NewCanvas(hostOptions...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caspar.KeyCanvas, err)
	}
	webgl, err := caspar.NewWebGL(hostOptions...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caspar.KeyWebGL, err)
	}
	bundle, err := caspar.NewBundle(hostOptions...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caspar.KeyBundle, err)
	}
	player, err := obs.NewPlayer(playerOptions...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", obs.KeyPlayer, err)
	}
	embedded, err := obs.NewEmbeddedPlayer(playerOptions...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", obs.KeyEmbeddedPlayer, err)
	}

	registry := render.NewRegistry()
	for _, gen := range []render.Generator{canvas, webgl, bundle, player, embedded} {
		if err := registry.Register(gen); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
