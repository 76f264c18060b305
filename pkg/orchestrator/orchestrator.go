package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/preset"
	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/renderers/caspar"
	"github.com/goliatone/go-rivegen/pkg/schema"
	"github.com/goliatone/go-rivegen/pkg/triggers"
)

// ErrInvalidRequest marks request-level problems that are neither schema nor
// template errors.
var ErrInvalidRequest = errors.New("orchestrator: invalid request")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a generator registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaults configures the built-in registry used when WithRegistry is not
// supplied.
func WithDefaults(defaults Defaults) Option {
	return func(o *Orchestrator) {
		o.defaults = defaults
	}
}

// WithDefaultTemplate overrides the generator used when a request omits an
// explicit Template field.
func WithDefaultTemplate(key string) Option {
	return func(o *Orchestrator) {
		o.defaultTemplate = strings.TrimSpace(key)
	}
}

// WithLenientTemplates makes unknown template keys fall back to the registry
// default instead of failing. A warning is attached to the result.
func WithLenientTemplates() Option {
	return func(o *Orchestrator) {
		o.lenient = true
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSchemaTransformer registers a Transformer that rewrites the schema
// before it is validated.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// Orchestrator coordinates validation, generation and preset serialisation.
// It is safe for concurrent use once constructed.
type Orchestrator struct {
	registry        *render.Registry
	defaults        Defaults
	defaultTemplate string
	lenient         bool
	logger          *slog.Logger
	transformers    []Transformer
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Without a
// registry every built-in generator is registered.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultTemplate: caspar.KeyCanvas,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// PresetRequest asks for a CasparCG preset next to the document.
type PresetRequest struct {
	// Label names the preset and its file. Defaults to the template name.
	Label string
	// Layer is the channel layer. Values <= 0 use the configured default.
	Layer int
}

// Request describes one compilation.
type Request struct {
	// Template names the generator. Empty selects the default template.
	Template string
	Schema   schema.Schema
	Filename string
	// AliasMap renames properties: external key -> internal property name.
	AliasMap map[string]string
	Options  render.Options
	// Preset is optional; when set the result carries a preset document.
	Preset *PresetRequest
}

// Preset is a serialised CasparCG preset document.
type Preset struct {
	Name     string
	Label    string
	Filename string
	Content  []byte
}

// ContentType returns the MIME type served for presets.
func (Preset) ContentType() string {
	return "application/xml; charset=utf-8"
}

// Result is the output of Compile.
type Result struct {
	Template string
	Document render.Document
	Preset   *Preset
	// Warnings lists non-fatal problems, such as trigger names that are not
	// trigger properties of the schema.
	Warnings []string
}

// Registry exposes the generator registry, e.g. for listing.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Templates lists the registered generators sorted by key.
func (o *Orchestrator) Templates() []render.Descriptor {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

// Compile validates the schema, runs the selected generator and optionally
// serialises the matching preset.
func (o *Orchestrator) Compile(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	validated, err := o.prepareSchema(ctx, req.Schema)
	if err != nil {
		return Result{}, err
	}

	var warnings []string
	gen, key, err := o.generatorFor(req.Template)
	if err != nil {
		return Result{}, err
	}
	if requested := strings.TrimSpace(req.Template); requested != "" && key != requested {
		warnings = append(warnings, fmt.Sprintf("unknown template %q, using %q", req.Template, key))
	}
	warnings = append(warnings, triggerWarnings(validated, req.Options)...)

	doc, err := gen.Generate(ctx, validated, render.Config{
		Filename: req.Filename,
		AliasMap: req.AliasMap,
		Options:  req.Options,
	})
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: generate %q: %w", key, err)
	}

	result := Result{Template: key, Document: doc, Warnings: warnings}
	if req.Preset != nil {
		p, err := o.buildPreset(validated, doc.Filename, *req.Preset)
		if err != nil {
			return Result{}, err
		}
		result.Preset = &p
	}

	for _, warning := range warnings {
		o.logger.Warn("compile warning", "template", key, "warning", warning)
	}
	o.logger.Info("document generated",
		"template", key,
		"kind", doc.Kind,
		"filename", doc.Filename,
		"bytes", len(doc.Content),
		"preset", result.Preset != nil,
	)
	return result, nil
}

// Preset serialises a preset for a document compiled under filename. The
// template name is derived the same way Compile derives it, so both pair up.
func (o *Orchestrator) Preset(ctx context.Context, s schema.Schema, filename string, req PresetRequest) (Preset, error) {
	if ctx == nil {
		return Preset{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Preset{}, err
	}
	if strings.TrimSpace(filename) == "" {
		return Preset{}, fmt.Errorf("%w: filename is required", ErrInvalidRequest)
	}

	validated, err := o.prepareSchema(ctx, s)
	if err != nil {
		return Preset{}, err
	}
	p, err := o.buildPreset(validated, render.SanitizeFilename(filename, render.DefaultFilename), req)
	if err != nil {
		return Preset{}, err
	}
	o.logger.Info("preset generated", "name", p.Name, "label", p.Label, "bytes", len(p.Content))
	return p, nil
}

func (o *Orchestrator) prepareSchema(ctx context.Context, s schema.Schema) (schema.Schema, error) {
	if len(o.transformers) > 0 {
		s = s.Clone()
		for _, t := range o.transformers {
			if err := t.Transform(ctx, &s); err != nil {
				return schema.Schema{}, fmt.Errorf("orchestrator: transform schema: %w", err)
			}
		}
	}
	return schema.Validate(s)
}

func (o *Orchestrator) buildPreset(s schema.Schema, documentFilename string, req PresetRequest) (Preset, error) {
	name := preset.NameFromFilename(documentFilename)
	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = name
	}
	layer := req.Layer
	if layer <= 0 {
		layer = o.defaults.PresetLayer
	}

	opts := preset.DefaultOptions()
	opts.Layer = layer
	content, err := preset.Serialize(s, label, name, opts)
	if err != nil {
		if errors.Is(err, preset.ErrNameRequired) {
			return Preset{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return Preset{}, fmt.Errorf("orchestrator: serialise preset: %w", err)
	}
	return Preset{
		Name:     name,
		Label:    label,
		Filename: render.SanitizeFilename(label+".xml", "preset.xml"),
		Content:  content,
	}, nil
}

func (o *Orchestrator) generatorFor(key string) (render.Generator, string, error) {
	if o.registry == nil {
		return nil, "", errors.New("orchestrator: generator registry is nil")
	}

	target := strings.TrimSpace(key)
	if target == "" {
		target = o.defaultTemplate
	}

	gen, err := o.registry.Get(target)
	if err == nil {
		return gen, target, nil
	}
	if !o.lenient {
		return nil, "", fmt.Errorf("orchestrator: template %q: %w", target, err)
	}

	gen = o.registry.Lookup(target)
	if gen == nil {
		return nil, "", errors.New("orchestrator: no generators registered")
	}
	return gen, gen.Key(), nil
}

// triggerWarnings reports configured trigger names the schema does not
// declare as triggers. Decoding errors are left to the generator.
func triggerWarnings(s schema.Schema, opts render.Options) []string {
	var names struct {
		CasparTriggers triggers.Names `json:"casparTriggers"`
		Triggers       triggers.Names `json:"triggers"`
	}
	if err := opts.Decode(&names); err != nil {
		return nil
	}

	seen := map[string]bool{}
	var out []string
	for _, set := range []triggers.Names{names.CasparTriggers, names.Triggers} {
		for _, name := range set.Normalize().Unknown(s) {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, fmt.Sprintf("trigger %q is not a trigger property", name))
		}
	}
	return out
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.defaults.PresetLayer <= 0 {
		o.defaults.PresetLayer = preset.DefaultLayer
	}
	if o.registry == nil {
		registry, err := DefaultRegistry(o.defaults)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default registry: %w", err)
			return
		}
		o.registry = registry
	}
	if o.defaultTemplate == "" {
		if gen := o.registry.Default(); gen != nil {
			o.defaultTemplate = gen.Key()
		}
	}
}

// HasTemplate reports whether key names a registered generator.
func (o *Orchestrator) HasTemplate(key string) bool {
	return o.registry != nil && o.registry.Has(key)
}
