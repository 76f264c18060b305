// Package rivegen compiles Rive asset schemas into self-contained broadcast
// graphics documents (CasparCG host-API pages, OBS URL players and zip
// bundles). The root package re-exports the common entry points; the
// pipeline itself lives in pkg/orchestrator.
package rivegen

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-rivegen/pkg/binding"
	"github.com/goliatone/go-rivegen/pkg/orchestrator"
	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/renderers/caspar"
	"github.com/goliatone/go-rivegen/pkg/renderers/obs"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

// Schema aliases schema.Schema for callers that only import the root.
type Schema = schema.Schema

// Options aliases the per-request option bag.
type Options = render.Options

// Document aliases the generated output.
type Document = render.Document

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// LoadSchema reads and validates a JSON or YAML schema file.
func LoadSchema(path string) (Schema, error) {
	return schema.LoadFile(path)
}

// Compile runs one generator over s. It is the simplest entry point for
// callers that just want a document.
func Compile(ctx context.Context, s Schema, template, filename string, opts Options, options ...orchestrator.Option) (Document, error) {
	result, err := orchestrator.New(options...).Compile(ctx, orchestrator.Request{
		Template: template,
		Schema:   s,
		Filename: filename,
		Options:  opts,
	})
	if err != nil {
		return Document{}, err
	}
	return result.Document, nil
}

// HostTemplates exposes the embedded host-API document templates so callers
// can copy and customise them (see orchestrator.Defaults.TemplatesDir).
func HostTemplates() fs.FS {
	return caspar.TemplatesFS()
}

// PlayerTemplates exposes the embedded URL player templates.
func PlayerTemplates() fs.FS {
	return obs.TemplatesFS()
}

// RuntimeHelpers returns the script block every generated document embeds.
func RuntimeHelpers() string {
	return binding.RuntimeHelpers()
}
