// Package orchestrator wires the schema -> transformer -> validation ->
// generator -> preset pipeline behind a single entry point. Callers that
// need control over the registry, logging, or schema rewrites inject them
// through options.
package orchestrator
