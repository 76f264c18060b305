// Package render defines the generator contract shared by every output
// dialect, the per-request configuration handed to generators, the generated
// document value, and the registry that resolves template keys.
//
// Registry has two lookups. Get is strict and fails with ErrUnknownTemplate
// for keys that are not registered. Lookup is the permissive get(key): an
// unknown or empty key resolves to the default generator. The orchestrator
// calls Get and only falls back to Lookup in lenient mode.
package render
