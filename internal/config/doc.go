// Package config loads and validates rivegen settings.
//
// Values come from built-in defaults, then an optional TOML file, then
// RIVEGEN_* environment variables. The result feeds the logger, the
// orchestrator defaults and the HTTP server.
package config
