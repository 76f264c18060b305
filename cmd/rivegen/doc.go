// Command rivegen compiles Rive asset schemas into broadcast graphics
// documents, writes CasparCG presets and serves the compiler over HTTP.
//
//	rivegen list
//	rivegen generate --schema lower.json --template host-api-canvas --out lower.html --preset
//	rivegen preset --schema lower.json --filename lower.html
//	rivegen serve --config rivegen.toml
package main
