// Package binding produces the per-property JavaScript fragments that move an
// external value (a JSON update payload or a URL query parameter) into the
// Rive view-model through the typed accessor named after the property.
//
// Every fragment is self-contained and absorbs its own failures, so one bad
// value never prevents the remaining properties of an update from applying.
package binding
