// Package schema defines the animation schema consumed by every generator:
// the artboard and state machine selection, the ordered view-model property
// declarations with their defaults, and the state-machine inputs.
//
// Schemas are decoded from JSON or YAML, validated once, and treated as
// immutable values afterwards.
package schema
