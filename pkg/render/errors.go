package render

import "errors"

var (
	// ErrUnknownTemplate is returned by strict lookups for unregistered keys.
	ErrUnknownTemplate = errors.New("render: unknown template")
	// ErrInvalidOptions wraps option decoding and validation failures.
	ErrInvalidOptions = errors.New("render: invalid options")
)
