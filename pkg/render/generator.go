package render

import (
	"context"

	"github.com/goliatone/go-rivegen/pkg/schema"
)

// Kind identifies the container format of a generated document.
type Kind string

const (
	KindHTML Kind = "html"
	KindZIP  Kind = "zip"
)

// ContentType returns the MIME type served for the kind.
func (k Kind) ContentType() string {
	switch k {
	case KindZIP:
		return "application/zip"
	default:
		return "text/html; charset=utf-8"
	}
}

// Extension returns the file extension, including the dot.
func (k Kind) Extension() string {
	if k == KindZIP {
		return ".zip"
	}
	return ".html"
}

// Descriptor is the listing entry for a generator.
type Descriptor struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
}

// Generator compiles a validated schema into a document for one dialect.
// Implementations hold no mutable state and are safe for concurrent use.
type Generator interface {
	Key() string
	Describe() Descriptor
	Generate(ctx context.Context, s schema.Schema, cfg Config) (Document, error)
}

// Document is the final output of a generator.
type Document struct {
	Kind     Kind
	Content  []byte
	Filename string
}

// ContentType returns the MIME type of the document.
func (d Document) ContentType() string {
	return d.Kind.ContentType()
}
