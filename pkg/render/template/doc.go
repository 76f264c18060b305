// Package template defines the template engine seam generators render
// documents through. The gotemplate subpackage provides the pongo2 adapter.
package template
