// Package render defines the renderer contract shared by the HTML and
// terminal front ends, the registry that selects among them, and helpers for
// mapping submissions and validation feedback onto rendered forms.
package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Renderer turns a form into a byte representation (HTML, JSON collected in
// a terminal session, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}
