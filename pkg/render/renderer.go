// Package render holds the contract shared by the page renderers.
package render

import (
	"context"

	"github.com/goliatone/go-regform/pkg/registration"
)

// Page is one rendering of the form. Confirmation is set right after a
// successful submit.
type Page struct {
	Form         *registration.Form
	Confirmation *registration.Confirmation
}

// Renderer converts a Page into a byte representation (HTML today).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page) ([]byte, error)
}
