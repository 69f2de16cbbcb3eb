package template

import "errors"

// ErrFilterExists is returned when a filter name is already taken. Filters
// are process-wide in the engines this seam wraps, so callers that register
// on every construction treat it as success.
var ErrFilterExists = errors.New("template: filter already registered")

// TemplateRenderer is the contract page renderers rely on to execute named
// templates.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
