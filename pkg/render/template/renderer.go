// Package template defines the renderer-agnostic template contract the view
// layer depends on, decoupling it from any particular engine.
package template

import "io"

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract. Render dispatches between named templates and inline content;
// the other methods address each mode explicitly.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
