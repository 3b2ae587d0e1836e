package interfaces

import (
	"io"
)

// TemplateRenderer renders named layouts for the static generator. The
// optional writers receive the rendered output in addition to the returned
// string, which keeps streaming writes possible for large pages.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
