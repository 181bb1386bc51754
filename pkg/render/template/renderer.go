package template

import (
	"io"
)

// TemplateRenderer renders named templates or inline template strings with a
// data context.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data map[string]any, out ...io.Writer) (string, error)
	GlobalContext(data map[string]any) error
}
