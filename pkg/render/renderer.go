package render

import (
	"context"

	"github.com/goliatone/go-formdoc/pkg/model"
)

// BodyFormat tells renderers how the literal text around field tokens is
// written.
type BodyFormat string

const (
	// BodyMarkdown is markdown authored in a plain text editor.
	BodyMarkdown BodyFormat = "markdown"
	// BodyHTML is markup produced by the rich-text widget.
	BodyHTML BodyFormat = "html"
)

// ParseBodyFormat defaults to markdown for unknown or empty names.
func ParseBodyFormat(name string) BodyFormat {
	if BodyFormat(name) == BodyHTML {
		return BodyHTML
	}
	return BodyMarkdown
}

// Document is a template ready for rendering: the markup with its tokens and
// the form derived from it.
type Document struct {
	Form   model.FormModel
	Markup string
	Format BodyFormat
}

// Renderer turns a Document plus submission values into a byte representation
// (an HTML page, a markdown file).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc Document, options RenderOptions) ([]byte, error)
}
