// Package markdown renders filled documents as markdown files.
package markdown

import (
	"context"
	"strings"

	"github.com/goliatone/go-formdoc/pkg/render"
)

type Option func(*Renderer)

// WithTitleHeading prefixes the output with the form title as a level one
// heading.
func WithTitleHeading(enabled bool) Option {
	return func(r *Renderer) {
		r.titleHeading = enabled
	}
}

// Renderer substitutes values with markdown syntax. HTML bodies are filled the
// same way and returned without conversion.
type Renderer struct {
	titleHeading bool
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "markdown"
}

func (r *Renderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, doc render.Document, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := options.Engine(render.MarkdownTarget{}).Render(doc.Markup, doc.Form.Fields, options.Values)

	title := strings.TrimSpace(doc.Form.Title)
	if !r.titleHeading || title == "" || options.Fragment {
		return []byte(body), nil
	}
	return []byte("# " + title + "\n\n" + body), nil
}

// FileName builds a download name such as "Contrato_de_servico_preenchido.md"
// by replacing every character outside [A-Za-z0-9] with an underscore.
func FileName(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "documento"
	}
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String() + "_preenchido.md"
}
