// Package formdoc turns document templates with typed placeholders into
// field schemas and filled documents.
//
// The helpers here cover the common path; the packages under pkg/ expose the
// token grammar, the rich-content bridge, the render engine and the
// orchestrator individually.
package formdoc

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/orchestrator"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/renderers/html"
	"github.com/goliatone/go-formdoc/pkg/richtext"
	"github.com/goliatone/go-formdoc/pkg/token"
)

// Token is a placeholder declaration parsed from template markup.
type Token = token.Token

// Field is one entry of the schema derived from a template.
type Field = model.Field

// Values maps field identifiers to submitted values.
type Values = model.Values

// ImageValue is the value stored for image fields.
type ImageValue = model.ImageValue

// RenderOptions aliases render.RenderOptions for callers of Generate.
type RenderOptions = render.RenderOptions

// Extract returns the unique placeholder tokens of markup in first-appearance
// order. The first declaration of an identifier wins.
func Extract(markup string) []Token {
	return token.Extract(markup)
}

// Schema returns the field schema of markup.
func Schema(markup string) []Field {
	return model.ToSchema(token.Extract(markup))
}

// Render substitutes values into markup for the given body format. Missing
// values are rendered as visible slots labelled with the field label.
func Render(markup string, values Values, format render.BodyFormat) string {
	fields := Schema(markup)
	if format == render.BodyHTML {
		return render.RenderHTML(markup, fields, values)
	}
	return render.RenderMarkdown(markup, fields, values)
}

// Canonicalize rewrites tag-form and legacy placeholders in markup into
// canonical double-brace tokens.
func Canonicalize(markup string) string {
	return richtext.Canonicalize(markup)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate builds the form for markup and renders a complete document with
// the named renderer ("html" when empty).
func Generate(ctx context.Context, title, markup string, opts RenderOptions, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	out, _, err := gen.Generate(ctx, orchestrator.Request{
		Source:        model.Source{Title: title, Markup: markup},
		Renderer:      rendererName,
		RenderOptions: opts,
	})
	return out, err
}

// AssetsFS exposes the stylesheet used by rendered HTML pages so callers can
// serve it next to generated documents.
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
