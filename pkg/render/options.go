package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/numfmt"
)

// RenderOptions describe per-request data that renderers use to fill and
// decorate a document without mutating the template.
type RenderOptions struct {
	// Values holds submission data keyed by field id. Fields without a value
	// render as empty slots showing their label.
	Values model.Values
	// Errors surfaces validation feedback keyed by field id. Renderers that
	// support it flag the matching slots.
	Errors map[string][]string
	// Theme supplies CSS variables and asset URLs for page renderers.
	Theme *theme.RendererConfig
	// Formatter overrides the pt-BR number formatter.
	Formatter numfmt.Formatter
	// Fragment asks page renderers for the body only, without the page chrome.
	Fragment bool
}

// formatter returns the configured formatter or the package default.
func (o RenderOptions) formatter() numfmt.Formatter {
	if o.Formatter != nil {
		return o.Formatter
	}
	return numfmt.Default
}

// Engine builds a substitution engine for target honouring the options.
func (o RenderOptions) Engine(target Target) *Engine {
	return NewEngine(target, WithFormatter(o.formatter()))
}
