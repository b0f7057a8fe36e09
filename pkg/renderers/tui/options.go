package tui

import (
	"github.com/goliatone/go-formdoc/pkg/numfmt"
)

// OutputFormat controls how collected values are serialized by Render.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML emits YAML documents.
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes the renderer applies when printing
// feedback through the driver.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// FileLoader reads a local image so it can be stored as a data URI.
type FileLoader func(path string) ([]byte, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithFormatter overrides the formatter used to echo number fields.
func WithFormatter(formatter numfmt.Formatter) Option {
	return func(r *Renderer) {
		if formatter != nil {
			r.formatter = formatter
		}
	}
}

// WithFileLoader replaces os.ReadFile for image paths typed at the prompt.
func WithFileLoader(loader FileLoader) Option {
	return func(r *Renderer) {
		if loader != nil {
			r.loadFile = loader
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
