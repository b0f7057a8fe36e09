// Package html renders filled documents as standalone, sanitized HTML pages.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"github.com/goliatone/go-formdoc/pkg/render"
	rendertemplate "github.com/goliatone/go-formdoc/pkg/render/template"
	"github.com/goliatone/go-formdoc/pkg/render/template/pongo"
)

const pageTemplate = "document"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide document.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPolicy replaces the sanitizer policy applied to the document body.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

var (
	policyOnce    sync.Once
	defaultPolicy *bluemonday.Policy
)

// Policy returns the sanitizer used by default: user generated content rules
// plus the classes, data attributes and data URI images emitted for fields.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowDataAttributes()
		policy.AllowDataURIImages()
		policy.AllowElements("figure", "figcaption", "span", "div")
		defaultPolicy = policy
	})
	return defaultPolicy
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = Policy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, policy: cfg.policy}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render fills the document and wraps it in the page template. With
// options.Fragment only the sanitized body is returned.
func (r *Renderer) Render(ctx context.Context, doc render.Document, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := r.Body(doc, options)
	if options.Fragment {
		return []byte(body), nil
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	mapping := render.MapErrorPayload(doc.Form, options.Errors)
	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"title":          doc.Form.Title,
		"description":    doc.Form.Description,
		"template_id":    doc.Form.TemplateID,
		"body":           body,
		"form_errors":    mapping.Form,
		"stylesheet":     defaultStylesheet(),
		"stylesheet_url": stylesheetURL(options),
		"theme":          themeContext(options),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// Body converts markdown bodies to HTML, substitutes field values and
// sanitizes the result. Substitution runs after the markdown pass so values are
// never interpreted as markdown.
func (r *Renderer) Body(doc render.Document, options render.RenderOptions) string {
	markup := doc.Markup
	if doc.Format != render.BodyHTML {
		markup = MarkdownToHTML(markup)
	}

	target := render.HTMLTarget{Errors: render.MapErrorPayload(doc.Form, options.Errors).Fields}
	filled := options.Engine(target).Render(markup, doc.Form.Fields, options.Values)

	policy := r.policy
	if policy == nil {
		policy = Policy()
	}
	return policy.Sanitize(filled)
}

// MarkdownToHTML renders markdown with smart punctuation disabled so token
// text passes through unchanged.
func MarkdownToHTML(markdown string) string {
	flags := blackfriday.CommonHTMLFlags &^ (blackfriday.Smartypants |
		blackfriday.SmartypantsFractions |
		blackfriday.SmartypantsDashes |
		blackfriday.SmartypantsLatexDashes)
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: flags})
	out := blackfriday.Run([]byte(markdown),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak),
	)
	return string(out)
}

func stylesheetURL(options render.RenderOptions) string {
	if options.Theme == nil || options.Theme.AssetURL == nil {
		return ""
	}
	return strings.TrimSpace(options.Theme.AssetURL(StylesheetName))
}

func themeContext(options render.RenderOptions) map[string]any {
	cfg := options.Theme
	if cfg == nil {
		return map[string]any{}
	}
	vars := make(map[string]any, len(cfg.CSSVars))
	for name, value := range cfg.CSSVars {
		vars[name] = value
	}
	return map[string]any{
		"name":     cfg.Theme,
		"variant":  cfg.Variant,
		"css_vars": vars,
	}
}
