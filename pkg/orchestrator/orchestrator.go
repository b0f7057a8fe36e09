package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/renderers/html"
	"github.com/goliatone/go-formdoc/pkg/renderers/markdown"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against the generated form
// model before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// Orchestrator coordinates the pipeline from template markup to rendered
// output. It applies sensible defaults (html and markdown renderers, the
// default builder) while remaining open to dependency injection.
type Orchestrator struct {
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	initialiseErr   error
	defaultsApplied bool
	decorators      []model.Decorator
	transformer     Transformer
	themes          themeSettings
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a template.
type Request struct {
	// Source carries the template markup plus its title and description.
	Source model.Source

	// Format tells renderers whether the markup body is markdown or HTML.
	Format render.BodyFormat

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select a theme when a selector is configured.
	// Empty values fall back to the configured defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request values and errors. A Theme set here
	// wins over the selector.
	RenderOptions render.RenderOptions
}

// Form builds the form model for src, applying the transformer and decorators.
func (o *Orchestrator) Form(ctx context.Context, src model.Source) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if err := o.ready(); err != nil {
		return model.FormModel{}, err
	}

	form, err := o.builder.Build(src)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyDecorators(&form); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

// Generate executes the builder → transformer → decorators → renderer
// sequence and returns the rendered bytes together with their content type.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, string, error) {
	form, err := o.Form(ctx, req.Source)
	if err != nil {
		return nil, "", err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, "", err
	}

	options := req.RenderOptions
	if options.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, "", err
		}
		options.Theme = cfg
	}

	doc := render.Document{
		Form:   form,
		Markup: req.Source.Markup,
		Format: req.Format,
	}
	output, err := renderer.Render(ctx, doc, options)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, renderer.ContentType(), nil
}

// Renderer resolves a renderer by name. An empty name selects the default
// renderer, then the first registered one.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: no renderers registered: %w", err)
	}
	return renderer, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) ready() error {
	if err := o.initialiseErr; err != nil {
		return err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) applyDecorators(form *model.FormModel) error {
	if len(o.decorators) == 0 || form == nil {
		return nil
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.FormModel) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(markdown.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
