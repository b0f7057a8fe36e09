// Package service implements the template and submission use cases on top of
// the stores, the orchestrator and the validation package. HTTP handlers and
// CLI commands are thin adapters over it.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formdoc/pkg/export"
	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/orchestrator"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/renderers/markdown"
	"github.com/goliatone/go-formdoc/pkg/richtext"
	"github.com/goliatone/go-formdoc/pkg/store"
	"github.com/goliatone/go-formdoc/pkg/token"
	"github.com/goliatone/go-formdoc/pkg/validation"
)

// Option configures the service.
type Option func(*Service)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOrchestrator replaces the default rendering pipeline.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(s *Service) {
		if orch != nil {
			s.orch = orch
		}
	}
}

// Service coordinates templates, submissions and rendering.
type Service struct {
	templates   store.TemplateStore
	submissions store.SubmissionStore
	orch        *orchestrator.Orchestrator
	logger      *zap.Logger
}

// New builds a service over the given stores.
func New(templates store.TemplateStore, submissions store.SubmissionStore, opts ...Option) *Service {
	s := &Service{
		templates:   templates,
		submissions: submissions,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.orch == nil {
		s.orch = orchestrator.New()
	}
	return s
}

// TemplateInput is the editable part of a template.
type TemplateInput struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Markup      string `json:"markup" yaml:"markup"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`

	// Canonicalize rewrites tag-form and legacy tokens in double-brace form
	// before saving.
	Canonicalize bool `json:"canonicalize,omitempty" yaml:"canonicalize,omitempty"`
}

func (in TemplateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

// ListTemplates returns every stored template.
func (s *Service) ListTemplates(ctx context.Context) ([]store.Template, error) {
	return s.templates.List(ctx)
}

// GetTemplate returns one template.
func (s *Service) GetTemplate(ctx context.Context, id string) (store.Template, error) {
	tpl, err := s.templates.Get(ctx, id)
	if err != nil {
		return store.Template{}, fmt.Errorf("service: template %q: %w", id, err)
	}
	return tpl, nil
}

// CreateTemplate stores a new template. An id in the input is ignored.
func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (store.Template, error) {
	return s.SaveTemplate(ctx, "", in)
}

// SaveTemplate creates or replaces the template with id. The markup is stored
// as given unless in.Canonicalize is set; the field list is re-derived from it.
func (s *Service) SaveTemplate(ctx context.Context, id string, in TemplateInput) (store.Template, error) {
	if err := in.validate(); err != nil {
		return store.Template{}, err
	}
	markup := in.Markup
	if in.Canonicalize {
		markup = richtext.Canonicalize(markup)
	}
	tpl := store.Template{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Markup:      markup,
		Format:      render.ParseBodyFormat(in.Format),
	}
	saved, err := s.templates.Put(ctx, tpl)
	if err != nil {
		return store.Template{}, fmt.Errorf("service: save template: %w", err)
	}
	s.logger.Info("template saved",
		zap.String("template_id", saved.ID),
		zap.Int("fields", len(saved.Fields)),
	)
	return saved, nil
}

// UpdateTemplate replaces an existing template.
func (s *Service) UpdateTemplate(ctx context.Context, id string, in TemplateInput) (store.Template, error) {
	if _, err := s.GetTemplate(ctx, id); err != nil {
		return store.Template{}, err
	}
	return s.SaveTemplate(ctx, id, in)
}

// DeleteTemplate removes a template. Its submissions are kept.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: delete template %q: %w", id, err)
	}
	s.logger.Info("template deleted", zap.String("template_id", id))
	return nil
}

// Form returns the form model of a stored template.
func (s *Service) Form(ctx context.Context, id string) (model.FormModel, error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return model.FormModel{}, err
	}
	return s.orch.Form(ctx, tpl.Source())
}

// SubmissionSchema returns the JSON schema submissions for template id must
// satisfy.
func (s *Service) SubmissionSchema(ctx context.Context, id string) (*openapi3.Schema, error) {
	form, err := s.Form(ctx, id)
	if err != nil {
		return nil, err
	}
	return validation.SubmissionSchema(form), nil
}

// InsertFieldRequest asks for a new field at Selection, or at the end of the
// markup when Selection is nil.
type InsertFieldRequest struct {
	richtext.FieldRequest
	Selection *richtext.Selection `json:"selection,omitempty"`
}

// InsertField adds a field node to the template markup and saves the result.
func (s *Service) InsertField(ctx context.Context, templateID string, req InsertFieldRequest) (store.Template, token.Token, error) {
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return store.Template{}, token.Token{}, err
	}

	session := richtext.NewSession(tpl.Markup)
	if req.Selection != nil {
		if err := session.Select(*req.Selection); err != nil {
			return store.Template{}, token.Token{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	session.OnUpdate(func(markup string) {
		tpl.Markup = markup
	})

	tok, err := richtext.NewInserter(session.Insert()).Insert(req.FieldRequest)
	if err != nil {
		return store.Template{}, token.Token{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	saved, err := s.templates.Put(ctx, tpl)
	if err != nil {
		return store.Template{}, token.Token{}, fmt.Errorf("service: save template: %w", err)
	}
	s.logger.Info("field inserted",
		zap.String("template_id", saved.ID),
		zap.String("field_id", tok.ID),
		zap.String("type", string(tok.Kind)),
	)
	return saved, tok, nil
}

// UpdateField edits label, type, format or placeholder of every reference to
// attrs.ID in the template markup.
func (s *Service) UpdateField(ctx context.Context, templateID string, attrs token.Token) (store.Template, error) {
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return store.Template{}, err
	}
	session := richtext.NewSession(tpl.Markup)
	if err := session.UpdateField(attrs); err != nil {
		if errors.Is(err, richtext.ErrFieldNotFound) {
			return store.Template{}, fmt.Errorf("service: field %q: %w", attrs.ID, store.ErrNotFound)
		}
		return store.Template{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	tpl.Markup = session.Content()

	saved, err := s.templates.Put(ctx, tpl)
	if err != nil {
		return store.Template{}, fmt.Errorf("service: save template: %w", err)
	}
	return saved, nil
}

// PreviewRequest selects how a document is rendered.
type PreviewRequest struct {
	Renderer     string
	Values       model.Values
	Errors       map[string][]string
	Fragment     bool
	ThemeName    string
	ThemeVariant string
}

// Rendered is a rendered document ready to be served or written to disk.
type Rendered struct {
	Body        []byte
	ContentType string
	FileName    string
}

// Preview renders template id with the supplied values. Missing values show
// as labelled empty slots.
func (s *Service) Preview(ctx context.Context, id string, req PreviewRequest) (Rendered, error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return Rendered{}, err
	}
	return s.render(ctx, tpl, req)
}

func (s *Service) render(ctx context.Context, tpl store.Template, req PreviewRequest) (Rendered, error) {
	renderer, err := s.orch.Renderer(req.Renderer)
	if err != nil {
		return Rendered{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	body, contentType, err := s.orch.Generate(ctx, orchestrator.Request{
		Source:       tpl.Source(),
		Format:       tpl.Format,
		Renderer:     renderer.Name(),
		ThemeName:    req.ThemeName,
		ThemeVariant: req.ThemeVariant,
		RenderOptions: render.RenderOptions{
			Values:   req.Values,
			Errors:   req.Errors,
			Fragment: req.Fragment,
		},
	})
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{
		Body:        body,
		ContentType: contentType,
		FileName:    documentFileName(tpl.Title, renderer.Name()),
	}, nil
}

// Submit validates values against template id and stores the normalised
// submission. Rejected submissions return a *ValidationError.
func (s *Service) Submit(ctx context.Context, templateID string, values model.Values) (store.Submission, error) {
	form, err := s.Form(ctx, templateID)
	if err != nil {
		return store.Submission{}, err
	}

	result := validation.ValidateSubmission(form, values)
	if !result.Valid {
		s.logger.Debug("submission rejected",
			zap.String("template_id", templateID),
			zap.Int("issues", len(result.Issues)),
		)
		return store.Submission{}, &ValidationError{Result: result}
	}

	saved, err := s.submissions.Put(ctx, store.Submission{TemplateID: templateID, Data: result.Values})
	if err != nil {
		return store.Submission{}, fmt.Errorf("service: save submission: %w", err)
	}
	s.logger.Info("submission stored",
		zap.String("template_id", templateID),
		zap.String("submission_id", saved.ID),
	)
	return saved, nil
}

// ListSubmissions returns the submissions of a template, or all of them when
// templateID is empty.
func (s *Service) ListSubmissions(ctx context.Context, templateID string) ([]store.Submission, error) {
	if templateID == "" {
		return s.submissions.List(ctx)
	}
	return s.submissions.ListByTemplate(ctx, templateID)
}

// GetSubmission returns one submission.
func (s *Service) GetSubmission(ctx context.Context, id string) (store.Submission, error) {
	sub, err := s.submissions.Get(ctx, id)
	if err != nil {
		return store.Submission{}, fmt.Errorf("service: submission %q: %w", id, err)
	}
	return sub, nil
}

// DeleteSubmission removes a submission.
func (s *Service) DeleteSubmission(ctx context.Context, id string) error {
	if err := s.submissions.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: delete submission %q: %w", id, err)
	}
	s.logger.Info("submission deleted", zap.String("submission_id", id))
	return nil
}

// RenderSubmission renders the template of a stored submission with its data.
func (s *Service) RenderSubmission(ctx context.Context, id string, req PreviewRequest) (Rendered, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return Rendered{}, err
	}
	tpl, err := s.GetTemplate(ctx, sub.TemplateID)
	if err != nil {
		return Rendered{}, err
	}
	req.Values = sub.Data
	return s.render(ctx, tpl, req)
}

// ExportSubmission serialises a stored submission. CSV columns follow the
// field order of its template.
func (s *Service) ExportSubmission(ctx context.Context, id, format string) (Rendered, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return Rendered{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return Rendered{}, err
	}
	order, err := s.fieldOrder(ctx, []store.Submission{sub})
	if err != nil {
		return Rendered{}, err
	}
	var buf bytes.Buffer
	if err := export.Submission(&buf, sub, parsed, order); err != nil {
		return Rendered{}, err
	}
	return Rendered{
		Body:        buf.Bytes(),
		ContentType: parsed.ContentType(),
		FileName:    parsed.FileName(sub),
	}, nil
}

// ExportSubmissions serialises every submission of templateID, or all of
// them when templateID is empty, into one document named after now.
func (s *Service) ExportSubmissions(ctx context.Context, templateID, format string, now time.Time) (Rendered, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return Rendered{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	subs, err := s.ListSubmissions(ctx, templateID)
	if err != nil {
		return Rendered{}, err
	}
	order, err := s.fieldOrder(ctx, subs)
	if err != nil {
		return Rendered{}, err
	}
	var buf bytes.Buffer
	if err := export.Submissions(&buf, subs, parsed, order); err != nil {
		return Rendered{}, err
	}
	return Rendered{
		Body:        buf.Bytes(),
		ContentType: parsed.ContentType(),
		FileName:    parsed.ListFileName(now),
	}, nil
}

// fieldOrder collects the field ids of the templates behind subs, in the
// order the templates first appear. Deleted templates contribute nothing.
func (s *Service) fieldOrder(ctx context.Context, subs []store.Submission) (export.Option, error) {
	var ids []string
	seen := map[string]bool{}
	for _, sub := range subs {
		if seen[sub.TemplateID] {
			continue
		}
		seen[sub.TemplateID] = true
		tpl, err := s.templates.Get(ctx, sub.TemplateID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service: template %q: %w", sub.TemplateID, err)
		}
		for _, field := range tpl.Fields {
			ids = append(ids, field.ID)
		}
	}
	return export.WithFieldOrder(ids...), nil
}

func documentFileName(title, renderer string) string {
	name := markdown.FileName(title)
	if renderer == "html" {
		return strings.TrimSuffix(name, ".md") + ".html"
	}
	return name
}
