package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/token"
)

var (
	// ErrNotFound is returned when a template or submission does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidRecord is returned when a record is missing its identifiers.
	ErrInvalidRecord = errors.New("store: invalid record")
)

// Template is a stored document template. Fields is a cache of the schema
// derived from Markup and is rebuilt by Refresh on every save.
type Template struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Markup      string            `json:"markup" yaml:"markup"`
	Format      render.BodyFormat `json:"format" yaml:"format"`
	Fields      []model.Field     `json:"fields" yaml:"fields"`
	CreatedAt   time.Time         `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" yaml:"updatedAt"`
}

// Refresh re-derives Fields from Markup and normalises the body format.
func (t *Template) Refresh() {
	t.Fields = model.ToSchema(token.Extract(t.Markup))
	t.Format = render.ParseBodyFormat(string(t.Format))
}

// Source returns the builder view of the template.
func (t Template) Source() model.Source {
	return model.Source{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Markup:      t.Markup,
	}
}

// Prepare assigns an id and timestamps, then refreshes the field cache. It is
// called by store implementations on Put.
func (t *Template) Prepare(now time.Time) {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.Refresh()
}

// Submission is an immutable record of the values entered for a template.
type Submission struct {
	ID          string       `json:"submissionId" yaml:"submissionId"`
	TemplateID  string       `json:"templateId" yaml:"templateId"`
	Data        model.Values `json:"data" yaml:"data"`
	SubmittedAt time.Time    `json:"submittedAt" yaml:"submittedAt"`
}

// Prepare assigns an id and submission time when absent.
func (s *Submission) Prepare(now time.Time) error {
	if strings.TrimSpace(s.TemplateID) == "" {
		return ErrInvalidRecord
	}
	if strings.TrimSpace(s.ID) == "" {
		s.ID = uuid.NewString()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = now
	}
	if s.Data == nil {
		s.Data = model.Values{}
	}
	return nil
}

// TemplateStore persists templates.
type TemplateStore interface {
	List(ctx context.Context) ([]Template, error)
	Get(ctx context.Context, id string) (Template, error)
	Put(ctx context.Context, tpl Template) (Template, error)
	Delete(ctx context.Context, id string) error
}

// SubmissionStore persists submissions. Put only inserts; submissions are not
// edited once stored.
type SubmissionStore interface {
	List(ctx context.Context) ([]Submission, error)
	ListByTemplate(ctx context.Context, templateID string) ([]Submission, error)
	Get(ctx context.Context, id string) (Submission, error)
	Put(ctx context.Context, sub Submission) (Submission, error)
	Delete(ctx context.Context, id string) error
}

// Clock returns the current time. Stores accept one so tests can pin time.
type Clock func() time.Time

// UTCNow is the default Clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}
