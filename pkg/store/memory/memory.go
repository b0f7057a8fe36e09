// Package memory provides map-backed stores for tests and single-process use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/store"
)

// Option configures the memory stores.
type Option func(*options)

type options struct {
	clock store.Clock
}

// WithClock overrides the time source used for timestamps.
func WithClock(clock store.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func buildOptions(opts []Option) options {
	cfg := options{clock: store.UTCNow}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Templates is an in-memory store.TemplateStore.
type Templates struct {
	mu    sync.RWMutex
	items map[string]store.Template
	clock store.Clock
}

var _ store.TemplateStore = (*Templates)(nil)

// NewTemplates creates an empty template store.
func NewTemplates(opts ...Option) *Templates {
	cfg := buildOptions(opts)
	return &Templates{items: make(map[string]store.Template), clock: cfg.clock}
}

// List returns templates ordered by most recent update.
func (s *Templates) List(ctx context.Context) ([]store.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Template, 0, len(s.items))
	for _, tpl := range s.items {
		out = append(out, cloneTemplate(tpl))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Get returns the template with id or store.ErrNotFound.
func (s *Templates) Get(ctx context.Context, id string) (store.Template, error) {
	if err := ctx.Err(); err != nil {
		return store.Template{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.items[id]
	if !ok {
		return store.Template{}, store.ErrNotFound
	}
	return cloneTemplate(tpl), nil
}

// Put inserts or replaces a template, keeping the original creation time.
func (s *Templates) Put(ctx context.Context, tpl store.Template) (store.Template, error) {
	if err := ctx.Err(); err != nil {
		return store.Template{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[tpl.ID]; ok {
		tpl.CreatedAt = existing.CreatedAt
	}
	tpl.Prepare(s.clock())
	s.items[tpl.ID] = cloneTemplate(tpl)
	return tpl, nil
}

// Delete removes a template.
func (s *Templates) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Submissions is an in-memory store.SubmissionStore.
type Submissions struct {
	mu    sync.RWMutex
	items map[string]store.Submission
	clock store.Clock
}

var _ store.SubmissionStore = (*Submissions)(nil)

// NewSubmissions creates an empty submission store.
func NewSubmissions(opts ...Option) *Submissions {
	cfg := buildOptions(opts)
	return &Submissions{items: make(map[string]store.Submission), clock: cfg.clock}
}

// List returns every submission, newest first.
func (s *Submissions) List(ctx context.Context) ([]store.Submission, error) {
	return s.filter(ctx, func(store.Submission) bool { return true })
}

// ListByTemplate returns the submissions of one template, newest first.
func (s *Submissions) ListByTemplate(ctx context.Context, templateID string) ([]store.Submission, error) {
	return s.filter(ctx, func(sub store.Submission) bool { return sub.TemplateID == templateID })
}

func (s *Submissions) filter(ctx context.Context, keep func(store.Submission) bool) ([]store.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Submission, 0, len(s.items))
	for _, sub := range s.items {
		if keep(sub) {
			out = append(out, cloneSubmission(sub))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

// Get returns the submission with id or store.ErrNotFound.
func (s *Submissions) Get(ctx context.Context, id string) (store.Submission, error) {
	if err := ctx.Err(); err != nil {
		return store.Submission{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.items[id]
	if !ok {
		return store.Submission{}, store.ErrNotFound
	}
	return cloneSubmission(sub), nil
}

// Put stores a new submission.
func (s *Submissions) Put(ctx context.Context, sub store.Submission) (store.Submission, error) {
	if err := ctx.Err(); err != nil {
		return store.Submission{}, err
	}
	if err := sub.Prepare(s.clock()); err != nil {
		return store.Submission{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[sub.ID] = cloneSubmission(sub)
	return sub, nil
}

// Delete removes a submission.
func (s *Submissions) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func cloneTemplate(tpl store.Template) store.Template {
	if tpl.Fields != nil {
		tpl.Fields = append([]model.Field(nil), tpl.Fields...)
	}
	return tpl
}

func cloneSubmission(sub store.Submission) store.Submission {
	if sub.Data != nil {
		sub.Data = sub.Data.Clone()
	}
	return sub
}
