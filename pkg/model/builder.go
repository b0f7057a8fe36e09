package model

import (
	"github.com/goliatone/go-formdoc/internal/model"
	"github.com/goliatone/go-formdoc/pkg/token"
)

// Builder converts template markup into form models.
type Builder interface {
	Build(src Source) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
	namer   func(string) string
}

// WithLabeler humanises labels that were left at their default (the id).
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithNamer overrides how the secondary field name is derived from the label.
func WithNamer(namer func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.namer = namer
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	return model.New(model.Options{
		Labeler: cfg.labeler,
		Namer:   cfg.namer,
	})
}

// ToSchema maps extracted tokens onto form fields, one per token, preserving
// order. It is pure and performs no validation.
func ToSchema(tokens []token.Token) []Field {
	return model.ToSchema(tokens)
}

// DefaultLabeler converts a field id such as "client_name" into "Client Name".
func DefaultLabeler(id string) string {
	return model.DefaultLabeler(id)
}
