package model

import (
	"strings"

	"github.com/goliatone/go-formdoc/pkg/token"
)

// Builder converts template markup into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Namer != nil {
		opts.Namer = options.Namer
	}
	return &Builder{opts: opts}
}

// Build extracts the tokens of src.Markup and maps them into a FormModel. The
// template id is optional so unsaved drafts can be previewed.
func (b *Builder) Build(src Source) (FormModel, error) {
	if err := validateSource(src, false); err != nil {
		return FormModel{}, err
	}

	form := FormModel{
		TemplateID:  src.ID,
		Title:       strings.TrimSpace(src.Title),
		Description: strings.TrimSpace(src.Description),
		Fields:      b.Fields(token.Extract(src.Markup)),
	}
	if err := validateFields(form.Fields); err != nil {
		return FormModel{}, err
	}
	return form, nil
}

// Fields maps tokens one to one onto form fields.
func (b *Builder) Fields(tokens []token.Token) []Field {
	if len(tokens) == 0 {
		return []Field{}
	}
	fields := make([]Field, 0, len(tokens))
	for _, tok := range tokens {
		fields = append(fields, b.field(tok))
	}
	return fields
}

func (b *Builder) field(tok token.Token) Field {
	tok = tok.Normalize()
	label := tok.Label
	if label == tok.ID && b.opts.Labeler != nil {
		if friendly := b.opts.Labeler(tok.ID); friendly != "" {
			label = friendly
		}
	}
	return Field{
		ID:          tok.ID,
		Name:        b.opts.Namer(label),
		Type:        tok.Kind,
		Label:       label,
		Format:      tok.Format,
		Placeholder: tok.Placeholder,
		Required:    tok.Required,
	}
}

// ToSchema maps tokens into fields with the default options.
func ToSchema(tokens []token.Token) []Field {
	return New(Options{}).Fields(tokens)
}
