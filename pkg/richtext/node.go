package richtext

import (
	"unicode/utf8"

	"github.com/goliatone/go-formdoc/pkg/token"
)

// Node is an inline node of a Document: *Text or *Field.
type Node interface {
	// Size is the number of cursor positions the node spans.
	Size() int
	clone() Node
}

// Text is a run of literal, editable text.
type Text struct {
	Value string
}

// Size counts runes.
func (t *Text) Size() int { return utf8.RuneCountInString(t.Value) }

func (t *Text) clone() Node { c := *t; return &c }

// Field is an atomic, non-editable inline node referencing a form field.
type Field struct {
	attrs  token.Token
	origin token.Token
	raw    string
	form   token.Form
}

// NewField creates a field node for a token that has not been serialized yet.
func NewField(tok token.Token) *Field {
	tok = tok.Normalize()
	return &Field{attrs: tok, origin: tok, raw: tok.String(), form: token.FormBrace}
}

// Size is always one: fields are atoms.
func (f *Field) Size() int { return 1 }

func (f *Field) clone() Node { c := *f; return &c }

// ID returns the immutable field id.
func (f *Field) ID() string { return f.attrs.ID }

// Attrs returns the current attributes.
func (f *Field) Attrs() token.Token { return f.attrs }

// Dirty reports whether the attributes changed since the node was parsed.
func (f *Field) Dirty() bool { return f.attrs != f.origin }

// SetAttrs replaces label, type, format, placeholder and required. The id
// cannot change once the node exists.
func (f *Field) SetAttrs(tok token.Token) error {
	if tok.ID != f.attrs.ID {
		return ErrImmutableID
	}
	f.attrs = tok.Normalize()
	return nil
}

// Markup serializes the node. Unchanged nodes keep their source text.
func (f *Field) Markup() string {
	if !f.Dirty() && f.raw != "" {
		return f.raw
	}
	return f.attrs.String()
}
