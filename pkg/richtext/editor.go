package richtext

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formdoc/pkg/token"
)

// Editor is the contract of an interactive rich-text widget as seen by the
// rest of the system.
type Editor interface {
	Content() string
	OnUpdate(fn func(markup string))
	InsertField(tok token.Token) error
}

// InsertFunc inserts a field at the editor's current cursor. Toolbars and
// dialogs receive one from the component that owns the editor.
type InsertFunc func(tok token.Token) error

// Session is an Editor backed by a Document and a cursor.
type Session struct {
	doc       *Document
	selection Selection
	listeners []func(string)
}

var _ Editor = (*Session)(nil)

// NewSession parses markup and places the cursor at the end.
func NewSession(markup string) *Session {
	doc := ToRichContent(markup)
	return &Session{doc: doc, selection: Cursor(doc.Len())}
}

// Content returns the current markup.
func (s *Session) Content() string {
	return ToMarkup(s.doc)
}

// Document exposes the tree. Callers must not keep it across edits.
func (s *Session) Document() *Document {
	return s.doc
}

// OnUpdate registers a callback invoked with the new markup after each edit.
func (s *Session) OnUpdate(fn func(markup string)) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Select moves the cursor or selection.
func (s *Session) Select(sel Selection) error {
	if sel.From > sel.To {
		sel.From, sel.To = sel.To, sel.From
	}
	if sel.From < 0 || sel.To > s.doc.Len() {
		return fmt.Errorf("%w: %d-%d of %d", ErrPositionOutOfRange, sel.From, sel.To, s.doc.Len())
	}
	s.selection = sel
	return nil
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	return s.selection
}

// InsertField places a field node at the selection and moves the cursor right
// after it.
func (s *Session) InsertField(tok token.Token) error {
	doc, err := InsertField(s.doc, s.selection, tok)
	if err != nil {
		return err
	}
	s.doc = doc
	s.selection = Cursor(min(s.selection.From, s.selection.To) + 1)
	s.notify()
	return nil
}

// UpdateField edits the attributes of an existing field.
func (s *Session) UpdateField(attrs token.Token) error {
	if err := s.doc.UpdateField(attrs); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Insert returns the session's insert command for injection into toolbars.
func (s *Session) Insert() InsertFunc {
	return s.InsertField
}

func (s *Session) notify() {
	markup := s.Content()
	for _, fn := range s.listeners {
		fn(markup)
	}
}

// FieldRequest describes a field an author asks to insert. ID may be empty, in
// which case one is generated.
type FieldRequest struct {
	ID          string             `json:"id,omitempty"`
	Kind        token.Kind         `json:"type"`
	Label       string             `json:"label"`
	Format      token.NumberFormat `json:"format,omitempty"`
	Placeholder string             `json:"placeholder,omitempty"`
	Optional    bool               `json:"optional,omitempty"`
}

// Token validates the request and converts it to a token.
func (r FieldRequest) Token() (token.Token, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = NewFieldID()
	}
	if err := token.ValidateID(id); err != nil {
		return token.Token{}, err
	}
	kind, ok := token.ParseKind(string(r.Kind))
	if !ok && r.Kind != "" {
		return token.Token{}, fmt.Errorf("richtext: unknown field type %q", r.Kind)
	}
	return token.Token{
		ID:          id,
		Kind:        kind,
		Label:       r.Label,
		Format:      r.Format,
		Placeholder: r.Placeholder,
		Required:    !r.Optional,
	}.Normalize(), nil
}

// Inserter turns field requests into tokens and hands them to an injected
// InsertFunc.
type Inserter struct {
	insert InsertFunc
}

// NewInserter wires an inserter to the editor that owns the cursor.
func NewInserter(insert InsertFunc) *Inserter {
	return &Inserter{insert: insert}
}

// Insert validates req and inserts it, returning the token used.
func (i *Inserter) Insert(req FieldRequest) (token.Token, error) {
	if i == nil || i.insert == nil {
		return token.Token{}, fmt.Errorf("richtext: no insert command configured")
	}
	tok, err := req.Token()
	if err != nil {
		return token.Token{}, err
	}
	if err := i.insert(tok); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

// NewFieldID generates an identifier such as field_1b4e28ba2fa1.
func NewFieldID() string {
	return "field_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
