package richtext

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formdoc/pkg/token"
)

// Document is the root of the editable tree: an ordered list of inline nodes.
type Document struct {
	Children []Node
}

// Selection addresses cursor positions. Each rune of text and each field node
// occupies one position. From == To is a collapsed cursor.
type Selection struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Cursor returns a collapsed selection at pos.
func Cursor(pos int) Selection {
	return Selection{From: pos, To: pos}
}

// ToRichContent parses markup into a Document. Tokens in either serialization
// become Field nodes; everything else, malformed tokens included, stays text.
func ToRichContent(markup string) *Document {
	doc := &Document{}
	last := 0
	for _, occ := range token.Occurrences(markup) {
		if occ.Start > last {
			doc.Children = append(doc.Children, &Text{Value: markup[last:occ.Start]})
		}
		doc.Children = append(doc.Children, &Field{
			attrs:  occ.Token,
			origin: occ.Token,
			raw:    occ.Raw,
			form:   occ.Form,
		})
		last = occ.End
	}
	if last < len(markup) {
		doc.Children = append(doc.Children, &Text{Value: markup[last:]})
	}
	return doc
}

// ToMarkup serializes the tree. Text is emitted verbatim and fields from their
// current attributes.
func ToMarkup(doc *Document) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	for _, node := range doc.Children {
		switch n := node.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *Field:
			b.WriteString(n.Markup())
		}
	}
	return b.String()
}

// ToTagMarkup serializes fields in the inline-tag form understood by HTML
// based editors.
func ToTagMarkup(doc *Document) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	for _, node := range doc.Children {
		switch n := node.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *Field:
			b.WriteString(Tag(n.Attrs()))
		}
	}
	return b.String()
}

// Tag renders a token as a <field-node> element.
func Tag(tok token.Token) string {
	tok = tok.Normalize()
	var b strings.Builder
	fmt.Fprintf(&b, `<field-node id="%s" label="%s" type="%s"`,
		html.EscapeString(tok.ID), html.EscapeString(tok.Label), html.EscapeString(string(tok.Kind)))
	if tok.Kind == token.KindNumber {
		fmt.Fprintf(&b, ` format="%s"`, html.EscapeString(string(tok.Format)))
	}
	if tok.Placeholder != "" {
		fmt.Fprintf(&b, ` placeholder="%s"`, html.EscapeString(tok.Placeholder))
	}
	if !tok.Required {
		b.WriteString(` optional="true"`)
	}
	b.WriteString("></field-node>")
	return b.String()
}

// Canonicalize rewrites every field of markup in the canonical double-brace
// form, leaving text untouched.
func Canonicalize(markup string) string {
	doc := ToRichContent(markup)
	var b strings.Builder
	for _, node := range doc.Children {
		switch n := node.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *Field:
			b.WriteString(n.Attrs().String())
		}
	}
	return b.String()
}

// Len is the number of cursor positions in the document.
func (d *Document) Len() int {
	total := 0
	for _, node := range d.Children {
		total += node.Size()
	}
	return total
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Children: make([]Node, 0, len(d.Children))}
	for _, node := range d.Children {
		out.Children = append(out.Children, node.clone())
	}
	return out
}

// Fields returns the field attributes in first-appearance order, one entry per
// id, read from the current node attributes.
func (d *Document) Fields() []token.Token {
	seen := make(map[string]struct{})
	var out []token.Token
	for _, node := range d.Children {
		field, ok := node.(*Field)
		if !ok {
			continue
		}
		if _, dup := seen[field.ID()]; dup {
			continue
		}
		seen[field.ID()] = struct{}{}
		out = append(out, field.Attrs())
	}
	return out
}

// Field returns the first node carrying id.
func (d *Document) Field(id string) (*Field, bool) {
	for _, node := range d.Children {
		if field, ok := node.(*Field); ok && field.ID() == id {
			return field, true
		}
	}
	return nil, false
}

// UpdateField applies attrs to every node referencing attrs.ID so repeated
// references stay consistent with the first one.
func (d *Document) UpdateField(attrs token.Token) error {
	updated := false
	for _, node := range d.Children {
		field, ok := node.(*Field)
		if !ok || field.ID() != attrs.ID {
			continue
		}
		if err := field.SetAttrs(attrs); err != nil {
			return err
		}
		updated = true
	}
	if !updated {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, attrs.ID)
	}
	return nil
}

// InsertField returns a copy of doc with a field node for tok placed at sel.
// A non-empty selection is replaced; text on either side is kept as is. The
// input document is not modified.
func InsertField(doc *Document, sel Selection, tok token.Token) (*Document, error) {
	if err := token.ValidateID(tok.ID); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &Document{}
	}
	if sel.From > sel.To {
		sel.From, sel.To = sel.To, sel.From
	}
	if sel.From < 0 || sel.To > doc.Len() {
		return nil, fmt.Errorf("%w: %d-%d of %d", ErrPositionOutOfRange, sel.From, sel.To, doc.Len())
	}

	before, rest := split(doc.Clone().Children, sel.From)
	_, after := split(rest, sel.To-sel.From)

	out := &Document{Children: make([]Node, 0, len(before)+len(after)+1)}
	out.Children = append(out.Children, before...)
	out.Children = append(out.Children, NewField(tok))
	out.Children = append(out.Children, after...)
	out.mergeText()
	return out, nil
}

// split cuts nodes at position pos, splitting a text node when needed.
func split(nodes []Node, pos int) ([]Node, []Node) {
	var left []Node
	for i, node := range nodes {
		size := node.Size()
		if pos <= 0 {
			return left, append([]Node(nil), nodes[i:]...)
		}
		if pos >= size {
			left = append(left, node)
			pos -= size
			continue
		}
		text := node.(*Text)
		runes := []rune(text.Value)
		left = append(left, &Text{Value: string(runes[:pos])})
		right := append([]Node{&Text{Value: string(runes[pos:])}}, nodes[i+1:]...)
		return left, right
	}
	return left, nil
}

func (d *Document) mergeText() {
	merged := d.Children[:0]
	for _, node := range d.Children {
		text, ok := node.(*Text)
		if ok && text.Value == "" {
			continue
		}
		if ok && len(merged) > 0 {
			if prev, prevOK := merged[len(merged)-1].(*Text); prevOK {
				prev.Value += text.Value
				continue
			}
		}
		merged = append(merged, node)
	}
	d.Children = merged
}
