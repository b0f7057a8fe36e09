package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/numfmt"
	"github.com/goliatone/go-formdoc/pkg/token"
)

// Target renders values for one output format. The Engine decides which
// method applies; targets only deal with presentation and escaping.
type Target interface {
	// Empty renders the visible placeholder of a field without a value.
	Empty(field model.Field) string
	// Text renders a scalar value (text, formatted number, date).
	Text(field model.Field, value string) string
	Image(field model.Field, img model.ImageValue) string
	// Images receives only entries carrying a URL, never an empty slice.
	Images(field model.Field, imgs []model.ImageValue) string
	// List receives only non-blank entries, never an empty slice.
	List(field model.Field, items []string) string
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithFormatter sets the number formatter.
func WithFormatter(formatter numfmt.Formatter) EngineOption {
	return func(e *Engine) {
		if formatter != nil {
			e.formatter = formatter
		}
	}
}

// Engine substitutes field tokens in template markup with rendered values.
type Engine struct {
	target    Target
	formatter numfmt.Formatter
}

// NewEngine returns an engine writing through target.
func NewEngine(target Target, options ...EngineOption) *Engine {
	e := &Engine{target: target, formatter: numfmt.Default}
	for _, option := range options {
		if option != nil {
			option(e)
		}
	}
	return e
}

type span struct {
	start, end int
	text       string
}

// Render replaces every occurrence of each field, in either serialization, with
// the field's rendered value. Replacements are located in the original markup
// and spliced in one pass, so values that look like tokens are never
// substituted again. Tokens for ids outside fields are left as written.
func (e *Engine) Render(markup string, fields []model.Field, values model.Values) string {
	if markup == "" || len(fields) == 0 {
		return markup
	}

	tags := make(map[string][]token.Occurrence)
	for _, occ := range token.Occurrences(markup) {
		if occ.Form == token.FormTag {
			tags[occ.Token.ID] = append(tags[occ.Token.ID], occ)
		}
	}

	var spans []span
	for _, field := range fields {
		if field.ID == "" {
			continue
		}
		replacement := e.Value(field, values)
		for _, loc := range fieldPattern(field.ID).FindAllStringIndex(markup, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1], text: replacement})
		}
		for _, occ := range tags[field.ID] {
			spans = append(spans, span{start: occ.Start, end: occ.End, text: replacement})
		}
	}
	return splice(markup, spans)
}

// Value renders the value of a single field.
func (e *Engine) Value(field model.Field, values model.Values) string {
	switch field.Type {
	case token.KindImage:
		img, ok := values.Image(field.ID)
		if !ok || strings.TrimSpace(img.URL) == "" {
			return e.target.Empty(field)
		}
		return e.target.Image(field, img)
	case token.KindImageList:
		var imgs []model.ImageValue
		for _, img := range values.Images(field.ID) {
			if strings.TrimSpace(img.URL) != "" {
				imgs = append(imgs, img)
			}
		}
		if len(imgs) == 0 {
			return e.target.Empty(field)
		}
		return e.target.Images(field, imgs)
	case token.KindList:
		var items []string
		for _, item := range values.List(field.ID) {
			if strings.TrimSpace(item) != "" {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return e.target.Empty(field)
		}
		return e.target.List(field, items)
	case token.KindNumber:
		formatted := e.formatter.Format(values.Text(field.ID), field.Format)
		if formatted == "" {
			return e.target.Empty(field)
		}
		return e.target.Text(field, formatted)
	default:
		text := values.Text(field.ID)
		if strings.TrimSpace(text) == "" {
			return e.target.Empty(field)
		}
		return e.target.Text(field, text)
	}
}

// fieldPattern matches the double-brace tokens of one id whatever their type
// and options.
func fieldPattern(id string) *regexp.Regexp {
	return regexp.MustCompile(`\{\{` + regexp.QuoteMeta(id) + `:[A-Za-z][A-Za-z_]*(?::[^}]*)?\}\}`)
}

// splice applies non-overlapping spans left to right. When spans overlap the
// one starting first wins.
func splice(markup string, spans []span) string {
	if len(spans) == 0 {
		return markup
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var b strings.Builder
	b.Grow(len(markup))
	last := 0
	for _, s := range spans {
		if s.start < last {
			continue
		}
		b.WriteString(markup[last:s.start])
		b.WriteString(s.text)
		last = s.end
	}
	b.WriteString(markup[last:])
	return b.String()
}
