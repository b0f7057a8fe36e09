package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formdoc/pkg/model"
)

// HTMLTarget renders values as escaped HTML fragments. Slots carry the field
// id in data-field so stylesheets and scripts can address them.
type HTMLTarget struct {
	// Errors flags slots of fields with validation feedback.
	Errors map[string][]string
}

var _ Target = HTMLTarget{}

func (t HTMLTarget) slotClass(field model.Field, state string) string {
	class := "field-slot field-slot--" + state
	if len(t.Errors[field.ID]) > 0 {
		class += " field-slot--invalid"
	}
	return class
}

func (t HTMLTarget) Empty(field model.Field) string {
	return fmt.Sprintf(`<span class="%s" data-field="%s">%s</span>`,
		t.slotClass(field, "empty"), attr(field.ID), html.EscapeString(field.Label))
}

func (t HTMLTarget) Text(field model.Field, value string) string {
	return fmt.Sprintf(`<span class="%s" data-field="%s">%s</span>`,
		t.slotClass(field, "filled"), attr(field.ID), html.EscapeString(value))
}

func (t HTMLTarget) Image(field model.Field, img model.ImageValue) string {
	alt := img.Caption()
	if alt == "" {
		alt = field.Label
	}
	return fmt.Sprintf(`<img class="field-image" data-field="%s" src="%s" alt="%s">`,
		attr(field.ID), attr(img.URL), attr(alt))
}

func (t HTMLTarget) Images(field model.Field, imgs []model.ImageValue) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="field-images" data-field="%s">`, attr(field.ID))
	for _, img := range imgs {
		caption := img.Caption()
		alt := caption
		if alt == "" {
			alt = field.Label
		}
		fmt.Fprintf(&b, `<figure class="field-image"><img src="%s" alt="%s">`, attr(img.URL), attr(alt))
		if desc := strings.TrimSpace(img.Description); desc != "" {
			fmt.Fprintf(&b, `<figcaption>%s</figcaption>`, html.EscapeString(desc))
		}
		b.WriteString(`</figure>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (t HTMLTarget) List(field model.Field, items []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<ul class="field-list" data-field="%s">`, attr(field.ID))
	for _, item := range items {
		fmt.Fprintf(&b, `<li>%s</li>`, html.EscapeString(strings.TrimSpace(item)))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func attr(value string) string {
	return html.EscapeString(value)
}

// MarkdownTarget renders values as markdown. Text is written as typed; only
// image alt text is escaped since brackets would break the link syntax.
type MarkdownTarget struct{}

var _ Target = MarkdownTarget{}

var altEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, "\n", " ")

func (MarkdownTarget) Empty(field model.Field) string {
	return "[" + altEscaper.Replace(field.Label) + "]"
}

func (MarkdownTarget) Text(_ model.Field, value string) string {
	return value
}

func (MarkdownTarget) Image(field model.Field, img model.ImageValue) string {
	alt := img.Caption()
	if alt == "" {
		alt = field.Label
	}
	return markdownImage(alt, img.URL)
}

func (t MarkdownTarget) Images(field model.Field, imgs []model.ImageValue) string {
	blocks := make([]string, 0, len(imgs))
	for _, img := range imgs {
		blocks = append(blocks, t.Image(field, img))
	}
	return strings.Join(blocks, "\n\n")
}

func (MarkdownTarget) List(_ model.Field, items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+strings.TrimSpace(item))
	}
	return strings.Join(lines, "\n")
}

func markdownImage(alt, url string) string {
	url = strings.NewReplacer(" ", "%20", ")", "%29").Replace(strings.TrimSpace(url))
	return "![" + altEscaper.Replace(alt) + "](" + url + ")"
}

// RenderHTML is a shorthand for an HTMLTarget engine with the default
// formatter.
func RenderHTML(markup string, fields []model.Field, values model.Values) string {
	return NewEngine(HTMLTarget{}).Render(markup, fields, values)
}

// RenderMarkdown is a shorthand for a MarkdownTarget engine with the default
// formatter.
func RenderMarkdown(markup string, fields []model.Field, values model.Values) string {
	return NewEngine(MarkdownTarget{}).Render(markup, fields, values)
}
