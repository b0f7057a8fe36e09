package html_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/render"
	htmlrenderer "github.com/goliatone/go-formdoc/pkg/renderers/html"
	"github.com/goliatone/go-formdoc/pkg/token"
)

func newDocument(markup string, format render.BodyFormat) render.Document {
	return render.Document{
		Form: model.FormModel{
			TemplateID:  "contrato",
			Title:       "Contrato",
			Description: "Prestação de serviços",
			Fields:      model.ToSchema(token.Extract(markup)),
		},
		Markup: markup,
		Format: format,
	}
}

func newRenderer(t *testing.T) *htmlrenderer.Renderer {
	t.Helper()
	renderer, err := htmlrenderer.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func TestRenderer_Identity(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "html" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected identity %q %q", renderer.Name(), renderer.ContentType())
	}
}

func TestRenderer_MarkdownBodyFragment(t *testing.T) {
	renderer := newRenderer(t)
	doc := newDocument("# Contrato\n\nCliente: **{{cliente:text:label:Cliente}}**\n\nValor: {{valor:number:format:currency}}\n", render.BodyMarkdown)

	out, err := renderer.Render(context.Background(), doc, render.RenderOptions{
		Values:   model.Values{"cliente": "Ana *Souza*"},
		Fragment: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		"<h1>Contrato</h1>",
		`<strong><span class="field-slot field-slot--filled" data-field="cliente">Ana *Souza*</span></strong>`,
		`<span class="field-slot field-slot--empty" data-field="valor">valor</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("fragment missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<html") {
		t.Fatalf("fragment should not include page chrome:\n%s", got)
	}
}

func TestRenderer_HTMLBodyWithTagForm(t *testing.T) {
	renderer := newRenderer(t)
	doc := newDocument(`<p>Olá <field-node id="nome" label="Nome" type="text"></field-node>, <field-node id="missing" type="text"></field-node></p>`, render.BodyHTML)
	doc.Form.Fields = doc.Form.Fields[:1]

	out, err := renderer.Render(context.Background(), doc, render.RenderOptions{
		Values:   model.Values{"nome": "Rui"},
		Fragment: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, `data-field="nome">Rui</span>`) {
		t.Fatalf("tag form not substituted:\n%s", got)
	}
	if strings.Contains(got, "field-node") {
		t.Fatalf("unknown field tags should be stripped by the sanitizer:\n%s", got)
	}
}

func TestRenderer_SanitizesValues(t *testing.T) {
	renderer := newRenderer(t)
	doc := newDocument("{{logo:image}} {{foto:image}}", render.BodyHTML)

	out, err := renderer.Render(context.Background(), doc, render.RenderOptions{
		Values: model.Values{
			"logo": "javascript:alert(1)",
			"foto": "data:image/png;base64,iVBORw0KGgo=",
		},
		Fragment: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe url kept:\n%s", got)
	}
	if !strings.Contains(got, `src="data:image/png;base64,iVBORw0KGgo="`) {
		t.Fatalf("data URI image dropped:\n%s", got)
	}
}

func TestRenderer_PageWithTheme(t *testing.T) {
	renderer := newRenderer(t)
	doc := newDocument("{{cidade:text:label:City}}", render.BodyMarkdown)

	out, err := renderer.Render(context.Background(), doc, render.RenderOptions{
		Errors: map[string][]string{"cidade": {"required"}, "form": {"Revise os campos"}},
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			CSSVars: map[string]string{"--formdoc-accent": "#123456"},
			AssetURL: func(key string) string {
				return "/themes/acme/" + key
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		`<link rel="stylesheet" href="/themes/acme/formdoc.css">`,
		"--formdoc-accent: #123456;",
		`<h1 class="formdoc__title">Contrato</h1>`,
		"Revise os campos",
		"field-slot--invalid",
		">City</span>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("page missing %q:\n%s", want, got)
		}
	}
}

func TestRenderer_PageEmbedsDefaultStylesheet(t *testing.T) {
	renderer := newRenderer(t)
	out, err := renderer.Render(context.Background(), newDocument("x", render.BodyMarkdown), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), ".field-slot--empty") {
		t.Fatalf("default stylesheet not inlined")
	}
}

func TestRenderer_HonoursCancelledContext(t *testing.T) {
	renderer := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := renderer.Render(ctx, newDocument("x", render.BodyMarkdown), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestMarkdownToHTML_KeepsTokens(t *testing.T) {
	got := htmlrenderer.MarkdownToHTML("Prazo -- {{prazo_final:date:label:Prazo -- final}}")
	if !strings.Contains(got, "{{prazo_final:date:label:Prazo -- final}}") {
		t.Fatalf("token mangled: %q", got)
	}
}
