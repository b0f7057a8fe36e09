// Package storetest holds the behavioural contract shared by every store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/store"
)

// Factory returns fresh, empty stores for one subtest.
type Factory func(t *testing.T) (store.TemplateStore, store.SubmissionStore)

const laudoMarkup = "# Laudo\n\nCliente: {{cliente:text:label:Cliente}}\n\nValor: {{valor:number:label:Valor|format:currency}}\n\n{{fotos:imageList:optional}}"

// Run exercises the template and submission contract against the stores
// produced by factory.
func Run(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("TemplatePutRefreshesFields", func(t *testing.T) {
		templates, _ := factory(t)
		ctx := context.Background()

		saved, err := templates.Put(ctx, store.Template{Title: "Laudo", Markup: laudoMarkup, Format: "unknown"})
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if saved.ID == "" {
			t.Fatalf("expected generated id")
		}
		if saved.Format != render.BodyMarkdown {
			t.Fatalf("expected markdown format, got %q", saved.Format)
		}
		if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
			t.Fatalf("expected timestamps, got %+v", saved)
		}

		got, err := templates.Get(ctx, saved.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if diff := cmp.Diff([]string{"cliente", "valor", "fotos"}, fieldIDs(got.Fields)); diff != "" {
			t.Fatalf("field ids mismatch (-want +got):\n%s", diff)
		}
		if got.Markup != laudoMarkup {
			t.Fatalf("markup not preserved: %q", got.Markup)
		}
		if got.Fields[1].Format != "currency" || got.Fields[2].Required {
			t.Fatalf("field options lost: %+v", got.Fields)
		}
	})

	t.Run("TemplateUpdateKeepsCreatedAt", func(t *testing.T) {
		templates, _ := factory(t)
		ctx := context.Background()

		first, err := templates.Put(ctx, store.Template{ID: "tpl-1", Title: "A", Markup: "{{a:text}}"})
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		created := first.CreatedAt
		first.Markup = "{{b:date}} {{a:text}}"
		first.CreatedAt = time.Time{}
		second, err := templates.Put(ctx, first)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !second.CreatedAt.Equal(created) {
			t.Fatalf("created at changed: %v vs %v", second.CreatedAt, created)
		}

		got, err := templates.Get(ctx, "tpl-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if diff := cmp.Diff([]string{"b", "a"}, fieldIDs(got.Fields)); diff != "" {
			t.Fatalf("fields not refreshed (-want +got):\n%s", diff)
		}

		list, err := templates.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected a single template, got %d", len(list))
		}
	})

	t.Run("TemplateNotFound", func(t *testing.T) {
		templates, _ := factory(t)
		ctx := context.Background()

		if _, err := templates.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound from get, got %v", err)
		}
		if err := templates.Delete(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound from delete, got %v", err)
		}

		saved, err := templates.Put(ctx, store.Template{Title: "tmp", Markup: "x"})
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := templates.Delete(ctx, saved.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := templates.Get(ctx, saved.ID); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected deleted template to be gone, got %v", err)
		}
	})

	t.Run("SubmissionLifecycle", func(t *testing.T) {
		_, submissions := factory(t)
		ctx := context.Background()

		first, err := submissions.Put(ctx, store.Submission{
			TemplateID: "laudo",
			Data: model.Values{
				"cliente": "ACME",
				"fotos":   []model.ImageValue{{URL: "https://example.com/a.png", Description: "Frente"}},
				"itens":   []string{"A", "B"},
			},
			SubmittedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if first.ID == "" {
			t.Fatalf("expected generated submission id")
		}
		if _, err := submissions.Put(ctx, store.Submission{TemplateID: "other", Data: model.Values{"x": "1"}, SubmittedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)}); err != nil {
			t.Fatalf("put other: %v", err)
		}

		got, err := submissions.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Data.Text("cliente") != "ACME" {
			t.Fatalf("text value lost: %+v", got.Data)
		}
		if diff := cmp.Diff([]string{"A", "B"}, got.Data.List("itens")); diff != "" {
			t.Fatalf("list mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]model.ImageValue{{URL: "https://example.com/a.png", Description: "Frente"}}, got.Data.Images("fotos")); diff != "" {
			t.Fatalf("images mismatch (-want +got):\n%s", diff)
		}
		if !got.SubmittedAt.Equal(first.SubmittedAt) {
			t.Fatalf("submitted at changed: %v vs %v", got.SubmittedAt, first.SubmittedAt)
		}

		all, err := submissions.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 2 || all[0].TemplateID != "other" {
			t.Fatalf("expected newest first, got %+v", all)
		}

		byTemplate, err := submissions.ListByTemplate(ctx, "laudo")
		if err != nil {
			t.Fatalf("list by template: %v", err)
		}
		if len(byTemplate) != 1 || byTemplate[0].ID != first.ID {
			t.Fatalf("unexpected template listing: %+v", byTemplate)
		}

		if err := submissions.Delete(ctx, first.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := submissions.Get(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := submissions.Delete(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("SubmissionRequiresTemplate", func(t *testing.T) {
		_, submissions := factory(t)
		if _, err := submissions.Put(context.Background(), store.Submission{}); !errors.Is(err, store.ErrInvalidRecord) {
			t.Fatalf("expected ErrInvalidRecord, got %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		templates, _ := factory(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := templates.List(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func fieldIDs(fields []model.Field) []string {
	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		ids = append(ids, field.ID)
	}
	return ids
}
