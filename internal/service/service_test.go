package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/richtext"
	"github.com/goliatone/go-formdoc/pkg/store"
	"github.com/goliatone/go-formdoc/pkg/store/memory"
	"github.com/goliatone/go-formdoc/pkg/token"
)

const laudo = "Cliente: {{cliente:text:label:Cliente}}\n\nValor: {{valor:number:label:Valor|format:currency}}\n\nObs: {{obs:text:optional}}"

func newService(t *testing.T) (*service.Service, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	svc := service.New(memory.NewTemplates(), memory.NewSubmissions(), service.WithLogger(zap.New(core)))
	return svc, logs
}

func createLaudo(t *testing.T, svc *service.Service) store.Template {
	t.Helper()
	tpl, err := svc.CreateTemplate(context.Background(), service.TemplateInput{Title: "Laudo", Markup: laudo})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return tpl
}

func TestService_TemplateCRUD(t *testing.T) {
	svc, logs := newService(t)
	ctx := context.Background()

	tpl := createLaudo(t, svc)
	if len(tpl.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %+v", tpl.Fields)
	}
	if logs.FilterMessage("template saved").Len() != 1 {
		t.Fatalf("expected a template saved log entry")
	}

	updated, err := svc.UpdateTemplate(ctx, tpl.ID, service.TemplateInput{Title: "Laudo v2", Markup: "{{x:texto}}", Canonicalize: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Markup != "{{x:text}}" || updated.Title != "Laudo v2" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.UpdateTemplate(ctx, "missing", service.TemplateInput{Title: "x"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateTemplate(ctx, service.TemplateInput{Markup: "x"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing title, got %v", err)
	}

	if err := svc.DeleteTemplate(ctx, tpl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := svc.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no templates, got %d", len(list))
	}
}

func TestService_SubmitValidatesAndNormalises(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	tpl := createLaudo(t, svc)

	_, err := svc.Submit(ctx, tpl.ID, model.Values{"cliente": "ACME"})
	var verr *service.ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"valor": {verr.Result.Issues[0].Message}}, verr.Result.Payload()); diff != "" {
		t.Fatalf("issue payload mismatch (-want +got):\n%s", diff)
	}

	sub, err := svc.Submit(ctx, tpl.ID, model.Values{"cliente": "ACME", "valor": "R$ 1.500,75"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Data.Text("valor") != "150075" {
		t.Fatalf("expected digits to be stored, got %v", sub.Data["valor"])
	}
	if _, ok := sub.Data["obs"]; ok {
		t.Fatalf("empty optional value should be dropped: %+v", sub.Data)
	}

	subs, err := svc.ListSubmissions(ctx, tpl.ID)
	if err != nil || len(subs) != 1 {
		t.Fatalf("list submissions: %v %d", err, len(subs))
	}
}

func TestService_PreviewAndRenderSubmission(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	tpl := createLaudo(t, svc)

	preview, err := svc.Preview(ctx, tpl.ID, service.PreviewRequest{Renderer: "markdown", Fragment: true})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	want := "Cliente: [Cliente]\n\nValor: [Valor]\n\nObs: [obs]"
	if diff := cmp.Diff(want, string(preview.Body)); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
	if preview.FileName != "Laudo_preenchido.md" {
		t.Fatalf("unexpected file name %q", preview.FileName)
	}

	sub, err := svc.Submit(ctx, tpl.ID, model.Values{"cliente": "ACME", "valor": 150075})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	rendered, err := svc.RenderSubmission(ctx, sub.ID, service.PreviewRequest{Renderer: "html"})
	if err != nil {
		t.Fatalf("render submission: %v", err)
	}
	if !strings.HasPrefix(rendered.ContentType, "text/html") || rendered.FileName != "Laudo_preenchido.html" {
		t.Fatalf("unexpected rendered metadata: %q %q", rendered.ContentType, rendered.FileName)
	}
	body := string(rendered.Body)
	if !strings.Contains(body, "ACME") || !strings.Contains(body, "R$ 1.500,75") {
		t.Fatalf("submission values missing from document: %s", body)
	}

	if _, err := svc.Preview(ctx, tpl.ID, service.PreviewRequest{Renderer: "pdf"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown renderer, got %v", err)
	}
}

func TestService_ExportSubmission(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	tpl := createLaudo(t, svc)

	sub, err := svc.Submit(ctx, tpl.ID, model.Values{"cliente": "ACME", "valor": "10"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	out, err := svc.ExportSubmission(ctx, sub.ID, "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := string(out.Body); got != "cliente,valor\nACME,10\n" {
		t.Fatalf("unexpected csv %q", got)
	}
	if _, err := svc.ExportSubmission(ctx, sub.ID, "xml"); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.ExportSubmission(ctx, "missing", "json"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ExportFollowsFieldOrder(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	tpl, err := svc.CreateTemplate(ctx, service.TemplateInput{Title: "Vistoria", Markup: "{{zona:text}} {{area:number}}"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	first, err := svc.Submit(ctx, tpl.ID, model.Values{"zona": "Norte", "area": "12"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	out, err := svc.ExportSubmission(ctx, first.ID, "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := string(out.Body); got != "zona,area\nNorte,12\n" {
		t.Fatalf("unexpected csv %q", got)
	}

	if _, err := svc.Submit(ctx, tpl.ID, model.Values{"zona": "Sul", "area": "7"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	batch, err := svc.ExportSubmissions(ctx, tpl.ID, "csv", now)
	if err != nil {
		t.Fatalf("export all: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(batch.Body)), "\n")
	if len(lines) != 3 || lines[0] != "submissionId,templateId,submittedAt,zona,area" {
		t.Fatalf("unexpected batch csv %q", batch.Body)
	}
	if batch.FileName != "submissions_2024-05-06.csv" {
		t.Fatalf("unexpected file name %q", batch.FileName)
	}
	if _, err := svc.ExportSubmissions(ctx, "", "xml", now); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := svc.DeleteTemplate(ctx, tpl.ID); err != nil {
		t.Fatalf("delete template: %v", err)
	}
	out, err = svc.ExportSubmission(ctx, first.ID, "csv")
	if err != nil {
		t.Fatalf("export without template: %v", err)
	}
	if got := string(out.Body); got != "area,zona\n12,Norte\n" {
		t.Fatalf("unexpected csv %q", got)
	}
}

func TestService_InsertAndUpdateField(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, service.TemplateInput{Title: "T", Markup: "Olá mundo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sel := richtext.Cursor(4)
	saved, tok, err := svc.InsertField(ctx, tpl.ID, service.InsertFieldRequest{
		FieldRequest: richtext.FieldRequest{ID: "nome", Kind: token.KindText, Label: "Nome"},
		Selection:    &sel,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tok.ID != "nome" || saved.Markup != "Olá {{nome:text:label:Nome}}mundo" {
		t.Fatalf("unexpected insert result: %q %+v", saved.Markup, tok)
	}

	appended, generated, err := svc.InsertField(ctx, tpl.ID, service.InsertFieldRequest{
		FieldRequest: richtext.FieldRequest{Kind: token.KindDate, Label: "Data"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !strings.HasPrefix(generated.ID, "field_") || !strings.HasSuffix(appended.Markup, generated.String()) {
		t.Fatalf("expected generated field at the end: %q", appended.Markup)
	}
	if len(appended.Fields) != 2 {
		t.Fatalf("fields not refreshed: %+v", appended.Fields)
	}

	updated, err := svc.UpdateField(ctx, tpl.ID, token.Token{ID: "nome", Kind: token.KindText, Label: "Nome completo", Required: true})
	if err != nil {
		t.Fatalf("update field: %v", err)
	}
	if !strings.Contains(updated.Markup, "{{nome:text:label:Nome completo}}") {
		t.Fatalf("field not updated: %q", updated.Markup)
	}

	if _, err := svc.UpdateField(ctx, tpl.ID, token.Token{ID: "ghost", Kind: token.KindText}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown field, got %v", err)
	}

	bad := richtext.Cursor(999)
	if _, _, err := svc.InsertField(ctx, tpl.ID, service.InsertFieldRequest{
		FieldRequest: richtext.FieldRequest{Kind: token.KindText},
		Selection:    &bad,
	}); !errors.Is(err, service.ErrInvalidInput) || !errors.Is(err, richtext.ErrPositionOutOfRange) {
		t.Fatalf("expected out of range input error, got %v", err)
	}
}

func TestService_SubmissionSchema(t *testing.T) {
	svc, _ := newService(t)
	tpl := createLaudo(t, svc)

	schema, err := svc.SubmissionSchema(context.Background(), tpl.ID)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if diff := cmp.Diff([]string{"cliente", "valor"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}
