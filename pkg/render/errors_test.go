package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{ID: "cliente", Name: "nome_do_cliente", Type: model.FieldTypeText},
			{ID: "total", Name: "valor", Type: model.FieldTypeNumber},
			{ID: "fotos", Name: "fotos", Type: model.FieldTypeImageList},
		},
	}

	payload := map[string][]string{
		"/data/cliente":      {"Cliente is required", " Cliente is required "},
		"valor":              {"must be digits"},
		"$.values.fotos[0]":  {"url missing"},
		"non_field_errors":   {"Form level error"},
		"/data/unknown":      {"Should fall back to form errors"},
		"":                   {"Unscoped form error"},
		"/data/total/~1kind": {"nested pointer"},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"cliente": {"Cliente is required"},
		"total":   {"must be digits", "nested pointer"},
		"fotos":   {"url missing"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" a ", "b"}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
