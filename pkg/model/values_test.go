package model_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdoc/pkg/model"
)

func TestValues_DecodeJSONShapes(t *testing.T) {
	raw := `{
		"client": "ACME",
		"total": 150075,
		"logo": {"url": "data:image/png;base64,AAA", "name": "logo.png"},
		"photos": [{"url": "https://x/1.png", "description": "front"}, {"url": ""}],
		"items": ["", "Item A", "  "]
	}`
	var values model.Values
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := values.Text("client"); got != "ACME" {
		t.Fatalf("text mismatch: %q", got)
	}
	if got := values.Text("total"); got != "150075" {
		t.Fatalf("number text mismatch: %q", got)
	}

	logo, ok := values.Image("logo")
	if !ok || logo.URL != "data:image/png;base64,AAA" || logo.Caption() != "logo.png" {
		t.Fatalf("image mismatch: %+v %v", logo, ok)
	}

	wantPhotos := []model.ImageValue{{URL: "https://x/1.png", Description: "front"}, {}}
	if diff := cmp.Diff(wantPhotos, values.Images("photos")); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "Item A", "  "}, values.List("items")); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_DecodeYAMLShapes(t *testing.T) {
	raw := `{"foto": {"url": "https://x/a.png", "name": "a"}, "fotos": [{"url": "https://x/b.png"}, "https://x/c.png"]}`
	var values model.Values
	if err := yaml.Unmarshal([]byte(raw), &values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	foto, ok := values.Image("foto")
	if !ok || foto.URL != "https://x/a.png" || foto.Name != "a" {
		t.Fatalf("image mismatch: %+v %v", foto, ok)
	}
	want := []model.ImageValue{{URL: "https://x/b.png"}, {URL: "https://x/c.png"}}
	if diff := cmp.Diff(want, values.Images("fotos")); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
	if !values.Has(model.Field{ID: "fotos", Type: model.FieldTypeImageList}) {
		t.Fatalf("expected gallery to be filled")
	}
}

func TestValues_NestedValuesShapes(t *testing.T) {
	values := model.Values{
		"foto":  model.Values{"url": "https://x/a.png"},
		"fotos": []model.Values{{"url": "https://x/b.png", "description": "frente"}},
	}
	if foto, ok := values.Image("foto"); !ok || foto.URL != "https://x/a.png" {
		t.Fatalf("image mismatch: %+v %v", foto, ok)
	}
	want := []model.ImageValue{{URL: "https://x/b.png", Description: "frente"}}
	if diff := cmp.Diff(want, values.Images("fotos")); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_Has(t *testing.T) {
	values := model.Values{
		"blank":   "   ",
		"img":     "https://x/img.png",
		"gallery": []model.ImageValue{{Name: "no url"}},
		"list":    []string{" ", ""},
		"filled":  []string{"a"},
	}
	cases := []struct {
		field model.Field
		want  bool
	}{
		{model.Field{ID: "blank", Type: model.FieldTypeText}, false},
		{model.Field{ID: "missing", Type: model.FieldTypeDate}, false},
		{model.Field{ID: "img", Type: model.FieldTypeImage}, true},
		{model.Field{ID: "gallery", Type: model.FieldTypeImageList}, false},
		{model.Field{ID: "list", Type: model.FieldTypeList}, false},
		{model.Field{ID: "filled", Type: model.FieldTypeList}, true},
	}
	for _, tc := range cases {
		if got := values.Has(tc.field); got != tc.want {
			t.Fatalf("Has(%s) = %v, want %v", tc.field.ID, got, tc.want)
		}
	}
}
