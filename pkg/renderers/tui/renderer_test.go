package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/token"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	prompts      []InputConfig
	infoMessages []string
	inputPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func formFor(markup string) model.FormModel {
	return model.FormModel{Fields: model.ToSchema(token.Extract(markup))}
}

func TestFill_AllKinds(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	driver := &stubDriver{
		inputs: []string{
			"Maria",
			"R$ 1.500,75",
			"18/03/2024",
			"/tmp/logo.png",
			"https://example.com/a.jpg",
			"Fachada",
			"Trocar fechadura",
			"  ",
		},
		confirm: []bool{true, false},
	}
	r := New(
		WithPromptDriver(driver),
		WithFileLoader(func(path string) ([]byte, error) {
			if path != "/tmp/logo.png" {
				t.Fatalf("unexpected path %q", path)
			}
			return png, nil
		}),
	)

	form := formFor("{{nome:text}} {{valor:number:format:currency}} {{data:date}} {{logo:image}} {{fotos:imageList}} {{itens:list}}")
	values, err := r.Fill(context.Background(), form, nil, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := model.Values{
		"nome":  "Maria",
		"valor": "150075",
		"data":  "2024-03-18",
		"logo":  model.ImageValue{URL: "data:image/png;base64,iVBORw0KGgowMDAw", Name: "logo.png"},
		"fotos": []model.ImageValue{{URL: "https://example.com/a.jpg", Name: "a.jpg", Description: "Fachada"}},
		"itens": []string{"Trocar fechadura"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || driver.infoMessages[0] != "valor: R$ 1.500,75" {
		t.Fatalf("unexpected info messages: %q", driver.infoMessages)
	}
}

func TestFill_PrefillBecomesDefaults(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Maria", "529.982.247-25"}}
	r := New(WithPromptDriver(driver))

	form := formFor("{{nome:text:placeholder:Nome completo}} {{cpf:number:format:document}}")
	values, err := r.Fill(context.Background(), form, model.Values{"nome": "Maria", "cpf": "52998224725"}, map[string][]string{"nome": {"too short"}})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	if driver.prompts[0].Default != "Maria" || driver.prompts[0].Help != "Nome completo" {
		t.Fatalf("unexpected text prompt: %+v", driver.prompts[0])
	}
	if driver.prompts[1].Default != "529.982.247-25" {
		t.Fatalf("number default not formatted: %+v", driver.prompts[1])
	}
	if values.Text("cpf") != "52998224725" {
		t.Fatalf("cpf not stored as digits: %v", values["cpf"])
	}
	if driver.infoMessages[0] != "nome: too short" {
		t.Fatalf("errors not shown before prompt: %q", driver.infoMessages)
	}
}

func TestFill_NumberRepromptsOnGarbage(t *testing.T) {
	driver := &stubDriver{inputs: []string{"abc", "42"}}
	r := New(WithPromptDriver(driver))

	values, err := r.Fill(context.Background(), formFor("{{qtd:number}}"), nil, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if values.Text("qtd") != "42" || driver.inputPos != 2 {
		t.Fatalf("unexpected result %v after %d prompts", values, driver.inputPos)
	}
	if !strings.Contains(driver.infoMessages[0], "digits expected") {
		t.Fatalf("missing warning: %q", driver.infoMessages)
	}
}

func TestFill_OptionalBlankIsOmitted(t *testing.T) {
	driver := &stubDriver{inputs: []string{""}, confirm: []bool{false}}
	r := New(WithPromptDriver(driver))

	values, err := r.Fill(context.Background(), formFor("{{obs:text:optional}} {{fotos:imageList:optional}}"), model.Values{"obs": "old"}, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %v", values)
	}
}

func TestRender_SerializesJSON(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ana"}}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), render.Document{Form: formFor("{{nome:text}}")}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["nome"] != "Ana" {
		t.Fatalf("unexpected payload: %s", out)
	}
	if r.ContentType() != "application/json" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRender_PrettyText(t *testing.T) {
	driver := &stubDriver{inputs: []string{"150075", "a", ""}}
	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), render.Document{Form: formFor("{{total:number:label:Total|format:currency}} {{itens:list}}")}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Total: R$ 1.500,75\nitens:\n  - a\n"
	if string(out) != want {
		t.Fatalf("pretty mismatch:\nwant %q\ngot  %q", want, out)
	}
}

func TestFill_AbortPropagates(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Fill(context.Background(), formFor("{{a:text}}"), nil, nil); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestParseDate(t *testing.T) {
	for input, want := range map[string]string{"2024-03-18": "2024-03-18", " 18/03/2024 ": "2024-03-18"} {
		got, err := ParseDate(input)
		if err != nil || got != want {
			t.Fatalf("ParseDate(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseDate("31/02/2024"); err == nil {
		t.Fatalf("expected invalid date error")
	}
}
