package numfmt

import (
	"testing"

	"github.com/goliatone/go-formdoc/pkg/token"
)

func TestFormat(t *testing.T) {
	f := New()
	cases := []struct {
		raw    string
		format token.NumberFormat
		want   string
	}{
		{"150075", token.FormatCurrency, "R$ 1.500,75"},
		{"R$ 1.500,75", token.FormatCurrency, "R$ 1.500,75"},
		{"5", token.FormatCurrency, "R$ 0,05"},
		{"000100", token.FormatCurrency, "R$ 1,00"},
		{"12345678901", token.FormatCurrency, "R$ 123.456.789,01"},
		{"123456789012345678901", token.FormatCurrency, "R$ 1.234.567.890.123.456.789,01"},
		{"", token.FormatCurrency, ""},
		{"52998224725", token.FormatDocument, "529.982.247-25"},
		{"11222333000181", token.FormatDocument, "11.222.333/0001-81"},
		{"1234", token.FormatDocument, "123.4"},
		{"123456789012345", token.FormatDocument, "123456789012345"},
		{"12a34", token.FormatPlain, "1234"},
		{"987", "simple", "987"},
		{"987", "", "987"},
	}
	for _, tc := range cases {
		if got := f.Format(tc.raw, tc.format); got != tc.want {
			t.Fatalf("Format(%q, %q) = %q, want %q", tc.raw, tc.format, got, tc.want)
		}
	}
}

func TestUnformat(t *testing.T) {
	if got := New().Unformat("R$ 1.500,75"); got != "150075" {
		t.Fatalf("unformat mismatch: %q", got)
	}
}

func TestIsValidDocument(t *testing.T) {
	valid := []string{"529.982.247-25", "52998224725", "11.222.333/0001-81"}
	for _, v := range valid {
		if !IsValidDocument(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	invalid := []string{"529.982.247-26", "11111111111", "11.222.333/0001-82", "123", ""}
	for _, v := range invalid {
		if IsValidDocument(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}
