package token

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Token
		ok   bool
	}{
		{
			name: "bare",
			raw:  "{{client:text}}",
			want: Token{ID: "client", Kind: KindText, Label: "client", Required: true},
			ok:   true,
		},
		{
			name: "options",
			raw:  "{{total:number:label:Total Amount|placeholder:0,00|format:currency|optional}}",
			want: Token{ID: "total", Kind: KindNumber, Label: "Total Amount", Placeholder: "0,00", Format: FormatCurrency},
			ok:   true,
		},
		{
			name: "unknown type falls back to text",
			raw:  "{{note:paragraph}}",
			want: Token{ID: "note", Kind: KindText, Label: "note", Required: true},
			ok:   true,
		},
		{
			name: "legacy alias",
			raw:  "{{fotos:lista_imagens}}",
			want: Token{ID: "fotos", Kind: KindImageList, Label: "fotos", Required: true},
			ok:   true,
		},
		{
			name: "legacy number format",
			raw:  "{{cpf:numero:format:simple}}",
			want: Token{ID: "cpf", Kind: KindNumber, Label: "cpf", Format: FormatPlain, Required: true},
			ok:   true,
		},
		{name: "missing type", raw: "{{bad}}"},
		{name: "unbalanced", raw: "{{bad:text}"},
		{name: "trailing text", raw: "{{a:text}} tail"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Parse(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok mismatch: want %v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("token mismatch:\nwant %+v\ngot  %+v", tc.want, got)
			}
		})
	}
}

func TestTokenStringCanonical(t *testing.T) {
	cases := map[string]Token{
		"{{client:text}}":                           New("client", KindText),
		"{{price:number:format:currency}}":          {ID: "price", Kind: KindNumber, Format: FormatCurrency, Required: true},
		"{{doc:number}}":                            {ID: "doc", Kind: KindNumber, Format: FormatPlain, Required: true},
		"{{city:text:label:City|optional}}":         {ID: "city", Kind: KindText, Label: "City"},
		"{{items:list:label:Items|placeholder:ex}}": {ID: "items", Kind: KindList, Label: "Items", Placeholder: "ex", Required: true},
		"{{odd:text:label:a b c}}":                  {ID: "odd", Kind: KindText, Label: "a|b}c", Required: true},
	}
	for want, tok := range cases {
		if got := tok.String(); got != want {
			t.Fatalf("string mismatch: want %q, got %q", want, got)
		}
	}
}

func TestTokenStringParseRoundTrip(t *testing.T) {
	tok := Token{ID: "amount", Kind: KindNumber, Label: "Valor Total", Format: FormatDocument, Placeholder: "digits"}
	parsed, ok := Parse(tok.String())
	if !ok {
		t.Fatalf("expected canonical form to parse: %s", tok.String())
	}
	if parsed != tok.Normalize() {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", tok.Normalize(), parsed)
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"a", "field_1", "x-y", "ABC123"} {
		if err := ValidateID(id); err != nil {
			t.Fatalf("expected %q to be valid: %v", id, err)
		}
	}
	for _, id := range []string{"", "with space", "a.b", "a:b", "ação", "x+"} {
		if err := ValidateID(id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID for %q, got %v", id, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"text":          KindText,
		"IMAGE":         KindImage,
		"imagelist":     KindImageList,
		"imagem":        KindImage,
		"data":          KindDate,
		"lista":         KindList,
		"numero":        KindNumber,
		"texto":         KindText,
		"lista_imagens": KindImageList,
	}
	for name, want := range cases {
		got, ok := ParseKind(name)
		if !ok || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}
	if got, ok := ParseKind("paragraph"); ok || got != KindText {
		t.Fatalf("expected unknown kind to fall back to text, got %q %v", got, ok)
	}
}
