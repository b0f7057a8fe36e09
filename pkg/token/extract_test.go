package token

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.ID)
	}
	return out
}

func TestExtract_FirstAppearanceOrder(t *testing.T) {
	got := ids(Extract("{{b:text}}{{a:text}}{{b:text}}"))
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_DuplicateKeepsFirstMetadata(t *testing.T) {
	tokens := Extract("{{x:text:label:First}} and later {{x:number:label:Second|optional}}")
	want := []Token{{ID: "x", Kind: KindText, Label: "First", Required: true}}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_MalformedStaysLiteral(t *testing.T) {
	markup := "{{bad}} {{also:}} {bad:text} {{ok:date}} {{:text}}"
	got := Extract(markup)
	want := []Token{{ID: "ok", Kind: KindDate, Label: "ok", Required: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Empty(t *testing.T) {
	if got := Extract("no fields here"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestExtract_TagForm(t *testing.T) {
	markup := `<p>Cliente: <field-node id="client" label="Nome do Cliente" type="text"></field-node>` +
		` valor <field-node id="total" label="Total" type="number" numberformat="currency"></field-node>` +
		` <placeholder-field data-name="fotos" data-type="lista_imagens"></placeholder-field></p>`

	want := []Token{
		{ID: "client", Kind: KindText, Label: "Nome do Cliente", Required: true},
		{ID: "total", Kind: KindNumber, Label: "Total", Format: FormatCurrency, Required: true},
		{ID: "fotos", Kind: KindImageList, Label: "fotos", Required: true},
	}
	if diff := cmp.Diff(want, Extract(markup)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestOccurrences_SpansAndForms(t *testing.T) {
	markup := `A {{a:text}} B <field-node id="b" type="list"/> C <field-node id="a" type="date">a</field-node>`
	occs := Occurrences(markup)
	if len(occs) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occs))
	}
	for _, occ := range occs {
		if markup[occ.Start:occ.End] != occ.Raw {
			t.Fatalf("span does not match raw: %q vs %q", markup[occ.Start:occ.End], occ.Raw)
		}
	}
	if occs[0].Form != FormBrace || occs[1].Form != FormTag || occs[2].Form != FormTag {
		t.Fatalf("unexpected forms: %+v", occs)
	}
	if !strings.HasSuffix(occs[2].Raw, "</field-node>") {
		t.Fatalf("expected closing tag consumed, got %q", occs[2].Raw)
	}
}

func TestOccurrences_BraceInsideTagBelongsToTag(t *testing.T) {
	markup := `<field-node id="a" label="{{b:text}}" type="text"></field-node>`
	occs := Occurrences(markup)
	if len(occs) != 1 || occs[0].Token.ID != "a" {
		t.Fatalf("expected single tag occurrence, got %+v", occs)
	}
	if occs[0].Token.Label != "{{b:text}}" {
		t.Fatalf("label mismatch: %q", occs[0].Token.Label)
	}
}

func TestParseTag(t *testing.T) {
	tok, ok := ParseTag(`<field-node id="amount" label="Valor &amp; taxa" type="number" format="document" optional="true"></field-node>`)
	if !ok {
		t.Fatalf("expected tag to parse")
	}
	want := Token{ID: "amount", Kind: KindNumber, Label: "Valor & taxa", Format: FormatDocument}
	if tok != want {
		t.Fatalf("token mismatch:\nwant %+v\ngot  %+v", want, tok)
	}
	if _, ok := ParseTag(`<field-node label="missing id"></field-node>`); ok {
		t.Fatalf("expected tag without id to be rejected")
	}
}
