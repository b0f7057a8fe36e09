package token

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

// Form identifies which serialization an occurrence was written in.
type Form int

const (
	FormBrace Form = iota
	FormTag
)

var (
	tagOpenPattern  = regexp.MustCompile(`(?i)<(field-node|placeholder-field)\b([^>]*)>`)
	tagClosePattern = regexp.MustCompile(`(?i)^[^<]*</(field-node|placeholder-field)\s*>`)
	attrPattern     = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// Occurrence is one token found in markup, with its byte span.
type Occurrence struct {
	Start int
	End   int
	Raw   string
	Form  Form
	Token Token
}

// Extract scans markup left to right and returns one token per distinct id in
// first-appearance order. Later tokens with an already seen id are treated as
// references to the same field and their metadata is ignored.
func Extract(markup string) []Token {
	occurrences := Occurrences(markup)
	if len(occurrences) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(occurrences))
	tokens := make([]Token, 0, len(occurrences))
	for _, occ := range occurrences {
		if _, ok := seen[occ.Token.ID]; ok {
			continue
		}
		seen[occ.Token.ID] = struct{}{}
		tokens = append(tokens, occ.Token)
	}
	return tokens
}

// Occurrences returns every token occurrence in markup ordered by position,
// including repeated ids. Occurrences never overlap; a brace token written
// inside a field tag's attributes belongs to the tag.
func Occurrences(markup string) []Occurrence {
	var found []Occurrence

	for _, loc := range bracePattern.FindAllStringSubmatchIndex(markup, -1) {
		found = append(found, Occurrence{
			Start: loc[0],
			End:   loc[1],
			Raw:   markup[loc[0]:loc[1]],
			Form:  FormBrace,
			Token: fromBraceMatch(markup, loc),
		})
	}

	for _, loc := range tagOpenPattern.FindAllStringSubmatchIndex(markup, -1) {
		tok, ok := tokenFromAttributes(markup[loc[4]:loc[5]])
		if !ok {
			continue
		}
		end := loc[1]
		if !strings.HasSuffix(strings.TrimSpace(markup[loc[4]:loc[5]]), "/") {
			rest := markup[end:]
			if closing := tagClosePattern.FindStringSubmatchIndex(rest); closing != nil &&
				strings.EqualFold(rest[closing[2]:closing[3]], markup[loc[2]:loc[3]]) {
				end += closing[1]
			}
		}
		found = append(found, Occurrence{
			Start: loc[0],
			End:   end,
			Raw:   markup[loc[0]:end],
			Form:  FormTag,
			Token: tok,
		})
	}

	if len(found) == 0 {
		return nil
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Start == found[j].Start {
			return found[i].End > found[j].End
		}
		return found[i].Start < found[j].Start
	})

	out := found[:0]
	lastEnd := -1
	for _, occ := range found {
		if occ.Start < lastEnd {
			continue
		}
		out = append(out, occ)
		lastEnd = occ.End
	}
	return out
}

// ParseTag decodes a single inline field tag such as
// <field-node id="x" type="text"></field-node>.
func ParseTag(raw string) (Token, bool) {
	occs := Occurrences(raw)
	if len(occs) != 1 || occs[0].Form != FormTag || occs[0].Start != 0 || occs[0].End != len(raw) {
		return Token{}, false
	}
	return occs[0].Token, true
}

func tokenFromAttributes(raw string) (Token, bool) {
	attrs := parseAttributes(raw)

	id := firstAttr(attrs, "id", "data-id", "data-name", "name")
	if ValidateID(id) != nil {
		return Token{}, false
	}

	tok := Token{ID: id, Required: true}
	tok.Kind, _ = ParseKind(firstAttr(attrs, "type", "data-type"))
	tok.Label = firstAttr(attrs, "label", "data-label")
	tok.Placeholder = firstAttr(attrs, "placeholder", "data-placeholder")
	tok.Format = NumberFormat(firstAttr(attrs, "format", "numberformat", "data-number-format", "data-format"))

	if v := strings.ToLower(firstAttr(attrs, "optional", "data-optional")); v == "true" || v == "optional" {
		tok.Required = false
	}
	if v := strings.ToLower(firstAttr(attrs, "required", "data-required")); v == "false" {
		tok.Required = false
	}
	return tok.Normalize(), true
}

func parseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		name := strings.ToLower(m[1])
		if _, exists := attrs[name]; exists {
			continue
		}
		value := m[2]
		if value == "" {
			value = m[3]
		}
		attrs[name] = html.UnescapeString(value)
	}
	return attrs
}

func firstAttr(attrs map[string]string, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(attrs[name]); v != "" {
			return v
		}
	}
	return ""
}
