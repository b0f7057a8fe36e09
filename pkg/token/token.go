package token

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidID is returned by ValidateID for identifiers outside [A-Za-z0-9_-]+.
var ErrInvalidID = errors.New("token: field id must match [A-Za-z0-9_-]+")

var (
	idPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	bracePattern = regexp.MustCompile(`\{\{([A-Za-z0-9_-]+):([A-Za-z][A-Za-z_]*)(?::([^}]*))?\}\}`)
)

const (
	optionLabel       = "label"
	optionPlaceholder = "placeholder"
	optionFormat      = "format"
	optionOptional    = "optional"
	optionRequired    = "required"
)

// Token is a single typed field reference parsed from markup.
type Token struct {
	ID          string       `json:"id" yaml:"id"`
	Kind        Kind         `json:"type" yaml:"type"`
	Label       string       `json:"label" yaml:"label"`
	Format      NumberFormat `json:"format,omitempty" yaml:"format,omitempty"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool         `json:"required" yaml:"required"`
}

// New returns a token with defaults applied: label mirrors the id, number
// fields use the plain format and the field is required.
func New(id string, kind Kind) Token {
	tok := Token{ID: id, Kind: kind, Required: true}
	return tok.Normalize()
}

// ValidateID checks a user supplied identifier before it reaches the bridge or
// extractor, both of which assume well-formed ids.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Parse decodes a single double-brace token. The whole input must be one
// token; ok is false otherwise.
func Parse(raw string) (Token, bool) {
	loc := bracePattern.FindStringSubmatchIndex(raw)
	if loc == nil || loc[0] != 0 || loc[1] != len(raw) {
		return Token{}, false
	}
	return fromBraceMatch(raw, loc), true
}

func fromBraceMatch(src string, loc []int) Token {
	tok := Token{
		ID:       src[loc[2]:loc[3]],
		Required: true,
	}
	tok.Kind, _ = ParseKind(src[loc[4]:loc[5]])
	if loc[6] >= 0 {
		applyOptions(&tok, src[loc[6]:loc[7]])
	}
	return tok.Normalize()
}

func applyOptions(tok *Token, options string) {
	for _, part := range strings.Split(options, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch {
		case key == optionLabel && hasValue:
			tok.Label = value
		case key == optionPlaceholder && hasValue:
			tok.Placeholder = value
		case key == optionFormat && hasValue:
			tok.Format = ParseNumberFormat(value)
		case key == optionOptional && !hasValue:
			tok.Required = false
		case key == optionRequired && !hasValue:
			tok.Required = true
		}
	}
}

// Normalize fills defaults: an empty label becomes the id, number fields get a
// format and non-number fields drop theirs.
func (t Token) Normalize() Token {
	t.Label = strings.TrimSpace(t.Label)
	if t.Label == "" {
		t.Label = t.ID
	}
	if !t.Kind.Valid() {
		t.Kind = KindText
	}
	if t.Kind == KindNumber {
		t.Format = ParseNumberFormat(string(t.Format))
	} else {
		t.Format = ""
	}
	return t
}

// String renders the canonical double-brace form. Options appear in a fixed
// order and only when they differ from the defaults.
func (t Token) String() string {
	t = t.Normalize()

	var opts []string
	if t.Label != t.ID {
		opts = append(opts, optionLabel+":"+cleanOption(t.Label))
	}
	if t.Placeholder != "" {
		opts = append(opts, optionPlaceholder+":"+cleanOption(t.Placeholder))
	}
	if t.Kind == KindNumber && t.Format != FormatPlain {
		opts = append(opts, optionFormat+":"+string(t.Format))
	}
	if !t.Required {
		opts = append(opts, optionOptional)
	}

	var b strings.Builder
	b.WriteString("{{")
	b.WriteString(t.ID)
	b.WriteByte(':')
	b.WriteString(string(t.Kind))
	if len(opts) > 0 {
		b.WriteByte(':')
		b.WriteString(strings.Join(opts, "|"))
	}
	b.WriteString("}}")
	return b.String()
}

// option values cannot carry the separators of the grammar.
func cleanOption(value string) string {
	value = strings.NewReplacer("|", " ", "}", " ", "{", " ").Replace(value)
	return strings.Join(strings.Fields(value), " ")
}
