// Package numfmt formats the digits typed into number fields for display:
// plain digits, Brazilian currency (R$ 1.234,56) and CPF/CNPJ documents.
package numfmt

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/goliatone/go-formdoc/pkg/token"
)

// Formatter converts raw digit strings into display strings and back.
type Formatter interface {
	Format(raw string, format token.NumberFormat) string
	Unformat(display string) string
}

// Default is the pt-BR formatter used when callers do not inject one.
var Default Formatter = New()

var (
	nonDigit = regexp.MustCompile(`\D`)

	cpfSteps = []step{
		{regexp.MustCompile(`(\d{3})(\d)`), "$1.$2"},
		{regexp.MustCompile(`(\d{3})(\d)`), "$1.$2"},
		{regexp.MustCompile(`(\d{3})(\d{1,2})$`), "$1-$2"},
	}
	cnpjSteps = []step{
		{regexp.MustCompile(`(\d{2})(\d)`), "$1.$2"},
		{regexp.MustCompile(`(\d{3})(\d)`), "$1.$2"},
		{regexp.MustCompile(`(\d{3})(\d)`), "$1/$2"},
		{regexp.MustCompile(`(\d{4})(\d)`), "$1-$2"},
	}
)

type step struct {
	pattern  *regexp.Regexp
	template string
}

type formatter struct {
	printer *message.Printer
}

// New returns a formatter grouping thousands the Brazilian way.
func New() Formatter {
	return &formatter{printer: message.NewPrinter(language.BrazilianPortuguese)}
}

// Format strips every non digit from raw and renders it with the requested
// format. Empty input stays empty.
func (f *formatter) Format(raw string, format token.NumberFormat) string {
	digits := Digits(raw)
	switch token.ParseNumberFormat(string(format)) {
	case token.FormatCurrency:
		return f.currency(digits)
	case token.FormatDocument:
		return Document(digits)
	default:
		return digits
	}
}

// Unformat returns only the digits of a display string.
func (f *formatter) Unformat(display string) string {
	return Digits(display)
}

// Digits removes every non digit character.
func Digits(value string) string {
	return nonDigit.ReplaceAllString(value, "")
}

func (f *formatter) currency(digits string) string {
	if digits == "" {
		return ""
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}

	var reais, cents string
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		reais = f.printer.Sprintf("%d", n/100)
		cents = strconv.FormatInt(n%100, 10)
	} else {
		// too large for int64; group by hand
		if len(digits) < 3 {
			digits = strings.Repeat("0", 3-len(digits)) + digits
		}
		reais = groupThousands(digits[:len(digits)-2])
		cents = digits[len(digits)-2:]
	}
	if len(cents) < 2 {
		cents = "0" + cents
	}
	return "R$ " + reais + "," + cents
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Document masks up to 11 digits as a CPF (123.456.789-00) and up to 14 as a
// CNPJ (12.345.678/0001-99). Longer inputs are returned as digits.
func Document(value string) string {
	digits := Digits(value)
	switch {
	case digits == "":
		return ""
	case len(digits) <= 11:
		return applySteps(digits, cpfSteps)
	case len(digits) <= 14:
		return applySteps(digits, cnpjSteps)
	default:
		return digits
	}
}

// each step rewrites only the first match, mirroring progressive input masks
func applySteps(value string, steps []step) string {
	for _, s := range steps {
		loc := s.pattern.FindStringSubmatchIndex(value)
		if loc == nil {
			continue
		}
		var dst []byte
		dst = s.pattern.ExpandString(dst, s.template, value, loc)
		value = value[:loc[0]] + string(dst) + value[loc[1]:]
	}
	return value
}
