package token

import "strings"

// Kind is the closed set of field kinds a token can declare. Values outside the
// constants below are never produced by this package.
type Kind string

const (
	KindText      Kind = "text"
	KindNumber    Kind = "number"
	KindDate      Kind = "date"
	KindImage     Kind = "image"
	KindImageList Kind = "imageList"
	KindList      Kind = "list"
)

// Kinds lists every kind in the order editors present them.
var Kinds = []Kind{KindText, KindNumber, KindDate, KindImage, KindImageList, KindList}

// kindAliases maps legacy type names onto canonical kinds. Keys are lower case.
var kindAliases = map[string]Kind{
	"texto":         KindText,
	"numero":        KindNumber,
	"data":          KindDate,
	"imagem":        KindImage,
	"lista_imagens": KindImageList,
	"lista":         KindList,
}

// ParseKind resolves a type name (canonical or legacy alias) into a Kind. The
// second return value reports whether the name was recognised; unknown names
// resolve to KindText.
func ParseKind(name string) (Kind, bool) {
	trimmed := strings.TrimSpace(name)
	for _, kind := range Kinds {
		if strings.EqualFold(trimmed, string(kind)) {
			return kind, true
		}
	}
	if kind, ok := kindAliases[strings.ToLower(trimmed)]; ok {
		return kind, true
	}
	return KindText, false
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindDate, KindImage, KindImageList, KindList:
		return true
	default:
		return false
	}
}

// Multiple reports whether values of this kind are collections.
func (k Kind) Multiple() bool {
	return k == KindImageList || k == KindList
}

// NumberFormat selects how number fields are displayed.
type NumberFormat string

const (
	FormatPlain    NumberFormat = "plain"
	FormatCurrency NumberFormat = "currency"
	FormatDocument NumberFormat = "document"
)

var formatAliases = map[string]NumberFormat{
	"simple": FormatPlain,
	"":       FormatPlain,
}

// ParseNumberFormat resolves a format name. Unknown names fall back to plain.
func ParseNumberFormat(name string) NumberFormat {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	switch NumberFormat(trimmed) {
	case FormatPlain, FormatCurrency, FormatDocument:
		return NumberFormat(trimmed)
	}
	if format, ok := formatAliases[trimmed]; ok {
		return format
	}
	return FormatPlain
}
