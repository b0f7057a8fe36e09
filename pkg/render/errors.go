package render

import (
	"strings"

	"github.com/goliatone/go-formdoc/pkg/model"
)

// ErrorMapping splits a validation payload into field-level messages keyed by
// field id and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves payload keys to field ids. Keys may be ids, field
// names or JSON pointers such as "/data/cliente" produced by schema
// validators. Unknown keys become form-level errors so messages are not lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	index := make(map[string]string, len(form.Fields)*2)
	for _, field := range form.Fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			index[name] = field.ID
		}
	}
	// ids take precedence over names
	for _, field := range form.Fields {
		index[field.ID] = field.ID
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		id, ok := resolveErrorPath(rawPath, index)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[id] = append(mapping.Fields[id], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func resolveErrorPath(raw string, index map[string]string) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := strings.FieldsFunc(strings.TrimLeft(strings.TrimSpace(raw), "#$"), func(r rune) bool {
		return r == '/' || r == '.' || r == '[' || r == ']'
	})
	for len(segments) > 0 && isWrapperSegment(segments[0]) {
		if _, ok := index[segments[0]]; ok {
			break
		}
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return "", false
	}
	segment := strings.NewReplacer("~1", "/", "~0", "~").Replace(segments[0])
	id, ok := index[segment]
	return id, ok
}

func isWrapperSegment(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data", "values":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
