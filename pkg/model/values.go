package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ImageValue is the stored shape of an image field: a URL (or data URI) plus
// optional display metadata.
type ImageValue struct {
	URL         string `json:"url" yaml:"url"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Caption returns the description, falling back to the name.
func (v ImageValue) Caption() string {
	if d := strings.TrimSpace(v.Description); d != "" {
		return d
	}
	return strings.TrimSpace(v.Name)
}

// Values holds submission data keyed by field id. Entries may come straight
// from decoded JSON or YAML, so accessors accept any of the loose shapes those
// decoders produce.
type Values map[string]any

// Text returns the value as a string for text, number and date fields.
func (v Values) Text(id string) string {
	return textOf(v[id])
}

// Image decodes an image value. A bare string is treated as the URL.
func (v Values) Image(id string) (ImageValue, bool) {
	return imageOf(v[id])
}

// Images decodes an image list. Entries that cannot be decoded are dropped;
// entries without a URL are kept so callers can decide how to present them.
func (v Values) Images(id string) []ImageValue {
	items := sliceOf(v[id])
	out := make([]ImageValue, 0, len(items))
	for _, item := range items {
		if img, ok := imageOf(item); ok {
			out = append(out, img)
		}
	}
	return out
}

// List decodes a list of strings.
func (v Values) List(id string) []string {
	items := sliceOf(v[id])
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, textOf(item))
	}
	return out
}

// Has reports whether the field carries a non-empty value for its type.
func (v Values) Has(field Field) bool {
	switch field.Type {
	case FieldTypeImage:
		img, ok := v.Image(field.ID)
		return ok && strings.TrimSpace(img.URL) != ""
	case FieldTypeImageList:
		for _, img := range v.Images(field.ID) {
			if strings.TrimSpace(img.URL) != "" {
				return true
			}
		}
		return false
	case FieldTypeList:
		for _, item := range v.List(field.ID) {
			if strings.TrimSpace(item) != "" {
				return true
			}
		}
		return false
	default:
		return strings.TrimSpace(v.Text(field.ID)) != ""
	}
}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

func textOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprint(v)
	case int, int32, int64, uint, uint32, uint64, float32, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

func imageOf(value any) (ImageValue, bool) {
	switch v := value.(type) {
	case ImageValue:
		return v, true
	case *ImageValue:
		if v == nil {
			return ImageValue{}, false
		}
		return *v, true
	case string:
		if strings.TrimSpace(v) == "" {
			return ImageValue{}, false
		}
		return ImageValue{URL: v}, true
	case map[string]any:
		return ImageValue{
			URL:         textOf(v["url"]),
			Name:        textOf(v["name"]),
			Description: textOf(v["description"]),
		}, true
	case Values:
		return imageOf(map[string]any(v))
	case map[string]string:
		return ImageValue{URL: v["url"], Name: v["name"], Description: v["description"]}, true
	default:
		return ImageValue{}, false
	}
}

func sliceOf(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case []ImageValue:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case []Values:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	default:
		return nil
	}
}
