package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/numfmt"
	"github.com/goliatone/go-formdoc/pkg/token"
)

// Issue is one validation failure. Field is the field id when the failure can
// be attributed to a field; Path is the JSON pointer inside the payload.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes. Values holds the normalised submission
// data and is only meaningful when Valid is true.
type Result struct {
	Valid  bool         `json:"valid"`
	Issues []Issue      `json:"issues,omitempty"`
	Values model.Values `json:"-"`
}

// Payload groups issue messages by field id in the shape
// render.MapErrorPayload consumes.
func (r Result) Payload() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		key := issue.Field
		if key == "" {
			key = "form"
		}
		out[key] = append(out[key], issue.Message)
	}
	return out
}

// Error joins the issues into a single message.
func (r Result) Error() string {
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Field != "" {
			parts = append(parts, issue.Field+": "+issue.Message)
			continue
		}
		parts = append(parts, issue.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

// ValidateSubmission checks values against form. Scalars are coerced to
// strings first, so a JSON number is accepted for a number field, and bare
// image URLs are accepted in place of image objects. Missing required fields
// and wrongly shaped values are reported as issues.
func ValidateSubmission(form model.FormModel, values model.Values) Result {
	payload, err := prepare(form, values)
	if err != nil {
		return Result{Issues: []Issue{{Message: err.Error()}}}
	}

	var issues []Issue
	if err := SubmissionSchema(form).VisitJSON(payload, openapi3.MultiErrors()); err != nil {
		issues = collectIssues(err, nil)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return fieldIndex(form, issues[i].Field) < fieldIndex(form, issues[j].Field)
	})

	if len(issues) > 0 {
		return Result{Issues: issues}
	}
	return Result{Valid: true, Values: Normalize(form, values)}
}

// Normalize keeps only the fields of form, drops empty values and stores each
// kind in its canonical shape: digits for numbers, image objects, and slices
// without blank entries.
func Normalize(form model.FormModel, values model.Values) model.Values {
	out := make(model.Values, len(form.Fields))
	for _, field := range form.Fields {
		switch field.Type {
		case token.KindNumber:
			if digits := numfmt.Digits(values.Text(field.ID)); digits != "" {
				out[field.ID] = digits
			}
		case token.KindDate:
			if date := strings.TrimSpace(values.Text(field.ID)); date != "" {
				out[field.ID] = date
			}
		case token.KindImage:
			if img, ok := values.Image(field.ID); ok && strings.TrimSpace(img.URL) != "" {
				out[field.ID] = img
			}
		case token.KindImageList:
			var imgs []model.ImageValue
			for _, img := range values.Images(field.ID) {
				if strings.TrimSpace(img.URL) != "" {
					imgs = append(imgs, img)
				}
			}
			if len(imgs) > 0 {
				out[field.ID] = imgs
			}
		case token.KindList:
			var items []string
			for _, item := range values.List(field.ID) {
				if trimmed := strings.TrimSpace(item); trimmed != "" {
					items = append(items, trimmed)
				}
			}
			if len(items) > 0 {
				out[field.ID] = items
			}
		default:
			if text := values.Text(field.ID); strings.TrimSpace(text) != "" {
				out[field.ID] = text
			}
		}
	}
	return out
}

// prepare builds the JSON view of values the schema validator understands.
// Values that Normalize would drop are removed first, so a blank optional
// field passes and a blank required field is reported as missing.
func prepare(form model.FormModel, values model.Values) (map[string]any, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("validation: encode values: %w", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("validation: decode values: %w", err)
	}
	if decoded == nil {
		decoded = map[string]any{}
	}

	for _, field := range form.Fields {
		value, ok := decoded[field.ID]
		if !ok {
			continue
		}
		switch field.Type {
		case token.KindText, token.KindDate:
			if isScalar(value) {
				value = strings.TrimSpace(model.Values{field.ID: value}.Text(field.ID))
			}
		case token.KindNumber:
			if isScalar(value) {
				value = numfmt.Digits(model.Values{field.ID: value}.Text(field.ID))
			}
		case token.KindImage:
			if s, ok := value.(string); ok {
				value = map[string]any{"url": strings.TrimSpace(s)}
			}
			if blankImage(value) {
				value = nil
			}
		case token.KindImageList:
			if items, ok := value.([]any); ok {
				kept := make([]any, 0, len(items))
				for _, item := range items {
					if s, ok := item.(string); ok {
						item = map[string]any{"url": strings.TrimSpace(s)}
					}
					if m, ok := item.(map[string]any); ok && strings.TrimSpace(textValue(m["url"])) == "" {
						continue
					}
					kept = append(kept, item)
				}
				value = kept
			}
		case token.KindList:
			if items, ok := value.([]any); ok {
				kept := make([]any, 0, len(items))
				for _, item := range items {
					if s, ok := item.(string); ok && strings.TrimSpace(s) == "" {
						continue
					}
					kept = append(kept, item)
				}
				value = kept
			}
		}
		if isBlank(value) {
			delete(decoded, field.ID)
			continue
		}
		decoded[field.ID] = value
	}
	return decoded, nil
}

// blankImage reports an image object that carries nothing at all. An object
// with a name but no url is kept so the missing url is reported.
func blankImage(value any) bool {
	m, ok := value.(map[string]any)
	if !ok {
		return false
	}
	for _, v := range m {
		if strings.TrimSpace(textValue(v)) != "" {
			return false
		}
	}
	return true
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func textValue(value any) string {
	return model.Values{"v": value}.Text("v")
}

func isScalar(value any) bool {
	switch value.(type) {
	case string, float64, bool:
		return true
	default:
		return false
	}
}

func collectIssues(err error, out []Issue) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			out = collectIssues(inner, out)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		issue := Issue{Message: schemaErr.Reason}
		if len(pointer) > 0 {
			issue.Field = pointer[0]
			issue.Path = "/" + strings.Join(pointer, "/")
		}
		return append(out, issue)
	}
	return append(out, Issue{Message: err.Error()})
}

func fieldIndex(form model.FormModel, id string) int {
	for i, field := range form.Fields {
		if field.ID == id {
			return i
		}
	}
	return len(form.Fields)
}
