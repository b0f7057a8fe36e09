package model

import "github.com/goliatone/go-formdoc/pkg/token"

// FieldType is the form-facing view of a token kind.
type FieldType = token.Kind

const (
	FieldTypeText      = token.KindText
	FieldTypeNumber    = token.KindNumber
	FieldTypeDate      = token.KindDate
	FieldTypeImage     = token.KindImage
	FieldTypeImageList = token.KindImageList
	FieldTypeList      = token.KindList
)

// Field models one input of a generated form. ID is the canonical key used to
// bind submission data; Name is a human friendly secondary key derived from
// the label.
type Field struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Type        FieldType          `json:"type" yaml:"type"`
	Label       string             `json:"label" yaml:"label"`
	Format      token.NumberFormat `json:"format,omitempty" yaml:"format,omitempty"`
	Placeholder string             `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool               `json:"required" yaml:"required"`
	Metadata    map[string]string  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Token converts the field back into the token it was derived from.
func (f Field) Token() token.Token {
	return token.Token{
		ID:          f.ID,
		Kind:        f.Type,
		Label:       f.Label,
		Format:      f.Format,
		Placeholder: f.Placeholder,
		Required:    f.Required,
	}.Normalize()
}

// FormModel is the top-level representation renderers consume. Fields keep the
// first-appearance order of their tokens in the template markup.
type FormModel struct {
	TemplateID  string            `json:"templateId,omitempty" yaml:"templateId,omitempty"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the field with the given id.
func (m FormModel) Field(id string) (Field, bool) {
	for _, field := range m.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Source is the minimal template view the builder needs.
type Source struct {
	ID          string
	Title       string
	Description string
	Markup      string
}
