package validation

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/token"
)

const (
	digitsPattern = `^[0-9]*$`
	datePattern   = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`
)

// SubmissionSchema describes the submission payload of form: one property per
// field, keyed by field id, with required fields listed as such.
func SubmissionSchema(form model.FormModel) *openapi3.Schema {
	root := openapi3.NewObjectSchema()
	root.Title = form.Title
	root.Description = form.Description

	var required []string
	for _, field := range form.Fields {
		root.WithProperty(field.ID, FieldSchema(field))
		if field.Required {
			required = append(required, field.ID)
		}
	}
	if len(required) > 0 {
		root.Required = required
	}
	return root
}

// FieldSchema returns the value schema for a single field.
func FieldSchema(field model.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Type {
	case token.KindNumber:
		schema = openapi3.NewStringSchema().WithPattern(digitsPattern)
		if field.Format != "" {
			schema.Extensions = map[string]any{"x-number-format": string(field.Format)}
		}
	case token.KindDate:
		schema = openapi3.NewStringSchema().WithPattern(datePattern)
	case token.KindImage:
		schema = imageSchema(true)
	case token.KindImageList:
		schema = openapi3.NewArraySchema().WithItems(imageSchema(false))
		if field.Required {
			schema.WithMinItems(1)
		}
	case token.KindList:
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
		if field.Required {
			schema.WithMinItems(1)
		}
	default:
		schema = openapi3.NewStringSchema()
	}

	if field.Required && (field.Type == token.KindText || field.Type == token.KindNumber || field.Type == token.KindDate) {
		schema.WithMinLength(1)
	}
	schema.Title = field.Label
	schema.Description = field.Placeholder
	return schema
}

func imageSchema(requireURL bool) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("url", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema())
	if requireURL {
		schema.Properties["url"].Value.WithMinLength(1)
		schema.Required = []string{"url"}
	}
	return schema
}
