package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdoc/pkg/model"
)

// Transformer mutates a FormModel before decorators run. Implementations can
// relabel fields, inject metadata, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative overrides loaded from a YAML or JSON
// document. Fields are addressed by id:
//
//	metadata:
//	  layout: compact
//	fields:
//	  cliente:
//	    label: Nome do cliente
//	    placeholder: Razão social
//	    metadata:
//	      help: Como consta no contrato
//
// Patches for ids the template does not declare are ignored so a single
// preset can serve several templates.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title       string                `yaml:"title" json:"title"`
	Description string                `yaml:"description" json:"description"`
	Metadata    map[string]string     `yaml:"metadata" json:"metadata"`
	Fields      map[string]fieldPatch `yaml:"fields" json:"fields"`
}

type fieldPatch struct {
	Label       string            `yaml:"label" json:"label"`
	Placeholder string            `yaml:"placeholder" json:"placeholder"`
	Rename      string            `yaml:"rename" json:"rename"`
	Required    *bool             `yaml:"required" json:"required"`
	Metadata    map[string]string `yaml:"metadata" json:"metadata"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied form.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		form.Title = t.document.Title
	}
	if t.document.Description != "" {
		form.Description = t.document.Description
	}
	if len(t.document.Metadata) > 0 {
		form.Metadata = mergeStringMap(form.Metadata, t.document.Metadata)
	}

	for idx := range form.Fields {
		patch, ok := t.document.Fields[form.Fields[idx].ID]
		if !ok {
			continue
		}
		applyFieldPatch(&form.Fields[idx], patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if len(patch.Metadata) > 0 {
		field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
	}
	if strings.TrimSpace(patch.Rename) != "" {
		field.Name = strings.TrimSpace(patch.Rename)
	}
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
