// Package tui fills forms interactively in a terminal.
package tui

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/numfmt"
	"github.com/goliatone/go-formdoc/pkg/render"
	"github.com/goliatone/go-formdoc/pkg/token"
)

// Renderer prompts for every field of a document and collects submission
// values. Render serializes them; Fill returns them as model.Values.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	formatter    numfmt.Formatter
	loadFile     FileLoader
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		formatter:    numfmt.Default,
		loadFile:     os.ReadFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatYAML:
		return "application/yaml"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs Fill and serializes the collected values.
func (r *Renderer) Render(ctx context.Context, doc render.Document, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Fill(ctx, doc.Form, opts.Values, opts.Errors)
	if err != nil {
		return nil, err
	}
	return r.serialize(doc.Form, values)
}

// Fill prompts for each field in schema order. Prefilled values become prompt
// defaults; errors are printed before the matching prompt.
func (r *Renderer) Fill(ctx context.Context, form model.FormModel, prefill model.Values, errs map[string][]string) (model.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	values := prefill.Clone()
	for _, field := range form.Fields {
		for _, msg := range errs[field.ID] {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+displayLabel(field)+": "+msg)
		}
		value, err := r.promptField(ctx, field, values)
		if err != nil {
			return nil, err
		}
		if value == nil {
			delete(values, field.ID)
			continue
		}
		values[field.ID] = value
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, values model.Values) (any, error) {
	switch field.Type {
	case token.KindNumber:
		return r.promptNumber(ctx, field, values)
	case token.KindDate:
		return r.promptDate(ctx, field, values)
	case token.KindImage:
		return r.promptImage(ctx, field, values)
	case token.KindImageList:
		return r.promptImageList(ctx, field, values)
	case token.KindList:
		return r.promptList(ctx, field, values)
	default:
		return r.promptText(ctx, field, values)
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, values model.Values) (any, error) {
	response, err := r.driver.Input(ctx, InputConfig{
		Message:   displayLabel(field),
		Default:   values.Text(field.ID),
		Help:      field.Placeholder,
		Validator: requiredValidator(field),
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(response) == "" {
		return nil, nil
	}
	return response, nil
}

func (r *Renderer) promptNumber(ctx context.Context, field model.Field, values model.Values) (any, error) {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message:   displayLabel(field),
			Default:   r.formatter.Format(values.Text(field.ID), field.Format),
			Help:      numberHelp(field),
			Validator: requiredValidator(field),
		})
		if err != nil {
			return nil, err
		}
		digits := r.formatter.Unformat(response)
		if digits == "" {
			if strings.TrimSpace(response) != "" {
				r.warn(ctx, field, "digits expected")
				continue
			}
			return nil, nil
		}
		if field.Format == token.FormatDocument && !numfmt.IsValidDocument(digits) {
			r.warn(ctx, field, "not a valid CPF or CNPJ")
		}
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+displayLabel(field)+": "+r.formatter.Format(digits, field.Format))
		return digits, nil
	}
}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

func (r *Renderer) promptDate(ctx context.Context, field model.Field, values model.Values) (any, error) {
	response, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(field),
		Default: values.Text(field.ID),
		Help:    "YYYY-MM-DD or DD/MM/YYYY",
		Validator: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return requiredValidator(field)(s)
			}
			_, err := ParseDate(s)
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(response) == "" {
		return nil, nil
	}
	date, err := ParseDate(response)
	if err != nil {
		return nil, err
	}
	return date, nil
}

// ParseDate accepts ISO or Brazilian day-first dates and returns the ISO form.
func ParseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("tui: invalid date %q", value)
}

func (r *Renderer) promptImage(ctx context.Context, field model.Field, values model.Values) (any, error) {
	current, _ := values.Image(field.ID)
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message:   displayLabel(field),
			Default:   shortURL(current.URL),
			Help:      "URL or path to a local image",
			Validator: requiredValidator(field),
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(response) == "" {
			return nil, nil
		}
		if response == shortURL(current.URL) && current.URL != "" {
			return current, nil
		}
		img, err := r.resolveImage(response)
		if err != nil {
			r.warn(ctx, field, err.Error())
			continue
		}
		return img, nil
	}
}

func (r *Renderer) promptImageList(ctx context.Context, field model.Field, values model.Values) (any, error) {
	var items []model.ImageValue
	for _, img := range values.Images(field.ID) {
		if strings.TrimSpace(img.URL) != "" {
			items = append(items, img)
		}
	}
	if len(items) > 0 {
		keep, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s: keep %d existing images?", displayLabel(field), len(items)),
			Default: true,
		})
		if err != nil {
			return nil, err
		}
		if !keep {
			items = nil
		}
	}

	for {
		more, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s: add an image?", displayLabel(field)),
			Default: len(items) == 0 && field.Required,
		})
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		location, err := r.driver.Input(ctx, InputConfig{
			Message: "Image URL or path",
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(location) == "" {
			continue
		}
		img, err := r.resolveImage(location)
		if err != nil {
			r.warn(ctx, field, err.Error())
			continue
		}
		description, err := r.driver.Input(ctx, InputConfig{Message: "Description"})
		if err != nil {
			return nil, err
		}
		img.Description = strings.TrimSpace(description)
		items = append(items, img)
	}

	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func (r *Renderer) promptList(ctx context.Context, field model.Field, values model.Values) (any, error) {
	var items []string
	for _, item := range values.List(field.ID) {
		if strings.TrimSpace(item) != "" {
			items = append(items, item)
		}
	}
	if len(items) > 0 {
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+displayLabel(field)+": "+strings.Join(items, "; "))
	}

	for i := len(items) + 1; ; i++ {
		item, err := r.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s #%d", displayLabel(field), i),
			Help:    "leave empty to finish",
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(item) == "" {
			break
		}
		items = append(items, strings.TrimSpace(item))
	}

	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// resolveImage keeps URLs and data URIs as typed and turns local files into
// data URIs.
func (r *Renderer) resolveImage(location string) (model.ImageValue, error) {
	location = strings.TrimSpace(location)
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:") {
		return model.ImageValue{URL: location, Name: filepath.Base(strings.SplitN(location, "?", 2)[0])}, nil
	}

	data, err := r.loadFile(location)
	if err != nil {
		return model.ImageValue{}, fmt.Errorf("read image: %w", err)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return model.ImageValue{}, fmt.Errorf("%s is not an image (%s)", location, contentType)
	}
	return model.ImageValue{
		URL:  "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Name: filepath.Base(location),
	}, nil
}

func (r *Renderer) warn(ctx context.Context, field model.Field, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+"Invalid "+displayLabel(field)+": "+msg)
}

func (r *Renderer) serialize(form model.FormModel, values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatYAML:
		return yaml.Marshal(map[string]any(values))
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, values)), nil
	default:
		return json.MarshalIndent(values, "", "  ")
	}
}

func prettyPrint(form model.FormModel, values model.Values) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		seen[field.ID] = struct{}{}
		writePretty(&b, displayLabel(field), field, values)
	}

	var extra []string
	for key := range values {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&b, "%s: %v\n", key, values[key])
	}
	return b.String()
}

func writePretty(b *strings.Builder, label string, field model.Field, values model.Values) {
	switch field.Type {
	case token.KindImage:
		img, _ := values.Image(field.ID)
		fmt.Fprintf(b, "%s: %s\n", label, shortURL(img.URL))
	case token.KindImageList:
		fmt.Fprintf(b, "%s:\n", label)
		for _, img := range values.Images(field.ID) {
			fmt.Fprintf(b, "  - %s %s\n", shortURL(img.URL), img.Caption())
		}
	case token.KindList:
		fmt.Fprintf(b, "%s:\n", label)
		for _, item := range values.List(field.ID) {
			fmt.Fprintf(b, "  - %s\n", item)
		}
	case token.KindNumber:
		fmt.Fprintf(b, "%s: %s\n", label, numfmt.Default.Format(values.Text(field.ID), field.Format))
	default:
		fmt.Fprintf(b, "%s: %s\n", label, values.Text(field.ID))
	}
}

func requiredValidator(field model.Field) func(string) error {
	return func(s string) error {
		if field.Required && strings.TrimSpace(s) == "" {
			return errors.New("required")
		}
		return nil
	}
}

func numberHelp(field model.Field) string {
	switch field.Format {
	case token.FormatCurrency:
		return "digits, cents included: 150075 is R$ 1.500,75"
	case token.FormatDocument:
		return "CPF or CNPJ digits"
	default:
		return field.Placeholder
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

// shortURL truncates data URIs for display.
func shortURL(url string) string {
	if strings.HasPrefix(url, "data:") && len(url) > 48 {
		return url[:48] + "..."
	}
	return url
}
