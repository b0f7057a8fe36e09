package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/token"
)

// MetadataKey is the field metadata entry holding the resolved widget.
const MetadataKey = "widget"

// Built-in widget identifiers exposed by the registry.
const (
	WidgetTextInput     = "text-input"
	WidgetNumberInput   = "number-input"
	WidgetCurrencyInput = "currency-input"
	WidgetDocumentInput = "document-input"
	WidgetDatePicker    = "date-picker"
	WidgetImageUpload   = "image-upload"
	WidgetImageGallery  = "image-gallery"
	WidgetListEditor    = "list-editor"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects fill widgets for fields based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

var _ model.Decorator = (*Registry)(nil)

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit widget in the
// field metadata is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if field.Metadata != nil {
		if widget := strings.TrimSpace(field.Metadata[MetadataKey]); widget != "" {
			return widget, true
		}
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator. Every field with a resolved widget gets
// Metadata["widget"]; existing values are kept.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	fields := make([]model.Field, len(form.Fields))
	for idx, field := range form.Fields {
		if widget, ok := r.Resolve(field); ok {
			meta := make(map[string]string, len(field.Metadata)+1)
			for k, v := range field.Metadata {
				meta[k] = v
			}
			if meta[MetadataKey] == "" {
				meta[MetadataKey] = widget
			}
			field.Metadata = meta
		}
		fields[idx] = field
	}
	form.Fields = fields
	return nil
}

func kindIs(kind token.Kind) Matcher {
	return func(field model.Field) bool {
		return field.Type == kind
	}
}

func numberWith(format token.NumberFormat) Matcher {
	return func(field model.Field) bool {
		return field.Type == token.KindNumber && field.Format == format
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCurrencyInput, 90, numberWith(token.FormatCurrency))
	r.Register(WidgetDocumentInput, 90, numberWith(token.FormatDocument))
	r.Register(WidgetNumberInput, 80, kindIs(token.KindNumber))
	r.Register(WidgetDatePicker, 70, kindIs(token.KindDate))
	r.Register(WidgetImageUpload, 70, kindIs(token.KindImage))
	r.Register(WidgetImageGallery, 70, kindIs(token.KindImageList))
	r.Register(WidgetListEditor, 70, kindIs(token.KindList))
	r.Register(WidgetTextInput, 0, func(model.Field) bool { return true })
}
