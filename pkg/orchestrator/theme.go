package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeSelector resolves a theme/variant pair into a go-theme selection.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

type themeSettings struct {
	selector       ThemeSelector
	defaultTheme   string
	defaultVariant string
}

// WithThemeSelector registers a selector consulted on every Generate call.
func WithThemeSelector(selector ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themes.selector = selector
	}
}

// WithThemeDefaults sets the theme and variant used when a request names
// neither.
func WithThemeDefaults(name, variant string) Option {
	return func(o *Orchestrator) {
		o.themes.defaultTheme = name
		o.themes.defaultVariant = variant
	}
}

// WithThemeManifest serves a single manifest without a registry. The variant,
// when not empty, is applied on top of the base tokens, templates and assets.
func WithThemeManifest(manifest *theme.Manifest, variant string) Option {
	return func(o *Orchestrator) {
		if manifest == nil {
			return
		}
		o.themes.selector = staticSelector{manifest: manifest}
		o.themes.defaultTheme = manifest.Name
		o.themes.defaultVariant = variant
	}
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themes.selector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.themes.defaultTheme
	}
	if variant == "" {
		variant = o.themes.defaultVariant
	}

	selection, err := o.themes.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return RendererConfig(selection), nil
}

// RendererConfig flattens a selection into the per-request configuration
// renderers consume. Variant tokens, templates and asset files override the
// base manifest; every token is also exposed as a --token CSS variable.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	manifest := selection.Manifest
	if manifest == nil {
		cfg.AssetURL = func(key string) string { return "" }
		return cfg
	}
	if cfg.Theme == "" {
		cfg.Theme = manifest.Name
	}

	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	merge(cfg.Tokens, manifest.Tokens)
	merge(cfg.Partials, manifest.Templates)
	merge(files, manifest.Assets.Files)

	if variant, ok := manifest.Variants[cfg.Variant]; ok {
		merge(cfg.Tokens, variant.Tokens)
		merge(cfg.Partials, variant.Templates)
		merge(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	prefix = strings.TrimSuffix(prefix, "/")
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return prefix + "/" + strings.TrimPrefix(file, "/")
	}
	return cfg
}

var errThemeNotFound = errors.New("orchestrator: theme not found")

type staticSelector struct {
	manifest *theme.Manifest
}

func (s staticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name != "" && name != s.manifest.Name {
		return nil, fmt.Errorf("%w: %q", errThemeNotFound, name)
	}
	return &theme.Selection{Theme: s.manifest.Name, Variant: variant, Manifest: s.manifest}, nil
}

func merge(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
