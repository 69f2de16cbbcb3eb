package vanilla

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultThemeName   = "regform"
	DefaultAssetPrefix = "/assets"

	assetStylesheet = "vanilla.stylesheet"
	assetScript     = "vanilla.script"
)

// DefaultTheme returns the built-in manifest with a "dark" variant.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":     "#f7f7f8",
			"color-fg":     "#1f2328",
			"color-muted":  "#57606a",
			"color-accent": "#2563eb",
			"color-error":  "#d1242f",
			"color-border": "#d0d7de",
			"color-field":  "#ffffff",
			"radius":       "6px",
			"font-family":  "system-ui, -apple-system, sans-serif",
		},
		Assets: theme.Assets{
			Prefix: DefaultAssetPrefix,
			Files: map[string]string{
				assetStylesheet: StylesheetName,
				assetScript:     ScriptName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-bg":     "#0d1117",
					"color-fg":     "#e6edf3",
					"color-muted":  "#8b949e",
					"color-accent": "#58a6ff",
					"color-error":  "#f85149",
					"color-border": "#30363d",
					"color-field":  "#161b22",
				},
			},
		},
	}
}

// Themes lists the built-in manifests by name.
func Themes() map[string]*theme.Manifest {
	manifest := DefaultTheme()
	return map[string]*theme.Manifest{manifest.Name: manifest}
}

// SelectTheme picks a built-in manifest and variant. An empty name selects the
// default theme; an empty variant selects the base tokens.
func SelectTheme(name, variant string) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultThemeName
	}
	manifest, ok := Themes()[name]
	if !ok {
		return nil, fmt.Errorf("vanilla: unknown theme %q", name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig resolves a selection into renderer configuration: tokens merged
// with the variant's overrides, CSS custom properties derived from the
// tokens, and an asset resolver.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

type themeView struct {
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	CSSVarsStyle string `json:"css_vars_style"`
	Stylesheet   string `json:"stylesheet"`
	Script       string `json:"script"`
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{
			Stylesheet: path.Join(DefaultAssetPrefix, StylesheetName),
			Script:     path.Join(DefaultAssetPrefix, ScriptName),
		}
	}
	view := themeView{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(assetStylesheet)
		view.Script = cfg.AssetURL(assetScript)
	}
	return view
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
