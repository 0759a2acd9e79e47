package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ResolveTheme selects a theme through go-theme and flattens the winning
// manifest (plus variant overrides) into the renderer-facing configuration.
// fallbacks provides partial templates used when the manifest names none.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	return RendererConfigFromSelection(selection, fallbacks), nil
}

// RendererConfigFromSelection flattens a go-theme selection into the config
// renderers consume. Variant tokens, templates and asset files overlay the
// manifest's base values.
func RendererConfigFromSelection(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := mergeStringMaps(manifest.Tokens, nil)
	partials := mergeStringMaps(fallbacks, manifest.Templates)
	assetPrefix := manifest.Assets.Prefix
	assetFiles := mergeStringMaps(manifest.Assets.Files, nil)

	if override, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStringMaps(tokens, override.Tokens)
		partials = mergeStringMaps(partials, override.Templates)
		assetFiles = mergeStringMaps(assetFiles, override.Assets.Files)
		if override.Assets.Prefix != "" {
			assetPrefix = override.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: assetResolver(assetPrefix, assetFiles),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(name string) string {
		file, ok := files[name]
		if !ok {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
	}
}

func mergeStringMaps(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		out[key] = value
	}
	return out
}
