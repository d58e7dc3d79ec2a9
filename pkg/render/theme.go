package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeSelector resolves a theme name and variant into a selection. The
// go-theme registry satisfies this contract.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// RendererConfigFromSelection flattens a theme selection into the renderer
// configuration templates consume: variant tokens, templates, and asset
// files override their manifest counterparts.
func RendererConfigFromSelection(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	manifest := sel.Manifest

	cfg := &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Tokens:   copyStringMap(manifest.Tokens),
		Partials: copyStringMap(manifest.Templates),
	}

	assetPrefix := manifest.Assets.Prefix
	assetFiles := copyStringMap(manifest.Assets.Files)

	if variant, ok := manifest.Variants[sel.Variant]; ok {
		cfg.Tokens = overlayStringMap(cfg.Tokens, variant.Tokens)
		cfg.Partials = overlayStringMap(cfg.Partials, variant.Templates)
		if variant.Assets.Prefix != "" {
			assetPrefix = variant.Assets.Prefix
		}
		assetFiles = overlayStringMap(assetFiles, variant.Assets.Files)
	}

	cfg.CSSVars = cssVarsFromTokens(cfg.Tokens)
	cfg.AssetURL = assetResolver(assetPrefix, assetFiles)
	return cfg
}

// themeViewContext reduces a renderer config to the plain map templates see
// under the "theme" key.
func themeViewContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return nil
	}
	ctx := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
	}
	if len(cfg.Tokens) > 0 {
		ctx["tokens"] = stringMapToAny(cfg.Tokens)
	}
	if len(cfg.Partials) > 0 {
		ctx["partials"] = stringMapToAny(cfg.Partials)
	}
	if len(cfg.CSSVars) > 0 {
		ctx["cssVars"] = stringMapToAny(cfg.CSSVars)
		ctx["cssVarsStyle"] = cssVarsStyle(cfg.CSSVars)
	}
	return ctx
}

func cssVarsFromTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(tokens))
	for name, value := range tokens {
		key := name
		if !strings.HasPrefix(key, "--") {
			key = "--" + key
		}
		vars[key] = value
	}
	return vars
}

// cssVarsStyle renders CSS custom properties as a :root block for direct
// <style> embedding.
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
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func overlayStringMap(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(overlay))
	}
	for key, value := range overlay {
		base[key] = value
	}
	return base
}

func stringMapToAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
