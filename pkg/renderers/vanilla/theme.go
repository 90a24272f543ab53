package vanilla

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla/components"
)

// ThemeName is the manifest name every booking form theme is published under.
const ThemeName = "bookingform"

// Asset keys resolved through RendererConfig.AssetURL.
const (
	AssetStylesheet = "vanilla.stylesheet"
	AssetForm       = "vanilla.form"
	AssetUpload     = components.UploadScriptKey
)

// Token keys derived from model.Theme.
const (
	TokenPrimary     = "primary-color"
	TokenSecondary   = "secondary-color"
	TokenBackground  = "background-color"
	TokenText        = "text-color"
	TokenFontFamily  = "font-family"
	TokenWidthClass  = "width-class"
	TokenButtonClass = "button-class"
)

const cssVarPrefix = "--bf-"

// Manifest publishes a form theme as a go-theme manifest. Form widths are
// variants so operators can override one width without the others.
func Manifest(t model.Theme, assetPrefix string) *theme.Manifest {
	if assetPrefix == "" {
		assetPrefix = DefaultAssetPrefix
	}
	tokens := map[string]string{
		TokenPrimary:     t.PrimaryColor,
		TokenSecondary:   t.SecondaryColor,
		TokenBackground:  t.BackgroundColor,
		TokenText:        t.TextColor,
		TokenFontFamily:  t.FontFamily,
		TokenButtonClass: ButtonClass(t.ButtonStyle),
	}
	maps.DeleteFunc(tokens, func(_, v string) bool { return strings.TrimSpace(v) == "" })

	variants := make(map[string]theme.Variant, 3)
	for _, width := range []model.FormWidth{model.WidthNarrow, model.WidthMedium, model.WidthWide} {
		variants[string(width)] = theme.Variant{
			Tokens: map[string]string{TokenWidthClass: WidthClass(width)},
		}
	}

	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens:  tokens,
		Assets: theme.Assets{
			Prefix: assetPrefix,
			Files: map[string]string{
				AssetStylesheet: StylesheetName,
				AssetForm:       FormScriptName,
				AssetUpload:     UploadScriptName,
			},
		},
		Variants: variants,
	}
}

// VariantFor names the manifest variant selected by t.
func VariantFor(t model.Theme) string {
	switch t.FormWidth {
	case model.WidthNarrow, model.WidthWide:
		return string(t.FormWidth)
	default:
		return string(model.WidthMedium)
	}
}

// RendererConfig flattens a selection into the config templates consume.
// Variant tokens, templates and asset files win over the base manifest.
func RendererConfig(selection *theme.Selection) (*theme.RendererConfig, error) {
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("vanilla: theme selection has no manifest")
	}
	manifest := selection.Manifest

	tokens := maps.Clone(manifest.Tokens)
	partials := maps.Clone(manifest.Templates)
	files := maps.Clone(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = merge(tokens, variant.Tokens)
		partials = merge(partials, variant.Templates)
		files = merge(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if strings.HasSuffix(key, "-class") {
			continue
		}
		cssVars[cssVarPrefix+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

// overlay lays an operator supplied selection over the form derived one.
// Empty operator values never clear form values.
func overlay(base, operator *theme.Selection) *theme.Selection {
	if operator == nil || operator.Manifest == nil {
		return base
	}
	merged := *base.Manifest
	merged.Tokens = merge(maps.Clone(base.Manifest.Tokens), operator.Manifest.Tokens)
	merged.Templates = merge(maps.Clone(base.Manifest.Templates), operator.Manifest.Templates)
	merged.Assets.Files = merge(maps.Clone(base.Manifest.Assets.Files), operator.Manifest.Assets.Files)
	if operator.Manifest.Assets.Prefix != "" {
		merged.Assets.Prefix = operator.Manifest.Assets.Prefix
	}
	merged.Variants = maps.Clone(base.Manifest.Variants)
	if merged.Variants == nil {
		merged.Variants = make(map[string]theme.Variant)
	}
	for name, variant := range operator.Manifest.Variants {
		current := merged.Variants[name]
		current.Tokens = merge(maps.Clone(current.Tokens), variant.Tokens)
		current.Templates = merge(maps.Clone(current.Templates), variant.Templates)
		current.Assets.Files = merge(maps.Clone(current.Assets.Files), variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			current.Assets.Prefix = variant.Assets.Prefix
		}
		merged.Variants[name] = current
	}
	return &theme.Selection{Theme: base.Theme, Variant: base.Variant, Manifest: &merged}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		if key == "" {
			return ""
		}
		file := key
		if mapped, ok := files[key]; ok {
			file = mapped
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return prefix + "/" + file
	}
}

func merge(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		if strings.TrimSpace(value) == "" {
			continue
		}
		dst[key] = value
	}
	return dst
}

// cssVarsStyle renders vars as a deterministic inline style declaration.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(vars))
	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}
