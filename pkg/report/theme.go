package report

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeSelector resolves a theme name and variant into a selection. The
// go-theme registry satisfies it; tests substitute stubs.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// DefaultThemes returns a selector over the built-in report themes.
func DefaultThemes() theme.ThemeSelector {
	registry := theme.NewRegistry()
	for _, manifest := range builtinThemes() {
		if err := registry.Register(manifest); err != nil {
			panic(fmt.Sprintf("report: register theme %q: %v", manifest.Name, err))
		}
	}
	return theme.Selector{Registry: registry}
}

func builtinThemes() []*theme.Manifest {
	return []*theme.Manifest{
		{
			Name:    "plain",
			Version: "1.0.0",
			Tokens: map[string]string{
				"bg":     "#ffffff",
				"fg":     "#1f2430",
				"pass":   "#15803d",
				"fail":   "#b91c1c",
				"broken": "#b45309",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						"bg":     "#11151c",
						"fg":     "#e5e7eb",
						"pass":   "#4ade80",
						"fail":   "#f87171",
						"broken": "#fbbf24",
					},
				},
			},
		},
	}
}

// ThemeFor resolves name/variant against a selector and lowers the
// selection into the renderer config the html writer consumes. Variant
// tokens override base tokens; the writer prefixes bare tokens into
// --viewcheck-* CSS variables, so the built-in page styles pick them up.
func ThemeFor(selector ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, fmt.Errorf("report: theme selector is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("report: theme name is required")
	}

	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("report: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("report: theme %q resolved to nothing", name)
	}

	tokens := map[string]string{}
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if v, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range v.Tokens {
			tokens[key] = value
		}
	}

	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
	}, nil
}
