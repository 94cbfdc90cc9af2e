package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
)

// HTMLWriter renders a standalone report page from a pongo2 template.
// Regular fields rely on the template engine's escaping; the description is
// the one place markup survives, scrubbed through a UGC sanitizer first.
type HTMLWriter struct {
	mu        sync.Mutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	entry     string
	sanitizer *bluemonday.Policy
}

// HTMLOption configures the html writer before construction.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	templates fs.FS
	entry     string
}

// WithTemplates swaps the embedded template bundle for a caller-provided one.
func WithTemplates(files fs.FS) HTMLOption {
	return func(cfg *htmlConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithEntrypoint renders a different template from the bundle.
func WithEntrypoint(name string) HTMLOption {
	return func(cfg *htmlConfig) {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			cfg.entry = trimmed
		}
	}
}

// NewHTMLWriter constructs the html writer. Template parsing is deferred to
// the first render and cached after.
func NewHTMLWriter(options ...HTMLOption) *HTMLWriter {
	cfg := &htmlConfig{
		templates: TemplatesFS(),
		entry:     "report.html.tpl",
	}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	return &HTMLWriter{
		set:       pongo2.NewSet("viewcheck-report", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
		entry:     cfg.entry,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (*HTMLWriter) Name() string { return "html" }

func (*HTMLWriter) ContentType() string { return "text/html; charset=utf-8" }

func (w *HTMLWriter) Render(ctx context.Context, report Report, options Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := w.template(w.entry)
	if err != nil {
		return nil, err
	}
	templateContext, err := w.templateContext(report, options)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(templateContext, &buf); err != nil {
		return nil, fmt.Errorf("report: execute template %q: %w", w.entry, err)
	}
	return buf.Bytes(), nil
}

func (w *HTMLWriter) template(name string) (*pongo2.Template, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if tmpl, ok := w.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := w.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("report: load template %q: %w", name, err)
	}
	w.templates[name] = tmpl
	return tmpl, nil
}

// templateContext lowers the report through JSON so templates address fields
// by their serialised names, matching what the json writer emits.
func (w *HTMLWriter) templateContext(report Report, options Options) (pongo2.Context, error) {
	report.Description = w.sanitizer.Sanitize(report.Description)

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("report: encode report: %w", err)
	}
	data := map[string]any{}
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("report: decode report: %w", err)
	}

	templateContext := pongo2.Context(data)
	templateContext["theme"] = themeContext(options.Theme)
	templateContext["theme_style"] = themeStyle(options.Theme)
	return templateContext, nil
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return nil
	}
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
	}
}

// themeStyle renders the theme's CSS variables as a :root block. Entries
// from CSSVars keep their names; bare tokens get the --viewcheck- prefix.
func themeStyle(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return ""
	}
	vars := make(map[string]string, len(cfg.CSSVars)+len(cfg.Tokens))
	for name, value := range cfg.Tokens {
		vars["--viewcheck-"+name] = value
	}
	for name, value := range cfg.CSSVars {
		vars[name] = value
	}
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
