package report

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded report templates so callers can render
// them elsewhere or derive customised bundles.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// Should never happen; fall back to the raw FS so templates stay usable.
		return embeddedTemplates
	}
	return sub
}
