package report

import (
	"context"

	theme "github.com/goliatone/go-theme"
)

// Writer renders a report in one output format.
type Writer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, report Report, options Options) ([]byte, error)
}

// Options carry per-render data a writer may honour without changing the
// report model. Writers ignore fields that do not apply to their format.
type Options struct {
	// Theme feeds the html writer: its CSS variables, with bare tokens
	// prefixed to --viewcheck-*, become a :root style block on the page.
	Theme *theme.RendererConfig
}
