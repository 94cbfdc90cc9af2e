package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// TextWriter renders an aligned console summary: one status line per view,
// then the reproducer of every failure.
type TextWriter struct {
	plain *bluemonday.Policy
}

// NewTextWriter constructs the console writer.
func NewTextWriter() *TextWriter {
	return &TextWriter{plain: bluemonday.StrictPolicy()}
}

func (*TextWriter) Name() string { return "text" }

func (*TextWriter) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the summary. The description, which may carry markup for
// the html writer, is reduced to plain text here.
func (w *TextWriter) Render(ctx context.Context, report Report, _ Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", report.Title)
	if description := w.plainText(report.Description); description != "" {
		fmt.Fprintf(&buf, "%s\n", description)
	}
	fmt.Fprintf(&buf, "generated %s\n\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "%d views: %d passed, %d failed, %d broken\n\n",
		report.Counts.Views, report.Counts.Passed, report.Counts.Failed, report.Counts.Broken)

	tw := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)
	for _, view := range report.Views {
		status := "PASS"
		if !view.Passing {
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d examples\n", status, view.Name, view.Examples)
	}
	for _, setup := range report.Setup {
		fmt.Fprintf(tw, "SETUP\t%s\t%s\n", setup.View, setup.Error)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("report: flush summary: %w", err)
	}

	for _, view := range report.Views {
		if view.Failure == nil {
			continue
		}
		fmt.Fprintf(&buf, "\n%s: %s\n", view.Name, view.Failure.Cause)
		fmt.Fprintf(&buf, "minimal record after %d shrinks:\n", view.Failure.Shrinks)
		for _, field := range view.Failure.Record {
			fmt.Fprintf(&buf, "  %s = %s\n", field.Path, field.Value)
		}
	}
	return buf.Bytes(), nil
}

func (w *TextWriter) plainText(markup string) string {
	if markup == "" {
		return ""
	}
	stripped := w.plain.Sanitize(markup)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
