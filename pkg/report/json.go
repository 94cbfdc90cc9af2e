package report

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONWriter emits the report model as indented JSON for machine consumers.
type JSONWriter struct{}

// NewJSONWriter constructs the JSON writer.
func NewJSONWriter() *JSONWriter { return &JSONWriter{} }

func (*JSONWriter) Name() string { return "json" }

func (*JSONWriter) ContentType() string { return "application/json" }

func (*JSONWriter) Render(ctx context.Context, report Report, _ Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: encode json: %w", err)
	}
	return payload, nil
}
