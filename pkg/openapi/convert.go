package openapi

import (
	"fmt"
	"math"
	"sort"

	"github.com/goliatone/go-viewcheck/pkg/schema"
)

// ExtensionKey is the vendor extension namespace the converter honours on
// schema nodes: {skip: bool, type: string, step: number, choices: [...]}.
const ExtensionKey = "x-viewcheck"

// Parametrizations converts every operation that carries a request schema.
// Operations without one (typically GETs) are left out: there is nothing to
// generate inputs from.
func Parametrizations(operations map[string]Operation) (map[string]schema.Parametrization, error) {
	out := make(map[string]schema.Parametrization, len(operations))
	for id, op := range operations {
		if op.RequestBody.IsZero() {
			continue
		}
		p, err := Parametrization(op)
		if err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, nil
}

// Parametrization converts one operation's request schema into the field
// schema of the view bound to that operation.
func Parametrization(op Operation) (schema.Parametrization, error) {
	body := op.RequestBody
	if body.IsZero() {
		return schema.Parametrization{}, fmt.Errorf("openapi: operation %q has no request schema", op.ID)
	}
	if body.Type != "" && body.Type != "object" {
		return schema.Parametrization{}, fmt.Errorf("openapi: operation %q: request body type is %q, want object", op.ID, body.Type)
	}

	fields, err := fieldsFromProperties(body)
	if err != nil {
		return schema.Parametrization{}, fmt.Errorf("openapi: operation %q: %w", op.ID, err)
	}

	p := schema.Parametrization{
		Name:        op.ID,
		Title:       op.Summary,
		Description: firstNonEmpty(body.Description, op.Description),
		Fields:      fields,
	}
	if op.Method != "" || op.Path != "" {
		p.Metadata = map[string]string{"method": op.Method, "path": op.Path}
	}
	if err := p.Validate(); err != nil {
		return schema.Parametrization{}, fmt.Errorf("openapi: operation %q: %w", op.ID, err)
	}
	return p, nil
}

// fieldsFromProperties converts an object schema's properties in sorted name
// order so the derived parametrization is stable across runs.
func fieldsFromProperties(s Schema) ([]schema.FieldSpec, error) {
	if len(s.Properties) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	fields := make([]schema.FieldSpec, 0, len(names))
	for _, name := range names {
		field, skip, err := fieldFromSchema(name, s.Properties[name], required[name])
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func fieldFromSchema(name string, s Schema, required bool) (schema.FieldSpec, bool, error) {
	ext := extensionFor(s)
	if ext.skip {
		return schema.FieldSpec{}, true, nil
	}
	if s.Type == "" && s.Ref != "" {
		return schema.FieldSpec{}, false, fmt.Errorf("field %q: unresolved reference %q", name, s.Ref)
	}

	field := schema.FieldSpec{
		Name:        name,
		Label:       s.Title,
		Description: s.Description,
		Optional:    !required,
		Default:     s.Default,
	}

	switch {
	case len(s.Enum) > 0 && s.Type != "array":
		field.Type = schema.FieldOption
		field.Choices = append([]any(nil), s.Enum...)

	case s.Type == "boolean":
		field.Type = schema.FieldBoolean

	case s.Type == "integer":
		field.Type = schema.FieldInteger
		field.Min, field.Max = integerRange(s)
		field.Step = cloneFloatPointer(s.MultipleOf)

	case s.Type == "number":
		field.Type = schema.FieldNumber
		field.Min, field.Max = numberRange(s)
		field.Step = cloneFloatPointer(s.MultipleOf)

	case s.Type == "string":
		if s.Format == "binary" || s.Format == "byte" {
			field.Type = schema.FieldFile
			break
		}
		field.Type = schema.FieldText
		field.MinLength = cloneIntPointer(s.MinLength)
		field.MaxLength = cloneIntPointer(s.MaxLength)
		field.Pattern = s.Pattern

	case s.Type == "array":
		if s.Items == nil {
			return schema.FieldSpec{}, false, fmt.Errorf("field %q: array schema declares no items", name)
		}
		field.MinItems = cloneIntPointer(s.MinItems)
		field.MaxItems = cloneIntPointer(s.MaxItems)
		items := *s.Items
		switch {
		case len(items.Enum) > 0:
			field.Type = schema.FieldMultiSelect
			field.Choices = append([]any(nil), items.Enum...)
		case items.Type == "object":
			field.Type = schema.FieldTable
			columns, err := fieldsFromProperties(items)
			if err != nil {
				return schema.FieldSpec{}, false, fmt.Errorf("field %q: %w", name, err)
			}
			field.Fields = columns
		default:
			field.Type = schema.FieldList
			item, skip, err := fieldFromSchema("item", items, true)
			if err != nil {
				return schema.FieldSpec{}, false, fmt.Errorf("field %q: %w", name, err)
			}
			if skip {
				return schema.FieldSpec{}, true, nil
			}
			field.Items = &item
		}

	case s.Type == "object":
		field.Type = schema.FieldGroup
		members, err := fieldsFromProperties(s)
		if err != nil {
			return schema.FieldSpec{}, false, fmt.Errorf("field %q: %w", name, err)
		}
		field.Fields = members

	case s.Type == "":
		return schema.FieldSpec{}, false, fmt.Errorf("field %q: schema declares no type", name)

	default:
		return schema.FieldSpec{}, false, fmt.Errorf("field %q: unsupported schema type %q", name, s.Type)
	}

	applyExtension(&field, ext)
	return field, false, nil
}

// integerRange maps bounds onto the field constraints. Exclusive bounds on
// whole numbers move one step inward; fractional bounds already exclude
// themselves once rounded to the nearest integer inside the range.
func integerRange(s Schema) (*float64, *float64) {
	min, max := cloneFloatPointer(s.Minimum), cloneFloatPointer(s.Maximum)
	if min != nil && s.ExclusiveMinimum && isWhole(*min) {
		*min++
	}
	if max != nil && s.ExclusiveMaximum && isWhole(*max) {
		*max--
	}
	return min, max
}

// numberRange nudges exclusive float bounds to the adjacent representable
// value inside the range.
func numberRange(s Schema) (*float64, *float64) {
	min, max := cloneFloatPointer(s.Minimum), cloneFloatPointer(s.Maximum)
	if min != nil && s.ExclusiveMinimum {
		*min = math.Nextafter(*min, math.Inf(1))
	}
	if max != nil && s.ExclusiveMaximum {
		*max = math.Nextafter(*max, math.Inf(-1))
	}
	return min, max
}

func isWhole(v float64) bool {
	return v == math.Trunc(v)
}

type extension struct {
	skip      bool
	fieldType string
	step      *float64
	choices   []any
}

func extensionFor(s Schema) extension {
	var ext extension
	raw, ok := s.Extensions[ExtensionKey].(map[string]any)
	if !ok {
		return ext
	}
	if v, ok := raw["skip"].(bool); ok {
		ext.skip = v
	}
	if v, ok := raw["type"].(string); ok {
		ext.fieldType = v
	}
	if v, ok := raw["step"].(float64); ok {
		ext.step = &v
	}
	if v, ok := raw["choices"].([]any); ok && len(v) > 0 {
		ext.choices = append([]any(nil), v...)
	}
	return ext
}

func applyExtension(field *schema.FieldSpec, ext extension) {
	if ext.fieldType != "" {
		field.Type = schema.FieldType(ext.fieldType)
	}
	if ext.step != nil {
		field.Step = ext.step
	}
	if len(ext.choices) > 0 {
		field.Choices = ext.choices
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
