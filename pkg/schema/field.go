// Package schema defines the typed field descriptions that drive input
// generation. A Parametrization describes the record a view accepts; each
// FieldSpec inside it carries the kind and constraints a value source needs
// to produce candidates for that field.
package schema

// FieldType is the enum of supported field kinds.
type FieldType string

const (
	FieldNumber      FieldType = "number"
	FieldInteger     FieldType = "integer"
	FieldText        FieldType = "text"
	FieldBoolean     FieldType = "boolean"
	FieldOption      FieldType = "option"
	FieldMultiSelect FieldType = "multiselect"
	FieldList        FieldType = "list"
	FieldTable       FieldType = "table"
	FieldGroup       FieldType = "group"
	FieldFile        FieldType = "file"
)

// FieldSpec describes a single field of a parametrization. Struct fields are
// annotated so specs can be serialised directly when needed. Only the
// constraint fields that apply to the field's type are consulted; the rest
// are ignored.
type FieldSpec struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description,omitempty"`
	Optional    bool      `json:"optional,omitempty"`
	Default     any       `json:"default,omitempty"`

	// Numeric constraints for number and integer fields.
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`

	// Text constraints. Pattern takes precedence over length bounds.
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Choices holds the admissible values of option and multiselect fields.
	Choices []any `json:"choices,omitempty"`

	// Item constraints for list and table fields. Items describes the
	// element of a list; Fields holds the columns of a table or the
	// members of a group.
	MinItems *int        `json:"minItems,omitempty"`
	MaxItems *int        `json:"maxItems,omitempty"`
	Items    *FieldSpec  `json:"items,omitempty"`
	Fields   []FieldSpec `json:"fields,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the spec.
func (f FieldSpec) Clone() FieldSpec {
	out := f
	if f.Min != nil {
		v := *f.Min
		out.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		out.Max = &v
	}
	if f.Step != nil {
		v := *f.Step
		out.Step = &v
	}
	if f.MinLength != nil {
		v := *f.MinLength
		out.MinLength = &v
	}
	if f.MaxLength != nil {
		v := *f.MaxLength
		out.MaxLength = &v
	}
	if f.MinItems != nil {
		v := *f.MinItems
		out.MinItems = &v
	}
	if f.MaxItems != nil {
		v := *f.MaxItems
		out.MaxItems = &v
	}
	if f.Choices != nil {
		out.Choices = append([]any(nil), f.Choices...)
	}
	if f.Items != nil {
		item := f.Items.Clone()
		out.Items = &item
	}
	if f.Fields != nil {
		out.Fields = make([]FieldSpec, len(f.Fields))
		for i, child := range f.Fields {
			out.Fields[i] = child.Clone()
		}
	}
	if f.Metadata != nil {
		out.Metadata = make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
