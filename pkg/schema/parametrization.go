package schema

import (
	"fmt"
	"strings"
)

// Parametrization describes the full input record of a unit under test.
type Parametrization struct {
	Name        string            `json:"name"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldSpec       `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Validate checks the structural rules every parametrization must satisfy:
// fields are named, names carry no dots, dotted paths are unique, and list
// fields declare an item spec. Empty groups and tables are permitted.
func (p Parametrization) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("schema: parametrization name is required")
	}
	seen := make(map[string]struct{})
	return validateFields(p.Fields, "", seen)
}

func validateFields(fields []FieldSpec, prefix string, seen map[string]struct{}) error {
	for i, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			if prefix == "" {
				return fmt.Errorf("schema: field %d has no name", i)
			}
			return fmt.Errorf("schema: field %d under %q has no name", i, prefix)
		}
		if strings.Contains(name, ".") {
			return fmt.Errorf("schema: field name %q must not contain dots", name)
		}
		path := joinPath(prefix, name)
		if _, dup := seen[path]; dup {
			return fmt.Errorf("schema: duplicate field path %q", path)
		}
		seen[path] = struct{}{}

		switch field.Type {
		case FieldGroup:
			if err := validateFields(field.Fields, path, seen); err != nil {
				return err
			}
		case FieldTable:
			columns := make(map[string]struct{}, len(field.Fields))
			for j, column := range field.Fields {
				colName := strings.TrimSpace(column.Name)
				if colName == "" {
					return fmt.Errorf("schema: table %q column %d has no name", path, j)
				}
				if _, dup := columns[colName]; dup {
					return fmt.Errorf("schema: table %q declares column %q twice", path, colName)
				}
				columns[colName] = struct{}{}
			}
		case FieldList:
			if field.Items == nil {
				return fmt.Errorf("schema: list field %q has no item spec", path)
			}
		}
	}
	return nil
}

// Paths returns the dotted path of every generated leaf in declaration
// order. Groups contribute their members, not themselves; table columns are
// row-scoped and do not appear.
func (p Parametrization) Paths() []string {
	return appendPaths(nil, p.Fields, "")
}

func appendPaths(paths []string, fields []FieldSpec, prefix string) []string {
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		if field.Type == FieldGroup {
			paths = appendPaths(paths, field.Fields, path)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
