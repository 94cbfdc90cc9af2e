package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-viewcheck/pkg/openapi"
)

// convertSchema maps a kin-openapi schema node onto the backend-neutral
// Schema. The seen set breaks reference cycles: a ref already on the current
// path converts to a bare reference instead of recursing forever.
func convertSchema(ref *openapi3.SchemaRef, seen map[string]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	if ref.Ref != "" {
		if seen[ref.Ref] {
			return pkgopenapi.Schema{Ref: ref.Ref}
		}
		seen[ref.Ref] = true
		defer delete(seen, ref.Ref)
	}

	src := ref.Value
	schema := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
	}

	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchema(property, seen)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items, seen)
		schema.Items = &items
	}

	if src.Min != nil {
		value := *src.Min
		schema.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		schema.Maximum = &value
	}
	schema.ExclusiveMinimum = src.ExclusiveMin
	schema.ExclusiveMaximum = src.ExclusiveMax
	if src.MultipleOf != nil {
		value := *src.MultipleOf
		schema.MultipleOf = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		schema.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	if src.Pattern != "" {
		schema.Pattern = src.Pattern
	}
	if src.MinItems != 0 {
		value := int(src.MinItems)
		schema.MinItems = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		schema.MaxItems = &value
	}

	schema.Extensions = extractExtensions(src.Extensions)
	mergeAllOf(&schema, src.AllOf, seen)
	return schema
}

// mergeAllOf folds allOf branches into the target: properties and required
// names accumulate, scalar attributes fill in only where the target has
// none. Composition order wins on conflicts.
func mergeAllOf(target *pkgopenapi.Schema, refs openapi3.SchemaRefs, seen map[string]bool) {
	if target == nil || len(refs) == 0 {
		return
	}
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		branch := convertSchema(ref, seen)

		if target.Type == "" {
			target.Type = branch.Type
		}
		if target.Format == "" {
			target.Format = branch.Format
		}
		if target.Title == "" {
			target.Title = branch.Title
		}
		if target.Description == "" {
			target.Description = branch.Description
		}
		if target.Default == nil {
			target.Default = branch.Default
		}
		target.Required = appendMissing(target.Required, branch.Required)
		if len(target.Enum) == 0 {
			target.Enum = branch.Enum
		}
		if len(branch.Properties) > 0 {
			if target.Properties == nil {
				target.Properties = make(map[string]pkgopenapi.Schema, len(branch.Properties))
			}
			for name, property := range branch.Properties {
				if _, exists := target.Properties[name]; !exists {
					target.Properties[name] = property
				}
			}
		}
		if target.Items == nil {
			target.Items = branch.Items
		}
		if target.Minimum == nil {
			target.Minimum = branch.Minimum
			target.ExclusiveMinimum = branch.ExclusiveMinimum
		}
		if target.Maximum == nil {
			target.Maximum = branch.Maximum
			target.ExclusiveMaximum = branch.ExclusiveMaximum
		}
		if target.MultipleOf == nil {
			target.MultipleOf = branch.MultipleOf
		}
		if target.MinLength == nil {
			target.MinLength = branch.MinLength
		}
		if target.MaxLength == nil {
			target.MaxLength = branch.MaxLength
		}
		if target.Pattern == "" {
			target.Pattern = branch.Pattern
		}
		if target.MinItems == nil {
			target.MinItems = branch.MinItems
		}
		if target.MaxItems == nil {
			target.MaxItems = branch.MaxItems
		}
		if len(branch.Extensions) > 0 {
			if target.Extensions == nil {
				target.Extensions = make(map[string]any, len(branch.Extensions))
			}
			for key, value := range branch.Extensions {
				if _, exists := target.Extensions[key]; !exists {
					target.Extensions[key] = value
				}
			}
		}
	}
}

func appendMissing(target []string, values []string) []string {
	for _, value := range values {
		found := false
		for _, existing := range target {
			if existing == value {
				found = true
				break
			}
		}
		if !found {
			target = append(target, value)
		}
	}
	return target
}

// extractExtensions keeps only the vendor namespace the converter honours.
func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	value, ok := raw[pkgopenapi.ExtensionKey]
	if !ok {
		return nil
	}
	mapped, ok := value.(map[string]any)
	if !ok || len(mapped) == 0 {
		return nil
	}
	clone := make(map[string]any, len(mapped))
	for key, v := range mapped {
		clone[key] = v
	}
	return map[string]any{pkgopenapi.ExtensionKey: clone}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
