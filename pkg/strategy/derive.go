package strategy

import (
	"fmt"

	"github.com/leanovate/gopter"

	"github.com/goliatone/go-viewcheck/pkg/schema"
)

// FieldGenerator pairs a derived generator with the dotted path of the
// field it feeds.
type FieldGenerator struct {
	Path string
	Spec schema.FieldSpec
	Gen  gopter.Gen
}

// Derive walks a parametrization and builds one generator per leaf field.
// Groups flatten to dotted paths in declaration order; optional fields wrap
// their generator so absence is drawn alongside concrete values. Derivation
// fails on the first unsupported or invalid field with the path in the
// error, leaving no partial result.
func Derive(reg *Registry, p schema.Parametrization) ([]FieldGenerator, error) {
	if reg == nil {
		return nil, fmt.Errorf("strategy: registry is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return deriveFields(reg, p.Fields, "", nil)
}

func deriveFields(reg *Registry, fields []schema.FieldSpec, prefix string, out []FieldGenerator) ([]FieldGenerator, error) {
	for _, field := range fields {
		path := joinFieldPath(prefix, field.Name)
		if field.Type == schema.FieldGroup {
			var err error
			out, err = deriveFields(reg, field.Fields, path, out)
			if err != nil {
				return nil, err
			}
			continue
		}
		g, err := generatorFor(reg, field)
		if err != nil {
			return nil, withFieldPath(err, path)
		}
		if field.Optional {
			g = Optional(g)
		}
		out = append(out, FieldGenerator{Path: path, Spec: field, Gen: g})
	}
	return out, nil
}

func generatorFor(reg *Registry, spec schema.FieldSpec) (gopter.Gen, error) {
	constructor, err := reg.Lookup(spec.Type)
	if err != nil {
		return nil, err
	}
	return constructor(spec)
}
