package strategy

import (
	"math"
	"reflect"
	"regexp"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/goliatone/go-viewcheck/pkg/schema"
)

const (
	// defaultItemSpread bounds list and table sizes when no max is given.
	defaultItemSpread = 8
	// defaultTextSpread bounds text length above the min when no max is given.
	defaultTextSpread = 64
)

// minInt64Float and maxInt64Float are the float64 values closest to the
// int64 range limits; 2^63 rounds exactly in both directions.
const (
	minInt64Float = -9223372036854775808.0
	maxInt64Float = 9223372036854775808.0
)

// NumberConstructor yields float64 values honouring Min, Max and Step.
// Stepped fields draw from the lattice min+k*step and shrink along it.
func NumberConstructor(spec schema.FieldSpec) (gopter.Gen, error) {
	if err := checkNumericSpec(spec); err != nil {
		return nil, err
	}
	if spec.Step != nil {
		return steppedNumberGen(spec)
	}
	lo := -math.MaxFloat64
	if spec.Min != nil {
		lo = *spec.Min
	}
	hi := math.MaxFloat64
	if spec.Max != nil {
		hi = *spec.Max
	}
	if spec.Min == nil && spec.Max == nil {
		return gen.Float64(), nil
	}
	return float64RangeGen(lo, hi), nil
}

// IntegerConstructor yields int64 values honouring Min, Max and Step.
func IntegerConstructor(spec schema.FieldSpec) (gopter.Gen, error) {
	if err := checkNumericSpec(spec); err != nil {
		return nil, err
	}
	lo, hi, err := integerBounds(spec)
	if err != nil {
		return nil, err
	}
	if spec.Step != nil {
		return steppedIntegerGen(spec, lo, hi)
	}
	return int64RangeGen(lo, hi), nil
}

// TextConstructor yields strings. A pattern takes precedence over length
// bounds; an unset max length is capped defaultTextSpread runes above the
// min so draws stay bounded.
func TextConstructor(spec schema.FieldSpec) (gopter.Gen, error) {
	if spec.Pattern != "" {
		if _, err := regexp.Compile(spec.Pattern); err != nil {
			return nil, invalidConstraintf("pattern %q does not compile: %v", spec.Pattern, err)
		}
		return gen.RegexMatch(spec.Pattern), nil
	}
	if spec.MinLength == nil && spec.MaxLength == nil {
		return gen.AnyString(), nil
	}
	minLen := 0
	if spec.MinLength != nil {
		minLen = *spec.MinLength
	}
	if minLen < 0 {
		return nil, invalidConstraintf("min length %d must not be negative", minLen)
	}
	maxLen := minLen + defaultTextSpread
	if spec.MaxLength != nil {
		maxLen = *spec.MaxLength
	}
	if maxLen < minLen {
		return nil, invalidConstraintf("min length %d exceeds max length %d", minLen, maxLen)
	}
	return textLengthGen(minLen, maxLen), nil
}

// BooleanConstructor yields true and false.
func BooleanConstructor(spec schema.FieldSpec) (gopter.Gen, error) {
	return gen.Bool(), nil
}

// OptionConstructor picks one of the declared choices. An empty choice set
// is a constraint error, never a silently skipped field.
func OptionConstructor(spec schema.FieldSpec) (gopter.Gen, error) {
	if len(spec.Choices) == 0 {
		return nil, invalidConstraintf("option field declares no choices")
	}
	return gen.OneConstOf(spec.Choices...), nil
}

// MultiSelectConstructor picks an independent subset of the declared
// choices, preserving declaration order. The empty subset is a valid draw.
func MultiSelectConstructor(spec schema.FieldSpec) (gopter.Gen, error) {
	if len(spec.Choices) == 0 {
		return nil, invalidConstraintf("multiselect field declares no choices")
	}
	choices := append([]any(nil), spec.Choices...)
	flags := make([]gopter.Gen, len(choices))
	for i := range flags {
		flags[i] = gen.Bool()
	}
	return gopter.CombineGens(flags...).Map(func(drawn []interface{}) []any {
		selected := make([]any, 0, len(choices))
		for i, flag := range drawn {
			if flag.(bool) {
				selected = append(selected, choices[i])
			}
		}
		return selected
	}), nil
}

// NewListConstructor builds list generators whose element generator is
// resolved against reg, so custom element types registered there work
// inside lists too.
func NewListConstructor(reg *Registry) Constructor {
	return func(spec schema.FieldSpec) (gopter.Gen, error) {
		if spec.Items == nil {
			return nil, invalidConstraintf("list field declares no item spec")
		}
		lo, hi, err := itemBounds(spec)
		if err != nil {
			return nil, err
		}
		element, err := generatorFor(reg, *spec.Items)
		if err != nil {
			return nil, err
		}
		return gen.IntRange(lo, hi).FlatMap(func(v interface{}) gopter.Gen {
			return combineN(v.(int), element).Map(func(drawn []interface{}) []any {
				out := make([]any, len(drawn))
				copy(out, drawn)
				return out
			})
		}, reflect.TypeOf([]any{})), nil
	}
}

// NewTableConstructor builds table generators: every row is a record drawn
// from the column specs, with optional columns omitted the same way
// top-level optional fields are.
func NewTableConstructor(reg *Registry) Constructor {
	return func(spec schema.FieldSpec) (gopter.Gen, error) {
		lo, hi, err := itemBounds(spec)
		if err != nil {
			return nil, err
		}
		row, err := rowGen(reg, spec.Fields)
		if err != nil {
			return nil, err
		}
		return gen.IntRange(lo, hi).FlatMap(func(v interface{}) gopter.Gen {
			return combineN(v.(int), row).Map(func(drawn []interface{}) []schema.Record {
				rows := make([]schema.Record, len(drawn))
				for i, item := range drawn {
					rows[i] = item.(schema.Record)
				}
				return rows
			})
		}, reflect.TypeOf([]schema.Record{})), nil
	}
}

// FileConstructor always fails: file inputs cannot be generated.
func FileConstructor(spec schema.FieldSpec) (gopter.Gen, error) {
	return nil, &UnsupportedTypeError{Type: schema.FieldFile}
}

// Optional wraps a generator so one draw in four yields the Absent marker,
// making presence part of the explored space.
func Optional(g gopter.Gen) gopter.Gen {
	return gen.Weighted([]gen.WeightedGen{
		{Weight: 1, Gen: gen.Const(schema.Absent)},
		{Weight: 3, Gen: g},
	})
}

func rowGen(reg *Registry, columns []schema.FieldSpec) (gopter.Gen, error) {
	names := make([]string, len(columns))
	gens := make([]gopter.Gen, len(columns))
	for i, column := range columns {
		g, err := generatorFor(reg, column)
		if err != nil {
			return nil, withFieldPath(err, column.Name)
		}
		if column.Optional {
			g = Optional(g)
		}
		names[i] = column.Name
		gens[i] = g
	}
	return gopter.CombineGens(gens...).Map(func(drawn []interface{}) schema.Record {
		record := make(schema.Record, len(drawn))
		for i, value := range drawn {
			if _, absent := value.(schema.AbsentValue); absent {
				continue
			}
			record[names[i]] = value
		}
		return record
	}), nil
}

// combineN draws n independent values from the same generator.
func combineN(n int, g gopter.Gen) gopter.Gen {
	gens := make([]gopter.Gen, n)
	for i := range gens {
		gens[i] = g
	}
	return gopter.CombineGens(gens...)
}

func textLengthGen(minLen, maxLen int) gopter.Gen {
	return gen.IntRange(minLen, maxLen).FlatMap(func(v interface{}) gopter.Gen {
		return gen.SliceOfN(v.(int), gen.RuneNoControl()).Map(func(runes []rune) string {
			return string(runes)
		})
	}, reflect.TypeOf("")).
		WithShrinker(gen.StringShrinker).
		SuchThat(func(s string) bool {
			length := utf8.RuneCountInString(s)
			return length >= minLen && length <= maxLen
		})
}

func checkNumericSpec(spec schema.FieldSpec) error {
	for _, bound := range []*float64{spec.Min, spec.Max, spec.Step} {
		if bound != nil && (math.IsNaN(*bound) || math.IsInf(*bound, 0)) {
			return invalidConstraintf("bounds must be finite")
		}
	}
	if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
		return invalidConstraintf("min %v exceeds max %v", *spec.Min, *spec.Max)
	}
	if spec.Step != nil {
		if *spec.Step <= 0 {
			return invalidConstraintf("step %v must be positive", *spec.Step)
		}
		if spec.Max == nil {
			return invalidConstraintf("a stepped range needs a max")
		}
	}
	return nil
}

func integerBounds(spec schema.FieldSpec) (int64, int64, error) {
	lo := int64(math.MinInt64)
	hi := int64(math.MaxInt64)
	if spec.Min != nil {
		ceil := math.Ceil(*spec.Min)
		if ceil >= maxInt64Float {
			return 0, 0, invalidConstraintf("min %v exceeds the integer range", *spec.Min)
		}
		if ceil > minInt64Float {
			lo = int64(ceil)
		}
	}
	if spec.Max != nil {
		floor := math.Floor(*spec.Max)
		if floor < minInt64Float {
			return 0, 0, invalidConstraintf("max %v is below the integer range", *spec.Max)
		}
		if floor < maxInt64Float {
			hi = int64(floor)
		}
	}
	if lo > hi {
		return 0, 0, invalidConstraintf("no integers between %v and %v", *spec.Min, *spec.Max)
	}
	return lo, hi, nil
}

// int64RangeGen falls back to a sieved full-range generator when the span
// would overflow the range generator's width arithmetic.
func int64RangeGen(lo, hi int64) gopter.Gen {
	if uint64(hi)-uint64(lo) >= math.MaxInt64 {
		return gen.Int64().SuchThat(func(v int64) bool {
			return v >= lo && v <= hi
		})
	}
	return gen.Int64Range(lo, hi)
}

// float64RangeGen falls back to a sieved full-range generator when the span
// is too wide for uniform scaling to stay finite.
func float64RangeGen(lo, hi float64) gopter.Gen {
	if math.IsInf(hi-lo, 0) {
		return gen.Float64().SuchThat(func(v float64) bool {
			return v >= lo && v <= hi
		})
	}
	return gen.Float64Range(lo, hi)
}

func steppedIntegerGen(spec schema.FieldSpec, lo, hi int64) (gopter.Gen, error) {
	step := *spec.Step
	if step != math.Trunc(step) {
		return nil, invalidConstraintf("integer step %v must be whole", step)
	}
	anchor := int64(0)
	if spec.Min != nil {
		anchor = lo
	}
	if hi < anchor {
		return nil, invalidConstraintf("stepped range holds no values")
	}
	stride := int64(step)
	count := (uint64(hi) - uint64(anchor)) / uint64(stride)
	if count >= math.MaxInt64 {
		return nil, invalidConstraintf("stepped range is too wide")
	}
	return gen.Int64Range(0, int64(count)).Map(func(k int64) int64 {
		return anchor + k*stride
	}).WithShrinker(steppedInt64Shrinker(anchor, stride)), nil
}

func steppedNumberGen(spec schema.FieldSpec) (gopter.Gen, error) {
	step := *spec.Step
	anchor := 0.0
	if spec.Min != nil {
		anchor = *spec.Min
	}
	span := *spec.Max - anchor
	if span < 0 {
		return nil, invalidConstraintf("stepped range holds no values")
	}
	count := math.Floor(span / step)
	if count >= 1<<53 {
		return nil, invalidConstraintf("stepped range is too wide")
	}
	return gen.Int64Range(0, int64(count)).Map(func(k int64) float64 {
		return anchor + float64(k)*step
	}).WithShrinker(steppedFloat64Shrinker(anchor, step)), nil
}

// steppedInt64Shrinker shrinks along the lattice by shrinking the stride
// count toward the anchor.
func steppedInt64Shrinker(anchor, stride int64) gopter.Shrinker {
	return func(v interface{}) gopter.Shrink {
		k := (v.(int64) - anchor) / stride
		return gen.Int64Shrinker(k).Map(func(shrunk int64) int64 {
			return anchor + shrunk*stride
		})
	}
}

func steppedFloat64Shrinker(anchor, step float64) gopter.Shrinker {
	return func(v interface{}) gopter.Shrink {
		k := int64(math.Round((v.(float64) - anchor) / step))
		return gen.Int64Shrinker(k).Map(func(shrunk int64) float64 {
			return anchor + float64(shrunk)*step
		})
	}
}

func itemBounds(spec schema.FieldSpec) (int, int, error) {
	lo := 0
	if spec.MinItems != nil {
		lo = *spec.MinItems
		if lo < 0 {
			return 0, 0, invalidConstraintf("min items %d must not be negative", lo)
		}
	}
	hi := lo + defaultItemSpread
	if spec.MaxItems != nil {
		hi = *spec.MaxItems
		if hi < lo {
			return 0, 0, invalidConstraintf("min items %d exceeds max items %d", lo, hi)
		}
	}
	return lo, hi, nil
}
