package schema

import "strings"

// Record is a generated input map handed to a view. Group members appear as
// nested records keyed by the member name, so a field derived at path
// "address.city" is reachable at record["address"].(Record)["city"].
type Record map[string]any

// AbsentValue marks an optional field that a draw left out. Composers strip
// the marker before a record reaches a view; views never observe it.
type AbsentValue struct{}

func (AbsentValue) String() string { return "<absent>" }

// Absent is the marker value produced for omitted optional fields.
var Absent = AbsentValue{}

// Unflatten expands dotted keys into nested records. Keys that share a
// prefix merge under the same nested record.
func Unflatten(flat map[string]any) Record {
	record := make(Record, len(flat))
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := record
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(Record)
			if !ok {
				child = make(Record)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return record
}

// Lookup resolves a dotted path against nested records.
func (r Record) Lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")
	node := r
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(Record)
		if !ok {
			return nil, false
		}
		node = child
	}
	value, ok := node[parts[len(parts)-1]]
	return value, ok
}

// Clone returns a deep copy of the record. Nested records, maps and slices
// are copied; scalar values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Record:
		return v.Clone()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case []Record:
		out := make([]Record, len(v))
		for i, item := range v {
			out[i] = item.Clone()
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
