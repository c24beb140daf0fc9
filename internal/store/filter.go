package store

import (
	"encoding/json"
	"reflect"
)

// Range bounds a numeric field. A nil bound is open.
type Range struct {
	Min *float64
	Max *float64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Filter selects records by their JSON field names.
//
// A record matches when every Equals key is present and non-null on the
// record with an equal value, and every Ranges key is present, numeric and
// within bounds. A key missing from the record never matches.
type Filter struct {
	Equals map[string]any
	Ranges map[string]Range
}

// Empty reports whether the filter selects every record.
func (f Filter) Empty() bool {
	return len(f.Equals) == 0 && len(f.Ranges) == 0
}

// normalize re-encodes expected values so they compare like decoded record
// fields: typed strings become string, every number becomes float64.
func (f Filter) normalize() (Filter, error) {
	if len(f.Equals) == 0 {
		return f, nil
	}
	equals := make(map[string]any, len(f.Equals))
	for key, want := range f.Equals {
		raw, err := json.Marshal(want)
		if err != nil {
			return Filter{}, err
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return Filter{}, err
		}
		equals[key] = v
	}
	return Filter{Equals: equals, Ranges: f.Ranges}, nil
}

func (f Filter) match(fields map[string]any) bool {
	for key, want := range f.Equals {
		got, ok := fields[key]
		if !ok || got == nil {
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	for key, r := range f.Ranges {
		got, ok := fields[key].(float64)
		if !ok {
			return false
		}
		if !r.Contains(got) {
			return false
		}
	}
	return true
}

func toFields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
