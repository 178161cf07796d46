package grid

import (
	"maps"
	"strings"
)

// Direction orders a sort key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is one of Asc or Desc.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// SortKey orders rows by one column.
type SortKey struct {
	Column string
	Dir    Direction
}

// State is one revision of what a grid is showing: which page, how many rows
// per page, the sort order and the active filters. States are values; the
// helpers below return copies instead of mutating shared maps or slices.
type State struct {
	Page     int
	PageSize int
	Sort     []SortKey // primary key first, never empty once normalized
	Filters  map[string]string
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Page:     s.Page,
		PageSize: s.PageSize,
		Sort:     cloneSort(s.Sort),
		Filters:  cloneFilters(s.Filters),
	}
}

// Equal reports whether two states describe the same query.
func (s State) Equal(other State) bool {
	if s.Page != other.Page || s.PageSize != other.PageSize {
		return false
	}
	if !sortEqual(s.Sort, other.Sort) {
		return false
	}
	return maps.Equal(normalizeFilters(s.Filters), normalizeFilters(other.Filters))
}

// Filter returns the value of a filter, or "" when it is not set.
func (s State) Filter(key string) string {
	return s.Filters[key]
}

// Offset returns the zero-based index of the first row on the current page.
func (s State) Offset() int {
	if s.Page < 1 || s.PageSize < 1 {
		return 0
	}
	return (s.Page - 1) * s.PageSize
}

func cloneSort(keys []SortKey) []SortKey {
	if len(keys) == 0 {
		return nil
	}
	dup := make([]SortKey, len(keys))
	copy(dup, keys)
	return dup
}

func sortEqual(a, b []SortKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneFilters(filters map[string]string) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	return maps.Clone(filters)
}

// normalizeFilters trims values and drops empty ones. The result is nil when
// no filter remains.
func normalizeFilters(filters map[string]string) map[string]string {
	var out map[string]string
	for key, value := range filters {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(filters))
		}
		out[key] = value
	}
	return out
}
