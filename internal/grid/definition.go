package grid

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// MaxPageSize caps page sizes coming from URLs or callers.
const MaxPageSize = 200

// BindingKind tells a screen how to produce a cell.
type BindingKind int

const (
	// BindField reads a named field of the row.
	BindField BindingKind = iota
	// BindRenderer hands the row to a named custom renderer.
	BindRenderer
)

// Binding links a column to the row data.
type Binding struct {
	Kind BindingKind
	Name string
}

// Field binds a column to a plain row field.
func Field(name string) Binding {
	return Binding{Kind: BindField, Name: name}
}

// Renderer binds a column to a named renderer supplied by the screen.
func Renderer(name string) Binding {
	return Binding{Kind: BindRenderer, Name: name}
}

// Column describes one displayed column.
type Column struct {
	ID       string
	Header   string
	Sortable bool
	Width    int
	Binding  Binding
}

// Filter declares a filter key a grid accepts.
type Filter struct {
	Key   string
	Label string
}

// Definition is the static description of a grid. It is built once per
// screen and never mutated afterwards.
type Definition struct {
	Columns     []Column
	DefaultSort []SortKey
	PageSize    int
	Filters     []Filter
}

// Validate checks the definition for programmer errors.
func (d Definition) Validate() error {
	if d.PageSize < 1 || d.PageSize > MaxPageSize {
		return ValidationError{Field: "pageSize", Msg: fmt.Sprintf("must be between 1 and %d, got %d", MaxPageSize, d.PageSize)}
	}
	if len(d.Columns) == 0 {
		return ValidationError{Field: "columns", Msg: "at least one column is required"}
	}

	seen := make(map[string]struct{}, len(d.Columns))
	for i, col := range d.Columns {
		id := col.ID
		switch {
		case strings.TrimSpace(id) == "":
			return ValidationError{Field: "columns", Msg: fmt.Sprintf("column %d has no id", i)}
		case id != strings.TrimSpace(id), strings.Contains(id, ","), strings.HasPrefix(id, "-"):
			return ValidationError{Field: "columns", Msg: fmt.Sprintf("column id %q cannot be encoded in a sort spec", id)}
		case strings.TrimSpace(col.Binding.Name) == "":
			return ValidationError{Field: "columns", Msg: fmt.Sprintf("column %q has no binding", id)}
		}
		if _, dup := seen[id]; dup {
			return ValidationError{Field: "columns", Msg: fmt.Sprintf("duplicate column id %q", id)}
		}
		seen[id] = struct{}{}
	}

	if len(d.DefaultSort) == 0 {
		return ValidationError{Field: "defaultSort", Msg: "at least one sort key is required"}
	}
	if err := d.checkSort(d.DefaultSort); err != nil {
		ve := err.(ValidationError)
		ve.Field = "defaultSort"
		return ve
	}

	reserved := DefaultConvention.keys()
	keys := make(map[string]struct{}, len(d.Filters))
	for _, f := range d.Filters {
		key := strings.TrimSpace(f.Key)
		if key == "" || key != f.Key {
			return ValidationError{Field: "filters", Msg: fmt.Sprintf("invalid filter key %q", f.Key)}
		}
		if lo.Contains(reserved, key) {
			return ValidationError{Field: "filters", Msg: fmt.Sprintf("filter key %q is reserved", key)}
		}
		if _, dup := keys[key]; dup {
			return ValidationError{Field: "filters", Msg: fmt.Sprintf("duplicate filter key %q", key)}
		}
		keys[key] = struct{}{}
	}
	return nil
}

// MustDefine returns d or panics when it is invalid. It is meant for package
// level screen definitions, the same way regexp.MustCompile is.
func MustDefine(d Definition) Definition {
	if err := d.Validate(); err != nil {
		panic(fmt.Sprintf("grid: invalid definition: %v", err))
	}
	return d
}

// Column looks up a column by id.
func (d Definition) Column(id string) (Column, bool) {
	return lo.Find(d.Columns, func(col Column) bool { return col.ID == id })
}

// HasFilter reports whether key is a declared filter.
func (d Definition) HasFilter(key string) bool {
	return lo.ContainsBy(d.Filters, func(f Filter) bool { return f.Key == key })
}

// DefaultState is the state a grid starts from when nothing else is known.
func (d Definition) DefaultState() State {
	return State{
		Page:     1,
		PageSize: d.PageSize,
		Sort:     cloneSort(d.DefaultSort),
	}
}

func (d Definition) sortable(id string) bool {
	col, ok := d.Column(id)
	return ok && col.Sortable
}

// checkSort validates sort keys against the columns.
func (d Definition) checkSort(keys []SortKey) error {
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if !key.Dir.Valid() {
			return ValidationError{Field: "sort", Msg: fmt.Sprintf("invalid direction %q for %q", key.Dir, key.Column)}
		}
		if !d.sortable(key.Column) {
			return ValidationError{Field: "sort", Msg: fmt.Sprintf("column %q is not sortable", key.Column)}
		}
		if _, dup := seen[key.Column]; dup {
			return ValidationError{Field: "sort", Msg: fmt.Sprintf("column %q sorted twice", key.Column)}
		}
		seen[key.Column] = struct{}{}
	}
	return nil
}
