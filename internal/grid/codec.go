package grid

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Convention names the query parameters carrying page, page size and sort.
// URLs always use DefaultConvention; a data source may use its own.
type Convention struct {
	Page string
	Size string
	Sort string
}

// DefaultConvention is page/limit/sort, shared by URLs and the admin API.
var DefaultConvention = Convention{Page: "page", Size: "limit", Sort: "sort"}

func (c Convention) keys() []string {
	return []string{c.Page, c.Size, c.Sort}
}

func (c Convention) orDefault() Convention {
	if c.Page == "" {
		c.Page = DefaultConvention.Page
	}
	if c.Size == "" {
		c.Size = DefaultConvention.Size
	}
	if c.Sort == "" {
		c.Sort = DefaultConvention.Sort
	}
	return c
}

// FormatSort renders sort keys as "-createdAt,title": comma separated column
// ids, descending keys prefixed with a minus sign.
func FormatSort(keys []SortKey) string {
	parts := lo.Map(keys, func(key SortKey, _ int) string {
		if key.Dir == Desc {
			return "-" + key.Column
		}
		return key.Column
	})
	return strings.Join(parts, ",")
}

// ParseSort splits a sort spec into keys. Empty tokens are skipped; the result
// is not checked against any definition.
func ParseSort(raw string) []SortKey {
	var keys []SortKey
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		dir := Asc
		if strings.HasPrefix(token, "-") {
			dir = Desc
			token = strings.TrimSpace(token[1:])
		}
		if token == "" {
			continue
		}
		keys = append(keys, SortKey{Column: token, Dir: dir})
	}
	return keys
}

// EncodeURL renders the URL query for s. Values equal to the definition's
// defaults are omitted so a grid in its default state has an empty query.
func EncodeURL(s State, d Definition) url.Values {
	conv := DefaultConvention
	values := url.Values{}
	if s.Page > 1 {
		values.Set(conv.Page, strconv.Itoa(s.Page))
	}
	if s.PageSize > 0 && s.PageSize != d.PageSize {
		values.Set(conv.Size, strconv.Itoa(s.PageSize))
	}
	if len(s.Sort) > 0 && !sortEqual(s.Sort, d.DefaultSort) {
		values.Set(conv.Sort, FormatSort(s.Sort))
	}
	encodeFilters(values, s.Filters)
	return values
}

// DecodeURL rebuilds a state from a URL query. It never fails: malformed or
// unknown values fall back to the definition's defaults.
func DecodeURL(values url.Values, d Definition) State {
	conv := DefaultConvention
	s := d.DefaultState()

	if page, err := strconv.Atoi(strings.TrimSpace(values.Get(conv.Page))); err == nil && page >= 1 {
		s.Page = page
	}
	if size, err := strconv.Atoi(strings.TrimSpace(values.Get(conv.Size))); err == nil && size >= 1 {
		s.PageSize = min(size, MaxPageSize)
	}

	seen := make(map[string]struct{})
	keys := lo.Filter(ParseSort(values.Get(conv.Sort)), func(key SortKey, _ int) bool {
		if !d.sortable(key.Column) {
			return false
		}
		if _, dup := seen[key.Column]; dup {
			return false
		}
		seen[key.Column] = struct{}{}
		return true
	})
	if len(keys) > 0 {
		s.Sort = keys
	}

	filters := make(map[string]string, len(d.Filters))
	for _, f := range d.Filters {
		filters[f.Key] = values.Get(f.Key)
	}
	s.Filters = normalizeFilters(filters)
	return s
}

// QueryValues renders the data source query for s. Unlike EncodeURL it always
// carries page, page size and sort.
func QueryValues(s State, d Definition, conv Convention) url.Values {
	conv = conv.orDefault()
	values := url.Values{}
	values.Set(conv.Page, strconv.Itoa(max(s.Page, 1)))

	size := s.PageSize
	if size < 1 {
		size = d.PageSize
	}
	values.Set(conv.Size, strconv.Itoa(size))

	keys := s.Sort
	if len(keys) == 0 {
		keys = d.DefaultSort
	}
	values.Set(conv.Sort, FormatSort(keys))

	encodeFilters(values, s.Filters)
	return values
}

func encodeFilters(values url.Values, filters map[string]string) {
	for key, value := range filters {
		if value = strings.TrimSpace(value); value != "" {
			values.Set(key, value)
		}
	}
}

// valuesEqual compares two queries ignoring parameter order.
func valuesEqual(a, b url.Values) bool {
	return a.Encode() == b.Encode()
}
