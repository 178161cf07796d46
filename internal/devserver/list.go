package devserver

import (
	"cmp"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/five82/odonto/internal/api"
	"github.com/five82/odonto/internal/grid"
)

const (
	defaultLimit = 10
	maxLimit     = grid.MaxPageSize
)

var reservedParams = []string{"page", "limit", "sort", "populate"}

type listQuery struct {
	page     int
	limit    int
	sort     []grid.SortKey
	filters  map[string]string
	populate []string
}

// parseListQuery reads page/limit/sort/populate plus free-form filters.
// Paging is clamped the way the production API does it; an unparseable
// number is a client error.
func parseListQuery(values url.Values) (listQuery, error) {
	q := listQuery{page: 1, limit: defaultLimit, filters: map[string]string{}}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return listQuery{}, fmt.Errorf("invalid page %q", raw)
		}
		q.page = max(page, 1)
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return listQuery{}, fmt.Errorf("invalid limit %q", raw)
		}
		if limit < 1 {
			limit = defaultLimit
		}
		q.limit = min(limit, maxLimit)
	}
	q.sort = grid.ParseSort(values.Get("sort"))
	q.populate = lo.Filter(strings.Split(values.Get("populate"), ","), func(rel string, _ int) bool {
		return strings.TrimSpace(rel) != ""
	})

	for key := range values {
		if lo.Contains(reservedParams, key) {
			continue
		}
		if value := strings.TrimSpace(values.Get(key)); value != "" {
			q.filters[key] = value
		}
	}
	return q, nil
}

func (q listQuery) populates(rel string) bool {
	return lo.ContainsBy(q.populate, func(p string) bool { return strings.TrimSpace(p) == rel })
}

// apply filters, sorts and pages items. It returns the page and the number of
// records matching the filters.
func apply[T api.Record](q listQuery, items []T) ([]T, int) {
	matched := lo.Filter(items, func(item T, _ int) bool {
		for key, want := range q.filters {
			got := strings.ToLower(item.Field(key))
			if !strings.Contains(got, strings.ToLower(want)) {
				return false
			}
		}
		return true
	})

	if len(q.sort) > 0 {
		slices.SortStableFunc(matched, func(a, b T) int {
			for _, key := range q.sort {
				c := compareField(a, b, key.Column)
				if key.Dir == grid.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return cmp.Compare(a.RecordID(), b.RecordID())
		})
	}

	offset := (q.page - 1) * q.limit
	return lo.Slice(matched, offset, offset+q.limit), len(matched)
}

func compareField[T api.Record](a, b T, column string) int {
	switch column {
	case "createdAt", "updatedAt":
		return api.ParseTime(rawTime(a, column)).Compare(api.ParseTime(rawTime(b, column)))
	case "id":
		return cmp.Compare(a.RecordID(), b.RecordID())
	}
	return cmp.Compare(strings.ToLower(a.Field(column)), strings.ToLower(b.Field(column)))
}

// rawTime returns the unformatted timestamp; Field renders it for display.
func rawTime(rec api.Record, column string) string {
	switch v := rec.(type) {
	case api.Case:
		return lo.Ternary(column == "createdAt", v.CreatedAt, v.UpdatedAt)
	case api.User:
		return lo.Ternary(column == "createdAt", v.CreatedAt, v.UpdatedAt)
	case api.Activity:
		return lo.Ternary(column == "createdAt", v.CreatedAt, v.UpdatedAt)
	}
	return ""
}

func writeList[T api.Record](w http.ResponseWriter, q listQuery, items []T) {
	page, total := apply(q, items)
	if page == nil {
		page = []T{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, api.ListResult[T]{Items: page, Total: total})
}
