package ui

import (
	"context"
	"strconv"

	"github.com/samber/lo"

	"github.com/five82/odonto/internal/api"
	"github.com/five82/odonto/internal/grid"
)

// Route paths of the admin screens.
const (
	PathCases      = "/admin/cases"
	PathUsers      = "/admin/users"
	PathActivities = "/admin/activities"
)

var casesDefinition = grid.MustDefine(grid.Definition{
	Columns: []grid.Column{
		{ID: "createdAt", Header: "Created", Sortable: true, Width: 16, Binding: grid.Field("createdAt")},
		{ID: "title", Header: "Title", Sortable: true, Width: 30, Binding: grid.Field("title")},
		{ID: "teacher", Header: "Teacher", Width: 16, Binding: grid.Field("teacher")},
		{ID: "shared", Header: "Shared", Sortable: true, Width: 10, Binding: grid.Renderer("shared")},
		{ID: "active", Header: "Status", Sortable: true, Width: 10, Binding: grid.Renderer("active")},
		{ID: "actions", Header: "Actions", Width: 10, Binding: grid.Renderer("actions")},
	},
	DefaultSort: []grid.SortKey{{Column: "title", Dir: grid.Asc}, {Column: "createdAt", Dir: grid.Desc}},
	PageSize:    10,
	Filters: []grid.Filter{
		{Key: "title", Label: "Title"},
		{Key: "active", Label: "Active"},
	},
})

var usersDefinition = grid.MustDefine(grid.Definition{
	Columns: []grid.Column{
		{ID: "name", Header: "Name", Sortable: true, Width: 22, Binding: grid.Field("name")},
		{ID: "email", Header: "Email", Width: 26, Binding: grid.Field("email")},
		{ID: "manager", Header: "Manager", Sortable: true, Width: 10, Binding: grid.Renderer("manager")},
		{ID: "active", Header: "Status", Sortable: true, Width: 10, Binding: grid.Renderer("active")},
		{ID: "actions", Header: "Actions", Width: 8, Binding: grid.Renderer("actions")},
	},
	DefaultSort: []grid.SortKey{{Column: "name", Dir: grid.Asc}},
	PageSize:    10,
	Filters: []grid.Filter{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
	},
})

var activitiesDefinition = grid.MustDefine(grid.Definition{
	Columns: []grid.Column{
		{ID: "createdAt", Header: "Created", Sortable: true, Width: 16, Binding: grid.Field("createdAt")},
		{ID: "title", Header: "Title", Sortable: true, Width: 28, Binding: grid.Field("title")},
		{ID: "case", Header: "Case", Width: 24, Binding: grid.Field("case")},
		{ID: "active", Header: "Status", Sortable: true, Width: 10, Binding: grid.Renderer("active")},
		{ID: "actions", Header: "Actions", Width: 10, Binding: grid.Renderer("actions")},
	},
	DefaultSort: []grid.SortKey{{Column: "createdAt", Dir: grid.Desc}},
	PageSize:    10,
	Filters: []grid.Filter{
		{Key: "title", Label: "Title"},
	},
})

// tab opens one screen on demand.
type tab struct {
	title string
	path  string
	open  func(deps screenDeps) (screen, error)
}

func defaultTabs(client *api.Client, pageSize int) []tab {
	return []tab{
		casesTab(client, pageSize),
		usersTab(client, pageSize),
		activitiesTab(client, pageSize),
	}
}

func casesTab(client *api.Client, pageSize int) tab {
	return tab{title: "Cases", path: PathCases, open: func(deps screenDeps) (screen, error) {
		def := withPageSize(casesDefinition, pageSize)
		spec := screenSpec[api.Case]{
			title: "Cases",
			path:  PathCases,
			def:   def,
			renderers: map[string]cellRenderer[api.Case]{
				"shared":  func(c api.Case) string { return yesNo(c.Shared) },
				"active":  func(c api.Case) string { return activeLabel(c.Active) },
				"actions": func(c api.Case) string { return actionsLabel(c.ID, true) },
			},
			remove: func(ctx context.Context, id int64) error {
				return client.Delete(ctx, api.ResourceCases, id)
			},
		}
		feed := api.NewFeed[api.Case](client, api.ResourceCases, def, api.WithRelations("teacher"))
		return newListScreen(spec, feed, deps)
	}}
}

func usersTab(client *api.Client, pageSize int) tab {
	return tab{title: "Users", path: PathUsers, open: func(deps screenDeps) (screen, error) {
		def := withPageSize(usersDefinition, pageSize)
		spec := screenSpec[api.User]{
			title: "Users",
			path:  PathUsers,
			def:   def,
			renderers: map[string]cellRenderer[api.User]{
				"manager": func(u api.User) string { return yesNo(u.Manager) },
				"active":  func(u api.User) string { return activeLabel(u.Active) },
				"actions": func(u api.User) string { return actionsLabel(u.ID, false) },
			},
		}
		feed := api.NewFeed[api.User](client, api.ResourceUsers, def)
		return newListScreen(spec, feed, deps)
	}}
}

func activitiesTab(client *api.Client, pageSize int) tab {
	return tab{title: "Activities", path: PathActivities, open: func(deps screenDeps) (screen, error) {
		def := withPageSize(activitiesDefinition, pageSize)
		spec := screenSpec[api.Activity]{
			title: "Activities",
			path:  PathActivities,
			def:   def,
			renderers: map[string]cellRenderer[api.Activity]{
				"active":  func(a api.Activity) string { return activeLabel(a.Active) },
				"actions": func(a api.Activity) string { return actionsLabel(a.ID, true) },
			},
			remove: func(ctx context.Context, id int64) error {
				return client.Delete(ctx, api.ResourceActivities, id)
			},
		}
		feed := api.NewFeed[api.Activity](client, api.ResourceActivities, def)
		return newListScreen(spec, feed, deps)
	}}
}

// withPageSize overrides the screen's page size when n is in range.
func withPageSize(def grid.Definition, n int) grid.Definition {
	if n >= 1 && n <= grid.MaxPageSize {
		def.PageSize = n
	}
	return def
}

func yesNo(v bool) string {
	return lo.Ternary(v, "Yes", "No")
}

func activeLabel(v bool) string {
	return lo.Ternary(v, "Active", "Inactive")
}

func actionsLabel(id int64, deletable bool) string {
	label := "#" + strconv.FormatInt(id, 10)
	if deletable {
		label += " D"
	}
	return label
}
