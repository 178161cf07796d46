package devserver

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/odonto/internal/api"
	"github.com/five82/odonto/internal/grid"
	"github.com/five82/odonto/internal/route"
)

func drive[T any](c *grid.Controller[T], cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, inner := range batch {
			drive(c, inner)
		}
		return
	}
	drive(c, c.Update(msg))
}

func TestControllerAgainstDevServer(t *testing.T) {
	server := httptest.NewServer(New(Options{}).Handler())
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL+"/api", api.ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	def := grid.MustDefine(grid.Definition{
		Columns: []grid.Column{
			{ID: "createdAt", Sortable: true, Binding: grid.Field("createdAt")},
			{ID: "title", Sortable: true, Binding: grid.Field("title")},
			{ID: "actions", Binding: grid.Renderer("actions")},
		},
		DefaultSort: []grid.SortKey{{Column: "createdAt", Dir: grid.Desc}},
		PageSize:    10,
		Filters:     []grid.Filter{{Key: "title"}},
	})

	var routes route.Store
	routes.Activate("/admin/cases")
	ctrl, err := grid.New[api.Case](def, api.NewFeed[api.Case](client, api.ResourceCases, def, api.WithRelations("teacher")),
		grid.WithLocation(routes.Location("/admin/cases")),
		grid.WithLogger(log.New(io.Discard, "", 0)),
	)
	if err != nil {
		t.Fatalf("grid.New returned error: %v", err)
	}

	drive(ctrl, ctrl.Init())
	snap := ctrl.Snapshot()
	if snap.Status != grid.StatusReady || snap.Page.Total != 37 || len(snap.Page.Items) != 10 {
		t.Fatalf("initial load status=%v err=%v page=%+v", snap.Status, snap.Err, snap.Page)
	}
	if snap.Page.Items[0].Teacher == nil {
		t.Fatalf("teacher relation not populated")
	}
	if got := routes.URL(); got != "/admin/cases" {
		t.Fatalf("URL = %q, want /admin/cases", got)
	}

	drive(ctrl, ctrl.ToggleSort("title"))
	if got := routes.URL(); got != "/admin/cases?sort=title%2C-createdAt" {
		t.Fatalf("URL after sort = %q", got)
	}

	drive(ctrl, ctrl.SetPage(4))
	snap = ctrl.Snapshot()
	if len(snap.Page.Items) != 7 || ctrl.TotalPages() != 4 {
		t.Fatalf("page 4 = %d items of %d pages, want 7 of 4", len(snap.Page.Items), ctrl.TotalPages())
	}

	victim := snap.Page.Items[0].ID
	drive(ctrl, ctrl.Mutate("registry_deleted", func(ctx context.Context) error {
		return client.Delete(ctx, api.ResourceCases, victim)
	}))
	snap = ctrl.Snapshot()
	if snap.Status != grid.StatusReady || snap.Busy {
		t.Fatalf("after delete status=%v busy=%v", snap.Status, snap.Busy)
	}
	if snap.State.Page != 4 || snap.Page.Total != 36 || len(snap.Page.Items) != 6 {
		t.Fatalf("after delete page=%d total=%d items=%d, want page 4 total 36 items 6",
			snap.State.Page, snap.Page.Total, len(snap.Page.Items))
	}

	cmd, err := ctrl.SetFilter("title", "implant")
	if err != nil {
		t.Fatalf("SetFilter returned error: %v", err)
	}
	drive(ctrl, cmd)
	snap = ctrl.Snapshot()
	if snap.State.Page != 1 || snap.Page.Total == 0 || snap.Page.Total >= 36 {
		t.Fatalf("filtered page=%d total=%d", snap.State.Page, snap.Page.Total)
	}
	if got := routes.Query("/admin/cases").Get("title"); got != "implant" {
		t.Fatalf("URL title filter = %q, want implant", got)
	}
}
