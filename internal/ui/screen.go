package ui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/five82/odonto/internal/api"
	"github.com/five82/odonto/internal/feedback"
	"github.com/five82/odonto/internal/grid"
	"github.com/five82/odonto/internal/route"
)

// screen is one tab of the console.
type screen interface {
	Path() string
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	HandleKey(msg tea.KeyMsg) tea.Cmd
	// Capturing reports whether keys belong to an open prompt.
	Capturing() bool
	SetSize(width, tableHeight int)
	SetTheme(theme Theme)
	View(theme Theme) string
	Prompt(styles Styles) string
	Close()
}

// screenDeps is what every screen receives from the root model.
type screenDeps struct {
	ctx      context.Context
	routes   *route.Store
	feedback grid.Feedback
	logger   *log.Logger
}

// cellRenderer produces the text of a Renderer-bound column.
type cellRenderer[T any] func(item T) string

// screenSpec describes one record listing.
type screenSpec[T api.Record] struct {
	title     string
	path      string
	def       grid.Definition
	renderers map[string]cellRenderer[T]
	// remove deletes a record by id; nil when the screen has no delete.
	remove func(ctx context.Context, id int64) error
}

// listScreen renders a grid.Controller as a table with paging, sorting,
// filtering and delete.
type listScreen[T api.Record] struct {
	spec   screenSpec[T]
	ctrl   *grid.Controller[T]
	keys   keyMap
	logger *log.Logger

	table   table.Model
	spinner spinner.Model
	pager   paginator.Model
	input   textinput.Model

	width     int
	filtering bool
	filterIdx int
	confirm   *T
}

func newListScreen[T api.Record](spec screenSpec[T], feed grid.Feed[T], deps screenDeps) (*listScreen[T], error) {
	if deps.routes == nil {
		return nil, fmt.Errorf("open %s: route store is required", spec.path)
	}
	logger := deps.logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	opts := []grid.Option{
		grid.WithContext(deps.ctx),
		grid.WithLocation(deps.routes.Location(spec.path)),
		grid.WithLogger(logger),
	}
	if deps.feedback != nil {
		opts = append(opts, grid.WithFeedback(deps.feedback))
	}
	ctrl, err := grid.New(spec.def, feed, opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", spec.path, err)
	}

	keys := DefaultKeyMap()
	disabled := key.NewBinding(key.WithDisabled())
	tbl := table.New(
		table.WithFocused(true),
		table.WithKeyMap(table.KeyMap{
			LineUp:       keys.Up,
			LineDown:     keys.Down,
			GotoTop:      keys.Top,
			GotoBottom:   keys.Bottom,
			PageUp:       disabled,
			PageDown:     disabled,
			HalfPageUp:   disabled,
			HalfPageDown: disabled,
		}),
	)

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = "●"
	pager.InactiveDot = "○"

	input := textinput.New()
	input.CharLimit = 120

	s := &listScreen[T]{
		spec:    spec,
		ctrl:    ctrl,
		keys:    keys,
		logger:  logger,
		table:   tbl,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		pager:   pager,
		input:   input,
	}
	s.sync()
	return s, nil
}

func (s *listScreen[T]) Path() string  { return s.spec.path }
func (s *listScreen[T]) Title() string { return s.spec.title }

func (s *listScreen[T]) Init() tea.Cmd {
	return tea.Batch(s.ctrl.Init(), s.spinner.Tick)
}

func (s *listScreen[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return s.HandleKey(msg)
	}
	cmd := s.ctrl.Update(msg)
	s.sync()
	return cmd
}

func (s *listScreen[T]) Capturing() bool {
	return s.filtering || s.confirm != nil
}

func (s *listScreen[T]) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if s.confirm != nil {
		return s.handleConfirmKey(msg)
	}
	if s.filtering {
		return s.handleFilterKey(msg)
	}

	var cmd tea.Cmd
	switch k := s.keys; {
	case key.Matches(msg, k.NextPage):
		cmd = s.ctrl.NextPage()
	case key.Matches(msg, k.PrevPage):
		cmd = s.ctrl.PrevPage()
	case key.Matches(msg, k.FirstPage):
		cmd = s.ctrl.SetPage(1)
	case key.Matches(msg, k.Sort):
		cmd = s.toggleSort(msg.String())
	case key.Matches(msg, k.Search):
		return s.startFilter()
	case key.Matches(msg, k.CycleFilter):
		if n := len(s.spec.def.Filters); n > 0 {
			s.filterIdx = (s.filterIdx + 1) % n
		}
		return nil
	case key.Matches(msg, k.ClearFilters):
		cmd = s.ctrl.ClearFilters()
	case key.Matches(msg, k.Refresh):
		cmd = s.ctrl.Refresh()
	case key.Matches(msg, k.Delete):
		if s.spec.remove != nil {
			s.confirm = s.selected()
		}
		return nil
	default:
		s.table, cmd = s.table.Update(msg)
		return cmd
	}
	s.sync()
	return cmd
}

// toggleSort maps a digit key to the column at that position.
func (s *listScreen[T]) toggleSort(digit string) tea.Cmd {
	if len(digit) != 1 {
		return nil
	}
	idx := int(digit[0] - '1')
	cols := s.spec.def.Columns
	if idx < 0 || idx >= len(cols) {
		return nil
	}
	return s.ctrl.ToggleSort(cols[idx].ID)
}

func (s *listScreen[T]) currentFilter() (grid.Filter, bool) {
	filters := s.spec.def.Filters
	if len(filters) == 0 {
		return grid.Filter{}, false
	}
	return filters[s.filterIdx%len(filters)], true
}

func (s *listScreen[T]) startFilter() tea.Cmd {
	f, ok := s.currentFilter()
	if !ok {
		return nil
	}
	s.filtering = true
	s.input.Prompt = filterLabel(f) + ": "
	s.input.SetValue(s.ctrl.State().Filter(f.Key))
	s.input.CursorEnd()
	return s.input.Focus()
}

func (s *listScreen[T]) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Confirm):
		s.filtering = false
		s.input.Blur()
		f, _ := s.currentFilter()
		cmd, err := s.ctrl.SetFilter(f.Key, s.input.Value())
		if err != nil {
			s.logger.Printf("[UI] screen=%s msg=\"filter rejected\" key=%s err=%v", s.spec.path, f.Key, err)
			return nil
		}
		s.sync()
		return cmd
	case key.Matches(msg, s.keys.Cancel):
		s.filtering = false
		s.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *listScreen[T]) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	target := *s.confirm
	s.confirm = nil
	if !key.Matches(msg, s.keys.Accept) {
		return nil
	}
	id, remove := target.RecordID(), s.spec.remove
	cmd := s.ctrl.Mutate(feedback.RecordDeleted, func(ctx context.Context) error {
		return remove(ctx, id)
	})
	s.sync()
	return cmd
}

// selected returns the record under the table cursor.
func (s *listScreen[T]) selected() *T {
	snap := s.ctrl.Snapshot()
	if snap.Page == nil {
		return nil
	}
	i := s.table.Cursor()
	if i < 0 || i >= len(snap.Page.Items) {
		return nil
	}
	item := snap.Page.Items[i]
	return &item
}

func (s *listScreen[T]) SetSize(width, tableHeight int) {
	s.width = width
	s.table.SetWidth(width)
	s.table.SetHeight(max(tableHeight, minTableHeight))
	s.sync()
}

func (s *listScreen[T]) SetTheme(theme Theme) {
	s.table.SetStyles(theme.TableStyles())
	s.spinner.Style = theme.Styles().AccentText
}

func (s *listScreen[T]) Close() {
	s.ctrl.Close()
}

// sync copies the controller snapshot into the widgets.
func (s *listScreen[T]) sync() {
	snap := s.ctrl.Snapshot()

	s.table.SetColumns(s.columns(snap.State))
	var rows []table.Row
	if snap.Page != nil {
		rows = lo.Map(snap.Page.Items, func(item T, _ int) table.Row { return s.row(item) })
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(max(len(rows)-1, 0))
	}

	total := 0
	if snap.Page != nil {
		total = snap.Page.Total
	}
	s.pager.PerPage = max(snap.State.PageSize, 1)
	s.pager.SetTotalPages(total)
	s.pager.TotalPages = max(s.pager.TotalPages, 1)
	s.pager.Page = snap.State.Page - 1
	s.pager.Type = paginator.Dots
	if s.pager.TotalPages > 12 {
		s.pager.Type = paginator.Arabic
	}
}

func (s *listScreen[T]) columns(state grid.State) []table.Column {
	cols := s.spec.def.Columns
	widths := lo.Map(cols, func(c grid.Column, _ int) int { return columnWidth(c) })

	// Wide terminals give the spare room to the widest column.
	if s.width >= LayoutWideWidth {
		used := lo.Sum(widths) + 2*len(widths)
		if spare := s.width - used; spare > 0 {
			widest := 0
			for i, w := range widths {
				if w > widths[widest] {
					widest = i
				}
			}
			widths[widest] += spare
		}
	}

	out := make([]table.Column, len(cols))
	for i, col := range cols {
		title := col.Header
		if col.Sortable {
			title = fmt.Sprintf("%d %s%s", i+1, col.Header, sortMarker(state.Sort, col.ID))
		}
		out[i] = table.Column{Title: title, Width: widths[i]}
	}
	return out
}

func (s *listScreen[T]) row(item T) table.Row {
	cols := s.spec.def.Columns
	row := make(table.Row, len(cols))
	for i, col := range cols {
		row[i] = truncate(s.cell(item, col), columnWidth(col))
	}
	return row
}

func (s *listScreen[T]) cell(item T, col grid.Column) string {
	switch col.Binding.Kind {
	case grid.BindRenderer:
		if render, ok := s.spec.renderers[col.Binding.Name]; ok {
			return render(item)
		}
		return ""
	default:
		return item.Field(col.Binding.Name)
	}
}

func (s *listScreen[T]) View(theme Theme) string {
	styles := theme.Styles()
	snap := s.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(s.statusLine(snap, styles))
	b.WriteString("\n")
	b.WriteString(s.table.View())
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(s.pager.View()))
	return b.String()
}

// statusLine renders busy state, page position, active filters and the last
// fetch error. The previous page stays in the table while loading or failed.
func (s *listScreen[T]) statusLine(snap grid.Snapshot[T], styles Styles) string {
	var parts []string
	if snap.Busy {
		parts = append(parts, s.spinner.View()+styles.BadgeStyle("loading").Render("Loading"))
	}

	if snap.Page != nil {
		parts = append(parts, styles.Text.Render(fmt.Sprintf("Page %d/%d · %d records",
			snap.State.Page, s.ctrl.TotalPages(), snap.Page.Total)))
		if snap.Page.Total == 0 && !snap.Busy {
			parts = append(parts, styles.MutedText.Render("No records"))
		}
	}

	for _, f := range s.spec.def.Filters {
		if value := snap.State.Filter(f.Key); value != "" {
			parts = append(parts, styles.InfoText.Render(fmt.Sprintf("%s: %s", filterLabel(f), value)))
		}
	}

	if snap.Status == grid.StatusFailed && snap.Err != nil {
		parts = append(parts, styles.DangerText.Render("Failed: "+truncate(snap.Err.Error(), 80)))
	}
	return strings.Join(parts, styles.FaintText.Render(" │ "))
}

// Prompt returns the filter input or delete confirmation, or "" when idle.
func (s *listScreen[T]) Prompt(styles Styles) string {
	switch {
	case s.confirm != nil:
		target := *s.confirm
		label := target.Field("title")
		if label == "" {
			label = target.Field("name")
		}
		return styles.WarningText.Render(fmt.Sprintf("Delete #%d %s? y to confirm, any other key to cancel",
			target.RecordID(), truncate(label, 40)))
	case s.filtering:
		return s.input.View()
	}
	if f, ok := s.currentFilter(); ok {
		return styles.FaintText.Render(fmt.Sprintf("/ to filter by %s, f to change field", strings.ToLower(filterLabel(f))))
	}
	return ""
}

func filterLabel(f grid.Filter) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

func columnWidth(c grid.Column) int {
	if c.Width > 0 {
		return c.Width
	}
	return 12
}

// sortMarker shows the direction of column within the sort order.
func sortMarker(keys []grid.SortKey, column string) string {
	k, found := lo.Find(keys, func(k grid.SortKey) bool { return k.Column == column })
	if !found {
		return ""
	}
	return lo.Ternary(k.Dir == grid.Desc, " ▼", " ▲")
}
