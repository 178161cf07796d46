package grid

import (
	"context"
	"log"
	"maps"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Status is the controller's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
	StatusTerminal
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Location is the slice of the process-wide URL a grid may read and replace.
type Location interface {
	Query() url.Values
	Replace(url.Values)
}

// Feedback receives user-facing mutation outcomes.
type Feedback interface {
	Success(kind string) tea.Cmd
	Failure(err error) tea.Cmd
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	ctx      context.Context
	location Location
	feedback Feedback
	logger   *log.Logger
}

// WithContext sets the parent context. Cancelling it aborts in-flight work
// without tearing the controller down; call Close for that.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLocation binds the controller to a URL location. The initial state is
// decoded from it and every change is written back.
func WithLocation(loc Location) Option {
	return func(o *options) { o.location = loc }
}

// WithFeedback sets where mutation outcomes are reported.
func WithFeedback(fb Feedback) Option {
	return func(o *options) { o.feedback = fb }
}

// WithLogger overrides the logger; the default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Change describes a requested state change. Nil fields are left alone.
type Change struct {
	Page     *int
	PageSize *int
	// Sort replaces the sort order; a non-nil empty slice restores the default.
	Sort []SortKey
	// Filters replaces the whole filter set; an empty map clears it.
	Filters map[string]string
}

// Snapshot is what a screen renders.
type Snapshot[T any] struct {
	Status Status
	Busy   bool
	State  State
	Page   *Page[T] // last successful page, kept while loading or failed
	Err    error
}

// Controller drives one grid: it owns the state, issues fetches as Bubble Tea
// commands and accepts only the result of the most recent one.
//
// A Controller is not safe for concurrent use. Every method must be called
// from the Bubble Tea Update loop; the commands it returns only read
// immutable fields.
type Controller[T any] struct {
	id       uuid.UUID
	def      Definition
	feed     Feed[T]
	location Location
	feedback Feedback
	logger   *log.Logger

	ctx    context.Context
	stop   context.CancelFunc
	cancel context.CancelFunc // in-flight fetch

	status  Status
	state   State
	token   Token
	page    *Page[T]
	err     error
	pending int // mutations in flight
}

// New builds a controller for def reading from feed.
func New[T any](def Definition, feed Feed[T], opts ...Option) (*Controller[T], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, ValidationError{Field: "feed", Msg: "feed is required"}
	}

	o := options{ctx: context.Background(), logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}
	if o.logger == nil {
		o.logger = log.Default()
	}

	state := def.DefaultState()
	if o.location != nil {
		state = DecodeURL(o.location.Query(), def)
	}

	ctx, stop := context.WithCancel(o.ctx)
	return &Controller[T]{
		id:       uuid.New(),
		def:      def,
		feed:     feed,
		location: o.location,
		feedback: o.feedback,
		logger:   o.logger,
		ctx:      ctx,
		stop:     stop,
		status:   StatusIdle,
		state:    state,
	}, nil
}

// ID identifies the controller in its messages.
func (c *Controller[T]) ID() uuid.UUID { return c.id }

// Definition returns the grid definition.
func (c *Controller[T]) Definition() Definition { return c.def }

// State returns a copy of the current state.
func (c *Controller[T]) State() State { return c.state.Clone() }

// Status returns the lifecycle state.
func (c *Controller[T]) Status() Status { return c.status }

// Init issues the first fetch. It only rewrites the location when the decoded
// state does not encode back to what was read.
func (c *Controller[T]) Init() tea.Cmd {
	if c.status != StatusIdle {
		return nil
	}
	return c.dispatch(c.state)
}

// RequestChange applies ch and refetches. Changing page size, sort or filters
// moves back to page 1 unless ch also sets Page. An unknown filter key or an
// invalid sort is rejected without touching the current state.
func (c *Controller[T]) RequestChange(ch Change) (tea.Cmd, error) {
	if c.status == StatusTerminal {
		return nil, nil
	}

	next := c.state.Clone()
	reset := false

	if ch.PageSize != nil {
		size := *ch.PageSize
		if size < 1 || size > MaxPageSize {
			return nil, ValidationError{Field: "pageSize", Msg: "out of range"}
		}
		if size != next.PageSize {
			next.PageSize = size
			reset = true
		}
	}

	if ch.Sort != nil {
		keys := ch.Sort
		if len(keys) == 0 {
			keys = c.def.DefaultSort
		}
		if err := c.def.checkSort(keys); err != nil {
			return nil, err
		}
		if !sortEqual(keys, next.Sort) {
			next.Sort = cloneSort(keys)
			reset = true
		}
	}

	if ch.Filters != nil {
		for key := range ch.Filters {
			if !c.def.HasFilter(key) {
				return nil, ValidationError{Field: "filters", Msg: "unknown filter " + key}
			}
		}
		filters := normalizeFilters(ch.Filters)
		if !maps.Equal(filters, next.Filters) {
			next.Filters = filters
			reset = true
		}
	}

	if reset {
		next.Page = 1
	}
	if ch.Page != nil {
		next.Page = max(*ch.Page, 1)
	}
	return c.dispatch(next), nil
}

// SetPage moves to page n, clamped to at least 1.
func (c *Controller[T]) SetPage(n int) tea.Cmd {
	cmd, _ := c.RequestChange(Change{Page: &n})
	return cmd
}

// NextPage moves forward unless the last known page is already shown.
func (c *Controller[T]) NextPage() tea.Cmd {
	if c.page != nil && c.state.Page >= c.TotalPages() {
		return nil
	}
	return c.SetPage(c.state.Page + 1)
}

// PrevPage moves back unless on the first page.
func (c *Controller[T]) PrevPage() tea.Cmd {
	if c.state.Page <= 1 {
		return nil
	}
	return c.SetPage(c.state.Page - 1)
}

// ToggleSort makes column the primary sort key. A column that is already
// primary flips direction; any other column starts ascending. The default
// sort keys follow as tie breakers. Unsortable columns are ignored.
func (c *Controller[T]) ToggleSort(column string) tea.Cmd {
	if !c.def.sortable(column) {
		return nil
	}
	dir := Asc
	if len(c.state.Sort) > 0 && c.state.Sort[0].Column == column {
		dir = c.state.Sort[0].Dir.Flip()
	}
	keys := []SortKey{{Column: column, Dir: dir}}
	for _, key := range c.def.DefaultSort {
		if key.Column != column {
			keys = append(keys, key)
		}
	}
	cmd, _ := c.RequestChange(Change{Sort: keys})
	return cmd
}

// SetFilter sets one filter, or clears it when value is blank.
func (c *Controller[T]) SetFilter(key, value string) (tea.Cmd, error) {
	filters := maps.Clone(c.state.Filters)
	if filters == nil {
		filters = map[string]string{}
	}
	filters[key] = value
	return c.RequestChange(Change{Filters: filters})
}

// ClearFilters removes every filter.
func (c *Controller[T]) ClearFilters() tea.Cmd {
	cmd, _ := c.RequestChange(Change{Filters: map[string]string{}})
	return cmd
}

// Refresh refetches the current state.
func (c *Controller[T]) Refresh() tea.Cmd {
	return c.dispatch(c.state)
}

// Mutate runs fn outside the Update loop. On success the outcome is reported
// to the feedback channel and the current state is refetched; on failure only
// the error is reported.
func (c *Controller[T]) Mutate(kind string, fn func(ctx context.Context) error) tea.Cmd {
	if c.status == StatusTerminal || fn == nil {
		return nil
	}
	c.pending++
	parent, id := c.ctx, c.id
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		defer cancel()
		return MutationMsg{grid: id, kind: kind, err: fn(ctx)}
	}
}

// Update consumes messages addressed to this controller. Results of
// superseded fetches and anything arriving after Close are dropped.
func (c *Controller[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ResultMsg[T]:
		if msg.grid != c.id {
			return nil
		}
		c.handleResult(msg)
	case MutationMsg:
		if msg.grid != c.id {
			return nil
		}
		return c.handleMutation(msg)
	}
	return nil
}

// Close tears the controller down and cancels everything in flight. No
// further transitions or location writes happen afterwards.
func (c *Controller[T]) Close() {
	if c.status == StatusTerminal {
		return
	}
	c.status = StatusTerminal
	c.token = Token{}
	c.cancel = nil
	c.stop()
}

// Snapshot returns the render view of the controller.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	snap := Snapshot[T]{
		Status: c.status,
		Busy:   c.status == StatusLoading || c.pending > 0,
		State:  c.state.Clone(),
		Err:    c.err,
	}
	if c.page != nil {
		page := *c.page
		snap.Page = &page
	}
	return snap
}

// TotalPages returns the page count for the last received total, at least 1.
func (c *Controller[T]) TotalPages() int {
	if c.page == nil || c.state.PageSize < 1 {
		return 1
	}
	return max((c.page.Total+c.state.PageSize-1)/c.state.PageSize, 1)
}

func (c *Controller[T]) dispatch(next State) tea.Cmd {
	if c.status == StatusTerminal {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}

	c.state = next.Clone()
	c.token = newToken()
	c.status = StatusLoading
	c.syncLocation()

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	return fetchCmd(ctx, cancel, c.feed, c.id, c.token, c.state.Clone())
}

func fetchCmd[T any](ctx context.Context, cancel context.CancelFunc, feed Feed[T], id uuid.UUID, token Token, s State) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		page, err := feed.Fetch(ctx, s)
		if err != nil && !IsFetch(err) {
			err = FetchError{State: s, Err: err}
		}
		return ResultMsg[T]{grid: id, token: token, page: page, err: err}
	}
}

func (c *Controller[T]) handleResult(msg ResultMsg[T]) {
	if c.status == StatusTerminal || c.token.IsZero() || msg.token != c.token {
		return
	}
	c.cancel = nil

	if msg.err != nil {
		c.status = StatusFailed
		c.err = msg.err
		c.logger.Printf("[GRID] grid=%s status=failed query=%q err=%v",
			c.id, QueryValues(c.state, c.def, DefaultConvention).Encode(), msg.err)
		return
	}

	page := msg.page
	if len(page.Items) > c.state.PageSize {
		c.logger.Printf("[GRID] grid=%s msg=\"oversize page truncated\" items=%d page_size=%d",
			c.id, len(page.Items), c.state.PageSize)
		page.Items = page.Items[:c.state.PageSize]
	}
	page.Total = max(page.Total, 0)
	page.State = c.state.Clone()

	c.page = &page
	c.err = nil
	c.status = StatusReady
}

func (c *Controller[T]) handleMutation(msg MutationMsg) tea.Cmd {
	if c.status == StatusTerminal {
		return nil
	}
	c.pending = max(c.pending-1, 0)

	if msg.err != nil {
		c.logger.Printf("[GRID] grid=%s mutation=%s err=%v", c.id, msg.kind, msg.err)
		if c.feedback == nil {
			return nil
		}
		return c.feedback.Failure(msg.err)
	}

	var cmds []tea.Cmd
	if c.feedback != nil {
		cmds = append(cmds, c.feedback.Success(msg.kind))
	}
	cmds = append(cmds, c.Refresh())
	return tea.Batch(cmds...)
}

func (c *Controller[T]) syncLocation() {
	if c.location == nil {
		return
	}
	encoded := EncodeURL(c.state, c.def)
	if valuesEqual(encoded, c.location.Query()) {
		return
	}
	c.location.Replace(encoded)
}
