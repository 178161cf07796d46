// Package grid implements the listing engine shared by every admin screen.
//
// # Overview
//
// A screen declares its columns, default sort, page size and filters once in
// a Definition. A Controller then keeps three things in step: the State the
// user is looking at, the URL query that makes that state shareable, and the
// query sent to the data source. Screens only render Snapshots and forward
// key presses as changes.
//
// # Core Types
//
//   - State: page, page size, sort keys and filters. Values, never shared.
//   - Definition: columns (with a Field or Renderer binding), default sort,
//     page size and the allowed filter keys. Validate catches setup errors.
//   - Feed: produces a Page for a State. The HTTP implementation lives in
//     package api.
//   - Controller: the state machine below.
//
// # URL Encoding
//
// EncodeURL omits everything that equals the definition's defaults, so a grid
// in its default state has an empty query:
//
//	/admin/cases                      page 1, default size, default sort
//	/admin/cases?page=3&sort=-title   page 3, title descending
//	/admin/cases?title=implant        filtered, back on page 1
//
// DecodeURL is total: a hand-edited URL with a bad page, an unknown column or
// a stray parameter decodes to the closest valid state instead of an error.
// For any well-formed state s, DecodeURL(EncodeURL(s, d), d) equals s.
//
// QueryValues renders the data source form, which always spells out page,
// limit and sort.
//
// # Controller Lifecycle
//
//	Idle ──Init──> Loading ──result──> Ready
//	                  ^  └────error───> Failed
//	                  └── RequestChange / Refresh (from any live state)
//	any ──Close──> Terminal
//
// Every fetch runs as a tea.Cmd and reports back with a ResultMsg tagged with
// a fresh Token. Dispatching a new fetch cancels the previous one's context and
// replaces the token, so a late answer to an older request is dropped in
// Update. Only the last request wins.
//
// Close cancels the controller context. Results and mutation outcomes that
// arrive afterwards are ignored and the location is never written again.
//
// # Mutations
//
// Mutate runs a write (for example a delete) off the loop and keeps the grid
// busy until it answers. Success reports to the Feedback channel and
// refetches the current state unchanged; failure only reports. Deleting the
// last row of the last page leaves the page number alone; the refetch simply
// returns an empty page.
//
// # Concurrency
//
// Controllers hold no locks. All methods run inside the Bubble Tea Update
// loop; the commands they return touch only values captured at dispatch time.
package grid
