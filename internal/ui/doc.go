// Package ui is the terminal console: one tab per admin listing (cases,
// users, activities), each a table driven by a grid.Controller.
//
// # Structure
//
//   - app.go: root Model, tab switching, theme cycling, prefs persistence
//   - screen.go: listScreen[T], the generic table screen
//   - screens.go: column sets, default sorts and filters of each listing
//   - header.go: tab bar, URL line, prompt/toast line
//   - help.go, keys.go: key bindings and the help overlay
//
// # Screen lifecycle
//
// Switching tabs builds the new screen, closes the old controller, then
// activates the new route, so a closing grid can never write the URL of its
// successor. The new screen's controller decodes its state from the route
// store, which keeps the last query of every path for the whole session.
//
// # Key Bindings
//
//   - tab / shift+tab: next / previous screen
//   - 1-9: sort by column (again flips direction)
//   - ] / [: next / previous page, 0: first page
//   - /: edit the current filter, f: change filter field, x: clear filters
//   - r: refresh
//   - D then y: delete the selected record (cases and activities)
//   - T: cycle theme, h/?: help, e or ctrl+c: quit
package ui
