// Package route holds the console's URL: which admin route is active and the
// query string last written for each route.
//
// Grid controllers see it through grid.Location, scoped to their own path.
// A location whose route is no longer active silently drops writes, which
// keeps a closing screen from clobbering the screen that replaced it.
//
// The store is safe for concurrent use; the UI writes it from the Bubble Tea
// loop while the app reads it back when saving preferences on exit.
package route
