// Package app is the composition root of the odonto console.
//
// Run loads the config, points the standard logger at the log file (the
// terminal belongs to Bubble Tea), checks that the API answers, rebuilds the
// URL state saved in prefs and then blocks in ui.Run until the user quits.
//
// Startup fails when the config cannot be parsed or the API is unreachable
// within a few seconds. Everything after that is reported inside the UI.
//
// Route precedence on startup:
//
//  1. the -open flag, when set
//  2. the screen that was active on the last exit
//  3. the first tab (Cases)
package app
