package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops the URL.
	LayoutCompactWidth = 90

	// LayoutWideWidth is the threshold above which columns get extra room.
	LayoutWideWidth = 140
)

// Vertical space taken by chrome around the record table.
const (
	headerLines = 2 // tabs + url
	statusLines = 1 // page / busy / error
	pagerLines  = 1
	promptLines = 1 // filter input, delete prompt or toast
	footerLines = 1

	chromeLines = headerLines + statusLines + pagerLines + promptLines + footerLines
)

// minTableHeight keeps the table usable on tiny terminals.
const minTableHeight = 3
