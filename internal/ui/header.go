package ui

// renderHeader renders the tab bar and the current URL.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("odonto", styles.Logo)}
	for i, t := range m.tabs {
		label := " " + t.title + " "
		if i == m.active {
			parts = append(parts, m.theme.Styles().Selected.Bold(true).Render(label))
			continue
		}
		parts = append(parts, bg.Render(label, styles.MutedText))
	}
	parts = append(parts, bg.Render("T", styles.AccentText)+bg.Sep(":")+bg.Render(m.theme.Name, styles.FaintText))
	tabs := styles.Header.Width(m.width).Render(bg.Join(parts, sep))

	url := m.routes.URL()
	limit := m.width - 8
	if m.width < LayoutCompactWidth {
		limit = m.width / 2
	}
	line := bg.Render("url", styles.FaintText) + bg.Space() + bg.Render(truncateMiddle(url, limit), styles.InfoText)
	urlLine := styles.Header.Width(m.width).Render(line)

	return tabs + "\n" + urlLine
}

// renderPrompt shows the screen's open prompt, else the latest toast, else a
// hint for the screen.
func (m Model) renderPrompt() string {
	styles := m.theme.Styles()
	if m.current.Capturing() {
		return m.current.Prompt(styles)
	}
	if msg, ok := m.toast.Current(); ok {
		if msg.Failed() {
			return styles.DangerText.Render("✗ " + truncate(msg.Text, max(m.width-2, 10)))
		}
		return styles.SuccessText.Render("✓ " + msg.Text)
	}
	return m.current.Prompt(styles)
}
