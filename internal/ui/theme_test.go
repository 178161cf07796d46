package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%s) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesDefineEveryBadge(t *testing.T) {
	badges := []string{"active", "inactive", "shared", "manager", "loading", "failed"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, badge := range badges {
			if th.BadgeColors[badge] == "" {
				t.Fatalf("theme %s has no color for badge %q", name, badge)
			}
		}
	}
}

func TestBadgeStyleFallsBackToMuted(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles()

	got := styles.BadgeStyle("unknown").GetBackground()
	if got != lipgloss.Color(th.Muted) {
		t.Fatalf("BadgeStyle(unknown) background = %v, want %v", got, th.Muted)
	}
	got = styles.BadgeStyle("failed").GetBackground()
	if got != lipgloss.Color(th.BadgeColors["failed"]) {
		t.Fatalf("BadgeStyle(failed) background = %v, want %v", got, th.BadgeColors["failed"])
	}
}
