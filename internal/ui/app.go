package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/odonto/internal/api"
	"github.com/five82/odonto/internal/feedback"
	"github.com/five82/odonto/internal/prefs"
	"github.com/five82/odonto/internal/route"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *api.Client
	Routes    *route.Store
	PageSize  int
	ThemeName string
	PrefsPath string
	ToastTTL  time.Duration
	Logger    *log.Logger

	tabs []tab
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	routes    *route.Store
	logger    *log.Logger
	prefsPath string

	// Screens
	tabs    []tab
	active  int
	current screen

	// Mutation outcomes
	feedback *feedback.Channel
	toast    feedback.Toast

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	showHelp bool
	width    int
	height   int
	ready    bool
}

// New creates the root model and opens the screen matching the active route.
func New(opts Options) (Model, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	routes := opts.Routes
	if routes == nil {
		routes = &route.Store{}
	}

	tabs := opts.tabs
	if len(tabs) == 0 {
		if opts.Client == nil {
			return Model{}, errors.New("api client is required")
		}
		tabs = defaultTabs(opts.Client, opts.PageSize)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	m := Model{
		ctx:       ctx,
		routes:    routes,
		logger:    logger,
		prefsPath: opts.PrefsPath,
		tabs:      tabs,
		feedback:  feedback.NewChannel(),
		toast:     feedback.NewToast(opts.ToastTTL),
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	m.applyHelpStyles()

	start := 0
	for i, t := range tabs {
		if t.path == routes.Current() {
			start = i
			break
		}
	}
	if err := m.open(start); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.current.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.current.SetSize(m.width, m.tableHeight())
		return m, nil

	case feedback.Msg:
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Update(msg)
		return m, cmd
	}

	var toastCmd tea.Cmd
	m.toast, toastCmd = m.toast.Update(msg)
	return m, tea.Batch(toastCmd, m.current.Update(msg))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.current.View(m.theme))
	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// handleKey processes keyboard input. Open prompts on the screen get every
// key except ctrl+c.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.Close()
		return m, tea.Quit
	}
	if m.current.Capturing() {
		return m, m.current.HandleKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.current.SetTheme(m.theme)
		m.applyHelpStyles()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		cmd := m.switchTo((m.active + 1) % len(m.tabs))
		return m, cmd

	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.switchTo((m.active - 1 + len(m.tabs)) % len(m.tabs))
		return m, cmd
	}

	return m, m.current.HandleKey(msg)
}

// switchTo replaces the current screen. The old controller is closed before
// the new route becomes active.
func (m *Model) switchTo(i int) tea.Cmd {
	if i == m.active {
		return nil
	}
	if err := m.open(i); err != nil {
		m.logger.Printf("[UI] msg=\"open screen failed\" path=%s err=%v", m.tabs[i].path, err)
		return m.feedback.Failure(err)
	}
	return m.current.Init()
}

func (m *Model) open(i int) error {
	t := m.tabs[i]
	next, err := t.open(screenDeps{
		ctx:      m.ctx,
		routes:   m.routes,
		feedback: m.feedback,
		logger:   m.logger,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", t.title, err)
	}

	if m.current != nil {
		m.current.Close()
	}
	m.routes.Activate(t.path)

	next.SetTheme(m.theme)
	if m.ready {
		next.SetSize(m.width, m.tableHeight())
	}
	m.active = i
	m.current = next
	return nil
}

// Close tears down the current screen and persists preferences.
func (m Model) Close() {
	if m.current != nil {
		m.current.Close()
	}
	m.savePrefs()
}

// ThemeName returns the active theme.
func (m Model) ThemeName() string {
	return m.theme.Name
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:  m.theme.Name,
		Screen: m.routes.Current(),
		Routes: m.routes.Routes(),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Printf("[UI] msg=\"save prefs failed\" path=%s err=%v", m.prefsPath, err)
	}
}

func (m *Model) applyHelpStyles() {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
	m.help.Styles.ShortKey = keyStyle
	m.help.Styles.ShortDesc = desc
	m.help.Styles.ShortSeparator = sep
	m.help.Styles.FullKey = keyStyle
	m.help.Styles.FullDesc = desc
	m.help.Styles.FullSeparator = sep
}

func (m Model) tableHeight() int {
	// The table header takes two lines (title + border).
	return m.height - chromeLines - 2
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	final, err := tea.NewProgram(m, programOpts...).Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}

	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
