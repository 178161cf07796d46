package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/odonto/internal/api"
	"github.com/five82/odonto/internal/config"
	"github.com/five82/odonto/internal/prefs"
	"github.com/five82/odonto/internal/route"
	"github.com/five82/odonto/internal/ui"
)

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/odonto/prefs.toml
	Open       string // route to open, e.g. /admin/cases?page=2
	PageSize   int    // zero uses the config value
}

// Run boots the console until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closeLog := setupLogging(cfg.LogFile)
	defer closeLog()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	client, err := api.NewClient(cfg.APIURL, api.ClientOptions{
		Token:   cfg.APIToken,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	if err := ensureAPIAvailable(ctx, client); err != nil {
		return err
	}

	routes, err := restoreRoutes(userPrefs, opts.Open)
	if err != nil {
		return err
	}

	pageSize := cfg.PageSize
	if opts.PageSize > 0 {
		pageSize = opts.PageSize
	}

	log.Printf("[UI] msg=\"starting console\" api=%s route=%s", client.BaseURL(), routes.URL())
	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Routes:    routes,
		PageSize:  pageSize,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
	})
}

// restoreRoutes rebuilds the URL state saved on the last exit. An explicit
// route wins over the saved screen.
func restoreRoutes(p prefs.Prefs, open string) (*route.Store, error) {
	routes := &route.Store{}
	routes.Restore(p.Routes)
	if open != "" {
		if err := routes.Open(open); err != nil {
			return nil, fmt.Errorf("open %q: %w", open, err)
		}
		return routes, nil
	}
	if p.Screen != "" {
		routes.Activate(p.Screen)
	}
	return routes, nil
}

// setupLogging sends the standard logger to path, since the terminal belongs
// to the UI. Logging is discarded when the file cannot be opened.
func setupLogging(path string) func() {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := tea.LogToFile(path, "odonto")
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	return func() { _ = f.Close() }
}
