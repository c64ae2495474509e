// Package app wires the export bridge, the run history and the input loaders
// into the operations the CLI and the HTTP server expose.
package app

import (
	"fmt"
	"log/slog"

	"github.com/ayusman/widgetexport/internal/config"
	"github.com/ayusman/widgetexport/internal/export"
	"github.com/ayusman/widgetexport/internal/store"
)

// App owns the long-lived components built from one configuration.
type App struct {
	config *config.Config
	store  *store.Store
	bridge *export.Bridge
	logger *slog.Logger
}

// New opens the history store when enabled and builds the export bridge.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &App{config: cfg, logger: logger}

	bridgeCfg := export.Config{
		Candidates:   cfg.Interpreter.Candidates,
		StagingDir:   cfg.Staging.Dir,
		FallbackDirs: cfg.Staging.FallbackDirs,
		Timeout:      cfg.Interpreter.Timeout,
		Logger:       logger,
	}

	if cfg.History.Enabled {
		st, err := store.New(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		a.store = st
		bridgeCfg.Recorder = st
		logger.Debug("history enabled", slog.String("path", cfg.History.Path))
	}

	a.bridge = export.New(bridgeCfg)
	return a, nil
}

// Bridge returns the export bridge.
func (a *App) Bridge() *export.Bridge {
	return a.bridge
}

// Store returns the history store, or nil when history is disabled.
func (a *App) Store() *store.Store {
	return a.store
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// History returns at most limit recent runs, newest first. It returns an
// error when history is disabled.
func (a *App) History(limit int) ([]*store.Run, error) {
	if a.store == nil {
		return nil, ErrHistoryDisabled
	}
	return a.store.Runs().List(limit)
}

// Close releases the history store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
