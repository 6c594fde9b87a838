package app

import (
	"log/slog"

	"github.com/google/uuid"

	"layerscope/internal/core/config"
	"layerscope/internal/data/store"
	"layerscope/internal/engine/zoo"
)

// App wires the registry, configuration and optional catalog store together
// for the CLI and watch mode.
type App struct {
	Config   *config.Config
	Registry *zoo.Registry
	Store    *store.Store
	RunID    string
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	a := &App{
		Config:   cfg,
		Registry: zoo.Default(),
		RunID:    uuid.NewString(),
	}

	if cfg.DB.Enabled {
		st, err := store.Open(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		a.Store = st
		slog.Debug("catalog store opened", "path", st.Path())
	}

	return a, nil
}

func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
