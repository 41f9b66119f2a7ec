// Package app wires the application together: it owns the logger, loads the
// array catalog, and drives one telescope model build.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lowarray/telmodel/internal/arraycfg"
	"github.com/lowarray/telmodel/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	catalog *arraycfg.Catalog
	config  *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded array
// catalog. A catalog that cannot be loaded is a fatal startup error, so it
// panics; the caller recovers and reports it.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	catalog, err := arraycfg.LoadCatalog(ctx, cfg.CatalogPath)
	if err != nil {
		panic(fmt.Errorf("failed to load array catalog: %w", err))
	}
	logger.Debug("Array catalog ready.", "arrays", catalog.Names())

	return &App{
		outW:    outW,
		logger:  logger,
		catalog: catalog,
		config:  cfg,
	}
}

// Catalog returns the application's array catalog. This is primarily for
// testing.
func (a *App) Catalog() *arraycfg.Catalog {
	return a.catalog
}
