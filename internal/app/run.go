package app

import (
	"context"
	"fmt"

	"github.com/lowarray/telmodel/internal/assembler"
	"github.com/lowarray/telmodel/internal/ctxlog"
	"github.com/lowarray/telmodel/internal/rotation"
)

// Run executes one telescope model build based on the provided configuration.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	table, err := rotation.LoadTable(cfg.RotationTablePath)
	if err != nil {
		return err
	}
	a.logger.Debug("Rotation table loaded.", "path", cfg.RotationTablePath, "stations", table.Len())

	layout, err := rotation.LoadLayout(cfg.ReferenceLayoutPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Reference layout loaded.", "path", cfg.ReferenceLayoutPath, "antennas", len(layout))

	asm := &assembler.Assembler{
		Resolver: a.catalog,
		Table:    table,
		Layout:   layout,
		Workers:  cfg.Workers,
	}

	dir, err := asm.Build(ctx, cfg.ArrayName, cfg.Mode, cfg.OutRoot)
	if err != nil {
		return fmt.Errorf("model build failed: %w", err)
	}

	a.logger.Info("Telescope model written.", "dir", dir)
	a.logger.Debug("App.Run method finished.")
	return nil
}
