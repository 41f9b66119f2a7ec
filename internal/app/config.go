package app

import (
	"errors"

	"github.com/lowarray/telmodel/internal/assembler"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ArrayName is the array-size identifier to build a model for, as the
	// user spelled it. It doubles as the output directory name component.
	ArrayName string
	Mode      assembler.Mode

	CatalogPath         string // .hcl array definitions, file or directory
	RotationTablePath   string // fixed-format station rotation table
	ReferenceLayoutPath string // reference station antenna coordinates
	OutRoot             string // parent directory for the model directory

	LogFormat string
	LogLevel  string
	Workers   int
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ArrayName == "" {
		return nil, errors.New("ArrayName is a required configuration field and cannot be empty")
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("CatalogPath is a required configuration field and cannot be empty")
	}
	if cfg.RotationTablePath == "" || cfg.ReferenceLayoutPath == "" {
		return nil, errors.New("rotation table and reference layout paths cannot be empty")
	}

	return &cfg, nil
}
