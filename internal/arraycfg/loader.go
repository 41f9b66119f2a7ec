package arraycfg

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lowarray/telmodel/internal/ctxlog"
	"github.com/lowarray/telmodel/internal/fsutil"
)

// LoadCatalog reads every array definition under path, which may be a single
// .hcl file or a directory searched recursively for .hcl files. Declaring
// the same array name twice, in one file or across files, is an error.
func LoadCatalog(ctx context.Context, path string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading array catalog.", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find catalog files in %s: %w", path, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl catalog files found in %s", path)
	}

	catalog := &Catalog{arrays: make(map[string]*Array)}
	parser := hclparse.NewParser()
	for _, file := range files {
		if err := loadCatalogFile(catalog, parser, file); err != nil {
			return nil, err
		}
	}

	logger.Debug("Array catalog loaded.", "files", len(files), "arrays", len(catalog.arrays))
	return catalog, nil
}

// loadCatalogFile parses a single catalog file and merges its arrays into
// the catalog.
func loadCatalogFile(catalog *Catalog, parser *hclparse.Parser, filePath string) error {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse catalog file %s: %s", filePath, diags.Error())
	}

	var parsed catalogFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode catalog file %s: %s", filePath, diags.Error())
	}

	for _, block := range parsed.Arrays {
		array, err := arrayFromBlock(block)
		if err != nil {
			return fmt.Errorf("catalog file %s: array %q: %w", filePath, block.Name, err)
		}
		if _, dup := catalog.arrays[array.Name]; dup {
			return fmt.Errorf("catalog file %s: array %q declared more than once", filePath, array.Name)
		}
		catalog.arrays[array.Name] = array
	}
	return nil
}

// arrayFromBlock validates and converts a decoded array block into the
// public model.
func arrayFromBlock(block *arrayBlock) (*Array, error) {
	if block.Location == nil {
		return nil, fmt.Errorf("missing location block")
	}
	if len(block.Stations) == 0 {
		return nil, fmt.Errorf("declares no stations")
	}

	array := &Array{
		Name: block.Name,
		Location: Location{
			LonDeg: block.Location.LonDeg,
			LatDeg: block.Location.LatDeg,
		},
		Stations: make([]Station, 0, len(block.Stations)),
	}

	seen := make(map[string]bool, len(block.Stations))
	for _, s := range block.Stations {
		if seen[s.Name] {
			return nil, fmt.Errorf("station %q declared more than once", s.Name)
		}
		seen[s.Name] = true

		pos, err := positionFromExpr(s.Position)
		if err != nil {
			return nil, fmt.Errorf("station %q: %w", s.Name, err)
		}
		array.Stations = append(array.Stations, Station{Name: s.Name, Position: pos})
	}

	return array, nil
}
