package assembler

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/lowarray/telmodel/internal/arraycfg"
	"github.com/lowarray/telmodel/internal/ctxlog"
	"github.com/lowarray/telmodel/internal/rotation"
)

// Resolver resolves an array-size name into its array configuration. It is
// the assembler's only view of the array-configuration provider.
type Resolver interface {
	Resolve(name string) (*arraycfg.Array, error)
}

// Assembler drives the rotation engine across every station of an array
// configuration and writes the telescope model directory.
type Assembler struct {
	Resolver Resolver
	Table    *rotation.Table
	Layout   rotation.Layout

	// Workers bounds how many stations are written concurrently. Values
	// below 1 mean strictly sequential processing. Station directory
	// numbers always follow the provider's station order, never completion
	// order.
	Workers int
}

// Build generates the telescope model for the named array in the given mode
// under outRoot and returns the model directory path. The model directory is
// destroyed and recreated, so a run never merges with stale output; a failed
// run may leave a partial directory behind. Builds are not safe to run
// concurrently against the same output path.
func (a *Assembler) Build(ctx context.Context, telescopeName string, mode Mode, outRoot string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	array, err := a.Resolver.Resolve(telescopeName)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(outRoot, "telescope_model_"+telescopeName+mode.Suffix())
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to remove previous model directory: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}
	logger.Info("Building telescope model.",
		"array", array.Name, "mode", mode.String(), "stations", len(array.Stations), "dir", dir)

	if err := a.writePosition(dir, array.Location); err != nil {
		return "", err
	}
	if err := a.writeGlobalLayout(dir, array.Stations); err != nil {
		return "", err
	}

	group, gctx := errgroup.WithContext(ctx)
	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	group.SetLimit(workers)

	for stationIdx, station := range array.Stations {
		stationIdx, station := stationIdx, station
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			return a.buildStation(gctx, dir, stationIdx, station, mode)
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}

	logger.Info("Telescope model complete.", "dir", dir, "antennas_per_station", len(a.Layout))
	return dir, nil
}

// writePosition writes the array's reference geodetic longitude and latitude
// as a single comma-separated line.
func (a *Assembler) writePosition(dir string, loc arraycfg.Location) error {
	return writeExclusive(filepath.Join(dir, "position.txt"), func(w *bufio.Writer) error {
		// Single line, no trailing newline.
		_, err := fmt.Fprintf(w, "%v, %v", loc.LonDeg, loc.LatDeg)
		return err
	})
}

// writeGlobalLayout writes one line per station with its absolute position.
// The x and y components are transposed on write; downstream consumers read
// the file in y, x, z order.
func (a *Assembler) writeGlobalLayout(dir string, stations []arraycfg.Station) error {
	return writeExclusive(filepath.Join(dir, "layout.txt"), func(w *bufio.Writer) error {
		for _, station := range stations {
			p := station.Position
			if _, err := fmt.Fprintf(w, "%v, %v, %v\n", p[1], p[0], p[2]); err != nil {
				return err
			}
		}
		return nil
	})
}

// buildStation writes one station's subdirectory: the rotated antenna layout
// and, in Full mode, the feed-angle file.
func (a *Assembler) buildStation(ctx context.Context, dir string, stationIdx int, station arraycfg.Station, mode Mode) error {
	logger := ctxlog.FromContext(ctx)

	label := station.Name
	if mode == NoStationRotation {
		label = rotation.ReferenceStation
	}

	// Rotate before touching the filesystem: a missing label must abort
	// without leaving this station's subdirectory behind.
	coords, absRot, err := rotation.Rotate(a.Table, a.Layout, label)
	if err != nil {
		return fmt.Errorf("station %s: %w", station.Name, err)
	}

	stationDir := filepath.Join(dir, fmt.Sprintf("station%03d", stationIdx))
	if err := os.Mkdir(stationDir, 0o755); err != nil {
		return fmt.Errorf("failed to create station directory: %w", err)
	}

	err = writeExclusive(filepath.Join(stationDir, "layout.txt"), func(w *bufio.Writer) error {
		for _, c := range coords {
			if _, err := fmt.Fprintf(w, "%.5f, %.5f\n", c.X, c.Y); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("station %s: %w", station.Name, err)
	}

	if mode == Full {
		feedAngle := rotation.FeedAngleDeg(absRot)
		err = writeExclusive(filepath.Join(stationDir, "feed_angle.txt"), func(w *bufio.Writer) error {
			// One line per antenna slot, all carrying the station's angle.
			for antennaIdx := 0; antennaIdx < len(coords); antennaIdx++ {
				if _, err := fmt.Fprintf(w, "%.5f\n", feedAngle); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("station %s: %w", station.Name, err)
		}
	}

	logger.Info("Station written.", "index", stationIdx, "station", station.Name)
	return nil
}

// writeExclusive creates path with exclusive-create semantics and hands a
// buffered writer to fill. A path that already exists is an error: a build
// must never silently overwrite a file written earlier in the same run.
func writeExclusive(path string, fill func(w *bufio.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
