package assembler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lowarray/telmodel/internal/arraycfg"
	"github.com/lowarray/telmodel/internal/ctxlog"
	"github.com/lowarray/telmodel/internal/rotation"
)

// staticResolver is a synthetic array-configuration provider for tests.
type staticResolver map[string]*arraycfg.Array

func (r staticResolver) Resolve(name string) (*arraycfg.Array, error) {
	array, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", arraycfg.ErrUnknownArray, name)
	}
	return array, nil
}

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// newTestAssembler builds a three-station fixture: the reference at
// 30°, station A at 30° (identity) and station B at 120° (−90° relative),
// with a two-antenna reference layout (1,0), (0,1).
func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()

	var src strings.Builder
	for i := 0; i < 21; i++ {
		src.WriteString("# header\n")
	}
	src.WriteString("label,rotation\n")
	src.WriteString("S8-1,30.0\n")
	src.WriteString("A,30.0\n")
	src.WriteString("B,120.0\n")

	table, err := rotation.ParseTable(strings.NewReader(src.String()))
	require.NoError(t, err)

	return &Assembler{
		Resolver: staticResolver{
			"AA0.5": {
				Name:     "AA0.5",
				Location: arraycfg.Location{LonDeg: 116.75, LatDeg: -26.82},
				Stations: []arraycfg.Station{
					{Name: "S8-1", Position: [3]float64{1, 2, 3}},
					{Name: "A", Position: [3]float64{4, 5, 6}},
					{Name: "B", Position: [3]float64{7, 8, 9}},
				},
			},
		},
		Table:  table,
		Layout: rotation.Layout{{X: 1, Y: 0}, {X: 0, Y: 1}},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuild_Full(t *testing.T) {
	t.Parallel()

	asm := newTestAssembler(t)
	root := t.TempDir()

	dir, err := asm.Build(testContext(), "AA0.5", Full, root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "telescope_model_AA0.5"), dir)

	// Global position: one comma-separated line, no trailing newline.
	require.Equal(t, "116.75, -26.82", readFile(t, filepath.Join(dir, "position.txt")))

	// Global layout: x and y transposed on write.
	require.Equal(t, "2, 1, 3\n5, 4, 6\n8, 7, 9\n", readFile(t, filepath.Join(dir, "layout.txt")))

	// Reference station: unrotated layout, feed angle from the hardcoded
	// 251.3° reference rotation.
	require.Equal(t, "1.00000, 0.00000\n0.00000, 1.00000\n",
		readFile(t, filepath.Join(dir, "station000", "layout.txt")))
	require.Equal(t, "198.70000\n198.70000\n",
		readFile(t, filepath.Join(dir, "station000", "feed_angle.txt")))

	// Station A: identical rotation to the reference, so identity.
	require.Equal(t, "1.00000, 0.00000\n0.00000, 1.00000\n",
		readFile(t, filepath.Join(dir, "station001", "layout.txt")))
	require.Equal(t, "60.00000\n60.00000\n",
		readFile(t, filepath.Join(dir, "station001", "feed_angle.txt")))

	// Station B: rotated by θ = 30 − 120 = −90°.
	require.Equal(t, "0.00000, -1.00000\n1.00000, 0.00000\n",
		readFile(t, filepath.Join(dir, "station002", "layout.txt")))
	require.Equal(t, "330.00000\n330.00000\n",
		readFile(t, filepath.Join(dir, "station002", "feed_angle.txt")))
}

func TestBuild_NoStationRotation(t *testing.T) {
	t.Parallel()

	asm := newTestAssembler(t)
	root := t.TempDir()

	dir, err := asm.Build(testContext(), "AA0.5", NoStationRotation, root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "telescope_model_AA0.5_no_rot"), dir)

	// Every station layout is byte-identical to the reference layout.
	want := "1.00000, 0.00000\n0.00000, 1.00000\n"
	for i := 0; i < 3; i++ {
		stationDir := filepath.Join(dir, fmt.Sprintf("station%03d", i))
		require.Equal(t, want, readFile(t, filepath.Join(stationDir, "layout.txt")))

		_, err := os.Stat(filepath.Join(stationDir, "feed_angle.txt"))
		require.True(t, os.IsNotExist(err), "station %d must not have a feed-angle file", i)
	}
}

func TestBuild_NoFeedRotation(t *testing.T) {
	t.Parallel()

	asm := newTestAssembler(t)
	root := t.TempDir()

	dir, err := asm.Build(testContext(), "AA0.5", NoFeedRotation, root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "telescope_model_AA0.5_no_feed_rot"), dir)

	// Stations are still rotated normally.
	require.Equal(t, "0.00000, -1.00000\n1.00000, 0.00000\n",
		readFile(t, filepath.Join(dir, "station002", "layout.txt")))

	for i := 0; i < 3; i++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("station%03d", i), "feed_angle.txt"))
		require.True(t, os.IsNotExist(err))
	}
}

func TestBuild_MissingStationLabelAborts(t *testing.T) {
	t.Parallel()

	asm := newTestAssembler(t)
	asm.Resolver = staticResolver{
		"AA0.5": {
			Name:     "AA0.5",
			Location: arraycfg.Location{LonDeg: 1, LatDeg: 2},
			Stations: []arraycfg.Station{
				{Name: "S8-1", Position: [3]float64{1, 2, 3}},
				{Name: "ZZ", Position: [3]float64{4, 5, 6}},
			},
		},
	}
	root := t.TempDir()

	_, err := asm.Build(testContext(), "AA0.5", Full, root)
	require.Error(t, err)

	var lookupErr *rotation.LookupError
	require.True(t, errors.As(err, &lookupErr))
	require.Equal(t, "ZZ", lookupErr.Label)

	// The failing station's subdirectory was never created.
	dir := filepath.Join(root, "telescope_model_AA0.5")
	_, statErr := os.Stat(filepath.Join(dir, "station001"))
	require.True(t, os.IsNotExist(statErr))
}

func TestBuild_UnknownArray(t *testing.T) {
	t.Parallel()

	asm := newTestAssembler(t)

	_, err := asm.Build(testContext(), "AA9", Full, t.TempDir())
	require.Error(t, err)
	require.True(t, errors.Is(err, arraycfg.ErrUnknownArray))
}

func TestBuild_ReplacesExistingDirectory(t *testing.T) {
	t.Parallel()

	asm := newTestAssembler(t)
	root := t.TempDir()

	// Simulate a stale model directory from a previous run.
	dir := filepath.Join(root, "telescope_model_AA0.5")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "station999"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0o600))

	_, err := asm.Build(testContext(), "AA0.5", Full, root)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "stale.txt"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "station999"))
	require.True(t, os.IsNotExist(err))
}

func TestBuild_MissingOutRoot(t *testing.T) {
	t.Parallel()

	asm := newTestAssembler(t)

	_, err := asm.Build(testContext(), "AA0.5", Full, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create model directory")
}

// snapshotTree maps relative file paths to contents for a whole model tree.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[rel] = readFile(t, path)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	sequential := newTestAssembler(t)
	parallel := newTestAssembler(t)
	parallel.Workers = 4

	seqRoot := t.TempDir()
	parRoot := t.TempDir()

	seqDir, err := sequential.Build(testContext(), "AA0.5", Full, seqRoot)
	require.NoError(t, err)
	parDir, err := parallel.Build(testContext(), "AA0.5", Full, parRoot)
	require.NoError(t, err)

	// Station numbering follows provider order, not completion order, so
	// the trees must be identical.
	require.Equal(t, snapshotTree(t, seqDir), snapshotTree(t, parDir))
}

func TestWriteExclusive_RefusesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "position.txt")
	require.NoError(t, os.WriteFile(path, []byte("already here"), 0o600))

	err := writeExclusive(path, func(w *bufio.Writer) error { return nil })
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create output file")

	// The original content survives: no silent overwrite.
	require.Equal(t, "already here", readFile(t, path))
}

func TestModeSuffix(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", Full.Suffix())
	require.Equal(t, "_no_rot", NoStationRotation.Suffix())
	require.Equal(t, "_no_feed_rot", NoFeedRotation.Suffix())
}
