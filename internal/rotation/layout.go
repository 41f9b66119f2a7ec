package rotation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Coord is a station-local antenna position in metres.
type Coord struct {
	X, Y float64
}

// Layout is the ordered antenna layout of the reference station. Every
// station in the array shares this geometry, only rotated.
type Layout []Coord

// LoadLayout reads the reference antenna layout from the file at path.
func LoadLayout(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference layout: %w", err)
	}
	defer f.Close()

	layout, err := ParseLayout(f)
	if err != nil {
		return nil, fmt.Errorf("reference layout %s: %w", path, err)
	}
	return layout, nil
}

// ParseLayout parses comma-separated numeric rows. Columns 0 and 1 are taken
// as the antenna x and y coordinates; any further columns are ignored.
// Blank lines are skipped, everything else must parse or the whole load
// fails.
func ParseLayout(r io.Reader) (Layout, error) {
	var layout Layout

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d has %d columns, want at least 2", line, len(fields))
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d has a non-numeric x coordinate %q", line, fields[0])
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d has a non-numeric y coordinate %q", line, fields[1])
		}

		layout = append(layout, Coord{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	if len(layout) == 0 {
		return nil, fmt.Errorf("layout contains no antenna coordinates")
	}

	return layout, nil
}
