package rotation

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// headerSkipLines is the number of free-text header lines preceding the
// column-name row in the array coordinates file.
const headerSkipLines = 21

// Entry is one row of the rotation table: a station label and its absolute
// rotation in degrees East of North.
type Entry struct {
	Label       string
	RotationDeg float64
}

// Table is the ordered set of per-station rotation angles keyed by label.
type Table struct {
	entries []Entry
	byLabel map[string]int
}

// LookupError reports a station label that is absent from the rotation table.
type LookupError struct {
	Label string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("station label %q not found in rotation table", e.Label)
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the table rows in file order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// RotationDeg looks up the rotation angle for the given station label.
// A missing label yields a *LookupError.
func (t *Table) RotationDeg(label string) (float64, error) {
	idx, ok := t.byLabel[label]
	if !ok {
		return 0, &LookupError{Label: label}
	}
	return t.entries[idx].RotationDeg, nil
}

// LoadTable reads a rotation table from the file at path.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rotation table: %w", err)
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("rotation table %s: %w", path, err)
	}
	return table, nil
}

// ParseTable parses the fixed-format array coordinates table: exactly
// headerSkipLines free-text lines, then a CSV header row naming at least
// the "label" and "rotation" columns, then one CSV row per station.
//
// Any malformed row is a fatal parse error; rows are never skipped.
func ParseTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	for i := 0; i < headerSkipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("failed to skip %d header lines: %w", headerSkipLines, err)
		}
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read column header: %w", err)
	}

	labelCol, rotationCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "label":
			labelCol = i
		case "rotation":
			rotationCol = i
		}
	}
	if labelCol < 0 || rotationCol < 0 {
		return nil, fmt.Errorf("column header %v is missing required columns label and rotation", header)
	}

	table := &Table{byLabel: make(map[string]int)}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		label := strings.TrimSpace(record[labelCol])
		if label == "" {
			return nil, fmt.Errorf("row %d has an empty label", row)
		}
		if _, dup := table.byLabel[label]; dup {
			return nil, fmt.Errorf("row %d repeats station label %q", row, label)
		}

		deg, err := strconv.ParseFloat(strings.TrimSpace(record[rotationCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d has a non-numeric rotation %q", row, record[rotationCol])
		}

		table.byLabel[label] = len(table.entries)
		table.entries = append(table.entries, Entry{Label: label, RotationDeg: deg})
	}

	return table, nil
}
