package arraycfg

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Location is a geodetic reference position in degrees (WGS84 ellipsoid).
type Location struct {
	LonDeg float64
	LatDeg float64
}

// Station is one physical antenna cluster: its name and absolute geocentric
// XYZ position in metres.
type Station struct {
	Name     string
	Position [3]float64
}

// Array is a resolved array configuration: the reference location plus the
// ordered station list. Station order is the catalog's declaration order and
// determines the numbering of per-station output directories.
type Array struct {
	Name     string
	Location Location
	Stations []Station
}

// KnownNames is the fixed set of array-size identifiers the command surface
// accepts, in canonical form.
var KnownNames = []string{"AA0.5", "AA1", "AA2", "AA*", "AA4"}

// displayAliases maps user-facing spellings onto canonical catalog keys.
// "AA*" is awkward to type in a shell, so the star variant also answers to
// AAstar.
var displayAliases = map[string]string{
	"AAstar": "AA*",
}

// CanonicalName maps a user-supplied array name to its catalog key and
// reports whether the name belongs to the known set.
func CanonicalName(name string) (string, bool) {
	if alias, ok := displayAliases[name]; ok {
		name = alias
	}
	for _, known := range KnownNames {
		if name == known {
			return name, true
		}
	}
	return name, false
}

// ErrUnknownArray is returned by Resolve for names absent from the catalog.
var ErrUnknownArray = errors.New("unknown array configuration")

// Catalog is an in-memory set of array configurations keyed by name.
type Catalog struct {
	arrays map[string]*Array
}

// Resolve returns the array configuration for the given name. Display
// aliases are accepted. The returned value is shared and must be treated as
// read-only.
func (c *Catalog) Resolve(name string) (*Array, error) {
	key, _ := CanonicalName(name)
	array, ok := c.arrays[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (catalog has: %s)", ErrUnknownArray, name, strings.Join(c.Names(), ", "))
	}
	return array, nil
}

// Names lists the catalog's array names in sorted order, for diagnostics.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.arrays))
	for name := range c.arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
