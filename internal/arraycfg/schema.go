package arraycfg

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// catalogFile represents the top-level structure of a catalog file for
// decoding. One file may declare any number of arrays.
type catalogFile struct {
	Arrays []*arrayBlock `hcl:"array,block"`
}

// arrayBlock is a single `array "<name>" { ... }` block.
type arrayBlock struct {
	Name     string          `hcl:"name,label"`
	Location *locationBlock  `hcl:"location,block"`
	Stations []*stationBlock `hcl:"station,block"`
}

// locationBlock is the array's reference geodetic location in degrees on the
// WGS84 ellipsoid.
type locationBlock struct {
	LonDeg float64 `hcl:"lon"`
	LatDeg float64 `hcl:"lat"`
}

// stationBlock is a `station "<name>" { position = [x, y, z] }` block. The
// position attribute is kept as an expression and converted through cty so
// the catalog can use any numeric expression HCL accepts.
type stationBlock struct {
	Name     string         `hcl:"name,label"`
	Position hcl.Expression `hcl:"position"`
}

// positionFromExpr evaluates a station position expression into geocentric
// XYZ metres.
func positionFromExpr(expr hcl.Expression) ([3]float64, error) {
	var pos [3]float64

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return pos, fmt.Errorf("failed to evaluate position: %s", diags.Error())
	}

	converted, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return pos, fmt.Errorf("position must be a list of numbers: %w", err)
	}

	var coords []float64
	if err := gocty.FromCtyValue(converted, &coords); err != nil {
		return pos, fmt.Errorf("failed to decode position: %w", err)
	}
	if len(coords) != 3 {
		return pos, fmt.Errorf("position has %d components, want 3 (x, y, z)", len(coords))
	}

	copy(pos[:], coords)
	return pos, nil
}
