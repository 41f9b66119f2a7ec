package rotation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ReferenceStation is the single station whose antenna layout is the
// canonical geometry rotated to produce every other station's layout.
const ReferenceStation = "S8-1"

// ReferenceRotationDeg is the absolute rotation reported for the reference
// station itself. It is a fixed constant and deliberately NOT read from the
// rotation table: downstream consumers depend on this exact value even
// though the table carries its own entry for the reference label.
const ReferenceRotationDeg = 251.3

// Rotate computes the antenna coordinates of stationLabel by rotating the
// reference layout by the angle between the reference station and the target
// station. It returns the rotated coordinates in layout order together with
// the station's absolute rotation in degrees East of North.
//
// Both the reference label and stationLabel must be present in the table;
// a missing label yields a *LookupError naming it.
func Rotate(table *Table, layout Layout, stationLabel string) ([]Coord, float64, error) {
	refRot, err := table.RotationDeg(ReferenceStation)
	if err != nil {
		return nil, 0, err
	}

	if stationLabel == ReferenceStation {
		out := make([]Coord, len(layout))
		copy(out, layout)
		return out, ReferenceRotationDeg, nil
	}

	stationRot, err := table.RotationDeg(stationLabel)
	if err != nil {
		return nil, 0, err
	}

	// Relative rotation of the target station with respect to the reference
	// station. Angles are East of North, so clockwise is positive.
	theta := (refRot - stationRot) * math.Pi / 180.0

	sin, cos := math.Sincos(theta)
	rot := mat.NewDense(2, 2, []float64{
		cos, -sin,
		sin, cos,
	})

	before := mat.NewDense(len(layout), 2, nil)
	for i, c := range layout {
		before.Set(i, 0, c.X)
		before.Set(i, 1, c.Y)
	}

	// Row-vector convention: each coordinate row is post-multiplied by the
	// transpose of the rotation matrix. The direction of rotation depends on
	// this orientation, so it must not be swapped for R itself.
	var after mat.Dense
	after.Mul(before, rot.T())

	out := make([]Coord, len(layout))
	for i := range out {
		out[i] = Coord{X: after.At(i, 0), Y: after.At(i, 1)}
	}
	return out, stationRot, nil
}

// FeedAngleDeg converts an absolute station rotation in degrees East of
// North (clockwise) into the feed-element angle expected by the downstream
// simulation tool (counter-clockwise from the positive x axis), normalised
// to [0, 360).
func FeedAngleDeg(absRotationDeg float64) float64 {
	angle := math.Mod(90.0-absRotationDeg, 360.0)
	if angle < 0 {
		angle += 360.0
	}
	return angle
}
