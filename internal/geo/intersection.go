package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ParallelTolerance is the smallest |sin| of the angle between two lines
// for which an intersection is still computed.
const ParallelTolerance = 1e-9

// Intersection returns the crossing point of the infinite line through
// a1, a2 and the infinite line through b1, b2. ok is false when either pair
// of points coincides or the lines are (nearly) parallel.
func Intersection(a1, a2, b1, b2 r2.Vec) (p r2.Vec, ok bool) {
	da := r2.Sub(a2, a1)
	db := r2.Sub(b2, b1)
	na, nb := r2.Norm(da), r2.Norm(db)
	if na == 0 || nb == 0 {
		return r2.Vec{}, false
	}

	denom := r2.Cross(da, db)
	if math.Abs(denom) < ParallelTolerance*na*nb {
		return r2.Vec{}, false
	}

	t := r2.Cross(r2.Sub(b1, a1), db) / denom
	return r2.Add(a1, r2.Scale(t, da)), true
}
