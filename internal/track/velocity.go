package track

import (
	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/units"
)

// ComputeVelocityBearing sets velocity and bearing over ground on every
// interior sample with a position, from its two neighbours (a centred
// difference: one sample of smoothing in exchange for less noise).
//
// Identical neighbour positions give zero velocity and no bearing. A
// non-positive time delta leaves velocity unset. When wind is non-nil it is
// stamped on samples that do not already carry a wind bearing. Returns the
// number of samples that received a bearing.
func ComputeVelocityBearing(samples []Sample, wind *float64) int {
	withBearing := 0
	for i := 1; i < len(samples)-1; i++ {
		cur := &samples[i]
		before, after := &samples[i-1], &samples[i+1]
		if cur.Position == nil || before.Position == nil || after.Position == nil {
			continue
		}

		a := before.Position.Location()
		b := after.Position.Location()
		dist := a.DistanceTo(b)

		cur.Position.Velocity = nil
		cur.Position.Bearing = nil

		dt := after.TimeMillis - before.TimeMillis
		if dt > 0 {
			v := units.MPSToKnots(dist / (float64(dt) / 1000.0))
			cur.Position.Velocity = &v
		}

		if bearing, ok := a.BearingTo(b); ok {
			cur.Position.Bearing = &bearing
			withBearing++
		}
	}

	if wind != nil {
		for i := range samples {
			if samples[i].WindBearing == nil {
				w := geo.NormalizeBearing(*wind)
				samples[i].WindBearing = &w
			}
		}
	}
	return withBearing
}
