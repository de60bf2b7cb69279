package track

import (
	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/monitoring"
)

// InterpolateLocations fills samples lacking a position with a time-weighted
// blend of the real fixes bracketing the gap. The first and last samples are
// never filled, nor is anything before the first or after the last fix.
// Filled positions are marked Interpolated. Returns the number filled.
func InterpolateLocations(samples []Sample) int {
	n := len(samples)
	if n < 3 {
		return 0
	}

	filled := 0
	prev := -1
	if samples[0].HasLocation() {
		prev = 0
	}

	for i := 1; i < n-1; i++ {
		if samples[i].HasAnyPosition() {
			if samples[i].HasLocation() {
				prev = i
			}
			continue
		}
		if prev < 0 {
			continue
		}

		next := -1
		for j := i + 1; j < n; j++ {
			if samples[j].HasLocation() {
				next = j
				break
			}
		}
		if next < 0 {
			break
		}

		from, to := &samples[prev], &samples[next]
		for k := i; k < next; k++ {
			samples[k].Position = blendPosition(from, to, samples[k].TimeMillis)
			filled++
		}
		i = next - 1
	}

	if filled > 0 {
		monitoring.Componentf("LocationInterpolator", "interpolated %d of %d samples", filled, n)
	}
	return filled
}

// blendPosition weighs each endpoint by the time distance to the other one,
// so the nearer fix dominates.
func blendPosition(from, to *Sample, t int64) *Position {
	span := to.TimeMillis - from.TimeMillis
	w := 0.5
	if span > 0 {
		w = float64(t-from.TimeMillis) / float64(span)
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
	}

	a, b := from.Position, to.Position
	dLon := geo.NormalizeSigned(b.Longitude - a.Longitude)
	return &Position{
		Latitude:     a.Latitude + w*(b.Latitude-a.Latitude),
		Longitude:    geo.NormalizeSigned(a.Longitude + w*dLon),
		Interpolated: true,
	}
}
