package tacks

import (
	"math"

	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/monitoring"
	"github.com/banshee-data/tacklog/internal/track"
)

// RefineBoundaries moves each leg boundary towards the observed change of
// bearing. Around boundary k it looks at up to RefineRadius fixes either
// side, clipped to the two legs, and counts the fixes whose bearing is
// closer to the previous leg's bearing and those closer to the next leg's.
// The boundary moves by (closerPrev − closerNext) / 2 fixes, never past
// either leg's far end. Boundaries are processed in order, so each one sees
// the previous one already moved. Returns the number of boundaries moved.
func RefineBoundaries(samples []track.Sample, legs []Leg, cfg Config) int {
	if len(legs) < 2 {
		return 0
	}

	fixes := track.LocationIndices(samples)
	view := make(map[int]int, len(fixes))
	for v, i := range fixes {
		view[i] = v
	}

	moved := 0
	for n := 1; n < len(legs); n++ {
		prev, next := &legs[n-1], &legs[n]
		prevStart, ok1 := view[prev.StartIndex]
		k, ok2 := view[prev.EndIndex]
		nextEnd, ok3 := view[next.EndIndex]
		if !ok1 || !ok2 || !ok3 {
			continue
		}

		prevBearing, okPrev := prev.Bearing(samples)
		nextBearing, okNext := next.Bearing(samples)
		if !okPrev || !okNext {
			continue
		}

		lo := max(prevStart, k-cfg.RefineRadius)
		hi := min(nextEnd, k+cfg.RefineRadius)
		closerPrev, closerNext := 0, 0
		for v := lo; v < hi; v++ {
			b, ok := samples[fixes[v]].Bearing()
			if !ok {
				continue
			}
			dPrev := math.Abs(geo.BearingDifference(b, prevBearing))
			dNext := math.Abs(geo.BearingDifference(b, nextBearing))
			switch {
			case dPrev < dNext:
				closerPrev++
			case dNext < dPrev:
				closerNext++
			}
		}

		shift := (closerPrev - closerNext) / 2
		if shift == 0 {
			continue
		}
		nk := min(max(k+shift, prevStart), nextEnd)
		if nk == k {
			continue
		}
		prev.EndIndex = fixes[nk]
		next.StartIndex = fixes[nk]
		moved++
	}

	if moved > 0 {
		monitoring.Componentf("TackBoundaryRefiner", "moved %d of %d boundaries", moved, len(legs)-1)
	}
	return moved
}
