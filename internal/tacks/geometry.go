package tacks

import (
	"math"

	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/monitoring"
	"github.com/banshee-data/tacklog/internal/track"
	"gonum.org/v1/gonum/spatial/r2"
)

// ComputeMainParts finds the main part of every leg.
//
// The after-start point is the first fix more than MainPartMinDistance from
// the leg's start; it only counts if it is also that far from the leg's
// end. The before-end point is the mirror image. A leg has main points when
// both exist and lie more than MainPointsMinSeparation apart.
func ComputeMainParts(samples []track.Sample, legs []Leg, cfg Config) int {
	withMain := 0
	for i := range legs {
		leg := &legs[i]
		leg.AfterStart, leg.BeforeEnd, leg.MainPart = nil, nil, false

		start := locationOf(samples, leg.StartIndex)
		end := locationOf(samples, leg.EndIndex)

		for j := leg.StartIndex; j <= leg.EndIndex; j++ {
			if !samples[j].HasLocation() {
				continue
			}
			loc := locationOf(samples, j)
			if loc.DistanceTo(start) > cfg.MainPartMinDistance {
				if loc.DistanceTo(end) > cfg.MainPartMinDistance {
					p := j
					leg.AfterStart = &p
				}
				break
			}
		}

		for j := leg.EndIndex; j >= leg.StartIndex; j-- {
			if !samples[j].HasLocation() {
				continue
			}
			loc := locationOf(samples, j)
			if loc.DistanceTo(end) > cfg.MainPartMinDistance {
				if loc.DistanceTo(start) > cfg.MainPartMinDistance {
					p := j
					leg.BeforeEnd = &p
				}
				break
			}
		}

		if leg.AfterStart != nil && leg.BeforeEnd != nil &&
			distanceBetween(samples, *leg.AfterStart, *leg.BeforeEnd) > cfg.MainPointsMinSeparation {
			leg.MainPart = true
			withMain++
		}
	}
	return withMain
}

// ComputeIntersections intersects the main lines of adjacent legs that both
// have main points, in a plane centred on the earlier leg's main part. The crossing is stored as EndIntersection on the
// earlier leg and StartIntersection on the later one, each with the time
// extrapolated along that leg's own main part.
func ComputeIntersections(samples []track.Sample, legs []Leg, cfg Config) int {
	for i := range legs {
		legs[i].StartIntersection, legs[i].EndIntersection = nil, nil
	}

	found := 0
	for i := 1; i < len(legs); i++ {
		prev, next := &legs[i-1], &legs[i]
		if !prev.HasMainPoints() || !next.HasMainPoints() {
			continue
		}

		proj := geo.NewProjection(locationOf(samples, *prev.AfterStart))
		a1, a2 := mainLine(proj, samples, prev)
		b1, b2 := mainLine(proj, samples, next)
		p, ok := geo.Intersection(a1, a2, b1, b2)
		if !ok {
			monitoring.Componentf("LegIntersection", "legs %d and %d are parallel", i-1, i)
			continue
		}

		loc := proj.Unproject(p)
		prev.EndIntersection = &Intersection{Location: loc, TimeMillis: crossingTime(proj, samples, prev, p, cfg)}
		next.StartIntersection = &Intersection{Location: loc, TimeMillis: crossingTime(proj, samples, next, p, cfg)}
		found++
	}
	return found
}

func mainLine(proj geo.Projection, samples []track.Sample, leg *Leg) (r2.Vec, r2.Vec) {
	return proj.Project(locationOf(samples, *leg.AfterStart)), proj.Project(locationOf(samples, *leg.BeforeEnd))
}

// crossingTime extrapolates the time at p along whichever axis the leg's
// main part spans further.
func crossingTime(proj geo.Projection, samples []track.Sample, leg *Leg, p r2.Vec, cfg Config) *int64 {
	a, b := mainLine(proj, samples, leg)
	ta := float64(samples[*leg.AfterStart].TimeMillis)
	tb := float64(samples[*leg.BeforeEnd].TimeMillis)

	dx, dy := b.X-a.X, b.Y-a.Y
	if math.Abs(dx) <= cfg.DegenerateSpan && math.Abs(dy) <= cfg.DegenerateSpan {
		return nil
	}

	var t float64
	if math.Abs(dy) > math.Abs(dx) {
		t = ta + (p.Y-a.Y)*(tb-ta)/dy
	} else {
		t = ta + (p.X-a.X)*(tb-ta)/dx
	}
	ms := int64(math.Round(t))
	return &ms
}
