package tacks

import (
	"math"
	"time"

	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/track"
	"github.com/banshee-data/tacklog/internal/units"
)

// Intersection is a synthesised boundary marker where the main lines of two
// adjacent legs cross.
type Intersection struct {
	Location geo.Location
	// TimeMillis is the crossing time extrapolated along the leg's own main
	// part; nil when the main part is too short on both axes.
	TimeMillis *int64
}

// Leg is a straight stretch of the track. StartIndex and EndIndex are
// positions in the sample slice, both real fixes. Adjacent legs share the
// boundary sample: legs[i].EndIndex == legs[i+1].StartIndex.
type Leg struct {
	StartIndex int
	EndIndex   int

	PointOfSail     PointOfSail
	ManeuverAtStart ManeuverType
	ManeuverAtEnd   ManeuverType

	// AfterStart and BeforeEnd are the sample positions bounding the main
	// part of the leg, set by ComputeMainParts.
	AfterStart *int
	BeforeEnd  *int
	// MainPart is set when both points exist and are far enough apart.
	MainPart bool

	StartIntersection *Intersection
	EndIntersection   *Intersection
}

// HasMainPoints reports whether the leg has a measurable main part.
func (l *Leg) HasMainPoints() bool {
	return l.MainPart && l.AfterStart != nil && l.BeforeEnd != nil
}

// Side is the side of the boat the leg was sailed on.
func (l *Leg) Side() Side {
	return l.PointOfSail.Side()
}

// Bearing returns the bearing from the leg's first to its last fix.
func (l *Leg) Bearing(samples []track.Sample) (float64, bool) {
	return bearingBetween(samples, l.StartIndex, l.EndIndex)
}

// Duration is the time between the leg's first and last sample.
func (l *Leg) Duration(samples []track.Sample) time.Duration {
	ms := samples[l.EndIndex].TimeMillis - samples[l.StartIndex].TimeMillis
	return time.Duration(ms) * time.Millisecond
}

// Distance is the straight-line distance from the leg's first to last fix.
func (l *Leg) Distance(samples []track.Sample) float64 {
	return distanceBetween(samples, l.StartIndex, l.EndIndex)
}

// MainDistance is the length of the main part, 0 without main points.
func (l *Leg) MainDistance(samples []track.Sample) float64 {
	if !l.HasMainPoints() {
		return 0
	}
	return distanceBetween(samples, *l.AfterStart, *l.BeforeEnd)
}

// MainBearing is the bearing of the main part.
func (l *Leg) MainBearing(samples []track.Sample) (float64, bool) {
	if !l.HasMainPoints() {
		return 0, false
	}
	return bearingBetween(samples, *l.AfterStart, *l.BeforeEnd)
}

// MainVelocity is the speed over the main part in knots.
func (l *Leg) MainVelocity(samples []track.Sample) (float64, bool) {
	if !l.HasMainPoints() {
		return 0, false
	}
	dt := samples[*l.BeforeEnd].TimeMillis - samples[*l.AfterStart].TimeMillis
	if dt <= 0 {
		return 0, false
	}
	mps := l.MainDistance(samples) / (float64(dt) / 1000.0)
	return units.MPSToKnots(mps), true
}

func locationOf(samples []track.Sample, i int) geo.Location {
	return samples[i].Position.Location()
}

func distanceBetween(samples []track.Sample, a, b int) float64 {
	return locationOf(samples, a).DistanceTo(locationOf(samples, b))
}

func bearingBetween(samples []track.Sample, a, b int) (float64, bool) {
	if a == b {
		return 0, false
	}
	return locationOf(samples, a).BearingTo(locationOf(samples, b))
}

// AssignPointsOfSail classifies each leg's bearing against the first wind
// bearing found on its samples. Legs without wind or bearing stay unknown.
func AssignPointsOfSail(samples []track.Sample, legs []Leg) {
	for i := range legs {
		leg := &legs[i]
		leg.PointOfSail = PointOfSailUnknown

		bearing, ok := leg.Bearing(samples)
		if !ok {
			continue
		}
		wind, ok := legWind(samples, leg)
		if !ok {
			continue
		}
		leg.PointOfSail = ClassifyPointOfSail(RelativeBearing(bearing, wind))
	}
}

func legWind(samples []track.Sample, leg *Leg) (float64, bool) {
	for i := leg.StartIndex; i <= leg.EndIndex; i++ {
		if w := samples[i].WindBearing; w != nil && !math.IsNaN(*w) {
			return *w, true
		}
	}
	return 0, false
}
