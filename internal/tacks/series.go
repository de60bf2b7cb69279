package tacks

import (
	"math"

	"github.com/banshee-data/tacklog/internal/config"
	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/monitoring"
	"github.com/banshee-data/tacklog/internal/track"
)

// SeriesType is the character of a tack series.
type SeriesType int

const (
	SeriesUnknown SeriesType = iota
	// SeriesWindward legs are close hauled or beam reach, joined by tacks.
	SeriesWindward
	// SeriesDownwind legs are broad reach, joined by jibes.
	SeriesDownwind
)

func (t SeriesType) String() string {
	switch t {
	case SeriesWindward:
		return "windward"
	case SeriesDownwind:
		return "downwind"
	default:
		return "unknown"
	}
}

// ExpectedManeuver is the maneuver that links consecutive legs of a series.
func (t SeriesType) ExpectedManeuver() ManeuverType {
	switch t {
	case SeriesWindward:
		return ManeuverTack
	case SeriesDownwind:
		return ManeuverJibe
	default:
		return ManeuverUnknown
	}
}

func seriesTypeOf(p PointOfSail) SeriesType {
	switch {
	case p.Windward():
		return SeriesWindward
	case p.Downwind():
		return SeriesDownwind
	default:
		return SeriesUnknown
	}
}

// SideStats are the weighted sums for one side of a series. Weights are
// main-part distances in meters.
type SideStats struct {
	Weight         float64
	BearingSin     float64
	BearingCos     float64
	VelocityWeight float64
	VelocitySum    float64
}

func (s *SideStats) add(bearing, weight float64) {
	s.Weight += weight
	s.BearingSin += weight * math.Sin(bearing)
	s.BearingCos += weight * math.Cos(bearing)
}

func (s *SideStats) addVelocity(v, weight float64) {
	s.VelocityWeight += weight
	s.VelocitySum += weight * v
}

// Bearing is the weighted circular mean bearing.
func (s *SideStats) Bearing() (float64, bool) {
	if s.Weight <= 0 || (s.BearingSin == 0 && s.BearingCos == 0) {
		return 0, false
	}
	return geo.NormalizeBearing(math.Atan2(s.BearingSin, s.BearingCos)), true
}

// Velocity is the weighted mean velocity in knots.
func (s *SideStats) Velocity() (float64, bool) {
	if s.VelocityWeight <= 0 {
		return 0, false
	}
	return s.VelocitySum / s.VelocityWeight, true
}

// TackSeries is a run of consecutive legs zig-zagging upwind or downwind.
type TackSeries struct {
	Type SeriesType
	// Legs are indices into the leg list, in order.
	Legs []int

	Port      SideStats
	Starboard SideStats

	AvgPortBearing       *float64
	AvgStarboardBearing  *float64
	AvgWindDirection     *float64 // direction the wind blows from
	AvgPortVelocity      *float64 // knots
	AvgStarboardVelocity *float64 // knots
	TackAngle            *float64
	AvgVMG               *float64 // knots
}

// NumberOfTacks is the number of legs in the series.
func (s *TackSeries) NumberOfTacks() int {
	return len(s.Legs)
}

func (s *TackSeries) accumulate(samples []track.Sample, leg *Leg) {
	if !leg.HasMainPoints() {
		return
	}
	bearing, ok := leg.MainBearing(samples)
	if !ok {
		return
	}
	w := leg.MainDistance(samples)

	side := &s.Starboard
	if leg.Side() == Port {
		side = &s.Port
	}
	side.add(bearing, w)
	if v, ok := leg.MainVelocity(samples); ok {
		side.addVelocity(v, w)
	}
}

func (s *TackSeries) finalize() {
	s.AvgPortBearing, s.AvgStarboardBearing = nil, nil
	s.AvgWindDirection, s.TackAngle, s.AvgVMG = nil, nil, nil
	s.AvgPortVelocity, s.AvgStarboardVelocity = nil, nil

	port, okPort := s.Port.Bearing()
	stbd, okStbd := s.Starboard.Bearing()
	if okPort {
		s.AvgPortBearing = &port
	}
	if okStbd {
		s.AvgStarboardBearing = &stbd
	}
	if v, ok := s.Port.Velocity(); ok {
		s.AvgPortVelocity = &v
	}
	if v, ok := s.Starboard.Velocity(); ok {
		s.AvgStarboardVelocity = &v
	}
	if !okPort || !okStbd {
		return
	}

	angle := math.Abs(geo.BearingDifference(port, stbd))
	s.TackAngle = &angle

	sx := math.Sin(port) + math.Sin(stbd)
	cx := math.Cos(port) + math.Cos(stbd)
	if sx == 0 && cx == 0 {
		return
	}
	wind := math.Atan2(sx, cx)
	if s.Type == SeriesDownwind {
		wind += math.Pi
	}
	wind = geo.NormalizeBearing(wind)
	s.AvgWindDirection = &wind

	var sum, weight float64
	for _, side := range []struct {
		bearing float64
		stats   *SideStats
	}{{port, &s.Port}, {stbd, &s.Starboard}} {
		v, ok := side.stats.Velocity()
		if !ok {
			continue
		}
		sum += side.stats.VelocityWeight * v * math.Abs(math.Cos(geo.BearingDifference(side.bearing, wind)))
		weight += side.stats.VelocityWeight
	}
	if weight > 0 {
		vmg := sum / weight
		s.AvgVMG = &vmg
	}
}

// GroupSeries scans the legs in order and collects series. A leg continues
// the open series when it is of the same type, the maneuver at its start is
// the one the series expects and it has main points. Otherwise the open
// series closes and the leg starts a new one. Legs with an unknown point of
// sail close the open series and start nothing. Series shorter than
// MinSeriesLegs, and never shorter than config.MinSeriesLegsFloor, are
// dropped.
func GroupSeries(samples []track.Sample, legs []Leg, cfg Config) []TackSeries {
	var out []TackSeries
	var open *TackSeries
	minLegs := max(cfg.MinSeriesLegs, config.MinSeriesLegsFloor)

	closeOpen := func() {
		if open == nil {
			return
		}
		if open.NumberOfTacks() >= minLegs {
			open.finalize()
			out = append(out, *open)
		}
		open = nil
	}

	for i := range legs {
		leg := &legs[i]
		kind := seriesTypeOf(leg.PointOfSail)
		if kind == SeriesUnknown {
			closeOpen()
			continue
		}

		if open != nil && open.Type == kind &&
			leg.ManeuverAtStart == kind.ExpectedManeuver() && leg.HasMainPoints() {
			open.Legs = append(open.Legs, i)
			open.accumulate(samples, leg)
			continue
		}

		closeOpen()
		open = &TackSeries{Type: kind, Legs: []int{i}}
		open.accumulate(samples, leg)
	}
	closeOpen()

	monitoring.Componentf("TackSeriesGrouper", "%d series from %d legs", len(out), len(legs))
	return out
}
