// Package track holds the telemetry sample model and the three correction
// stages that run over it before segmentation: time synchronisation,
// location interpolation and velocity/bearing estimation.
package track

import (
	"github.com/banshee-data/tacklog/internal/geo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Position is a GPS fix plus the values derived from it.
type Position struct {
	Latitude  float64 `json:"lat"` // radians
	Longitude float64 `json:"lon"` // radians

	// Velocity over ground in knots, set by ComputeVelocityBearing.
	Velocity *float64 `json:"velocity,omitempty"`
	// Bearing over ground in radians [0, 2π), absent when stationary.
	Bearing *float64 `json:"bearing,omitempty"`

	SatelliteTimeMillis *int64 `json:"sat_time,omitempty"`

	// Interpolated positions were synthesised by InterpolateLocations and
	// are never a real device fix.
	Interpolated bool `json:"interpolated,omitempty"`
}

// Location returns the fix as a geo.Location.
func (p *Position) Location() geo.Location {
	return geo.Location{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Sample is one record of the telemetry sequence.
type Sample struct {
	Index      int   `json:"index"`
	TimeMillis int64 `json:"time"`

	Position      *Position `json:"position,omitempty"`
	MagneticField *r3.Vec   `json:"magnetic,omitempty"`
	Acceleration  *r3.Vec   `json:"acceleration,omitempty"`

	// WindBearing is the direction the wind blows from, radians.
	WindBearing *float64 `json:"wind,omitempty"`
}

// HasLocation reports whether the sample carries a real device fix.
func (s *Sample) HasLocation() bool {
	return s.Position != nil && !s.Position.Interpolated
}

// HasAnyPosition reports whether the sample carries a real or interpolated
// position.
func (s *Sample) HasAnyPosition() bool {
	return s.Position != nil
}

// Bearing returns the sample's bearing over ground, if any.
func (s *Sample) Bearing() (float64, bool) {
	if s.Position == nil || s.Position.Bearing == nil {
		return 0, false
	}
	return *s.Position.Bearing, true
}

// Velocity returns the sample's velocity over ground in knots, if any.
func (s *Sample) Velocity() (float64, bool) {
	if s.Position == nil || s.Position.Velocity == nil {
		return 0, false
	}
	return *s.Position.Velocity, true
}

// Clone returns a deep copy of the samples so a stage can correct them
// without touching the caller's slice.
func Clone(samples []Sample) []Sample {
	out := make([]Sample, len(samples))
	for i, s := range samples {
		out[i] = s
		if s.Position != nil {
			p := *s.Position
			p.Velocity = cloneFloat(s.Position.Velocity)
			p.Bearing = cloneFloat(s.Position.Bearing)
			if s.Position.SatelliteTimeMillis != nil {
				t := *s.Position.SatelliteTimeMillis
				p.SatelliteTimeMillis = &t
			}
			out[i].Position = &p
		}
		if s.MagneticField != nil {
			v := *s.MagneticField
			out[i].MagneticField = &v
		}
		if s.Acceleration != nil {
			v := *s.Acceleration
			out[i].Acceleration = &v
		}
		out[i].WindBearing = cloneFloat(s.WindBearing)
	}
	return out
}

// LocationIndices returns the slice positions of samples with a real fix,
// in order.
func LocationIndices(samples []Sample) []int {
	idx := make([]int, 0, len(samples))
	for i := range samples {
		if samples[i].HasLocation() {
			idx = append(idx, i)
		}
	}
	return idx
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
