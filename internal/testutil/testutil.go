// Package testutil provides synthetic tracks for tests.
//
// Stage tests across packages build their input with TrackBuilder so the
// geometry of a scenario reads as headings and speeds rather than raw
// coordinates.
package testutil

import (
	"math"

	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/track"
)

// DefaultOrigin is the start of synthetic tracks (Kiel fjord).
var DefaultOrigin = geo.FromDegrees(54.35, 10.17)

// TrackBuilder appends evenly spaced GPS samples along straight courses.
type TrackBuilder struct {
	pos     geo.Location
	time    int64
	step    int64
	wind    *float64
	samples []track.Sample
}

// NewTrackBuilder starts a track at origin with one fix at startMillis,
// sampling every stepMillis.
func NewTrackBuilder(origin geo.Location, startMillis, stepMillis int64) *TrackBuilder {
	b := &TrackBuilder{
		pos:  origin,
		time: startMillis,
		step: stepMillis,
	}
	b.emit()
	return b
}

// WithWind stamps every subsequently emitted sample with the given wind
// bearing (radians, direction the wind blows from).
func (b *TrackBuilder) WithWind(bearing float64) *TrackBuilder {
	w := bearing
	b.wind = &w
	return b
}

// Sail appends n samples moving along bearing (radians) at speedMPS. Each
// step is scaled at the mean latitude of its two fixes, so consecutive
// fixes are exactly speedMPS·step apart as geo.Location.Offset measures.
func (b *TrackBuilder) Sail(bearing, speedMPS float64, n int) *TrackBuilder {
	d := speedMPS * float64(b.step) / 1000.0
	for i := 0; i < n; i++ {
		dLat := d * math.Cos(bearing) / geo.EarthRadius
		mid := b.pos.Latitude + dLat/2
		dLon := d * math.Sin(bearing) / (geo.EarthRadius * math.Cos(mid))
		b.pos = geo.Location{
			Latitude:  b.pos.Latitude + dLat,
			Longitude: geo.NormalizeSigned(b.pos.Longitude + dLon),
		}
		b.time += b.step
		b.emit()
	}
	return b
}

// Hold appends n samples at the current position (becalmed).
func (b *TrackBuilder) Hold(n int) *TrackBuilder {
	return b.Sail(0, 0, n)
}

// Samples returns the built samples.
func (b *TrackBuilder) Samples() []track.Sample {
	return b.samples
}

func (b *TrackBuilder) emit() {
	s := track.Sample{
		Index:      len(b.samples),
		TimeMillis: b.time,
		Position:   &track.Position{Latitude: b.pos.Latitude, Longitude: b.pos.Longitude},
	}
	if b.wind != nil {
		w := *b.wind
		s.WindBearing = &w
	}
	b.samples = append(b.samples, s)
}

// Zigzag builds legs alternating between two headings, each of legSamples
// samples at speedMPS, with wind stamped on every sample.
func Zigzag(wind, headingA, headingB, speedMPS float64, legs, legSamples int) []track.Sample {
	b := NewTrackBuilder(DefaultOrigin, 1_700_000_000_000, 1000).WithWind(wind)
	b.samples[0].WindBearing = &wind
	for i := 0; i < legs; i++ {
		h := headingA
		if i%2 == 1 {
			h = headingB
		}
		b.Sail(h, speedMPS, legSamples)
	}
	return b.Samples()
}
