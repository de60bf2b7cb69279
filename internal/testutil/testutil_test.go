package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/tacklog/internal/geo"
)

func TestTrackBuilder_Sail(t *testing.T) {
	t.Parallel()

	samples := NewTrackBuilder(DefaultOrigin, 0, 1000).Sail(math.Pi/2, 5, 10).Samples()
	if len(samples) != 11 {
		t.Fatalf("len(samples) = %d, want 11", len(samples))
	}
	for i, s := range samples {
		if s.Index != i {
			t.Errorf("samples[%d].Index = %d", i, s.Index)
		}
		if s.TimeMillis != int64(i)*1000 {
			t.Errorf("samples[%d].TimeMillis = %d", i, s.TimeMillis)
		}
	}

	first := samples[0].Position.Location()
	last := samples[10].Position.Location()
	if d := first.DistanceTo(last); math.Abs(d-50) > 1e-6 {
		t.Errorf("distance = %f, want 50", d)
	}
	if b, ok := first.BearingTo(last); !ok || math.Abs(b-math.Pi/2) > 1e-9 {
		t.Errorf("bearing = %f, want π/2", b)
	}
}

func TestZigzag(t *testing.T) {
	t.Parallel()

	samples := Zigzag(0, geo.Radians(45), geo.Radians(315), 3, 4, 30)
	if len(samples) != 121 {
		t.Fatalf("len(samples) = %d, want 121", len(samples))
	}
	for i, s := range samples {
		if s.WindBearing == nil || *s.WindBearing != 0 {
			t.Fatalf("samples[%d] missing wind", i)
		}
	}
}

func TestTrackBuilder_FarLongitudes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  geo.Location
		bearing float64
	}{
		{"north at 120E", geo.FromDegrees(-33.8, 120), 0},
		{"north at 150W", geo.FromDegrees(21.3, -150), 0},
		{"north east at 120E", geo.FromDegrees(60, 120), math.Pi / 4},
		{"east across the antimeridian", geo.FromDegrees(-17, 179.9995), math.Pi / 2},
		{"west across the antimeridian", geo.FromDegrees(-17, -179.9995), 3 * math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := NewTrackBuilder(tt.origin, 0, 1000).Sail(tt.bearing, 5, 20).Samples()
			for i := 1; i < len(samples); i++ {
				a := samples[i-1].Position.Location()
				b := samples[i].Position.Location()
				if d := a.DistanceTo(b); math.Abs(d-5) > 1e-6 {
					t.Fatalf("step %d distance = %f, want 5", i, d)
				}
				got, ok := a.BearingTo(b)
				if !ok || math.Abs(geo.BearingDifference(got, tt.bearing)) > 1e-9 {
					t.Fatalf("step %d bearing = %f, want %f", i, got, tt.bearing)
				}
			}
		})
	}
}
