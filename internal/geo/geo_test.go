package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestNormalizeBearing(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"quarter", math.Pi / 2, math.Pi / 2},
		{"full turn wraps to zero", FullTurn, 0},
		{"negative quarter", -math.Pi / 2, 3 * math.Pi / 2},
		{"two turns and a bit", 2*FullTurn + 0.5, 0.5},
		{"tiny negative", -1e-18, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBearing(tt.in)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, FullTurn)
		})
	}
}

func TestNormalizeSigned(t *testing.T) {
	assert.InDelta(t, math.Pi, NormalizeSigned(math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, NormalizeSigned(-math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, NormalizeSigned(3*math.Pi/2), 1e-12)
	assert.InDelta(t, 0.1, NormalizeSigned(FullTurn+0.1), 1e-12)
}

func TestBearingDifference(t *testing.T) {
	// 350° to 10° is a 20° turn to starboard, not 340° to port.
	d := BearingDifference(Radians(10), Radians(350))
	assert.InDelta(t, Radians(20), d, 1e-12)

	d = BearingDifference(Radians(350), Radians(10))
	assert.InDelta(t, Radians(-20), d, 1e-12)
}

func TestProjectionRoundTrip(t *testing.T) {
	for _, origin := range []Location{FromDegrees(54.32, 10.15), FromDegrees(-33.8, 151.2), FromDegrees(-17, 179.999)} {
		proj := NewProjection(origin)
		assert.Equal(t, r2.Vec{}, proj.Project(origin))

		loc := FromDegrees(Degrees(origin.Latitude)+0.01, Degrees(origin.Longitude)+0.01)
		back := proj.Unproject(proj.Project(loc))
		assert.InDelta(t, loc.Latitude, back.Latitude, 1e-12)
		assert.InDelta(t, 0, NormalizeSigned(loc.Longitude-back.Longitude), 1e-12)
	}
}

func TestOffset_FarFromPrimeMeridian(t *testing.T) {
	// 100 m due north is due north wherever it is sailed.
	dLat := Degrees(100 / EarthRadius)
	for _, lon := range []float64{0, 10, 120, -150, 179.9} {
		a := FromDegrees(54, lon)
		b := FromDegrees(54+dLat, lon)
		assert.InDelta(t, 100, a.DistanceTo(b), 1e-6, "lon %v", lon)
		bearing, ok := a.BearingTo(b)
		require.True(t, ok)
		assert.InDelta(t, 0, BearingDifference(bearing, 0), 1e-12, "lon %v", lon)
	}

	// Across the antimeridian the short way round.
	west := FromDegrees(0, 179.9995)
	east := FromDegrees(0, -179.9995)
	assert.InDelta(t, Radians(0.001)*EarthRadius, west.DistanceTo(east), 1e-6)
	bearing, ok := west.BearingTo(east)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, bearing, 1e-9)
}

func TestDistanceAndBearing(t *testing.T) {
	origin := FromDegrees(0, 0)
	// One thousandth of a degree of latitude is ~111 m due north.
	north := FromDegrees(0.001, 0)
	east := FromDegrees(0, 0.001)

	assert.InDelta(t, 111.19, origin.DistanceTo(north), 0.01)

	b, ok := origin.BearingTo(north)
	require.True(t, ok)
	assert.InDelta(t, 0, b, 1e-9)

	b, ok = origin.BearingTo(east)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, b, 1e-9)

	b, ok = east.BearingTo(origin)
	require.True(t, ok)
	assert.InDelta(t, 3*math.Pi/2, b, 1e-9)

	_, ok = origin.BearingTo(origin)
	assert.False(t, ok, "identical locations have no bearing")
}

func TestIntersection(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 r2.Vec
		want           r2.Vec
	}{
		{
			// Steep line: the y span dominates.
			name: "y dominant",
			a1:   r2.Vec{X: 2, Y: -10},
			a2:   r2.Vec{X: 2, Y: 30},
			b1:   r2.Vec{X: -5, Y: 7},
			b2:   r2.Vec{X: 9, Y: 7},
			want: r2.Vec{X: 2, Y: 7},
		},
		{
			// Shallow line: the x span dominates.
			name: "x dominant",
			a1:   r2.Vec{X: -40, Y: 3},
			a2:   r2.Vec{X: 60, Y: 3},
			b1:   r2.Vec{X: 11, Y: -2},
			b2:   r2.Vec{X: 11, Y: 8},
			want: r2.Vec{X: 11, Y: 3},
		},
		{
			name: "diagonals crossing outside segments",
			a1:   r2.Vec{X: 0, Y: 0},
			a2:   r2.Vec{X: 1, Y: 1},
			b1:   r2.Vec{X: 10, Y: 0},
			b2:   r2.Vec{X: 9, Y: 1},
			want: r2.Vec{X: 5, Y: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Intersection(tt.a1, tt.a2, tt.b1, tt.b2)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, p.X, 1e-5)
			assert.InDelta(t, tt.want.Y, p.Y, 1e-5)
		})
	}
}

func TestIntersection_Degenerate(t *testing.T) {
	t.Run("parallel", func(t *testing.T) {
		_, ok := Intersection(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0, Y: 1}, r2.Vec{X: 1, Y: 2})
		assert.False(t, ok)
	})
	t.Run("coincident", func(t *testing.T) {
		_, ok := Intersection(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 2, Y: 2}, r2.Vec{X: 3, Y: 3})
		assert.False(t, ok)
	})
	t.Run("zero length line", func(t *testing.T) {
		_, ok := Intersection(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0, Y: 1}, r2.Vec{X: 1, Y: 2})
		assert.False(t, ok)
	})
}

func TestProjection_Intersection(t *testing.T) {
	// A north-going line and an east-going line meeting at a known fix far
	// from longitude 0.
	cross := FromDegrees(-33.9, 151.3)
	proj := NewProjection(FromDegrees(-33.91, 151.29))
	c := proj.Project(cross)
	a1 := proj.Unproject(r2.Vec{X: c.X, Y: c.Y - 300})
	a2 := proj.Unproject(r2.Vec{X: c.X, Y: c.Y - 100})
	b1 := proj.Unproject(r2.Vec{X: c.X + 200, Y: c.Y})
	b2 := proj.Unproject(r2.Vec{X: c.X + 500, Y: c.Y})

	p, ok := Intersection(proj.Project(a1), proj.Project(a2), proj.Project(b1), proj.Project(b2))
	require.True(t, ok)
	assert.InDelta(t, 0, proj.Unproject(p).DistanceTo(cross), 1e-5)
}
