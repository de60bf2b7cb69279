package tacks

import (
	"math"
	"testing"

	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/testutil"
	"github.com/banshee-data/tacklog/internal/track"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyze runs the tack stages over samples that already carry wind.
func analyze(t *testing.T, samples []track.Sample) ([]Leg, []TackSeries) {
	t.Helper()
	cfg := DefaultConfig()
	track.ComputeVelocityBearing(samples, nil)
	legs := SegmentLegs(samples, cfg)
	RefineBoundaries(samples, legs, cfg)
	AssignPointsOfSail(samples, legs)
	LabelManeuvers(legs, ClassifierFor(cfg.ManeuverTable))
	ComputeMainParts(samples, legs, cfg)
	ComputeIntersections(samples, legs, cfg)
	return legs, GroupSeries(samples, legs, cfg)
}

func TestGroupSeries_Windward(t *testing.T) {
	t.Parallel()

	samples := testutil.Zigzag(0, geo.Radians(45), geo.Radians(315), 3, 6, 30)
	legs, series := analyze(t, samples)
	require.Len(t, legs, 6)
	require.Len(t, series, 1)

	s := series[0]
	assert.Equal(t, SeriesWindward, s.Type)
	assert.Equal(t, 6, s.NumberOfTacks())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, s.Legs)

	require.NotNil(t, s.AvgStarboardBearing)
	require.NotNil(t, s.AvgPortBearing)
	assert.InDelta(t, geo.Radians(45), *s.AvgStarboardBearing, 1e-6)
	assert.InDelta(t, geo.Radians(315), *s.AvgPortBearing, 1e-6)

	require.NotNil(t, s.AvgWindDirection)
	assert.InDelta(t, 0, geo.BearingDifference(*s.AvgWindDirection, 0), 1e-6)
	require.NotNil(t, s.TackAngle)
	assert.InDelta(t, math.Pi/2, *s.TackAngle, 1e-6)

	knots := 3 * 1.9438444924406
	require.NotNil(t, s.AvgPortVelocity)
	require.NotNil(t, s.AvgStarboardVelocity)
	assert.InDelta(t, knots, *s.AvgPortVelocity, 1e-6)
	assert.InDelta(t, knots, *s.AvgStarboardVelocity, 1e-6)
	require.NotNil(t, s.AvgVMG)
	assert.InDelta(t, knots*math.Cos(math.Pi/4), *s.AvgVMG, 1e-6)

	for i := 1; i < len(legs); i++ {
		assert.Equal(t, ManeuverTack, legs[i].ManeuverAtStart, "leg %d", i)
		assert.NotNil(t, legs[i].StartIntersection, "leg %d", i)
	}
}

func TestGroupSeries_Downwind(t *testing.T) {
	t.Parallel()

	samples := testutil.Zigzag(0, geo.Radians(135), geo.Radians(225), 3, 5, 30)
	legs, series := analyze(t, samples)
	require.Len(t, legs, 5)
	require.Len(t, series, 1)

	s := series[0]
	assert.Equal(t, SeriesDownwind, s.Type)
	assert.Equal(t, ManeuverJibe, s.Type.ExpectedManeuver())
	assert.Equal(t, 5, s.NumberOfTacks())
	require.NotNil(t, s.AvgWindDirection)
	assert.InDelta(t, 0, geo.BearingDifference(*s.AvgWindDirection, 0), 1e-6)
	require.NotNil(t, s.AvgVMG)
	assert.InDelta(t, 3*1.9438444924406*math.Cos(math.Pi/4), *s.AvgVMG, 1e-6)
}

func TestGroupSeries_TooFewLegs(t *testing.T) {
	t.Parallel()

	samples := testutil.Zigzag(0, geo.Radians(45), geo.Radians(315), 3, 3, 30)
	legs, series := analyze(t, samples)
	assert.Len(t, legs, 3)
	assert.Empty(t, series)
}

func TestGroupSeries_MinLegsFloor(t *testing.T) {
	t.Parallel()

	samples := testutil.Zigzag(0, geo.Radians(45), geo.Radians(315), 3, 3, 30)
	legs, _ := analyze(t, samples)
	require.Len(t, legs, 3)

	cfg := DefaultConfig()
	cfg.MinSeriesLegs = 2
	assert.Empty(t, GroupSeries(samples, legs, cfg), "three legs never make a series")
}

func TestGroupSeries_Breaks(t *testing.T) {
	t.Parallel()

	samples := testutil.NewTrackBuilder(testutil.DefaultOrigin, 0, 1000).Sail(0, 5, 20).Samples()
	leg := func(p PointOfSail, m ManeuverType, main bool) Leg {
		l := Leg{StartIndex: 0, EndIndex: 20, PointOfSail: p, ManeuverAtStart: m}
		if main {
			l.AfterStart, l.BeforeEnd, l.MainPart = intPtr(5), intPtr(15), true
		}
		return l
	}
	windward := func(n int) []Leg {
		out := make([]Leg, n)
		for i := range out {
			p := CloseHauledStarboard
			if i%2 == 1 {
				p = CloseHauledPort
			}
			out[i] = leg(p, ManeuverTack, true)
		}
		return out
	}

	headUp := windward(9)
	headUp[4].ManeuverAtStart = ManeuverHeadUp

	noMain := windward(8)
	noMain[2] = leg(noMain[2].PointOfSail, ManeuverTack, false)

	noWind := windward(10)
	noWind[4].PointOfSail = PointOfSailUnknown

	mixed := windward(4)
	mixed = append(mixed,
		leg(BroadReachPort, ManeuverBearAway, true),
		leg(BroadReachStarboard, ManeuverJibe, true),
		leg(BroadReachPort, ManeuverJibe, true),
		leg(BroadReachStarboard, ManeuverJibe, true),
	)

	tests := []struct {
		name  string
		legs  []Leg
		want  [][]int
		types []SeriesType
	}{
		{"unexpected maneuver", headUp, [][]int{{0, 1, 2, 3}, {4, 5, 6, 7, 8}}, []SeriesType{SeriesWindward, SeriesWindward}},
		{"leg without main part", noMain, [][]int{{2, 3, 4, 5, 6, 7}}, []SeriesType{SeriesWindward}},
		{"unknown point of sail", noWind, [][]int{{0, 1, 2, 3}, {5, 6, 7, 8, 9}}, []SeriesType{SeriesWindward, SeriesWindward}},
		{"windward then downwind", mixed, [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}}, []SeriesType{SeriesWindward, SeriesDownwind}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			series := GroupSeries(samples, tt.legs, DefaultConfig())

			var got [][]int
			var types []SeriesType
			for _, s := range series {
				assert.GreaterOrEqual(t, s.NumberOfTacks(), 4)
				got = append(got, s.Legs)
				types = append(types, s.Type)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("series legs mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.types, types)
		})
	}
}

func TestGroupSeries_StartLegWithoutMainPart(t *testing.T) {
	t.Parallel()

	samples := testutil.NewTrackBuilder(testutil.DefaultOrigin, 0, 1000).Sail(0, 5, 20).Samples()
	legs := make([]Leg, 4)
	for i := range legs {
		legs[i] = Leg{PointOfSail: CloseHauledStarboard, ManeuverAtStart: ManeuverTack,
			AfterStart: intPtr(5), BeforeEnd: intPtr(15), MainPart: true}
		if i%2 == 1 {
			legs[i].PointOfSail = CloseHauledPort
		}
	}
	legs[0].MainPart = false

	series := GroupSeries(samples, legs, DefaultConfig())
	require.Len(t, series, 1)
	s := series[0]

	// Only the three legs with a main part contribute: one starboard, two
	// port, each 50 m.
	assert.InDelta(t, 50, s.Starboard.Weight, 1e-6)
	assert.InDelta(t, 100, s.Port.Weight, 1e-6)
}

func TestGroupSeries_OneSided(t *testing.T) {
	t.Parallel()

	var s TackSeries
	s.Type = SeriesWindward
	s.Starboard.add(geo.Radians(40), 10)
	s.Starboard.addVelocity(6, 10)
	s.finalize()

	require.NotNil(t, s.AvgStarboardBearing)
	assert.InDelta(t, geo.Radians(40), *s.AvgStarboardBearing, 1e-12)
	assert.Nil(t, s.AvgPortBearing)
	assert.Nil(t, s.AvgWindDirection)
	assert.Nil(t, s.TackAngle)
	assert.Nil(t, s.AvgVMG)
	require.NotNil(t, s.AvgStarboardVelocity)
	assert.Equal(t, 6.0, *s.AvgStarboardVelocity)
}
