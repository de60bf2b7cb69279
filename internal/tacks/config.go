package tacks

import (
	"github.com/banshee-data/tacklog/internal/config"
	"github.com/banshee-data/tacklog/internal/geo"
)

// Config holds the segmentation and grouping parameters.
type Config struct {
	OffBearingThreshold float64 // radians
	OffBearingRun       int     // consecutive off-bearing fixes that close a leg
	RefineRadius        int     // fixes either side of a boundary considered by the refiner

	MainPartMinDistance     float64 // meters from a leg end to its main part
	MainPointsMinSeparation float64 // meters between the two main points
	DegenerateSpan          float64 // meters; main parts shorter on both axes get no crossing time

	ManeuverTable string
	MinSeriesLegs int
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() Config {
	return ConfigFromTuning(config.DefaultTuningConfig())
}

// ConfigFromTuning builds a Config from the tuning file, falling back to
// defaults for unset fields.
func ConfigFromTuning(t *config.TuningConfig) Config {
	return Config{
		OffBearingThreshold:     geo.Radians(t.GetOffBearingThresholdDeg()),
		OffBearingRun:           t.GetOffBearingRun(),
		RefineRadius:            t.GetRefineRadius(),
		MainPartMinDistance:     t.GetMainPartMinDistanceM(),
		MainPointsMinSeparation: t.GetMainPointsMinSeparation(),
		DegenerateSpan:          t.GetDegenerateSpanM(),
		ManeuverTable:           t.GetManeuverTable(),
		MinSeriesLegs:           t.GetMinSeriesLegs(),
	}
}
