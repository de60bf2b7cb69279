// Package pipeline chains the analysis stages over a complete sample
// sequence: time synchronisation, interpolation, velocity and bearing,
// segmentation into legs, boundary refinement, maneuver labels, leg
// geometry, series grouping and, independently, orientation calibration.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/tacklog/internal/config"
	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/monitoring"
	"github.com/banshee-data/tacklog/internal/orientation"
	"github.com/banshee-data/tacklog/internal/tacks"
	"github.com/banshee-data/tacklog/internal/track"
	"gonum.org/v1/gonum/floats"
)

// ErrTooFewSamples is returned when the input cannot hold a single leg.
var ErrTooFewSamples = errors.New("at least two samples are required")

// Config holds the parameters of every stage.
type Config struct {
	// Wind is the wind bearing (radians, direction it blows from) stamped
	// on samples that carry none. Nil keeps only per-sample wind.
	Wind        *float64
	Tacks       tacks.Config
	Orientation orientation.Config
}

// DefaultConfig returns the stock parameters without a wind override.
func DefaultConfig() Config {
	return ConfigFromTuning(config.DefaultTuningConfig())
}

// ConfigFromTuning builds a Config from the tuning file.
func ConfigFromTuning(t *config.TuningConfig) Config {
	cfg := Config{
		Tacks:       tacks.ConfigFromTuning(t),
		Orientation: orientation.ConfigFromTuning(t),
	}
	if deg, ok := t.GetWindDirectionDeg(); ok {
		w := geo.NormalizeBearing(geo.Radians(deg))
		cfg.Wind = &w
	}
	return cfg
}

// Summary condenses a run for display and storage.
type Summary struct {
	Samples          int
	Fixes            int
	Interpolated     int
	WithBearing      int
	TimeOffsetMillis int64

	Legs               int
	LegsWithMainPoints int
	Intersections      int
	Maneuvers          map[tacks.ManeuverType]int
	Series             int

	// DistanceM is the distance sailed between consecutive real fixes.
	DistanceM float64
	Duration  time.Duration
}

// Result is the output of Analyze. Samples is the corrected copy of the
// input; legs and series index into it.
type Result struct {
	Samples     []track.Sample
	Legs        []tacks.Leg
	Series      []tacks.TackSeries
	Calibration *orientation.Calibration
	Summary     Summary
}

// Analyze runs every stage over a copy of samples. The caller's slice is
// never modified.
func Analyze(samples []track.Sample, cfg Config) (*Result, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("analyze %d samples: %w", len(samples), ErrTooFewSamples)
	}

	s := track.Clone(samples)
	res := &Result{Samples: s}
	sum := &res.Summary
	sum.Samples = len(s)

	sum.TimeOffsetMillis = track.SynchronizeTime(s)
	sum.Interpolated = track.InterpolateLocations(s)
	sum.WithBearing = track.ComputeVelocityBearing(s, cfg.Wind)

	tc := cfg.Tacks
	legs := tacks.SegmentLegs(s, tc)
	tacks.RefineBoundaries(s, legs, tc)
	tacks.AssignPointsOfSail(s, legs)
	tacks.LabelManeuvers(legs, tacks.ClassifierFor(tc.ManeuverTable))
	sum.LegsWithMainPoints = tacks.ComputeMainParts(s, legs, tc)
	sum.Intersections = tacks.ComputeIntersections(s, legs, tc)
	res.Legs = legs
	res.Series = tacks.GroupSeries(s, legs, tc)

	res.Calibration = orientation.Calibrate(s, cfg.Orientation)

	summarize(res)
	monitoring.Componentf("Pipeline", "%d samples: %d legs, %d series, %.0f m sailed",
		sum.Samples, sum.Legs, sum.Series, sum.DistanceM)
	return res, nil
}

func summarize(res *Result) {
	sum := &res.Summary
	sum.Legs = len(res.Legs)
	sum.Series = len(res.Series)
	sum.Maneuvers = make(map[tacks.ManeuverType]int)
	for i := 1; i < len(res.Legs); i++ {
		sum.Maneuvers[res.Legs[i].ManeuverAtStart]++
	}

	fixes := track.LocationIndices(res.Samples)
	sum.Fixes = len(fixes)
	if len(fixes) < 2 {
		return
	}
	steps := make([]float64, len(fixes)-1)
	for i := 1; i < len(fixes); i++ {
		a := res.Samples[fixes[i-1]].Position.Location()
		b := res.Samples[fixes[i]].Position.Location()
		steps[i-1] = a.DistanceTo(b)
	}
	sum.DistanceM = floats.Sum(steps)

	first, last := res.Samples[fixes[0]], res.Samples[fixes[len(fixes)-1]]
	sum.Duration = time.Duration(last.TimeMillis-first.TimeMillis) * time.Millisecond
}
