package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/tacklog/internal/monitoring"
	"github.com/banshee-data/tacklog/internal/pipeline"
	"github.com/banshee-data/tacklog/internal/tacks"
)

// RecordResult stores a finished pipeline result: the run summary, every
// leg and every series, all or nothing. Returns the stored run with its
// generated ID.
func (s *AnalysisRunStore) RecordResult(source string, params RunParams, res *pipeline.Result) (*AnalysisRun, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode run params: %w", err)
	}

	sum := res.Summary
	run := &AnalysisRun{
		Source:            source,
		SampleCount:       sum.Samples,
		FixCount:          sum.Fixes,
		InterpolatedCount: sum.Interpolated,
		TimeOffsetMillis:  sum.TimeOffsetMillis,
		LegCount:          sum.Legs,
		SeriesCount:       sum.Series,
		DistanceM:         sum.DistanceM,
		DurationMillis:    sum.Duration.Milliseconds(),
		ParamsJSON:        paramsJSON,
	}
	if c := res.Calibration; c != nil {
		offset := c.CompassOffset
		run.CompassOffset = &offset
		run.CalibrationObservations = c.Observations
	}

	if err := s.RecordRun(run, LegRecords(res), SeriesRecords(res)); err != nil {
		return nil, err
	}

	monitoring.Componentf("AnalysisRunStore", "recorded run %s (%s): %d legs, %d series",
		run.RunID, source, run.LegCount, run.SeriesCount)
	return run, nil
}

// LegRecords converts the legs of a result into storage records.
func LegRecords(res *pipeline.Result) []LegRecord {
	out := make([]LegRecord, len(res.Legs))
	for i := range res.Legs {
		leg := &res.Legs[i]
		r := LegRecord{
			LegIndex:        i,
			StartIndex:      leg.StartIndex,
			EndIndex:        leg.EndIndex,
			StartTimeMillis: res.Samples[leg.StartIndex].TimeMillis,
			EndTimeMillis:   res.Samples[leg.EndIndex].TimeMillis,
			PointOfSail:     leg.PointOfSail.String(),
			ManeuverAtStart: leg.ManeuverAtStart.String(),
			ManeuverAtEnd:   leg.ManeuverAtEnd.String(),
			HasMainPoints:   leg.HasMainPoints(),
			MainDistanceM:   leg.MainDistance(res.Samples),
			StartCrossing:   crossing(leg.StartIntersection),
			EndCrossing:     crossing(leg.EndIntersection),
		}
		if b, ok := leg.MainBearing(res.Samples); ok {
			r.MainBearing = &b
		}
		out[i] = r
	}
	return out
}

// SeriesRecords converts the series of a result into storage records.
func SeriesRecords(res *pipeline.Result) []SeriesRecord {
	out := make([]SeriesRecord, len(res.Series))
	for i, s := range res.Series {
		out[i] = SeriesRecord{
			SeriesIndex:          i,
			SeriesType:           s.Type.String(),
			LegIndices:           append([]int(nil), s.Legs...),
			AvgPortBearing:       s.AvgPortBearing,
			AvgStarboardBearing:  s.AvgStarboardBearing,
			AvgWindDirection:     s.AvgWindDirection,
			AvgPortVelocity:      s.AvgPortVelocity,
			AvgStarboardVelocity: s.AvgStarboardVelocity,
			TackAngle:            s.TackAngle,
			AvgVMG:               s.AvgVMG,
		}
	}
	return out
}

func crossing(x *tacks.Intersection) *Crossing {
	if x == nil {
		return nil
	}
	return &Crossing{
		Latitude:   x.Location.Latitude,
		Longitude:  x.Location.Longitude,
		TimeMillis: x.TimeMillis,
	}
}
