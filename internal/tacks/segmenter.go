package tacks

import (
	"math"

	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/monitoring"
	"github.com/banshee-data/tacklog/internal/track"
)

// Segmenter splits a stream of real fixes into legs. Feed it sample
// positions in order with Add and collect the legs with Finish.
//
// The open leg's reference bearing is the bearing from its first fix to its
// current last fix. A fix whose own bearing differs from the reference by
// more than OffBearingThreshold counts as off bearing; OffBearingRun of
// them in a row close the leg at the latest one, which also starts the next
// leg. Fixes without a bearing extend the leg and leave the run alone.
type Segmenter struct {
	samples []track.Sample
	cfg     Config

	open       bool
	start, end int
	offBearing int

	legs []Leg
}

// NewSegmenter returns a Segmenter over samples.
func NewSegmenter(samples []track.Sample, cfg Config) *Segmenter {
	return &Segmenter{samples: samples, cfg: cfg}
}

// Add feeds the sample at position i. Samples without a real fix are
// ignored.
func (s *Segmenter) Add(i int) {
	if !s.samples[i].HasLocation() {
		return
	}
	if !s.open {
		s.open = true
		s.start, s.end = i, i
		s.offBearing = 0
		return
	}

	if bearing, ok := s.samples[i].Bearing(); ok {
		if ref, ok := bearingBetween(s.samples, s.start, s.end); ok {
			if math.Abs(geo.BearingDifference(bearing, ref)) > s.cfg.OffBearingThreshold {
				s.offBearing++
			} else {
				s.offBearing = 0
			}
		} else {
			s.offBearing = 0
		}
	}
	s.end = i

	if s.offBearing >= s.cfg.OffBearingRun {
		s.legs = append(s.legs, Leg{StartIndex: s.start, EndIndex: s.end})
		s.start = i
		s.offBearing = 0
	}
}

// Finish closes the open leg and returns all legs. A trailing leg holding
// only the boundary fix of the previous leg is dropped.
func (s *Segmenter) Finish() []Leg {
	if s.open && s.end > s.start {
		s.legs = append(s.legs, Leg{StartIndex: s.start, EndIndex: s.end})
	}
	s.open = false
	legs := s.legs
	s.legs = nil
	return legs
}

// SegmentLegs runs a Segmenter over every real fix in samples.
func SegmentLegs(samples []track.Sample, cfg Config) []Leg {
	seg := NewSegmenter(samples, cfg)
	fixes := track.LocationIndices(samples)
	for _, i := range fixes {
		seg.Add(i)
	}
	legs := seg.Finish()
	monitoring.Componentf("TackSegmenter", "%d legs from %d fixes", len(legs), len(fixes))
	return legs
}
