// Package tacks splits a corrected track into straight legs, labels the
// maneuvers between them and groups them into upwind and downwind series.
package tacks

import (
	"math"

	"github.com/banshee-data/tacklog/internal/geo"
)

// PointOfSail is a sector of heading relative to the wind.
type PointOfSail int

const (
	PointOfSailUnknown PointOfSail = iota
	CloseHauledStarboard
	BeamReachStarboard
	BroadReachStarboard
	BroadReachPort
	BeamReachPort
	CloseHauledPort
)

// sectorStarts holds the lower bound, in degrees of relative bearing, of
// each sector. Each sector runs up to the next start (the last to 360).
var sectorStarts = [...]struct {
	deg float64
	pos PointOfSail
}{
	{0, CloseHauledStarboard},
	{70, BeamReachStarboard},
	{110, BroadReachStarboard},
	{180, BroadReachPort},
	{250, BeamReachPort},
	{290, CloseHauledPort},
}

func (p PointOfSail) String() string {
	switch p {
	case CloseHauledStarboard:
		return "close_hauled_starboard"
	case BeamReachStarboard:
		return "beam_reach_starboard"
	case BroadReachStarboard:
		return "broad_reach_starboard"
	case BroadReachPort:
		return "broad_reach_port"
	case BeamReachPort:
		return "beam_reach_port"
	case CloseHauledPort:
		return "close_hauled_port"
	default:
		return "unknown"
	}
}

// Side is the side of the boat the sector belongs to.
type Side int

const (
	SideUnknown Side = iota
	Starboard
	Port
)

func (s Side) String() string {
	switch s {
	case Starboard:
		return "starboard"
	case Port:
		return "port"
	default:
		return "unknown"
	}
}

// Side returns which side the point of sail is on.
func (p PointOfSail) Side() Side {
	switch p {
	case CloseHauledStarboard, BeamReachStarboard, BroadReachStarboard:
		return Starboard
	case CloseHauledPort, BeamReachPort, BroadReachPort:
		return Port
	default:
		return SideUnknown
	}
}

// rank orders sectors on one side from the wind outwards: 0 close hauled,
// 1 beam reach, 2 broad reach, -1 unknown.
func (p PointOfSail) rank() int {
	switch p {
	case CloseHauledStarboard, CloseHauledPort:
		return 0
	case BeamReachStarboard, BeamReachPort:
		return 1
	case BroadReachStarboard, BroadReachPort:
		return 2
	default:
		return -1
	}
}

// Windward reports close hauled and beam reach sectors.
func (p PointOfSail) Windward() bool {
	r := p.rank()
	return r == 0 || r == 1
}

// Downwind reports broad reach sectors.
func (p PointOfSail) Downwind() bool {
	return p.rank() == 2
}

// RelativeBearing is the heading as an offset from the wind direction,
// normalised to [0, 2π).
func RelativeBearing(heading, windFrom float64) float64 {
	return geo.NormalizeBearing(heading - windFrom)
}

// ClassifyPointOfSail maps a relative bearing (radians) onto its sector.
// Boundary values belong to the sector that starts there.
func ClassifyPointOfSail(relative float64) PointOfSail {
	if math.IsNaN(relative) || math.IsInf(relative, 0) {
		return PointOfSailUnknown
	}
	rel := geo.NormalizeBearing(relative)
	pos := sectorStarts[0].pos
	for _, s := range sectorStarts {
		if rel >= geo.Radians(s.deg) {
			pos = s.pos
		}
	}
	return pos
}
