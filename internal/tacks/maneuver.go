package tacks

import "github.com/banshee-data/tacklog/internal/config"

// ManeuverType labels the transition between two adjacent legs.
type ManeuverType int

const (
	ManeuverUnknown ManeuverType = iota
	ManeuverTack
	ManeuverJibe
	ManeuverHeadUp
	ManeuverBearAway
)

func (m ManeuverType) String() string {
	switch m {
	case ManeuverTack:
		return "tack"
	case ManeuverJibe:
		return "jibe"
	case ManeuverHeadUp:
		return "head_up"
	case ManeuverBearAway:
		return "bear_away"
	default:
		return "unknown"
	}
}

// ManeuverClassifier maps a point-of-sail transition onto a maneuver.
type ManeuverClassifier func(from, to PointOfSail) ManeuverType

// ClassifyManeuver is the symmetric transition table:
//
//	tack       close hauled/beam reach to close hauled/beam reach, opposite side
//	jibe       broad reach port to broad reach starboard or back
//	bear away  same side, further from the wind
//	head up    same side, closer to the wind
//
// Everything else, including no change, is unknown.
func ClassifyManeuver(from, to PointOfSail) ManeuverType {
	fs, ts := from.Side(), to.Side()
	if fs == SideUnknown || ts == SideUnknown {
		return ManeuverUnknown
	}
	switch {
	case from.Windward() && to.Windward() && fs != ts:
		return ManeuverTack
	case from.Downwind() && to.Downwind() && fs != ts:
		return ManeuverJibe
	case fs == ts && to.rank() > from.rank():
		return ManeuverBearAway
	case fs == ts && to.rank() < from.rank():
		return ManeuverHeadUp
	}
	return ManeuverUnknown
}

// ClassifyManeuverUngrouped evaluates each bear-away and head-up group as
// `from == near && to == mid || to == far`, without grouping the `||`.
// A transition into any broad reach then reads as a bear away and one into
// any close-hauled sector as a head up, whatever the origin. Tack and jibe
// are checked first, as in ClassifyManeuver.
func ClassifyManeuverUngrouped(from, to PointOfSail) ManeuverType {
	fs, ts := from.Side(), to.Side()
	if fs == SideUnknown || ts == SideUnknown {
		return ManeuverUnknown
	}
	switch {
	case from.Windward() && to.Windward() && fs != ts:
		return ManeuverTack
	case from.Downwind() && to.Downwind() && fs != ts:
		return ManeuverJibe
	case fs == ts && from.rank() == 0 && to.rank() == 1, to.rank() == 2:
		return ManeuverBearAway
	case fs == ts && from.rank() == 2 && to.rank() == 1, to.rank() == 0:
		return ManeuverHeadUp
	}
	return ManeuverUnknown
}

// ClassifierFor returns the classifier named by a maneuver table setting.
// Unknown names fall back to the symmetric table.
func ClassifierFor(table string) ManeuverClassifier {
	if table == config.ManeuverTableUngrouped {
		return ClassifyManeuverUngrouped
	}
	return ClassifyManeuver
}

// LabelManeuvers stores the maneuver at each boundary on both legs: as
// ManeuverAtEnd on the earlier leg and ManeuverAtStart on the later one.
func LabelManeuvers(legs []Leg, classify ManeuverClassifier) {
	if classify == nil {
		classify = ClassifyManeuver
	}
	for i := 1; i < len(legs); i++ {
		m := classify(legs[i-1].PointOfSail, legs[i].PointOfSail)
		legs[i-1].ManeuverAtEnd = m
		legs[i].ManeuverAtStart = m
	}
}
