package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// EarthRadius is the mean Earth radius in meters used by the
// equirectangular projection.
const EarthRadius = 6371000.0

// Location is a latitude/longitude pair in radians.
type Location struct {
	Latitude  float64
	Longitude float64
}

// FromDegrees builds a Location from degree coordinates.
func FromDegrees(latDeg, lonDeg float64) Location {
	return Location{Latitude: Radians(latDeg), Longitude: Radians(lonDeg)}
}

// Offset returns the planar vector in meters from l to o, x east and y
// north: x = Δlon·cos(φm)·R, y = Δlat·R, where φm is the pair's mean
// latitude and Δlon is wrapped across the antimeridian.
func (l Location) Offset(o Location) r2.Vec {
	mid := (l.Latitude + o.Latitude) / 2
	return r2.Vec{
		X: NormalizeSigned(o.Longitude-l.Longitude) * math.Cos(mid) * EarthRadius,
		Y: (o.Latitude - l.Latitude) * EarthRadius,
	}
}

// DistanceTo returns the planar distance in meters between two locations.
func (l Location) DistanceTo(o Location) float64 {
	return r2.Norm(l.Offset(o))
}

// BearingTo returns the bearing from l to o in [0, 2π), measured clockwise
// from north. ok is false when both locations coincide.
func (l Location) BearingTo(o Location) (bearing float64, ok bool) {
	return PlanarBearing(r2.Vec{}, l.Offset(o))
}

// Projection is an equirectangular projection around a fixed origin. All
// points share the origin's latitude scale, so lines and intersections
// computed in the plane map back consistently.
type Projection struct {
	Origin Location
	cosLat float64
}

// NewProjection returns a projection centred on origin.
func NewProjection(origin Location) Projection {
	return Projection{Origin: origin, cosLat: math.Cos(origin.Latitude)}
}

// Project maps l to meters east and north of the origin.
func (p Projection) Project(l Location) r2.Vec {
	return r2.Vec{
		X: NormalizeSigned(l.Longitude-p.Origin.Longitude) * p.cosLat * EarthRadius,
		Y: (l.Latitude - p.Origin.Latitude) * EarthRadius,
	}
}

// Unproject is the inverse of Project. At the poles every point reports the
// origin's longitude.
func (p Projection) Unproject(v r2.Vec) Location {
	lat := p.Origin.Latitude + v.Y/EarthRadius
	if math.Abs(p.cosLat) < 1e-12 {
		return Location{Latitude: lat, Longitude: p.Origin.Longitude}
	}
	return Location{
		Latitude:  lat,
		Longitude: NormalizeSigned(p.Origin.Longitude + v.X/(EarthRadius*p.cosLat)),
	}
}

// PlanarBearing returns the compass bearing of the vector from a to b.
func PlanarBearing(a, b r2.Vec) (float64, bool) {
	d := r2.Sub(b, a)
	if d.X == 0 && d.Y == 0 {
		return 0, false
	}
	return NormalizeBearing(math.Atan2(d.X, d.Y)), true
}
