// Package orientation estimates how the logging device sits in the boat:
// its horizontal frame from the mean acceleration and the offset between
// its compass and the GPS course over ground.
package orientation

import (
	"math"
	"sort"

	"github.com/banshee-data/tacklog/internal/config"
	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/monitoring"
	"github.com/banshee-data/tacklog/internal/track"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// verticalTolerance is the smallest horizontal remainder of the device Y
// axis that still defines a direction; below it the X axis is used.
const verticalTolerance = 1e-3

// Config holds the calibration parameters.
type Config struct {
	HistogramBuckets   int
	GravityUnit        float64 // m/s²
	MinGravityFraction float64
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() Config {
	return ConfigFromTuning(config.DefaultTuningConfig())
}

// ConfigFromTuning builds a Config from the tuning file.
func ConfigFromTuning(t *config.TuningConfig) Config {
	return Config{
		HistogramBuckets:   t.GetHistogramBuckets(),
		GravityUnit:        t.GetGravityUnit(),
		MinGravityFraction: t.GetMinGravityFraction(),
	}
}

// Basis is the device's horizontal frame expressed in device coordinates.
type Basis struct {
	// Forward is the device Y axis (or X when Y points up) made horizontal.
	Forward r3.Vec
	// Right is Forward × Up.
	Right r3.Vec
	Up    r3.Vec
	// Gravity is the mean acceleration the frame was derived from.
	Gravity r3.Vec
}

// Matrix returns the basis as a 3×3 matrix with rows Forward, Right, Up.
func (b Basis) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		b.Forward.X, b.Forward.Y, b.Forward.Z,
		b.Right.X, b.Right.Y, b.Right.Z,
		b.Up.X, b.Up.Y, b.Up.Z,
	})
}

// Calibration is the outcome of Calibrate.
type Calibration struct {
	Basis Basis
	// CompassOffset is GPS bearing minus compass bearing, radians, the
	// centre of the most populated histogram bucket.
	CompassOffset float64
	Observations  int
	Histogram     []float64
}

// HorizontalBasis derives the horizontal frame from the mean acceleration
// over samples that carry one. ok is false when there is no acceleration or
// its mean is weaker than MinGravityFraction of GravityUnit.
func HorizontalBasis(samples []track.Sample, cfg Config) (Basis, bool) {
	var sum r3.Vec
	n := 0
	for i := range samples {
		if a := samples[i].Acceleration; a != nil {
			sum = r3.Add(sum, *a)
			n++
		}
	}
	if n == 0 {
		return Basis{}, false
	}
	avg := r3.Scale(1/float64(n), sum)
	if r3.Norm(avg) < cfg.MinGravityFraction*cfg.GravityUnit {
		return Basis{}, false
	}

	up := r3.Unit(avg)
	forward, ok := horizontal(r3.Vec{Y: 1}, up)
	if !ok {
		forward, _ = horizontal(r3.Vec{X: 1}, up)
	}
	return Basis{
		Forward: forward,
		Right:   r3.Cross(forward, up),
		Up:      up,
		Gravity: avg,
	}, true
}

// horizontal removes the component of axis along up and normalises it.
func horizontal(axis, up r3.Vec) (r3.Vec, bool) {
	h := r3.Sub(axis, r3.Scale(r3.Dot(axis, up), up))
	if r3.Norm(h) < verticalTolerance {
		return r3.Vec{}, false
	}
	return r3.Unit(h), true
}

// CompassBearing projects a magnetic field reading onto the basis and
// returns the bearing of the device's forward axis, [0, 2π).
func (b Basis) CompassBearing(field r3.Vec) (float64, bool) {
	var p mat.VecDense
	p.MulVec(b.Matrix(), mat.NewVecDense(3, []float64{field.X, field.Y, field.Z}))
	north, right := p.AtVec(0), p.AtVec(1)
	if north == 0 && right == 0 {
		return 0, false
	}
	return geo.NormalizeBearing(math.Atan2(-right, north)), true
}

// Calibrate builds the horizontal basis and bins the difference between
// GPS bearing and compass bearing over every sample that has both into a
// histogram spanning [−π, π). The mode bucket's centre is the compass
// offset. Returns nil when the basis cannot be built or nothing was binned.
func Calibrate(samples []track.Sample, cfg Config) *Calibration {
	basis, ok := HorizontalBasis(samples, cfg)
	if !ok {
		monitoring.Componentf("OrientationCalibrator", "skipped: insufficient acceleration signal")
		return nil
	}

	var diffs []float64
	for i := range samples {
		s := &samples[i]
		if s.MagneticField == nil {
			continue
		}
		gps, ok := s.Bearing()
		if !ok {
			continue
		}
		compass, ok := basis.CompassBearing(*s.MagneticField)
		if !ok {
			continue
		}
		diffs = append(diffs, geo.NormalizeBearing(gps-compass+math.Pi)-math.Pi)
	}
	if len(diffs) == 0 || cfg.HistogramBuckets < 1 {
		monitoring.Componentf("OrientationCalibrator", "skipped: no compass observations")
		return nil
	}
	sort.Float64s(diffs)

	dividers := make([]float64, cfg.HistogramBuckets+1)
	floats.Span(dividers, -math.Pi, math.Pi)
	dividers[0] = -math.Pi
	dividers[len(dividers)-1] = math.Nextafter(math.Pi, math.Inf(1))
	hist := stat.Histogram(nil, dividers, diffs, nil)

	bin := floats.MaxIdx(hist)
	width := geo.FullTurn / float64(cfg.HistogramBuckets)
	offset := -math.Pi + (float64(bin)+0.5)*width

	monitoring.Componentf("OrientationCalibrator", "compass offset %.1f° from %d observations",
		geo.Degrees(offset), len(diffs))
	return &Calibration{
		Basis:         basis,
		CompassOffset: offset,
		Observations:  len(diffs),
		Histogram:     hist,
	}
}
