package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// The values in it must match the fallbacks of the Get* accessors.
const DefaultConfigPath = "config/tuning.defaults.json"

// MinSeriesLegsFloor is the smallest accepted min_series_legs: a tack
// series always holds at least four legs.
const MinSeriesLegsFloor = 4

// Maneuver table names accepted by maneuver_table.
const (
	ManeuverTableIntended  = "intended"
	ManeuverTableUngrouped = "ungrouped"
)

// TuningConfig represents the root configuration for the analysis stages.
// Every field is optional; omitted fields fall back to the defaults returned
// by the Get* methods, so partial configs are safe.
type TuningConfig struct {
	// Segmentation params
	OffBearingThresholdDeg *float64 `json:"off_bearing_threshold_deg,omitempty"`
	OffBearingRun          *int     `json:"off_bearing_run,omitempty"`
	RefineRadius           *int     `json:"refine_radius,omitempty"`

	// Leg geometry params
	MainPartMinDistanceM    *float64 `json:"main_part_min_distance_m,omitempty"`
	MainPointsMinSeparation *float64 `json:"main_points_min_separation_m,omitempty"`
	DegenerateSpanM         *float64 `json:"degenerate_span_m,omitempty"`

	// Classification params
	ManeuverTable    *string  `json:"maneuver_table,omitempty"`
	WindDirectionDeg *float64 `json:"wind_direction_deg,omitempty"` // wind FROM, degrees true
	MinSeriesLegs    *int     `json:"min_series_legs,omitempty"`

	// Orientation calibration params
	HistogramBuckets   *int     `json:"histogram_buckets,omitempty"`
	GravityUnit        *float64 `json:"gravity_unit,omitempty"` // accelerometer reading of 1 g
	MinGravityFraction *float64 `json:"min_gravity_fraction,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated with
// its default. WindDirectionDeg stays nil: there is no default wind.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		OffBearingThresholdDeg:  ptrFloat64(45),
		OffBearingRun:           ptrInt(2),
		RefineRadius:            ptrInt(10),
		MainPartMinDistanceM:    ptrFloat64(20),
		MainPointsMinSeparation: ptrFloat64(10),
		DegenerateSpanM:         ptrFloat64(1),
		ManeuverTable:           ptrString(ManeuverTableIntended),
		MinSeriesLegs:           ptrInt(4),
		HistogramBuckets:        ptrInt(10),
		GravityUnit:             ptrFloat64(9.80665),
		MinGravityFraction:      ptrFloat64(0.1),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/storage/sqlite/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.OffBearingThresholdDeg != nil {
		if *c.OffBearingThresholdDeg <= 0 || *c.OffBearingThresholdDeg >= 180 {
			return fmt.Errorf("off_bearing_threshold_deg must be in (0, 180), got %f", *c.OffBearingThresholdDeg)
		}
	}
	if c.OffBearingRun != nil && *c.OffBearingRun < 1 {
		return fmt.Errorf("off_bearing_run must be at least 1, got %d", *c.OffBearingRun)
	}
	if c.RefineRadius != nil && *c.RefineRadius < 0 {
		return fmt.Errorf("refine_radius must be non-negative, got %d", *c.RefineRadius)
	}
	if c.MainPartMinDistanceM != nil && *c.MainPartMinDistanceM < 0 {
		return fmt.Errorf("main_part_min_distance_m must be non-negative, got %f", *c.MainPartMinDistanceM)
	}
	if c.MainPointsMinSeparation != nil && *c.MainPointsMinSeparation < 0 {
		return fmt.Errorf("main_points_min_separation_m must be non-negative, got %f", *c.MainPointsMinSeparation)
	}
	if c.DegenerateSpanM != nil && *c.DegenerateSpanM < 0 {
		return fmt.Errorf("degenerate_span_m must be non-negative, got %f", *c.DegenerateSpanM)
	}
	if c.ManeuverTable != nil {
		switch *c.ManeuverTable {
		case ManeuverTableIntended, ManeuverTableUngrouped:
		default:
			return fmt.Errorf("maneuver_table must be %q or %q, got %q",
				ManeuverTableIntended, ManeuverTableUngrouped, *c.ManeuverTable)
		}
	}
	if c.WindDirectionDeg != nil {
		if *c.WindDirectionDeg < 0 || *c.WindDirectionDeg >= 360 {
			return fmt.Errorf("wind_direction_deg must be in [0, 360), got %f", *c.WindDirectionDeg)
		}
	}
	if c.MinSeriesLegs != nil && *c.MinSeriesLegs < MinSeriesLegsFloor {
		return fmt.Errorf("min_series_legs must be at least %d, got %d", MinSeriesLegsFloor, *c.MinSeriesLegs)
	}
	if c.HistogramBuckets != nil && *c.HistogramBuckets < 1 {
		return fmt.Errorf("histogram_buckets must be at least 1, got %d", *c.HistogramBuckets)
	}
	if c.GravityUnit != nil && *c.GravityUnit <= 0 {
		return fmt.Errorf("gravity_unit must be positive, got %f", *c.GravityUnit)
	}
	if c.MinGravityFraction != nil {
		if *c.MinGravityFraction < 0 || *c.MinGravityFraction > 1 {
			return fmt.Errorf("min_gravity_fraction must be between 0 and 1, got %f", *c.MinGravityFraction)
		}
	}
	return nil
}

// GetOffBearingThresholdDeg returns the off_bearing_threshold_deg value or the default.
func (c *TuningConfig) GetOffBearingThresholdDeg() float64 {
	if c.OffBearingThresholdDeg == nil {
		return 45
	}
	return *c.OffBearingThresholdDeg
}

// GetOffBearingRun returns the off_bearing_run value or the default.
func (c *TuningConfig) GetOffBearingRun() int {
	if c.OffBearingRun == nil {
		return 2
	}
	return *c.OffBearingRun
}

// GetRefineRadius returns the refine_radius value or the default.
func (c *TuningConfig) GetRefineRadius() int {
	if c.RefineRadius == nil {
		return 10
	}
	return *c.RefineRadius
}

// GetMainPartMinDistanceM returns the main_part_min_distance_m value or the default.
func (c *TuningConfig) GetMainPartMinDistanceM() float64 {
	if c.MainPartMinDistanceM == nil {
		return 20
	}
	return *c.MainPartMinDistanceM
}

// GetMainPointsMinSeparation returns the main_points_min_separation_m value or the default.
func (c *TuningConfig) GetMainPointsMinSeparation() float64 {
	if c.MainPointsMinSeparation == nil {
		return 10
	}
	return *c.MainPointsMinSeparation
}

// GetDegenerateSpanM returns the degenerate_span_m value or the default.
func (c *TuningConfig) GetDegenerateSpanM() float64 {
	if c.DegenerateSpanM == nil {
		return 1
	}
	return *c.DegenerateSpanM
}

// GetManeuverTable returns the maneuver_table value or the default.
func (c *TuningConfig) GetManeuverTable() string {
	if c.ManeuverTable == nil || *c.ManeuverTable == "" {
		return ManeuverTableIntended
	}
	return *c.ManeuverTable
}

// GetWindDirectionDeg returns the configured wind direction, if any.
func (c *TuningConfig) GetWindDirectionDeg() (float64, bool) {
	if c.WindDirectionDeg == nil {
		return 0, false
	}
	return *c.WindDirectionDeg, true
}

// GetMinSeriesLegs returns the min_series_legs value or the default.
func (c *TuningConfig) GetMinSeriesLegs() int {
	if c.MinSeriesLegs == nil {
		return 4
	}
	return *c.MinSeriesLegs
}

// GetHistogramBuckets returns the histogram_buckets value or the default.
func (c *TuningConfig) GetHistogramBuckets() int {
	if c.HistogramBuckets == nil {
		return 10
	}
	return *c.HistogramBuckets
}

// GetGravityUnit returns the gravity_unit value or the default (m/s²).
func (c *TuningConfig) GetGravityUnit() float64 {
	if c.GravityUnit == nil {
		return 9.80665
	}
	return *c.GravityUnit
}

// GetMinGravityFraction returns the min_gravity_fraction value or the default.
func (c *TuningConfig) GetMinGravityFraction() float64 {
	if c.MinGravityFraction == nil {
		return 0.1
	}
	return *c.MinGravityFraction
}
