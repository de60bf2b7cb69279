package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/banshee-data/tacklog/internal/config"
	"github.com/banshee-data/tacklog/internal/timeutil"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("analysis run not found")

// RunParams is the configuration a run was produced with, stored as JSON so
// the run can be reproduced.
type RunParams struct {
	Tuning *config.TuningConfig `json:"tuning"`
	Units  string               `json:"units,omitempty"`
}

// AnalysisRun is the stored summary of one pipeline run.
type AnalysisRun struct {
	RunID                   string          `json:"run_id"`
	Source                  string          `json:"source"`
	CreatedAt               int64           `json:"created_at"` // unix nanoseconds
	SampleCount             int             `json:"sample_count"`
	FixCount                int             `json:"fix_count"`
	InterpolatedCount       int             `json:"interpolated_count"`
	TimeOffsetMillis        int64           `json:"time_offset_ms"`
	LegCount                int             `json:"leg_count"`
	SeriesCount             int             `json:"series_count"`
	DistanceM               float64         `json:"distance_m"`
	DurationMillis          int64           `json:"duration_ms"`
	CompassOffset           *float64        `json:"compass_offset,omitempty"`
	CalibrationObservations int             `json:"calibration_observations"`
	ParamsJSON              json.RawMessage `json:"params_json,omitempty"`
}

// Params decodes ParamsJSON.
func (r *AnalysisRun) Params() (*RunParams, error) {
	if len(r.ParamsJSON) == 0 {
		return nil, nil
	}
	var p RunParams
	if err := json.Unmarshal(r.ParamsJSON, &p); err != nil {
		return nil, fmt.Errorf("decode params for run %s: %w", r.RunID, err)
	}
	return &p, nil
}

// Crossing is a stored leg intersection.
type Crossing struct {
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	TimeMillis *int64  `json:"time_ms,omitempty"`
}

// LegRecord is one stored leg.
type LegRecord struct {
	LegIndex        int       `json:"leg_index"`
	StartIndex      int       `json:"start_index"`
	EndIndex        int       `json:"end_index"`
	StartTimeMillis int64     `json:"start_time_ms"`
	EndTimeMillis   int64     `json:"end_time_ms"`
	PointOfSail     string    `json:"point_of_sail"`
	ManeuverAtStart string    `json:"maneuver_at_start"`
	ManeuverAtEnd   string    `json:"maneuver_at_end"`
	HasMainPoints   bool      `json:"has_main_points"`
	MainDistanceM   float64   `json:"main_distance_m"`
	MainBearing     *float64  `json:"main_bearing,omitempty"`
	StartCrossing   *Crossing `json:"start_crossing,omitempty"`
	EndCrossing     *Crossing `json:"end_crossing,omitempty"`
}

// SeriesRecord is one stored tack series.
type SeriesRecord struct {
	SeriesIndex          int      `json:"series_index"`
	SeriesType           string   `json:"series_type"`
	LegIndices           []int    `json:"leg_indices"`
	AvgPortBearing       *float64 `json:"avg_port_bearing,omitempty"`
	AvgStarboardBearing  *float64 `json:"avg_starboard_bearing,omitempty"`
	AvgWindDirection     *float64 `json:"avg_wind_direction,omitempty"`
	AvgPortVelocity      *float64 `json:"avg_port_velocity,omitempty"`
	AvgStarboardVelocity *float64 `json:"avg_starboard_velocity,omitempty"`
	TackAngle            *float64 `json:"tack_angle,omitempty"`
	AvgVMG               *float64 `json:"avg_vmg,omitempty"`
}

// AnalysisRunStore provides persistence for analysis runs, their legs and
// their series.
type AnalysisRunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewAnalysisRunStore creates a new AnalysisRunStore.
func NewAnalysisRunStore(db *sql.DB) *AnalysisRunStore {
	return &AnalysisRunStore{db: db, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock used for CreatedAt and busy retries.
func (s *AnalysisRunStore) SetClock(c timeutil.Clock) {
	s.clock = c
}

func (s *AnalysisRunStore) retry(fn func() error) error {
	return retryOnBusyWith(s.clock, fn)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
}

// inTx runs fn inside a transaction, retried as a whole on SQLITE_BUSY.
func (s *AnalysisRunStore) inTx(fn func(tx *sql.Tx) error) error {
	return s.retry(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// prepareRun fills in a missing RunID and CreatedAt.
func (s *AnalysisRunStore) prepareRun(run *AnalysisRun) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = s.clock.Now().UnixNano()
	}
}

// InsertRun persists a run. If RunID is empty, a UUID is generated; if
// CreatedAt is zero, the store clock is used.
func (s *AnalysisRunStore) InsertRun(run *AnalysisRun) error {
	s.prepareRun(run)
	return s.retry(func() error {
		return insertRun(s.db, run)
	})
}

// RecordRun stores a run with its legs and series in one transaction, so a
// failed child insert leaves no run row behind.
func (s *AnalysisRunStore) RecordRun(run *AnalysisRun, legs []LegRecord, series []SeriesRecord) error {
	s.prepareRun(run)
	return s.inTx(func(tx *sql.Tx) error {
		if err := insertRun(tx, run); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if err := insertLegs(tx, run.RunID, legs); err != nil {
			return fmt.Errorf("insert legs: %w", err)
		}
		if err := insertSeries(tx, run.RunID, series); err != nil {
			return fmt.Errorf("insert series: %w", err)
		}
		return nil
	})
}

func insertRun(x execer, run *AnalysisRun) error {
	var params interface{}
	if len(run.ParamsJSON) > 0 {
		params = string(run.ParamsJSON)
	}

	_, err := x.Exec(`
		INSERT INTO analysis_runs (
			run_id, source, created_at, sample_count, fix_count,
			interpolated_count, time_offset_ms, leg_count, series_count,
			distance_m, duration_ms, compass_offset, calibration_observations,
			params_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Source, run.CreatedAt, run.SampleCount, run.FixCount,
		run.InterpolatedCount, run.TimeOffsetMillis, run.LegCount, run.SeriesCount,
		run.DistanceM, run.DurationMillis, nullFloat(run.CompassOffset), run.CalibrationObservations,
		params,
	)
	return err
}

const runColumns = `
	run_id, source, created_at, sample_count, fix_count,
	interpolated_count, time_offset_ms, leg_count, series_count,
	distance_m, duration_ms, compass_offset, calibration_observations,
	params_json`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*AnalysisRun, error) {
	var r AnalysisRun
	var offset sql.NullFloat64
	var params sql.NullString
	err := row.Scan(
		&r.RunID, &r.Source, &r.CreatedAt, &r.SampleCount, &r.FixCount,
		&r.InterpolatedCount, &r.TimeOffsetMillis, &r.LegCount, &r.SeriesCount,
		&r.DistanceM, &r.DurationMillis, &offset, &r.CalibrationObservations,
		&params,
	)
	if err != nil {
		return nil, err
	}
	r.CompassOffset = floatPtr(offset)
	if params.Valid {
		r.ParamsJSON = json.RawMessage(params.String)
	}
	return &r, nil
}

// GetRun returns a single run by ID.
func (s *AnalysisRunStore) GetRun(runID string) (*AnalysisRun, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM analysis_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first. A non-positive limit
// returns all runs.
func (s *AnalysisRunStore) ListRuns(limit int) ([]*AnalysisRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM analysis_runs
		ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*AnalysisRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run together with its legs and series.
func (s *AnalysisRunStore) DeleteRun(runID string) error {
	return s.retry(func() error {
		result, err := s.db.Exec(`DELETE FROM analysis_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
		}
		return nil
	})
}

// InsertLegs stores the legs of a run in one transaction.
func (s *AnalysisRunStore) InsertLegs(runID string, legs []LegRecord) error {
	return s.inTx(func(tx *sql.Tx) error {
		return insertLegs(tx, runID, legs)
	})
}

func insertLegs(x execer, runID string, legs []LegRecord) error {
	stmt, err := x.Prepare(`
		INSERT INTO run_legs (
			run_id, leg_index, start_index, end_index, start_time_ms, end_time_ms,
			point_of_sail, maneuver_at_start, maneuver_at_end,
			has_main_points, main_distance_m, main_bearing,
			start_cross_lat, start_cross_lon, start_cross_ms,
			end_cross_lat, end_cross_lon, end_cross_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range legs {
		sLat, sLon, sMs := crossingArgs(l.StartCrossing)
		eLat, eLon, eMs := crossingArgs(l.EndCrossing)
		if _, err := stmt.Exec(
			runID, l.LegIndex, l.StartIndex, l.EndIndex, l.StartTimeMillis, l.EndTimeMillis,
			l.PointOfSail, l.ManeuverAtStart, l.ManeuverAtEnd,
			l.HasMainPoints, l.MainDistanceM, nullFloat(l.MainBearing),
			sLat, sLon, sMs,
			eLat, eLon, eMs,
		); err != nil {
			return fmt.Errorf("insert leg %d: %w", l.LegIndex, err)
		}
	}
	return nil
}

// ListLegs returns the legs of a run in order.
func (s *AnalysisRunStore) ListLegs(runID string) ([]LegRecord, error) {
	rows, err := s.db.Query(`
		SELECT leg_index, start_index, end_index, start_time_ms, end_time_ms,
		       point_of_sail, maneuver_at_start, maneuver_at_end,
		       has_main_points, main_distance_m, main_bearing,
		       start_cross_lat, start_cross_lon, start_cross_ms,
		       end_cross_lat, end_cross_lon, end_cross_ms
		FROM run_legs
		WHERE run_id = ?
		ORDER BY leg_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query legs: %w", err)
	}
	defer rows.Close()

	var legs []LegRecord
	for rows.Next() {
		var l LegRecord
		var bearing, sLat, sLon, eLat, eLon sql.NullFloat64
		var sMs, eMs sql.NullInt64
		if err := rows.Scan(
			&l.LegIndex, &l.StartIndex, &l.EndIndex, &l.StartTimeMillis, &l.EndTimeMillis,
			&l.PointOfSail, &l.ManeuverAtStart, &l.ManeuverAtEnd,
			&l.HasMainPoints, &l.MainDistanceM, &bearing,
			&sLat, &sLon, &sMs,
			&eLat, &eLon, &eMs,
		); err != nil {
			return nil, fmt.Errorf("scan leg: %w", err)
		}
		l.MainBearing = floatPtr(bearing)
		l.StartCrossing = crossingFrom(sLat, sLon, sMs)
		l.EndCrossing = crossingFrom(eLat, eLon, eMs)
		legs = append(legs, l)
	}
	return legs, rows.Err()
}

// InsertSeries stores the series of a run in one transaction.
func (s *AnalysisRunStore) InsertSeries(runID string, series []SeriesRecord) error {
	return s.inTx(func(tx *sql.Tx) error {
		return insertSeries(tx, runID, series)
	})
}

func insertSeries(x execer, runID string, series []SeriesRecord) error {
	for _, sr := range series {
		legs, err := json.Marshal(sr.LegIndices)
		if err != nil {
			return fmt.Errorf("encode series %d legs: %w", sr.SeriesIndex, err)
		}
		if _, err := x.Exec(`
			INSERT INTO run_series (
				run_id, series_index, series_type, leg_indices,
				avg_port_bearing, avg_starboard_bearing, avg_wind_direction,
				avg_port_velocity, avg_starboard_velocity, tack_angle, avg_vmg
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, sr.SeriesIndex, sr.SeriesType, string(legs),
			nullFloat(sr.AvgPortBearing), nullFloat(sr.AvgStarboardBearing), nullFloat(sr.AvgWindDirection),
			nullFloat(sr.AvgPortVelocity), nullFloat(sr.AvgStarboardVelocity), nullFloat(sr.TackAngle), nullFloat(sr.AvgVMG),
		); err != nil {
			return fmt.Errorf("insert series %d: %w", sr.SeriesIndex, err)
		}
	}
	return nil
}

// ListSeries returns the series of a run in order.
func (s *AnalysisRunStore) ListSeries(runID string) ([]SeriesRecord, error) {
	rows, err := s.db.Query(`
		SELECT series_index, series_type, leg_indices,
		       avg_port_bearing, avg_starboard_bearing, avg_wind_direction,
		       avg_port_velocity, avg_starboard_velocity, tack_angle, avg_vmg
		FROM run_series
		WHERE run_id = ?
		ORDER BY series_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var out []SeriesRecord
	for rows.Next() {
		var sr SeriesRecord
		var legs string
		var port, stbd, wind, portV, stbdV, angle, vmg sql.NullFloat64
		if err := rows.Scan(&sr.SeriesIndex, &sr.SeriesType, &legs,
			&port, &stbd, &wind, &portV, &stbdV, &angle, &vmg); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		if err := json.Unmarshal([]byte(legs), &sr.LegIndices); err != nil {
			return nil, fmt.Errorf("decode series %d legs: %w", sr.SeriesIndex, err)
		}
		sr.AvgPortBearing = floatPtr(port)
		sr.AvgStarboardBearing = floatPtr(stbd)
		sr.AvgWindDirection = floatPtr(wind)
		sr.AvgPortVelocity = floatPtr(portV)
		sr.AvgStarboardVelocity = floatPtr(stbdV)
		sr.TackAngle = floatPtr(angle)
		sr.AvgVMG = floatPtr(vmg)
		out = append(out, sr)
	}
	return out, rows.Err()
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func crossingArgs(c *Crossing) (lat, lon, ms interface{}) {
	if c == nil {
		return nil, nil, nil
	}
	if c.TimeMillis != nil {
		ms = *c.TimeMillis
	}
	return c.Latitude, c.Longitude, ms
}

func crossingFrom(lat, lon sql.NullFloat64, ms sql.NullInt64) *Crossing {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	c := &Crossing{Latitude: lat.Float64, Longitude: lon.Float64}
	if ms.Valid {
		t := ms.Int64
		c.TimeMillis = &t
	}
	return c
}
