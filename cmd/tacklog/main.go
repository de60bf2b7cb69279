// Command tacklog analyses recorded sailing telemetry: it splits each track
// into legs, labels the maneuvers between them, groups them into tack series
// and calibrates the compass against GPS bearings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/tacklog/internal/config"
	"github.com/banshee-data/tacklog/internal/pipeline"
	"github.com/banshee-data/tacklog/internal/storage/sqlite"
	"github.com/banshee-data/tacklog/internal/units"
	"github.com/banshee-data/tacklog/internal/version"
)

var (
	configPath  = flag.String("config", "", "Tuning config JSON (default: "+config.DefaultConfigPath+" when present)")
	dbPath      = flag.String("db", "", "Record runs in this SQLite database")
	windDeg     = flag.String("wind", "", "Wind direction in degrees true, the direction it blows from")
	speedUnits  = flag.String("units", units.KTS, "Speed units for output ("+units.GetValidUnitsString()+")")
	timezone    = flag.String("tz", "UTC", "Timezone for printed timestamps")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// options is the parsed command line.
type options struct {
	tuning *config.TuningConfig
	units  string
	loc    *time.Location
	dbPath string
	files  []string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] samples.json...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("tacklog"))
		return
	}

	opts, err := parseOptions(*configPath, *windDeg, *speedUnits, *timezone, *dbPath, flag.Args())
	if err != nil {
		log.Fatalf("tacklog: %v", err)
	}
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("tacklog: %v", err)
	}
}

// parseOptions validates the flag values and loads the tuning config.
func parseOptions(cfgPath, wind, speedUnits, tz, db string, files []string) (*options, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no sample files given")
	}
	if !units.IsValid(speedUnits) {
		return nil, fmt.Errorf("invalid units %q, want one of %s", speedUnits, units.GetValidUnitsString())
	}
	loc, err := units.LoadTimezone(tz)
	if err != nil {
		return nil, err
	}

	tuning, err := loadTuning(cfgPath)
	if err != nil {
		return nil, err
	}
	if wind != "" {
		deg, err := strconv.ParseFloat(wind, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid -wind %q: %w", wind, err)
		}
		tuning.WindDirectionDeg = &deg
		if err := tuning.Validate(); err != nil {
			return nil, err
		}
	}

	return &options{
		tuning: tuning,
		units:  speedUnits,
		loc:    loc,
		dbPath: db,
		files:  files,
	}, nil
}

// loadTuning reads path, or the canonical defaults file when path is empty.
// Missing defaults fall back to the compiled-in values.
func loadTuning(path string) (*config.TuningConfig, error) {
	if path != "" {
		return config.LoadTuningConfig(path)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadTuningConfig(config.DefaultConfigPath)
	}
	return config.DefaultTuningConfig(), nil
}

// fileResult pairs an input file with its analysis.
type fileResult struct {
	path string
	res  *pipeline.Result
}

// run analyses every file concurrently, then reports and records the
// results in input order.
func run(ctx context.Context, opts *options, out io.Writer) error {
	cfg := pipeline.ConfigFromTuning(opts.tuning)
	results := make([]fileResult, len(opts.files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range opts.files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			samples, err := loadSamples(path)
			if err != nil {
				return err
			}
			res, err := pipeline.Analyze(samples, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = fileResult{path: path, res: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if err := printReport(out, r.path, r.res, opts.units, opts.loc); err != nil {
			return err
		}
	}

	if opts.dbPath == "" {
		return nil
	}
	db, err := sqlite.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewAnalysisRunStore(db.DB)
	params := sqlite.RunParams{Tuning: opts.tuning, Units: opts.units}
	for _, r := range results {
		stored, err := store.RecordResult(r.path, params, r.res)
		if err != nil {
			return fmt.Errorf("record %s: %w", r.path, err)
		}
		fmt.Fprintf(out, "recorded %s as run %s\n", r.path, stored.RunID)
	}
	return nil
}
