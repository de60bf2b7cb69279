package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/tacklog/internal/geo"
	"github.com/banshee-data/tacklog/internal/pipeline"
	"github.com/banshee-data/tacklog/internal/tacks"
	"github.com/banshee-data/tacklog/internal/units"
)

// printReport writes the run summary, the leg table and the series table.
func printReport(out io.Writer, source string, res *pipeline.Result, speedUnits string, loc *time.Location) error {
	sum := res.Summary
	fmt.Fprintf(out, "== %s\n", source)
	fmt.Fprintf(out, "samples %d, fixes %d, interpolated %d, time offset %d ms\n",
		sum.Samples, sum.Fixes, sum.Interpolated, sum.TimeOffsetMillis)
	fmt.Fprintf(out, "distance %.0f m in %s, %d legs (%d with main part), %d series\n",
		sum.DistanceM, sum.Duration.Round(time.Second), sum.Legs, sum.LegsWithMainPoints, sum.Series)
	if line := maneuverLine(sum.Maneuvers); line != "" {
		fmt.Fprintf(out, "maneuvers: %s\n", line)
	}
	if c := res.Calibration; c != nil {
		fmt.Fprintf(out, "compass offset %.1f° from %d observations\n", geo.Degrees(c.CompassOffset), c.Observations)
	}

	if len(res.Legs) > 0 {
		fmt.Fprintln(out)
		if err := writeLegTable(out, res, speedUnits, loc); err != nil {
			return err
		}
	}
	if len(res.Series) > 0 {
		fmt.Fprintln(out)
		if err := writeSeriesTable(out, res, speedUnits); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)
	return nil
}

func writeLegTable(out io.Writer, res *pipeline.Result, speedUnits string, loc *time.Location) error {
	s := res.Samples
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "LEG\tSTART\tDURATION\tPOINT OF SAIL\tMANEUVER\tDIST (m)\tBEARING\tSPEED (%s)\n", speedUnits)
	for i := range res.Legs {
		leg := &res.Legs[i]
		bearing, speed := "-", "-"
		if b, ok := leg.MainBearing(s); ok {
			bearing = fmt.Sprintf("%.0f°", geo.Degrees(b))
		} else if b, ok := leg.Bearing(s); ok {
			bearing = fmt.Sprintf("(%.0f°)", geo.Degrees(b))
		}
		if v, ok := leg.MainVelocity(s); ok {
			speed = fmt.Sprintf("%.2f", units.ConvertKnots(v, speedUnits))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.0f\t%s\t%s\n",
			i,
			units.FormatMillis(s[leg.StartIndex].TimeMillis, loc),
			leg.Duration(s).Round(time.Second),
			leg.PointOfSail,
			leg.ManeuverAtStart,
			leg.Distance(s),
			bearing,
			speed,
		)
	}
	return w.Flush()
}

func writeSeriesTable(out io.Writer, res *pipeline.Result, speedUnits string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SERIES\tTYPE\tLEGS\tWIND\tTACK ANGLE\tPORT\tSTARBOARD\tVMG (%s)\n", speedUnits)
	for i := range res.Series {
		ser := &res.Series[i]
		fmt.Fprintf(w, "%d\t%s\t%d-%d\t%s\t%s\t%s\t%s\t%s\n",
			i,
			ser.Type,
			ser.Legs[0], ser.Legs[len(ser.Legs)-1],
			optDegrees(ser.AvgWindDirection),
			optDegrees(ser.TackAngle),
			optDegrees(ser.AvgPortBearing),
			optDegrees(ser.AvgStarboardBearing),
			optSpeed(ser.AvgVMG, speedUnits),
		)
	}
	return w.Flush()
}

// maneuverLine lists maneuver counts in a stable order.
func maneuverLine(counts map[tacks.ManeuverType]int) string {
	types := make([]tacks.ManeuverType, 0, len(counts))
	for m, n := range counts {
		if n > 0 {
			types = append(types, m)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	line := ""
	for i, m := range types {
		if i > 0 {
			line += ", "
		}
		line += fmt.Sprintf("%s %d", m, counts[m])
	}
	return line
}

func optDegrees(rad *float64) string {
	if rad == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f°", geo.Degrees(*rad))
}

func optSpeed(knots *float64, speedUnits string) string {
	if knots == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", units.ConvertKnots(*knots, speedUnits))
}
