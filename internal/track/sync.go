package track

import "github.com/banshee-data/tacklog/internal/monitoring"

// SynchronizeTime shifts every sample timestamp by the mean satellite lag.
//
// The offset satelliteTime − deviceTime is averaged (integer division) over
// samples with a real fix carrying a satellite timestamp. Only a strictly
// positive mean is applied: some loggers run behind GPS time, while a zero
// or negative mean is left alone. Returns the applied offset in ms.
func SynchronizeTime(samples []Sample) int64 {
	var sum, count int64
	for i := range samples {
		s := &samples[i]
		if !s.HasLocation() || s.Position.SatelliteTimeMillis == nil {
			continue
		}
		sum += *s.Position.SatelliteTimeMillis - s.TimeMillis
		count++
	}
	if count == 0 {
		return 0
	}

	offset := sum / count
	if offset <= 0 {
		return 0
	}

	for i := range samples {
		samples[i].TimeMillis += offset
	}
	monitoring.Componentf("TimeSynchronizer", "shifted %d samples by %d ms (%d satellite stamps)",
		len(samples), offset, count)
	return offset
}
