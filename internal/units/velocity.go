package units

// Conversion factors from meters per second.
const (
	mpsToKnots = 1.9438444924406
	mpsToMPH   = 2.2369362920544
	mpsToKMPH  = 3.6
)

// MPSToKnots converts meters per second to knots.
func MPSToKnots(speedMPS float64) float64 {
	return speedMPS * mpsToKnots
}

// KnotsToMPS converts knots to meters per second.
func KnotsToMPS(speedKnots float64) float64 {
	return speedKnots / mpsToKnots
}

// ConvertSpeed converts a speed from meters per second to the target units.
// Unknown units fall back to m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedMPS
	case KTS:
		return speedMPS * mpsToKnots
	case MPH:
		return speedMPS * mpsToMPH
	case KMPH, KPH:
		return speedMPS * mpsToKMPH
	default:
		return speedMPS
	}
}

// ConvertKnots converts a speed in knots, the unit samples carry, to the
// target units.
func ConvertKnots(speedKnots float64, targetUnits string) float64 {
	return ConvertSpeed(KnotsToMPS(speedKnots), targetUnits)
}
