// Package weathercond implements the two pure classification functions the
// rest of the system builds on: C1 (rainfall intensity scoring) and C2
// (proprietary condition-code classification).
package weathercond

import "math"

// RainIntensityReferenceMMH is the heavy-rain anchor used by
// RainfallIntensity (C1): a volume*probability product at or above this
// reference saturates the score at 100.
const RainIntensityReferenceMMH = 30.0

// RainfallIntensity maps a rain probability (0-100) and a precipitation
// volume (mm/h) to a composite 0-100 score (C1).
//
// volume == 0 always yields 0, regardless of probability.
func RainfallIntensity(probabilityPercent, volumeMMPerHour float64) int {
	if volumeMMPerHour == 0 {
		return 0
	}
	raw := (volumeMMPerHour * probabilityPercent / 100) / RainIntensityReferenceMMH * 100
	if raw > 100 {
		raw = 100
	}
	return int(math.Round(raw))
}
