package mappers

import "github.com/alexscott64/regweather/internal/weathercond"

// classifyInputs is the common set of derived metrics C2 needs, gathered
// from whichever entity is being finalized.
type classifyInputs struct {
	rainfallIntensity int
	precipitationMM   float64
	windSpeedKMH      float64
	cloudsPct         float64
	visibilityM       float64
	temperatureC      float64
	rainProbability   float64
}

func classify(in classifyInputs) (int, string) {
	return weathercond.Classify(
		in.rainfallIntensity,
		in.precipitationMM,
		in.windSpeedKMH,
		in.cloudsPct,
		in.visibilityM,
		in.temperatureC,
		in.rainProbability,
	)
}
