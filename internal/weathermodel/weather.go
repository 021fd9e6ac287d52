package weathermodel

import "time"

// CloudsDescription buckets a cloud-cover percentage into a five-band
// Portuguese description.
type CloudsDescription string

const (
	CloudsClear       CloudsDescription = "Limpo"
	CloudsPartlyCloud CloudsDescription = "Parcialmente nublado"
	CloudsCloudy      CloudsDescription = "Nublado"
	CloudsVeryCloudy  CloudsDescription = "Muito nublado"
	CloudsOvercast    CloudsDescription = "Encoberto"
)

// Weather is the current-conditions snapshot for a city at a point in time.
type Weather struct {
	CityID   string
	CityName string
	Timestamp time.Time // always carries a zone; America/Sao_Paulo on the wire

	Temperature   float64
	FeelsLike     float64
	Humidity      float64
	Pressure      float64
	Visibility    float64
	Clouds        float64
	WindSpeed     float64
	WindDirection int

	RainProbability    float64
	Rain1h             float64
	RainAccumulatedDay float64

	TempMin float64
	TempMax float64
	IsDay   bool

	// Derived, filled from the rainfall/condition classifiers (C1/C2) by the
	// mapper that constructs the Weather.
	RainfallIntensity int
	WeatherCode       int
	Description       string

	Alerts  []WeatherAlert
	Daily   *DailyAggregatedMetrics
}

// CloudsDescriptionBand returns the five-band PT-BR description for the
// current cloud cover.
func (w Weather) CloudsDescriptionBand() CloudsDescription {
	switch {
	case w.Clouds < 10:
		return CloudsClear
	case w.Clouds < 30:
		return CloudsPartlyCloud
	case w.Clouds < 60:
		return CloudsCloudy
	case w.Clouds < 85:
		return CloudsVeryCloudy
	default:
		return CloudsOvercast
	}
}
