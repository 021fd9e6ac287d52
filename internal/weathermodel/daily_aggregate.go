package weathermodel

// DailyAggregatedMetrics summarizes a single target day from hourly+daily
// forecasts combined.
type DailyAggregatedMetrics struct {
	Date            string
	RainVolume      float64
	RainIntensityMax int
	RainProbabilityMax float64
	WindSpeedMax    float64
	TempMin         float64
	TempMax         float64
}

// ExtendedForecast is the consolidated view returned by the detailed
// forecast use case (C11).
type ExtendedForecast struct {
	CityID            string
	CityName          string
	CityState         string
	CurrentWeather    Weather
	DailyForecasts    []DailyForecast // at most 16
	HourlyForecasts   []HourlyForecast // at most 168
	ExtendedAvailable bool
}
