package weathermodel

// HourlyForecast is one hourly sample in the 0-168h forecast horizon.
// Timestamp is an ISO-8601 string in America/Sao_Paulo local time. The
// mappers store it without a UTC offset ("2006-01-02T15:04");
// ParseOpenMeteoTimestamp also accepts the RFC3339 form with an offset.
// WeatherCode/Description are filled by the classifier when a mapper builds
// the entry.
type HourlyForecast struct {
	Timestamp              string
	Temperature            float64
	ApparentTemperature    *float64
	Precipitation          float64
	PrecipitationProbability int
	RainfallIntensity      int
	Humidity               int
	WindSpeed              float64
	WindDirection          int
	CloudCover             int
	Pressure               *float64
	Visibility             *float64
	UVIndex                *float64
	IsDay                  *int
	WeatherCode            int
	Description            string
}
