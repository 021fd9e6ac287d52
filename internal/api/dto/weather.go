// Package dto holds the camelCase wire representations returned by the
// HTTP handlers, decoupled from the internal weathermodel structs so a
// field rename inside the domain never silently changes the public API.
package dto

import (
	"time"

	"github.com/alexscott64/regweather/internal/weathermodel"
)

type AlertResponse struct {
	Code      string                 `json:"code"`
	Severity  string                 `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

type DailyAggregateResponse struct {
	Date               string  `json:"date"`
	RainVolume         float64 `json:"rainVolume"`
	RainIntensityMax   int     `json:"rainIntensityMax"`
	RainProbabilityMax float64 `json:"rainProbabilityMax"`
	WindSpeedMax       float64 `json:"windSpeedMax"`
	TempMin            float64 `json:"tempMin"`
	TempMax            float64 `json:"tempMax"`
}

type WeatherResponse struct {
	CityID   string `json:"cityId"`
	CityName string `json:"cityName"`

	Timestamp time.Time `json:"timestamp"`

	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feelsLike"`
	Humidity      float64 `json:"humidity"`
	Pressure      float64 `json:"pressure"`
	Visibility    float64 `json:"visibility"`
	Clouds        float64 `json:"clouds"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection int     `json:"windDirection"`

	RainProbability    float64 `json:"rainProbability"`
	Rain1h             float64 `json:"rain1h"`
	RainAccumulatedDay float64 `json:"rainAccumulatedDay"`

	TempMin float64 `json:"tempMin"`
	TempMax float64 `json:"tempMax"`
	IsDay   bool    `json:"isDay"`

	RainfallIntensity int    `json:"rainfallIntensity"`
	WeatherCode       int    `json:"weatherCode"`
	Description       string `json:"description"`

	Alerts []AlertResponse         `json:"alerts"`
	Daily  *DailyAggregateResponse `json:"dailyAggregate,omitempty"`
}

func ToWeatherResponse(w weathermodel.Weather) WeatherResponse {
	alerts := make([]AlertResponse, 0, len(w.Alerts))
	for _, a := range w.Alerts {
		alerts = append(alerts, AlertResponse{
			Code:      string(a.Code),
			Severity:  string(a.Severity),
			Message:   a.Description,
			Timestamp: a.Timestamp,
			Details:   a.Details,
		})
	}

	resp := WeatherResponse{
		CityID:             w.CityID,
		CityName:           w.CityName,
		Timestamp:          w.Timestamp,
		Temperature:        w.Temperature,
		FeelsLike:          w.FeelsLike,
		Humidity:           w.Humidity,
		Pressure:           w.Pressure,
		Visibility:         w.Visibility,
		Clouds:             w.Clouds,
		WindSpeed:          w.WindSpeed,
		WindDirection:      w.WindDirection,
		RainProbability:    w.RainProbability,
		Rain1h:             w.Rain1h,
		RainAccumulatedDay: w.RainAccumulatedDay,
		TempMin:            w.TempMin,
		TempMax:            w.TempMax,
		IsDay:              w.IsDay,
		RainfallIntensity:  w.RainfallIntensity,
		WeatherCode:        w.WeatherCode,
		Description:        w.Description,
		Alerts:             alerts,
	}
	if w.Daily != nil {
		resp.Daily = &DailyAggregateResponse{
			Date:               w.Daily.Date,
			RainVolume:         w.Daily.RainVolume,
			RainIntensityMax:   w.Daily.RainIntensityMax,
			RainProbabilityMax: w.Daily.RainProbabilityMax,
			WindSpeedMax:       w.Daily.WindSpeedMax,
			TempMin:            w.Daily.TempMin,
			TempMax:            w.Daily.TempMax,
		}
	}
	return resp
}

type DailyForecastResponse struct {
	Date               string  `json:"date"`
	TempMin            float64 `json:"tempMin"`
	TempMax            float64 `json:"tempMax"`
	PrecipitationMM    float64 `json:"precipitationMm"`
	RainProbability    float64 `json:"rainProbability"`
	RainfallIntensity  int     `json:"rainfallIntensity"`
	WindSpeedMax       float64 `json:"windSpeedMax"`
	WindDirection      int     `json:"windDirection"`
	UVIndex            float64 `json:"uvIndex"`
	Sunrise            string  `json:"sunrise"`
	Sunset             string  `json:"sunset"`
	PrecipitationHours float64 `json:"precipitationHours"`
	WeatherCode        int     `json:"weatherCode"`
	Description        string  `json:"description"`
}

func ToDailyForecastResponse(d weathermodel.DailyForecast) DailyForecastResponse {
	return DailyForecastResponse{
		Date:               d.Date,
		TempMin:            d.TempMin,
		TempMax:            d.TempMax,
		PrecipitationMM:    d.PrecipitationMM,
		RainProbability:    d.RainProbability,
		RainfallIntensity:  d.RainfallIntensity,
		WindSpeedMax:       d.WindSpeedMax,
		WindDirection:      d.WindDirection,
		UVIndex:            d.UVIndex,
		Sunrise:            d.Sunrise,
		Sunset:             d.Sunset,
		PrecipitationHours: d.PrecipitationHours,
		WeatherCode:        d.WeatherCode,
		Description:        d.Description,
	}
}

type HourlyForecastResponse struct {
	Timestamp                string  `json:"timestamp"`
	Temperature              float64 `json:"temperature"`
	Precipitation            float64 `json:"precipitation"`
	PrecipitationProbability int     `json:"precipitationProbability"`
	RainfallIntensity        int     `json:"rainfallIntensity"`
	Humidity                 int     `json:"humidity"`
	WindSpeed                float64 `json:"windSpeed"`
	WindDirection            int     `json:"windDirection"`
	CloudCover               int     `json:"cloudCover"`
	WeatherCode              int     `json:"weatherCode"`
	Description              string  `json:"description"`
}

func ToHourlyForecastResponse(h weathermodel.HourlyForecast) HourlyForecastResponse {
	return HourlyForecastResponse{
		Timestamp:                h.Timestamp,
		Temperature:              h.Temperature,
		Precipitation:            h.Precipitation,
		PrecipitationProbability: h.PrecipitationProbability,
		RainfallIntensity:        h.RainfallIntensity,
		Humidity:                 h.Humidity,
		WindSpeed:                h.WindSpeed,
		WindDirection:            h.WindDirection,
		CloudCover:               h.CloudCover,
		WeatherCode:              h.WeatherCode,
		Description:              h.Description,
	}
}

type ExtendedForecastResponse struct {
	CityID            string                   `json:"cityId"`
	CityName          string                   `json:"cityName"`
	CityState         string                   `json:"cityState"`
	CurrentWeather    WeatherResponse          `json:"currentWeather"`
	DailyForecasts    []DailyForecastResponse  `json:"dailyForecasts"`
	HourlyForecasts   []HourlyForecastResponse `json:"hourlyForecasts"`
	ExtendedAvailable bool                     `json:"extendedAvailable"`
}

func ToExtendedForecastResponse(ef weathermodel.ExtendedForecast) ExtendedForecastResponse {
	daily := make([]DailyForecastResponse, 0, len(ef.DailyForecasts))
	for _, d := range ef.DailyForecasts {
		daily = append(daily, ToDailyForecastResponse(d))
	}
	hourly := make([]HourlyForecastResponse, 0, len(ef.HourlyForecasts))
	for _, h := range ef.HourlyForecasts {
		hourly = append(hourly, ToHourlyForecastResponse(h))
	}
	return ExtendedForecastResponse{
		CityID:            ef.CityID,
		CityName:          ef.CityName,
		CityState:         ef.CityState,
		CurrentWeather:    ToWeatherResponse(ef.CurrentWeather),
		DailyForecasts:    daily,
		HourlyForecasts:   hourly,
		ExtendedAvailable: ef.ExtendedAvailable,
	}
}

type NeighborResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

type CityResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type NeighborsResponse struct {
	CenterCity CityResponse       `json:"centerCity"`
	Neighbors  []NeighborResponse `json:"neighbors"`
}

func ToNeighborsResponse(center weathermodel.City, neighbors []weathermodel.City, distances []float64) NeighborsResponse {
	out := make([]NeighborResponse, 0, len(neighbors))
	for i, n := range neighbors {
		out = append(out, NeighborResponse{ID: n.ID, Name: n.Name, Distance: distances[i]})
	}
	return NeighborsResponse{
		CenterCity: CityResponse{ID: center.ID, Name: center.Name, State: center.State},
		Neighbors:  out,
	}
}
