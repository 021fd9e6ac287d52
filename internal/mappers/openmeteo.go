package mappers

import (
	"encoding/json"
	"time"

	"github.com/alexscott64/regweather/internal/weathercond"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

// openMeteoHourlyResponse mirrors the subset of the Open-Meteo /forecast
// "hourly" block this service consumes. Fields are parallel arrays indexed
// by hour, exactly as the upstream API returns them.
type openMeteoHourlyResponse struct {
	Hourly struct {
		Time                 []string   `json:"time"`
		Temperature2m        []float64  `json:"temperature_2m"`
		ApparentTemperature  []*float64 `json:"apparent_temperature"`
		Precipitation        []float64  `json:"precipitation"`
		PrecipitationProb    []float64  `json:"precipitation_probability"`
		RelativeHumidity2m   []float64  `json:"relative_humidity_2m"`
		WindSpeed10m         []float64  `json:"wind_speed_10m"`
		WindDirection10m     []float64  `json:"wind_direction_10m"`
		CloudCover           []float64  `json:"cloud_cover"`
		PressureMSL          []*float64 `json:"pressure_msl"`
		Visibility           []*float64 `json:"visibility"`
		UVIndex              []*float64 `json:"uv_index"`
		IsDay                []*int     `json:"is_day"`
	} `json:"hourly"`
}

// openMeteoDailyResponse mirrors the /forecast "daily" block.
type openMeteoDailyResponse struct {
	Daily struct {
		Time                     []string   `json:"time"`
		Temperature2mMax         []float64  `json:"temperature_2m_max"`
		Temperature2mMin         []float64  `json:"temperature_2m_min"`
		ApparentTemperatureMax   []*float64 `json:"apparent_temperature_max"`
		ApparentTemperatureMin   []*float64 `json:"apparent_temperature_min"`
		PrecipitationSum         []float64  `json:"precipitation_sum"`
		PrecipitationProbMean    []float64  `json:"precipitation_probability_mean"`
		WindSpeed10mMax          []float64  `json:"wind_speed_10m_max"`
		WindDirection10mDominant []float64  `json:"wind_direction_10m_dominant"`
		UVIndexMax               []float64  `json:"uv_index_max"`
		Sunrise                  []string   `json:"sunrise"`
		Sunset                   []string   `json:"sunset"`
		PrecipitationHours       []float64  `json:"precipitation_hours"`
	} `json:"daily"`
}

func at(s []float64, i int, fallback float64) float64 {
	if i < len(s) {
		return s[i]
	}
	return fallback
}

func atPtr(s []*float64, i int) *float64 {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func atStr(s []string, i int, fallback string) string {
	if i < len(s) {
		return s[i]
	}
	return fallback
}

// MapOpenMeteoHourly maps a raw /forecast hourly payload to HourlyForecast
// entities, truncated to maxHours. Missing fields fall back to zero
// values; the classifier runs once per hour so weather_code/description
// are never left unpopulated.
func MapOpenMeteoHourly(raw []byte, maxHours int) ([]weathermodel.HourlyForecast, error) {
	var resp openMeteoHourlyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	limit := len(resp.Hourly.Time)
	if maxHours < limit {
		limit = maxHours
	}

	forecasts := make([]weathermodel.HourlyForecast, 0, limit)
	for i := 0; i < limit; i++ {
		precipMM := at(resp.Hourly.Precipitation, i, 0)
		precipProb := at(resp.Hourly.PrecipitationProb, i, 0)
		rainfallIntensity := weathercond.RainfallIntensity(precipProb, precipMM)
		temperature := at(resp.Hourly.Temperature2m, i, 0)
		clouds := at(resp.Hourly.CloudCover, i, 0)
		windSpeed := at(resp.Hourly.WindSpeed10m, i, 0)
		visibility := atPtr(resp.Hourly.Visibility, i)
		visibilityM := FallbackVisibilityM
		if visibility != nil {
			visibilityM = *visibility
		}

		code, desc := classify(classifyInputs{
			rainfallIntensity: rainfallIntensity,
			precipitationMM:   precipMM,
			windSpeedKMH:      windSpeed,
			cloudsPct:         clouds,
			visibilityM:       visibilityM,
			temperatureC:      temperature,
			rainProbability:   precipProb,
		})

		var isDay *int
		if i < len(resp.Hourly.IsDay) {
			isDay = resp.Hourly.IsDay[i]
		}

		forecasts = append(forecasts, weathermodel.HourlyForecast{
			Timestamp:                atStr(resp.Hourly.Time, i, ""),
			Temperature:              temperature,
			ApparentTemperature:      atPtr(resp.Hourly.ApparentTemperature, i),
			Precipitation:            precipMM,
			PrecipitationProbability: int(precipProb),
			RainfallIntensity:        rainfallIntensity,
			Humidity:                 int(at(resp.Hourly.RelativeHumidity2m, i, 0)),
			WindSpeed:                windSpeed,
			WindDirection:            int(at(resp.Hourly.WindDirection10m, i, 0)),
			CloudCover:               int(clouds),
			Pressure:                 atPtr(resp.Hourly.PressureMSL, i),
			Visibility:               visibility,
			UVIndex:                atPtr(resp.Hourly.UVIndex, i),
			IsDay:                  isDay,
			WeatherCode:            code,
			Description:            desc,
		})
	}
	return forecasts, nil
}

// MapOpenMeteoDaily maps a raw /forecast daily payload to DailyForecast
// entities.
func MapOpenMeteoDaily(raw []byte) ([]weathermodel.DailyForecast, error) {
	var resp openMeteoDailyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	forecasts := make([]weathermodel.DailyForecast, 0, len(resp.Daily.Time))
	for i, date := range resp.Daily.Time {
		tempMax := at(resp.Daily.Temperature2mMax, i, 0)
		tempMin := at(resp.Daily.Temperature2mMin, i, 0)
		precip := at(resp.Daily.PrecipitationSum, i, 0)
		precipHours := at(resp.Daily.PrecipitationHours, i, 0)
		rainProb := at(resp.Daily.PrecipitationProbMean, i, 0)
		windSpeed := at(resp.Daily.WindSpeed10mMax, i, 0)

		// Daily data has no hourly precipitation profile, so the
		// reference period for the intensity score is 24h like the
		// OpenWeather daily mapper.
		precipPerHour := 0.0
		if precip > 0 {
			precipPerHour = precip / 24.0
		}
		rainfallIntensity := weathercond.RainfallIntensity(rainProb, precipPerHour)

		precipPerHourForClassify := 0.0
		if precipHours > 0 {
			precipPerHourForClassify = precip / precipHours
		}

		code, desc := classify(classifyInputs{
			rainfallIntensity: rainfallIntensity,
			precipitationMM:   precipPerHourForClassify,
			windSpeedKMH:      windSpeed,
			cloudsPct:         0,
			visibilityM:       FallbackVisibilityM,
			temperatureC:      (tempMin + tempMax) / 2,
			rainProbability:   rainProb,
		})

		forecasts = append(forecasts, weathermodel.DailyForecast{
			Date:               date,
			TempMin:            tempMin,
			TempMax:            tempMax,
			ApparentTempMin:    atPtr(resp.Daily.ApparentTemperatureMin, i),
			ApparentTempMax:    atPtr(resp.Daily.ApparentTemperatureMax, i),
			PrecipitationMM:    precip,
			RainProbability:    rainProb,
			RainfallIntensity:  rainfallIntensity,
			WindSpeedMax:       windSpeed,
			WindDirection:      int(at(resp.Daily.WindDirection10mDominant, i, 0)),
			UVIndex:            at(resp.Daily.UVIndexMax, i, 0),
			Sunrise:            atStr(resp.Daily.Sunrise, i, "06:00"),
			Sunset:             atStr(resp.Daily.Sunset, i, "18:00"),
			PrecipitationHours: at(resp.Daily.PrecipitationHours, i, 0),
			WeatherCode:        code,
			Description:        desc,
		})
	}
	return forecasts, nil
}

// MapOpenMeteoHourlyToWeather converts a single HourlyForecast (already
// resolved by ExtractCurrentWeatherFromHourly) into a Weather snapshot,
// using the Open-Meteo apparent_temperature when present and falling back
// to the Heat Index/Wind Chill calculation otherwise.
func MapOpenMeteoHourlyToWeather(h weathermodel.HourlyForecast, cityID, cityName string, tempMin, tempMax, rainAccumulatedDay float64) (weathermodel.Weather, error) {
	timestamp, err := ParseOpenMeteoTimestamp(h.Timestamp)
	if err != nil {
		return weathermodel.Weather{}, err
	}

	feelsLike := CalculateFeelsLike(h.Temperature, float64(h.Humidity), h.WindSpeed)
	if h.ApparentTemperature != nil {
		feelsLike = *h.ApparentTemperature
	}

	pressure := FallbackPressureHPa
	if h.Pressure != nil {
		pressure = *h.Pressure
	}
	visibility := FallbackVisibilityM
	if h.Visibility != nil {
		visibility = *h.Visibility
	}

	isDay := true
	if h.IsDay != nil {
		isDay = *h.IsDay != 0
	}

	return weathermodel.Weather{
		CityID:             cityID,
		CityName:           cityName,
		Timestamp:          timestamp,
		Temperature:        h.Temperature,
		FeelsLike:          feelsLike,
		Humidity:           float64(h.Humidity),
		Pressure:           pressure,
		Visibility:         visibility,
		Clouds:             float64(h.CloudCover),
		WindSpeed:          h.WindSpeed,
		WindDirection:      h.WindDirection,
		RainProbability:    float64(h.PrecipitationProbability),
		Rain1h:             h.Precipitation,
		RainAccumulatedDay: rainAccumulatedDay,
		TempMin:            tempMin,
		TempMax:            tempMax,
		IsDay:              isDay,
		RainfallIntensity:  h.RainfallIntensity,
		WeatherCode:        h.WeatherCode,
		Description:        h.Description,
	}, nil
}

// ParseOpenMeteoTimestamp parses an Open-Meteo timestamp, which is either
// full RFC3339 or the bare "timezone=America/Sao_Paulo" local form without
// an offset.
func ParseOpenMeteoTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02T15:04", s, loc)
}
