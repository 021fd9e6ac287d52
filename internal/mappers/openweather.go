package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexscott64/regweather/internal/weathercond"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

// openWeatherOneCallResponse mirrors the subset of the One Call API 3.0
// payload this service consumes: current conditions plus optional daily
// and hourly arrays in the same response.
type openWeatherOneCallResponse struct {
	Current *struct {
		DT         int64   `json:"dt"`
		Temp       float64 `json:"temp"`
		FeelsLike  float64 `json:"feels_like"`
		Pressure   float64 `json:"pressure"`
		Humidity   float64 `json:"humidity"`
		UVI        float64 `json:"uvi"`
		Clouds     float64 `json:"clouds"`
		Visibility float64 `json:"visibility"`
		WindSpeed  float64 `json:"wind_speed"`
		WindDeg    int     `json:"wind_deg"`
		Rain       *struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
		Snow *struct {
			OneHour float64 `json:"1h"`
		} `json:"snow"`
		Weather []struct {
			ID          int    `json:"id"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"current"`

	Daily []struct {
		DT   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Pop       float64 `json:"pop"`
		Rain      float64 `json:"rain"`
		Snow      float64 `json:"snow"`
		WindSpeed float64 `json:"wind_speed"`
		WindDeg   int     `json:"wind_deg"`
		UVI       float64 `json:"uvi"`
		Sunrise   int64   `json:"sunrise"`
		Sunset    int64   `json:"sunset"`
	} `json:"daily"`

	Hourly []struct {
		DT        int64   `json:"dt"`
		Temp      float64 `json:"temp"`
		Humidity  float64 `json:"humidity"`
		Clouds    float64 `json:"clouds"`
		WindSpeed float64 `json:"wind_speed"`
		WindDeg   int     `json:"wind_deg"`
		Pop       float64 `json:"pop"`
		Rain      *struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
		Snow *struct {
			OneHour float64 `json:"1h"`
		} `json:"snow"`
		Weather []struct {
			ID          int    `json:"id"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"hourly"`
}

const metersPerSecondToKMH = 3.6

func saoPaulo() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.UTC
	}
	return loc
}

// MapOpenWeatherCurrent maps the One Call "current" block to a Weather
// snapshot. temp_min/temp_max/rain_accumulated_day are filled from the
// first entry of "daily" when present, falling back to the current
// temperature and rain_1h.
func MapOpenWeatherCurrent(raw []byte, cityID, cityName string) (weathermodel.Weather, error) {
	var resp openWeatherOneCallResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return weathermodel.Weather{}, err
	}
	if resp.Current == nil {
		return weathermodel.Weather{}, fmt.Errorf("openweather: response has no current block")
	}
	c := resp.Current

	loc := saoPaulo()
	timestamp := time.Unix(c.DT, 0).In(loc)

	windSpeedKMH := c.WindSpeed * metersPerSecondToKMH
	rain1h := 0.0
	if c.Rain != nil {
		rain1h += c.Rain.OneHour
	}
	if c.Snow != nil {
		rain1h += c.Snow.OneHour
	}

	tempMin, tempMax, rainAccumulatedDay := c.Temp, c.Temp, rain1h
	if len(resp.Daily) > 0 {
		today := resp.Daily[0]
		tempMin, tempMax = today.Temp.Min, today.Temp.Max
		rainAccumulatedDay = today.Rain + today.Snow
	}

	visibility := c.Visibility
	if visibility == 0 {
		visibility = FallbackVisibilityM
	}

	// weather_code/description are proprietary and always re-derived by
	// the classifier, never passed through from the provider's own code.
	rainfallIntensity := weathercond.RainfallIntensity(0, rain1h)
	weatherCode, description := weathercond.Classify(rainfallIntensity, rain1h, windSpeedKMH, c.Clouds, visibility, c.Temp, 0)

	return weathermodel.Weather{
		CityID:             cityID,
		CityName:           cityName,
		Timestamp:          timestamp,
		Temperature:        c.Temp,
		FeelsLike:          c.FeelsLike,
		Humidity:           c.Humidity,
		Pressure:           c.Pressure,
		Visibility:         visibility,
		Clouds:             c.Clouds,
		WindSpeed:          windSpeedKMH,
		WindDirection:      c.WindDeg,
		RainProbability:    0, // the "current" block carries no probability
		Rain1h:             rain1h,
		RainAccumulatedDay: rainAccumulatedDay,
		TempMin:            tempMin,
		TempMax:            tempMax,
		IsDay:              true,
		RainfallIntensity:  rainfallIntensity,
		WeatherCode:        weatherCode,
		Description:        description,
	}, nil
}

// MapOpenWeatherDaily maps the One Call "daily" array, truncated to
// maxDays entries.
func MapOpenWeatherDaily(raw []byte, maxDays int) ([]weathermodel.DailyForecast, error) {
	var resp openWeatherOneCallResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	loc := saoPaulo()
	limit := len(resp.Daily)
	if maxDays < limit {
		limit = maxDays
	}

	forecasts := make([]weathermodel.DailyForecast, 0, limit)
	for i := 0; i < limit; i++ {
		d := resp.Daily[i]
		date := time.Unix(d.DT, 0).In(loc)
		precip := d.Rain + d.Snow
		rainProb := d.Pop * 100
		windSpeedKMH := d.WindSpeed * metersPerSecondToKMH

		precipPerHour := 0.0
		if precip > 0 {
			precipPerHour = precip / 24.0
		}
		rainfallIntensity := weathercond.RainfallIntensity(rainProb, precipPerHour)

		precipHours := (rainProb / 100) * 12.0
		precipPerHourForClassify := 0.0
		if precipHours > 0 {
			precipPerHourForClassify = precip / precipHours
		}

		code, desc := classify(classifyInputs{
			rainfallIntensity: rainfallIntensity,
			precipitationMM:   precipPerHourForClassify,
			windSpeedKMH:      windSpeedKMH,
			cloudsPct:         0,
			visibilityM:       FallbackVisibilityM,
			temperatureC:      (d.Temp.Min + d.Temp.Max) / 2,
			rainProbability:   rainProb,
		})

		forecasts = append(forecasts, weathermodel.DailyForecast{
			Date:               date.Format("2006-01-02"),
			TempMin:            d.Temp.Min,
			TempMax:            d.Temp.Max,
			PrecipitationMM:    precip,
			RainProbability:    rainProb,
			RainfallIntensity:  rainfallIntensity,
			WindSpeedMax:       windSpeedKMH,
			WindDirection:      d.WindDeg,
			UVIndex:            d.UVI,
			Sunrise:            time.Unix(d.Sunrise, 0).In(loc).Format("15:04"),
			Sunset:             time.Unix(d.Sunset, 0).In(loc).Format("15:04"),
			PrecipitationHours: precipHours,
			WeatherCode:        code,
			Description:        desc,
		})
	}
	return forecasts, nil
}

// MapOpenWeatherHourly maps the One Call "hourly" array, truncated to
// maxHours entries.
func MapOpenWeatherHourly(raw []byte, maxHours int) ([]weathermodel.HourlyForecast, error) {
	var resp openWeatherOneCallResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	loc := saoPaulo()
	limit := len(resp.Hourly)
	if maxHours < limit {
		limit = maxHours
	}

	forecasts := make([]weathermodel.HourlyForecast, 0, limit)
	for i := 0; i < limit; i++ {
		h := resp.Hourly[i]
		ts := time.Unix(h.DT, 0).In(loc)
		windSpeedKMH := h.WindSpeed * metersPerSecondToKMH

		precip := 0.0
		if h.Rain != nil {
			precip += h.Rain.OneHour
		}
		if h.Snow != nil {
			precip += h.Snow.OneHour
		}
		precipProb := int(h.Pop * 100)
		rainfallIntensity := weathercond.RainfallIntensity(float64(precipProb), precip)

		weatherCode, description := weathercond.Classify(rainfallIntensity, precip, windSpeedKMH, h.Clouds, FallbackVisibilityM, h.Temp, float64(precipProb))

		forecasts = append(forecasts, weathermodel.HourlyForecast{
			Timestamp:                ts.Format("2006-01-02T15:04"),
			Temperature:              h.Temp,
			Precipitation:            precip,
			PrecipitationProbability: precipProb,
			RainfallIntensity:        rainfallIntensity,
			Humidity:                 int(h.Humidity),
			WindSpeed:                windSpeedKMH,
			WindDirection:            h.WindDeg,
			CloudCover:               int(h.Clouds),
			WeatherCode:              weatherCode,
			Description:              description,
		})
	}
	return forecasts, nil
}
