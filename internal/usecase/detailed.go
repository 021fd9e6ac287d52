package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alexscott64/regweather/internal/citystore"
	"github.com/alexscott64/regweather/internal/mappers"
	"github.com/alexscott64/regweather/internal/providers"
	"github.com/alexscott64/regweather/internal/weathererrors"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

const (
	detailedHourlyHorizonHours = 168
	detailedDailyHorizonDays   = 16
)

// DetailedForecastUseCase implements C11: current weather from OpenWeather,
// 16-day daily and 168h hourly from Open-Meteo, fetched in parallel and
// consolidated with graceful degradation per-source.
type DetailedForecastUseCase struct {
	cities   *citystore.Store
	current  providers.Provider // OpenWeather: complete current-conditions dataset
	extended providers.Provider // Open-Meteo: daily + hourly
}

func NewDetailedForecastUseCase(cities *citystore.Store, current, extended providers.Provider) *DetailedForecastUseCase {
	return &DetailedForecastUseCase{cities: cities, current: current, extended: extended}
}

// Execute returns the consolidated ExtendedForecast. Only a failure to
// fetch current weather propagates as an error; daily and hourly failures
// degrade the result instead.
func (u *DetailedForecastUseCase) Execute(ctx context.Context, cityID string, targetDatetime *time.Time) (weathermodel.ExtendedForecast, error) {
	city, ok := u.cities.GetByID(cityID)
	if !ok {
		return weathermodel.ExtendedForecast{}, fmt.Errorf("usecase: city %s: %w", cityID, weathererrors.ErrCityNotFound)
	}
	if !city.HasCoordinates() {
		return weathermodel.ExtendedForecast{}, fmt.Errorf("usecase: city %s (%s): %w", cityID, city.Name, weathererrors.ErrCoordinatesNotFound)
	}

	type currentOutcome struct {
		weather weathermodel.Weather
		err     error
	}
	type dailyOutcome struct {
		forecasts []weathermodel.DailyForecast
		err       error
	}
	type hourlyOutcome struct {
		forecasts []weathermodel.HourlyForecast
		err       error
	}

	currentCh := make(chan currentOutcome, 1)
	dailyCh := make(chan dailyOutcome, 1)
	hourlyCh := make(chan hourlyOutcome, 1)

	go func() {
		w, err := u.current.GetCurrentWeather(ctx, city, targetDatetime)
		currentCh <- currentOutcome{w, err}
	}()
	go func() {
		f, err := u.extended.GetDailyForecast(ctx, city, detailedDailyHorizonDays, nil, nil)
		dailyCh <- dailyOutcome{f, err}
	}()
	go func() {
		f, err := u.extended.GetHourlyForecast(ctx, city, detailedHourlyHorizonHours, nil, nil)
		hourlyCh <- hourlyOutcome{f, err}
	}()

	currentRes, dailyRes, hourlyRes := <-currentCh, <-dailyCh, <-hourlyCh

	if currentRes.err != nil {
		return weathermodel.ExtendedForecast{}, currentRes.err
	}
	current := currentRes.weather

	hourly := hourlyRes.forecasts
	if hourlyRes.err != nil {
		log.Printf("detailed forecast: hourly fetch failed for city %s, falling back to OpenWeather-only current: %v", cityID, hourlyRes.err)
		hourly = nil
	} else if enriched, ok := enrichWithHourly(current, hourly, targetDatetime); ok {
		current = enriched
	}

	extendedAvailable := true
	daily := dailyRes.forecasts
	if dailyRes.err != nil {
		log.Printf("detailed forecast: daily fetch failed for city %s, extended_available=false: %v", cityID, dailyRes.err)
		daily = nil
		extendedAvailable = false
	}

	return weathermodel.ExtendedForecast{
		CityID:            city.ID,
		CityName:          city.Name,
		CityState:         city.State,
		CurrentWeather:    current,
		DailyForecasts:    daily,
		HourlyForecasts:   hourly,
		ExtendedAvailable: extendedAvailable,
	}, nil
}

// enrichWithHourly overlays the nearest-hour Open-Meteo sample onto an
// OpenWeather current snapshot, keeping every OpenWeather-only field
// (pressure, feels_like, rain accumulation) untouched.
func enrichWithHourly(base weathermodel.Weather, hourly []weathermodel.HourlyForecast, targetDatetime *time.Time) (weathermodel.Weather, bool) {
	if len(hourly) == 0 {
		return base, false
	}

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	target := now
	if targetDatetime != nil {
		target = targetDatetime.In(loc)
	}

	closest, ok := providers.ClosestFutureForecast(hourly, now, target, func(h weathermodel.HourlyForecast) time.Time {
		ts, err := mappers.ParseOpenMeteoTimestamp(h.Timestamp)
		if err != nil {
			return time.Time{}
		}
		return ts
	})
	if !ok {
		return base, false
	}

	base.Temperature = closest.Temperature
	base.Humidity = float64(closest.Humidity)
	base.WindSpeed = closest.WindSpeed
	base.WindDirection = closest.WindDirection
	base.Clouds = float64(closest.CloudCover)
	base.RainfallIntensity = closest.RainfallIntensity
	base.WeatherCode = closest.WeatherCode
	base.Description = closest.Description

	return base, true
}
