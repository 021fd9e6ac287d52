// Package usecase implements the three orchestration use cases (C9, C10,
// C11) that sit between the provider adapters and the HTTP handlers.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexscott64/regweather/internal/alerts"
	"github.com/alexscott64/regweather/internal/citystore"
	"github.com/alexscott64/regweather/internal/providers"
	"github.com/alexscott64/regweather/internal/weathererrors"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

const (
	cityHourlyHorizonHours = 168
	cityDailyHorizonDays   = 16
	alertsDaysLimit        = 7
)

// CityWeatherUseCase implements C9: fetch a city's hourly and daily
// forecasts in parallel, extract current conditions, compute the daily
// aggregate, and attach alerts.
type CityWeatherUseCase struct {
	cities   *citystore.Store
	provider providers.Provider
}

func NewCityWeatherUseCase(cities *citystore.Store, provider providers.Provider) *CityWeatherUseCase {
	return &CityWeatherUseCase{cities: cities, provider: provider}
}

// cityResult carries everything Execute produces, including the
// cache writes it staged locally so a fan-out caller (C10) can merge them
// into its own shared maps without risking a concurrent map write.
type cityResult struct {
	weather      weathermodel.Weather
	hourlyWrites providers.CacheWrites
	dailyWrites  providers.CacheWrites
}

// Execute runs C9 for a single city. prefetchedHourly/prefetchedDaily let a
// caller hand down a cache hit it already resolved via batch_get; pass nil
// for a standalone lookup. stageWrites controls whether fresh upstream
// responses are staged for a later batch_set (true, used by C10) or written
// through immediately (false, the default for a lone city request).
func (u *CityWeatherUseCase) Execute(ctx context.Context, cityID string, targetDatetime *time.Time, prefetchedHourly, prefetchedDaily json.RawMessage, stageWrites bool) (weathermodel.Weather, error) {
	result, err := u.execute(ctx, cityID, targetDatetime, prefetchedHourly, prefetchedDaily, stageWrites)
	return result.weather, err
}

func (u *CityWeatherUseCase) execute(ctx context.Context, cityID string, targetDatetime *time.Time, prefetchedHourly, prefetchedDaily json.RawMessage, stageWrites bool) (cityResult, error) {
	city, ok := u.cities.GetByID(cityID)
	if !ok {
		return cityResult{}, fmt.Errorf("usecase: city %s: %w", cityID, weathererrors.ErrCityNotFound)
	}
	if !city.HasCoordinates() {
		return cityResult{}, fmt.Errorf("usecase: city %s (%s): %w", cityID, city.Name, weathererrors.ErrCoordinatesNotFound)
	}

	// Each fetch writes into its own map: hourly and daily never touch the
	// same key space, so two goroutines writing concurrently to two
	// distinct maps never race, unlike a single map shared between them.
	var hourlyWrites, dailyWrites providers.CacheWrites
	if stageWrites {
		hourlyWrites = providers.CacheWrites{}
		dailyWrites = providers.CacheWrites{}
	}

	type hourlyOutcome struct {
		forecasts []weathermodel.HourlyForecast
		err       error
	}
	type dailyOutcome struct {
		forecasts []weathermodel.DailyForecast
		err       error
	}
	hourlyCh := make(chan hourlyOutcome, 1)
	dailyCh := make(chan dailyOutcome, 1)

	go func() {
		f, err := u.provider.GetHourlyForecast(ctx, city, cityHourlyHorizonHours, prefetchedHourly, hourlyWrites)
		hourlyCh <- hourlyOutcome{f, err}
	}()
	go func() {
		f, err := u.provider.GetDailyForecast(ctx, city, cityDailyHorizonDays, prefetchedDaily, dailyWrites)
		dailyCh <- dailyOutcome{f, err}
	}()

	hourlyOut, dailyOut := <-hourlyCh, <-dailyCh
	if hourlyOut.err != nil {
		return cityResult{}, hourlyOut.err
	}
	if dailyOut.err != nil {
		return cityResult{}, dailyOut.err
	}

	weather, err := u.provider.ExtractCurrentWeatherFromHourly(hourlyOut.forecasts, dailyOut.forecasts, city.ID, city.Name, targetDatetime)
	if err != nil {
		return cityResult{}, err
	}

	weather.Alerts = alerts.Generate(hourlyOut.forecasts, dailyOut.forecasts, targetDatetime, alertsDaysLimit)
	weather.Daily = buildDailyAggregate(hourlyOut.forecasts, dailyOut.forecasts, targetDatetime)

	return cityResult{weather: weather, hourlyWrites: hourlyWrites, dailyWrites: dailyWrites}, nil
}

// buildDailyAggregate computes the summary metrics for the target day,
// falling back to the matching daily record wherever the hourly series for
// that day is empty or the daily figure is the larger of the two.
func buildDailyAggregate(hourly []weathermodel.HourlyForecast, daily []weathermodel.DailyForecast, targetDatetime *time.Time) *weathermodel.DailyAggregatedMetrics {
	if len(hourly) == 0 && len(daily) == 0 {
		return nil
	}

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	target := time.Now().In(loc)
	if targetDatetime != nil {
		target = targetDatetime.In(loc)
	}
	targetDate := target.Format("2006-01-02")

	var rainVolume, rainIntensityMax, rainProbabilityMax, windSpeedMaxHourly float64
	for _, h := range hourly {
		if len(h.Timestamp) < len(targetDate) || h.Timestamp[:len(targetDate)] != targetDate {
			continue
		}
		rainVolume += h.Precipitation
		if float64(h.RainfallIntensity) > rainIntensityMax {
			rainIntensityMax = float64(h.RainfallIntensity)
		}
		if float64(h.PrecipitationProbability) > rainProbabilityMax {
			rainProbabilityMax = float64(h.PrecipitationProbability)
		}
		if h.WindSpeed > windSpeedMaxHourly {
			windSpeedMaxHourly = h.WindSpeed
		}
	}

	var dailyMatch *weathermodel.DailyForecast
	for i := range daily {
		if daily[i].Date == targetDate {
			dailyMatch = &daily[i]
			break
		}
	}

	var tempMin, tempMax, windSpeedMax float64
	if dailyMatch != nil {
		tempMin, tempMax = dailyMatch.TempMin, dailyMatch.TempMax
		if dailyMatch.PrecipitationMM > rainVolume {
			rainVolume = dailyMatch.PrecipitationMM
		}
		if float64(dailyMatch.RainfallIntensity) > rainIntensityMax {
			rainIntensityMax = float64(dailyMatch.RainfallIntensity)
		}
		if dailyMatch.RainProbability > rainProbabilityMax {
			rainProbabilityMax = dailyMatch.RainProbability
		}
		windSpeedMax = windSpeedMaxHourly
		if dailyMatch.WindSpeedMax > windSpeedMax {
			windSpeedMax = dailyMatch.WindSpeedMax
		}
	} else {
		windSpeedMax = windSpeedMaxHourly
	}

	return &weathermodel.DailyAggregatedMetrics{
		Date:               targetDate,
		RainVolume:         rainVolume,
		RainIntensityMax:   int(rainIntensityMax),
		RainProbabilityMax: rainProbabilityMax,
		WindSpeedMax:       windSpeedMax,
		TempMin:            tempMin,
		TempMax:            tempMax,
	}
}
