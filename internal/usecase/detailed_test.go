package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexscott64/regweather/internal/weathercond"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

func TestDetailedForecastUseCase_Execute_FullSuccessEnrichesWithHourly(t *testing.T) {
	code, _ := weathercond.Classify(0, 0, 10, 10, 10000, 20, 5)
	hourly := []weathermodel.HourlyForecast{{
		Timestamp:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).Format("2006-01-02T15:04"),
		Temperature: 25,
		WindSpeed:   12,
		Humidity:    55,
		WeatherCode: code,
	}}
	current := &fakeProvider{current: weathermodel.Weather{CityID: "1", CityName: "São Paulo", Pressure: 1012}}
	extended := &fakeProvider{hourly: hourly, daily: []weathermodel.DailyForecast{{Date: "2026-08-01", TempMin: 18, TempMax: 27}}}

	u := NewDetailedForecastUseCase(testCities(t), current, extended)
	ef, err := u.Execute(context.Background(), "1", nil)

	require.NoError(t, err)
	assert.True(t, ef.ExtendedAvailable)
	assert.Equal(t, 1012.0, ef.CurrentWeather.Pressure) // OpenWeather-only field preserved
	assert.Equal(t, 25.0, ef.CurrentWeather.Temperature) // enriched from hourly
	assert.Len(t, ef.DailyForecasts, 1)
	assert.Len(t, ef.HourlyForecasts, 1)
}

func TestDetailedForecastUseCase_Execute_HourlyFailureFallsBackToCurrentOnly(t *testing.T) {
	current := &fakeProvider{current: weathermodel.Weather{CityID: "1", CityName: "São Paulo", Pressure: 1012}}
	extended := &fakeProvider{
		hourlyErr: errors.New("open-meteo hourly down"),
		daily:     []weathermodel.DailyForecast{{Date: "2026-08-01", TempMin: 18, TempMax: 27}},
	}

	u := NewDetailedForecastUseCase(testCities(t), current, extended)
	ef, err := u.Execute(context.Background(), "1", nil)

	require.NoError(t, err)
	assert.True(t, ef.ExtendedAvailable)
	assert.Equal(t, 1012.0, ef.CurrentWeather.Pressure)
	assert.Empty(t, ef.HourlyForecasts)
	assert.Len(t, ef.DailyForecasts, 1)
}

func TestDetailedForecastUseCase_Execute_DailyFailureMarksExtendedUnavailable(t *testing.T) {
	current := &fakeProvider{current: weathermodel.Weather{CityID: "1", CityName: "São Paulo"}}
	extended := &fakeProvider{dailyErr: errors.New("open-meteo daily down")}

	u := NewDetailedForecastUseCase(testCities(t), current, extended)
	ef, err := u.Execute(context.Background(), "1", nil)

	require.NoError(t, err)
	assert.False(t, ef.ExtendedAvailable)
	assert.Empty(t, ef.DailyForecasts)
}

func TestDetailedForecastUseCase_Execute_CurrentFailurePropagates(t *testing.T) {
	current := &fakeProvider{currentErr: errors.New("openweather down")}
	extended := &fakeProvider{}

	u := NewDetailedForecastUseCase(testCities(t), current, extended)
	_, err := u.Execute(context.Background(), "1", nil)
	assert.ErrorContains(t, err, "openweather down")
}

func TestDetailedForecastUseCase_Execute_MissingCoordinates(t *testing.T) {
	u := NewDetailedForecastUseCase(testCities(t), &fakeProvider{}, &fakeProvider{})
	_, err := u.Execute(context.Background(), "2", nil)
	assert.Error(t, err)
}
