// Package openmeteo implements the Open-Meteo provider adapter (C5):
// free-tier forecast API, current weather derived from the hourly series
// rather than a dedicated endpoint.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/alexscott64/regweather/internal/cache"
	"github.com/alexscott64/regweather/internal/httpclient"
	"github.com/alexscott64/regweather/internal/mappers"
	"github.com/alexscott64/regweather/internal/providers"
	"github.com/alexscott64/regweather/internal/weathererrors"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const hourlyParams = "temperature_2m,apparent_temperature,precipitation,precipitation_probability," +
	"relative_humidity_2m,wind_speed_10m,wind_direction_10m,cloud_cover,pressure_msl,visibility,uv_index,is_day"

const dailyParams = "temperature_2m_max,temperature_2m_min,apparent_temperature_max,apparent_temperature_min," +
	"precipitation_sum,precipitation_probability_mean,wind_speed_10m_max,wind_direction_10m_dominant," +
	"uv_index_max,sunrise,sunset,precipitation_hours"

// Provider adapts the Open-Meteo forecast API to the shared providers.Provider
// interface. It has no API key: every request is anonymous and unauthenticated.
type Provider struct {
	cache   cache.Store
	http    *httpclient.Client
	baseURL string
}

func New(store cache.Store, client *httpclient.Client) *Provider {
	return &Provider{cache: store, http: client, baseURL: defaultBaseURL}
}

// NewWithBaseURL builds a Provider against a non-default endpoint, used in
// tests to point at an httptest.Server.
func NewWithBaseURL(store cache.Store, client *httpclient.Client, base string) *Provider {
	return &Provider{cache: store, http: client, baseURL: base}
}

func (p *Provider) Name() string { return "OpenMeteo" }

// SupportsCurrentWeather is true: current weather is derived from the
// hourly series rather than a native endpoint.
func (p *Provider) SupportsCurrentWeather() bool { return true }
func (p *Provider) SupportsDailyForecast() bool  { return true }
func (p *Provider) SupportsHourlyForecast() bool { return true }

func (p *Provider) GetDailyForecast(ctx context.Context, city weathermodel.City, days int, prefetched json.RawMessage, cacheWrites providers.CacheWrites) ([]weathermodel.DailyForecast, error) {
	if days < 1 || days > 16 {
		return nil, fmt.Errorf("openmeteo: days must be between 1 and 16, got %d", days)
	}
	if !city.HasCoordinates() {
		return nil, weathererrors.ErrCoordinatesNotFound
	}

	cacheKey := cache.PrefixOpenMeteoDaily + city.ID
	raw, err := p.fetchRaw(ctx, cacheKey, prefetched, cacheWrites, cache.DailyForecastTTL, func() (string, error) {
		return p.dailyURL(*city.Coordinate, days), nil
	})
	if err != nil {
		return nil, weathererrors.WrapProvider(p.Name(), err)
	}

	return mappers.MapOpenMeteoDaily(raw)
}

func (p *Provider) GetHourlyForecast(ctx context.Context, city weathermodel.City, hours int, prefetched json.RawMessage, cacheWrites providers.CacheWrites) ([]weathermodel.HourlyForecast, error) {
	if !city.HasCoordinates() {
		return nil, weathererrors.ErrCoordinatesNotFound
	}

	cacheKey := cache.PrefixOpenMeteoHourly + city.ID
	raw, err := p.fetchRaw(ctx, cacheKey, prefetched, cacheWrites, cache.HourlyForecastTTL, func() (string, error) {
		return p.hourlyURL(*city.Coordinate, hours), nil
	})
	if err != nil {
		return nil, weathererrors.WrapProvider(p.Name(), err)
	}

	return mappers.MapOpenMeteoHourly(raw, hours)
}

// GetCurrentWeather fetches 168h of hourly data plus 1 day of daily data in
// parallel, then extracts current conditions from the closest hourly entry.
func (p *Provider) GetCurrentWeather(ctx context.Context, city weathermodel.City, targetDatetime *time.Time) (weathermodel.Weather, error) {
	type hourlyResult struct {
		forecasts []weathermodel.HourlyForecast
		err       error
	}
	type dailyResult struct {
		forecasts []weathermodel.DailyForecast
		err       error
	}

	hourlyCh := make(chan hourlyResult, 1)
	dailyCh := make(chan dailyResult, 1)

	go func() {
		forecasts, err := p.GetHourlyForecast(ctx, city, 168, nil, nil)
		hourlyCh <- hourlyResult{forecasts, err}
	}()
	go func() {
		forecasts, err := p.GetDailyForecast(ctx, city, 1, nil, nil)
		dailyCh <- dailyResult{forecasts, err}
	}()

	hourly, daily := <-hourlyCh, <-dailyCh
	if hourly.err != nil {
		return weathermodel.Weather{}, hourly.err
	}
	if daily.err != nil {
		return weathermodel.Weather{}, daily.err
	}

	return p.ExtractCurrentWeatherFromHourly(hourly.forecasts, daily.forecasts, city.ID, city.Name, targetDatetime)
}

// ExtractCurrentWeatherFromHourly implements the C5 selection policy
// (providers.ClosestFutureForecast) and merges in the matching daily
// record's temp_min/temp_max/precipitation for the day.
func (p *Provider) ExtractCurrentWeatherFromHourly(hourly []weathermodel.HourlyForecast, daily []weathermodel.DailyForecast, cityID, cityName string, targetDatetime *time.Time) (weathermodel.Weather, error) {
	if len(hourly) == 0 {
		return weathermodel.Weather{}, fmt.Errorf("openmeteo: no hourly forecast available")
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
		closest = hourly[0]
	}

	var tempMin, tempMax, rainAccumulatedDay float64
	targetDate := target.Format("2006-01-02")
	for _, d := range daily {
		if d.Date == targetDate {
			tempMin, tempMax, rainAccumulatedDay = d.TempMin, d.TempMax, d.PrecipitationMM
			break
		}
	}
	if tempMin == 0 && tempMax == 0 && len(daily) > 0 {
		tempMin, tempMax, rainAccumulatedDay = daily[0].TempMin, daily[0].TempMax, daily[0].PrecipitationMM
	}

	return mappers.MapOpenMeteoHourlyToWeather(closest, cityID, cityName, tempMin, tempMax, rainAccumulatedDay)
}

// fetchRaw implements the shared C5/C6 fetch algorithm: prefetched map hit,
// else cache.Get, else HTTPS GET with retry, staging the fresh response
// either into cacheWrites (batch mode) or directly via cache.Set.
func (p *Provider) fetchRaw(ctx context.Context, cacheKey string, prefetched json.RawMessage, cacheWrites providers.CacheWrites, ttl time.Duration, buildURL func() (string, error)) (json.RawMessage, error) {
	if prefetched != nil {
		return prefetched, nil
	}
	if p.cache != nil {
		if hit, ok := p.cache.Get(ctx, cacheKey); ok {
			return hit, nil
		}
	}

	reqURL, err := buildURL()
	if err != nil {
		return nil, err
	}

	body, status, err := p.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("upstream returned status %d", status)
	}

	raw := json.RawMessage(body)
	if cacheWrites != nil {
		cacheWrites[cacheKey] = raw
	} else if p.cache != nil {
		p.cache.Set(ctx, cacheKey, raw, ttl)
	}
	return raw, nil
}

func (p *Provider) hourlyURL(coord weathermodel.Coordinates, hours int) string {
	forecastDays := hours/24 + 1
	if forecastDays > 16 {
		forecastDays = 16
	}
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', 6, 64))
	v.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', 6, 64))
	v.Set("hourly", hourlyParams)
	v.Set("timezone", "America/Sao_Paulo")
	v.Set("forecast_days", strconv.Itoa(forecastDays))
	return p.baseURL + "?" + v.Encode()
}

func (p *Provider) dailyURL(coord weathermodel.Coordinates, days int) string {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', 6, 64))
	v.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', 6, 64))
	v.Set("daily", dailyParams)
	v.Set("timezone", "America/Sao_Paulo")
	v.Set("forecast_days", strconv.Itoa(days))
	return p.baseURL + "?" + v.Encode()
}

var _ providers.Provider = (*Provider)(nil)
