// Package openweather implements the OpenWeather One Call 3.0 provider
// adapter (C6): a single payload carries current, hourly, and daily data
// together, unlike Open-Meteo's per-dataset endpoints.
package openweather

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

const defaultBaseURL = "https://api.openweathermap.org/data/3.0/onecall"

// Provider adapts the OpenWeather One Call 3.0 API. Every call — current,
// daily, hourly — fetches the same payload and caches it under one key,
// since the upstream API has no way to request a subset.
type Provider struct {
	cache   cache.Store
	http    *httpclient.Client
	apiKey  string
	baseURL string
}

func New(store cache.Store, client *httpclient.Client, apiKey string) *Provider {
	return &Provider{cache: store, http: client, apiKey: apiKey, baseURL: defaultBaseURL}
}

// NewWithBaseURL builds a Provider against a non-default endpoint, used in
// tests to point at an httptest.Server.
func NewWithBaseURL(store cache.Store, client *httpclient.Client, apiKey, base string) *Provider {
	return &Provider{cache: store, http: client, apiKey: apiKey, baseURL: base}
}

func (p *Provider) Name() string { return "OpenWeather" }

func (p *Provider) SupportsCurrentWeather() bool { return true }
func (p *Provider) SupportsDailyForecast() bool  { return true }
func (p *Provider) SupportsHourlyForecast() bool { return true }

func (p *Provider) GetCurrentWeather(ctx context.Context, city weathermodel.City, targetDatetime *time.Time) (weathermodel.Weather, error) {
	if !city.HasCoordinates() {
		return weathermodel.Weather{}, weathererrors.ErrCoordinatesNotFound
	}

	raw, err := p.fetchRaw(ctx, city, nil, nil)
	if err != nil {
		return weathermodel.Weather{}, weathererrors.WrapProvider(p.Name(), err)
	}

	weather, err := mappers.MapOpenWeatherCurrent(raw, city.ID, city.Name)
	if err != nil {
		return weathermodel.Weather{}, err
	}

	// When hourly data shares the payload, the hourly entry for the
	// nearest hour overrides the sampled fields per spec §4.5, while
	// OpenWeather-only fields (feels_like, pressure, visibility) from the
	// current block are preserved.
	hourly, err := mappers.MapOpenWeatherHourly(raw, 48)
	if err == nil && len(hourly) > 0 {
		loc := weather.Timestamp.Location()
		now := time.Now().In(loc)
		target := now
		if targetDatetime != nil {
			target = targetDatetime.In(loc)
		}
		closest, ok := providers.ClosestFutureForecast(hourly, now, target, func(h weathermodel.HourlyForecast) time.Time {
			ts, err := time.ParseInLocation("2006-01-02T15:04", h.Timestamp, loc)
			if err != nil {
				return time.Time{}
			}
			return ts
		})
		if ok {
			weather.Temperature = closest.Temperature
			weather.Humidity = float64(closest.Humidity)
			weather.WindSpeed = closest.WindSpeed
			weather.WindDirection = closest.WindDirection
			weather.Rain1h = closest.Precipitation
			weather.Clouds = float64(closest.CloudCover)
			weather.RainProbability = float64(closest.PrecipitationProbability)
			weather.RainfallIntensity = closest.RainfallIntensity
			weather.WeatherCode = closest.WeatherCode
			weather.Description = closest.Description
		}
	}

	return weather, nil
}

func (p *Provider) GetDailyForecast(ctx context.Context, city weathermodel.City, days int, prefetched json.RawMessage, cacheWrites providers.CacheWrites) ([]weathermodel.DailyForecast, error) {
	if !city.HasCoordinates() {
		return nil, weathererrors.ErrCoordinatesNotFound
	}

	raw, err := p.fetchRaw(ctx, city, prefetched, cacheWrites)
	if err != nil {
		return nil, weathererrors.WrapProvider(p.Name(), err)
	}
	return mappers.MapOpenWeatherDaily(raw, days)
}

func (p *Provider) GetHourlyForecast(ctx context.Context, city weathermodel.City, hours int, prefetched json.RawMessage, cacheWrites providers.CacheWrites) ([]weathermodel.HourlyForecast, error) {
	if !city.HasCoordinates() {
		return nil, weathererrors.ErrCoordinatesNotFound
	}

	raw, err := p.fetchRaw(ctx, city, prefetched, cacheWrites)
	if err != nil {
		return nil, weathererrors.WrapProvider(p.Name(), err)
	}
	return mappers.MapOpenWeatherHourly(raw, hours)
}

// ExtractCurrentWeatherFromHourly mirrors OpenMeteo's selection policy
// (providers.ClosestFutureForecast) for callers that already hold separate
// hourly/daily slices, e.g. when composing a detailed forecast from a
// previously cached payload.
func (p *Provider) ExtractCurrentWeatherFromHourly(hourly []weathermodel.HourlyForecast, daily []weathermodel.DailyForecast, cityID, cityName string, targetDatetime *time.Time) (weathermodel.Weather, error) {
	if len(hourly) == 0 {
		return weathermodel.Weather{}, fmt.Errorf("openweather: no hourly forecast available")
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
		ts, err := time.ParseInLocation("2006-01-02T15:04", h.Timestamp, loc)
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

	timestamp, err := time.ParseInLocation("2006-01-02T15:04", closest.Timestamp, loc)
	if err != nil {
		timestamp = now
	}

	return weathermodel.Weather{
		CityID:             cityID,
		CityName:           cityName,
		Timestamp:          timestamp,
		Temperature:        closest.Temperature,
		FeelsLike:          closest.Temperature,
		Humidity:           float64(closest.Humidity),
		Pressure:           mappers.FallbackPressureHPa,
		Visibility:         mappers.FallbackVisibilityM,
		Clouds:             float64(closest.CloudCover),
		WindSpeed:          closest.WindSpeed,
		WindDirection:      closest.WindDirection,
		RainProbability:    float64(closest.PrecipitationProbability),
		Rain1h:             closest.Precipitation,
		RainAccumulatedDay: rainAccumulatedDay,
		TempMin:            tempMin,
		TempMax:            tempMax,
		IsDay:              true,
		RainfallIntensity:  closest.RainfallIntensity,
		WeatherCode:        closest.WeatherCode,
		Description:        closest.Description,
	}, nil
}

func (p *Provider) fetchRaw(ctx context.Context, city weathermodel.City, prefetched json.RawMessage, cacheWrites providers.CacheWrites) (json.RawMessage, error) {
	if prefetched != nil {
		return prefetched, nil
	}

	cacheKey := cache.PrefixOpenWeatherAll + city.ID
	if p.cache != nil {
		if hit, ok := p.cache.Get(ctx, cacheKey); ok {
			return hit, nil
		}
	}

	reqURL := p.oneCallURL(*city.Coordinate)
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
		p.cache.Set(ctx, cacheKey, raw, cache.CurrentWeatherTTL)
	}
	return raw, nil
}

func (p *Provider) oneCallURL(coord weathermodel.Coordinates) string {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', 6, 64))
	v.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', 6, 64))
	v.Set("appid", p.apiKey)
	v.Set("units", "metric")
	v.Set("lang", "pt_br")
	return p.baseURL + "?" + v.Encode()
}

var _ providers.Provider = (*Provider)(nil)
