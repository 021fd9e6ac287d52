// Package providers defines the shared upstream weather provider interface
// (C5/C6). Both concrete adapters — OpenMeteo and OpenWeather One-Call —
// implement the same surface so the use-case layer never branches on which
// provider it's talking to.
package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexscott64/regweather/internal/weathermodel"
)

// CacheWrites accumulates raw provider responses a fetch wants persisted,
// so a caller orchestrating many cities can batch-write them at the end of
// a round instead of issuing one cache.Set per fetch.
type CacheWrites map[string]json.RawMessage

// Provider is the adapter surface both OpenMeteo and OpenWeather implement.
// prefetched carries a cache hit the caller already resolved via a batch
// read (nil means "look it up yourself"); cacheWrites, when non-nil, is
// where a fresh upstream response gets staged instead of written
// immediately — the caller decides when to flush it.
type Provider interface {
	Name() string

	SupportsCurrentWeather() bool
	SupportsDailyForecast() bool
	SupportsHourlyForecast() bool

	GetCurrentWeather(ctx context.Context, city weathermodel.City, targetDatetime *time.Time) (weathermodel.Weather, error)
	GetDailyForecast(ctx context.Context, city weathermodel.City, days int, prefetched json.RawMessage, cacheWrites CacheWrites) ([]weathermodel.DailyForecast, error)
	GetHourlyForecast(ctx context.Context, city weathermodel.City, hours int, prefetched json.RawMessage, cacheWrites CacheWrites) ([]weathermodel.HourlyForecast, error)
	ExtractCurrentWeatherFromHourly(hourly []weathermodel.HourlyForecast, daily []weathermodel.DailyForecast, cityID, cityName string, targetDatetime *time.Time) (weathermodel.Weather, error)
}

// ClosestFutureForecast implements the C5/C6 selection policy: pick the
// hourly entry closest to target (never past). If target is in the past,
// return the first future entry. If no future entry exists, fall back to
// the last available entry. tsOf must turn an entry's timestamp into a
// comparable time.Time; it's injected because callers parse the timestamp
// string differently (mappers.ParseOpenMeteoTimestamp for Open-Meteo, a
// local "2006-01-02T15:04" layout for OpenWeather).
func ClosestFutureForecast[T any](entries []T, now, target time.Time, tsOf func(T) time.Time) (T, bool) {
	var zero T
	if len(entries) == 0 {
		return zero, false
	}

	type withTime struct {
		entry T
		ts    time.Time
	}
	var future []withTime
	for _, e := range entries {
		ts := tsOf(e)
		if !ts.Before(now) {
			future = append(future, withTime{e, ts})
		}
	}

	if len(future) == 0 {
		return entries[len(entries)-1], true
	}

	if target.Before(now) {
		closest := future[0]
		for _, f := range future[1:] {
			if f.ts.Before(closest.ts) {
				closest = f
			}
		}
		return closest.entry, true
	}

	closest := future[0]
	minDiff := closest.ts.Sub(target)
	if minDiff < 0 {
		minDiff = -minDiff
	}
	for _, f := range future[1:] {
		diff := f.ts.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff < minDiff {
			minDiff = diff
			closest = f
		}
	}
	return closest.entry, true
}
