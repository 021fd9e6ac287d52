package usecase

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/alexscott64/regweather/internal/cache"
	"github.com/alexscott64/regweather/internal/providers"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

// defaultFanOutLimit bounds upstream concurrency for the regional use
// case's per-city fan-out (spec: semaphore capacity 50).
const defaultFanOutLimit = 50

// RegionalWeatherUseCase implements C10: batch-prefetch the cache for every
// requested city, fan out C9 across a bounded worker pool, tolerate
// per-city failures, and batch-write everything staged along the way.
type RegionalWeatherUseCase struct {
	city        *CityWeatherUseCase
	store       cache.Store
	fanOutLimit int
}

func NewRegionalWeatherUseCase(city *CityWeatherUseCase, store cache.Store) *RegionalWeatherUseCase {
	return &RegionalWeatherUseCase{city: city, store: store, fanOutLimit: defaultFanOutLimit}
}

// NewRegionalWeatherUseCaseWithFanOutLimit overrides the default semaphore
// capacity, exposing it as the operator-tunable concurrency bound §5 calls
// for.
func NewRegionalWeatherUseCaseWithFanOutLimit(city *CityWeatherUseCase, store cache.Store, fanOutLimit int) *RegionalWeatherUseCase {
	return &RegionalWeatherUseCase{city: city, store: store, fanOutLimit: fanOutLimit}
}

// Execute fetches weather for every city in cityIDs, dropping (and logging)
// any city that fails for any reason — a not-found city, one without
// coordinates, a provider error, or a timeout are all ordinary drops, never
// a propagated error. The returned slice carries no required order.
func (u *RegionalWeatherUseCase) Execute(ctx context.Context, cityIDs []string, targetDatetime *time.Time) []weathermodel.Weather {
	prefetchedHourly, prefetchedDaily := u.prefetch(ctx, cityIDs)

	results := u.fanOut(ctx, cityIDs, targetDatetime, prefetchedHourly, prefetchedDaily)

	weather := make([]weathermodel.Weather, 0, len(results))
	hourlyWrites := providers.CacheWrites{}
	dailyWrites := providers.CacheWrites{}
	for _, r := range results {
		if r.err != nil {
			log.Printf("regional weather: dropping city %s: %v", r.cityID, r.err)
			continue
		}
		weather = append(weather, r.result.weather)
		for k, v := range r.result.hourlyWrites {
			hourlyWrites[k] = v
		}
		for k, v := range r.result.dailyWrites {
			dailyWrites[k] = v
		}
	}

	u.batchWrite(ctx, hourlyWrites, dailyWrites)

	return weather
}

type fanOutResult struct {
	cityID string
	result cityResult
	err    error
}

// fanOut runs C9 for every city concurrently, bounded by a semaphore of
// capacity u.fanOutLimit. Each task only ever writes to the local
// maps cityResult carries back; the parent goroutine is the sole writer
// into the merged maps once every task has reported, so no lock is needed
// for the merge in Execute above.
func (u *RegionalWeatherUseCase) fanOut(ctx context.Context, cityIDs []string, targetDatetime *time.Time, prefetchedHourly, prefetchedDaily map[string]json.RawMessage) []fanOutResult {
	sem := make(chan struct{}, u.fanOutLimit)
	results := make([]fanOutResult, len(cityIDs))

	var wg sync.WaitGroup
	wg.Add(len(cityIDs))
	for i, cityID := range cityIDs {
		i, cityID := i, cityID
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := u.city.execute(ctx, cityID, targetDatetime, prefetchedHourly[cache.PrefixOpenMeteoHourly+cityID], prefetchedDaily[cache.PrefixOpenMeteoDaily+cityID], true)
			results[i] = fanOutResult{cityID: cityID, result: res, err: err}
		}()
	}
	wg.Wait()

	return results
}

// prefetch batch-reads both cache classes for every requested city in
// parallel so the fan-out below can skip a cache round trip per city.
func (u *RegionalWeatherUseCase) prefetch(ctx context.Context, cityIDs []string) (map[string]json.RawMessage, map[string]json.RawMessage) {
	if u.store == nil || len(cityIDs) == 0 {
		return nil, nil
	}

	hourlyKeys := make([]string, len(cityIDs))
	dailyKeys := make([]string, len(cityIDs))
	for i, id := range cityIDs {
		hourlyKeys[i] = cache.PrefixOpenMeteoHourly + id
		dailyKeys[i] = cache.PrefixOpenMeteoDaily + id
	}

	var hourly, daily map[string]json.RawMessage
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hourly = u.store.BatchGet(ctx, hourlyKeys)
	}()
	go func() {
		defer wg.Done()
		daily = u.store.BatchGet(ctx, dailyKeys)
	}()
	wg.Wait()

	return hourly, daily
}

// batchWrite flushes everything staged in cache_writes during the fan-out,
// one batch_set per cache class with its own TTL, run in parallel.
func (u *RegionalWeatherUseCase) batchWrite(ctx context.Context, hourlyWrites, dailyWrites providers.CacheWrites) {
	if u.store == nil {
		return
	}

	var wg sync.WaitGroup
	if len(hourlyWrites) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.store.BatchSet(ctx, hourlyWrites, cache.HourlyForecastTTL)
		}()
	}
	if len(dailyWrites) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.store.BatchSet(ctx, dailyWrites, cache.DailyForecastTTL)
		}()
	}
	wg.Wait()
}
