package openmeteo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexscott64/regweather/internal/httpclient"
	"github.com/alexscott64/regweather/internal/providers/openmeteo"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

// fakeStore is a minimal in-memory cache.Store for isolating provider
// behavior from the real Postgres-backed tier.
type fakeStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func newFakeStore() *fakeStore { return &fakeStore{data: make(map[string]json.RawMessage)} }

func (f *fakeStore) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}
func (f *fakeStore) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return true
}
func (f *fakeStore) Delete(ctx context.Context, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return true
}
func (f *fakeStore) BatchGet(ctx context.Context, keys []string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage)
	for _, k := range keys {
		if v, ok := f.Get(ctx, k); ok {
			out[k] = v
		}
	}
	return out
}
func (f *fakeStore) BatchSet(ctx context.Context, items map[string]json.RawMessage, ttl time.Duration) map[string]bool {
	out := make(map[string]bool)
	for k, v := range items {
		out[k] = f.Set(ctx, k, v, ttl)
	}
	return out
}

func testCity() weathermodel.City {
	return weathermodel.City{
		ID:   "3550308",
		Name: "São Paulo",
		Coordinate: &weathermodel.Coordinates{
			Latitude:  -23.5505,
			Longitude: -46.6333,
		},
	}
}

const fixtureHourly = `{
	"hourly": {
		"time": ["2026-08-01T10:00", "2026-08-01T11:00"],
		"temperature_2m": [22.5, 23.1],
		"apparent_temperature": [22.0, 23.0],
		"precipitation": [0.0, 3.2],
		"precipitation_probability": [10, 80],
		"relative_humidity_2m": [55, 60],
		"wind_speed_10m": [12.0, 14.0],
		"wind_direction_10m": [180, 190],
		"cloud_cover": [20, 90],
		"pressure_msl": [1012.0, 1011.0],
		"visibility": [10000.0, 8000.0],
		"uv_index": [3.0, 2.0],
		"is_day": [1, 1]
	}
}`

const fixtureDaily = `{
	"daily": {
		"time": ["2026-08-01"],
		"temperature_2m_max": [28.0],
		"temperature_2m_min": [18.0],
		"precipitation_sum": [5.0],
		"precipitation_probability_mean": [70],
		"wind_speed_10m_max": [20.0],
		"wind_direction_10m_dominant": [90],
		"uv_index_max": [8.0],
		"sunrise": ["06:30"],
		"sunset": ["18:15"],
		"precipitation_hours": [4.0]
	}
}`

func TestGetHourlyForecast_CachesOnMiss(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(fixtureHourly))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := openmeteo.NewWithBaseURL(store, httpclient.New(), srv.URL)

	forecasts, err := p.GetHourlyForecast(context.Background(), testCity(), 168, nil, nil)
	require.NoError(t, err)
	assert.Len(t, forecasts, 2)
	assert.Equal(t, 1, hits)
}

func TestGetHourlyForecast_PrefetchedSkipsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not hit network when prefetched is supplied")
	}))
	defer srv.Close()

	store := newFakeStore()
	p := openmeteo.NewWithBaseURL(store, httpclient.New(), srv.URL)

	forecasts, err := p.GetHourlyForecast(context.Background(), testCity(), 168, json.RawMessage(fixtureHourly), nil)
	require.NoError(t, err)
	assert.Len(t, forecasts, 2)
}

func TestGetDailyForecast_RejectsOutOfRangeDays(t *testing.T) {
	p := openmeteo.New(newFakeStore(), httpclient.New())
	_, err := p.GetDailyForecast(context.Background(), testCity(), 0, nil, nil)
	assert.Error(t, err)
	_, err = p.GetDailyForecast(context.Background(), testCity(), 17, nil, nil)
	assert.Error(t, err)
}

func TestGetCurrentWeather_ExtractsFromHourlyAndDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("hourly") != "" {
			w.Write([]byte(fixtureHourly))
			return
		}
		w.Write([]byte(fixtureDaily))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := openmeteo.NewWithBaseURL(store, httpclient.New(), srv.URL)

	weather, err := p.GetCurrentWeather(context.Background(), testCity(), nil)
	require.NoError(t, err)
	assert.Equal(t, "3550308", weather.CityID)
	assert.Equal(t, 28.0, weather.TempMax)
}

func TestGetHourlyForecast_MissingCoordinatesErrors(t *testing.T) {
	p := openmeteo.New(newFakeStore(), httpclient.New())
	city := weathermodel.City{ID: "0000000", Name: "No Coords"}
	_, err := p.GetHourlyForecast(context.Background(), city, 168, nil, nil)
	assert.Error(t, err)
}
