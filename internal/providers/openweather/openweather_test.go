package openweather_test

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
	"github.com/alexscott64/regweather/internal/providers/openweather"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

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

const oneCallFixture = `{
	"current": {
		"dt": 1785648000,
		"temp": 29.0,
		"feels_like": 31.5,
		"pressure": 1010,
		"humidity": 65,
		"uvi": 7.5,
		"clouds": 40,
		"visibility": 10000,
		"wind_speed": 5.0,
		"wind_deg": 200,
		"rain": {"1h": 2.0},
		"weather": [{"id": 500, "description": "light rain"}]
	},
	"daily": [
		{
			"dt": 1785648000,
			"temp": {"min": 20.0, "max": 31.0},
			"pop": 0.6,
			"rain": 8.0,
			"snow": 0,
			"wind_speed": 6.0,
			"wind_deg": 210,
			"uvi": 8.0,
			"sunrise": 1785600000,
			"sunset": 1785645000
		}
	],
	"hourly": [
		{
			"dt": 1785648000,
			"temp": 30.0,
			"humidity": 50,
			"clouds": 55,
			"wind_speed": 7.0,
			"wind_deg": 220,
			"pop": 0.8,
			"rain": {"1h": 3.0},
			"weather": [{"id": 501, "description": "moderate rain"}]
		}
	]
}`

func TestGetDailyForecast_CachesUnderSharedKey(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(oneCallFixture))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := openweather.NewWithBaseURL(store, httpclient.New(), "test-key", srv.URL)

	forecasts, err := p.GetDailyForecast(context.Background(), testCity(), 16, nil, nil)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, 1, hits)

	// hourly call against the same city should now hit cache, not network
	_, err = p.GetHourlyForecast(context.Background(), testCity(), 48, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "daily and hourly share one cached payload")
}

func TestGetCurrentWeather_HourlyOverridesSampledFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(oneCallFixture))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := openweather.NewWithBaseURL(store, httpclient.New(), "test-key", srv.URL)

	weather, err := p.GetCurrentWeather(context.Background(), testCity(), nil)
	require.NoError(t, err)

	assert.Equal(t, 30.0, weather.Temperature, "temperature must come from the nearest hourly entry")
	assert.Equal(t, 31.5, weather.FeelsLike, "feels_like must be preserved from the current block")
	assert.Equal(t, 1010.0, weather.Pressure, "pressure must be preserved from the current block")
	assert.Equal(t, 10000.0, weather.Visibility, "visibility must be preserved from the current block")
}

func TestGetDailyForecast_MissingCoordinatesErrors(t *testing.T) {
	p := openweather.New(newFakeStore(), httpclient.New(), "test-key")
	city := weathermodel.City{ID: "0000000", Name: "No Coords"}
	_, err := p.GetDailyForecast(context.Background(), city, 7, nil, nil)
	assert.Error(t, err)
}
