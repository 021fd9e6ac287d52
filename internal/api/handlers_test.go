package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexscott64/regweather/internal/api/middleware"
	"github.com/alexscott64/regweather/internal/citystore"
	"github.com/alexscott64/regweather/internal/usecase"
)

const fixtureCities = `[
	{"id":"3550308","name":"Sao Paulo","state":"SP","region":"Sudeste","latitude":-23.5505,"longitude":-46.6333},
	{"id":"3304557","name":"Rio de Janeiro","state":"RJ","region":"Sudeste","latitude":-22.9068,"longitude":-43.1729},
	{"id":"9999999","name":"No Coords City","state":"SP","region":"Sudeste"}
]`

func testRouter(t *testing.T) (*gin.Engine, *citystore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cities, err := citystore.LoadReader(strings.NewReader(fixtureCities))
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler())
	return router, cities
}

func TestGetNeighborCities_Success(t *testing.T) {
	router, cities := testRouter(t)
	handler := NewHandler(cities, nil, nil, nil)
	router.GET("/api/cities/neighbors/:cityId", handler.GetNeighborCities)

	req := httptest.NewRequest(http.MethodGet, "/api/cities/neighbors/3550308?radius=100", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestGetNeighborCities_InvalidRadius(t *testing.T) {
	router, cities := testRouter(t)
	handler := NewHandler(cities, nil, nil, nil)
	router.GET("/api/cities/neighbors/:cityId", handler.GetNeighborCities)

	req := httptest.NewRequest(http.MethodGet, "/api/cities/neighbors/3550308?radius=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "InvalidRadius", body["type"])
}

func TestGetNeighborCities_CityNotFound(t *testing.T) {
	router, cities := testRouter(t)
	handler := NewHandler(cities, nil, nil, nil)
	router.GET("/api/cities/neighbors/:cityId", handler.GetNeighborCities)

	req := httptest.NewRequest(http.MethodGet, "/api/cities/neighbors/0000000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CityNotFound", body["type"])
}

func TestGetNeighborCities_CoordinatesNotFound(t *testing.T) {
	router, cities := testRouter(t)
	handler := NewHandler(cities, nil, nil, nil)
	router.GET("/api/cities/neighbors/:cityId", handler.GetNeighborCities)

	req := httptest.NewRequest(http.MethodGet, "/api/cities/neighbors/9999999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CoordinatesNotFound", body["type"])
}

func TestGetCityWeather_InvalidDateTime(t *testing.T) {
	router, cities := testRouter(t)
	cityUseCase := usecase.NewCityWeatherUseCase(cities, nil)
	handler := NewHandler(cities, cityUseCase, nil, nil)
	router.GET("/api/weather/city/:cityId", handler.GetCityWeather)

	req := httptest.NewRequest(http.MethodGet, "/api/weather/city/3550308?date=not-a-date", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "InvalidDateTime", body["type"])
}

func TestGetRegionalWeather_InvalidBody(t *testing.T) {
	router, cities := testRouter(t)
	handler := NewHandler(cities, nil, nil, nil)
	router.POST("/api/weather/regional", handler.GetRegionalWeather)

	req := httptest.NewRequest(http.MethodPost, "/api/weather/regional", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRegionalWeather_EmptyListIsRejected(t *testing.T) {
	router, cities := testRouter(t)
	handler := NewHandler(cities, nil, nil, nil)
	router.POST("/api/weather/regional", handler.GetRegionalWeather)

	req := httptest.NewRequest(http.MethodPost, "/api/weather/regional", bytes.NewBufferString(`{"cityIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRegionalWeather_Success(t *testing.T) {
	router, cities := testRouter(t)
	cityUseCase := usecase.NewCityWeatherUseCase(cities, nil)
	regionalUseCase := usecase.NewRegionalWeatherUseCase(cityUseCase, nil)
	handler := NewHandler(cities, cityUseCase, regionalUseCase, nil)
	router.POST("/api/weather/regional", handler.GetRegionalWeather)

	req := httptest.NewRequest(http.MethodPost, "/api/weather/regional", bytes.NewBufferString(`{"cityIds":["9999999"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// "9999999" has no coordinates, so the regional use case drops it and
	// returns an empty-but-successful result rather than an error.
	assert.Equal(t, http.StatusOK, w.Code)

	var body []interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body)
}

func TestParseTargetDatetime(t *testing.T) {
	t.Run("empty returns nil", func(t *testing.T) {
		target, err := parseTargetDatetime("", "")
		require.NoError(t, err)
		assert.Nil(t, target)
	})

	t.Run("date and time combine in America/Sao_Paulo", func(t *testing.T) {
		target, err := parseTargetDatetime("2026-03-05", "14:30")
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.Equal(t, 2026, target.Year())
		assert.Equal(t, 14, target.Hour())
	})

	t.Run("invalid date errors", func(t *testing.T) {
		_, err := parseTargetDatetime("not-a-date", "")
		assert.Error(t, err)
	})
}
