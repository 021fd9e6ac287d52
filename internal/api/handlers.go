package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexscott64/regweather/internal/api/dto"
	"github.com/alexscott64/regweather/internal/citystore"
	"github.com/alexscott64/regweather/internal/usecase"
	"github.com/alexscott64/regweather/internal/weathererrors"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

const (
	minRadiusKm     = 10.0
	maxRadiusKm     = 150.0
	defaultRadiusKm = 50.0
)

// Handler wires the three use cases (C9/C10/C11) and the municipality
// table to the HTTP surface described in spec §6.
type Handler struct {
	cities   *citystore.Store
	city     *usecase.CityWeatherUseCase
	regional *usecase.RegionalWeatherUseCase
	detailed *usecase.DetailedForecastUseCase
}

func NewHandler(cities *citystore.Store, city *usecase.CityWeatherUseCase, regional *usecase.RegionalWeatherUseCase, detailed *usecase.DetailedForecastUseCase) *Handler {
	return &Handler{cities: cities, city: city, regional: regional, detailed: detailed}
}

// GetNeighborCities handles GET /api/cities/neighbors/{cityId}?radius=<km>.
func (h *Handler) GetNeighborCities(c *gin.Context) {
	cityID := c.Param("cityId")

	radius := defaultRadiusKm
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.Error(weathererrors.ErrInvalidRadius)
			return
		}
		radius = parsed
	}
	if radius < minRadiusKm || radius > maxRadiusKm {
		c.Error(weathererrors.ErrInvalidRadius)
		return
	}

	center, ok := h.cities.GetByID(cityID)
	if !ok {
		c.Error(weathererrors.ErrCityNotFound)
		return
	}
	if !center.HasCoordinates() {
		c.Error(weathererrors.ErrCoordinatesNotFound)
		return
	}

	found := h.cities.Neighbors(center, radius)
	cities := make([]weathermodel.City, 0, len(found))
	distances := make([]float64, 0, len(found))
	for _, n := range found {
		cities = append(cities, n.City)
		distances = append(distances, n.Distance)
	}

	c.JSON(http.StatusOK, dto.ToNeighborsResponse(center, cities, distances))
}

// GetCityWeather handles GET /api/weather/city/{cityId}?date=YYYY-MM-DD&time=HH:MM.
func (h *Handler) GetCityWeather(c *gin.Context) {
	cityID := c.Param("cityId")

	target, err := parseTargetDatetime(c.Query("date"), c.Query("time"))
	if err != nil {
		c.Error(weathererrors.ErrInvalidDateTime)
		return
	}

	weather, err := h.city.Execute(c.Request.Context(), cityID, target, nil, nil, false)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWeatherResponse(weather))
}

// GetCityDetailedForecast handles GET /api/weather/city/{cityId}/detailed.
func (h *Handler) GetCityDetailedForecast(c *gin.Context) {
	cityID := c.Param("cityId")

	forecast, err := h.detailed.Execute(c.Request.Context(), cityID, nil)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExtendedForecastResponse(forecast))
}

type regionalWeatherRequest struct {
	CityIDs []string `json:"cityIds" binding:"required"`
}

// GetRegionalWeather handles POST /api/weather/regional.
func (h *Handler) GetRegionalWeather(c *gin.Context) {
	var req regionalWeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.CityIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"type":    "InvalidRequest",
			"error":   "InvalidRequest",
			"message": "cityIds is required",
			"details": gin.H{},
		})
		return
	}

	results := h.regional.Execute(c.Request.Context(), req.CityIDs, nil)

	responses := make([]dto.WeatherResponse, 0, len(results))
	for _, w := range results {
		responses = append(responses, dto.ToWeatherResponse(w))
	}

	c.JSON(http.StatusOK, responses)
}

// parseTargetDatetime combines an optional date (YYYY-MM-DD) and time
// (HH:MM) query param pair into a single America/Sao_Paulo instant. When
// both are absent it returns nil, which the use-case layer reads as "now";
// a missing date alone defaults to today and a missing time alone to 00:00.
func parseTargetDatetime(date, clock string) (*time.Time, error) {
	if date == "" && clock == "" {
		return nil, nil
	}

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}

	if date == "" {
		date = time.Now().In(loc).Format("2006-01-02")
	}
	if clock == "" {
		clock = "00:00"
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
