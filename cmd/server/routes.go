package main

import (
	"github.com/gin-gonic/gin"

	"github.com/alexscott64/regweather/internal/api"
)

// registerRoutes mounts the four HTTP operations under /api.
func registerRoutes(router *gin.Engine, handler *api.Handler) {
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/cities/neighbors/:cityId", handler.GetNeighborCities)
		apiGroup.GET("/weather/city/:cityId", handler.GetCityWeather)
		apiGroup.GET("/weather/city/:cityId/detailed", handler.GetCityDetailedForecast)
		apiGroup.POST("/weather/regional", handler.GetRegionalWeather)
	}
}
