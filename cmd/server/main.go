package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alexscott64/regweather/internal/api"
	"github.com/alexscott64/regweather/internal/api/middleware"
	"github.com/alexscott64/regweather/internal/cache"
	"github.com/alexscott64/regweather/internal/citystore"
	"github.com/alexscott64/regweather/internal/config"
	"github.com/alexscott64/regweather/internal/httpclient"
	"github.com/alexscott64/regweather/internal/providers/openmeteo"
	"github.com/alexscott64/regweather/internal/providers/openweather"
	"github.com/alexscott64/regweather/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var store cache.Store
	if cfg.Cache.Enabled {
		persistent, err := cache.NewPostgresStore(cfg.Database.ConnectionString())
		if err != nil {
			log.Fatalf("failed to connect to cache store: %v", err)
		}
		store = cache.NewTwoTier(persistent, 10*time.Minute)
	}

	client := httpclient.NewWithLimits(cfg.Weather.HTTPMaxConnsTotal, cfg.Weather.HTTPMaxConnsPerHost, cfg.Weather.HTTPTimeout)

	meteo := openmeteo.New(store, client)
	openWx := openweather.New(store, client, cfg.Weather.OpenWeatherAPIKey)

	cities, err := citystore.Load(cfg.Weather.MunicipalityTable)
	if err != nil {
		log.Fatalf("failed to load municipality table: %v", err)
	}
	log.Printf("loaded %d municipalities", cities.Count())

	cityUseCase := usecase.NewCityWeatherUseCase(cities, meteo)
	regionalUseCase := usecase.NewRegionalWeatherUseCaseWithFanOutLimit(cityUseCase, store, cfg.Weather.RegionalFanOutLimit)
	detailedUseCase := usecase.NewDetailedForecastUseCase(cities, openWx, meteo)

	handler := api.NewHandler(cities, cityUseCase, regionalUseCase, detailedUseCase)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORS.AllowOrigins,
		AllowMethods:     cfg.Server.CORS.AllowMethods,
		AllowHeaders:     cfg.Server.CORS.AllowHeaders,
		ExposeHeaders:    cfg.Server.CORS.ExposeHeaders,
		AllowCredentials: cfg.Server.CORS.AllowCredentials,
		MaxAge:           cfg.Server.CORS.MaxAge,
	}))

	registerRoutes(router, handler)

	log.Printf("starting regional weather API on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
