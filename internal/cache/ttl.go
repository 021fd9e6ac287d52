package cache

import "time"

// TTL classes for the entry kinds this service caches.
const (
	CurrentWeatherTTL = 3600 * time.Second
	HourlyForecastTTL = 3600 * time.Second
	DailyForecastTTL  = 10800 * time.Second
	MunicipalityMeshTTL = 7 * 24 * time.Hour
)

// Cache key prefixes, one per provider+dataset combination.
const (
	PrefixOpenMeteoCurrent = "openmeteo_"
	PrefixOpenMeteoHourly  = "openmeteo_hourly_"
	PrefixOpenMeteoDaily   = "openmeteo_daily_"
	PrefixOpenWeatherAll   = "openweather_"
	PrefixMunicipalityMesh = "mesh_"
)

// batchGetChunkSize and batchSetChunkSize bound how many keys/items this
// store sends to the backend per round trip.
const (
	batchGetChunkSize = 100
	batchSetChunkSize = 25
)
