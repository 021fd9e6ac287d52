// Package weathererrors defines the sentinel error taxonomy shared by the
// provider, use-case, and API layers as package-level sentinels matched with
// errors.Is.
package weathererrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Use errors.Is against these, never string comparison.
var (
	ErrCityNotFound        = errors.New("city not found")
	ErrCoordinatesNotFound = errors.New("city has no known coordinates")
	ErrInvalidRadius       = errors.New("invalid radius")
	ErrInvalidDateTime     = errors.New("invalid date/time")
	ErrWeatherDataNotFound = errors.New("weather data not found")
	ErrGeoDataNotFound     = errors.New("geographic data not found")
	ErrGeoProviderError    = errors.New("upstream weather provider error")
)

// HTTPStatus maps err to the response status the API layer should return.
// Unrecognized errors fall back to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrCityNotFound), errors.Is(err, ErrCoordinatesNotFound), errors.Is(err, ErrGeoDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRadius), errors.Is(err, ErrInvalidDateTime):
		return http.StatusBadRequest
	case errors.Is(err, ErrWeatherDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGeoProviderError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WrapProvider annotates an upstream provider failure with the provider
// name while keeping ErrGeoProviderError matchable via errors.Is.
func WrapProvider(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, ErrGeoProviderError, err)
}
