package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexscott64/regweather/internal/weathererrors"
)

// exceptionKind maps a sentinel error to the typed name the spec's error
// body contract exposes as "type", so clients can branch without parsing
// the message string.
func exceptionKind(err error) string {
	switch {
	case errors.Is(err, weathererrors.ErrCityNotFound):
		return "CityNotFound"
	case errors.Is(err, weathererrors.ErrCoordinatesNotFound):
		return "CoordinatesNotFound"
	case errors.Is(err, weathererrors.ErrInvalidRadius):
		return "InvalidRadius"
	case errors.Is(err, weathererrors.ErrInvalidDateTime):
		return "InvalidDateTime"
	case errors.Is(err, weathererrors.ErrWeatherDataNotFound):
		return "WeatherDataNotFound"
	case errors.Is(err, weathererrors.ErrGeoDataNotFound):
		return "GeoDataNotFound"
	case errors.Is(err, weathererrors.ErrGeoProviderError):
		return "GeoProviderError"
	default:
		return "InternalError"
	}
}

// ErrorHandler centralizes error-to-response translation, never leaking an
// upstream body or a stack trace: 4xx bodies name the typed error, 5xx
// bodies are uniform and opaque.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := weathererrors.HTTPStatus(err)
		kind := exceptionKind(err)

		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "an unexpected error occurred"
		}

		c.JSON(status, gin.H{
			"type":       kind,
			"error":      kind,
			"message":    message,
			"details":    gin.H{"request_id": c.GetString("request_id")},
			"request_id": c.GetString("request_id"),
		})
	}
}
