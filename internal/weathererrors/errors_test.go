package weathererrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrCityNotFound, http.StatusNotFound},
		{ErrCoordinatesNotFound, http.StatusNotFound},
		{ErrGeoDataNotFound, http.StatusNotFound},
		{ErrInvalidRadius, http.StatusBadRequest},
		{ErrInvalidDateTime, http.StatusBadRequest},
		{ErrWeatherDataNotFound, http.StatusNotFound},
		{ErrGeoProviderError, http.StatusBadGateway},
		{errors.New("unmapped"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}

func TestWrapProvider(t *testing.T) {
	base := errors.New("timeout")
	wrapped := WrapProvider("openmeteo", base)

	assert.True(t, errors.Is(wrapped, ErrGeoProviderError))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(wrapped))
}
