package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateFeelsLike_HeatIndexAboveThreshold(t *testing.T) {
	got := CalculateFeelsLike(32, 70, 10)
	assert.Greater(t, got, 32.0, "high humidity heat index should feel hotter than actual temperature")
}

func TestCalculateFeelsLike_WindChillBelowThreshold(t *testing.T) {
	got := CalculateFeelsLike(5, 50, 20)
	assert.Less(t, got, 5.0, "wind chill should feel colder than actual temperature")
}

func TestCalculateFeelsLike_ModerateRangeReturnsActual(t *testing.T) {
	assert.Equal(t, 18.0, CalculateFeelsLike(18, 60, 15))
}

func TestCalculateFeelsLike_ColdWithoutWindReturnsActual(t *testing.T) {
	// below 10C but wind under the 4.8 km/h threshold: no wind chill applies
	assert.Equal(t, 5.0, CalculateFeelsLike(5, 50, 3))
}
