package weathercond

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_StormTakesPriorityOverRain(t *testing.T) {
	// rainfall_intensity alone would classify as heavy rain, but wind speed
	// pushes it into the storm band instead.
	code, desc := Classify(45, 12, 35, 90, 10000, 22, 80)
	assert.Equal(t, StormModerate, code)
	assert.Equal(t, "Tempestade moderada", desc)
}

func TestClassify_StormSeverity(t *testing.T) {
	cases := []struct {
		name      string
		intensity int
		wind      float64
		want      int
	}{
		{"light", 40, 30, StormLight},
		{"moderate", 45, 30, StormModerate},
		{"heavy by intensity", 55, 30, StormHeavy},
		{"heavy by wind", 40, 45, StormHeavy},
		{"severe by intensity", 70, 30, StormSevere},
		{"severe by wind", 40, 60, StormSevere},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := Classify(tc.intensity, 0, tc.wind, 0, 10000, 20, 0)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestClassify_RainBands(t *testing.T) {
	cases := []struct {
		name      string
		intensity int
		precip    float64
		want      int
	}{
		{"light", 25, 0, LightRain},
		{"moderate by precip", 25, 2.5, ModerateRain},
		{"moderate by intensity", 30, 0, ModerateRain},
		{"heavy by precip", 25, 10, HeavyRain},
		{"heavy by intensity", 40, 0, HeavyRain},
		{"very heavy by precip", 25, 50, VeryHeavyRain},
		{"very heavy by intensity", 60, 0, VeryHeavyRain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := Classify(tc.intensity, tc.precip, 0, 0, 10000, 20, 0)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestClassify_DrizzleByProbabilityWithoutPrecip(t *testing.T) {
	code, _ := Classify(5, 0, 0, 0, 10000, 20, 60)
	assert.Equal(t, LightDrizzle, code)
}

func TestClassify_DrizzleBands(t *testing.T) {
	cases := []struct {
		name   string
		precip float64
		want   int
	}{
		{"light", 0.2, LightDrizzle},
		{"moderate", 0.5, ModerateDrizzle},
		{"heavy", 2.5, HeavyDrizzle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := Classify(0, tc.precip, 0, 0, 10000, 20, 0)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestClassify_FogBands(t *testing.T) {
	cases := []struct {
		name string
		vis  float64
		want int
	}{
		{"light", 2000, FogLight},
		{"moderate", 800, Fog},
		{"heavy", 300, FogHeavy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := Classify(0, 0, 0, 0, tc.vis, 20, 0)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestClassify_ColdPrecipitationResolvesToDrizzleBeforeSnow(t *testing.T) {
	// drizzle (rule 3) matches any precipitation above zero and comes before
	// snow (rule 5) in the cascade, so 1 mm/h at 1C is moderate drizzle.
	code, _ := Classify(0, 1, 0, 0, 10000, 1, 0)
	assert.Equal(t, ModerateDrizzle, code)

	// no precipitation at 10C: neither drizzle nor snow applies, and
	// visibility 10000 keeps it clear of the fog and haze bands, so clouds wins
	code, _ = Classify(0, 0, 0, 0, 10000, 10, 0)
	assert.Equal(t, Clear, code)
}

func TestClassify_Haze(t *testing.T) {
	code, _ := Classify(0, 0, 0, 10, 4000, 20, 0)
	assert.Equal(t, Haze, code)
}

func TestClassify_CloudBands(t *testing.T) {
	cases := []struct {
		name   string
		clouds float64
		want   int
	}{
		{"clear", 5, Clear},
		{"partly cloudy", 20, PartlyCloudy},
		{"cloudy", 50, Cloudy},
		{"overcast", 85, Overcast},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := Classify(0, 0, 0, tc.clouds, 10000, 20, 0)
			assert.Equal(t, tc.want, code)
		})
	}
}
