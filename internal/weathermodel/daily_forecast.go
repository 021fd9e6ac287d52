package weathermodel

import "strconv"

// UVRiskLevel buckets a UV index into the WHO five-band risk scale.
type UVRiskLevel string

const (
	UVRiskLow      UVRiskLevel = "Baixo"
	UVRiskModerate UVRiskLevel = "Moderado"
	UVRiskHigh     UVRiskLevel = "Alto"
	UVRiskVeryHigh UVRiskLevel = "Muito Alto"
	UVRiskExtreme  UVRiskLevel = "Extremo"
)

// DailyForecast is one day's aggregated outlook in the 0-16d horizon.
type DailyForecast struct {
	Date string // YYYY-MM-DD, local (America/Sao_Paulo)

	TempMin         float64
	TempMax         float64
	ApparentTempMin *float64
	ApparentTempMax *float64

	PrecipitationMM    float64
	RainProbability    float64
	RainfallIntensity  int
	WindSpeedMax       float64
	WindDirection      int
	UVIndex            float64
	Sunrise            string // HH:MM
	Sunset             string // HH:MM
	PrecipitationHours float64
	Clouds             *float64
	Visibility         *float64

	WeatherCode int
	Description string
}

// UVRiskLevelBand returns the WHO-scale risk band for the daily UV index.
func (d DailyForecast) UVRiskLevelBand() UVRiskLevel {
	switch {
	case d.UVIndex <= 2:
		return UVRiskLow
	case d.UVIndex <= 5:
		return UVRiskModerate
	case d.UVIndex <= 7:
		return UVRiskHigh
	case d.UVIndex <= 10:
		return UVRiskVeryHigh
	default:
		return UVRiskExtreme
	}
}

// UVRiskColor returns the hex color associated with UVRiskLevelBand.
func (d DailyForecast) UVRiskColor() string {
	switch d.UVRiskLevelBand() {
	case UVRiskLow:
		return "#4caf50"
	case UVRiskModerate:
		return "#ffeb3b"
	case UVRiskHigh:
		return "#ff9800"
	case UVRiskVeryHigh:
		return "#f44336"
	default:
		return "#9c27b0"
	}
}

// DaylightHours returns the duration between sunrise and sunset in hours,
// rounded to one decimal. Returns 0 if sunrise/sunset can't be parsed.
func (d DailyForecast) DaylightHours() float64 {
	sunriseMin, ok1 := hhmmToMinutes(d.Sunrise)
	sunsetMin, ok2 := hhmmToMinutes(d.Sunset)
	if !ok1 || !ok2 {
		return 0
	}
	return roundTo1(float64(sunsetMin-sunriseMin) / 60)
}

func hhmmToMinutes(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	sep := -1
	for i, c := range s {
		if c == ':' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return 0, false
	}
	h, err := strconv.Atoi(s[:sep])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

var compassArrows = [8]string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}

// WindDirectionArrow returns a compass arrow pointing in the direction the
// wind is blowing TO (wind_direction is the direction it blows FROM, hence
// the +180 correction).
func (d DailyForecast) WindDirectionArrow() string {
	blowingTo := (d.WindDirection + 180) % 360
	if blowingTo < 0 {
		blowingTo += 360
	}
	index := int((float64(blowingTo)+22.5)/45) % 8
	return compassArrows[index]
}
