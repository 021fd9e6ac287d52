// Package alerts implements the single-pass alert generator (C8) and its
// per-class rules (C12: rain, wind, visibility, temperature, UV).
package alerts

import (
	"sort"
	"time"

	"github.com/alexscott64/regweather/internal/mappers"
	"github.com/alexscott64/regweather/internal/weathercond"
	"github.com/alexscott64/regweather/internal/weathermodel"
)

const (
	windSpeedWarningKMH          = 40.0 // WeatherConstants.WIND_SPEED_WARNING
	windSpeedDangerKMH           = 60.0 // WeatherConstants.WIND_SPEED_DANGER
	tempVariationThresholdC      = 8.0  // WeatherConstants.TEMP_VARIATION_THRESHOLD
	lowVisibilityWarningM        = 1000.0
	lowVisibilityAlertM          = 500.0
	extremeColdC                 = 5.0
	extremeHotC                  = 35.0
	extremeUVIndex               = 11.0
	heavyRainDayPrecipMM         = 20.0
	heavyRainDayAlertPrecipMM    = 50.0
	heavyRainDayRainProbability  = 60.0
	heavyRainDayIntensity        = 25
	rainExpectedProbability      = 70.0
	hourlySamplesPerDayThreshold = 20 // "day covered by hourly" default
	defaultDaysLimit             = 7
	rainEndDryHoursRequired       = 2
	temperatureTrendLookaheadDays = 3
)

// rainCodes is the set of alert codes the rain-end enrichment pass applies
// to. STORM_RAIN is kept for forward compatibility with the closed
// vocabulary (§6) even though the current rain rule never emits it.
var rainCodes = map[weathermodel.AlertCode]bool{
	weathermodel.AlertDrizzle:      true,
	weathermodel.AlertLightRain:    true,
	weathermodel.AlertModerateRain: true,
	weathermodel.AlertHeavyRain:    true,
	weathermodel.AlertStorm:        true,
	weathermodel.AlertStormRain:    true,
}

// point is the unified shape the single-pass scan walks, reconciling
// hourly and daily forecasts (§4.7 "Input reconciliation").
type point struct {
	timestamp         time.Time
	date              string
	isDaily           bool
	temperature       float64
	tempMin, tempMax  float64
	rainfallIntensity int
	precipitationMM   float64
	rainProbability   float64
	windSpeed         float64
	visibility        float64
	weatherCode       int
	uvIndex           float64
}

// Generate runs the alerts generator over hourly and daily forecasts. When
// targetDatetime is nil the scan window anchors to time.Now; otherwise it
// anchors to the supplied instant (useful to reproduce a deterministic
// result for a fixed point in time).
func Generate(hourly []weathermodel.HourlyForecast, daily []weathermodel.DailyForecast, targetDatetime *time.Time, daysLimit int) []weathermodel.WeatherAlert {
	loc := saoPauloLocation()
	if daysLimit <= 0 {
		daysLimit = defaultDaysLimit
	}

	anchor := time.Now().In(loc)
	if targetDatetime != nil {
		anchor = targetDatetime.In(loc)
	}
	windowEnd := anchor.AddDate(0, 0, daysLimit)

	points := reconcile(hourly, daily, loc, anchor, windowEnd)

	alertsByCode := make(map[weathermodel.AlertCode]weathermodel.WeatherAlert)
	dayExtremes := make(map[string]*dayExtreme)

	for _, p := range points {
		recordExtreme(dayExtremes, p)
		for _, candidate := range pointRules(p) {
			insertEarliestWins(alertsByCode, candidate)
		}
	}

	addRainEndTimes(alertsByCode, hourly, loc)

	for _, candidate := range temperatureTrendAlerts(dayExtremes, loc) {
		if _, exists := alertsByCode[candidate.Code]; !exists {
			alertsByCode[candidate.Code] = candidate
		}
	}

	out := make([]weathermodel.WeatherAlert, 0, len(alertsByCode))
	for _, a := range alertsByCode {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func saoPauloLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.UTC
	}
	return loc
}

// reconcile builds the unified per-point scan list, preferring hourly
// samples for any date they sufficiently cover and falling back to the
// daily record otherwise.
func reconcile(hourly []weathermodel.HourlyForecast, daily []weathermodel.DailyForecast, loc *time.Location, anchor, windowEnd time.Time) []point {
	hourlyByDate := make(map[string][]point)
	for _, h := range hourly {
		ts, err := mappers.ParseOpenMeteoTimestamp(h.Timestamp)
		if err != nil {
			continue
		}
		ts = ts.In(loc)
		if ts.Before(anchor) || ts.After(windowEnd) {
			continue
		}
		date := ts.Format("2006-01-02")
		hourlyByDate[date] = append(hourlyByDate[date], hourlyPoint(h, ts, date))
	}

	dailyByDate := make(map[string]weathermodel.DailyForecast)
	for _, d := range daily {
		dayStart, err := time.ParseInLocation("2006-01-02", d.Date, loc)
		if err != nil {
			continue
		}
		if dayStart.Before(anchor.Truncate(24*time.Hour)) || dayStart.After(windowEnd) {
			continue
		}
		dailyByDate[d.Date] = d
	}

	dates := make(map[string]bool)
	for date := range hourlyByDate {
		dates[date] = true
	}
	for date := range dailyByDate {
		dates[date] = true
	}

	var points []point
	for date := range dates {
		hp := hourlyByDate[date]
		d, hasDaily := dailyByDate[date]
		if len(hp) >= hourlySamplesPerDayThreshold || !hasDaily {
			points = append(points, hp...)
			continue
		}
		points = append(points, dailyPoint(d, loc))
	}

	sort.Slice(points, func(i, j int) bool { return points[i].timestamp.Before(points[j].timestamp) })
	return points
}

func hourlyPoint(h weathermodel.HourlyForecast, ts time.Time, date string) point {
	visibility := mappers.FallbackVisibilityM
	if h.Visibility != nil {
		visibility = *h.Visibility
	}
	return point{
		timestamp:         ts,
		date:              date,
		temperature:       h.Temperature,
		rainfallIntensity: h.RainfallIntensity,
		precipitationMM:   h.Precipitation,
		rainProbability:   float64(h.PrecipitationProbability),
		windSpeed:         h.WindSpeed,
		visibility:        visibility,
		weatherCode:       h.WeatherCode,
	}
}

func dailyPoint(d weathermodel.DailyForecast, loc *time.Location) point {
	ts, err := time.ParseInLocation("2006-01-02", d.Date, loc)
	if err != nil {
		ts = time.Now().In(loc)
	}
	visibility := mappers.FallbackVisibilityM
	if d.Visibility != nil {
		visibility = *d.Visibility
	}
	return point{
		timestamp:         ts,
		date:              d.Date,
		isDaily:           true,
		temperature:       (d.TempMin + d.TempMax) / 2.0,
		tempMin:           d.TempMin,
		tempMax:           d.TempMax,
		rainfallIntensity: d.RainfallIntensity,
		precipitationMM:   d.PrecipitationMM,
		rainProbability:   d.RainProbability,
		windSpeed:         d.WindSpeedMax,
		visibility:        visibility,
		weatherCode:       d.WeatherCode,
		uvIndex:           d.UVIndex,
	}
}

// insertEarliestWins applies the per-alert-code dedup invariant: the
// earliest-timestamped occurrence of a code wins.
func insertEarliestWins(alertsByCode map[weathermodel.AlertCode]weathermodel.WeatherAlert, candidate weathermodel.WeatherAlert) {
	existing, ok := alertsByCode[candidate.Code]
	if !ok || candidate.Timestamp.Before(existing.Timestamp) {
		alertsByCode[candidate.Code] = candidate
	}
}

// pointRules evaluates the independent per-class rules (rain, wind,
// visibility, temperature-point, and the daily-only UV/heavy-rain-day
// rules) against one point. More than one code can fire for the same
// point since each dimension is independent.
func pointRules(p point) []weathermodel.WeatherAlert {
	var out []weathermodel.WeatherAlert

	if a, ok := rainAlert(p); ok {
		out = append(out, a)
	}
	if a, ok := windAlert(p); ok {
		out = append(out, a)
	}
	if a, ok := visibilityAlert(p); ok {
		out = append(out, a)
	}
	if a, ok := temperaturePointAlert(p); ok {
		out = append(out, a)
	}
	if p.isDaily {
		if a, ok := uvAlert(p); ok {
			out = append(out, a)
		}
		if a, ok := heavyRainDayAlert(p); ok {
			out = append(out, a)
		}
	}
	return out
}

// isStormCode reports whether the classifier (C2) placed the point's
// weather code in the storm band (600-699), i.e. a thunderstorm signal.
// The raw provider code is never persisted (§4.6), so the classifier's own
// storm band stands in for the spec's "WMO 95-99 / OpenWeather 2xx" check.
func isStormCode(code int) bool {
	return code >= weathercond.StormLight && code < weathercond.StormLight+100
}

func rainAlert(p point) (weathermodel.WeatherAlert, bool) {
	if isStormCode(p.weatherCode) {
		return weathermodel.WeatherAlert{
			Code:        weathermodel.AlertStorm,
			Severity:    weathermodel.SeverityDanger,
			Description: "⛈️ Tempestade prevista",
			Timestamp:   p.timestamp,
			Details:     map[string]any{"date": p.date},
		}, true
	}

	switch {
	case p.rainfallIntensity >= 60:
		return rainBandAlert(weathermodel.AlertHeavyRain, weathermodel.SeverityAlert, "🌧️ Chuva forte", p), true
	case p.rainfallIntensity >= 25:
		return rainBandAlert(weathermodel.AlertModerateRain, weathermodel.SeverityWarning, "🌦️ Chuva moderada", p), true
	case p.rainfallIntensity >= 10:
		return rainBandAlert(weathermodel.AlertLightRain, weathermodel.SeverityInfo, "🌦️ Chuva leve", p), true
	case p.rainfallIntensity >= 1:
		return rainBandAlert(weathermodel.AlertDrizzle, weathermodel.SeverityInfo, "🌧️ Garoa", p), true
	// "with a rain code": at ri==0 the classifier can never land in the
	// drizzle/rain bands, so Cloudy/Overcast (the cloud-cover ceiling before
	// fog/haze/snow take over) stands in for "a rain-adjacent code" here.
	case p.rainfallIntensity == 0 && p.rainProbability >= rainExpectedProbability && (p.weatherCode == weathercond.Cloudy || p.weatherCode == weathercond.Overcast):
		return weathermodel.WeatherAlert{
			Code:        weathermodel.AlertRainExpected,
			Severity:    weathermodel.SeverityInfo,
			Description: "🌥️ Chuva esperada",
			Timestamp:   p.timestamp,
			Details:     map[string]any{"date": p.date, "rain_probability": p.rainProbability},
		}, true
	}
	return weathermodel.WeatherAlert{}, false
}

func rainBandAlert(code weathermodel.AlertCode, severity weathermodel.AlertSeverity, description string, p point) weathermodel.WeatherAlert {
	return weathermodel.WeatherAlert{
		Code:        code,
		Severity:    severity,
		Description: description,
		Timestamp:   p.timestamp,
		Details: map[string]any{
			"date":               p.date,
			"precipitation_mm":   p.precipitationMM,
			"rainfall_intensity": p.rainfallIntensity,
		},
	}
}

func windAlert(p point) (weathermodel.WeatherAlert, bool) {
	if p.windSpeed < windSpeedWarningKMH {
		return weathermodel.WeatherAlert{}, false
	}
	severity := weathermodel.SeverityWarning
	description := "💨 Vento forte"
	if p.windSpeed >= windSpeedDangerKMH {
		severity = weathermodel.SeverityAlert
		description = "💨 Vento muito forte"
	}
	return weathermodel.WeatherAlert{
		Code:        weathermodel.AlertStrongWindDay,
		Severity:    severity,
		Description: description,
		Timestamp:   p.timestamp,
		Details:     map[string]any{"date": p.date, "wind_speed_kmh": p.windSpeed},
	}, true
}

func visibilityAlert(p point) (weathermodel.WeatherAlert, bool) {
	if p.visibility >= lowVisibilityWarningM {
		return weathermodel.WeatherAlert{}, false
	}
	severity := weathermodel.SeverityWarning
	if p.visibility < lowVisibilityAlertM {
		severity = weathermodel.SeverityAlert
	}
	return weathermodel.WeatherAlert{
		Code:        weathermodel.AlertLowVisibility,
		Severity:    severity,
		Description: "🌫️ Visibilidade reduzida",
		Timestamp:   p.timestamp,
		Details:     map[string]any{"date": p.date, "visibility_m": p.visibility},
	}, true
}

func temperaturePointAlert(p point) (weathermodel.WeatherAlert, bool) {
	switch {
	case p.temperature < extremeColdC:
		return weathermodel.WeatherAlert{
			Code:        weathermodel.AlertExtremeCold,
			Severity:    weathermodel.SeverityWarning,
			Description: "🥶 Frio extremo",
			Timestamp:   p.timestamp,
			Details:     map[string]any{"date": p.date, "temperature_c": p.temperature},
		}, true
	case p.temperature > extremeHotC:
		return weathermodel.WeatherAlert{
			Code:        weathermodel.AlertExtremeHot,
			Severity:    weathermodel.SeverityWarning,
			Description: "🥵 Calor extremo",
			Timestamp:   p.timestamp,
			Details:     map[string]any{"date": p.date, "temperature_c": p.temperature},
		}, true
	}
	return weathermodel.WeatherAlert{}, false
}

func uvAlert(p point) (weathermodel.WeatherAlert, bool) {
	if p.uvIndex < extremeUVIndex {
		return weathermodel.WeatherAlert{}, false
	}
	return weathermodel.WeatherAlert{
		Code:        weathermodel.AlertExtremeUV,
		Severity:    weathermodel.SeverityWarning,
		Description: "☀️ Índice UV extremo",
		Timestamp:   p.timestamp,
		Details:     map[string]any{"date": p.date, "uv_index": p.uvIndex},
	}, true
}

func heavyRainDayAlert(p point) (weathermodel.WeatherAlert, bool) {
	if !(p.precipitationMM > heavyRainDayPrecipMM && p.rainProbability > heavyRainDayRainProbability && p.rainfallIntensity >= heavyRainDayIntensity) {
		return weathermodel.WeatherAlert{}, false
	}
	severity := weathermodel.SeverityWarning
	if p.precipitationMM >= heavyRainDayAlertPrecipMM {
		severity = weathermodel.SeverityAlert
	}
	return weathermodel.WeatherAlert{
		Code:        weathermodel.AlertHeavyRainDay,
		Severity:    severity,
		Description: "🌧️ Chuva forte prevista",
		Timestamp:   p.timestamp,
		Details: map[string]any{
			"date":             p.date,
			"precipitation_mm": p.precipitationMM,
			"rain_probability": p.rainProbability,
			"intensity":        p.rainfallIntensity,
		},
	}, true
}

// addRainEndTimes mutates alertsByCode in place, stamping details["rain_ends_at"]
// on every rain-class alert where the hourly series shows the rain ending.
func addRainEndTimes(alertsByCode map[weathermodel.AlertCode]weathermodel.WeatherAlert, hourly []weathermodel.HourlyForecast, loc *time.Location) {
	type tsHourly struct {
		ts weathermodel.HourlyForecast
		t  time.Time
	}
	series := make([]tsHourly, 0, len(hourly))
	for _, h := range hourly {
		t, err := mappers.ParseOpenMeteoTimestamp(h.Timestamp)
		if err != nil {
			continue
		}
		series = append(series, tsHourly{h, t.In(loc)})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].t.Before(series[j].t) })

	for code, alert := range alertsByCode {
		if !rainCodes[code] {
			continue
		}
		end, ok := findRainEnd(series, alert.Timestamp)
		if !ok {
			continue
		}
		details := alert.Details
		if details == nil {
			details = map[string]any{}
		}
		details["rain_ends_at"] = end.Format(time.RFC3339)
		alert.Details = details
		alertsByCode[code] = alert
	}
}

func findRainEnd(series []struct {
	ts weathermodel.HourlyForecast
	t  time.Time
}, start time.Time) (time.Time, bool) {
	var lastRain time.Time
	haveRain := false
	consecutiveDry := 0

	for _, s := range series {
		if s.t.Before(start) {
			continue
		}
		if s.ts.RainfallIntensity >= 1 {
			lastRain = s.t
			haveRain = true
			consecutiveDry = 0
			continue
		}
		consecutiveDry++
		if haveRain && consecutiveDry >= rainEndDryHoursRequired {
			return lastRain.Add(time.Hour), true
		}
	}
	return time.Time{}, false
}

type dayExtreme struct {
	date           string
	temps          []float64
	firstTimestamp time.Time
	hasFirst       bool
}

func recordExtreme(dayExtremes map[string]*dayExtreme, p point) {
	e, ok := dayExtremes[p.date]
	if !ok {
		e = &dayExtreme{date: p.date}
		dayExtremes[p.date] = e
	}
	e.temps = append(e.temps, p.temperature)
	if p.isDaily {
		e.temps = append(e.temps, p.tempMin, p.tempMax)
	}
	if !e.hasFirst {
		e.firstTimestamp = p.timestamp
		e.hasFirst = true
	}
}

// temperatureTrendAlerts implements the bounded-window analysis (§4.7):
// each day is compared only against the next three days, and only the
// single largest-magnitude TEMP_DROP and TEMP_RISE across the whole window
// survive.
func temperatureTrendAlerts(dayExtremes map[string]*dayExtreme, loc *time.Location) []weathermodel.WeatherAlert {
	type dayAgg struct {
		date string
		max  float64
		min  float64
		ts   time.Time
	}
	days := make([]dayAgg, 0, len(dayExtremes))
	for _, e := range dayExtremes {
		if len(e.temps) == 0 || !e.hasFirst {
			continue
		}
		max, min := e.temps[0], e.temps[0]
		for _, t := range e.temps[1:] {
			if t > max {
				max = t
			}
			if t < min {
				min = t
			}
		}
		days = append(days, dayAgg{date: e.date, max: max, min: min, ts: e.firstTimestamp})
	}
	if len(days) < 2 {
		return nil
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date < days[j].date })

	var bestDrop, bestRise *weathermodel.WeatherAlert
	var bestDropMag, bestRiseMag float64

	for i := 0; i < len(days); i++ {
		limit := i + 1 + temperatureTrendLookaheadDays
		if limit > len(days) {
			limit = len(days)
		}
		for j := i + 1; j < limit; j++ {
			variation := days[j].max - days[i].max
			if variation == 0 || (variation < 0 && -variation < tempVariationThresholdC) || (variation > 0 && variation < tempVariationThresholdC) {
				continue
			}
			daysBetween := daysBetweenDates(days[i].date, days[j].date, loc)
			alertTime := startOfDay(days[i].ts, loc)
			details := map[string]any{
				"day_1_date":   days[i].date,
				"day_1_max_c":  days[i].max,
				"day_2_date":   days[j].date,
				"day_2_max_c":  days[j].max,
				"variation_c":  variation,
				"days_between": daysBetween,
			}
			if variation < 0 {
				mag := -variation
				if bestDrop == nil || mag > bestDropMag {
					bestDropMag = mag
					a := weathermodel.WeatherAlert{
						Code:        weathermodel.AlertTempDrop,
						Severity:    weathermodel.SeverityInfo,
						Description: "🌡️ Queda de temperatura",
						Timestamp:   alertTime,
						Details:     details,
					}
					bestDrop = &a
				}
			} else {
				if bestRise == nil || variation > bestRiseMag {
					bestRiseMag = variation
					a := weathermodel.WeatherAlert{
						Code:        weathermodel.AlertTempRise,
						Severity:    weathermodel.SeverityWarning,
						Description: "🌡️ Aumento de temperatura",
						Timestamp:   alertTime,
						Details:     details,
					}
					bestRise = &a
				}
			}
		}
	}

	var out []weathermodel.WeatherAlert
	if bestDrop != nil {
		out = append(out, *bestDrop)
	}
	if bestRise != nil {
		out = append(out, *bestRise)
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func daysBetweenDates(a, b string, loc *time.Location) int {
	ta, err1 := time.ParseInLocation("2006-01-02", a, loc)
	tb, err2 := time.ParseInLocation("2006-01-02", b, loc)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}
