package weathercond

// Condition codes, proprietary to this system (100-999), grouped by band:
// clear/cloud 100-399, drizzle 400-499, rain 500-599, storm 600-699,
// fog 700-799, haze 800-899, snow 900-999.
const (
	Clear        = 100
	PartlyCloudy = 200
	Cloudy       = 300
	Overcast     = 350

	LightDrizzle    = 400
	ModerateDrizzle = 410
	HeavyDrizzle    = 420

	LightRain     = 500
	ModerateRain  = 510
	HeavyRain     = 520
	VeryHeavyRain = 530

	StormLight    = 600
	StormModerate = 610
	StormHeavy    = 620
	StormSevere   = 630

	FogLight = 700
	Fog      = 710
	FogHeavy = 720

	Haze = 800

	LightSnow    = 900
	ModerateSnow = 910
	HeavySnow    = 920
)

var descriptions = map[int]string{
	Clear:        "Céu limpo",
	PartlyCloudy: "Parcialmente nublado",
	Cloudy:       "Nublado",
	Overcast:     "Céu encoberto",

	LightDrizzle:    "Garoa leve",
	ModerateDrizzle: "Garoa moderada",
	HeavyDrizzle:    "Garoa intensa",

	LightRain:     "Chuva leve",
	ModerateRain:  "Chuva moderada",
	HeavyRain:     "Chuva forte",
	VeryHeavyRain: "Chuva muito forte",

	StormLight:    "Tempestade leve",
	StormModerate: "Tempestade moderada",
	StormHeavy:    "Tempestade forte",
	StormSevere:   "Tempestade severa",

	FogLight: "Neblina leve",
	Fog:      "Neblina",
	FogHeavy: "Nevoeiro denso",

	Haze: "Névoa seca",

	LightSnow:    "Neve leve",
	ModerateSnow: "Neve moderada",
	HeavySnow:    "Neve forte",
}

// Classify maps derived weather metrics to a proprietary condition code and
// its Portuguese description (C2). The cascade below is a strict priority
// order — the first matching rule wins, regardless of what later rules
// would also match (e.g. heavy rain plus strong wind resolves to a storm
// code, never a rain code).
func Classify(rainfallIntensity int, precipitationMMPerHour, windSpeedKMH, cloudsPct, visibilityM, temperatureC, rainProbabilityPct float64) (code int, description string) {
	ri := float64(rainfallIntensity)

	// 1: storm - high intensity plus strong wind.
	if ri >= 40 && windSpeedKMH >= 30 {
		switch {
		case ri >= 70 || windSpeedKMH >= 60:
			code = StormSevere
		case ri >= 55 || windSpeedKMH >= 45:
			code = StormHeavy
		case ri >= 45:
			code = StormModerate
		default:
			code = StormLight
		}
		return code, descriptions[code]
	}

	// 2: rain, banded by precipitation volume and intensity.
	if ri >= 25 {
		switch {
		case precipitationMMPerHour >= 50 || ri >= 60:
			code = VeryHeavyRain
		case precipitationMMPerHour >= 10 || ri >= 40:
			code = HeavyRain
		case precipitationMMPerHour >= 2.5 || ri >= 30:
			code = ModerateRain
		default:
			code = LightRain
		}
		return code, descriptions[code]
	}

	// 3: drizzle - low precipitation but present (or high rain probability
	// with a nonzero intensity signal).
	if precipitationMMPerHour > 0 || (rainProbabilityPct >= 60 && ri > 0) {
		switch {
		case precipitationMMPerHour >= 2.5:
			code = HeavyDrizzle
		case precipitationMMPerHour >= 0.5:
			code = ModerateDrizzle
		default:
			code = LightDrizzle
		}
		return code, descriptions[code]
	}

	// 4: fog - low visibility.
	if visibilityM < 3000 {
		switch {
		case visibilityM < 500:
			code = FogHeavy
		case visibilityM < 1000:
			code = Fog
		default:
			code = FogLight
		}
		return code, descriptions[code]
	}

	// 5: snow - cold with precipitation.
	if temperatureC < 2 && precipitationMMPerHour > 0 {
		switch {
		case precipitationMMPerHour >= 10:
			code = HeavySnow
		case precipitationMMPerHour >= 2.5:
			code = ModerateSnow
		default:
			code = LightSnow
		}
		return code, descriptions[code]
	}

	// 6: haze - reduced visibility without precipitation.
	if visibilityM < 5000 && precipitationMMPerHour == 0 {
		return Haze, descriptions[Haze]
	}

	// 7: cloud cover, no precipitation.
	switch {
	case cloudsPct >= 85:
		code = Overcast
	case cloudsPct >= 50:
		code = Cloudy
	case cloudsPct >= 20:
		code = PartlyCloudy
	default:
		code = Clear
	}
	return code, descriptions[code]
}
