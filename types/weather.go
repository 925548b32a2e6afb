package types

// WeatherSnapshot holds the fields the app reads from Open-Meteo.
// A nil snapshot is a valid state everywhere; callers degrade to defaults.
type WeatherSnapshot struct {
	LocationName string         `json:"locationName"`
	Current      WeatherCurrent `json:"current"`
	Daily        WeatherDaily   `json:"daily"`
}

// WeatherCurrent mirrors Open-Meteo's "current" block.
type WeatherCurrent struct {
	Temperature2m       float64 `json:"temperature_2m"`
	RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
}

// WeatherDaily mirrors Open-Meteo's "daily" block (7-day forecast).
type WeatherDaily struct {
	Time                        []string  `json:"time"`
	Temperature2mMax            []float64 `json:"temperature_2m_max"`
	Temperature2mMin            []float64 `json:"temperature_2m_min"`
	WeatherCode                 []int     `json:"weather_code"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
}

// CurrentTempC returns the current temperature, or fallback when the
// snapshot is nil.
func (w *WeatherSnapshot) CurrentTempC(fallback float64) float64 {
	if w == nil {
		return fallback
	}
	return w.Current.Temperature2m
}
