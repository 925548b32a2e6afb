package weather

import "github.com/mayanksahani2004/kisan-saathi-ai/types"

// CodeInfo is the human-readable rendering of a WMO weather code.
type CodeInfo struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// wmoCodes maps the WMO interpretation codes Open-Meteo emits.
var wmoCodes = map[int]CodeInfo{
	0:  {"Clear sky", "☀️"},
	1:  {"Mainly clear", "🌤️"},
	2:  {"Partly cloudy", "⛅"},
	3:  {"Overcast", "☁️"},
	45: {"Fog", "🌫️"},
	48: {"Depositing rime fog", "🌫️"},
	51: {"Light drizzle", "🌦️"},
	53: {"Moderate drizzle", "🌦️"},
	55: {"Dense drizzle", "🌧️"},
	61: {"Slight rain", "🌧️"},
	63: {"Moderate rain", "🌧️"},
	65: {"Heavy rain", "🌧️"},
	71: {"Slight snow", "🌨️"},
	73: {"Moderate snow", "🌨️"},
	75: {"Heavy snow", "❄️"},
	80: {"Rain showers", "🌦️"},
	81: {"Moderate rain showers", "🌧️"},
	82: {"Violent rain showers", "⛈️"},
	95: {"Thunderstorm", "⛈️"},
	96: {"Thunderstorm with hail", "⛈️"},
	99: {"Thunderstorm with heavy hail", "⛈️"},
}

// Describe renders a WMO code, defaulting to partly cloudy for codes the
// table does not carry.
func Describe(code int) CodeInfo {
	if info, ok := wmoCodes[code]; ok {
		return info
	}
	return wmoCodes[2]
}

// Alert is one farming-relevant weather warning.
type Alert struct {
	Severity string `json:"severity"` // "warning" or "advisory"
	Message  string `json:"message"`
}

func isRainCode(code int) bool {
	return (code >= 61 && code <= 67) || (code >= 80 && code <= 82) || code >= 95
}

// DeriveAlerts inspects a snapshot for conditions a farmer should act on:
// extreme heat, strong wind, active rain, and likely rain in the next two
// days. A nil snapshot yields no alerts.
func DeriveAlerts(snap *types.WeatherSnapshot) []Alert {
	if snap == nil {
		return nil
	}
	var alerts []Alert
	if snap.Current.Temperature2m > 35 {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Message:  "Extreme heat: irrigate early morning or late evening and shade young plants.",
		})
	}
	if snap.Current.WindSpeed10m > 30 {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Message:  "Strong winds: postpone spraying and stake tall crops.",
		})
	}
	if isRainCode(snap.Current.WeatherCode) {
		alerts = append(alerts, Alert{
			Severity: "advisory",
			Message:  "Rain in progress: hold off on fertilizer application and check field drainage.",
		})
	}
	for i, prob := range snap.Daily.PrecipitationProbabilityMax {
		if i > 1 {
			break
		}
		if prob > 70 {
			alerts = append(alerts, Alert{
				Severity: "advisory",
				Message:  "Heavy rain likely within 48 hours: plan harvesting and drying accordingly.",
			})
			break
		}
	}
	return alerts
}
