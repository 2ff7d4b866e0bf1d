// FilePath: internal/weather/weather.codes.go
package weather

// Condition is the display text and icon for a WMO weather code.
type Condition struct {
	Text string
	Icon string
}

var conditions = map[int]Condition{
	0:  {"Clear sky", "sun"},
	1:  {"Mainly clear", "sun"},
	2:  {"Partly cloudy", "cloud-sun"},
	3:  {"Overcast", "cloud"},
	45: {"Fog", "fog"},
	48: {"Depositing rime fog", "fog"},
	51: {"Light drizzle", "drizzle"},
	53: {"Moderate drizzle", "drizzle"},
	55: {"Dense drizzle", "drizzle"},
	61: {"Slight rain", "rain"},
	63: {"Moderate rain", "rain"},
	65: {"Heavy rain", "rain"},
	71: {"Slight snow fall", "snow"},
	73: {"Moderate snow fall", "snow"},
	75: {"Heavy snow fall", "snow"},
	80: {"Slight rain showers", "showers"},
	81: {"Moderate rain showers", "showers"},
	82: {"Violent rain showers", "showers"},
	95: {"Thunderstorm", "storm"},
	96: {"Thunderstorm with slight hail", "storm"},
	99: {"Thunderstorm with heavy hail", "storm"},
}

// ConditionFor maps a weather code; unknown codes read as clear sky.
func ConditionFor(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return conditions[0]
}
