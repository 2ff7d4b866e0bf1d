// FilePath: internal/models/models.weather.go
package models

// Weather is the current conditions plus a short forecast for a location.
type Weather struct {
	Location  string        `json:"location"`
	Temp      float64       `json:"temp"`
	FeelsLike float64       `json:"feelsLike"`
	Condition string        `json:"condition"`
	Icon      string        `json:"icon"`
	Humidity  float64       `json:"humidity"`
	WindSpeed float64       `json:"windSpeed"`
	Forecast  []ForecastDay `json:"forecast"`
}

type ForecastDay struct {
	Day       string  `json:"day"`
	Temp      float64 `json:"temp"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
}
