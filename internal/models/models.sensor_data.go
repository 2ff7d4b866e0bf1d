// FilePath: internal/models/models.sensor_data.go
package models

import "time"

// SensorReading is the set of values a hive device reports. It is also the
// shape persisted in the freshness cache.
type SensorReading struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Sound    float64 `json:"sound"`
	Battery  float64 `json:"battery"`
	Weight   float64 `json:"weight"`
}

// Disconnected reports whether the reading looks like a silent device:
// temperature, humidity and sound all exactly zero.
func (r SensorReading) Disconnected() bool {
	return r.Temp == 0 && r.Humidity == 0 && r.Sound == 0
}

// ChartPoint is a single point of a hive's history chart.
type ChartPoint struct {
	Time     time.Time `json:"time"`
	Label    string    `json:"label,omitempty"` // raw time when it isn't a timestamp, e.g. "14:00"
	Temp     float64   `json:"temp"`
	Humidity float64   `json:"humidity"`
	Sound    float64   `json:"sound"`
	Battery  float64   `json:"battery"`
}
