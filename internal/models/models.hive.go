// FilePath: internal/models/models.hive.go
package models

import "time"

// HiveStatus is the severity tier a hive is classified into.
type HiveStatus string

const (
	StatusStable   HiveStatus = "stable"
	StatusWarning  HiveStatus = "warning"
	StatusCritical HiveStatus = "critical"
)

// Priorities, lower is more urgent.
const (
	PriorityCritical = 1
	PriorityWarning  = 2
	PriorityStable   = 3
)

// Hive is one monitored hive's current known state.
type Hive struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Location     string     `json:"location"`
	DeviceSerial string     `json:"deviceSerial"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	Temp         float64    `json:"temp"`
	Humidity     float64    `json:"humidity"`
	Sound        float64    `json:"sound"`
	Battery      float64    `json:"battery"`
	Weight       float64    `json:"weight"`
	Status       HiveStatus `json:"status"`
	AlertType    *string    `json:"alertType"`
	Priority     int        `json:"priority"`
	Cached       bool       `json:"cached"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	// LastUpdate is filled at read time from UpdatedAt.
	LastUpdate string `json:"lastUpdate"`
}

// Reading returns the hive's sensor values.
func (h Hive) Reading() SensorReading {
	return SensorReading{
		Temp:     h.Temp,
		Humidity: h.Humidity,
		Sound:    h.Sound,
		Battery:  h.Battery,
		Weight:   h.Weight,
	}
}

// WithReading returns a copy of h carrying the given sensor values.
func (h Hive) WithReading(r SensorReading) Hive {
	h.Temp = r.Temp
	h.Humidity = r.Humidity
	h.Sound = r.Sound
	h.Battery = r.Battery
	h.Weight = r.Weight
	return h
}

// NewHive is the input of a user-initiated "add hive" action.
type NewHive struct {
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	DeviceSerial string  `json:"deviceSerial"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// CloneHives deep-copies a hive slice so callers can't alias store state.
func CloneHives(hives []Hive) []Hive {
	if hives == nil {
		return nil
	}
	out := make([]Hive, len(hives))
	copy(out, hives)
	for i := range out {
		if out[i].AlertType != nil {
			alert := *out[i].AlertType
			out[i].AlertType = &alert
		}
	}
	return out
}
