// Package classifier maps raw hive sensor values onto a status tier.
package classifier

import (
	"fmt"

	"github.com/beemind/hub/internal/models"
)

// Thresholds. All comparisons are strict: a value exactly on a threshold
// belongs to the less severe tier.
const (
	CriticalTempHigh  = 38.0
	CriticalTempLow   = 10.0
	CriticalVibration = 2000.0

	WarningTempHigh     = 36.0
	WarningHumidityHigh = 80.0
	WarningHumidityLow  = 30.0
	WarningVibration    = 1000.0
)

const (
	AlertHighVibration  = "High Vibration Alarm"
	AlertNeedsAttention = "Needs Attention"
)

// Reading is the classifier input. Vibration is the hive's sound/vibration
// magnitude.
type Reading struct {
	Temp      float64
	Humidity  float64
	Vibration float64
}

// FromSensor builds a classifier input from a sensor reading.
func FromSensor(r models.SensorReading) Reading {
	return Reading{Temp: r.Temp, Humidity: r.Humidity, Vibration: r.Sound}
}

type Result struct {
	Status    models.HiveStatus
	AlertType *string
	Priority  int
}

// Classify returns the status tier for a reading. First matching tier wins.
func Classify(r Reading) Result {
	switch {
	case r.Temp > CriticalTempHigh:
		return critical(fmt.Sprintf("High Temperature (%.1f °C)", r.Temp))
	case r.Temp < CriticalTempLow:
		return critical(fmt.Sprintf("Low Temperature (%.1f °C)", r.Temp))
	case r.Vibration > CriticalVibration:
		return critical(AlertHighVibration)
	}

	if Reason(r) != "" {
		alert := AlertNeedsAttention
		return Result{Status: models.StatusWarning, AlertType: &alert, Priority: models.PriorityWarning}
	}

	return Result{Status: models.StatusStable, Priority: models.PriorityStable}
}

// Reason names the warning sub-condition that fired, or "" when none did.
// The public alert stays generic; this is for logs and diagnostics.
func Reason(r Reading) string {
	switch {
	case r.Temp > WarningTempHigh:
		return "high temperature"
	case r.Humidity > WarningHumidityHigh:
		return "high humidity"
	case r.Humidity < WarningHumidityLow:
		return "low humidity"
	case r.Vibration > WarningVibration:
		return "elevated vibration"
	}
	return ""
}

// Apply classifies the hive's current values and returns it with status,
// alert and priority set.
func Apply(h models.Hive) models.Hive {
	res := Classify(FromSensor(h.Reading()))
	h.Status = res.Status
	h.AlertType = res.AlertType
	h.Priority = res.Priority
	return h
}

func critical(alert string) Result {
	return Result{Status: models.StatusCritical, AlertType: &alert, Priority: models.PriorityCritical}
}
