// FilePath: internal/models/models.gateway.go
package models

import "time"

type GatewayStatus string

const (
	GatewayOnline  GatewayStatus = "online"
	GatewayOffline GatewayStatus = "offline"
)

// Gateway is the shared hub device relaying hive data.
type Gateway struct {
	ID             string        `json:"id"`
	BatteryLevel   float64       `json:"batteryLevel"`
	IsCharging     bool          `json:"isCharging"`
	SignalStrength float64       `json:"signalStrength"`
	Status         GatewayStatus `json:"status"`
	LastSync       *time.Time    `json:"lastSync"`
	ConnectedHives int           `json:"connectedHives"`
}

// OfflineGateway is the gateway state assumed before any successful fetch.
func OfflineGateway() Gateway {
	return Gateway{
		ID:     "gateway-01",
		Status: GatewayOffline,
	}
}
