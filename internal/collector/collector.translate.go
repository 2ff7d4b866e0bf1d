// FilePath: internal/collector/collector.translate.go
package collector

import (
	"time"

	"github.com/beemind/hub/internal/models"
)

func translateHive(rec record, now time.Time) (models.Hive, bool) {
	id := rec.str("id", "hive_id", "hiveId")
	if id == "" {
		return models.Hive{}, false
	}

	h := models.Hive{
		ID:           id,
		Name:         rec.str("name", "hive_name", "hiveName"),
		Location:     rec.str("location"),
		DeviceSerial: rec.str("device_serial", "deviceSerial", "serial"),
		Lat:          rec.num("lat", "latitude"),
		Lng:          rec.num("lng", "lon", "longitude"),
		Temp:         rec.num("temperature", "temp"),
		Humidity:     rec.num("humidity"),
		Sound:        rec.num("vibration", "sound"),
		Battery:      clamp(rec.num("battery", "battery_level"), 0, 100),
		Weight:       rec.num("weight"),
		Status:       models.StatusStable,
		Priority:     models.PriorityStable,
	}
	if h.Name == "" {
		h.Name = "Hive " + id
	}
	if h.Location == "" {
		h.Location = "Unknown"
	}
	if h.Lat < -90 || h.Lat > 90 || h.Lng < -180 || h.Lng > 180 {
		h.Lat, h.Lng = 0, 0
	}
	if ts, ok := rec.timestamp("last_update", "lastUpdate", "timestamp", "updated_at"); ok {
		h.UpdatedAt = ts
	} else {
		h.UpdatedAt = now
	}
	return h, true
}

func translateGateway(rec record) models.Gateway {
	g := models.Gateway{
		ID:             rec.str("id", "gateway_id", "gatewayId"),
		BatteryLevel:   clamp(rec.num("battery", "battery_level", "batteryLevel"), 0, 100),
		IsCharging:     rec.flag("is_charging", "isCharging", "charging"),
		SignalStrength: rec.num("signal", "signal_strength", "signalStrength"),
		Status:         models.GatewayOnline,
		ConnectedHives: int(rec.num("connected_hives", "connectedHives")),
	}
	if g.ID == "" {
		g.ID = models.OfflineGateway().ID
	}
	if rec.str("status") == string(models.GatewayOffline) {
		g.Status = models.GatewayOffline
	}
	if ts, ok := rec.timestamp("last_sync", "lastSync"); ok {
		g.LastSync = &ts
	}
	return g
}

func translateChartPoint(rec record) models.ChartPoint {
	p := models.ChartPoint{
		Temp:     rec.num("temp", "temperature"),
		Humidity: rec.num("humidity"),
		Sound:    rec.num("sound", "vibration"),
		Battery:  rec.num("battery"),
	}
	if ts, ok := rec.timestamp("time", "timestamp"); ok {
		p.Time = ts
	} else {
		p.Label = rec.str("time", "timestamp")
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
