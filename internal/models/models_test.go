package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecency(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23 * time.Hour, "23 hours ago"},
		{48 * time.Hour, "2 days ago"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Recency(now.Add(-c.ago), now), c.ago.String())
	}
	assert.Equal(t, "never", Recency(time.Time{}, now))
}

func TestSensorReadingDisconnected(t *testing.T) {
	assert.True(t, SensorReading{Battery: 80, Weight: 40}.Disconnected())
	assert.False(t, SensorReading{Sound: 1}.Disconnected())
	assert.False(t, SensorReading{Temp: 35, Humidity: 50, Sound: 40}.Disconnected())
}

func TestHiveWithReadingKeepsIdentity(t *testing.T) {
	h := Hive{ID: "01", Name: "Linden", Temp: 1}
	got := h.WithReading(SensorReading{Temp: 34.5, Humidity: 60, Sound: 200, Battery: 90, Weight: 41})

	assert.Equal(t, "01", got.ID)
	assert.Equal(t, "Linden", got.Name)
	assert.Equal(t, 34.5, got.Temp)
	assert.Equal(t, 1.0, h.Temp)
	assert.Equal(t, got.Reading(), SensorReading{Temp: 34.5, Humidity: 60, Sound: 200, Battery: 90, Weight: 41})
}

func TestCloneHivesCopiesAlert(t *testing.T) {
	alert := "High Temperature (39.4 °C)"
	src := []Hive{{ID: "01", AlertType: &alert}, {ID: "02"}}

	out := CloneHives(src)
	*out[0].AlertType = "changed"

	assert.Equal(t, "High Temperature (39.4 °C)", *src[0].AlertType)
	assert.Nil(t, out[1].AlertType)
	assert.Nil(t, CloneHives(nil))
}
