package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(clock *time.Time) *Service {
	s := NewService(0)
	s.started = *clock
	s.now = func() time.Time { return *clock }
	return s
}

func TestRecordFetch(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(&clock)

	s.RecordFetch("hives", true)
	clock = clock.Add(10 * time.Second)
	s.RecordFetch("hives", false)
	s.RecordFetch("weather", true)

	m := s.Snapshot()
	require.Contains(t, m.Feeds, "hives")
	assert.Equal(t, int64(1), m.Feeds["hives"].Successes)
	assert.Equal(t, int64(1), m.Feeds["hives"].Failures)
	assert.Equal(t, clock, *m.Feeds["hives"].LastFailure)
	assert.Equal(t, "10s", m.Uptime)
	assert.Equal(t, []string{"hives", "weather"}, s.FeedNames())
}

func TestGetEventMetricsWindow(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(&clock)

	s.RecordEvent("hive_deletion", map[string]string{"hive_id": "01"})
	clock = clock.Add(2 * time.Hour)
	s.RecordEvent("hive_deletion", map[string]string{"hive_id": "02"})

	got, err := s.GetEventMetrics("hive_deletion", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got["count"])
	assert.Equal(t, int64(2), got["total"])

	got, err = s.GetEventMetrics("hive_creation", time.Hour)
	require.NoError(t, err)
	assert.Zero(t, got["count"])
}

func TestEventRetention(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(&clock)

	s.RecordEvent("hive_deletion", nil)
	clock = clock.Add(25 * time.Hour)
	s.RecordEvent("hive_deletion", nil)

	assert.Len(t, s.events["hive_deletion"], 1)
	assert.Equal(t, int64(2), s.Snapshot().Events["hive_deletion"])
}
