package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJobs struct {
	hives, gateway, weather atomic.Int32

	mu        sync.Mutex
	cancelled int
}

func (c *countingJobs) record(ctx context.Context, n *atomic.Int32) error {
	n.Add(1)
	if ctx.Err() != nil {
		c.mu.Lock()
		c.cancelled++
		c.mu.Unlock()
	}
	return nil
}

func (c *countingJobs) ReconcileHives(ctx context.Context) error {
	return c.record(ctx, &c.hives)
}

func (c *countingJobs) ReconcileGateway(ctx context.Context) error {
	return c.record(ctx, &c.gateway)
}

func (c *countingJobs) ReconcileWeather(ctx context.Context) error {
	return c.record(ctx, &c.weather)
}

func TestStartFetchesImmediately(t *testing.T) {
	jobs := &countingJobs{}
	s := New(jobs, time.Hour, time.Hour)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool {
		return jobs.hives.Load() == 1 && jobs.gateway.Load() == 1 && jobs.weather.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestIndependentCadences(t *testing.T) {
	jobs := &countingJobs{}
	s := New(jobs, 20*time.Millisecond, time.Hour)
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool { return jobs.hives.Load() >= 4 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), jobs.weather.Load(), "weather only ran at start")
	assert.GreaterOrEqual(t, jobs.gateway.Load(), int32(4), "gateway rides along with hives")
}

func TestRefresh(t *testing.T) {
	jobs := &countingJobs{}
	s := New(jobs, time.Hour, time.Hour)
	assert.ErrorIs(t, s.Refresh(), ErrNotRunning)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	require.Eventually(t, func() bool { return jobs.hives.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Refresh())
	require.NoError(t, s.Refresh())
	require.Eventually(t, func() bool { return jobs.hives.Load() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), jobs.weather.Load())

	require.NoError(t, s.RefreshWeather())
	require.Eventually(t, func() bool { return jobs.weather.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestStopHaltsTimers(t *testing.T) {
	jobs := &countingJobs{}
	s := New(jobs, 10*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return jobs.hives.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.Running())
	h, w := jobs.hives.Load(), jobs.weather.Load()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, h, jobs.hives.Load())
	assert.Equal(t, w, jobs.weather.Load())
	assert.ErrorIs(t, s.Refresh(), ErrNotRunning)

	// Stop is idempotent.
	s.Stop()
}

func TestStartTwice(t *testing.T) {
	s := New(&countingJobs{}, time.Hour, time.Hour)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.ErrorIs(t, s.Start(context.Background()), ErrRunning)
}

func TestRestartAfterStop(t *testing.T) {
	jobs := &countingJobs{}
	s := New(jobs, time.Hour, time.Hour)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool { return jobs.hives.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestInvalidIntervals(t *testing.T) {
	s := New(&countingJobs{}, 0, time.Minute)
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.Running())
}

func TestParentCancellationStopsFetching(t *testing.T) {
	jobs := &countingJobs{}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(jobs, 10*time.Millisecond, time.Hour)
	require.NoError(t, s.Start(ctx))
	defer s.Stop()
	require.Eventually(t, func() bool { return jobs.hives.Load() >= 1 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	h := jobs.hives.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, h, jobs.hives.Load())
}
