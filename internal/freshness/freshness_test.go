package freshness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beemind/hub/internal/models"
	"github.com/beemind/hub/internal/repository"
	"github.com/beemind/hub/internal/repository/memory"
)

func newCache() (*Cache, *repository.LocalState) {
	state := repository.NewLocalState(memory.NewKVStore(), "test:")
	return New(state), state
}

func TestResolve_ConnectedPassesThroughAndWrites(t *testing.T) {
	ctx := context.Background()
	c, state := newCache()
	live := models.SensorReading{Temp: 35, Humidity: 50, Sound: 40, Battery: 90, Weight: 41}

	got, cached := c.Resolve(ctx, "01", live)
	assert.Equal(t, live, got)
	assert.False(t, cached)

	stored, ok, err := state.ReadReading(ctx, "01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, live, stored)
}

func TestResolve_DisconnectedUsesCache(t *testing.T) {
	ctx := context.Background()
	c, state := newCache()
	written := models.SensorReading{Temp: 34.7, Humidity: 48.2, Sound: 312.5, Battery: 76, Weight: 39.9}
	require.NoError(t, state.WriteReading(ctx, "01", written))

	got, cached := c.Resolve(ctx, "01", models.SensorReading{Battery: 75})
	assert.True(t, cached)
	assert.Equal(t, written, got)
}

func TestResolve_DisconnectedWithoutCacheKeepsZeros(t *testing.T) {
	c, _ := newCache()
	live := models.SensorReading{Battery: 60}

	got, cached := c.Resolve(context.Background(), "02", live)
	assert.False(t, cached)
	assert.Equal(t, live, got)
}

func TestResolve_DisconnectReconnect(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache()
	tick1 := models.SensorReading{Temp: 35, Humidity: 50, Sound: 40}

	_, cached := c.Resolve(ctx, "01", tick1)
	require.False(t, cached)

	got, cached := c.Resolve(ctx, "01", models.SensorReading{})
	assert.True(t, cached)
	assert.Equal(t, tick1, got)

	tick3 := models.SensorReading{Temp: 36, Humidity: 52, Sound: 44}
	got, cached = c.Resolve(ctx, "01", tick3)
	assert.False(t, cached)
	assert.Equal(t, tick3, got)
}

func TestResolve_PartialZeroIsConnected(t *testing.T) {
	c, _ := newCache()
	live := models.SensorReading{Temp: 0, Humidity: 0, Sound: 12}

	got, cached := c.Resolve(context.Background(), "03", live)
	assert.False(t, cached)
	assert.Equal(t, live, got)
}

type failingRepo struct{}

func (failingRepo) ReadReading(context.Context, string) (models.SensorReading, bool, error) {
	return models.SensorReading{}, false, errors.New("redis down")
}
func (failingRepo) WriteReading(context.Context, string, models.SensorReading) error {
	return errors.New("redis down")
}
func (failingRepo) DeleteReading(context.Context, string) error { return errors.New("redis down") }

func TestResolve_StorageErrorsDegrade(t *testing.T) {
	c := New(failingRepo{})
	live := models.SensorReading{Temp: 33, Humidity: 40, Sound: 10}

	got, cached := c.Resolve(context.Background(), "01", live)
	assert.Equal(t, live, got)
	assert.False(t, cached)

	got, cached = c.Resolve(context.Background(), "01", models.SensorReading{})
	assert.Equal(t, models.SensorReading{}, got)
	assert.False(t, cached)
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	c, state := newCache()
	require.NoError(t, state.WriteReading(ctx, "05", models.SensorReading{Temp: 30}))

	require.NoError(t, c.Forget(ctx, "05"))
	_, ok, err := state.ReadReading(ctx, "05")
	require.NoError(t, err)
	assert.False(t, ok)
}
