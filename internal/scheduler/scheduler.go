// Package scheduler drives the periodic reconciliation of the hive,
// gateway and weather feeds.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	nuts "github.com/vaudience/go-nuts"
)

var (
	ErrRunning    = errors.New("scheduler already running")
	ErrNotRunning = errors.New("scheduler not running")
)

// Jobs are the fetch paths the scheduler invokes.
type Jobs interface {
	ReconcileHives(ctx context.Context) error
	ReconcileGateway(ctx context.Context) error
	ReconcileWeather(ctx context.Context) error
}

type Scheduler struct {
	jobs         Jobs
	hiveEvery    time.Duration
	weatherEvery time.Duration

	mu     sync.Mutex
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(jobs Jobs, hiveEvery, weatherEvery time.Duration) *Scheduler {
	return &Scheduler{
		jobs:         jobs,
		hiveEvery:    hiveEvery,
		weatherEvery: weatherEvery,
	}
}

// interval fires every d after the previous activation. Unlike cron.Every
// it keeps sub-second precision.
type interval time.Duration

func (i interval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(i))
}

// Start fetches every feed once, then schedules hives and gateway every
// hiveEvery and weather every weatherEvery.
func (s *Scheduler) Start(parent context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return ErrRunning
	}
	if s.hiveEvery <= 0 || s.weatherEvery <= 0 {
		return fmt.Errorf("invalid polling intervals %s / %s", s.hiveEvery, s.weatherEvery)
	}

	ctx, cancel := context.WithCancel(parent)
	logger := cronLogger{}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger)))
	c.Schedule(interval(s.hiveEvery), cron.FuncJob(func() { s.pollHives(ctx) }))
	c.Schedule(interval(s.weatherEvery), cron.FuncJob(func() { s.pollWeather(ctx) }))

	s.cron, s.ctx, s.cancel = c, ctx, cancel

	s.spawn(func() { s.pollHives(ctx) })
	s.spawn(func() { s.pollWeather(ctx) })
	c.Start()

	nuts.L.Infof("[Scheduler] Started: hives every %s, weather every %s", s.hiveEvery, s.weatherEvery)
	return nil
}

// Refresh runs an out-of-band hive and gateway fetch. The periodic timers
// are not touched.
func (s *Scheduler) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return ErrNotRunning
	}
	ctx := s.ctx
	s.spawn(func() { s.pollHives(ctx) })
	return nil
}

// RefreshWeather runs an out-of-band weather fetch.
func (s *Scheduler) RefreshWeather() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return ErrNotRunning
	}
	ctx := s.ctx
	s.spawn(func() { s.pollWeather(ctx) })
	return nil
}

// Stop cancels in-flight fetches, removes both timers and waits for running
// jobs. Nothing runs after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.ctx, s.cancel = nil, nil, nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	s.wg.Wait()
	nuts.L.Infof("[Scheduler] Stopped")
}

// Running reports whether Start has been called without a matching Stop.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// spawn must be called with s.mu held.
func (s *Scheduler) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// pollHives fetches hives and gateway side by side.
func (s *Scheduler) pollHives(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.jobs.ReconcileHives(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = s.jobs.ReconcileGateway(ctx)
	}()
	wg.Wait()
}

func (s *Scheduler) pollWeather(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_ = s.jobs.ReconcileWeather(ctx)
}

// cronLogger routes cron's own errors to the hub log and drops its chatter.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	nuts.L.Errorf("[Scheduler] %s: %v %v", msg, err, keysAndValues)
}
