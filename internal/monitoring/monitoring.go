package monitoring

import (
	"sort"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// defaultRetention applies when no retention is configured.
const defaultRetention = 24 * time.Hour

// FeedStats counts the outcomes of one polled feed.
type FeedStats struct {
	Successes   int64      `json:"successes"`
	Failures    int64      `json:"failures"`
	LastSuccess *time.Time `json:"lastSuccess,omitempty"`
	LastFailure *time.Time `json:"lastFailure,omitempty"`
}

// Metrics is a point-in-time copy of the service counters.
type Metrics struct {
	Version string               `json:"version"`
	Uptime  string               `json:"uptime"`
	Feeds   map[string]FeedStats `json:"feeds"`
	Events  map[string]int64     `json:"events"`
}

// Service provides monitoring functionality
type Service struct {
	mu        sync.Mutex
	retention time.Duration
	started   time.Time
	feeds     map[string]*FeedStats
	events    map[string][]time.Time
	totals    map[string]int64
	now       func() time.Time
}

// NewService creates a new monitoring service. Event timestamps older than
// retention are dropped.
func NewService(retention time.Duration) *Service {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Service{
		retention: retention,
		started:   time.Now(),
		feeds:     make(map[string]*FeedStats),
		events:    make(map[string][]time.Time),
		totals:    make(map[string]int64),
		now:       time.Now,
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.mu.Lock()
	ts := s.now()
	s.totals[eventName]++
	s.events[eventName] = append(prune(s.events[eventName], ts.Add(-s.retention)), ts)
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

// RecordFetch counts the outcome of a feed poll.
func (s *Service) RecordFetch(feed string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, found := s.feeds[feed]
	if !found {
		st = &FeedStats{}
		s.feeds[feed] = st
	}
	ts := s.now()
	if ok {
		st.Successes++
		st.LastSuccess = &ts
	} else {
		st.Failures++
		st.LastFailure = &ts
	}
}

// GetEventMetrics counts events of eventType recorded within the last
// duration, e.g. hive deletions in the last hour.
func (s *Service) GetEventMetrics(eventType string, duration time.Duration) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-duration)
	var n int64
	for _, ts := range s.events[eventType] {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return map[string]int64{
		"count": n,
		"total": s.totals[eventType],
	}, nil
}

// Snapshot returns a copy of all counters.
func (s *Service) Snapshot() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Metrics{
		Version: nuts.GetVersion(),
		Uptime:  s.now().Sub(s.started).Truncate(time.Second).String(),
		Feeds:   make(map[string]FeedStats, len(s.feeds)),
		Events:  make(map[string]int64, len(s.totals)),
	}
	for name, st := range s.feeds {
		m.Feeds[name] = *st
	}
	for name, n := range s.totals {
		m.Events[name] = n
	}
	return m
}

// FeedNames lists the feeds seen so far, sorted.
func (s *Service) FeedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.feeds))
	for name := range s.feeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	return ts[i:]
}
