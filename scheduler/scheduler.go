// Package scheduler runs the background store monitor. The name index is
// built once at startup and never refreshed, so the monitor only reports
// when the store drifts away from it.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const checkTimeout = 10 * time.Second

// Scheduler periodically pings the record store and compares its size with
// the name index.
type Scheduler struct {
	store     interfaces.RecordStore
	index     interfaces.NameIndexInfo
	interval  time.Duration
	scheduler *gocron.Scheduler

	mu        sync.Mutex
	lastCount int64
	failures  int
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.RecordStore, index interfaces.NameIndexInfo, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		index:     index,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
		lastCount: -1,
	}
}

// Start runs a first check right away, then every interval.
func (s *Scheduler) Start() error {
	s.check()

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.check)
	if err != nil {
		logging.Error("Failed to schedule store monitor", "error", err)
		return fmt.Errorf("failed to schedule store monitor: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Store monitor started", "interval", s.interval.String())
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// check pings the store, records its size and warns about drift.
func (s *Scheduler) check() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Ping(ctx); err != nil {
		s.failures++
		metrics.StoreUp.Set(0)
		logging.Error("Record store unreachable", "error", err, "consecutive_failures", s.failures)
		return
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		s.failures++
		metrics.StoreUp.Set(0)
		logging.Error("Failed to count store records", "error", err, "consecutive_failures", s.failures)
		return
	}

	if s.failures > 0 {
		logging.Info("Record store reachable again", "after_failures", s.failures)
	}
	s.failures = 0
	metrics.StoreUp.Set(1)

	indexSize := int64(s.index.Len())
	if count != indexSize {
		logging.Warn("Name index is stale, restart to rebuild it",
			"store_records", count,
			"index_names", indexSize,
			"index_built_at", s.index.BuiltAt().Format(time.RFC3339),
		)
	} else if count != s.lastCount {
		logging.Debug("Store matches name index", "records", count)
	}
	s.lastCount = count
}

// ConsecutiveFailures returns how many checks in a row failed to reach the store.
func (s *Scheduler) ConsecutiveFailures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}
