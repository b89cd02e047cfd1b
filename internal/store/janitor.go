package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const purgeTimeout = 30 * time.Second

// Janitor deletes expired cache entries on a cron schedule.
type Janitor struct {
	store  *Store
	cron   *cron.Cron
	logger *logging.Logger
}

// NewJanitor schedules PurgeExpired. An empty schedule returns a nil Janitor,
// which is safe to Start and Stop.
func NewJanitor(s *Store, schedule string, logger *logging.Logger) (*Janitor, error) {
	schedule = strings.TrimSpace(schedule)
	if s == nil || schedule == "" {
		return nil, nil
	}

	j := &Janitor{store: s, cron: cron.New(), logger: logger}
	if _, err := j.cron.AddFunc(schedule, j.purge); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the scheduler in the background.
func (j *Janitor) Start() {
	if j == nil {
		return
	}
	j.cron.Start()
}

// Stop halts the scheduler and waits for a running purge to finish.
func (j *Janitor) Stop() {
	if j == nil {
		return
	}
	<-j.cron.Stop().Done()
}

// Next returns when the purge runs next; zero before Start.
func (j *Janitor) Next() time.Time {
	if j == nil {
		return time.Time{}
	}
	entries := j.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (j *Janitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := j.store.PurgeExpired(ctx)
	if j.logger == nil {
		return
	}
	if err != nil {
		j.logger.Warn("Cache purge failed", zap.Error(err))
		return
	}
	j.logger.Debug("Cache purge complete", zap.Int64("deleted", n))
}
