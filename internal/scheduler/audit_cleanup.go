// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// cronParser accepts standard five-field expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// EventPurger removes audit events older than a retention period.
type EventPurger interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// AuditCleanupScheduler purges expired audit events on a cron schedule.
type AuditCleanupScheduler struct {
	purger    EventPurger
	schedule  string
	retention time.Duration

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

func NewAuditCleanupScheduler(purger EventPurger, schedule string, retention time.Duration) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		purger:    purger,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateSchedule reports whether expr is a valid five-field cron expression.
func ValidateSchedule(expr string) error {
	_, err := cronParser.Parse(expr)
	return err
}

// Start schedules the cleanup job. An empty schedule or a non-positive
// retention leaves the scheduler idle. The job stops when ctx is done.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" || s.retention <= 0 {
		log.Info().Msg("audit cleanup scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) })
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Info().
		Str("schedule", s.schedule).
		Dur("retention", s.retention).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("audit cleanup scheduler: started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and halts the scheduler.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Info().Msg("audit cleanup scheduler: stopped")
}

// RunOnce purges expired events immediately.
func (s *AuditCleanupScheduler) RunOnce(ctx context.Context) {
	deleted, err := s.purger.DeleteOldEvents(ctx, s.retention)
	if err != nil {
		log.Error().Err(err).Msg("audit cleanup failed")
		return
	}
	log.Info().Int64("deleted", deleted).Msg("audit cleanup completed")
}

// NextRun returns when the job fires next, or the zero time when idle.
func (s *AuditCleanupScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}
