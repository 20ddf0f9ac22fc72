// Package scheduler provides cron-based background maintenance for the
// agent: periodic auto-backup triggers and sync-spool garbage collection.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okulov/timeledger/internal/backup"
	"github.com/okulov/timeledger/internal/config"
	"github.com/okulov/timeledger/internal/logging"
	"github.com/okulov/timeledger/internal/tabsync"
)

// Scheduler runs maintenance jobs on cron ticks. Triggers carried over a
// system sleep are dropped rather than fired in a burst on wake.
type Scheduler struct {
	cron      *cron.Cron
	backups   *backup.Manager
	sync      *tabsync.Manager
	mu        sync.Mutex
	lastCheck time.Time
}

// NewScheduler creates a scheduler. Either manager may be nil, in which
// case the corresponding job is skipped.
func NewScheduler(backups *backup.Manager, sync *tabsync.Manager) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		backups: backups,
		sync:    sync,
	}
}

// Start registers the maintenance jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.lastCheck = time.Now()

	_, err := s.cron.AddFunc("0 * * * * *", func() {
		s.runMinuteChecks()
	})
	if err != nil {
		return fmt.Errorf("failed to add minute checks: %w", err)
	}

	s.cron.Start()
	logging.DebugLog("scheduler started")
	return nil
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	logging.DebugLog("scheduler stopped")
}

func (s *Scheduler) runMinuteChecks() {
	s.mu.Lock()
	elapsed := time.Since(s.lastCheck)
	s.lastCheck = time.Now()
	s.mu.Unlock()

	// Skip ticks that straddle a system sleep.
	if elapsed > config.Global.Scheduler.SleepThreshold {
		logging.DebugLog("skipping stale checks after sleep",
			logging.KeyDuration, elapsed.Round(time.Second).Milliseconds())
		return
	}

	s.checkAutoBackup()
	s.collectSpoolGarbage()
}

func (s *Scheduler) checkAutoBackup() {
	if s.backups == nil {
		return
	}
	record, err := s.backups.MaybeAutoBackup(time.Now())
	if err != nil {
		logging.Warn("auto backup", logging.KeyError, err)
		return
	}
	if record != nil {
		logging.DebugLog("auto backup created", logging.KeyBackupID, record.ID)
	}
}

func (s *Scheduler) collectSpoolGarbage() {
	if s.sync == nil || s.sync.Disabled() {
		return
	}
	s.sync.CollectGarbage()
}

// AddJob adds a custom job to the scheduler.
func (s *Scheduler) AddJob(spec string, job func()) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, job)
}

// NextRun returns the next scheduled run time for any job.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}
