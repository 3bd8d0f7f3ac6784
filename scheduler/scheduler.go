// Package scheduler provides background session maintenance for the
// medinsight API. It runs the cron-based idle-session purge and a staleness
// monitor, coordinating with the session store using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/medinsight/medinsight-api/interfaces"
	"github.com/medinsight/medinsight-api/logging"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles session maintenance using dependency injection
type Scheduler struct {
	sessions   interfaces.SessionStore
	sessionTTL time.Duration
	scheduler  *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(sessions interfaces.SessionStore, sessionTTL time.Duration) *Scheduler {
	return &Scheduler{
		sessions:   sessions,
		sessionTTL: sessionTTL,
		scheduler:  gocron.NewScheduler(time.Local),
	}
}

// Start initializes the scheduler with the session purge and activity monitoring
func (s *Scheduler) Start() error {
	// Purge idle sessions every 10 minutes
	_, err := s.scheduler.Every(10).Minutes().Do(func() {
		s.purgeSessions()
	})

	if err != nil {
		logging.Error("Failed to schedule session purge", "error", err)
		return fmt.Errorf("failed to schedule session purge: %w", err)
	}

	s.scheduler.StartAsync()

	// Start activity monitoring
	s.startActivityMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// purgeSessions drops sessions that have been idle longer than the TTL
func (s *Scheduler) purgeSessions() {
	start := time.Now()
	removed := s.sessions.PurgeIdle(s.sessionTTL)
	if removed > 0 {
		logging.Info("Purged idle sessions",
			"removed", removed,
			"remaining", s.sessions.SessionCount(),
			"duration", time.Since(start).String())
	}
}

// startActivityMonitoring logs when the store keeps sessions but nothing has
// touched them for a long stretch, which usually means the purge is not
// keeping up with the configured TTL
func (s *Scheduler) startActivityMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			last := s.sessions.LastActivity()
			if s.sessions.SessionCount() > 0 && !last.IsZero() && time.Since(last) > 2*s.sessionTTL {
				logging.Warn("Sessions present but idle beyond twice the TTL",
					"sessions", s.sessions.SessionCount(),
					"last_activity", last.Format(time.RFC3339))
			}
		}
	}()
}
