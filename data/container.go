// Package data provides thread-safe session state storage for the
// medinsight API. Each session holds at most one analysis result plus the
// transient per-position match flags attached to it.
package data

import (
	"fmt"
	"sync"
	"time"

	"github.com/medinsight/medinsight-api/analysis/entities"
	"github.com/medinsight/medinsight-api/interfaces"
	"github.com/medinsight/medinsight-api/metrics"
)

// Compile-time check to ensure SessionContainer implements SessionStore
var _ interfaces.SessionStore = (*SessionContainer)(nil)

type session struct {
	result     *entities.AnalysisResult
	matchFlags map[int]bool
	updatedAt  time.Time
}

// SessionContainer stores per-session analysis state behind a single RWMutex.
// Results are replaced wholesale: storing a new result discards the previous
// one together with its match flags, so a flag can never point at a
// different prediction occupying the same position.
type SessionContainer struct {
	mu           sync.RWMutex
	sessions     map[string]*session
	lastActivity time.Time
}

func NewSessionContainer() *SessionContainer {
	return &SessionContainer{
		sessions: make(map[string]*session),
	}
}

// SetResult stores a new analysis result for the session, discarding the
// previous result and all match flags.
func (sc *SessionContainer) SetResult(sessionID string, result *entities.AnalysisResult) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.sessions[sessionID] = &session{
		result:     result,
		matchFlags: make(map[int]bool),
		updatedAt:  time.Now(),
	}
	sc.lastActivity = time.Now()
	metrics.ActiveSessions.Set(float64(len(sc.sessions)))
}

// GetResult returns the session's current result, if any.
func (sc *SessionContainer) GetResult(sessionID string) (*entities.AnalysisResult, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	s, ok := sc.sessions[sessionID]
	if !ok || s.result == nil {
		return nil, false
	}
	return s.result, true
}

// SetMatchFlag records the "matches my experience" flag for the prediction
// at the given 1-based position. The session must hold a symptom forecast
// and the position must fall inside its prediction list.
func (sc *SessionContainer) SetMatchFlag(sessionID string, position int, matched bool) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	s, ok := sc.sessions[sessionID]
	if !ok || s.result == nil {
		return fmt.Errorf("no analysis result for session %q", sessionID)
	}
	if s.result.Forecast == nil {
		return fmt.Errorf("session %q does not hold a symptom forecast", sessionID)
	}
	if position < 1 || position > len(s.result.Forecast.Predictions) {
		return fmt.Errorf("position %d out of range (1-%d)", position, len(s.result.Forecast.Predictions))
	}

	if matched {
		s.matchFlags[position] = true
	} else {
		delete(s.matchFlags, position)
	}
	s.updatedAt = time.Now()
	sc.lastActivity = s.updatedAt
	return nil
}

// MatchFlags returns a copy of the session's match flags.
func (sc *SessionContainer) MatchFlags(sessionID string) map[int]bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	out := make(map[int]bool)
	if s, ok := sc.sessions[sessionID]; ok {
		for k, v := range s.matchFlags {
			out[k] = v
		}
	}
	return out
}

// Clear removes the session's result and all transient flags.
func (sc *SessionContainer) Clear(sessionID string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	delete(sc.sessions, sessionID)
	sc.lastActivity = time.Now()
	metrics.ActiveSessions.Set(float64(len(sc.sessions)))
}

// PurgeIdle removes sessions idle for longer than ttl and returns how many
// were removed.
func (sc *SessionContainer) PurgeIdle(ttl time.Duration) int {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, s := range sc.sessions {
		if s.updatedAt.Before(cutoff) {
			delete(sc.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.ActiveSessions.Set(float64(len(sc.sessions)))
	}
	return removed
}

// SessionCount returns the number of live sessions.
func (sc *SessionContainer) SessionCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.sessions)
}

// LastActivity returns the time of the most recent state change across all
// sessions.
func (sc *SessionContainer) LastActivity() time.Time {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.lastActivity
}
