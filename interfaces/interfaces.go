// Package interfaces defines core abstractions for the medinsight API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/medinsight/medinsight-api/analysis/entities"
)

// ContentPart is one ordered element of a model request: either free text or
// a binary payload with its MIME type. Exactly one of Text and Data is set.
type ContentPart struct {
	Text     string
	Data     []byte
	MIMEType string
}

// ModelGateway defines the contract with the hosted language model provider.
// One call per user action, no retries. Generate returns the raw text of the
// response; an empty response is reported as ErrEmptyResponse by
// implementations so callers can distinguish it from transport failures.
type ModelGateway interface {
	Generate(ctx context.Context, parts []ContentPart) (string, error)
}

// SessionStore defines the contract for session-scoped analysis state.
// Each completed pipeline run replaces the session's result wholesale and
// purges any positionally-keyed transient flags.
type SessionStore interface {
	// SetResult stores a new analysis result for the session, discarding
	// the previous result and all match flags.
	SetResult(sessionID string, result *entities.AnalysisResult)

	// GetResult returns the session's current result, if any.
	GetResult(sessionID string) (*entities.AnalysisResult, bool)

	// SetMatchFlag records the "matches my experience" flag for the
	// prediction at the given 1-based position.
	SetMatchFlag(sessionID string, position int, matched bool) error

	// MatchFlags returns a copy of the session's match flags.
	MatchFlags(sessionID string) map[int]bool

	// Clear removes the session's result and all transient flags.
	Clear(sessionID string)

	// PurgeIdle removes sessions idle for longer than ttl and returns
	// how many were removed.
	PurgeIdle(ttl time.Duration) int

	// SessionCount returns the number of live sessions.
	SessionCount() int

	// LastActivity returns the time of the most recent state change
	// across all sessions.
	LastActivity() time.Time
}

// Scheduler defines the contract for background maintenance jobs.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// InputValidator defines the contract for validating user-supplied input
// before it reaches the analysis pipelines.
type InputValidator interface {
	// ValidateText validates free-form prescription or symptom text.
	ValidateText(input string) error

	// ValidateMIME checks that an uploaded file's MIME type is supported.
	ValidateMIME(mimeType string) error

	// ValidateSymptoms validates a symptom checklist selection.
	ValidateSymptoms(symptoms []string) error
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)
}
