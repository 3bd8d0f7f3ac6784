// Package health provides health checking functionality for the medinsight API.
package health

import (
	"net/http"
	"time"

	"github.com/medinsight/medinsight-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	sessions        interfaces.SessionStore
	gatewayReady    bool
	model           string
	serverStartTime time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies.
// gatewayReady reports whether a model API key was configured at startup.
func NewHealthChecker(sessions interfaces.SessionStore, gatewayReady bool, model string) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		sessions:        sessions,
		gatewayReady:    gatewayReady,
		model:           model,
		serverStartTime: time.Now(),
	}
}

// HealthCheck returns HTTP-specific health data.
// Used by /health HTTP endpoint.
//
// A missing API key degrades rather than fails the check: the server still
// serves the symptom catalog and stored results, only new analyses are off.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	if h.gatewayReady {
		status = "healthy"
		httpStatus = http.StatusOK
	} else {
		status = "degraded"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"model_gateway":  h.gatewayReady,
		"model":          h.model,
		"sessions":       h.sessions.SessionCount(),
		"uptime_seconds": int(time.Since(h.serverStartTime).Seconds()),
	}
	if last := h.sessions.LastActivity(); !last.IsZero() {
		data["last_activity"] = last.Format(time.RFC3339)
	}

	return status, data, httpStatus
}
