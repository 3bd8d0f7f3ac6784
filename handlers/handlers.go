// Package handlers provides HTTP request handlers for the medinsight API
// endpoints. It includes the analysis endpoints, session result retrieval,
// and response formatting with proper input validation and error handling.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/medinsight/medinsight-api/logging"
)

// SessionHeader carries the client's session identifier. Clients that never
// set it all share the default session, which matches single-user use.
const SessionHeader = "X-Session-ID"

const defaultSessionID = "default"

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	RespondWithJSON(w, code, errorResponse)
}

// sessionID extracts the caller's session identifier from the request
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	return defaultSessionID
}
