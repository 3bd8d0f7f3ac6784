// Package handlers provides HTTP request handlers for the medinsight API
// endpoints. This file implements the analysis handlers with dependency
// injection.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/medinsight/medinsight-api/analysis"
	"github.com/medinsight/medinsight-api/analysis/entities"
	"github.com/medinsight/medinsight-api/interfaces"
	"github.com/medinsight/medinsight-api/logging"
)

// HTTPHandlerImpl wires the analysis pipelines to the HTTP surface
type HTTPHandlerImpl struct {
	analyzer     *analysis.Analyzer
	sessions     interfaces.SessionStore
	validator    interfaces.InputValidator
	checker      interfaces.HealthChecker
	gatewayReady bool
	maxUpload    int64
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies.
// gatewayReady reports whether a model API key is configured; without it the
// analysis endpoints answer 503 while the rest of the API stays up.
func NewHTTPHandler(
	analyzer *analysis.Analyzer,
	sessions interfaces.SessionStore,
	validator interfaces.InputValidator,
	checker interfaces.HealthChecker,
	gatewayReady bool,
	maxUpload int64,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		analyzer:     analyzer,
		sessions:     sessions,
		validator:    validator,
		checker:      checker,
		gatewayReady: gatewayReady,
		maxUpload:    maxUpload,
	}
}

// requireGateway rejects analysis requests when no model API key is set
func (h *HTTPHandlerImpl) requireGateway(w http.ResponseWriter) bool {
	if h.gatewayReady {
		return true
	}
	RespondWithError(w, http.StatusServiceUnavailable,
		"Model API key is not configured, analysis is unavailable")
	return false
}

// AnalyzePrescriptionFile runs the extraction pipeline on an uploaded
// prescription image or PDF sent as the multipart field "file".
func (h *HTTPHandlerImpl) AnalyzePrescriptionFile(w http.ResponseWriter, r *http.Request) {
	if !h.requireGateway(w) {
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if err := h.validator.ValidateMIME(mimeType); err != nil {
		RespondWithError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}

	payload, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if int64(len(payload)) > h.maxUpload {
		RespondWithError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
		return
	}

	logging.Info("Prescription file analysis requested",
		"session", sessionID(r), "mime", mimeType, "bytes", len(payload))

	result := h.analyzer.AnalyzePrescriptionFile(r.Context(), payload, mimeType)
	h.storeAndRespond(w, r, result)
}

// AnalyzePrescriptionText runs the extraction pipeline on pasted
// prescription text.
func (h *HTTPHandlerImpl) AnalyzePrescriptionText(w http.ResponseWriter, r *http.Request) {
	if !h.requireGateway(w) {
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validator.ValidateText(body.Text); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	logging.Info("Prescription text analysis requested",
		"session", sessionID(r), "chars", len(body.Text))

	result := h.analyzer.AnalyzePrescriptionText(r.Context(), body.Text)
	h.storeAndRespond(w, r, result)
}

// PredictSymptoms runs the prediction pipeline on the combined checklist
// selection and free-text description. At least one of the two must be
// present.
func (h *HTTPHandlerImpl) PredictSymptoms(w http.ResponseWriter, r *http.Request) {
	if !h.requireGateway(w) {
		return
	}

	var body struct {
		Symptoms []string `json:"symptoms"`
		Text     string   `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validator.ValidateSymptoms(body.Symptoms); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Text) != "" {
		if err := h.validator.ValidateText(body.Text); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	combined := analysis.CombineSymptomText(body.Symptoms, body.Text)
	if combined == "" {
		RespondWithError(w, http.StatusBadRequest, "Provide symptoms, a description, or both")
		return
	}

	logging.Info("Symptom prediction requested",
		"session", sessionID(r), "symptoms", len(body.Symptoms), "chars", len(body.Text))

	result := h.analyzer.PredictSymptoms(r.Context(), combined)
	h.storeAndRespond(w, r, result)
}

// GetResult returns the session's current analysis result in display form
func (h *HTTPHandlerImpl) GetResult(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	result, ok := h.sessions.GetResult(id)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "No analysis result for this session")
		return
	}

	RespondWithJSON(w, http.StatusOK, h.presentResult(result, h.sessions.MatchFlags(id)))
}

// SetMatchFlag records the "matches my experience" flag for one prediction
func (h *HTTPHandlerImpl) SetMatchFlag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Position int  `json:"position"`
		Matched  bool `json:"matched"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.sessions.SetMatchFlag(sessionID(r), body.Position, body.Matched); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"position": body.Position,
		"matched":  body.Matched,
	})
}

// ClearSession discards the session's result and transient flags
func (h *HTTPHandlerImpl) ClearSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(sessionID(r))
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}

// ListSymptoms returns the symptom checklist
func (h *HTTPHandlerImpl) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symptoms": analysis.CommonSymptoms(),
	})
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.checker.HealthCheck()

	response := map[string]interface{}{"status": status}
	for k, v := range details {
		response[k] = v
	}

	RespondWithJSON(w, httpStatus, response)
}

// storeAndRespond replaces the session's result wholesale and returns the
// display form. Storing also purges any match flags from the previous
// result, so stale flags can never attach to new predictions.
func (h *HTTPHandlerImpl) storeAndRespond(w http.ResponseWriter, r *http.Request, result *entities.AnalysisResult) {
	id := sessionID(r)
	h.sessions.SetResult(id, result)
	RespondWithJSON(w, http.StatusOK, h.presentResult(result, nil))
}

// presentResult maps a stored result to its response body. Runs that ended
// without structured data carry only the raw diagnostic text.
func (h *HTTPHandlerImpl) presentResult(result *entities.AnalysisResult, matchFlags map[int]bool) map[string]interface{} {
	body := map[string]interface{}{
		"mode":       result.Mode,
		"structured": result.Structured(),
	}

	switch {
	case result.Extraction != nil:
		body["prescription"] = analysis.PresentPrescription(result.Extraction)
	case result.Forecast != nil:
		body["forecast"] = analysis.PresentForecast(result.Forecast, matchFlags)
	default:
		body["raw"] = result.Raw
	}

	return body
}
