package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/medinsight/medinsight-api/analysis/entities"
	"github.com/medinsight/medinsight-api/interfaces"
	"github.com/medinsight/medinsight-api/llm"
	"github.com/medinsight/medinsight-api/metrics"
)

// Analyzer runs the two analysis pipelines: prescription extraction and
// symptom prediction. Both share the same shape: one model call, one JSON
// recovery pass, one decode. The symptom pipeline adds confidence
// normalization with the keyword heuristic fallback.
//
// The heuristic table is swappable at runtime (see WatchHeuristicTable), so
// it sits behind an atomic pointer.
type Analyzer struct {
	gateway interfaces.ModelGateway
	table   atomic.Pointer[HeuristicTable]
}

func NewAnalyzer(gateway interfaces.ModelGateway, table HeuristicTable) *Analyzer {
	a := &Analyzer{gateway: gateway}
	if table == nil {
		table = DefaultHeuristicTable()
	}
	a.table.Store(&table)
	return a
}

// SetHeuristicTable swaps the keyword table used by the confidence
// fallback. In-flight requests keep the table they started with.
func (a *Analyzer) SetHeuristicTable(table HeuristicTable) {
	if len(table) == 0 {
		return
	}
	a.table.Store(&table)
	slog.Info("Heuristic table updated", "conditions", len(table))
}

func (a *Analyzer) heuristicTable() HeuristicTable {
	return *a.table.Load()
}

// AnalyzePrescriptionText runs the extraction pipeline on pasted
// prescription text.
func (a *Analyzer) AnalyzePrescriptionText(ctx context.Context, text string) *entities.AnalysisResult {
	return a.runExtraction(ctx, BuildPrescriptionTextParts(text))
}

// AnalyzePrescriptionFile runs the extraction pipeline on an uploaded
// prescription image or PDF.
func (a *Analyzer) AnalyzePrescriptionFile(ctx context.Context, data []byte, mimeType string) *entities.AnalysisResult {
	return a.runExtraction(ctx, BuildPrescriptionFileParts(data, mimeType))
}

// PredictSymptoms runs the prediction pipeline on the combined checklist
// and free-text symptom description.
func (a *Analyzer) PredictSymptoms(ctx context.Context, symptomText string) *entities.AnalysisResult {
	result := &entities.AnalysisResult{Mode: ModePredictSymptoms}

	raw, ok := a.generate(ctx, ModePredictSymptoms, BuildSymptomParts(symptomText), result)
	if !ok {
		return result
	}
	result.Raw = raw

	obj := a.recover(raw)
	if obj == nil {
		slog.Warn("Prediction response could not be parsed, keeping raw output",
			"length", len(raw))
		return result
	}

	forecast := DecodeForecast(obj)
	normalized, fellBack := NormalizePredictions(forecast.Predictions, symptomText, a.heuristicTable())
	if fellBack {
		metrics.HeuristicFallbackTotal.Inc()
		slog.Info("Low model confidence, merged keyword heuristics",
			"model_candidates", len(forecast.Predictions))
	}
	forecast.Predictions = normalized
	result.Forecast = forecast

	return result
}

// runExtraction is the shared body of both prescription entry points.
func (a *Analyzer) runExtraction(ctx context.Context, parts []interfaces.ContentPart) *entities.AnalysisResult {
	result := &entities.AnalysisResult{Mode: ModeExtractPrescription}

	raw, ok := a.generate(ctx, ModeExtractPrescription, parts, result)
	if !ok {
		return result
	}
	result.Raw = raw

	obj := a.recover(raw)
	if obj == nil {
		slog.Warn("Extraction response could not be parsed, keeping raw output",
			"length", len(raw))
		return result
	}

	result.Extraction = DecodeExtraction(obj)
	return result
}

// generate performs the model call and maps its two failure modes onto
// result.Raw diagnostics. Returns the raw text and whether the pipeline
// should continue.
func (a *Analyzer) generate(ctx context.Context, mode string, parts []interfaces.ContentPart, result *entities.AnalysisResult) (string, bool) {
	start := time.Now()
	raw, err := a.gateway.Generate(ctx, parts)
	metrics.LLMRequestDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		metrics.LLMRequestTotals.WithLabelValues(mode, metrics.OutcomeEmpty).Inc()
		slog.Warn("Model returned an empty response", "mode", mode)
		result.Raw = "**Error:** Empty response from model."
		return "", false
	case err != nil:
		metrics.LLMRequestTotals.WithLabelValues(mode, metrics.OutcomeError).Inc()
		slog.Error("Model call failed", "mode", mode, "error", err)
		result.Raw = "An error occurred during API call: " + err.Error()
		return "", false
	case strings.TrimSpace(raw) == "":
		metrics.LLMRequestTotals.WithLabelValues(mode, metrics.OutcomeEmpty).Inc()
		slog.Warn("Model returned an empty response", "mode", mode)
		result.Raw = "**Error:** Empty response from model."
		return "", false
	}

	metrics.LLMRequestTotals.WithLabelValues(mode, metrics.OutcomeOK).Inc()
	return raw, true
}

func (a *Analyzer) recover(raw string) map[string]any {
	obj := RecoverJSON(raw)
	if obj == nil {
		metrics.JSONRecoveryTotals.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil
	}
	metrics.JSONRecoveryTotals.WithLabelValues(metrics.OutcomeRecovered).Inc()
	return obj
}
