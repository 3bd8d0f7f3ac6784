package analysis

import (
	"strconv"
	"strings"

	"github.com/medinsight/medinsight-api/analysis/entities"
)

// Typed-with-defaults deserialization of recovered JSON. The recovery stage
// only guarantees syntax, not schema conformance, so every field access here
// tolerates absence and wrong types: missing or mistyped values decode to
// empty strings, empty lists or zero. Downstream code never branches on
// "might be missing".

// DecodeExtraction maps a recovered object onto the extractor schema.
func DecodeExtraction(obj map[string]any) *entities.Extraction {
	ex := &entities.Extraction{
		Medicines:    []entities.Medicine{},
		Interactions: []entities.Interaction{},
		Note:         asString(obj["note"]),
	}

	for _, item := range asObjectSlice(obj["medicines"]) {
		ex.Medicines = append(ex.Medicines, entities.Medicine{
			Name:        asString(item["name"]),
			Dosage:      asString(item["dosage"]),
			Frequency:   asString(item["frequency"]),
			Purpose:     asString(item["purpose"]),
			SideEffects: asStringSlice(item["side_effects"]),
		})
	}

	for _, item := range asObjectSlice(obj["interactions"]) {
		ex.Interactions = append(ex.Interactions, entities.Interaction{
			Drug1:          asString(item["drug1"]),
			Drug2:          asString(item["drug2"]),
			RiskLevel:      NormalizeRiskLevel(asString(item["risk_level"])),
			Effect:         asString(item["effect"]),
			Mechanism:      asString(item["mechanism"]),
			Recommendation: asString(item["recommendation"]),
		})
	}

	return ex
}

// DecodeForecast maps a recovered object onto the predictor schema. The
// probabilities are passed through as reported; the normalizer canonicalizes
// them.
func DecodeForecast(obj map[string]any) *entities.Forecast {
	fc := &entities.Forecast{
		Predictions: []entities.Prediction{},
		Note:        asString(obj["note"]),
	}

	for _, item := range asObjectSlice(obj["predictions"]) {
		fc.Predictions = append(fc.Predictions, entities.Prediction{
			Disease:     asString(item["disease"]),
			Probability: asFloat(item["probability"]),
			Description: asString(item["description"]),
			Consult:     asString(item["consult"]),
			Precautions: asStringSlice(item["precautions"]),
			Links:       asStringSlice(item["links"]),
		})
	}

	return fc
}

// NormalizeRiskLevel maps a case-insensitive risk level onto its canonical
// form. Unknown values are returned trimmed so the presenter can decide to
// skip them rather than mislabel them.
func NormalizeRiskLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return entities.RiskHigh
	case "moderate":
		return entities.RiskModerate
	case "low":
		return entities.RiskLow
	default:
		return strings.TrimSpace(level)
	}
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func asFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func asObjectSlice(v any) []map[string]any {
	out := []map[string]any{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
