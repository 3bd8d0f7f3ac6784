package entities

// Extraction is the structured result of the prescription extractor.
type Extraction struct {
	Medicines    []Medicine    `json:"medicines"`
	Interactions []Interaction `json:"interactions"`
	Note         string        `json:"note"`
}

// Forecast is the structured result of the symptom predictor: at most three
// candidates whose probabilities sum to 1 after normalization.
type Forecast struct {
	Predictions []Prediction `json:"predictions"`
	Note        string       `json:"note"`
}

// AnalysisResult wraps the outcome of one pipeline run. Exactly one of
// Extraction and Forecast may be set, and only when the raw model output
// parsed; Raw always holds the unmodified model output (or a diagnostic
// string when the gateway failed or returned nothing).
type AnalysisResult struct {
	Mode       string      `json:"mode"` // "extract_prescription" | "predict_symptoms"
	Extraction *Extraction `json:"extraction,omitempty"`
	Forecast   *Forecast   `json:"forecast,omitempty"`
	Raw        string      `json:"raw"`
}

// Structured reports whether the run produced a parsed object.
func (r *AnalysisResult) Structured() bool {
	if r == nil {
		return false
	}
	return r.Extraction != nil || r.Forecast != nil
}
