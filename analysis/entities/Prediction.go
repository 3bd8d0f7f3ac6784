package entities

// Prediction is one ranked condition candidate from the symptom predictor.
// Probability is always canonical: forced into [0,1], values reported above
// 1 are treated as percentages.
type Prediction struct {
	Disease     string   `json:"disease"`
	Probability float64  `json:"probability"`
	Description string   `json:"description,omitempty"`
	Consult     string   `json:"consult,omitempty"`
	Precautions []string `json:"precautions"`
	Links       []string `json:"links"`
}
