package entities

// Risk levels for a drug interaction. Input is case-insensitive; these are
// the canonical output forms.
const (
	RiskHigh     = "High"
	RiskModerate = "Moderate"
	RiskLow      = "Low"
)

// Interaction is a clinically significant interaction between two drugs of
// the same prescription.
type Interaction struct {
	Drug1          string `json:"drug1"`
	Drug2          string `json:"drug2"`
	RiskLevel      string `json:"risk_level"`
	Effect         string `json:"effect,omitempty"`
	Mechanism      string `json:"mechanism,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}
