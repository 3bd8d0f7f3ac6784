package entities

// Medicine is a single medicine extracted from a prescription.
type Medicine struct {
	Name        string   `json:"name"`
	Dosage      string   `json:"dosage,omitempty"`
	Frequency   string   `json:"frequency,omitempty"`
	Purpose     string   `json:"purpose,omitempty"`
	SideEffects []string `json:"side_effects"`
}
