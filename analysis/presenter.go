package analysis

import (
	"math"
	"strings"

	"github.com/medinsight/medinsight-api/analysis/entities"
)

// Default disclaimers shown when the model omits its note field.
const (
	defaultExtractionNote = "This analysis is generated by an AI system and is not a substitute for professional medical advice."
	defaultForecastNote   = "This is NOT a diagnosis. Seek medical care when appropriate."
)

// Confidence tiers for prediction cards.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// InteractionCard is one interaction annotated with render hints.
type InteractionCard struct {
	Drug1          string `json:"drug1"`
	Drug2          string `json:"drug2"`
	Effect         string `json:"effect"`
	Mechanism      string `json:"mechanism"`
	Recommendation string `json:"recommendation"`
	CardClass      string `json:"card_class"`
	LabelClass     string `json:"label_class"`
}

// RiskGroup collects the interactions sharing one risk level, heaviest
// groups first in PrescriptionView.
type RiskGroup struct {
	Level        string            `json:"level"`
	Count        int               `json:"count"`
	Interactions []InteractionCard `json:"interactions"`
}

// PrescriptionView is the display-ready form of an extraction.
type PrescriptionView struct {
	Medicines  []entities.Medicine `json:"medicines"`
	RiskGroups []RiskGroup         `json:"risk_groups"`
	Note       string              `json:"note"`
}

// PredictionCard is one ranked condition with render hints attached.
type PredictionCard struct {
	Rank        int      `json:"rank"`
	Disease     string   `json:"disease"`
	Probability float64  `json:"probability"`
	Percent     int      `json:"percent"`
	Tier        string   `json:"tier"`
	Description string   `json:"description"`
	Consult     string   `json:"consult"`
	Precautions []string `json:"precautions"`
	Links       []string `json:"links"`
	Matched     bool     `json:"matched"`
}

// ForecastView is the display-ready form of a symptom forecast.
type ForecastView struct {
	Predictions []PredictionCard `json:"predictions"`
	Note        string           `json:"note"`
}

var riskStyles = map[string][2]string{
	entities.RiskHigh:     {"risk-card risk-high", "risk-label risk-label-high"},
	entities.RiskModerate: {"risk-card risk-moderate", "risk-label risk-label-moderate"},
	entities.RiskLow:      {"risk-card risk-low", "risk-label risk-label-low"},
}

// PresentPrescription groups interactions by risk level, High before
// Moderate before Low, keeping the model's order within each group.
// Interactions with an unrecognized level are skipped. Empty groups are
// omitted.
func PresentPrescription(ex *entities.Extraction) *PrescriptionView {
	view := &PrescriptionView{
		Medicines: []entities.Medicine{},
		Note:      defaultExtractionNote,
	}
	if ex == nil {
		return view
	}
	if strings.TrimSpace(ex.Note) != "" {
		view.Note = ex.Note
	}

	for _, m := range ex.Medicines {
		if strings.TrimSpace(m.Name) == "" {
			m.Name = "Unknown"
		}
		if m.SideEffects == nil {
			m.SideEffects = []string{}
		}
		view.Medicines = append(view.Medicines, m)
	}

	for _, level := range []string{entities.RiskHigh, entities.RiskModerate, entities.RiskLow} {
		group := RiskGroup{Level: level}
		for _, in := range ex.Interactions {
			if NormalizeRiskLevel(in.RiskLevel) != level {
				continue
			}
			style := riskStyles[level]
			group.Interactions = append(group.Interactions, InteractionCard{
				Drug1:          defaultString(in.Drug1, "Unknown"),
				Drug2:          defaultString(in.Drug2, "Unknown"),
				Effect:         in.Effect,
				Mechanism:      in.Mechanism,
				Recommendation: in.Recommendation,
				CardClass:      style[0],
				LabelClass:     style[1],
			})
		}
		if len(group.Interactions) > 0 {
			group.Count = len(group.Interactions)
			view.RiskGroups = append(view.RiskGroups, group)
		}
	}
	if view.RiskGroups == nil {
		view.RiskGroups = []RiskGroup{}
	}

	return view
}

// PresentForecast ranks predictions and fills per-card render hints. Links
// come from the model when it supplied any, otherwise from the curated
// table, capped at three either way. matchFlags carries the user's
// "matches my experience" marks keyed by 1-based rank.
func PresentForecast(fc *entities.Forecast, matchFlags map[int]bool) *ForecastView {
	view := &ForecastView{
		Predictions: []PredictionCard{},
		Note:        defaultForecastNote,
	}
	if fc == nil {
		return view
	}
	if strings.TrimSpace(fc.Note) != "" {
		view.Note = fc.Note
	}

	for i, p := range fc.Predictions {
		prob := CanonicalProbability(p.Probability)
		pct := int(math.Round(prob * 100))

		links := p.Links
		if len(links) == 0 {
			links = LearnMoreLinks(p.Disease)
		}
		if len(links) > 3 {
			links = links[:3]
		}

		rank := i + 1
		view.Predictions = append(view.Predictions, PredictionCard{
			Rank:        rank,
			Disease:     defaultString(p.Disease, "Unknown"),
			Probability: prob,
			Percent:     pct,
			Tier:        confidenceTier(pct),
			Description: p.Description,
			Consult:     p.Consult,
			Precautions: nonNil(p.Precautions),
			Links:       nonNil(links),
			Matched:     matchFlags[rank],
		})
	}

	return view
}

func confidenceTier(pct int) string {
	switch {
	case pct >= 70:
		return TierHigh
	case pct >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
