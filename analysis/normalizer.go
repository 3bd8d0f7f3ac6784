package analysis

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/medinsight/medinsight-api/analysis/entities"
)

// fallbackThreshold is the top-confidence level below which the keyword
// heuristics take over. Model-reported confidence is unreliable at low
// values; blending in deterministic keyword scores keeps the result list
// biased toward common, benign conditions instead of a single overconfident
// rare diagnosis. That bias is product policy.
const fallbackThreshold = 0.30

// maxPredictions bounds the ranked list shown to the user.
const maxPredictions = 3

var titleCaser = cases.Title(language.English)

// CanonicalProbability forces a reported probability into [0,1]. Values
// above 1 are treated as percentages.
func CanonicalProbability(p float64) float64 {
	if p > 1.0 {
		p = p / 100.0
	}
	if p > 1.0 {
		p = 1.0
	}
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	return p
}

// NormalizePredictions turns raw model candidates into the final ranked list:
// at most maxPredictions entries, probabilities canonical and summing to 1
// (unless every score is 0). symptomText is the combined checklist and free
// text; it feeds the keyword heuristics when the model is under-confident.
// The second return reports whether the heuristic fallback was taken.
//
// Normalizing an already-normalized confident list is a no-op.
func NormalizePredictions(candidates []entities.Prediction, symptomText string, table HeuristicTable) ([]entities.Prediction, bool) {
	preds := make([]entities.Prediction, len(candidates))
	copy(preds, candidates)
	for i := range preds {
		preds[i].Probability = CanonicalProbability(preds[i].Probability)
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})

	topConfidence := 0.0
	if len(preds) > 0 {
		topConfidence = preds[0].Probability
	}

	if topConfidence >= fallbackThreshold {
		return rescaleTop(preds), false
	}

	return heuristicFallback(preds, symptomText, table), true
}

// rescaleTop keeps the first maxPredictions candidates and rescales their
// probabilities to sum to 1, preserving model-provided descriptive fields
// verbatim. A zero sum leaves the probabilities at 0.
func rescaleTop(preds []entities.Prediction) []entities.Prediction {
	if len(preds) > maxPredictions {
		preds = preds[:maxPredictions]
	}

	total := 0.0
	for _, p := range preds {
		total += p.Probability
	}

	out := make([]entities.Prediction, 0, len(preds))
	for _, p := range preds {
		if total > 0 {
			p.Probability = round3(p.Probability / total)
		}
		out = append(out, fillDefaults(p))
	}
	return out
}

// heuristicFallback merges keyword-derived candidates with the (weak) model
// candidates, taking the maximum score per condition name, then normalizes
// and truncates. Purely heuristic entries carry title-cased names and empty
// descriptive fields.
func heuristicFallback(preds []entities.Prediction, symptomText string, table HeuristicTable) []entities.Prediction {
	if table == nil {
		table = DefaultHeuristicTable()
	}

	merged := make([]entities.Prediction, 0, len(preds))
	index := make(map[string]int)
	for _, p := range preds {
		name := strings.ToLower(strings.TrimSpace(p.Disease))
		if name == "" {
			name = "unknown"
			p.Disease = "Unknown"
		}
		if at, seen := index[name]; seen {
			if p.Probability > merged[at].Probability {
				merged[at].Probability = p.Probability
			}
			continue
		}
		index[name] = len(merged)
		merged = append(merged, p)
	}

	scores := scoreConditions(strings.ToLower(symptomText), table)
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic order for equal scores

	for _, name := range names {
		score := scores[name]
		key := strings.ToLower(name)
		if at, seen := index[key]; seen {
			if score > merged[at].Probability {
				merged[at].Probability = score
			}
			continue
		}
		index[key] = len(merged)
		merged = append(merged, entities.Prediction{
			Disease:     titleCaser.String(name),
			Probability: score,
		})
	}

	// Truncate before normalizing so the kept entries always sum to 1.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Probability > merged[j].Probability
	})
	if len(merged) > maxPredictions {
		merged = merged[:maxPredictions]
	}

	total := 0.0
	for _, p := range merged {
		total += p.Probability
	}
	if total > 0 {
		for i := range merged {
			merged[i].Probability = round3(merged[i].Probability / total)
		}
	}

	out := make([]entities.Prediction, 0, len(merged))
	for _, p := range merged {
		out = append(out, fillDefaults(p))
	}
	return out
}

// fillDefaults replaces nil slices with empty ones so rendered JSON never
// carries null where the schema promises a list.
func fillDefaults(p entities.Prediction) entities.Prediction {
	if p.Disease == "" {
		p.Disease = "Unknown"
	}
	if p.Precautions == nil {
		p.Precautions = []string{}
	}
	if p.Links == nil {
		p.Links = []string{}
	}
	return p
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
