package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// HeuristicTable maps a condition name to the keywords that suggest it in
// free-form symptom text. It is plain data consumed by a pure scoring
// function; the default table below can be overridden from a JSON file of
// the same shape.
type HeuristicTable map[string][]string

// DefaultHeuristicTable biases low-confidence results toward common, benign
// conditions. Keyword matching is plain substring search on lower-cased
// input.
func DefaultHeuristicTable() HeuristicTable {
	return HeuristicTable{
		"common cold":             {"runny nose", "sneezing", "sore throat", "nasal", "congestion"},
		"influenza (flu)":         {"high fever", "body ache", "body aches", "chills"},
		"covid-19":                {"loss of smell", "loss of taste", "covid", "sore throat", "fever", "dry cough"},
		"urinary tract infection": {"painful urination", "blood in urine", "frequent urination", "burning urination"},
		"gastroenteritis":         {"diarrhea", "vomiting", "stomach pain", "abdominal cramps", "nausea"},
		"migraine":                {"migraine", "one-sided headache", "throbbing headache", "aura"},
		"pcos":                    {"irregular period", "irregular periods", "acne", "hirsutism", "excess hair", "weight gain"},
		"hypothyroidism":          {"weight gain", "cold intolerance", "fatigue", "constipation", "dry skin"},
		"anemia":                  {"fatigue", "pale", "shortness of breath", "dizziness"},
		"gastritis":               {"heartburn", "stomach pain", "upper abdominal pain", "indigestion", "bloating"},
	}
}

// LoadHeuristicTable reads a condition->keywords table from a JSON file.
func LoadHeuristicTable(path string) (HeuristicTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heuristics file: %w", err)
	}

	var table HeuristicTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse heuristics file %s: %w", path, err)
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("heuristics file %s contains no entries", path)
	}

	return table, nil
}

// Broad category fallbacks, applied in this fixed priority order when no
// table entry matches at all.
var categoryFallbacks = []struct {
	disease  string
	score    float64
	keywords []string
}{
	{"common cold", 0.30, []string{"cough", "sore throat", "runny", "sneezing", "nasal"}},
	{"gastroenteritis", 0.30, []string{"diarrhea", "vomit", "nausea", "stomach"}},
	{"migraine", 0.25, []string{"headache", "migraine"}},
}

// scoreConditions returns a heuristic score per condition for the given
// lower-cased symptom text. A matched keyword scores
// 0.25 + min(0.35, 0.05 * occurrences); the best score across a condition's
// matched keywords wins.
func scoreConditions(text string, table HeuristicTable) map[string]float64 {
	scores := make(map[string]float64)

	for disease, keywords := range table {
		for _, kw := range keywords {
			if !strings.Contains(text, kw) {
				continue
			}
			count := strings.Count(text, kw)
			score := 0.25 + min(0.35, 0.05*float64(count))
			if score > scores[disease] {
				scores[disease] = score
			}
		}
	}

	if len(scores) > 0 {
		return scores
	}

	for _, cat := range categoryFallbacks {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				scores[cat.disease] = cat.score
				return scores
			}
		}
	}

	return scores
}
