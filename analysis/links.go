package analysis

import (
	"net/url"
	"strings"
)

// diseaseLink pairs a lowercase condition key with curated reference URLs.
// Lookup walks the slice in order, so more specific keys must come first.
type diseaseLink struct {
	key  string
	urls []string
}

var diseaseLinks = []diseaseLink{
	{"influenza", []string{"https://www.cdc.gov/flu/index.htm"}},
	{"covid", []string{"https://www.cdc.gov/coronavirus/2019-ncov/index.html"}},
	{"pneumonia", []string{"https://www.cdc.gov/pneumonia/index.html"}},
	{"asthma", []string{"https://www.cdc.gov/asthma/default.htm"}},
	{"migraine", []string{"https://www.cdc.gov/headache/migraine.htm"}},
	{"common cold", []string{"https://www.cdc.gov/antibiotic-use/community/for-patients/common-illnesses/colds.html"}},
	{"strep throat", []string{"https://www.cdc.gov/groupastrep/index.html"}},
	{"urinary tract infection", []string{"https://www.cdc.gov/antibiotic-use/community/for-patients/common-illnesses/uti.html"}},
	{"gastroenteritis", []string{"https://www.cdc.gov/norovirus/about/index.html"}},
	{"appendicitis", []string{"https://www.nhs.uk/conditions/appendicitis/"}},
	{"pcos", []string{"https://www.ncbi.nlm.nih.gov/books/NBK279105/"}},
	{"hypothyroidism", []string{"https://www.cdc.gov/diabetes/library/features/hypothyroidism.html"}},
	{"anemia", []string{"https://www.cdc.gov/nutrition/micronutrient-malnutrition/index.html"}},
	{"gastritis", []string{"https://www.niddk.nih.gov/health-information/digestive-diseases/gastritis"}},
}

// LearnMoreLinks returns curated reference links for a disease name. The
// match is a substring test in both directions against the lowercased name,
// so "Influenza (flu)" hits the "influenza" entry and a bare "cold" hits
// "common cold". Unknown diseases fall back to CDC and WHO search URLs.
func LearnMoreLinks(disease string) []string {
	dn := strings.ToLower(strings.TrimSpace(disease))
	if dn == "" {
		return []string{}
	}
	for _, dl := range diseaseLinks {
		if strings.Contains(dn, dl.key) || strings.Contains(dl.key, dn) {
			out := make([]string, len(dl.urls))
			copy(out, dl.urls)
			return out
		}
	}
	q := url.QueryEscape(disease)
	return []string{
		"https://www.cdc.gov/search?q=" + q,
		"https://www.who.int/search?q=" + q,
	}
}
