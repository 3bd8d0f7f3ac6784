package analysis

// commonSymptoms is the checklist offered to clients. Custom free-text
// symptoms are accepted alongside, this list is just the quick-pick set.
var commonSymptoms = []string{
	"Cough (dry)", "Cough (productive)", "Sore throat", "Nasal congestion", "Runny nose",
	"Sneezing", "Shortness of breath", "Wheezing", "Chest pain", "Chest tightness",
	"Fever", "Chills", "Fatigue", "Dizziness", "Headache", "Nausea", "Vomiting",
	"Diarrhea", "Abdominal pain", "Loss of appetite", "Palpitations", "Back pain",
	"Joint pain", "Rash", "Itching", "Painful urination", "Frequent urination",
	"Irregular periods", "Excess hair growth", "Acne (severe)", "Weight gain (unexplained)",
	"Excessive thirst", "Excessive urination", "Night sweats", "Confusion", "Seizures",
	"Loss of consciousness", "Severe bleeding", "Severe abdominal pain",
}

// CommonSymptoms returns a copy of the symptom checklist.
func CommonSymptoms() []string {
	out := make([]string, len(commonSymptoms))
	copy(out, commonSymptoms)
	return out
}
