package analysis

import (
	"fmt"
	"strings"

	"github.com/medinsight/medinsight-api/interfaces"
)

// Analysis modes. One mode per pipeline, one request per user action.
const (
	ModeExtractPrescription = "extract_prescription"
	ModePredictSymptoms     = "predict_symptoms"
)

// predictorTopK is how many candidates the model is asked for; the
// normalizer trims the list to maxPredictions afterwards.
const predictorTopK = 6

// extractionPrompt mandates JSON-only output with a fixed schema and a
// closed risk_level set. The model tends to wrap answers in fences or prose
// anyway, which is what RecoverJSON is for.
const extractionPrompt = `You are a highly specialized medical prescription analysis system.

Your task is to read a prescription (text or scanned image/PDF) and return ONLY a valid JSON object,
with no additional commentary, Markdown, or explanation. The JSON MUST match the structure below exactly:

{
  "medicines": [
    {
      "name": "string",
      "dosage": "string",
      "frequency": "string",
      "purpose": "string",
      "side_effects": ["string", "string"]
    }
  ],
  "interactions": [
    {
      "drug1": "string",
      "drug2": "string",
      "risk_level": "High",
      "effect": "string",
      "mechanism": "string",
      "recommendation": "string"
    }
  ],
  "note": "This is not a substitute for professional medical advice."
}

----------------- EXTRACTION GUIDELINES -----------------

1. Extract every medicine distinctly, even if dosage/frequency is unclear.
2. For EACH medicine, identify:
   - Name (brand or generic)
   - Dosage & Strength (e.g., "625mg", "1 tablet")
   - Frequency/directions (e.g., "1-0-1 x 5 days", "after meals")
   - Purpose (infection, pain relief, acidity control, etc.)
   - 3-6 likely side effects based on medical knowledge.

3. Drug Interaction Analysis:
   - Compare every possible combination of medicines.
   - Only include interactions that have clinical significance.
   - The field "risk_level" MUST be exactly one of: "High", "Moderate", or "Low".
   - For each interaction include:
       - EFFECT on patient
       - MECHANISM (how the interaction occurs)
       - RECOMMENDATION (avoid / spacing / monitoring / safe alternative).

----------------- CRITICAL FORMAT RULES -----------------

- Output must be ONLY JSON, with no Markdown, code fences, or backticks.
- Keys and string values MUST be double-quoted.
- No trailing commas.
- The response must be directly parseable by a strict JSON parser.

If data is missing or unreadable, use an empty string "" or [] but NEVER change keys or structure.`

// predictionPromptTemplate carries few-shot examples and an explicit bias
// toward common conditions when symptoms are non-specific.
const predictionPromptTemplate = `You are a clinical triage assistant for educational purposes only.

TASK: Read the user's symptoms and return ONLY a strict JSON object with the top %d most likely conditions,
ranked by probability (most likely first). Use exactly this schema:

{
  "predictions": [
    {
      "disease": "string",
      "probability": 0.0,
      "description": "short (1-2 sentence) plain-language description",
      "consult": "which specialist or clinic (max 4 words)",
      "precautions": ["short bullet strings (3-6 items)"],
      "links": ["optional authoritative URLs, if known"]
    }
  ],
  "note": "This is NOT a diagnosis. Seek medical care when appropriate."
}

IMPORTANT GUIDANCE (READ CAREFULLY):
- When symptoms are non-specific or could be many things, prefer common/benign causes first (e.g., common cold, influenza, gastroenteritis, UTI, tension headache, migraine, reflux, gastritis, PCOS for relevant menstrual features, hypothyroidism for fatigue/weight gain).
- Include chronic/non-acute conditions (PCOS, hypothyroidism, anemia) when relevant symptoms appear (e.g., irregular periods, weight gain, hair growth -> PCOS).
- Keep descriptions short (<= 35 words). Do NOT recommend specific medications or doses.
- Probabilities should reflect relative likelihood (0-1). They don't need to sum to 1 exactly but should be plausible.
- If uncertain, still return common diagnoses rather than rare high-mortality diseases.
- Output must be ONLY JSON, with no Markdown, code fences, or commentary.

EXAMPLE 1
Symptoms:
"Runny nose, sneezing, low-grade fever for 2 days, mild sore throat"

OUTPUT:
{
  "predictions": [
    {
      "disease": "Common cold",
      "probability": 0.55,
      "description": "Viral upper respiratory infection causing runny nose, sneezing, sore throat; usually self-limited.",
      "consult": "Primary care",
      "precautions": ["Rest", "Hydration", "Paracetamol if fever", "Avoid close contact"],
      "links": []
    },
    {
      "disease": "Influenza (flu)",
      "probability": 0.25,
      "description": "Viral respiratory infection with fever and body aches; can be more severe than cold.",
      "consult": "Primary care",
      "precautions": ["Rest", "Hydration", "Seek care if severe"],
      "links": []
    }
  ],
  "note": "This is NOT a diagnosis. Seek care if concerned."
}

EXAMPLE 2
Symptoms:
"Irregular periods, weight gain, increased facial hair, acne"

OUTPUT:
{
  "predictions": [
    {
      "disease": "Polycystic ovary syndrome (PCOS)",
      "probability": 0.7,
      "description": "Hormonal disorder with irregular cycles, acne, hirsutism, and weight gain common in PCOS.",
      "consult": "Endocrinology / Gyn",
      "precautions": ["Record menstrual history", "Check glucose and lipids", "See specialist for evaluation"],
      "links": []
    },
    {
      "disease": "Hypothyroidism",
      "probability": 0.15,
      "description": "Low thyroid hormone can cause weight gain and irregular menses; confirm with blood tests.",
      "consult": "Endocrinology",
      "precautions": ["Check TSH/T4", "Discuss symptoms with clinician"],
      "links": []
    }
  ],
  "note": "This is NOT a diagnosis. Seek care if concerned."
}

Now analyze these symptoms and return JSON only.

Symptoms:
"""
%s
"""`

// BuildPrescriptionTextParts assembles the extractor request for pasted
// prescription text: instruction first, then the user text.
func BuildPrescriptionTextParts(text string) []interfaces.ContentPart {
	return []interfaces.ContentPart{
		{Text: extractionPrompt},
		{Text: "Prescription text:\n" + strings.TrimSpace(text)},
	}
}

// BuildPrescriptionFileParts assembles the extractor request for an uploaded
// image or PDF: the binary part goes ahead of the instruction text.
func BuildPrescriptionFileParts(data []byte, mimeType string) []interfaces.ContentPart {
	return []interfaces.ContentPart{
		{Data: data, MIMEType: mimeType},
		{Text: extractionPrompt},
	}
}

// BuildSymptomParts assembles the predictor request as a single text part.
func BuildSymptomParts(symptomText string) []interfaces.ContentPart {
	return []interfaces.ContentPart{
		{Text: fmt.Sprintf(predictionPromptTemplate, predictorTopK, symptomText)},
	}
}

// CombineSymptomText merges the checklist selection and the free-text
// description into the single string sent to the model and scanned by the
// keyword heuristics.
func CombineSymptomText(checklist []string, freeText string) string {
	var b strings.Builder

	picked := make([]string, 0, len(checklist))
	for _, s := range checklist {
		if t := strings.TrimSpace(s); t != "" {
			picked = append(picked, t)
		}
	}
	if len(picked) > 0 {
		b.WriteString("Checklist: ")
		b.WriteString(strings.Join(picked, ", "))
		b.WriteString(". ")
	}
	if t := strings.TrimSpace(freeText); t != "" {
		b.WriteString("Free text: ")
		b.WriteString(t)
	}

	return strings.TrimSpace(b.String())
}
