package services

import (
	"fmt"
	"strings"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

const notSpecified = "Not specified"

// extractionOutputContract is the machine-readable contract the model is
// asked to follow. Field names and enumerated value sets mirror the
// ExtractionResult wire format exactly.
const extractionOutputContract = `Return ONLY valid JSON with this schema:
{
  "medications": [
    {
      "medicationName": string,
      "genericName": string (optional),
      "brandName": string (optional),
      "dosage": {"amount": number, "unit": "mg" | "mcg" | "g" | "ml" | "units" | "puffs" | "drops" | "tablets" | "capsules"},
      "frequency": {"times": integer >= 1, "period": "daily" | "weekly" | "monthly" | "as-needed", "abbreviation": string (e.g. "qd", "bid", "tid", "qid", "prn")},
      "duration": {"amount": integer (optional), "unit": string (e.g. "days", "weeks")},
      "route": "oral" | "topical" | "inhaled" | "intravenous" | "intramuscular" | "subcutaneous" | "sublingual" | "ophthalmic" | "nasal",
      "instructions": string,
      "indication": string,
      "category": string,
      "confidenceScore": number between 0 and 1
    }
  ],
  "extractionNotes": string,
  "clinicalContext": string
}
Do not wrap the JSON in prose. Only include medications explicitly mentioned in the text. Do not invent dosages that were not stated.`

// PromptBuilder renders the deterministic extraction instruction for the
// language model. It is a pure renderer: no model call, no retries, no
// side effects.
type PromptBuilder struct{}

// NewPromptBuilder creates a new prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build renders the full prompt for one extraction request. Every patient
// field is rendered even when absent ("Not specified") so the prompt shape
// stays stable across requests.
func (b *PromptBuilder) Build(text string, pctx entities.PatientContext) string {
	var sb strings.Builder

	sb.WriteString("You are a clinical documentation assistant for a clinic management platform. ")
	sb.WriteString("Extract every prescribed medication from the clinical text below into structured form.\n\n")

	sb.WriteString("Patient context:\n")
	sb.WriteString("- Age: " + renderAge(pctx.PatientInfo.Age) + "\n")
	sb.WriteString("- Gender: " + orNotSpecified(pctx.PatientInfo.Gender) + "\n")
	sb.WriteString("- Weight: " + renderWeight(pctx.PatientInfo.WeightKg) + "\n")
	sb.WriteString("- Allergies: " + renderList(pctx.PatientInfo.Allergies) + "\n")
	sb.WriteString("- Current medications: " + renderList(pctx.PatientInfo.CurrentMedications) + "\n")
	sb.WriteString("- Chief complaint: " + orNotSpecified(pctx.EncounterInfo.ChiefComplaint) + "\n")
	sb.WriteString("- Diagnosis: " + orNotSpecified(pctx.EncounterInfo.Diagnosis) + "\n")
	sb.WriteString("- Specialty: " + orNotSpecified(pctx.Specialty) + "\n\n")

	sb.WriteString("Clinical text to analyze:\n")
	sb.WriteString("\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n\n")

	sb.WriteString(extractionOutputContract)

	return sb.String()
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}
	return value
}

func renderAge(age *int) string {
	if age == nil {
		return notSpecified
	}
	return fmt.Sprintf("%d years", *age)
}

func renderWeight(kg float64) string {
	if kg <= 0 {
		return notSpecified
	}
	return fmt.Sprintf("%.1f kg", kg)
}

func renderList(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}
