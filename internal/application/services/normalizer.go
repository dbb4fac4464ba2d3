package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

// normalization defaults for loosely typed JSON candidates
const (
	defaultUnit       = entities.UnitMg
	defaultPeriod     = entities.PeriodDaily
	defaultRoute      = "oral"
	defaultConfidence = 0.5
)

var inlineDosePattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([a-z]+)$`)

// Normalizer turns the loosely typed output of the JSON parse tiers into a
// well-formed ExtractionResult. Numeric coercion failures silently default
// rather than fail so the pipeline always returns a usable structure for
// clinician review. Pattern-fallback entries arrive already typed and only
// pass the empty-name filter.
type Normalizer struct{}

// NewNormalizer creates a new normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize produces the final result shape regardless of which parser
// tier succeeded. Entries whose normalized name is empty are dropped;
// notes and context default to empty strings, never null.
func (n *Normalizer) Normalize(parsed ParsedResponse) entities.ExtractionResult {
	result := entities.ExtractionResult{
		Medications: []entities.MedicationEntry{},
	}

	if parsed.UsedFallback {
		for _, med := range parsed.Medications {
			if strings.TrimSpace(med.Name) == "" {
				continue
			}
			result.Medications = append(result.Medications, med)
		}
		result.ExtractionNotes = regexFallbackNote
		return result
	}

	result.ExtractionNotes = coalesceString(parsed.Object, "extractionNotes", "notes")
	result.ClinicalContext = coalesceString(parsed.Object, "clinicalContext", "context")

	rawMeds, _ := parsed.Object["medications"].([]any)
	for _, rawMed := range rawMeds {
		med, ok := rawMed.(map[string]any)
		if !ok {
			continue
		}
		entry := n.normalizeEntry(med)
		if entry.Name == "" {
			continue
		}
		result.Medications = append(result.Medications, entry)
	}

	return result
}

func (n *Normalizer) normalizeEntry(med map[string]any) entities.MedicationEntry {
	entry := entities.MedicationEntry{
		// Precedence: medicationName ‖ name ‖ drugName
		Name:        strings.TrimSpace(coalesceString(med, "medicationName", "name", "drugName")),
		GenericName: coalesceString(med, "genericName"),
		BrandName:   coalesceString(med, "brandName"),
		// Precedence: instructions ‖ directions
		Instructions: coalesceString(med, "instructions", "directions"),
		// Precedence: indication ‖ reason
		Indication: coalesceString(med, "indication", "reason"),
		Category:   coalesceString(med, "category"),
		DrugClass:  coalesceString(med, "drugClass", "class"),
	}

	entry.Dosage = n.normalizeDosage(med["dosage"])
	entry.Frequency = n.normalizeFrequency(med["frequency"])
	entry.Duration = n.normalizeDuration(med["duration"])

	entry.Route = coalesceString(med, "route")
	if entry.Route == "" {
		entry.Route = defaultRoute
	}

	entry.ConfidenceScore = defaultConfidence
	if raw, ok := firstValue(med, "confidenceScore", "confidence"); ok {
		if value, ok := coerceFloat(raw); ok {
			entry.ConfidenceScore = clamp01(value)
		}
	}

	return entry
}

// normalizeDosage accepts either the contract object {amount, unit} or an
// inline string like "50mg".
func (n *Normalizer) normalizeDosage(raw any) entities.Dosage {
	dosage := entities.Dosage{Amount: 0, Unit: defaultUnit}

	switch v := raw.(type) {
	case map[string]any:
		if amount, ok := coerceFloat(v["amount"]); ok && amount >= 0 {
			dosage.Amount = amount
		}
		if unit := coalesceString(v, "unit"); unit != "" {
			dosage.Unit = canonicalUnit(unit)
		}
	case string:
		if m := inlineDosePattern.FindStringSubmatch(strings.TrimSpace(v)); m != nil {
			if amount, err := strconv.ParseFloat(m[1], 64); err == nil {
				dosage.Amount = amount
			}
			dosage.Unit = canonicalUnit(m[2])
		}
	}

	return dosage
}

func (n *Normalizer) normalizeFrequency(raw any) entities.Frequency {
	frequency := entities.Frequency{Times: 1, Period: defaultPeriod}

	if v, ok := raw.(map[string]any); ok {
		if times, ok := coerceInt(v["times"]); ok && times >= 1 {
			frequency.Times = times
		}
		if period := coalesceString(v, "period"); period != "" {
			frequency.Period = canonicalPeriod(period)
			if strings.EqualFold(period, "as-needed") || strings.EqualFold(period, "as needed") {
				frequency.Period = entities.PeriodAsNeeded
			}
		}
		frequency.Abbreviation = coalesceString(v, "abbreviation")
	}

	if frequency.Abbreviation == "" {
		if frequency.Period == entities.PeriodAsNeeded {
			frequency.Abbreviation = "prn"
		} else {
			frequency.Abbreviation = frequencyAbbreviation(frequency.Times)
		}
	}

	return frequency
}

func (n *Normalizer) normalizeDuration(raw any) entities.Duration {
	duration := entities.Duration{Unit: "days"}

	if v, ok := raw.(map[string]any); ok {
		if amount, ok := coerceInt(v["amount"]); ok && amount > 0 {
			duration.Amount = amount
		}
		if unit := coalesceString(v, "unit"); unit != "" {
			duration.Unit = strings.ToLower(unit)
		}
	}

	return duration
}

// coalesceString returns the first non-empty string among the given keys.
// The key order documents the field's precedence.
func coalesceString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func firstValue(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func coerceFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if value, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return value, true
		}
	}
	return 0, false
}

func coerceInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		if value, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return value, true
		}
		if value, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(value), true
		}
	}
	return 0, false
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
