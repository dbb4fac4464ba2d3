package entities

import "strconv"

// DosageUnit is the unit a medication dose is measured in.
type DosageUnit string

const (
	UnitMg       DosageUnit = "mg"
	UnitMcg      DosageUnit = "mcg"
	UnitG        DosageUnit = "g"
	UnitMl       DosageUnit = "ml"
	UnitUnits    DosageUnit = "units"
	UnitPuffs    DosageUnit = "puffs"
	UnitDrops    DosageUnit = "drops"
	UnitTablets  DosageUnit = "tablets"
	UnitCapsules DosageUnit = "capsules"
)

// ValidDosageUnits returns all accepted dosage units.
func ValidDosageUnits() []DosageUnit {
	return []DosageUnit{
		UnitMg, UnitMcg, UnitG, UnitMl, UnitUnits,
		UnitPuffs, UnitDrops, UnitTablets, UnitCapsules,
	}
}

// IsValid checks if the unit is one of the defined constants.
func (u DosageUnit) IsValid() bool {
	switch u {
	case UnitMg, UnitMcg, UnitG, UnitMl, UnitUnits, UnitPuffs, UnitDrops, UnitTablets, UnitCapsules:
		return true
	}
	return false
}

// FrequencyPeriod is the period a dosing frequency is expressed over.
type FrequencyPeriod string

const (
	PeriodDaily    FrequencyPeriod = "daily"
	PeriodWeekly   FrequencyPeriod = "weekly"
	PeriodMonthly  FrequencyPeriod = "monthly"
	PeriodAsNeeded FrequencyPeriod = "as-needed"
)

// IsValid checks if the period is one of the defined constants.
func (p FrequencyPeriod) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAsNeeded:
		return true
	}
	return false
}

// PerDayRate converts a times-per-period count into a times-per-day rate.
// Weekly counts divide by 7 and monthly by 30; daily and as-needed counts
// are already per-day.
func (p FrequencyPeriod) PerDayRate(times int) float64 {
	switch p {
	case PeriodWeekly:
		return float64(times) / 7
	case PeriodMonthly:
		return float64(times) / 30
	default:
		return float64(times)
	}
}

// Dosage is a single-administration dose.
type Dosage struct {
	Amount float64    `json:"amount"`
	Unit   DosageUnit `json:"unit"`
}

// Frequency describes how often a medication is taken.
type Frequency struct {
	Times        int             `json:"times"`
	Period       FrequencyPeriod `json:"period"`
	Abbreviation string          `json:"abbreviation"`
}

// Duration describes how long a medication course runs.
type Duration struct {
	Amount int    `json:"amount,omitempty"`
	Unit   string `json:"unit"`
}

// MedicationEntry is one extracted medication. Entries with an empty Name
// never reach a final ExtractionResult.
type MedicationEntry struct {
	Name            string    `json:"medicationName"`
	GenericName     string    `json:"genericName,omitempty"`
	BrandName       string    `json:"brandName,omitempty"`
	Dosage          Dosage    `json:"dosage"`
	Frequency       Frequency `json:"frequency"`
	Duration        Duration  `json:"duration"`
	Route           string    `json:"route"`
	Instructions    string    `json:"instructions"`
	Indication      string    `json:"indication"`
	Category        string    `json:"category"`
	DrugClass       string    `json:"drugClass,omitempty"`
	DosageAlert     string    `json:"dosageAlert,omitempty"`
	ConfidenceScore float64   `json:"confidenceScore"`
}

// DosageString renders the dose the way the knowledge base lists common
// dosages, e.g. "50mg".
func (m *MedicationEntry) DosageString() string {
	return formatAmount(m.Dosage.Amount) + string(m.Dosage.Unit)
}

// HasDosage reports whether a usable dose was extracted.
func (m *MedicationEntry) HasDosage() bool {
	return m.Dosage.Amount > 0 && m.Dosage.Unit != ""
}

// HasFrequency reports whether a usable frequency was extracted.
func (m *MedicationEntry) HasFrequency() bool {
	return m.Frequency.Times > 0 && m.Frequency.Period != ""
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// ExtractionResult is the structured output of turning free text into
// candidate medications. Medication order is extraction order; duplicates
// produced by overlapping pattern matches are intentionally not merged.
type ExtractionResult struct {
	Medications     []MedicationEntry `json:"medications"`
	ExtractionNotes string            `json:"extractionNotes"`
	ClinicalContext string            `json:"clinicalContext"`
}

// TokenUsage is a character-count/4 estimate of model token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ExtractionOutcome bundles the extraction with its independently computed
// scores and safety signals.
type ExtractionOutcome struct {
	Result            ExtractionResult  `json:"result"`
	OverallConfidence float64           `json:"overallConfidence"`
	QualityMetrics    QualityMetrics    `json:"qualityMetrics"`
	DrugInteractions  []DrugInteraction `json:"drugInteractions"`
	DosageAlerts      []DosageAlert     `json:"dosageAlerts"`
	TokenUsage        TokenUsage        `json:"tokenUsage"`
}
