package entities

// InteractionSeverity grades how serious a drug-drug interaction is.
type InteractionSeverity string

const (
	SeverityMinor           InteractionSeverity = "minor"
	SeverityModerate        InteractionSeverity = "moderate"
	SeverityMajor           InteractionSeverity = "major"
	SeverityContraindicated InteractionSeverity = "contraindicated"
)

// IsValid checks if the severity is one of the defined constants.
func (s InteractionSeverity) IsValid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeverityMajor, SeverityContraindicated:
		return true
	}
	return false
}

// DrugInteraction is a known adverse-combination warning between two named
// medications. Names are reported as extracted, not canonicalized.
type DrugInteraction struct {
	Medication1    string              `json:"medication1"`
	Medication2    string              `json:"medication2"`
	Severity       InteractionSeverity `json:"severity"`
	Description    string              `json:"description"`
	Recommendation string              `json:"recommendation"`
}

// DosageAlertType classifies a per-medication safety concern.
type DosageAlertType string

const (
	AlertOverdose         DosageAlertType = "overdose"
	AlertUnderdose        DosageAlertType = "underdose"
	AlertFrequency        DosageAlertType = "frequency"
	AlertDuration         DosageAlertType = "duration"
	AlertAgeInappropriate DosageAlertType = "age-inappropriate"
)

// DosageAlert is a flagged safety concern about a single medication.
type DosageAlert struct {
	Medication     string          `json:"medication"`
	AlertType      DosageAlertType `json:"alertType"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
}

// QualityMetrics are four independent heuristics summarizing prescription
// readiness for clinician review, each in [0,1], plus their unweighted mean.
type QualityMetrics struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Clarity      float64 `json:"clarity"`
	Safety       float64 `json:"safety"`
	Overall      float64 `json:"overall"`
}
