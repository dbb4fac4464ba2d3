package services

import (
	"fmt"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

const (
	elderlyAgeThreshold   = 65
	pediatricAgeThreshold = 18
)

// DosageValidator produces per-medication safety alerts: computed daily
// dose versus the knowledge base maximum, plus age-based appropriateness
// rules. When the patient's age is unknown no age rule fires.
type DosageValidator struct {
	kb *knowledge.Base
}

// NewDosageValidator creates a new dosage validator.
func NewDosageValidator(kb *knowledge.Base) *DosageValidator {
	return &DosageValidator{kb: kb}
}

// Validate checks every medication and returns the collected alerts.
func (v *DosageValidator) Validate(medications []entities.MedicationEntry, patient entities.PatientInfo) []entities.DosageAlert {
	var alerts []entities.DosageAlert

	for i := range medications {
		med := &medications[i]
		entry, ok := v.kb.Lookup(med.Name)
		if !ok {
			continue
		}

		if alert, flagged := v.checkDailyDose(med, entry); flagged {
			alerts = append(alerts, alert)
		}
		alerts = append(alerts, v.checkAgeRules(med, entry, patient.Age)...)
	}

	return alerts
}

// checkDailyDose converts the frequency to a per-day rate (weekly counts
// divide by 7, monthly by 30) and compares amount x rate against the parsed
// numeric portion of the knowledge base maxDailyDose.
func (v *DosageValidator) checkDailyDose(med *entities.MedicationEntry, entry *knowledge.Entry) (entities.DosageAlert, bool) {
	maxDose, ok := entry.MaxDailyDoseValue()
	if !ok {
		return entities.DosageAlert{}, false
	}

	dailyDose := med.Dosage.Amount * med.Frequency.Period.PerDayRate(med.Frequency.Times)
	if dailyDose <= maxDose {
		return entities.DosageAlert{}, false
	}

	return entities.DosageAlert{
		Medication: med.Name,
		AlertType:  entities.AlertOverdose,
		Description: fmt.Sprintf(
			"Computed daily dose %.4g%s exceeds the maximum daily dose of %s",
			dailyDose, med.Dosage.Unit, entry.MaxDailyDose,
		),
		Recommendation: fmt.Sprintf("Reduce total daily dose to at most %s", entry.MaxDailyDose),
	}, true
}

func (v *DosageValidator) checkAgeRules(med *entities.MedicationEntry, entry *knowledge.Entry, age *int) []entities.DosageAlert {
	if age == nil {
		return nil
	}

	var alerts []entities.DosageAlert

	if *age >= elderlyAgeThreshold && entry.Category == "psychiatric" {
		alerts = append(alerts, entities.DosageAlert{
			Medication: med.Name,
			AlertType:  entities.AlertAgeInappropriate,
			Description: fmt.Sprintf(
				"%s is a psychiatric medication prescribed for a patient aged %d; elderly patients are more sensitive to psychotropics",
				entry.GenericName, *age,
			),
			Recommendation: "Start low and titrate slowly; review for fall and sedation risk",
		})
	}

	if *age < pediatricAgeThreshold && !entry.PediatricDosing {
		alerts = append(alerts, entities.DosageAlert{
			Medication: med.Name,
			AlertType:  entities.AlertAgeInappropriate,
			Description: fmt.Sprintf(
				"%s has no established pediatric dosing and the patient is %d years old",
				entry.GenericName, *age,
			),
			Recommendation: "Verify pediatric dosing guidelines before prescribing",
		})
	}

	return alerts
}
