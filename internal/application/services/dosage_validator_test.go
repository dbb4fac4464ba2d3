package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/prescription-ai/internal/application/services"
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

func intPtr(v int) *int { return &v }

func TestDosageValidator_OverdoseAlert(t *testing.T) {
	validator := services.NewDosageValidator(fixtureKB(t))

	alerts := validator.Validate([]entities.MedicationEntry{
		{
			Name:      "metoprolol",
			Dosage:    entities.Dosage{Amount: 250, Unit: entities.UnitMg},
			Frequency: entities.Frequency{Times: 2, Period: entities.PeriodDaily},
		},
	}, entities.PatientInfo{})

	require.Len(t, alerts, 1)
	assert.Equal(t, entities.AlertOverdose, alerts[0].AlertType)
	assert.Contains(t, alerts[0].Description, "500mg exceeds the maximum daily dose of 400mg")
	assert.Contains(t, alerts[0].Recommendation, "400mg")
}

func TestDosageValidator_AtMaximumIsNotFlagged(t *testing.T) {
	validator := services.NewDosageValidator(fixtureKB(t))

	alerts := validator.Validate([]entities.MedicationEntry{
		{
			Name:      "metoprolol",
			Dosage:    entities.Dosage{Amount: 200, Unit: entities.UnitMg},
			Frequency: entities.Frequency{Times: 2, Period: entities.PeriodDaily},
		},
	}, entities.PatientInfo{})

	assert.Empty(t, alerts)
}

func TestDosageValidator_WeeklyFrequencyProrated(t *testing.T) {
	validator := services.NewDosageValidator(fixtureKB(t))

	// 700mg twice weekly is 200mg/day, under the 400mg maximum.
	alerts := validator.Validate([]entities.MedicationEntry{
		{
			Name:      "metoprolol",
			Dosage:    entities.Dosage{Amount: 700, Unit: entities.UnitMg},
			Frequency: entities.Frequency{Times: 2, Period: entities.PeriodWeekly},
		},
	}, entities.PatientInfo{})

	assert.Empty(t, alerts)
}

func TestDosageValidator_UnknownMedicationSkipped(t *testing.T) {
	validator := services.NewDosageValidator(fixtureKB(t))

	alerts := validator.Validate([]entities.MedicationEntry{
		{
			Name:      "obscuredrug",
			Dosage:    entities.Dosage{Amount: 99999, Unit: entities.UnitMg},
			Frequency: entities.Frequency{Times: 4, Period: entities.PeriodDaily},
		},
	}, entities.PatientInfo{})

	assert.Empty(t, alerts)
}

func TestDosageValidator_ElderlyPsychiatricAlert(t *testing.T) {
	validator := services.NewDosageValidator(fixtureKB(t))

	alerts := validator.Validate([]entities.MedicationEntry{
		{
			Name:      "sertraline",
			Dosage:    entities.Dosage{Amount: 50, Unit: entities.UnitMg},
			Frequency: entities.Frequency{Times: 1, Period: entities.PeriodDaily},
		},
	}, entities.PatientInfo{Age: intPtr(72)})

	require.Len(t, alerts, 1)
	assert.Equal(t, entities.AlertAgeInappropriate, alerts[0].AlertType)
	assert.Contains(t, alerts[0].Description, "aged 72")
}

func TestDosageValidator_PediatricWithoutDosingAlert(t *testing.T) {
	validator := services.NewDosageValidator(fixtureKB(t))

	t.Run("no pediatric dosing", func(t *testing.T) {
		alerts := validator.Validate([]entities.MedicationEntry{
			{
				Name:      "metoprolol",
				Dosage:    entities.Dosage{Amount: 25, Unit: entities.UnitMg},
				Frequency: entities.Frequency{Times: 1, Period: entities.PeriodDaily},
			},
		}, entities.PatientInfo{Age: intPtr(10)})

		require.Len(t, alerts, 1)
		assert.Equal(t, entities.AlertAgeInappropriate, alerts[0].AlertType)
	})

	t.Run("pediatric dosing established", func(t *testing.T) {
		alerts := validator.Validate([]entities.MedicationEntry{
			{
				Name:      "amoxicillin",
				Dosage:    entities.Dosage{Amount: 250, Unit: entities.UnitMg},
				Frequency: entities.Frequency{Times: 3, Period: entities.PeriodDaily},
			},
		}, entities.PatientInfo{Age: intPtr(10)})

		assert.Empty(t, alerts)
	})
}

func TestDosageValidator_NoAgeNoAgeRules(t *testing.T) {
	validator := services.NewDosageValidator(fixtureKB(t))

	alerts := validator.Validate([]entities.MedicationEntry{
		{
			Name:      "sertraline",
			Dosage:    entities.Dosage{Amount: 50, Unit: entities.UnitMg},
			Frequency: entities.Frequency{Times: 1, Period: entities.PeriodDaily},
		},
	}, entities.PatientInfo{})

	assert.Empty(t, alerts)
}
