package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

func TestFrequencyPeriod_PerDayRate(t *testing.T) {
	assert.Equal(t, 2.0, entities.PeriodDaily.PerDayRate(2))
	assert.InDelta(t, 1.0, entities.PeriodWeekly.PerDayRate(7), 1e-9)
	assert.InDelta(t, 0.1, entities.PeriodMonthly.PerDayRate(3), 1e-9)
	assert.Equal(t, 1.0, entities.PeriodAsNeeded.PerDayRate(1))
}

func TestMedicationEntry_DosageString(t *testing.T) {
	med := entities.MedicationEntry{
		Dosage: entities.Dosage{Amount: 50, Unit: entities.UnitMg},
	}
	assert.Equal(t, "50mg", med.DosageString())

	med.Dosage.Amount = 2.5
	assert.Equal(t, "2.5mg", med.DosageString())
}

func TestMedicationEntry_HasDosageAndFrequency(t *testing.T) {
	var med entities.MedicationEntry
	assert.False(t, med.HasDosage())
	assert.False(t, med.HasFrequency())

	med.Dosage = entities.Dosage{Amount: 10, Unit: entities.UnitMg}
	med.Frequency = entities.Frequency{Times: 2, Period: entities.PeriodDaily}
	assert.True(t, med.HasDosage())
	assert.True(t, med.HasFrequency())
}
