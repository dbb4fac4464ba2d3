package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carelinkhq/prescription-ai/internal/application/services"
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

func TestConfidenceScorer_EmptyListScoresZero(t *testing.T) {
	scorer := services.NewConfidenceScorer(fixtureKB(t))

	result := entities.ExtractionResult{Medications: []entities.MedicationEntry{}}
	assert.Equal(t, 0.0, scorer.Score(&result))
}

func TestConfidenceScorer_AllSignals(t *testing.T) {
	scorer := services.NewConfidenceScorer(fixtureKB(t))

	result := entities.ExtractionResult{
		Medications: []entities.MedicationEntry{
			{
				Name:            "metoprolol",
				Dosage:          entities.Dosage{Amount: 50, Unit: entities.UnitMg},
				Frequency:       entities.Frequency{Times: 2, Period: entities.PeriodDaily},
				Instructions:    "take with food",
				Indication:      "hypertension",
				ConfidenceScore: 1.0,
			},
		},
	}

	overall := scorer.Score(&result)

	// 1.0*0.3 + 0.2 (known) + 0.2 (dosage) + 0.15 (frequency) + 0.1
	// (instructions) + 0.05 (indication) = 1.0
	assert.InDelta(t, 1.0, overall, 1e-9)
	assert.InDelta(t, 1.0, result.Medications[0].ConfidenceScore, 1e-9)
}

func TestConfidenceScorer_UnknownBareMedication(t *testing.T) {
	scorer := services.NewConfidenceScorer(fixtureKB(t))

	result := entities.ExtractionResult{
		Medications: []entities.MedicationEntry{
			{Name: "obscuredrug", ConfidenceScore: 0.5},
		},
	}

	overall := scorer.Score(&result)

	// only the model-confidence signal fires: 0.5*0.3
	assert.InDelta(t, 0.15, overall, 1e-9)
}

func TestConfidenceScorer_MeanAcrossMedications(t *testing.T) {
	scorer := services.NewConfidenceScorer(fixtureKB(t))

	result := entities.ExtractionResult{
		Medications: []entities.MedicationEntry{
			{Name: "obscuredrug", ConfidenceScore: 0.5}, // 0.15
			{Name: "sertraline", ConfidenceScore: 0.5},  // 0.15 + 0.2
		},
	}

	overall := scorer.Score(&result)
	assert.InDelta(t, 0.25, overall, 1e-9)
}
