package services

import (
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

// QualityAssessor computes four independent per-medication sub-scores
// (completeness, accuracy, clarity, safety), each in [0,1], combined by
// unweighted mean. It runs independently of the confidence scorer so the
// two signals can be triaged separately downstream.
type QualityAssessor struct {
	kb *knowledge.Base
}

// NewQualityAssessor creates a new quality assessor.
func NewQualityAssessor(kb *knowledge.Base) *QualityAssessor {
	return &QualityAssessor{kb: kb}
}

// Assess returns the quality metrics for a result. All metrics, including
// overall, are exactly 0 when the medication list is empty.
func (a *QualityAssessor) Assess(result *entities.ExtractionResult) entities.QualityMetrics {
	if len(result.Medications) == 0 {
		return entities.QualityMetrics{}
	}

	var metrics entities.QualityMetrics
	for i := range result.Medications {
		med := &result.Medications[i]
		metrics.Completeness += a.completeness(med)
		metrics.Accuracy += a.accuracy(med)
		metrics.Clarity += a.clarity(med)
		metrics.Safety += a.safety(med)
	}

	count := float64(len(result.Medications))
	metrics.Completeness /= count
	metrics.Accuracy /= count
	metrics.Clarity /= count
	metrics.Safety /= count
	metrics.Overall = (metrics.Completeness + metrics.Accuracy + metrics.Clarity + metrics.Safety) / 4

	return metrics
}

func (a *QualityAssessor) completeness(med *entities.MedicationEntry) float64 {
	score := 0.0
	if med.Name != "" {
		score += 0.3
	}
	if med.Dosage.Amount > 0 {
		score += 0.25
	}
	if med.Frequency.Times > 0 {
		score += 0.25
	}
	if med.Route != "" {
		score += 0.1
	}
	if med.Instructions != "" {
		score += 0.1
	}
	return score
}

func (a *QualityAssessor) accuracy(med *entities.MedicationEntry) float64 {
	if _, ok := a.kb.Lookup(med.Name); ok {
		return 0.9
	}
	return 0.5
}

func (a *QualityAssessor) clarity(med *entities.MedicationEntry) float64 {
	score := 0.5
	if len(med.Instructions) > 10 {
		score += 0.2
	}
	if med.Indication != "" {
		score += 0.2
	}
	if med.Frequency.Abbreviation != "as-needed" {
		score += 0.1
	}
	return clamp01(score)
}

func (a *QualityAssessor) safety(med *entities.MedicationEntry) float64 {
	score := 0.8
	if med.DosageAlert != "" {
		score -= 0.3
	}
	if med.Dosage.Amount > 1000 && med.Dosage.Unit == entities.UnitMg {
		score -= 0.2
	}
	return clamp01(score)
}
