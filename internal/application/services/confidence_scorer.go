package services

import (
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

// ConfidenceScorer accumulates a per-medication reliability estimate from
// independent signals, each contributing only when its precondition holds.
// Confidence is a heuristic estimate of extraction reliability, not a
// measure of clinical correctness.
type ConfidenceScorer struct {
	kb *knowledge.Base
}

// NewConfidenceScorer creates a new confidence scorer.
func NewConfidenceScorer(kb *knowledge.Base) *ConfidenceScorer {
	return &ConfidenceScorer{kb: kb}
}

// Score rewrites each medication's confidence and returns the overall
// confidence: the arithmetic mean across medications, exactly 0 for an
// empty list.
func (s *ConfidenceScorer) Score(result *entities.ExtractionResult) float64 {
	if len(result.Medications) == 0 {
		return 0
	}

	var total float64
	for i := range result.Medications {
		score := s.scoreMedication(&result.Medications[i])
		result.Medications[i].ConfidenceScore = score
		total += score
	}

	return total / float64(len(result.Medications))
}

func (s *ConfidenceScorer) scoreMedication(med *entities.MedicationEntry) float64 {
	score := med.ConfidenceScore * 0.3

	if _, ok := s.kb.Lookup(med.Name); ok {
		score += 0.2
	}
	if med.HasDosage() {
		score += 0.2
	}
	if med.HasFrequency() {
		score += 0.15
	}
	if med.Instructions != "" {
		score += 0.1
	}
	if med.Indication != "" {
		score += 0.05
	}

	if score > 1 {
		score = 1
	}
	return score
}
