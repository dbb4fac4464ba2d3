package services

import (
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

// InteractionChecker checks every unordered pair of extracted medications
// against the static interaction table. Medication names are reported as
// extracted, not canonicalized, so the clinician sees exactly what was
// prescribed.
type InteractionChecker struct {
	table *knowledge.InteractionTable
}

// NewInteractionChecker creates a new interaction checker.
func NewInteractionChecker(table *knowledge.InteractionTable) *InteractionChecker {
	return &InteractionChecker{table: table}
}

// Check returns one DrugInteraction per matched pair (i<j). Single-
// medication lists and unmatched pairs report nothing.
func (c *InteractionChecker) Check(medications []entities.MedicationEntry) []entities.DrugInteraction {
	var interactions []entities.DrugInteraction

	for i := 0; i < len(medications); i++ {
		for j := i + 1; j < len(medications); j++ {
			entry, ok := c.table.Find(medications[i].Name, medications[j].Name)
			if !ok {
				continue
			}
			interactions = append(interactions, entities.DrugInteraction{
				Medication1:    medications[i].Name,
				Medication2:    medications[j].Name,
				Severity:       entry.Severity,
				Description:    entry.Description,
				Recommendation: entry.RecommendationOrDefault(),
			})
		}
	}

	return interactions
}
