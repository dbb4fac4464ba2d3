package services

import (
	"fmt"
	"strings"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

// Enhancer cross-references extracted medications against the knowledge
// base, filling gaps the model left and flagging unusual dosages. It fills
// only absent fields: model-provided values are never overwritten. A lookup
// miss leaves the medication unenhanced, which is not an error.
type Enhancer struct {
	kb *knowledge.Base
}

// NewEnhancer creates a new enhancer.
func NewEnhancer(kb *knowledge.Base) *Enhancer {
	return &Enhancer{kb: kb}
}

// Enhance enriches every medication in place.
func (e *Enhancer) Enhance(result *entities.ExtractionResult) {
	for i := range result.Medications {
		e.enhanceMedication(&result.Medications[i])
	}
}

func (e *Enhancer) enhanceMedication(med *entities.MedicationEntry) {
	entry, ok := e.kb.Lookup(med.Name)
	if !ok {
		return
	}

	if med.GenericName == "" {
		med.GenericName = entry.GenericName
	}
	if med.BrandName == "" && len(entry.BrandNames) > 0 {
		med.BrandName = entry.BrandNames[0]
	}
	if med.Category == "" {
		med.Category = entry.Category
	}
	if med.DrugClass == "" {
		med.DrugClass = entry.Class
	}
	if med.Indication == "" && len(entry.Indications) > 0 {
		med.Indication = entry.Indications[0]
	}

	if len(entry.CommonDosages) > 0 && med.HasDosage() && !isCommonDosage(med, entry) {
		med.DosageAlert = fmt.Sprintf(
			"Unusual dosage %s for %s; commonly prescribed dosages are %s",
			med.DosageString(), entry.GenericName, strings.Join(entry.CommonDosages, ", "),
		)
	}
}

func isCommonDosage(med *entities.MedicationEntry, entry *knowledge.Entry) bool {
	rendered := strings.ToLower(med.DosageString())
	for _, dosage := range entry.CommonDosages {
		if strings.ToLower(dosage) == rendered {
			return true
		}
	}
	return false
}
