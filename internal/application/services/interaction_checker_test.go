package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/prescription-ai/internal/application/services"
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

func TestInteractionChecker_FindsKnownPair(t *testing.T) {
	checker := services.NewInteractionChecker(fixtureInteractions(t))

	interactions := checker.Check([]entities.MedicationEntry{
		{Name: "metoprolol"},
		{Name: "verapamil"},
	})

	require.Len(t, interactions, 1)
	assert.Equal(t, "metoprolol", interactions[0].Medication1)
	assert.Equal(t, "verapamil", interactions[0].Medication2)
	assert.Equal(t, entities.SeverityMajor, interactions[0].Severity)
	assert.Contains(t, interactions[0].Recommendation, "Avoid combination")
}

func TestInteractionChecker_OrderIndependent(t *testing.T) {
	checker := services.NewInteractionChecker(fixtureInteractions(t))

	interactions := checker.Check([]entities.MedicationEntry{
		{Name: "verapamil"},
		{Name: "metoprolol"},
	})

	require.Len(t, interactions, 1)
	// names are reported as extracted, in list order
	assert.Equal(t, "verapamil", interactions[0].Medication1)
	assert.Equal(t, "metoprolol", interactions[0].Medication2)
}

func TestInteractionChecker_DefaultRecommendation(t *testing.T) {
	checker := services.NewInteractionChecker(fixtureInteractions(t))

	interactions := checker.Check([]entities.MedicationEntry{
		{Name: "sertraline"},
		{Name: "alprazolam"},
	})

	require.Len(t, interactions, 1)
	assert.Equal(t, "Monitor closely", interactions[0].Recommendation)
}

func TestInteractionChecker_SingleMedicationReportsNothing(t *testing.T) {
	checker := services.NewInteractionChecker(fixtureInteractions(t))

	assert.Empty(t, checker.Check([]entities.MedicationEntry{{Name: "metoprolol"}}))
	assert.Empty(t, checker.Check(nil))
}

func TestInteractionChecker_AllPairsChecked(t *testing.T) {
	checker := services.NewInteractionChecker(fixtureInteractions(t))

	interactions := checker.Check([]entities.MedicationEntry{
		{Name: "metoprolol"},
		{Name: "sertraline"},
		{Name: "verapamil"},
		{Name: "alprazolam"},
	})

	assert.Len(t, interactions, 2)
}
