package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

const defaultInteractionRecommendation = "Monitor closely"

// InteractionEntry is one row of the static drug-interaction table.
type InteractionEntry struct {
	Medications    [2]string                    `json:"medications"`
	Severity       entities.InteractionSeverity `json:"severity"`
	Description    string                       `json:"description"`
	Recommendation string                       `json:"recommendation"`
}

// InteractionTable is a symmetric lookup of known adverse drug combinations,
// keyed by an unordered pair of lowercased generic names. Like the knowledge
// base it is loaded once at startup and read-only afterward.
type InteractionTable struct {
	pairs map[string]*InteractionEntry
}

// LoadInteractions reads the interaction table from a JSON array file.
func LoadInteractions(path string) (*InteractionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interaction table: %w", err)
	}
	return ParseInteractions(data)
}

// ParseInteractions builds an interaction table from raw JSON.
func ParseInteractions(data []byte) (*InteractionTable, error) {
	var entries []*InteractionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse interaction table: %w", err)
	}

	table := &InteractionTable{pairs: make(map[string]*InteractionEntry, len(entries))}
	for _, entry := range entries {
		a := strings.ToLower(strings.TrimSpace(entry.Medications[0]))
		b := strings.ToLower(strings.TrimSpace(entry.Medications[1]))
		if a == "" || b == "" {
			return nil, fmt.Errorf("interaction entry missing a medication name")
		}
		if !entry.Severity.IsValid() {
			return nil, fmt.Errorf("interaction %s/%s has invalid severity %q", a, b, entry.Severity)
		}
		table.pairs[pairKey(a, b)] = entry
	}
	return table, nil
}

// Find returns the interaction between two medications, trying both
// orderings of the pair.
func (t *InteractionTable) Find(med1, med2 string) (*InteractionEntry, bool) {
	a := strings.ToLower(strings.TrimSpace(med1))
	b := strings.ToLower(strings.TrimSpace(med2))
	if entry, ok := t.pairs[pairKey(a, b)]; ok {
		return entry, true
	}
	entry, ok := t.pairs[pairKey(b, a)]
	return entry, ok
}

// RecommendationOrDefault returns the entry's recommendation, falling back
// to "Monitor closely" when the table omits one.
func (e *InteractionEntry) RecommendationOrDefault() string {
	if e.Recommendation == "" {
		return defaultInteractionRecommendation
	}
	return e.Recommendation
}

func pairKey(a, b string) string {
	return a + "|" + b
}
