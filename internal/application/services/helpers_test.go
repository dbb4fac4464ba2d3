package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/prescription-ai/internal/domain/providers"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

var errCacheMiss = errors.New("cache miss")

const fixtureBaseJSON = `[
  {
    "genericName": "metoprolol",
    "brandNames": ["Lopressor", "Toprol-XL"],
    "category": "cardiovascular",
    "class": "beta-blocker",
    "commonDosages": ["25mg", "50mg", "100mg", "200mg"],
    "maxDailyDose": "400mg",
    "indications": ["hypertension", "angina"],
    "pediatricDosing": false
  },
  {
    "genericName": "verapamil",
    "brandNames": ["Calan"],
    "category": "cardiovascular",
    "class": "calcium channel blocker",
    "commonDosages": ["80mg", "120mg", "240mg"],
    "maxDailyDose": "480mg",
    "indications": ["hypertension"],
    "pediatricDosing": false
  },
  {
    "genericName": "sertraline",
    "brandNames": ["Zoloft"],
    "category": "psychiatric",
    "class": "SSRI",
    "commonDosages": ["25mg", "50mg", "100mg"],
    "maxDailyDose": "200mg",
    "indications": ["depression", "anxiety"],
    "pediatricDosing": false
  },
  {
    "genericName": "amoxicillin",
    "brandNames": ["Amoxil"],
    "category": "antibiotic",
    "class": "penicillin",
    "commonDosages": ["250mg", "500mg", "875mg"],
    "maxDailyDose": "3000mg",
    "indications": ["bacterial infection"],
    "pediatricDosing": true
  }
]`

const fixtureInteractionsJSON = `[
  {
    "medications": ["metoprolol", "verapamil"],
    "severity": "major",
    "description": "Combined beta-blockade and calcium channel blockade can cause severe bradycardia and heart block",
    "recommendation": "Avoid combination; if unavoidable, monitor heart rate and blood pressure closely"
  },
  {
    "medications": ["sertraline", "alprazolam"],
    "severity": "moderate",
    "description": "Additive CNS depression"
  }
]`

func fixtureKB(t *testing.T) *knowledge.Base {
	t.Helper()
	base, err := knowledge.Parse([]byte(fixtureBaseJSON))
	require.NoError(t, err)
	return base
}

func fixtureInteractions(t *testing.T) *knowledge.InteractionTable {
	t.Helper()
	table, err := knowledge.ParseInteractions([]byte(fixtureInteractionsJSON))
	require.NoError(t, err)
	return table
}

// fakeModel is a canned LanguageModelProvider for pipeline tests.
type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, params providers.GenerationParams) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakeCache is an in-memory CacheProvider.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}
