package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Entry holds the static reference facts for one drug, keyed by its
// canonical lowercase generic name.
type Entry struct {
	GenericName     string   `json:"genericName"`
	BrandNames      []string `json:"brandNames"`
	Category        string   `json:"category"`
	Class           string   `json:"class"`
	CommonDosages   []string `json:"commonDosages"`
	MaxDailyDose    string   `json:"maxDailyDose"`
	Indications     []string `json:"indications"`
	PediatricDosing bool     `json:"pediatricDosing"`
}

// MaxDailyDoseValue parses the numeric portion of MaxDailyDose, e.g.
// "400mg" → 400. Returns false when no max dose is defined or it does not
// start with a number.
func (e *Entry) MaxDailyDoseValue() (float64, bool) {
	s := strings.TrimSpace(e.MaxDailyDose)
	if s == "" {
		return 0, false
	}
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Base is the read-only medication knowledge base. It is populated once at
// process startup and never mutated afterward, so concurrent requests may
// read it without locking. Entries keep the file's array order, which fixes
// the iteration order used by the substring lookup tier.
type Base struct {
	entries []*Entry
	byName  map[string]*Entry
}

// Load reads the knowledge base from a JSON array file.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse builds a knowledge base from raw JSON.
func Parse(data []byte) (*Base, error) {
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}

	base := &Base{
		entries: entries,
		byName:  make(map[string]*Entry, len(entries)),
	}
	for _, entry := range entries {
		entry.GenericName = strings.ToLower(strings.TrimSpace(entry.GenericName))
		if entry.GenericName == "" {
			return nil, fmt.Errorf("knowledge base entry missing generic name")
		}
		if _, exists := base.byName[entry.GenericName]; exists {
			return nil, fmt.Errorf("duplicate knowledge base entry: %s", entry.GenericName)
		}
		base.byName[entry.GenericName] = entry
	}
	return base, nil
}

// Len returns the number of entries.
func (b *Base) Len() int {
	return len(b.entries)
}

// Lookup resolves a medication name against the knowledge base using three
// explicit tiers, first satisfied tier wins:
//
//  1. exact match on the lowercased name
//  2. match against any entry's brand-name list
//  3. substring match in either direction, first entry in file order wins
//
// A miss returns (nil, false) and is not an error condition.
func (b *Base) Lookup(name string) (*Entry, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}

	if entry, ok := b.byName[needle]; ok {
		return entry, true
	}

	for _, entry := range b.entries {
		for _, brand := range entry.BrandNames {
			if strings.ToLower(brand) == needle {
				return entry, true
			}
		}
	}

	for _, entry := range b.entries {
		if strings.Contains(needle, entry.GenericName) || strings.Contains(entry.GenericName, needle) {
			return entry, true
		}
	}

	return nil, false
}
