package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

// regexFallbackNote is recorded in extractionNotes whenever the parser had
// to degrade to pattern extraction.
const regexFallbackNote = "Structured JSON was not found in the model output; regex pattern extraction was used."

// fallback seeds for pattern-extracted entries
const (
	fallbackConfidence   = 0.6
	fallbackRoute        = "oral"
	fallbackAbbreviation = "qd"
)

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ParsedResponse is the recovered structure of one model response. Exactly
// one of Object (JSON tiers) or Medications (pattern fallback) carries the
// candidate medications.
type ParsedResponse struct {
	Object       map[string]any
	Medications  []entities.MedicationEntry
	UsedFallback bool
}

// extractionRule is one descriptor in the ordered pattern-fallback table.
// Patterns use named captures (name, amount, unit, times, period, abbrev,
// hours, prn); only groups that matched overwrite the seeded defaults.
type extractionRule struct {
	name    string
	pattern *regexp.Regexp
}

const (
	namePart = `(?P<name>\p{L}[\p{L}-]{2,})`
	dosePart = `(?P<amount>\d+(?:\.\d+)?)\s*(?P<unit>mcg|mg|g|ml|units?|puffs?|drops?|tablets?|capsules?)\b`
)

// extractionRules is evaluated in order; every match of every rule produces
// one candidate entry. Overlapping matches are intentionally not merged, so
// the same text span can yield duplicate-looking entries for clinician
// review rather than being silently collapsed.
var extractionRules = []extractionRule{
	{
		name: "dose-with-word-frequency",
		pattern: regexp.MustCompile(`(?i)` + namePart + `\s+` + dosePart +
			`\s*,?\s+(?P<times>once|twice|thrice|three\s+times|four\s+times|\d+\s*(?:x|times))\s*(?:a|per)?\s*(?P<period>day|daily|week|weekly|month|monthly)`),
	},
	{
		name: "dose-with-abbreviation",
		pattern: regexp.MustCompile(`(?i)` + namePart + `\s+` + dosePart +
			`\s*,?\s*(?P<abbrev>q\.?d\.?|b\.?i\.?d\.?|t\.?i\.?d\.?|q\.?i\.?d\.?|qhs|qam)\b`),
	},
	{
		name: "dose-with-hour-interval",
		pattern: regexp.MustCompile(`(?i)` + namePart + `\s+` + dosePart +
			`\s*,?\s+(?:every|q)\s*(?P<hours>\d+)\s*(?:hours?|hrs?|h)\b`),
	},
	{
		name: "dose-as-needed",
		pattern: regexp.MustCompile(`(?i)` + namePart + `\s+` + dosePart +
			`\s*,?\s+(?P<prn>as\s+needed|prn|p\.r\.n\.?)`),
	},
	{
		name:    "bare-dose",
		pattern: regexp.MustCompile(`(?i)` + namePart + `\s+` + dosePart),
	},
}

// ResponseParser recovers a structured result from the model's raw text.
// It tolerates missing or partial JSON by degrading through three tiers:
// fenced JSON block, whole-text JSON, then the ordered regex fallback.
// It never returns an error.
type ResponseParser struct{}

// NewResponseParser creates a new response parser.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse applies the three recovery tiers in order, first success wins.
func (p *ResponseParser) Parse(raw string) ParsedResponse {
	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		if obj, ok := parseJSONObject(m[1]); ok {
			return ParsedResponse{Object: obj}
		}
	}

	if obj, ok := parseJSONObject(raw); ok {
		return ParsedResponse{Object: obj}
	}

	return ParsedResponse{
		Medications:  p.patternExtract(raw),
		UsedFallback: true,
	}
}

// parseJSONObject parses text as JSON, accepting either an object or a
// bare medications array.
func parseJSONObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case map[string]any:
		return v, true
	case []any:
		return map[string]any{"medications": v}, true
	default:
		return nil, false
	}
}

// patternExtract runs every rule of the ordered fallback table over the raw
// text. Each match seeds an entry with defaults and overwrites only the
// fields its named groups captured; entries without a captured name are
// discarded.
func (p *ResponseParser) patternExtract(raw string) []entities.MedicationEntry {
	var medications []entities.MedicationEntry

	for _, rule := range extractionRules {
		names := rule.pattern.SubexpNames()
		for _, match := range rule.pattern.FindAllStringSubmatch(raw, -1) {
			groups := make(map[string]string, len(names))
			for i, groupName := range names {
				if groupName != "" && match[i] != "" {
					groups[groupName] = match[i]
				}
			}

			entry, ok := buildFallbackEntry(groups)
			if !ok {
				continue
			}
			medications = append(medications, entry)
		}
	}

	return medications
}

func buildFallbackEntry(groups map[string]string) (entities.MedicationEntry, bool) {
	entry := entities.MedicationEntry{
		Dosage: entities.Dosage{Amount: 0, Unit: entities.UnitMg},
		Frequency: entities.Frequency{
			Times:        1,
			Period:       entities.PeriodDaily,
			Abbreviation: fallbackAbbreviation,
		},
		Route:           fallbackRoute,
		ConfidenceScore: fallbackConfidence,
	}

	name, ok := groups["name"]
	if !ok {
		return entities.MedicationEntry{}, false
	}
	entry.Name = strings.ToLower(name)

	if amount, ok := groups["amount"]; ok {
		if value, err := strconv.ParseFloat(amount, 64); err == nil {
			entry.Dosage.Amount = value
		}
	}
	if unit, ok := groups["unit"]; ok {
		entry.Dosage.Unit = canonicalUnit(unit)
	}
	if times, ok := groups["times"]; ok {
		entry.Frequency.Times = parseFrequencyCount(times)
		entry.Frequency.Abbreviation = frequencyAbbreviation(entry.Frequency.Times)
	}
	if period, ok := groups["period"]; ok {
		entry.Frequency.Period = canonicalPeriod(period)
	}
	if abbrev, ok := groups["abbrev"]; ok {
		normalized := strings.ToLower(strings.ReplaceAll(abbrev, ".", ""))
		entry.Frequency.Abbreviation = normalized
		entry.Frequency.Times = timesForAbbreviation(normalized)
	}
	if hours, ok := groups["hours"]; ok {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			times := 24 / h
			if times < 1 {
				times = 1
			}
			entry.Frequency.Times = times
			entry.Frequency.Abbreviation = fmt.Sprintf("q%dh", h)
		}
	}
	if _, ok := groups["prn"]; ok {
		entry.Frequency.Period = entities.PeriodAsNeeded
		entry.Frequency.Abbreviation = "prn"
	}

	return entry, true
}

func canonicalUnit(unit string) entities.DosageUnit {
	switch strings.ToLower(unit) {
	case "mcg":
		return entities.UnitMcg
	case "g":
		return entities.UnitG
	case "ml":
		return entities.UnitMl
	case "unit", "units":
		return entities.UnitUnits
	case "puff", "puffs":
		return entities.UnitPuffs
	case "drop", "drops":
		return entities.UnitDrops
	case "tablet", "tablets":
		return entities.UnitTablets
	case "capsule", "capsules":
		return entities.UnitCapsules
	default:
		return entities.UnitMg
	}
}

func canonicalPeriod(period string) entities.FrequencyPeriod {
	switch strings.ToLower(period) {
	case "week", "weekly":
		return entities.PeriodWeekly
	case "month", "monthly":
		return entities.PeriodMonthly
	default:
		return entities.PeriodDaily
	}
}

func parseFrequencyCount(times string) int {
	normalized := strings.ToLower(strings.Join(strings.Fields(times), " "))
	switch normalized {
	case "once":
		return 1
	case "twice":
		return 2
	case "thrice", "three times":
		return 3
	case "four times":
		return 4
	}
	digits := strings.TrimRight(strings.TrimSpace(normalized), "x times")
	if n, err := strconv.Atoi(strings.TrimSpace(digits)); err == nil && n >= 1 {
		return n
	}
	return 1
}

func frequencyAbbreviation(times int) string {
	switch times {
	case 1:
		return "qd"
	case 2:
		return "bid"
	case 3:
		return "tid"
	case 4:
		return "qid"
	default:
		return fmt.Sprintf("%dx", times)
	}
}

func timesForAbbreviation(abbrev string) int {
	switch abbrev {
	case "bid":
		return 2
	case "tid":
		return 3
	case "qid":
		return 4
	default:
		return 1
	}
}
