package entities

// PatientInfo carries the demographic and clinical facts embedded in the
// extraction prompt. Age is a pointer so "unknown" is distinguishable from
// zero; age-based safety rules only fire when it is set.
type PatientInfo struct {
	Age                *int     `json:"age,omitempty"`
	Gender             string   `json:"gender,omitempty"`
	WeightKg           float64  `json:"weightKg,omitempty"`
	Allergies          []string `json:"allergies,omitempty"`
	CurrentMedications []string `json:"currentMedications,omitempty"`
}

// EncounterInfo identifies the visit the transcription belongs to.
type EncounterInfo struct {
	EncounterID    string `json:"encounterId,omitempty"`
	ChiefComplaint string `json:"chiefComplaint,omitempty"`
	Diagnosis      string `json:"diagnosis,omitempty"`
}

// PatientContext is the request-scoped context handed to the extraction
// pipeline alongside the raw text.
type PatientContext struct {
	PatientInfo   PatientInfo   `json:"patientInfo"`
	EncounterInfo EncounterInfo `json:"encounterInfo"`
	Specialty     string        `json:"specialty,omitempty"`
}
