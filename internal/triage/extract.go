package triage

import "strings"

const (
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Criteria is the structured form of a triage summary, used to pick a
// doctor.
type Criteria struct {
	Symptoms       string
	Urgency        string
	Specialization string
}

// ExtractSymptoms maps a triage summary to selection criteria. The summary
// may still carry a completion marker; it is stripped. Urgency is high only
// for the urgent marker, medium otherwise — this path never produces low.
// Specialization is a best-effort keyword match and may be empty. Never
// fails.
func ExtractSymptoms(aiSummary string) Criteria {
	trimmed := strings.TrimSpace(aiSummary)

	urgency := UrgencyMedium
	symptoms := trimmed
	switch {
	case strings.HasPrefix(trimmed, markerUrgentComplete):
		urgency = UrgencyHigh
		symptoms = strings.TrimPrefix(trimmed, markerUrgentComplete)
	case strings.HasPrefix(trimmed, markerUrgentShort):
		urgency = UrgencyHigh
		symptoms = strings.TrimPrefix(trimmed, markerUrgentShort)
	case strings.HasPrefix(trimmed, markerComplete):
		symptoms = strings.TrimPrefix(trimmed, markerComplete)
	}
	symptoms = strings.TrimSpace(symptoms)

	var specialization string
	lower := strings.ToLower(symptoms)
	switch {
	case strings.Contains(lower, "heart") || strings.Contains(lower, "chest"):
		specialization = "Cardiology"
	case strings.Contains(lower, "skin") || strings.Contains(lower, "rash"):
		specialization = "Dermatology"
	}

	return Criteria{
		Symptoms:       symptoms,
		Urgency:        urgency,
		Specialization: specialization,
	}
}
