package triage

import "strings"

// Completion markers the model is instructed to emit. The short spelling is
// accepted as well since models occasionally abbreviate the urgent marker.
const (
	markerComplete       = "TRIAGE_COMPLETE:"
	markerUrgentComplete = "URGENT_TRIAGE_COMPLETE:"
	markerUrgentShort    = "URGENT_COMPLETE:"
)

// Outcome is the parsed result of one assistant turn. Complete is false for
// an ordinary follow-up question; when true, Summary holds the free-text
// symptom summary with the marker stripped.
type Outcome struct {
	Reply    string
	Complete bool
	Urgent   bool
	Summary  string
}

// ParseOutcome inspects the completion marker exactly once, at this
// boundary. Nothing else in the system looks at raw model text.
func ParseOutcome(text string) Outcome {
	trimmed := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(trimmed, markerUrgentComplete):
		return Outcome{
			Reply:    trimmed,
			Complete: true,
			Urgent:   true,
			Summary:  strings.TrimSpace(strings.TrimPrefix(trimmed, markerUrgentComplete)),
		}
	case strings.HasPrefix(trimmed, markerUrgentShort):
		return Outcome{
			Reply:    trimmed,
			Complete: true,
			Urgent:   true,
			Summary:  strings.TrimSpace(strings.TrimPrefix(trimmed, markerUrgentShort)),
		}
	case strings.HasPrefix(trimmed, markerComplete):
		return Outcome{
			Reply:    trimmed,
			Complete: true,
			Summary:  strings.TrimSpace(strings.TrimPrefix(trimmed, markerComplete)),
		}
	}
	return Outcome{Reply: trimmed}
}
