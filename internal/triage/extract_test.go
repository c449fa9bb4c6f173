package triage

import "testing"

func TestExtractSymptoms_UrgentCardiology(t *testing.T) {
	c := ExtractSymptoms("URGENT_TRIAGE_COMPLETE: chest pain and shortness of breath")
	if c.Urgency != UrgencyHigh {
		t.Fatalf("expected high urgency, got %q", c.Urgency)
	}
	if c.Specialization != "Cardiology" {
		t.Fatalf("expected Cardiology, got %q", c.Specialization)
	}
	if c.Symptoms != "chest pain and shortness of breath" {
		t.Fatalf("unexpected symptoms: %q", c.Symptoms)
	}
}

func TestExtractSymptoms_DefaultsToMedium(t *testing.T) {
	c := ExtractSymptoms("TRIAGE_COMPLETE: mild headache for two days")
	if c.Urgency != UrgencyMedium {
		t.Fatalf("expected medium urgency, got %q", c.Urgency)
	}
	if c.Specialization != "" {
		t.Fatalf("expected no specialization, got %q", c.Specialization)
	}
	if c.Symptoms != "mild headache for two days" {
		t.Fatalf("unexpected symptoms: %q", c.Symptoms)
	}
}

func TestExtractSymptoms_Dermatology(t *testing.T) {
	c := ExtractSymptoms("TRIAGE_COMPLETE: itchy rash on both arms")
	if c.Specialization != "Dermatology" {
		t.Fatalf("expected Dermatology, got %q", c.Specialization)
	}
}

func TestExtractSymptoms_NeverFails(t *testing.T) {
	// No marker at all still yields a usable result.
	c := ExtractSymptoms("  sore throat  ")
	if c.Symptoms != "sore throat" {
		t.Fatalf("unexpected symptoms: %q", c.Symptoms)
	}
	if c.Urgency != UrgencyMedium {
		t.Fatalf("expected medium urgency, got %q", c.Urgency)
	}
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		complete bool
		urgent   bool
		summary  string
	}{
		{"continue", "How long have you had the cough?", false, false, ""},
		{"complete", "TRIAGE_COMPLETE: dry cough, no fever", true, false, "dry cough, no fever"},
		{"urgent", "URGENT_TRIAGE_COMPLETE: crushing chest pain", true, true, "crushing chest pain"},
		{"urgent short", "URGENT_COMPLETE: severe bleeding", true, true, "severe bleeding"},
		{"leading whitespace", "  TRIAGE_COMPLETE: fatigue", true, false, "fatigue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ParseOutcome(tt.in)
			if o.Complete != tt.complete || o.Urgent != tt.urgent {
				t.Fatalf("got complete=%v urgent=%v", o.Complete, o.Urgent)
			}
			if o.Complete && o.Summary != tt.summary {
				t.Fatalf("got summary %q, want %q", o.Summary, tt.summary)
			}
		})
	}
}
