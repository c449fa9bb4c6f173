package triage

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/CijeTheCreator/consultify/internal/ai"
)

const systemPrompt = `You are a medical triage AI assistant for Consultify. Your role is to:

1. Collect patient symptoms in a conversational, empathetic manner
2. Ask relevant follow-up questions to understand the severity and nature of symptoms
3. Determine when you have enough information to recommend a doctor
4. NEVER provide medical diagnoses or treatment advice
5. Always be supportive and professional

Guidelines:
- Ask one question at a time
- Be empathetic and understanding
- Focus on symptom collection, not diagnosis
- When you have sufficient information (after 3-5 exchanges), end with: "TRIAGE_COMPLETE: [brief summary of symptoms]"
- If symptoms seem urgent, prioritize quickly: "URGENT_TRIAGE_COMPLETE: [brief summary]"

Start by greeting the patient and asking about their main concern.`

const forceCompletePrompt = `The exchange limit has been reached. Do not ask further questions. Respond now with "TRIAGE_COMPLETE: [brief summary of symptoms]" (or the URGENT_TRIAGE_COMPLETE form if the symptoms are urgent), summarizing everything the patient has reported.`

// Greeting seeds a fresh triage consultation without a model round trip.
const Greeting = "Hello! I'm the Consultify triage assistant. I'll ask you a few questions so we can connect you with the right doctor. What brings you in today?"

// apologyReply is returned whenever the model call fails. The conversation
// stays in the collecting state; the patient can simply resend.
const apologyReply = "I'm sorry, I'm having trouble connecting right now. Let me try to help you in a moment."

// Engine runs the turn-based triage exchange. Termination is delegated to
// the model's output marker up to MaxTurns patient turns; past the cap the
// engine forces completion instead of trusting the model indefinitely.
type Engine struct {
	provider ai.Provider
	maxTurns int
	timeout  time.Duration
}

func NewEngine(provider ai.Provider, maxTurns int, timeout time.Duration) *Engine {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Engine{provider: provider, maxTurns: maxTurns, timeout: timeout}
}

// Next produces the assistant turn for a transcript whose last message is
// from the patient. history carries only user/assistant turns, oldest first.
// A provider failure is degraded to the fixed apology reply, not an error:
// the caller's user sees the apology and the consultation stays collecting.
func (e *Engine) Next(ctx context.Context, history []ai.Message) Outcome {
	userTurns := 0
	for _, m := range history {
		if m.Role == ai.RoleUser {
			userTurns++
		}
	}
	overCap := userTurns >= e.maxTurns

	// One system message only: providers that take the system prompt out of
	// band (Gemini) keep a single instruction, so the cap nudge is folded
	// into the preamble rather than appended as a second system turn.
	preamble := systemPrompt
	if overCap {
		preamble = systemPrompt + "\n\n" + forceCompletePrompt
	}
	msgs := make([]ai.Message, 0, len(history)+1)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: preamble})
	msgs = append(msgs, history...)

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.provider.Chat(cctx, msgs)
	if err != nil {
		log.Printf("triage model call failed turns=%d err=%v", userTurns, err)
		if overCap {
			return e.forceComplete(history)
		}
		return Outcome{Reply: apologyReply}
	}

	outcome := ParseOutcome(reply)
	if overCap && !outcome.Complete {
		return e.forceComplete(history)
	}
	return outcome
}

// forceComplete synthesizes a completion from the patient's own turns when
// the model keeps asking questions past the cap.
func (e *Engine) forceComplete(history []ai.Message) Outcome {
	var parts []string
	for _, m := range history {
		if m.Role == ai.RoleUser {
			parts = append(parts, strings.TrimSpace(m.Content))
		}
	}
	summary := strings.Join(parts, "; ")
	if len(summary) > 500 {
		summary = summary[:500]
	}
	if summary == "" {
		summary = "patient did not describe symptoms"
	}
	return Outcome{
		Reply:    markerComplete + " " + summary,
		Complete: true,
		Summary:  summary,
	}
}
