package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/CijeTheCreator/consultify/internal/ai"
	"github.com/CijeTheCreator/consultify/internal/chat"
	"github.com/CijeTheCreator/consultify/internal/common"
)

// ConsultationGate checks that a consultation is still in AI triage before a
// triage turn runs. Implemented by the consultation repo.
type ConsultationGate interface {
	PendingTriagePatient(ctx context.Context, consultationID string) (patientID string, err error)
}

// Result is one triage exchange as seen by the patient's client: the
// assistant's reply plus the completion signal the client uses to trigger
// the handoff call.
type Result struct {
	Reply    string `json:"message"`
	Complete bool   `json:"triageComplete"`
	Urgent   bool   `json:"urgent"`
	Summary  string `json:"aiSummary,omitempty"`
}

// Service persists triage turns into the consultation transcript and runs
// the engine over it. The transcript is the only conversation state; there
// is no separate triage session store.
type Service struct {
	engine *Engine
	repo   *chat.Repo
	gate   ConsultationGate
}

func NewService(engine *Engine, repo *chat.Repo, gate ConsultationGate) *Service {
	return &Service{engine: engine, repo: repo, gate: gate}
}

// HandleMessage stores the patient's message, produces the assistant turn
// and stores that too. The patient message is durable even when the model
// call fails; the patient then just sees the apology reply.
func (s *Service) HandleMessage(ctx context.Context, consultationID, content string) (*Result, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty message content", common.ErrValidation)
	}

	patientID, err := s.gate.PendingTriagePatient(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertMessageWithRead(ctx, &chat.Message{
		ConsultationID: consultationID,
		SenderID:       patientID,
		Content:        content,
		MessageType:    chat.MessageTypeText,
	}); err != nil {
		return nil, fmt.Errorf("insert patient message: %w", err)
	}

	history, err := s.history(ctx, consultationID, patientID)
	if err != nil {
		return nil, err
	}

	outcome := s.engine.Next(ctx, history)

	if err := s.repo.InsertMessageWithRead(ctx, &chat.Message{
		ConsultationID: consultationID,
		SenderID:       chat.SenderAI,
		Content:        outcome.Reply,
		MessageType:    chat.MessageTypeText,
	}); err != nil {
		return nil, fmt.Errorf("insert assistant message: %w", err)
	}

	return &Result{
		Reply:    outcome.Reply,
		Complete: outcome.Complete,
		Urgent:   outcome.Urgent,
		Summary:  outcome.Summary,
	}, nil
}

// history rebuilds the model conversation from the transcript: assistant
// turns come from the AI sender, user turns from the patient. Anything else
// (system or handoff messages) is not part of the exchange.
func (s *Service) history(ctx context.Context, consultationID, patientID string) ([]ai.Message, error) {
	msgs, err := s.repo.ListMessages(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	history := make([]ai.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.MessageType != chat.MessageTypeText {
			continue
		}
		switch m.SenderID {
		case chat.SenderAI:
			history = append(history, ai.Message{Role: ai.RoleAssistant, Content: m.Content})
		case patientID:
			history = append(history, ai.Message{Role: ai.RoleUser, Content: m.Content})
		}
	}
	return history, nil
}
