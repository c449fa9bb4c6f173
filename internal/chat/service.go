package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/common"
)

// ConsultationChecker verifies that a consultation exists before chat
// operations touch its transcript. Implemented by the consultation repo.
type ConsultationChecker interface {
	Exists(ctx context.Context, consultationID string) error
}

// NameResolver renders sender display names; implemented by the directory
// resolver, which degrades to placeholders instead of failing.
type NameResolver interface {
	DisplayName(ctx context.Context, userID string) string
}

// PrescriptionLoader fetches the medication payload attached to a
// PRESCRIPTION message. The returned value is JSON-marshalable.
type PrescriptionLoader interface {
	Medications(ctx context.Context, prescriptionID string) (any, error)
}

// PrescriptionData is the payload attached to PRESCRIPTION messages in a
// transcript.
type PrescriptionData struct {
	Medications any `json:"medications"`
}

// MessageView is a transcript entry annotated for the polling client.
type MessageView struct {
	Message
	SenderName       string            `json:"senderName"`
	ReadBy           []string          `json:"read_by"`
	PrescriptionData *PrescriptionData `json:"prescription_data,omitempty"`
}

// Transcript is the full poll response for one consultation.
type Transcript struct {
	Messages    []MessageView `json:"messages"`
	TypingUsers []string      `json:"typingUsers"`
}

// Service is the polling-based synchronization layer: every read is cheap
// and idempotent, freshness comes entirely from the client re-polling.
type Service struct {
	repo          *Repo
	consultations ConsultationChecker
	resolver      NameResolver
	prescriptions PrescriptionLoader
	freshness     time.Duration
	now           func() time.Time
}

func NewService(repo *Repo, consultations ConsultationChecker, resolver NameResolver, prescriptions PrescriptionLoader, freshness time.Duration) *Service {
	if freshness <= 0 {
		freshness = 3000 * time.Millisecond
	}
	return &Service{
		repo:          repo,
		consultations: consultations,
		resolver:      resolver,
		prescriptions: prescriptions,
		freshness:     freshness,
		now:           time.Now,
	}
}

// Transcript returns the ordered messages with read receipts and attached
// prescriptions, plus the names of other participants typing right now.
// Typing liveness is computed against the request time on every call, never
// cached.
func (s *Service) Transcript(ctx context.Context, consultationID, requestingUserID string) (*Transcript, error) {
	if err := s.consultations.Exists(ctx, consultationID); err != nil {
		return nil, err
	}

	msgs, err := s.repo.ListMessages(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	ids := make([]uint64, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	reads, err := s.repo.ListReads(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list reads: %w", err)
	}
	readBy := make(map[uint64][]string, len(msgs))
	for _, r := range reads {
		readBy[r.MessageID] = append(readBy[r.MessageID], r.UserID)
	}

	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		v := MessageView{
			Message:    m,
			SenderName: s.resolver.DisplayName(ctx, m.SenderID),
			ReadBy:     readBy[m.ID],
		}
		if v.ReadBy == nil {
			v.ReadBy = []string{}
		}
		if m.MessageType == MessageTypePrescription && m.PrescriptionID != nil {
			meds, err := s.prescriptions.Medications(ctx, *m.PrescriptionID)
			if err != nil {
				log.Printf("prescription payload load failed message=%d prescription=%s err=%v", m.ID, *m.PrescriptionID, err)
			} else {
				v.PrescriptionData = &PrescriptionData{Medications: meds}
			}
		}
		views = append(views, v)
	}

	cutoff := s.now().Add(-s.freshness)
	typing, err := s.repo.ListFreshTyping(ctx, consultationID, requestingUserID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list typing: %w", err)
	}
	typingUsers := make([]string, 0, len(typing))
	for _, t := range typing {
		typingUsers = append(typingUsers, s.resolver.DisplayName(ctx, t.UserID))
	}

	return &Transcript{Messages: views, TypingUsers: typingUsers}, nil
}

// PostMessage appends a TEXT message and the sender's own read record.
func (s *Service) PostMessage(ctx context.Context, consultationID, senderID, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty message content", common.ErrValidation)
	}
	if senderID == "" {
		return nil, fmt.Errorf("%w: missing sender id", common.ErrValidation)
	}
	if err := s.consultations.Exists(ctx, consultationID); err != nil {
		return nil, err
	}

	m := &Message{
		ConsultationID: consultationID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    MessageTypeText,
	}
	if err := s.repo.InsertMessageWithRead(ctx, m); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// PostTyping upserts or deletes the caller's indicator row. Idempotent:
// repeated calls with the same value are harmless.
func (s *Service) PostTyping(ctx context.Context, consultationID, userID string, typing bool) error {
	if userID == "" {
		return fmt.Errorf("%w: missing sender id", common.ErrValidation)
	}
	if err := s.consultations.Exists(ctx, consultationID); err != nil {
		return err
	}
	if typing {
		return s.repo.UpsertTyping(ctx, consultationID, userID, s.now())
	}
	return s.repo.DeleteTyping(ctx, consultationID, userID)
}

// MarkRead records that a user has seen a message. Calling it twice leaves
// exactly one read row.
func (s *Service) MarkRead(ctx context.Context, messageID uint64, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: missing user id", common.ErrValidation)
	}
	if _, err := s.repo.GetMessage(ctx, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message %d", common.ErrNotFound, messageID)
		}
		return err
	}
	return s.repo.MarkRead(ctx, messageID, userID)
}
