package prescription

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/chat"
	"github.com/CijeTheCreator/consultify/internal/common"
	"github.com/CijeTheCreator/consultify/internal/consultation"
)

// ConsultationLoader resolves the consultation a prescription belongs to;
// implemented by the consultation repo.
type ConsultationLoader interface {
	GetByID(ctx context.Context, id string) (*consultation.Consultation, error)
}

// EmailEnqueuer hands a prescription off for email delivery. Implemented by
// the RabbitMQ publisher; delivery is best-effort and never blocks the
// chat-visible write.
type EmailEnqueuer interface {
	EnqueuePrescriptionEmail(ctx context.Context, prescriptionID string) error
}

type Service struct {
	db      *gorm.DB
	loader  ConsultationLoader
	emailer EmailEnqueuer
}

// NewService wires the prescription flow. emailer may be nil, which disables
// notification emails without affecting the stored prescription.
func NewService(db *gorm.DB, loader ConsultationLoader, emailer EmailEnqueuer) *Service {
	return &Service{db: db, loader: loader, emailer: emailer}
}

// Create validates and stores a prescription together with its PRESCRIPTION
// chat message in one transaction, then enqueues the notification email.
// Validation runs before any store access: an invalid request leaves zero
// rows behind. Doctor and patient are resolved from the consultation, never
// taken from the caller; a consultation without an assigned doctor cannot
// be prescribed against.
func (s *Service) Create(ctx context.Context, consultationID string, medications []Medication) (*Prescription, error) {
	if strings.TrimSpace(consultationID) == "" {
		return nil, fmt.Errorf("%w: missing consultation id", common.ErrValidation)
	}
	if len(medications) == 0 {
		return nil, fmt.Errorf("%w: at least one medication is required", common.ErrValidation)
	}
	for i, m := range medications {
		if strings.TrimSpace(m.DrugName) == "" || strings.TrimSpace(m.Amount) == "" || strings.TrimSpace(m.Frequency) == "" {
			return nil, fmt.Errorf("%w: medication %d is missing drug name, amount or frequency", common.ErrValidation, i+1)
		}
	}

	c, err := s.loader.GetByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if c.DoctorID == nil || *c.DoctorID == "" {
		return nil, fmt.Errorf("%w: consultation %s has no assigned doctor", common.ErrConflict, consultationID)
	}
	doctorID := *c.DoctorID

	p := &Prescription{
		ConsultationID: consultationID,
		DoctorID:       doctorID,
		PatientID:      c.PatientID,
		Medications:    medications,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		content := fmt.Sprintf("Prescription sent with %d medication(s)", len(medications))
		return tx.Create(&chat.Message{
			ConsultationID: consultationID,
			SenderID:       doctorID,
			Content:        content,
			MessageType:    chat.MessageTypePrescription,
			PrescriptionID: &p.ID,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}

	// Fire and forget: an email failure must never surface to the doctor or
	// undo the committed prescription.
	if s.emailer != nil {
		if err := s.emailer.EnqueuePrescriptionEmail(ctx, p.ID); err != nil {
			log.Printf("prescription email enqueue failed prescription=%s err=%v", p.ID, err)
		}
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Prescription, error) {
	var p Prescription
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: prescription %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

// Medications satisfies the chat layer's PrescriptionLoader so transcripts
// can attach medication payloads to PRESCRIPTION messages.
func (s *Service) Medications(ctx context.Context, prescriptionID string) (any, error) {
	p, err := s.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	return p.Medications, nil
}
