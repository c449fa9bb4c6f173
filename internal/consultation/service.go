package consultation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/chat"
	"github.com/CijeTheCreator/consultify/internal/common"
	"github.com/CijeTheCreator/consultify/internal/directory"
	"github.com/CijeTheCreator/consultify/internal/triage"
)

// ErrAlreadyAssigned is returned when a handoff races a completed one: at
// most one doctor assignment ever succeeds per consultation.
var ErrAlreadyAssigned = fmt.Errorf("%w: consultation already assigned", common.ErrConflict)

// DoctorSelector picks a doctor for extracted criteria; implemented by the
// directory repo.
type DoctorSelector interface {
	SelectDoctor(ctx context.Context, criteria triage.Criteria) (*directory.User, error)
}

type Service struct {
	db       *gorm.DB
	repo     *Repo
	selector DoctorSelector
}

func NewService(db *gorm.DB, repo *Repo, selector DoctorSelector) *Service {
	return &Service{db: db, repo: repo, selector: selector}
}

// Create starts an AI-triage consultation for a patient and seeds the static
// assistant greeting so the first poll shows the conversation opener.
func (s *Service) Create(ctx context.Context, patientID string) (*Consultation, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, fmt.Errorf("%w: missing patient id", common.ErrValidation)
	}

	c := &Consultation{
		PatientID:        patientID,
		Title:            "AI Triage",
		ConsultationType: TypeAITriage,
		AITriageStatus:   TriagePending,
		Urgency:          UrgencyLow,
		Status:           StatusActive,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&chat.Message{
			ConsultationID: c.ID,
			SenderID:       chat.SenderAI,
			Content:        triage.Greeting,
			MessageType:    chat.MessageTypeText,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Consultation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: missing user id", common.ErrValidation)
	}
	return s.repo.ListForUser(ctx, userID)
}

// CompleteTriage moves a consultation from AI triage to a human doctor. The
// consultation update and both synthetic messages commit as one unit; a
// reader either sees the pre-handoff state or the fully assigned one, never
// anything in between. Concurrent attempts are serialized by a conditional
// update on the pending state: the loser observes zero affected rows and
// gets ErrAlreadyAssigned.
func (s *Service) CompleteTriage(ctx context.Context, consultationID, aiSummary string) (*Consultation, *directory.User, error) {
	if strings.TrimSpace(consultationID) == "" || strings.TrimSpace(aiSummary) == "" {
		return nil, nil, fmt.Errorf("%w: missing consultation id or summary", common.ErrValidation)
	}

	// Load before selecting: an absent consultation is NotFound no matter
	// what state the doctor pool is in.
	current, err := s.repo.GetByID(ctx, consultationID)
	if err != nil {
		return nil, nil, err
	}
	if current.ConsultationType != TypeAITriage || current.AITriageStatus != TriagePending {
		return nil, nil, ErrAlreadyAssigned
	}

	criteria := triage.ExtractSymptoms(aiSummary)
	doctor, err := s.selector.SelectDoctor(ctx, criteria)
	if err != nil {
		return nil, nil, fmt.Errorf("select doctor: %w", err)
	}

	title := fmt.Sprintf("Consultation - %s", truncate(criteria.Symptoms, 50))

	var updated Consultation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Consultation
		if err := tx.First(&c, "id = ?", consultationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: consultation %s", common.ErrNotFound, consultationID)
			}
			return err
		}
		if c.ConsultationType != TypeAITriage || c.AITriageStatus != TriagePending {
			return ErrAlreadyAssigned
		}

		res := tx.Model(&Consultation{}).
			Where("id = ? AND consultation_type = ? AND ai_triage_status = ?",
				consultationID, TypeAITriage, TriagePending).
			Updates(map[string]any{
				"doctor_id":         doctor.ID,
				"title":             title,
				"consultation_type": TypeHuman,
				"ai_triage_status":  TriageCompleted,
				"triage_summary":    aiSummary,
				"urgency":           strings.ToUpper(criteria.Urgency),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent handoff.
			return ErrAlreadyAssigned
		}

		if err := tx.Create(&chat.Message{
			ConsultationID: consultationID,
			SenderID:       c.PatientID,
			Content:        "AI Triage Summary: " + aiSummary,
			MessageType:    chat.MessageTypeSystem,
		}).Error; err != nil {
			return err
		}

		intro := fmt.Sprintf(
			"Hello! I'm Dr. %s. I've reviewed your symptoms and I'm here to help. How are you feeling right now?",
			doctor.Name)
		if err := tx.Create(&chat.Message{
			ConsultationID: consultationID,
			SenderID:       doctor.ID,
			Content:        intro,
			MessageType:    chat.MessageTypeDoctorIntro,
		}).Error; err != nil {
			return err
		}

		return tx.First(&updated, "id = ?", consultationID).Error
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("triage handoff complete consultation=%s doctor=%s urgency=%s",
		consultationID, doctor.ID, updated.Urgency)
	return &updated, doctor, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
