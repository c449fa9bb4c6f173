package consultation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/common"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, c *Consultation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Consultation, error) {
	var c Consultation
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: consultation %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &c, nil
}

// Exists satisfies the chat layer's ConsultationChecker.
func (r *Repo) Exists(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Consultation{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: consultation %s", common.ErrNotFound, id)
	}
	return nil
}

// PendingTriagePatient returns the patient of a consultation that is still
// in AI triage. Satisfies the triage gate: a consultation that already moved
// to a doctor rejects further triage turns with a conflict.
func (r *Repo) PendingTriagePatient(ctx context.Context, id string) (string, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if c.ConsultationType != TypeAITriage || c.AITriageStatus != TriagePending {
		return "", fmt.Errorf("%w: consultation %s is not in AI triage", common.ErrConflict, id)
	}
	return c.PatientID, nil
}

// ListForUser returns consultations the user participates in, newest first.
func (r *Repo) ListForUser(ctx context.Context, userID string) ([]Consultation, error) {
	var out []Consultation
	if err := r.db.WithContext(ctx).
		Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
