package consultation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeAITriage Type = "AI_TRIAGE"
	TypeHuman    Type = "HUMAN"
)

type TriageStatus string

const (
	TriagePending   TriageStatus = "PENDING"
	TriageCompleted TriageStatus = "COMPLETED"
)

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Consultation is one care episode. DoctorID is nil exactly until the triage
// handoff assigns a doctor and flips the type to HUMAN; the two always change
// together. Urgency stays LOW until triage completes — the triage path only
// ever produces MEDIUM or HIGH.
type Consultation struct {
	ID               string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PatientID        string       `gorm:"type:varchar(36);index;not null" json:"patientId"`
	DoctorID         *string      `gorm:"type:varchar(36);index" json:"doctorId"`
	Title            string       `gorm:"size:255" json:"title"`
	ConsultationType Type         `gorm:"type:varchar(16);not null;default:'AI_TRIAGE'" json:"consultationType"`
	AITriageStatus   TriageStatus `gorm:"column:ai_triage_status;type:varchar(16);not null;default:'PENDING'" json:"aiTriageStatus"`
	TriageSummary    *string      `gorm:"type:text" json:"triageSummary,omitempty"`
	Urgency          Urgency      `gorm:"type:varchar(8);not null;default:'LOW'" json:"urgency"`
	Status           Status       `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

func (Consultation) TableName() string { return "consultations" }

func (c *Consultation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
