package prescription

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Medication is one line of a prescription. All three fields are free text;
// the service validates them as non-empty before anything is stored.
type Medication struct {
	DrugName  string `json:"drug_name"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
}

// Prescription stores its medications as a JSON column rather than a child
// table; they are written once and only ever read back as a unit.
type Prescription struct {
	ID             string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ConsultationID string       `gorm:"type:varchar(36);index;not null" json:"consultationId"`
	DoctorID       string       `gorm:"type:varchar(36);not null" json:"doctorId"`
	PatientID      string       `gorm:"type:varchar(36);not null" json:"patientId"`
	Medications    []Medication `gorm:"serializer:json;type:text" json:"medications"`
	CreatedAt      time.Time    `json:"createdAt"`
}

func (Prescription) TableName() string { return "prescriptions" }

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
