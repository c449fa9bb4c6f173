package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum
type Role string

const (
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// User mirrors the externally owned identity record: the core keeps this
// directory replica only to pick doctors and render display names.
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Email          string    `gorm:"size:255;uniqueIndex" json:"email"`
	Role           Role      `gorm:"size:20;index;not null" json:"role"`
	Specialization string    `gorm:"size:100" json:"specialization,omitempty"`
	Language       string    `gorm:"size:10" json:"language,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
