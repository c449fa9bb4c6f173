package chat

import "time"

// SenderAI is the sentinel sender id for triage-assistant messages. It never
// corresponds to a directory user.
const SenderAI = "ai-triage-assistant"

type MessageType string

const (
	MessageTypeText         MessageType = "TEXT"
	MessageTypeSystem       MessageType = "SYSTEM"
	MessageTypeDoctorIntro  MessageType = "DOCTOR_INTRO"
	MessageTypePrescription MessageType = "PRESCRIPTION"
)

// Message is one entry of a consultation transcript. The auto-increment id
// doubles as the deterministic tie-break when two messages share a
// created_at timestamp.
type Message struct {
	ID             uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConsultationID string      `gorm:"type:varchar(36);not null;index:idx_messages_consultation_created,priority:1" json:"consultationId"`
	SenderID       string      `gorm:"type:varchar(64);not null" json:"senderId"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	MessageType    MessageType `gorm:"type:varchar(16);not null;default:'TEXT'" json:"messageType"`
	PrescriptionID *string     `gorm:"type:varchar(36);index" json:"prescriptionId,omitempty"`
	CreatedAt      time.Time   `gorm:"index:idx_messages_consultation_created,priority:2" json:"createdAt"`
}

func (Message) TableName() string { return "messages" }

// MessageRead records that a user has seen a message. The composite primary
// key makes duplicate marks a no-op at the store level.
type MessageRead struct {
	MessageID uint64    `gorm:"primaryKey;autoIncrement:false" json:"messageId"`
	UserID    string    `gorm:"primaryKey;type:varchar(64)" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (MessageRead) TableName() string { return "message_reads" }

// TypingIndicator is upserted per (consultation, user) on every
// keystroke-debounce event. A row is live only while updated_at falls inside
// the freshness window; stale rows are ignored at read time, never reaped.
type TypingIndicator struct {
	ConsultationID string    `gorm:"primaryKey;type:varchar(36)" json:"consultationId"`
	UserID         string    `gorm:"primaryKey;type:varchar(64)" json:"userId"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (TypingIndicator) TableName() string { return "typing_indicators" }
