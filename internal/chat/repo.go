package chat

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// InsertMessageWithRead stores a message together with the sender's own read
// record: a sender has seen their message by definition. One transaction so
// readers never observe the message without its read row.
func (r *Repo) InsertMessageWithRead(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Create(&MessageRead{MessageID: m.ID, UserID: m.SenderID}).Error
	})
}

func (r *Repo) GetMessage(ctx context.Context, id uint64) (*Message, error) {
	var m Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns the canonical transcript order: created_at ascending
// with the insertion id as the stable tie-break.
func (r *Repo) ListMessages(ctx context.Context, consultationID string) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("consultation_id = ?", consultationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *Repo) ListReads(ctx context.Context, messageIDs []uint64) ([]MessageRead, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var reads []MessageRead
	if err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Find(&reads).Error; err != nil {
		return nil, err
	}
	return reads, nil
}

// MarkRead is insert-or-ignore on the composite key; duplicate calls leave
// exactly one row and no error.
func (r *Repo) MarkRead(ctx context.Context, messageID uint64, userID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&MessageRead{MessageID: messageID, UserID: userID}).Error
}

// UpsertTyping refreshes the (consultation, user) indicator row, creating it
// on first use. Safe under concurrent calls from the same user.
func (r *Repo) UpsertTyping(ctx context.Context, consultationID, userID string, now time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "consultation_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"updated_at": now}),
		}).
		Create(&TypingIndicator{ConsultationID: consultationID, UserID: userID, UpdatedAt: now}).Error
}

// DeleteTyping removes the indicator on an explicit stop-typing event.
// Deleting an absent row is a no-op.
func (r *Repo) DeleteTyping(ctx context.Context, consultationID, userID string) error {
	return r.db.WithContext(ctx).
		Where("consultation_id = ? AND user_id = ?", consultationID, userID).
		Delete(&TypingIndicator{}).Error
}

// ListFreshTyping returns indicators for other participants updated at or
// after the cutoff.
func (r *Repo) ListFreshTyping(ctx context.Context, consultationID, excludeUserID string, cutoff time.Time) ([]TypingIndicator, error) {
	var rows []TypingIndicator
	if err := r.db.WithContext(ctx).
		Where("consultation_id = ? AND user_id <> ? AND updated_at >= ?", consultationID, excludeUserID, cutoff).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
