package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/common"
)

type allowAllConsultations struct{}

func (allowAllConsultations) Exists(ctx context.Context, consultationID string) error {
	_ = ctx
	if consultationID == "gone" {
		return common.ErrNotFound
	}
	return nil
}

type echoResolver struct{}

func (echoResolver) DisplayName(ctx context.Context, userID string) string {
	_ = ctx
	return "name:" + userID
}

type noPrescriptions struct{}

func (noPrescriptions) Medications(ctx context.Context, prescriptionID string) (any, error) {
	_, _ = ctx, prescriptionID
	return nil, errors.New("no prescriptions in this test")
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Message{}, &MessageRead{}, &TypingIndicator{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *Repo) {
	t.Helper()
	repo := NewRepo(openTestDB(t))
	svc := NewService(repo, allowAllConsultations{}, echoResolver{}, noPrescriptions{}, 3000*time.Millisecond)
	return svc, repo
}

func TestTranscript_OrderIsCreatedAtThenID(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Insert out of order across two senders; transcript must come back
	// t1 < t2 < t3 regardless of interleaving.
	for _, m := range []Message{
		{ConsultationID: "c1", SenderID: "doctor", Content: "second", MessageType: MessageTypeText, CreatedAt: base.Add(2 * time.Second)},
		{ConsultationID: "c1", SenderID: "patient", Content: "first", MessageType: MessageTypeText, CreatedAt: base.Add(1 * time.Second)},
		{ConsultationID: "c1", SenderID: "patient", Content: "third", MessageType: MessageTypeText, CreatedAt: base.Add(3 * time.Second)},
	} {
		msg := m
		if err := repo.InsertMessageWithRead(ctx, &msg); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	tr, err := svc.Transcript(ctx, "c1", "patient")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(tr.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(tr.Messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if tr.Messages[i].Content != want {
			t.Fatalf("position %d: got %q, want %q", i, tr.Messages[i].Content, want)
		}
	}
}

func TestTranscript_TieBreakByInsertionID(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := Message{ConsultationID: "c1", SenderID: "a", Content: "earlier insert", MessageType: MessageTypeText, CreatedAt: ts}
	second := Message{ConsultationID: "c1", SenderID: "b", Content: "later insert", MessageType: MessageTypeText, CreatedAt: ts}
	if err := repo.InsertMessageWithRead(ctx, &first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.InsertMessageWithRead(ctx, &second); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tr, err := svc.Transcript(ctx, "c1", "a")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if tr.Messages[0].Content != "earlier insert" || tr.Messages[1].Content != "later insert" {
		t.Fatalf("tie-break by id violated: %q then %q", tr.Messages[0].Content, tr.Messages[1].Content)
	}
}

func TestPostMessage_SenderReadsOwnMessage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.PostMessage(ctx, "c1", "patient", "hello doctor")
	if err != nil {
		t.Fatalf("post message: %v", err)
	}

	tr, err := svc.Transcript(ctx, "c1", "patient")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(tr.Messages) != 1 || tr.Messages[0].ID != m.ID {
		t.Fatalf("unexpected transcript: %+v", tr.Messages)
	}
	if len(tr.Messages[0].ReadBy) != 1 || tr.Messages[0].ReadBy[0] != "patient" {
		t.Fatalf("sender should have read their own message, got %v", tr.Messages[0].ReadBy)
	}
}

func TestPostMessage_RejectsEmptyContent(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.PostMessage(context.Background(), "c1", "patient", "   ")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	msgs, err := repo.ListMessages(context.Background(), "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("no message row should exist, got %d", len(msgs))
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	m, err := svc.PostMessage(ctx, "c1", "patient", "hi")
	if err != nil {
		t.Fatalf("post message: %v", err)
	}

	if err := svc.MarkRead(ctx, m.ID, "doctor"); err != nil {
		t.Fatalf("first mark read: %v", err)
	}
	if err := svc.MarkRead(ctx, m.ID, "doctor"); err != nil {
		t.Fatalf("second mark read must not error: %v", err)
	}

	reads, err := repo.ListReads(ctx, []uint64{m.ID})
	if err != nil {
		t.Fatalf("list reads: %v", err)
	}
	doctorReads := 0
	for _, r := range reads {
		if r.UserID == "doctor" {
			doctorReads++
		}
	}
	if doctorReads != 1 {
		t.Fatalf("expected exactly one read row for doctor, got %d", doctorReads)
	}
}

func TestMarkRead_MissingMessage(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.MarkRead(context.Background(), 9999, "doctor")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTypingFreshnessWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	indicatorAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return indicatorAt }
	if err := svc.PostTyping(ctx, "c1", "doctor", true); err != nil {
		t.Fatalf("post typing: %v", err)
	}

	// 2999 ms later: still fresh.
	svc.now = func() time.Time { return indicatorAt.Add(2999 * time.Millisecond) }
	tr, err := svc.Transcript(ctx, "c1", "patient")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(tr.TypingUsers) != 1 || tr.TypingUsers[0] != "name:doctor" {
		t.Fatalf("expected doctor typing at +2999ms, got %v", tr.TypingUsers)
	}

	// 3001 ms later: stale.
	svc.now = func() time.Time { return indicatorAt.Add(3001 * time.Millisecond) }
	tr, err = svc.Transcript(ctx, "c1", "patient")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(tr.TypingUsers) != 0 {
		t.Fatalf("expected no typing users at +3001ms, got %v", tr.TypingUsers)
	}
}

func TestTypingExcludesRequesterAndStops(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.PostTyping(ctx, "c1", "patient", true); err != nil {
		t.Fatalf("post typing: %v", err)
	}
	tr, err := svc.Transcript(ctx, "c1", "patient")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(tr.TypingUsers) != 0 {
		t.Fatalf("requester must not see their own indicator, got %v", tr.TypingUsers)
	}

	// Stop typing deletes the row; a second stop is a no-op.
	if err := svc.PostTyping(ctx, "c1", "patient", false); err != nil {
		t.Fatalf("stop typing: %v", err)
	}
	if err := svc.PostTyping(ctx, "c1", "patient", false); err != nil {
		t.Fatalf("repeated stop typing must not error: %v", err)
	}

	tr, err = svc.Transcript(ctx, "c1", "doctor")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(tr.TypingUsers) != 0 {
		t.Fatalf("indicator should be gone after stop, got %v", tr.TypingUsers)
	}
}

func TestTranscript_PrescriptionPayloadDegrades(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	pid := "rx-1"
	m := Message{ConsultationID: "c1", SenderID: "doctor", Content: "Prescription sent with 1 medication(s)", MessageType: MessageTypePrescription, PrescriptionID: &pid}
	if err := repo.InsertMessageWithRead(ctx, &m); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Payload lookup fails; the message still appears, just without the
	// attached medications.
	tr, err := svc.Transcript(ctx, "c1", "patient")
	if err != nil {
		t.Fatalf("transcript must not fail on a payload miss: %v", err)
	}
	if len(tr.Messages) != 1 {
		t.Fatalf("expected the prescription message, got %d messages", len(tr.Messages))
	}
	if tr.Messages[0].PrescriptionData != nil {
		t.Fatalf("payload should be absent when the lookup fails, got %+v", tr.Messages[0].PrescriptionData)
	}
}

func TestTranscript_ConsultationNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Transcript(context.Background(), "gone", "patient")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
