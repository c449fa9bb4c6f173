package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CijeTheCreator/consultify/internal/chat"
	"github.com/CijeTheCreator/consultify/internal/config"
	"github.com/CijeTheCreator/consultify/internal/consultation"
	"github.com/CijeTheCreator/consultify/internal/directory"
	"github.com/CijeTheCreator/consultify/internal/prescription"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&directory.User{},
		&consultation.Consultation{},
		&chat.Message{},
		&chat.MessageRead{},
		&chat.TypingIndicator{},
		&prescription.Prescription{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	cfg := config.Config{
		Origin:          "http://localhost:3000",
		JWTSecret:       "test-secret",
		AIProvider:      "mistral",
		AITimeout:       time.Second,
		TriageMaxTurns:  10,
		TypingFreshness: 3000 * time.Millisecond,
	}
	return NewRouter(db, cfg, nil, nil), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMessages_PollShape(t *testing.T) {
	r, db := newTestRouter(t)

	cons := &consultation.Consultation{PatientID: "patient-1", ConsultationType: consultation.TypeAITriage, AITriageStatus: consultation.TriagePending}
	if err := db.Create(cons).Error; err != nil {
		t.Fatalf("seed consultation: %v", err)
	}
	if err := db.Create(&chat.Message{ConsultationID: cons.ID, SenderID: "patient-1", Content: "hello", MessageType: chat.MessageTypeText}).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/consultations/"+cons.ID+"/messages?userId=patient-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Messages    []json.RawMessage `json:"messages"`
		TypingUsers []string          `json:"typingUsers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(body.Messages))
	}
	if body.TypingUsers == nil {
		t.Fatalf("typingUsers must be present even when empty: %s", w.Body.String())
	}
}

func TestGetMessages_MissingConsultation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/consultations/nope/messages?userId=u1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["error"].(string); !ok {
		t.Fatalf("error body must carry an error string: %s", w.Body.String())
	}
}

func TestCreateConsultation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/consultations", gin.H{"patientId": "patient-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Consultation struct {
			ID               string `json:"id"`
			ConsultationType string `json:"consultationType"`
		} `json:"consultation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Consultation.ID == "" || body.Consultation.ConsultationType != "AI_TRIAGE" {
		t.Fatalf("unexpected consultation: %s", w.Body.String())
	}

	// Missing patientId is a 400.
	w = doJSON(t, r, http.MethodPost, "/api/consultations", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreatePrescription_InvalidMedicationLeavesNoRows(t *testing.T) {
	r, db := newTestRouter(t)

	doc := "doc-1"
	cons := &consultation.Consultation{PatientID: "patient-1", DoctorID: &doc, ConsultationType: consultation.TypeHuman, AITriageStatus: consultation.TriageCompleted}
	if err := db.Create(cons).Error; err != nil {
		t.Fatalf("seed consultation: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/consultations/"+cons.ID+"/prescription", gin.H{
		"medications": []gin.H{
			{"drug_name": "Ibuprofen", "amount": "", "frequency": "daily"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&prescription.Prescription{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalid prescription must leave zero rows, got %d", count)
	}
}

func TestPostMessage_TypeGate(t *testing.T) {
	r, db := newTestRouter(t)

	cons := &consultation.Consultation{PatientID: "patient-1", ConsultationType: consultation.TypeAITriage, AITriageStatus: consultation.TriagePending}
	if err := db.Create(cons).Error; err != nil {
		t.Fatalf("seed consultation: %v", err)
	}
	path := "/api/consultations/" + cons.ID + "/messages"

	w := doJSON(t, r, http.MethodPost, path, gin.H{"type": "message", "senderId": "patient-1", "content": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("message post: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, path, gin.H{"type": "typing", "senderId": "patient-1", "isTyping": true})
	if w.Code != http.StatusOK {
		t.Fatalf("typing post: %d %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("typing post must return success, got %s", w.Body.String())
	}

	// Anything that is not "message" or "typing" is rejected.
	for _, typ := range []string{"", "broadcast"} {
		w = doJSON(t, r, http.MethodPost, path, gin.H{"type": typ, "senderId": "patient-1", "content": "hello"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("type %q: expected 400, got %d", typ, w.Code)
		}
	}
}

func TestCompleteTriage_ConflictOnSecondCall(t *testing.T) {
	r, db := newTestRouter(t)

	if err := db.Create(&directory.User{Name: "Ada Obi", Email: "ada@example.com", Role: directory.RoleDoctor}).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	cons := &consultation.Consultation{PatientID: "patient-1", ConsultationType: consultation.TypeAITriage, AITriageStatus: consultation.TriagePending}
	if err := db.Create(cons).Error; err != nil {
		t.Fatalf("seed consultation: %v", err)
	}

	req := gin.H{"consultationId": cons.ID, "aiSummary": "persistent cough, three weeks"}
	if w := doJSON(t, r, http.MethodPost, "/api/consultations/complete-triage", req); w.Code != http.StatusOK {
		t.Fatalf("first handoff: %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, "/api/consultations/complete-triage", req); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeat handoff, got %d", w.Code)
	}
}

func TestNoRouteShape(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "route not found" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
