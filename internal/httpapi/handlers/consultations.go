package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CijeTheCreator/consultify/internal/common"
	"github.com/CijeTheCreator/consultify/internal/httpapi/middleware"
)

type createConsultationReq struct {
	PatientID string `json:"patientId" validate:"required"`
}

func (h *Handler) CreateConsultation(c *gin.Context) {
	var req createConsultationReq
	if !bindAndValidate(c, &req) {
		return
	}

	cons, err := h.Consultations.Create(c.Request.Context(), req.PatientID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"consultation": cons})
}

func (h *Handler) ListConsultations(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID, _ = middleware.CallerID(c)
	}
	if userID == "" {
		common.Fail(c, http.StatusBadRequest, "userId is required")
		return
	}

	list, err := h.Consultations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": list})
}

func (h *Handler) GetConsultation(c *gin.Context) {
	cons, err := h.Consultations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultation": cons})
}

type triageMessageReq struct {
	Content string `json:"content" validate:"required"`
}

// TriageMessage runs one triage turn. When the exchange completes, the
// handoff runs immediately and the response carries the assigned
// consultation and doctor; a handoff failure still returns the triage reply
// so the client can retry via the complete-triage endpoint.
func (h *Handler) TriageMessage(c *gin.Context) {
	id := c.Param("id")

	var req triageMessageReq
	if !bindAndValidate(c, &req) {
		return
	}

	res, err := h.Triage.HandleMessage(c.Request.Context(), id, req.Content)
	if err != nil {
		failFromErr(c, err)
		return
	}

	body := gin.H{
		"message":        res.Reply,
		"triageComplete": res.Complete,
		"urgent":         res.Urgent,
	}
	if res.Complete {
		body["aiSummary"] = res.Summary
		cons, doctor, err := h.Consultations.CompleteTriage(c.Request.Context(), id, res.Summary)
		if err != nil {
			log.Printf("triage handoff deferred consultation=%s err=%v", id, err)
		} else {
			body["consultation"] = cons
			body["doctor"] = doctor
		}
	}
	c.JSON(http.StatusOK, body)
}

type completeTriageReq struct {
	ConsultationID string `json:"consultationId" validate:"required"`
	AISummary      string `json:"aiSummary" validate:"required"`
}

func (h *Handler) CompleteTriage(c *gin.Context) {
	var req completeTriageReq
	if !bindAndValidate(c, &req) {
		return
	}

	cons, doctor, err := h.Consultations.CompleteTriage(c.Request.Context(), req.ConsultationID, req.AISummary)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultation": cons, "doctor": doctor})
}
