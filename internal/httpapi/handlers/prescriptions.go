package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CijeTheCreator/consultify/internal/prescription"
)

type createPrescriptionReq struct {
	Medications []prescription.Medication `json:"medications" validate:"required,min=1"`
}

// CreatePrescription stores a prescription for a consultation. The doctor
// and patient come from the consultation record, not from the request.
func (h *Handler) CreatePrescription(c *gin.Context) {
	var req createPrescriptionReq
	if !bindAndValidate(c, &req) {
		return
	}

	p, err := h.Prescriptions.Create(c.Request.Context(), c.Param("id"), req.Medications)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"prescription": p,
		"message":      "Prescription created successfully",
	})
}
