package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Directory.ListDoctors(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}
