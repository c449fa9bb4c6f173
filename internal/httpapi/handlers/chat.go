package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CijeTheCreator/consultify/internal/common"
	"github.com/CijeTheCreator/consultify/internal/httpapi/middleware"
)

func (h *Handler) ListMessages(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID, _ = middleware.CallerID(c)
	}
	if userID == "" {
		common.Fail(c, http.StatusBadRequest, "userId is required")
		return
	}

	tr, err := h.Chat.Transcript(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tr)
}

type postMessageReq struct {
	Type     string `json:"type"`
	SenderID string `json:"senderId" validate:"required"`
	Content  string `json:"content"`
	IsTyping *bool  `json:"isTyping"`
}

// PostMessage multiplexes chat messages and typing events over one route.
// type "typing" toggles the sender's indicator and returns {success:true};
// type "message" appends a TEXT message and returns it. Anything else is a
// 400.
func (h *Handler) PostMessage(c *gin.Context) {
	id := c.Param("id")

	var req postMessageReq
	if !bindAndValidate(c, &req) {
		return
	}

	switch req.Type {
	case "typing":
		typing := true
		if req.IsTyping != nil {
			typing = *req.IsTyping
		}
		if err := h.Chat.PostTyping(c.Request.Context(), id, req.SenderID, typing); err != nil {
			failFromErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	case "message":
		m, err := h.Chat.PostMessage(c.Request.Context(), id, req.SenderID, req.Content)
		if err != nil {
			failFromErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": m})

	default:
		common.Fail(c, http.StatusBadRequest, "invalid request type")
	}
}

type markReadReq struct {
	UserID string `json:"userId" validate:"required"`
}

func (h *Handler) MarkMessageRead(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid message id")
		return
	}

	var req markReadReq
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.Chat.MarkRead(c.Request.Context(), messageID, req.UserID); err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
