package handler

import (
	"errors"
	"net/http"
	"strconv"

	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createMessageRequest struct {
	ChatID  uint   `json:"chatId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreateMessage persists a message through the REST path. Live fan-out
// happens only on the websocket path; this endpoint exists for clients
// without an open realtime channel.
func (h *Handler) CreateMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requireParticipant(c, req.ChatID, "Not authorized to send messages to this chat") {
		return
	}

	msg, err := h.Storage.CreateMessage(req.ChatID, currentUserID(c), req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListChatMessages pages through a chat's history, oldest first.
func (h *Handler) ListChatMessages(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chatId")
	if !ok {
		return
	}
	if !h.requireParticipant(c, chatID, "Not authorized to view messages in this chat") {
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	messages, err := h.Storage.ListChatMessages(chatID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetMessage returns one message, chat participants only.
func (h *Handler) GetMessage(c *gin.Context) {
	msg, ok := h.loadMessage(c)
	if !ok {
		return
	}
	if !h.requireParticipant(c, msg.ChatID, "Not authorized to view this message") {
		return
	}
	c.JSON(http.StatusOK, msg)
}

type updateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateMessage edits a message's content; sender only.
func (h *Handler) UpdateMessage(c *gin.Context) {
	var req updateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, ok := h.loadMessage(c)
	if !ok {
		return
	}
	if msg.SenderID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the sender can update this message"})
		return
	}

	msg.Content = req.Content
	if err := h.Storage.UpdateMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// DeleteMessage removes a message; sender only.
func (h *Handler) DeleteMessage(c *gin.Context) {
	msg, ok := h.loadMessage(c)
	if !ok {
		return
	}
	if msg.SenderID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the sender can delete this message"})
		return
	}

	if err := h.Storage.DeleteMessage(msg.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) loadMessage(c *gin.Context) (*models.Message, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	msg, err := h.Storage.GetMessage(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load message"})
		return nil, false
	}
	return msg, true
}

func (h *Handler) requireParticipant(c *gin.Context, chatID uint, forbiddenMsg string) bool {
	isMember, err := h.Storage.IsParticipant(chatID, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check chat membership"})
		return false
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": forbiddenMsg})
		return false
	}
	return true
}
