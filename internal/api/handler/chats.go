package handler

import (
	"errors"
	"net/http"

	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createChatRequest struct {
	Name           string `json:"name" binding:"max=100"`
	IsGroup        bool   `json:"isGroup"`
	ParticipantIDs []uint `json:"participantIds"`
}

// CreateChat creates a chat; the requester is always a participant.
func (h *Handler) CreateChat(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat := &models.Chat{Name: req.Name, IsGroup: req.IsGroup, CreatedBy: currentUserID(c)}
	if err := h.Storage.CreateChat(chat, req.ParticipantIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}
	c.JSON(http.StatusCreated, chat)
}

// ListChats returns the chats the requester participates in.
func (h *Handler) ListChats(c *gin.Context) {
	chats, err := h.Storage.ListChatsForUser(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chats"})
		return
	}
	c.JSON(http.StatusOK, chats)
}

// GetChat returns one chat plus its participant IDs, participants only.
func (h *Handler) GetChat(c *gin.Context) {
	chat, ok := h.loadChatForParticipant(c)
	if !ok {
		return
	}

	participantIDs, err := h.Storage.ListParticipantIDs(chat.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat": chat, "participantIds": participantIDs})
}

type updateChatRequest struct {
	Name                 *string `json:"name" binding:"omitempty,max=100"`
	AddParticipantIDs    []uint  `json:"addParticipantIds"`
	RemoveParticipantIDs []uint  `json:"removeParticipantIds"`
}

// UpdateChat renames a chat and adds or removes participants.
func (h *Handler) UpdateChat(c *gin.Context) {
	var req updateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, ok := h.loadChatForParticipant(c)
	if !ok {
		return
	}

	if req.Name != nil {
		chat.Name = *req.Name
		if err := h.Storage.UpdateChat(chat); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chat"})
			return
		}
	}

	for _, userID := range req.AddParticipantIDs {
		if err := h.Storage.AddParticipant(chat.ID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chat"})
			return
		}
	}
	for _, userID := range req.RemoveParticipantIDs {
		// Leaving the chat is not done through this endpoint.
		if userID == currentUserID(c) {
			continue
		}
		if err := h.Storage.RemoveParticipant(chat.ID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chat"})
			return
		}
	}

	c.JSON(http.StatusOK, chat)
}

// DeleteChat removes a chat and its messages; creator only.
func (h *Handler) DeleteChat(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	chat, err := h.Storage.GetChat(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return
	}
	if chat.CreatedBy != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the chat creator can delete the chat"})
		return
	}

	if err := h.Storage.DeleteChat(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chat"})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadChatForParticipant loads the :id chat and enforces that the
// requester belongs to it, answering 404/403/500 itself.
func (h *Handler) loadChatForParticipant(c *gin.Context) (*models.Chat, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	chat, err := h.Storage.GetChat(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return nil, false
	}

	isMember, err := h.Storage.IsParticipant(chat.ID, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return nil, false
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this chat"})
		return nil, false
	}
	return chat, true
}
