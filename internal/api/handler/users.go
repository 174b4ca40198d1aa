package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"chatter/backend/internal/auth"
	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// userView joins the persisted user with their cached presence.
type userView struct {
	models.User
	models.Presence
}

func (h *Handler) withPresence(user models.User) userView {
	presence, err := h.Storage.Presence(user.ID)
	if err != nil {
		// Presence is best-effort; the user record still goes out.
		log.Printf("user %d: reading presence: %v", user.ID, err)
	}
	return userView{User: user, Presence: presence}
}

// ListUsers returns a page of all users, for search and adding to chats.
func (h *Handler) ListUsers(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	users, err := h.Storage.ListUsers(skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	views := make([]userView, len(users))
	for i, user := range users {
		views[i] = h.withPresence(user)
	}
	c.JSON(http.StatusOK, views)
}

// SearchUsers matches username or email, excluding the requester.
func (h *Handler) SearchUsers(c *gin.Context) {
	query := c.Query("query")
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query must be at least 2 characters"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	users, err := h.Storage.SearchUsers(query, currentUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	views := make([]userView, len(users))
	for i, user := range users {
		views[i] = h.withPresence(user)
	}
	c.JSON(http.StatusOK, views)
}

// GetUser returns one user with their presence.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.Storage.GetUserByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	c.JSON(http.StatusOK, h.withPresence(*user))
}

type updateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=32"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// UpdateMe changes the requester's username, email or password.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Storage.GetUserByID(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		if other, err := h.Storage.GetUserByUsername(*req.Username); err == nil && other.ID != user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
			return
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if other, err := h.Storage.GetUserByEmail(*req.Email); err == nil && other.ID != user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already taken"})
			return
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		user.PasswordHash = hash
	}

	if err := h.Storage.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}
