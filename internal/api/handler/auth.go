package handler

import (
	"errors"
	"log"
	"net/http"

	"chatter/backend/internal/auth"
	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and logs it in right away.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if taken, ok := h.identifierTaken(c, "email", req.Email); !ok {
		return
	} else if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}
	if taken, ok := h.identifierTaken(c, "username", req.Username); !ok {
		return
	} else if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := &models.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := h.Storage.CreateUser(user); err != nil {
		log.Printf("registering %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	h.setAuthCookie(c, token)

	log.Printf("new user registered: %s (%s)", user.Username, user.Email)
	c.JSON(http.StatusCreated, gin.H{"user": user, "access_token": token})
}

// Login authenticates by email and password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	h.setAuthCookie(c, token)

	log.Printf("user logged in: %s (%s)", user.Username, user.Email)
	c.JSON(http.StatusOK, gin.H{"user": user, "access_token": token})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(cookieName, "", -1, "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out successfully"})
}

// Me returns the authenticated user's own record.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Storage.GetUserByID(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// identifierTaken checks a unique user column; it answers 500 itself on
// storage failure and reports ok=false so the caller can bail out.
func (h *Handler) identifierTaken(c *gin.Context, column, value string) (taken, ok bool) {
	var err error
	if column == "email" {
		_, err = h.Storage.GetUserByEmail(value)
	} else {
		_, err = h.Storage.GetUserByUsername(value)
	}
	if err == nil {
		return true, true
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, true
	}
	log.Printf("checking %s %q: %v", column, value, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
	return false, false
}

// setAuthCookie mirrors the access token into a cookie so browser
// clients can open the websocket without attaching a header.
func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(cookieName, token, int(h.CookieTTL.Seconds()), "/", "", h.SecureCookies, true)
}
