package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cookieName   = "token"
	ctxUserIDKey = "userID"
	bearerPrefix = "Bearer "
)

// RequireAuth validates the bearer token (or the token cookie) and puts
// the authenticated user ID into the request context.
func (h *Handler) RequireAuth(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		token, _ = c.Cookie(cookieName)
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	userID, err := h.Tokens.Validate(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
		return
	}

	c.Set(ctxUserIDKey, userID)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix)
	}
	return ""
}

// currentUserID returns the user ID set by RequireAuth.
func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserIDKey)
}
