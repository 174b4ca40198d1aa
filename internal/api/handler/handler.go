// Package handler exposes the REST surface and the websocket endpoint
// of the chat backend.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"chatter/backend/internal/auth"
	"chatter/backend/internal/chathub"
	"chatter/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler carries the collaborators every endpoint needs.
type Handler struct {
	Storage  storage.Storage
	Tokens   *auth.TokenService
	Registry *chathub.Registry
	Router   *chathub.Router
	Presence *chathub.Notifier

	// Cookie settings for the token cookie set on login/register.
	CookieTTL     time.Duration
	SecureCookies bool
}

func New(s storage.Storage, tokens *auth.TokenService, registry *chathub.Registry, router *chathub.Router, presence *chathub.Notifier, cookieTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		Storage:       s,
		Tokens:        tokens,
		Registry:      registry,
		Router:        router,
		Presence:      presence,
		CookieTTL:     cookieTTL,
		SecureCookies: secureCookies,
	}
}

// RegisterRoutes wires every endpoint onto the gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", h.Health)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.RequireAuth, h.Me)

	users := api.Group("/users", h.RequireAuth)
	users.GET("", h.ListUsers)
	users.GET("/search", h.SearchUsers)
	users.GET("/me", h.Me)
	users.PATCH("/me", h.UpdateMe)
	users.GET("/:id", h.GetUser)

	chats := api.Group("/chats", h.RequireAuth)
	chats.POST("", h.CreateChat)
	chats.GET("", h.ListChats)
	chats.GET("/:id", h.GetChat)
	chats.PATCH("/:id", h.UpdateChat)
	chats.DELETE("/:id", h.DeleteChat)

	messages := api.Group("/messages", h.RequireAuth)
	messages.POST("", h.CreateMessage)
	messages.GET("/chat/:chatId", h.ListChatMessages)
	messages.GET("/:id", h.GetMessage)
	messages.PATCH("/:id", h.UpdateMessage)
	messages.DELETE("/:id", h.DeleteMessage)

	r.GET("/ws", h.ServeWebSocket)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseIDParam reads a positive integer path parameter or answers 400.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
