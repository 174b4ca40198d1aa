package handler

import (
	"log"
	"net/http"
	"time"

	"chatter/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client runs on a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const closeGracePeriod = 10 * time.Second

// ServeWebSocket upgrades the connection and hands it to a session.
// The credential comes from the token query parameter (the path browser
// websockets can actually use), with the bearer header and cookie as
// fallbacks. Invalid credentials close the socket with a policy
// violation; the client never gets an error frame.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		token, _ = c.Cookie(cookieName)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	userID, err := h.Tokens.Validate(token)
	if err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid credentials"),
			time.Now().Add(closeGracePeriod))
		conn.Close()
		return
	}

	client := chathub.NewWebSocketClient(userID, conn, h.Registry, h.Router, h.Presence)
	if prev := h.Registry.Register(client); prev != nil {
		// Last writer wins: the replaced session shuts itself down.
		prev.Close()
	}

	log.Printf("user %d connected (%s)", userID, client.ConnID())

	// The online broadcast completes before the pumps start. Teardown can
	// only fire once the read pump is running, so an immediate disconnect
	// cannot publish its offline status ahead of this one.
	h.Presence.Notify(userID, true)
	client.Run()
}
