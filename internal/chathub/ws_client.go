package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"chatter/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// WebSocketClient owns one physical websocket connection end to end:
// it is registered under its user, pumps frames in both directions, and
// runs the teardown path exactly once when the connection dies.
type WebSocketClient struct {
	userID uint
	connID string
	conn   *websocket.Conn

	registry *Registry
	router   *Router
	presence *Notifier

	send       chan models.OutboundEvent
	sendMu     sync.Mutex
	sendClosed bool

	teardown sync.Once
}

func NewWebSocketClient(userID uint, conn *websocket.Conn, registry *Registry, router *Router, presence *Notifier) *WebSocketClient {
	return &WebSocketClient{
		userID:   userID,
		connID:   uuid.NewString(),
		conn:     conn,
		registry: registry,
		router:   router,
		presence: presence,
		send:     make(chan models.OutboundEvent, sendBufferSize),
	}
}

func (c *WebSocketClient) UserID() uint   { return c.userID }
func (c *WebSocketClient) ConnID() string { return c.connID }

// Send enqueues one outbound event without blocking. False means the
// event was dropped: the session is closing or the peer is too slow to
// drain its buffer.
func (c *WebSocketClient) Send(evt models.OutboundEvent) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}
	select {
	case c.send <- evt:
		return true
	default:
		return false
	}
}

// Close shuts the outbound channel, which stops the write pump and in
// turn closes the underlying connection. Safe to call more than once.
func (c *WebSocketClient) Close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// Run starts the read and write pumps. Teardown runs on the read pump's
// goroutine when the connection ends.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Teardown deregisters the session and announces the offline transition,
// at most once per session. The offline status is only broadcast when
// this session still owned the registry entry; a superseded session
// going away does not make a still-connected user look offline.
func (c *WebSocketClient) Teardown() {
	c.teardown.Do(func() {
		c.Close()
		if c.conn != nil {
			c.conn.Close()
		}
		if c.registry.Deregister(c) {
			go c.presence.Notify(c.userID, false)
		}
	})
}

func (c *WebSocketClient) readPump() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("user %d: session panic: %v", c.userID, r)
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""),
				time.Now().Add(writeWait))
		}
		c.Teardown()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("user %d: read error: %v", c.userID, err)
			}
			return
		}

		var evt models.InboundEvent
		if err := json.Unmarshal(frame, &evt); err != nil {
			// Malformed frames are dropped; the session stays active.
			log.Printf("user %d: dropping malformed frame: %v", c.userID, err)
			continue
		}

		c.router.Handle(c.userID, evt)
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(evt)
			if err != nil {
				log.Printf("user %d: encoding %s event: %v", c.userID, evt.EventType(), err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
