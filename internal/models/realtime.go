package models

// InboundType tags a frame received on the realtime channel.
type InboundType string

const (
	InboundMessage   InboundType = "message"
	InboundMarkRead  InboundType = "mark_read"
	InboundTyping    InboundType = "typing"
	InboundHeartbeat InboundType = "heartbeat"
)

// InboundEvent is one decoded client frame. Type selects which of the
// remaining fields are meaningful.
type InboundEvent struct {
	Type     InboundType `json:"type"`
	ChatID   uint        `json:"chatId"`
	Content  string      `json:"content"`
	IsTyping bool        `json:"isTyping"`
}

// OutboundEvent is a frame the server pushes to a connected client.
// Each concrete event carries everything a recipient needs to update
// its view without a follow-up fetch.
type OutboundEvent interface {
	EventType() string
}

// MessageEvent delivers a newly persisted chat message.
type MessageEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

// NewMessageEvent wraps a persisted message for delivery.
func NewMessageEvent(msg Message) MessageEvent {
	return MessageEvent{Type: "message", Message: msg}
}

func (e MessageEvent) EventType() string { return e.Type }

// MessageReadEvent tells the original sender that one of their messages
// was read. One event is emitted per message, never batched.
type MessageReadEvent struct {
	Type      string `json:"type"`
	MessageID uint   `json:"messageId"`
	ChatID    uint   `json:"chatId"`
	ReadBy    uint   `json:"readBy"`
}

func NewMessageReadEvent(messageID, chatID, readBy uint) MessageReadEvent {
	return MessageReadEvent{Type: "message_read", MessageID: messageID, ChatID: chatID, ReadBy: readBy}
}

func (e MessageReadEvent) EventType() string { return e.Type }

// UserTypingEvent relays a typing indicator.
type UserTypingEvent struct {
	Type     string `json:"type"`
	ChatID   uint   `json:"chatId"`
	UserID   uint   `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

func NewUserTypingEvent(chatID, userID uint, isTyping bool) UserTypingEvent {
	return UserTypingEvent{Type: "user_typing", ChatID: chatID, UserID: userID, IsTyping: isTyping}
}

func (e UserTypingEvent) EventType() string { return e.Type }

// StatusEvent announces a user's online/offline transition to their
// chat partners.
type StatusEvent struct {
	Type     string `json:"type"`
	UserID   uint   `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

func NewStatusEvent(userID uint, isOnline bool) StatusEvent {
	return StatusEvent{Type: "status", UserID: userID, IsOnline: isOnline}
}

func (e StatusEvent) EventType() string { return e.Type }
