// Package chathub routes realtime chat events between connected users:
// the connection registry, the per-session websocket pumps, the event
// router and the presence notifier live here.
package chathub

import (
	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"
)

// Client is one active realtime connection. It abstracts the underlying
// transport so the registry and router never touch a websocket directly.
type Client interface {
	// UserID returns the authenticated owner of the connection.
	UserID() uint
	// ConnID returns the connection's unique ID, used by the registry to
	// tell a live session apart from one it has superseded.
	ConnID() string
	// Send enqueues one outbound event without blocking. It reports
	// false when the session is closing or its buffer is full; the
	// caller treats that as a failed best-effort delivery.
	Send(evt models.OutboundEvent) bool
	// Close shuts down the client's outbound side. Safe to call more
	// than once.
	Close()
}

// Store is the slice of the storage layer the realtime core depends on.
// Chat membership is re-read through it on every event, never cached.
type Store interface {
	IsParticipant(chatID, userID uint) (bool, error)
	CreateMessage(chatID, senderID uint, content string) (*models.Message, error)
	ListParticipantIDs(chatID uint) ([]uint, error)
	MarkChatRead(chatID, readerID uint) ([]storage.ReadReceipt, error)
	ChatIDsForUser(userID uint) ([]uint, error)
	SetOnline(userID uint, online bool) error
}
