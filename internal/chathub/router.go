package chathub

import (
	"log"

	"chatter/backend/internal/models"
)

// Router resolves each inbound event to its authorized recipient set,
// performs the associated side effect, and fans the outbound events out
// through the registry. Branches are independent: failures are logged
// and the frame dropped, never propagated to the session.
type Router struct {
	store    Store
	registry *Registry
}

func NewRouter(store Store, registry *Registry) *Router {
	return &Router{store: store, registry: registry}
}

// Handle processes one decoded frame from userID. Frames from a single
// connection arrive here in receipt order; there is no ordering across
// connections or chats.
func (rt *Router) Handle(userID uint, evt models.InboundEvent) {
	switch evt.Type {
	case models.InboundMessage:
		rt.handleChatMessage(userID, evt)
	case models.InboundMarkRead:
		rt.handleMarkRead(userID, evt)
	case models.InboundTyping:
		rt.handleTyping(userID, evt)
	case models.InboundHeartbeat:
		// Keep-alive only, nothing to route.
	default:
		log.Printf("user %d: unknown event type %q", userID, evt.Type)
	}
}

func (rt *Router) handleChatMessage(userID uint, evt models.InboundEvent) {
	if evt.ChatID == 0 || evt.Content == "" {
		return
	}

	ok, err := rt.store.IsParticipant(evt.ChatID, userID)
	if err != nil {
		log.Printf("chat %d: participant check for user %d: %v", evt.ChatID, userID, err)
		return
	}
	if !ok {
		// No error frame goes back to the client for this.
		log.Printf("user %d sent a message to chat %d without being a participant", userID, evt.ChatID)
		return
	}

	msg, err := rt.store.CreateMessage(evt.ChatID, userID, evt.Content)
	if err != nil {
		log.Printf("chat %d: persisting message from user %d: %v", evt.ChatID, userID, err)
		return
	}

	participants, err := rt.store.ListParticipantIDs(evt.ChatID)
	if err != nil {
		log.Printf("chat %d: listing participants: %v", evt.ChatID, err)
		return
	}

	out := models.NewMessageEvent(*msg)
	for _, recipientID := range participants {
		if recipientID == userID {
			continue
		}
		rt.registry.Deliver(recipientID, out)
	}
}

func (rt *Router) handleMarkRead(userID uint, evt models.InboundEvent) {
	if evt.ChatID == 0 {
		return
	}

	receipts, err := rt.store.MarkChatRead(evt.ChatID, userID)
	if err != nil {
		log.Printf("chat %d: marking read for user %d: %v", evt.ChatID, userID, err)
		return
	}

	// One event per affected message, so the sender's client can flip
	// read state per message id.
	for _, receipt := range receipts {
		rt.registry.Deliver(receipt.SenderID, models.NewMessageReadEvent(receipt.MessageID, evt.ChatID, userID))
	}
}

func (rt *Router) handleTyping(userID uint, evt models.InboundEvent) {
	if evt.ChatID == 0 {
		return
	}

	// Typing indicators go to every other online user, not just the
	// chat's participants. Recipient clients filter by chatId.
	out := models.NewUserTypingEvent(evt.ChatID, userID, evt.IsTyping)
	for _, recipientID := range rt.registry.OnlineUsers() {
		if recipientID == userID {
			continue
		}
		rt.registry.Deliver(recipientID, out)
	}
}
