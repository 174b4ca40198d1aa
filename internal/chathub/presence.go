package chathub

import (
	"log"

	"chatter/backend/internal/models"
)

// Notifier tells a user's chat partners when that user comes online or
// goes offline, and keeps the presence cache in step.
type Notifier struct {
	store    Store
	registry *Registry
}

func NewNotifier(store Store, registry *Registry) *Notifier {
	return &Notifier{store: store, registry: registry}
}

// Notify resolves every chat userID participates in and delivers one
// status event to each other participant currently online. A recipient
// sharing several chats with the user still gets exactly one event per
// transition.
func (n *Notifier) Notify(userID uint, online bool) {
	if err := n.store.SetOnline(userID, online); err != nil {
		log.Printf("user %d: updating presence cache: %v", userID, err)
	}

	chatIDs, err := n.store.ChatIDsForUser(userID)
	if err != nil {
		log.Printf("user %d: resolving chats for presence: %v", userID, err)
		return
	}

	evt := models.NewStatusEvent(userID, online)
	notified := make(map[uint]bool)
	for _, chatID := range chatIDs {
		participants, err := n.store.ListParticipantIDs(chatID)
		if err != nil {
			log.Printf("chat %d: listing participants for presence: %v", chatID, err)
			continue
		}
		for _, recipientID := range participants {
			if recipientID == userID || notified[recipientID] {
				continue
			}
			notified[recipientID] = true
			n.registry.Deliver(recipientID, evt)
		}
	}
}
