package chathub

import (
	"log"
	"sync"
	"time"

	"chatter/backend/internal/models"
)

type entry struct {
	client        Client
	establishedAt time.Time
}

// Registry maps each user to their single active realtime connection.
// All operations are individually atomic; fan-outs deliver through
// repeated Deliver calls rather than holding the lock across the whole
// iteration, so a user connecting mid-broadcast may or may not receive
// that particular broadcast.
type Registry struct {
	mu    sync.RWMutex
	conns map[uint]entry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uint]entry)}
}

// Register installs c as the connection for its user, last writer wins.
// It returns the superseded client if one existed; the caller is
// responsible for closing it.
func (r *Registry) Register(c Client) Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, existed := r.conns[c.UserID()]
	r.conns[c.UserID()] = entry{client: c, establishedAt: time.Now()}
	if existed {
		log.Printf("user %d: connection %s supersedes %s", c.UserID(), c.ConnID(), prev.client.ConnID())
		return prev.client
	}
	return nil
}

// Deregister removes the entry for c's user only if it still refers to
// c, so a stale session cannot evict the connection that replaced it.
// It reports whether the entry was removed.
func (r *Registry) Deregister(c Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.conns[c.UserID()]
	if !ok || cur.client.ConnID() != c.ConnID() {
		return false
	}
	delete(r.conns, c.UserID())
	return true
}

// Lookup returns the user's current connection, if any.
func (r *Registry) Lookup(userID uint) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cur, ok := r.conns[userID]
	if !ok {
		return nil, false
	}
	return cur.client, true
}

// OnlineUsers returns a point-in-time snapshot of the connected user
// IDs. The snapshot is not kept consistent with later mutations.
func (r *Registry) OnlineUsers() []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userIDs := make([]uint, 0, len(r.conns))
	for userID := range r.conns {
		userIDs = append(userIDs, userID)
	}
	return userIDs
}

// Count returns the number of connected users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Deliver sends one event to userID if they are currently connected.
// Delivery is best-effort: a full or closing recipient never blocks the
// caller, and a failure here must not abort a wider fan-out.
func (r *Registry) Deliver(userID uint, evt models.OutboundEvent) bool {
	r.mu.RLock()
	cur, ok := r.conns[userID]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	if !cur.client.Send(evt) {
		log.Printf("user %d: dropping %s event, send buffer unavailable", userID, evt.EventType())
		return false
	}
	return true
}

// CloseAll closes every registered connection and empties the registry.
// Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	clients := make([]Client, 0, len(r.conns))
	for _, cur := range r.conns {
		clients = append(clients, cur.client)
	}
	r.conns = make(map[uint]entry)
	r.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}
