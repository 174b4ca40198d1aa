package chathub_test

import (
	"testing"

	"chatter/backend/internal/chathub"
	"chatter/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterSupersedesPreviousConnection(t *testing.T) {
	registry := chathub.NewRegistry()
	first := newMockClient(1)
	second := newMockClient(1)

	prev := registry.Register(first)
	assert.Nil(t, prev)

	prev = registry.Register(second)
	require.NotNil(t, prev)
	assert.Equal(t, first.ConnID(), prev.ConnID())

	// Only the second connection receives subsequent deliveries.
	delivered := registry.Deliver(1, models.NewStatusEvent(2, true))
	assert.True(t, delivered)
	assert.Len(t, second.events(), 1)
	assert.Empty(t, first.events())
}

func TestRegistry_DeregisterIgnoresSupersededSession(t *testing.T) {
	registry := chathub.NewRegistry()
	first := newMockClient(1)
	second := newMockClient(1)

	registry.Register(first)
	registry.Register(second)

	// The stale session's teardown must not evict its replacement.
	assert.False(t, registry.Deregister(first))
	current, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, second.ConnID(), current.ConnID())

	assert.True(t, registry.Deregister(second))
	_, ok = registry.Lookup(1)
	assert.False(t, ok)

	// Already removed: no-op.
	assert.False(t, registry.Deregister(second))
}

func TestRegistry_DeliverToOfflineUser(t *testing.T) {
	registry := chathub.NewRegistry()

	assert.False(t, registry.Deliver(99, models.NewStatusEvent(1, true)))
}

func TestRegistry_DeliverNeverBlocksOnFullBuffer(t *testing.T) {
	registry := chathub.NewRegistry()
	slow := newMockClientBuffered(1, 1)
	registry.Register(slow)

	evt := models.NewStatusEvent(2, true)
	assert.True(t, registry.Deliver(1, evt))
	// Buffer is now full; the next delivery is dropped, not blocked on.
	assert.False(t, registry.Deliver(1, evt))
}

func TestRegistry_OnlineUsersSnapshot(t *testing.T) {
	registry := chathub.NewRegistry()
	registry.Register(newMockClient(1))
	registry.Register(newMockClient(2))
	registry.Register(newMockClient(3))
	registry.Deregister(mustLookup(t, registry, 2))

	assert.ElementsMatch(t, []uint{1, 3}, registry.OnlineUsers())
	assert.Equal(t, 2, registry.Count())
}

func TestRegistry_CloseAllEmptiesRegistry(t *testing.T) {
	registry := chathub.NewRegistry()
	a := newMockClient(1)
	b := newMockClient(2)
	registry.Register(a)
	registry.Register(b)

	registry.CloseAll()

	assert.Zero(t, registry.Count())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func mustLookup(t *testing.T, registry *chathub.Registry, userID uint) chathub.Client {
	t.Helper()
	c, ok := registry.Lookup(userID)
	require.True(t, ok)
	return c
}
