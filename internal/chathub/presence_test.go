package chathub_test

import (
	"testing"

	"chatter/backend/internal/chathub"
	"chatter/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_OfflineFanOutAcrossChats(t *testing.T) {
	store := new(MockStore)
	registry := chathub.NewRegistry()
	notifier := chathub.NewNotifier(store, registry)

	// User 1 shares chat 10 with users 2 and 3, and chat 11 with users 3
	// and 4. Users 2 and 3 are online, 4 is not.
	online2 := newMockClient(2)
	online3 := newMockClient(3)
	registry.Register(online2)
	registry.Register(online3)

	store.On("SetOnline", uint(1), false).Return(nil)
	store.On("ChatIDsForUser", uint(1)).Return([]uint{10, 11}, nil)
	store.On("ListParticipantIDs", uint(10)).Return([]uint{1, 2, 3}, nil)
	store.On("ListParticipantIDs", uint(11)).Return([]uint{1, 3, 4}, nil)

	notifier.Notify(1, false)

	// User 3 shares two chats with user 1 but still gets exactly one event.
	for _, recipient := range []*mockClient{online2, online3} {
		received := recipient.events()
		require.Len(t, received, 1, "user %d", recipient.UserID())
		statusEvt, ok := received[0].(models.StatusEvent)
		require.True(t, ok)
		assert.Equal(t, uint(1), statusEvt.UserID)
		assert.False(t, statusEvt.IsOnline)
	}
	store.AssertExpectations(t)
}

func TestNotifier_OnlineTransition(t *testing.T) {
	store := new(MockStore)
	registry := chathub.NewRegistry()
	notifier := chathub.NewNotifier(store, registry)

	partner := newMockClient(2)
	registry.Register(partner)

	store.On("SetOnline", uint(1), true).Return(nil)
	store.On("ChatIDsForUser", uint(1)).Return([]uint{10}, nil)
	store.On("ListParticipantIDs", uint(10)).Return([]uint{1, 2}, nil)

	notifier.Notify(1, true)

	received := partner.events()
	require.Len(t, received, 1)
	statusEvt, ok := received[0].(models.StatusEvent)
	require.True(t, ok)
	assert.True(t, statusEvt.IsOnline)
}

func TestNotifier_NoChatsNoDeliveries(t *testing.T) {
	store := new(MockStore)
	registry := chathub.NewRegistry()
	notifier := chathub.NewNotifier(store, registry)

	bystander := newMockClient(2)
	registry.Register(bystander)

	store.On("SetOnline", uint(1), true).Return(nil)
	store.On("ChatIDsForUser", uint(1)).Return([]uint{}, nil)

	notifier.Notify(1, true)

	assert.Empty(t, bystander.events())
}
