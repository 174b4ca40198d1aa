package chathub_test

import (
	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the chathub.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) IsParticipant(chatID, userID uint) (bool, error) {
	args := m.Called(chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) CreateMessage(chatID, senderID uint, content string) (*models.Message, error) {
	args := m.Called(chatID, senderID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) ListParticipantIDs(chatID uint) ([]uint, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStore) MarkChatRead(chatID, readerID uint) ([]storage.ReadReceipt, error) {
	args := m.Called(chatID, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ReadReceipt), args.Error(1)
}

func (m *MockStore) ChatIDsForUser(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStore) SetOnline(userID uint, online bool) error {
	args := m.Called(userID, online)
	return args.Error(0)
}

// mockClient is a buffered in-memory chathub.Client for exercising the
// registry and fan-out paths without a websocket.
type mockClient struct {
	userID uint
	connID string
	recv   chan models.OutboundEvent
	closed bool
}

func newMockClient(userID uint) *mockClient {
	return newMockClientBuffered(userID, 16)
}

func newMockClientBuffered(userID uint, buffer int) *mockClient {
	return &mockClient{
		userID: userID,
		connID: uuid.NewString(),
		recv:   make(chan models.OutboundEvent, buffer),
	}
}

func (c *mockClient) UserID() uint   { return c.userID }
func (c *mockClient) ConnID() string { return c.connID }

func (c *mockClient) Send(evt models.OutboundEvent) bool {
	if c.closed {
		return false
	}
	select {
	case c.recv <- evt:
		return true
	default:
		return false
	}
}

func (c *mockClient) Close() {
	c.closed = true
}

// events drains and returns everything delivered to the client so far.
func (c *mockClient) events() []models.OutboundEvent {
	var events []models.OutboundEvent
	for {
		select {
		case evt := <-c.recv:
			events = append(events, evt)
		default:
			return events
		}
	}
}
