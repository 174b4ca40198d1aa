package handler_test

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"chatter/backend/internal/api/handler"
	"chatter/backend/internal/auth"
	"chatter/backend/internal/chathub"
	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// hubStoreMock is a testify mock of the realtime core's storage port.
type hubStoreMock struct {
	mock.Mock
}

func (m *hubStoreMock) IsParticipant(chatID, userID uint) (bool, error) {
	args := m.Called(chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *hubStoreMock) CreateMessage(chatID, senderID uint, content string) (*models.Message, error) {
	args := m.Called(chatID, senderID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *hubStoreMock) ListParticipantIDs(chatID uint) ([]uint, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *hubStoreMock) MarkChatRead(chatID, readerID uint) ([]storage.ReadReceipt, error) {
	args := m.Called(chatID, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ReadReceipt), args.Error(1)
}

func (m *hubStoreMock) ChatIDsForUser(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *hubStoreMock) SetOnline(userID uint, online bool) error {
	args := m.Called(userID, online)
	return args.Error(0)
}

func newWebSocketServer(t *testing.T, store chathub.Store, tokens *auth.TokenService) (*httptest.Server, *chathub.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := chathub.NewRegistry()
	h := &handler.Handler{
		Tokens:   tokens,
		Registry: registry,
		Router:   chathub.NewRouter(store, registry),
		Presence: chathub.NewNotifier(store, registry),
	}

	r := gin.New()
	r.GET("/ws", h.ServeWebSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, registry
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestServeWebSocket_InvalidTokenClosesWithPolicyViolation(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	srv, registry := newWebSocketServer(t, new(hubStoreMock), tokens)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token=not-a-token", nil)
	require.NoError(t, err)
	defer conn.Close()

	// The upgrade itself succeeds; the rejection arrives as a close
	// control frame, never as an error payload.
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	assert.Zero(t, registry.Count())
}

func TestServeWebSocket_OnlineStatusPrecedesOffline(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	store := new(hubStoreMock)

	var mu sync.Mutex
	var transitions []bool
	store.On("SetOnline", uint(1), mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		transitions = append(transitions, args.Bool(1))
		mu.Unlock()
	}).Return(nil)
	store.On("ChatIDsForUser", uint(1)).Return([]uint{}, nil)

	srv, _ := newWebSocketServer(t, store, tokens)

	token, err := tokens.Generate(1)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+token, nil)
	require.NoError(t, err)

	// Disconnect straight away. The offline transition must still land
	// after the online one; a user who connected is never left looking
	// online once gone.
	conn.Close()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(transitions) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, transitions)
}
