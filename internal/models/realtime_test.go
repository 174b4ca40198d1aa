package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"chatter/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The wire shape of outbound frames is a protocol contract with the web
// client; these tests pin the type tags and field names.
func TestOutboundEventWireShape(t *testing.T) {
	msg := models.Message{ID: 7, ChatID: 3, SenderID: 1, Content: "hi", CreatedAt: time.Unix(0, 0).UTC()}

	cases := []struct {
		event    models.OutboundEvent
		wantType string
		wantKeys []string
	}{
		{models.NewMessageEvent(msg), "message", []string{"message"}},
		{models.NewMessageReadEvent(7, 3, 2), "message_read", []string{"messageId", "chatId", "readBy"}},
		{models.NewUserTypingEvent(3, 1, true), "user_typing", []string{"chatId", "userId", "isTyping"}},
		{models.NewStatusEvent(1, false), "status", []string{"userId", "isOnline"}},
	}

	for _, tc := range cases {
		t.Run(tc.wantType, func(t *testing.T) {
			assert.Equal(t, tc.wantType, tc.event.EventType())

			data, err := json.Marshal(tc.event)
			require.NoError(t, err)

			var frame map[string]any
			require.NoError(t, json.Unmarshal(data, &frame))
			assert.Equal(t, tc.wantType, frame["type"])
			for _, key := range tc.wantKeys {
				assert.Contains(t, frame, key)
			}
		})
	}
}

func TestInboundEventDecoding(t *testing.T) {
	var evt models.InboundEvent
	err := json.Unmarshal([]byte(`{"type":"typing","chatId":5,"isTyping":true}`), &evt)

	require.NoError(t, err)
	assert.Equal(t, models.InboundTyping, evt.Type)
	assert.Equal(t, uint(5), evt.ChatID)
	assert.True(t, evt.IsTyping)
}
