package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tindog-backend/internal/apperr"
	"tindog-backend/internal/events"
	"tindog-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageFixture() (*MessageService, *fakeChatStore, *fakeMessageStore, *fakePublisher) {
	chats := newFakeChatStore(&models.Chat{
		ID:             "chat1",
		UserIDs:        []string{"alice", "bob"},
		InitialMessage: models.InitialMessage{ReadBy: []string{}, Text: "Say hi!"},
	})
	messages := &fakeMessageStore{}
	pub := &fakePublisher{}
	svc := NewMessageService(chats, messages, pub)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, chats, messages, pub
}

func TestFanOut_UpdatesLastMessage(t *testing.T) {
	svc, chats, _, _ := newMessageFixture()
	ts := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

	err := svc.FanOut(context.Background(), &events.MessageCreated{
		ChatID:    "chat1",
		MessageID: "m1",
		Message:   &models.Message{ID: "m1", ChatID: "chat1", UserID: "alice", Text: "hi", Timestamp: ts},
	})
	require.NoError(t, err)

	chat, err := chats.GetByID(context.Background(), "chat1")
	require.NoError(t, err)
	require.NotNil(t, chat.LastMessage)
	assert.Equal(t, models.LastMessage{UserID: "alice", Text: "hi", Timestamp: ts, Read: false}, *chat.LastMessage)
}

func TestFanOut_ReadIsAlwaysReset(t *testing.T) {
	svc, chats, _, _ := newMessageFixture()

	err := svc.FanOut(context.Background(), &events.MessageCreated{
		ChatID:  "chat1",
		Message: &models.Message{ChatID: "chat1", UserID: "bob", Text: "yo", Read: true},
	})
	require.NoError(t, err)

	chat, _ := chats.GetByID(context.Background(), "chat1")
	assert.False(t, chat.LastMessage.Read)
}

func TestFanOut_NoDataIsNoop(t *testing.T) {
	svc, chats, _, _ := newMessageFixture()

	require.NoError(t, svc.FanOut(context.Background(), nil))
	require.NoError(t, svc.FanOut(context.Background(), &events.MessageCreated{ChatID: "chat1"}))

	chat, _ := chats.GetByID(context.Background(), "chat1")
	assert.Nil(t, chat.LastMessage)
}

func TestFanOut_MissingChatIsDropped(t *testing.T) {
	svc, _, _, _ := newMessageFixture()

	err := svc.FanOut(context.Background(), &events.MessageCreated{
		ChatID:  "gone",
		Message: &models.Message{UserID: "alice", Text: "hi"},
	})
	assert.NoError(t, err)
}

func TestSend(t *testing.T) {
	svc, _, messages, pub := newMessageFixture()
	ctx := context.Background()

	msg, err := svc.Send(ctx, "chat1", "alice", "  hello bob  ")
	require.NoError(t, err)
	assert.Equal(t, "hello bob", msg.Text)
	assert.Equal(t, "alice", msg.UserID)
	assert.False(t, msg.Read)
	assert.Equal(t, svc.now(), msg.Timestamp)

	require.Len(t, messages.messages, 1)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "chat1", pub.events[0].ChatID)
	assert.Equal(t, msg.ID, pub.events[0].MessageID)
	assert.Same(t, msg, pub.events[0].Message)

	_, err = svc.Send(ctx, "chat1", "carol", "let me in")
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))

	_, err = svc.Send(ctx, "chat1", "alice", "   ")
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = svc.Send(ctx, "chat1", "", "hi")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))

	assert.Len(t, messages.messages, 1)
}

func TestSend_PublishFailureStillStoresMessage(t *testing.T) {
	svc, _, messages, pub := newMessageFixture()
	pub.err = errors.New("nats: no responders")

	msg, err := svc.Send(context.Background(), "chat1", "bob", "woof")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Len(t, messages.messages, 1)
}

func TestGetChat(t *testing.T) {
	svc, _, _, _ := newMessageFixture()
	ctx := context.Background()

	chat, err := svc.GetChat(ctx, "chat1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Say hi!", chat.InitialMessage.Text)

	_, err = svc.GetChat(ctx, "chat1", "carol")
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))

	_, err = svc.GetChat(ctx, "nope", "bob")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestListMessages(t *testing.T) {
	svc, _, _, _ := newMessageFixture()
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.Send(ctx, "chat1", "alice", text)
		require.NoError(t, err)
	}

	all, err := svc.ListMessages(ctx, "chat1", "bob", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	two, err := svc.ListMessages(ctx, "chat1", "bob", 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, "one", two[0].Text)

	_, err = svc.ListMessages(ctx, "chat1", "carol", 10)
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))
}
