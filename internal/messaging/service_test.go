package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fluentora/backend/internal/db/repository"
)

type mockMessageStore struct {
	mock.Mock
}

func (m *mockMessageStore) CreateMessage(ctx context.Context, params repository.CreateMessageParams) (repository.Message, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(repository.Message), args.Error(1)
}

func (m *mockMessageStore) ListByConversation(ctx context.Context, conversationID string) ([]repository.Message, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]repository.Message), args.Error(1)
}

func (m *mockMessageStore) MarkRead(ctx context.Context, conversationID string, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageStore) UpsertConversation(ctx context.Context, params repository.UpsertConversationParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockMessageStore) ListConversations(ctx context.Context, userID uuid.UUID) ([]repository.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]repository.ConversationSummary), args.Error(1)
}

type capturingPublisher struct {
	published []Message
}

func (p *capturingPublisher) PublishMessage(_ context.Context, msg Message) error {
	p.published = append(p.published, msg)
	return nil
}

func TestSendMessage(t *testing.T) {
	sender := uuid.New()
	recipient := uuid.New()
	wantConvID := MustConversationID(sender.String(), recipient.String())
	now := time.Now().UTC()

	store := new(mockMessageStore)
	store.On("CreateMessage", mock.Anything, mock.MatchedBy(func(p repository.CreateMessageParams) bool {
		return p.ConversationID == wantConvID && p.SenderID == sender && p.RecipientID == recipient && p.Content == "hi"
	})).Return(repository.Message{
		MessageID:      uuid.New(),
		ConversationID: wantConvID,
		SenderID:       sender,
		RecipientID:    recipient,
		Content:        "hi",
		Read:           false,
		CreatedAt:      now,
	}, nil)
	store.On("UpsertConversation", mock.Anything, mock.MatchedBy(func(p repository.UpsertConversationParams) bool {
		return p.ConversationID == wantConvID &&
			p.ParticipantA.String() < p.ParticipantB.String() &&
			p.LastMessage == "hi" && p.LastMessageAt.Equal(now)
	})).Return(nil)

	events := &capturingPublisher{}
	svc := NewService(store, events, zerolog.Nop())

	msg, err := svc.SendMessage(context.Background(), SendRequest{
		SenderID:    sender,
		RecipientID: recipient,
		Content:     "hi",
	})

	assert.NoError(t, err)
	assert.Equal(t, wantConvID, msg.ConversationID)
	assert.False(t, msg.Read)
	assert.Len(t, events.published, 1)
	store.AssertExpectations(t)
}

func TestSendMessageValidation(t *testing.T) {
	svc := NewService(new(mockMessageStore), nil, zerolog.Nop())
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := svc.SendMessage(ctx, SendRequest{SenderID: uuid.Nil, RecipientID: b, Content: "hi"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.SendMessage(ctx, SendRequest{SenderID: a, RecipientID: a, Content: "hi"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.SendMessage(ctx, SendRequest{SenderID: a, RecipientID: b})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSendMessageAttachmentsOnly(t *testing.T) {
	sender := uuid.New()
	recipient := uuid.New()

	store := new(mockMessageStore)
	store.On("CreateMessage", mock.Anything, mock.Anything).Return(repository.Message{
		MessageID:   uuid.New(),
		SenderID:    sender,
		RecipientID: recipient,
		Attachments: []string{"audio/clip.mp3"},
		CreatedAt:   time.Now().UTC(),
	}, nil)
	store.On("UpsertConversation", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, nil, zerolog.Nop())
	msg, err := svc.SendMessage(context.Background(), SendRequest{
		SenderID:    sender,
		RecipientID: recipient,
		Attachments: []string{"audio/clip.mp3"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"audio/clip.mp3"}, msg.Attachments)
}

func TestGetConversationMessagesUnreadAfterSend(t *testing.T) {
	sender := uuid.New()
	recipient := uuid.New()
	convID := MustConversationID(sender.String(), recipient.String())

	store := new(mockMessageStore)
	store.On("ListByConversation", mock.Anything, convID).Return([]repository.Message{
		{
			MessageID:      uuid.New(),
			ConversationID: convID,
			SenderID:       sender,
			RecipientID:    recipient,
			Content:        "hi",
			Read:           false,
			CreatedAt:      time.Now().UTC(),
		},
	}, nil)

	svc := NewService(store, nil, zerolog.Nop())

	// Argument order must not matter.
	messages, err := svc.GetConversationMessages(context.Background(), recipient, sender)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)
	assert.False(t, messages[0].Read)
	assert.Equal(t, convID, messages[0].ConversationID)
}

func TestGetConversationMessagesEmpty(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	convID := MustConversationID(a.String(), b.String())

	store := new(mockMessageStore)
	store.On("ListByConversation", mock.Anything, convID).Return([]repository.Message{}, nil)

	svc := NewService(store, nil, zerolog.Nop())
	messages, err := svc.GetConversationMessages(context.Background(), a, b)

	assert.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMarkMessagesAsReadIdempotent(t *testing.T) {
	user := uuid.New()
	convID := "a_b"

	store := new(mockMessageStore)
	store.On("MarkRead", mock.Anything, convID, user).Return(int64(3), nil).Once()
	store.On("MarkRead", mock.Anything, convID, user).Return(int64(0), nil).Once()

	svc := NewService(store, nil, zerolog.Nop())

	flipped, err := svc.MarkMessagesAsRead(context.Background(), convID, user)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), flipped)

	flipped, err = svc.MarkMessagesAsRead(context.Background(), convID, user)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), flipped)
	store.AssertExpectations(t)
}

func TestMarkMessagesAsReadValidation(t *testing.T) {
	svc := NewService(new(mockMessageStore), nil, zerolog.Nop())

	_, err := svc.MarkMessagesAsRead(context.Background(), "", uuid.New())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.MarkMessagesAsRead(context.Background(), "a_b", uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListConversationsPeer(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	a, b := me, other
	if a.String() > b.String() {
		a, b = b, a
	}

	store := new(mockMessageStore)
	store.On("ListConversations", mock.Anything, me).Return([]repository.ConversationSummary{
		{
			Conversation: repository.Conversation{
				ConversationID: MustConversationID(me.String(), other.String()),
				ParticipantA:   a,
				ParticipantB:   b,
				LastMessage:    "see you in class",
				LastMessageAt:  time.Now().UTC(),
			},
			UnreadCount: 2,
		},
	}, nil)

	svc := NewService(store, nil, zerolog.Nop())
	summaries, err := svc.ListConversations(context.Background(), me)

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, other, summaries[0].Peer(me))
	assert.Equal(t, 2, summaries[0].UnreadCount)
}
