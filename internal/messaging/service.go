package messaging

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/db/repository"
	"github.com/fluentora/backend/internal/metrics"
)

// Store is the persistence seam for messages and conversation summaries.
// *repository.MessageRepository satisfies it.
type Store interface {
	CreateMessage(ctx context.Context, params repository.CreateMessageParams) (repository.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]repository.Message, error)
	MarkRead(ctx context.Context, conversationID string, userID uuid.UUID) (int64, error)
	UpsertConversation(ctx context.Context, params repository.UpsertConversationParams) error
	ListConversations(ctx context.Context, userID uuid.UUID) ([]repository.ConversationSummary, error)
}

// EventPublisher fans a persisted message out to the live feed. Publish
// failures must not fail the send; delivery is best effort on top of the
// durable write.
type EventPublisher interface {
	PublishMessage(ctx context.Context, msg Message) error
}

// SendRequest carries the inputs of SendMessage.
type SendRequest struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Content     string
	CourseID    *uuid.UUID
	Attachments []string
}

// Service implements conversation addressing and read-state tracking.
type Service struct {
	store  Store
	events EventPublisher
	logger zerolog.Logger
}

// NewService creates the messaging service. events may be nil.
func NewService(store Store, events EventPublisher, logger zerolog.Logger) *Service {
	return &Service{store: store, events: events, logger: logger}
}

// SendMessage persists the message and refreshes the conversation summary.
// The two writes are sequential, not transactional: a crash in between
// leaves the summary stale until the next send. See DESIGN.md.
func (s *Service) SendMessage(ctx context.Context, req SendRequest) (Message, error) {
	if req.SenderID == uuid.Nil || req.RecipientID == uuid.Nil {
		return Message{}, fmt.Errorf("%w: sender and recipient required", ErrInvalidArgument)
	}
	if req.SenderID == req.RecipientID {
		return Message{}, fmt.Errorf("%w: cannot message yourself", ErrInvalidArgument)
	}
	if req.Content == "" && len(req.Attachments) == 0 {
		return Message{}, fmt.Errorf("%w: empty message", ErrInvalidArgument)
	}

	conversationID, err := ConversationID(req.SenderID.String(), req.RecipientID.String())
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	row, err := s.store.CreateMessage(ctx, repository.CreateMessageParams{
		ConversationID: conversationID,
		SenderID:       req.SenderID,
		RecipientID:    req.RecipientID,
		CourseID:       req.CourseID,
		Content:        req.Content,
		Attachments:    req.Attachments,
	})
	if err != nil {
		return Message{}, fmt.Errorf("create message: %w", err)
	}

	a, b := req.SenderID, req.RecipientID
	if a.String() > b.String() {
		a, b = b, a
	}
	err = s.store.UpsertConversation(ctx, repository.UpsertConversationParams{
		ConversationID: conversationID,
		ParticipantA:   a,
		ParticipantB:   b,
		LastMessage:    req.Content,
		LastMessageAt:  row.CreatedAt,
	})
	if err != nil {
		return Message{}, fmt.Errorf("upsert conversation: %w", err)
	}

	msg := messageFromRow(row)

	if s.events != nil {
		if err := s.events.PublishMessage(ctx, msg); err != nil {
			s.logger.Warn().Err(err).
				Str("message_id", msg.ID.String()).
				Msg("message event publish failed")
		}
	}

	metrics.MessagesSent.Inc()
	s.logger.Info().
		Str("message_id", msg.ID.String()).
		Str("conversation_id", conversationID).
		Msg("message sent")
	return msg, nil
}

// GetConversationMessages returns the messages between a and b, oldest
// first. An unknown pair yields an empty slice, not an error.
func (s *Service) GetConversationMessages(ctx context.Context, a, b uuid.UUID) ([]Message, error) {
	conversationID, err := ConversationID(a.String(), b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	rows, err := s.store.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	messages := make([]Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, messageFromRow(row))
	}
	return messages, nil
}

// MarkMessagesAsRead flips every unread message addressed to userID in the
// conversation to read. Idempotent: a second call changes nothing.
func (s *Service) MarkMessagesAsRead(ctx context.Context, conversationID string, userID uuid.UUID) (int64, error) {
	if conversationID == "" || userID == uuid.Nil {
		return 0, fmt.Errorf("%w: conversation id and user id required", ErrInvalidArgument)
	}

	flipped, err := s.store.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	if flipped > 0 {
		metrics.MessagesMarkedRead.Add(float64(flipped))
	}
	return flipped, nil
}

// ListConversations returns the caller's conversation summaries, newest
// activity first.
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidArgument)
	}

	rows, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	summaries := make([]ConversationSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ConversationSummary{
			ConversationID: row.ConversationID,
			ParticipantA:   row.ParticipantA,
			ParticipantB:   row.ParticipantB,
			LastMessage:    row.LastMessage,
			LastMessageAt:  row.LastMessageAt,
			UnreadCount:    row.UnreadCount,
		})
	}
	return summaries, nil
}

func messageFromRow(row repository.Message) Message {
	return Message{
		ID:             row.MessageID,
		ConversationID: row.ConversationID,
		SenderID:       row.SenderID,
		RecipientID:    row.RecipientID,
		CourseID:       row.CourseID,
		Content:        row.Content,
		Attachments:    row.Attachments,
		Read:           row.Read,
		CreatedAt:      row.CreatedAt,
	}
}
