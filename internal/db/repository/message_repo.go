package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRepository contains DB helpers for messages and conversation
// summaries.
type MessageRepository struct {
	db DBTX
}

// NewMessageRepository constructs a message repository.
func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `message_id, conversation_id, sender_id, recipient_id, course_id, content, attachments, read, created_at`

// CreateMessageParams holds the fields of an outgoing message.
type CreateMessageParams struct {
	ConversationID string
	SenderID       uuid.UUID
	RecipientID    uuid.UUID
	CourseID       *uuid.UUID
	Content        string
	Attachments    []string
}

// CreateMessage inserts a message with read=false.
func (r *MessageRepository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	var m Message
	err := r.db.QueryRow(ctx, `
INSERT INTO messages (message_id, conversation_id, sender_id, recipient_id, course_id, content, attachments, read)
VALUES ($1, $2, $3, $4, $5, $6, $7, false)
RETURNING `+messageColumns,
		uuid.New(), params.ConversationID, params.SenderID, params.RecipientID,
		params.CourseID, params.Content, params.Attachments,
	).Scan(&m.MessageID, &m.ConversationID, &m.SenderID, &m.RecipientID,
		&m.CourseID, &m.Content, &m.Attachments, &m.Read, &m.CreatedAt)
	return m, err
}

// ListByConversation returns all messages of a conversation, oldest first.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+messageColumns+` FROM messages
WHERE conversation_id = $1
ORDER BY created_at`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.MessageID, &m.ConversationID, &m.SenderID, &m.RecipientID,
			&m.CourseID, &m.Content, &m.Attachments, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead flips read=true on every unread message addressed to userID in
// the conversation. Re-running it is a no-op.
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID string, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
UPDATE messages SET read = true
WHERE conversation_id = $1 AND recipient_id = $2 AND NOT read`,
		conversationID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpsertConversationParams refreshes a conversation summary after a send.
type UpsertConversationParams struct {
	ConversationID string
	ParticipantA   uuid.UUID
	ParticipantB   uuid.UUID
	LastMessage    string
	LastMessageAt  time.Time
}

// UpsertConversation creates or refreshes the summary row keyed by the
// derived conversation id.
func (r *MessageRepository) UpsertConversation(ctx context.Context, params UpsertConversationParams) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO conversations (conversation_id, participant_a, participant_b, last_message, last_message_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (conversation_id)
DO UPDATE SET last_message = EXCLUDED.last_message,
              last_message_at = EXCLUDED.last_message_at,
              updated_at = now()`,
		params.ConversationID, params.ParticipantA, params.ParticipantB,
		params.LastMessage, params.LastMessageAt)
	return err
}

// ListConversations returns a user's conversation summaries with unread
// counts, most recent activity first.
func (r *MessageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	rows, err := r.db.Query(ctx, `
SELECT c.conversation_id, c.participant_a, c.participant_b, c.last_message, c.last_message_at, c.updated_at,
       count(m.message_id) FILTER (WHERE m.recipient_id = $1 AND NOT m.read) AS unread
FROM conversations c
LEFT JOIN messages m ON m.conversation_id = c.conversation_id
WHERE c.participant_a = $1 OR c.participant_b = $1
GROUP BY c.conversation_id, c.participant_a, c.participant_b, c.last_message, c.last_message_at, c.updated_at
ORDER BY c.last_message_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ConversationSummary
	for rows.Next() {
		var s ConversationSummary
		if err := rows.Scan(&s.ConversationID, &s.ParticipantA, &s.ParticipantB,
			&s.LastMessage, &s.LastMessageAt, &s.UpdatedAt, &s.UnreadCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CountUnread returns the number of unread messages across the platform.
func (r *MessageRepository) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM messages WHERE NOT read`).Scan(&n)
	return n, err
}
