package messaging

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Message is one entry of a two-party conversation. Created on send, mutated
// only to flip the read flag, never deleted in normal flow.
type Message struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	RecipientID    uuid.UUID  `json:"recipient_id"`
	CourseID       *uuid.UUID `json:"course_id,omitempty"`
	Content        string     `json:"content"`
	Attachments    []string   `json:"attachments,omitempty"`
	Read           bool       `json:"read"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ConversationSummary is the per-conversation digest shown in inbox lists.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	ParticipantA   uuid.UUID `json:"participant_a"`
	ParticipantB   uuid.UUID `json:"participant_b"`
	LastMessage    string    `json:"last_message"`
	LastMessageAt  time.Time `json:"last_message_at"`
	UnreadCount    int       `json:"unread_count"`
}

// Peer returns the other participant of a conversation.
func (c ConversationSummary) Peer(userID uuid.UUID) uuid.UUID {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}
