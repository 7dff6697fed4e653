package ws

import "encoding/json"

// MessageType constants for the inbox WebSocket protocol.
const (
	// Client -> Server
	TypeMarkRead = "mark_read"
	TypePing     = "ping"

	// Server -> Client
	TypeMessageNew       = "message_new"
	TypeConversationRead = "conversation_read"
	TypeError            = "error"
	TypePong             = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client messages (incoming)

type MarkReadPayload struct {
	ConversationID string `json:"conversation_id"`
}

// Server messages (outgoing)

type MessageNewPayload struct {
	MessageID      string   `json:"message_id"`
	ConversationID string   `json:"conversation_id"`
	SenderID       string   `json:"sender_id"`
	RecipientID    string   `json:"recipient_id"`
	Content        string   `json:"content"`
	CourseID       string   `json:"course_id,omitempty"`
	Attachments    []string `json:"attachments,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

type ConversationReadPayload struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is a protocol-level error usable as a Go error value.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}
