package repository

import (
	"time"

	"github.com/google/uuid"
)

// User is a row in the users table.
type User struct {
	UserID        uuid.UUID
	Email         *string
	PasswordHash  *string
	DisplayName   string
	Role          string
	AvatarURL     *string
	OAuthProvider *string
	OAuthSubject  *string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
}

// Course is a row in the courses table.
type Course struct {
	CourseID    uuid.UUID
	Title       string
	Description string
	Language    string
	Level       string
	TeacherID   uuid.UUID
	Published   bool
	CreatedAt   time.Time
}

// Enrollment is a row in the enrollments table.
type Enrollment struct {
	EnrollmentID uuid.UUID
	CourseID     uuid.UUID
	UserID       uuid.UUID
	EnrolledAt   time.Time
}

// Quiz is a row in the quizzes table. Questions is the raw JSONB question
// list; the quiz package owns its schema.
type Quiz struct {
	QuizID           uuid.UUID
	CourseID         uuid.UUID
	Title            string
	PassingScore     float64
	TimeLimitSeconds int
	Questions        []byte
	Published        bool
	CreatedAt        time.Time
}

// QuizAttempt is a row in the quiz_attempts table. Answers is raw JSONB.
type QuizAttempt struct {
	AttemptID   uuid.UUID
	QuizID      uuid.UUID
	UserID      uuid.UUID
	StartedAt   time.Time
	CompletedAt *time.Time
	Answers     []byte
	Score       int
	MaxScore    int
	Passed      bool
}

// Message is a row in the messages table.
type Message struct {
	MessageID      uuid.UUID
	ConversationID string
	SenderID       uuid.UUID
	RecipientID    uuid.UUID
	CourseID       *uuid.UUID
	Content        string
	Attachments    []string
	Read           bool
	CreatedAt      time.Time
}

// Conversation is a row in the conversations table. Participants are stored
// in lexicographic order, matching the derived conversation id.
type Conversation struct {
	ConversationID string
	ParticipantA   uuid.UUID
	ParticipantB   uuid.UUID
	LastMessage    string
	LastMessageAt  time.Time
	UpdatedAt      time.Time
}

// ConversationSummary is a conversation joined with the caller's unread count.
type ConversationSummary struct {
	Conversation
	UnreadCount int
}
