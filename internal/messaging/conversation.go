package messaging

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParticipants is returned when a conversation id is requested for
// fewer than two non-empty participant ids.
var ErrInvalidParticipants = errors.New("conversation requires two participant ids")

const conversationSeparator = "_"

// ConversationID derives the canonical id for the two-party conversation
// between a and b: the ids sorted lexicographically, joined with "_". The
// result is the same regardless of argument order.
func ConversationID(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", ErrInvalidParticipants
	}
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + conversationSeparator + b, nil
}

// MustConversationID panics on malformed input. For tests and callers that
// have already validated the ids.
func MustConversationID(a, b string) string {
	id, err := ConversationID(a, b)
	if err != nil {
		panic(fmt.Sprintf("conversation id %q/%q: %v", a, b, err))
	}
	return id
}
