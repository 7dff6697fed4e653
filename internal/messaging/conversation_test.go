package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDCommutative(t *testing.T) {
	ab, err := ConversationID("u1", "u2")
	assert.NoError(t, err)

	ba, err := ConversationID("u2", "u1")
	assert.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.Equal(t, "u1_u2", ab)
}

func TestConversationIDLexicographic(t *testing.T) {
	id, err := ConversationID("zed", "alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice_zed", id)
}

func TestConversationIDInvalid(t *testing.T) {
	_, err := ConversationID("", "u2")
	assert.ErrorIs(t, err, ErrInvalidParticipants)

	_, err = ConversationID("u1", "")
	assert.ErrorIs(t, err, ErrInvalidParticipants)
}

func TestMustConversationIDPanics(t *testing.T) {
	assert.Panics(t, func() { MustConversationID("", "u2") })
	assert.Equal(t, "a_b", MustConversationID("b", "a"))
}
