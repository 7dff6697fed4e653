package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/fluentora/backend/internal/auth"
)

type stubCounters struct {
	byRole    map[string]int64
	published int64
	attempts  int64
	unread    int64
	err       error
}

func (s stubCounters) CountByRole(_ context.Context, role string) (int64, error) {
	return s.byRole[role], s.err
}

func (s stubCounters) CountPublished(context.Context) (int64, error) {
	return s.published, s.err
}

func (s stubCounters) CountAttempts(context.Context) (int64, error) {
	return s.attempts, s.err
}

func (s stubCounters) CountUnread(context.Context) (int64, error) {
	return s.unread, s.err
}

func TestLoadStats(t *testing.T) {
	svc := NewService(stubCounters{
		byRole:    map[string]int64{auth.RoleStudent: 120, auth.RoleTeacher: 8},
		published: 14,
		attempts:  930,
		unread:    47,
	}, zerolog.Nop())

	stats, err := svc.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, Stats{
		Students:          120,
		Teachers:          8,
		Courses:           14,
		AttemptsSubmitted: 930,
		UnreadMessages:    47,
	}, stats)
}

func TestLoadStatsFailureDiscardsPartials(t *testing.T) {
	svc := NewService(stubCounters{
		byRole: map[string]int64{auth.RoleStudent: 120},
		err:    errors.New("connection refused"),
	}, zerolog.Nop())

	stats, err := svc.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Stats{}, stats)
}
