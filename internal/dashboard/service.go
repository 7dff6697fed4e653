package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fluentora/backend/internal/auth"
)

// Counters is the store seam for aggregate statistics. The repositories
// satisfy its pieces; see app wiring.
type Counters interface {
	CountByRole(ctx context.Context, role string) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
	CountAttempts(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

// Stats is the teacher/admin dashboard aggregate.
type Stats struct {
	Students          int64 `json:"students"`
	Teachers          int64 `json:"teachers"`
	Courses           int64 `json:"courses"`
	AttemptsSubmitted int64 `json:"attempts_submitted"`
	UnreadMessages    int64 `json:"unread_messages"`
}

// Service loads dashboard statistics.
type Service struct {
	counters Counters
	logger   zerolog.Logger
}

// NewService creates the dashboard service.
func NewService(counters Counters, logger zerolog.Logger) *Service {
	return &Service{counters: counters, logger: logger}
}

// Load fans the count queries out concurrently and waits for all of them.
// One failure fails the whole aggregate; partial results are discarded.
func (s *Service) Load(ctx context.Context) (Stats, error) {
	var stats Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.counters.CountByRole(gctx, auth.RoleStudent)
		stats.Students = n
		return err
	})
	g.Go(func() error {
		n, err := s.counters.CountByRole(gctx, auth.RoleTeacher)
		stats.Teachers = n
		return err
	})
	g.Go(func() error {
		n, err := s.counters.CountPublished(gctx)
		stats.Courses = n
		return err
	})
	g.Go(func() error {
		n, err := s.counters.CountAttempts(gctx)
		stats.AttemptsSubmitted = n
		return err
	})
	g.Go(func() error {
		n, err := s.counters.CountUnread(gctx)
		stats.UnreadMessages = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}
