package dashboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/db/repository"
	httperrors "github.com/fluentora/backend/pkg/http/errors"
)

// RepoCounters adapts the repositories to the Counters seam.
type RepoCounters struct {
	Users    *repository.UserRepository
	Courses  *repository.CourseRepository
	Quizzes  *repository.QuizRepository
	Messages *repository.MessageRepository
}

var _ Counters = RepoCounters{}

func (c RepoCounters) CountByRole(ctx context.Context, role string) (int64, error) {
	return c.Users.CountByRole(ctx, role)
}

func (c RepoCounters) CountPublished(ctx context.Context) (int64, error) {
	return c.Courses.CountPublished(ctx)
}

func (c RepoCounters) CountAttempts(ctx context.Context) (int64, error) {
	return c.Quizzes.CountAttempts(ctx)
}

func (c RepoCounters) CountUnread(ctx context.Context) (int64, error) {
	return c.Messages.CountUnread(ctx)
}

// Handler provides the dashboard stats endpoint.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHandler creates dashboard HTTP handlers.
func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// GetStats handles GET /v1/dashboard/stats (teacher/admin)
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Load(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("load stats failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeStatsFetchFailed, "Failed to load statistics")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
