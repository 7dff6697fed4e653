package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/auth"
	httperrors "github.com/fluentora/backend/pkg/http/errors"
)

// Handler provides REST endpoints for the catalog.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHandler creates catalog HTTP handlers.
func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// ListCourses handles GET /v1/courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.ListCourses(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list courses failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeCourseFetchFailed, "Failed to list courses")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"courses": courses})
}

// GetCourse handles GET /v1/courses/{id}
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid course id")
		return
	}

	course, err := h.svc.GetCourse(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeCourseNotFound, "Course not found")
			return
		}
		h.logger.Error().Err(err).Msg("get course failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeCourseFetchFailed, "Failed to load course")
		return
	}
	respondJSON(w, http.StatusOK, course)
}

type createCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Level       string `json:"level"`
}

// CreateCourse handles POST /v1/courses (teacher role)
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	course, err := h.svc.CreateCourse(r.Context(), Course{
		Title:       req.Title,
		Description: req.Description,
		Language:    req.Language,
		Level:       req.Level,
	}, auth.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("create course failed")
		httperrors.RespondInternalError(w, "Failed to create course")
		return
	}
	respondJSON(w, http.StatusCreated, course)
}

// Enroll handles POST /v1/courses/{id}/enroll
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid course id")
		return
	}

	enrollment, err := h.svc.Enroll(r.Context(), courseID, auth.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeCourseNotFound, "Course not found")
			return
		}
		h.logger.Error().Err(err).Msg("enroll failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeEnrollmentFailed, "Failed to enroll")
		return
	}
	respondJSON(w, http.StatusCreated, enrollment)
}

// ListEnrollments handles GET /v1/enrollments
func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.svc.ListEnrollments(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("list enrollments failed")
		httperrors.RespondInternalError(w, "Failed to list enrollments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"enrollments": enrollments})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
