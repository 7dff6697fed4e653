package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/db/repository"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Store is the persistence seam for the catalog.
// *repository.CourseRepository satisfies it.
type Store interface {
	Create(ctx context.Context, params repository.CreateCourseParams) (repository.Course, error)
	GetByID(ctx context.Context, courseID uuid.UUID) (repository.Course, error)
	ListPublished(ctx context.Context) ([]repository.Course, error)
	Enroll(ctx context.Context, courseID, userID uuid.UUID) (repository.Enrollment, error)
	ListEnrollments(ctx context.Context, userID uuid.UUID) ([]repository.Enrollment, error)
}

// Course is a catalog entry.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Level       string    `json:"level"`
	TeacherID   uuid.UUID `json:"teacher_id"`
	Published   bool      `json:"published"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID       uuid.UUID `json:"id"`
	CourseID uuid.UUID `json:"course_id"`
	UserID   uuid.UUID `json:"user_id"`
}

// Service manages the course catalog and enrollment.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates the catalog service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateCourse persists a new course owned by teacherID.
func (s *Service) CreateCourse(ctx context.Context, c Course, teacherID uuid.UUID) (Course, error) {
	if c.Title == "" || c.Language == "" {
		return Course{}, fmt.Errorf("%w: title and language required", ErrInvalidArgument)
	}

	row, err := s.store.Create(ctx, repository.CreateCourseParams{
		Title:       c.Title,
		Description: c.Description,
		Language:    c.Language,
		Level:       c.Level,
		TeacherID:   teacherID,
		Published:   true,
	})
	if err != nil {
		return Course{}, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info().Str("course_id", row.CourseID.String()).Msg("course created")
	return courseFromRow(row), nil
}

// GetCourse fetches a course by id.
func (s *Service) GetCourse(ctx context.Context, courseID uuid.UUID) (Course, error) {
	row, err := s.store.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Course{}, ErrCourseNotFound
		}
		return Course{}, fmt.Errorf("get course: %w", err)
	}
	return courseFromRow(row), nil
}

// ListCourses returns the published catalog.
func (s *Service) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := s.store.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courses := make([]Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, courseFromRow(row))
	}
	return courses, nil
}

// Enroll records a student's enrollment in a course. Enrolling twice is a
// no-op returning the existing record.
func (s *Service) Enroll(ctx context.Context, courseID, userID uuid.UUID) (Enrollment, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return Enrollment{}, err
	}

	row, err := s.store.Enroll(ctx, courseID, userID)
	if err != nil {
		return Enrollment{}, fmt.Errorf("enroll: %w", err)
	}

	s.logger.Info().
		Str("course_id", courseID.String()).
		Str("user_id", userID.String()).
		Msg("student enrolled")
	return Enrollment{ID: row.EnrollmentID, CourseID: row.CourseID, UserID: row.UserID}, nil
}

// ListEnrollments returns the user's enrollments.
func (s *Service) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	rows, err := s.store.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	enrollments := make([]Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, Enrollment{
			ID:       row.EnrollmentID,
			CourseID: row.CourseID,
			UserID:   row.UserID,
		})
	}
	return enrollments, nil
}

func courseFromRow(row repository.Course) Course {
	return Course{
		ID:          row.CourseID,
		Title:       row.Title,
		Description: row.Description,
		Language:    row.Language,
		Level:       row.Level,
		TeacherID:   row.TeacherID,
		Published:   row.Published,
	}
}
