package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fluentora/backend/internal/db/repository"
)

type mockCourseStore struct {
	mock.Mock
}

func (m *mockCourseStore) Create(ctx context.Context, params repository.CreateCourseParams) (repository.Course, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(repository.Course), args.Error(1)
}

func (m *mockCourseStore) GetByID(ctx context.Context, courseID uuid.UUID) (repository.Course, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(repository.Course), args.Error(1)
}

func (m *mockCourseStore) ListPublished(ctx context.Context) ([]repository.Course, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.Course), args.Error(1)
}

func (m *mockCourseStore) Enroll(ctx context.Context, courseID, userID uuid.UUID) (repository.Enrollment, error) {
	args := m.Called(ctx, courseID, userID)
	return args.Get(0).(repository.Enrollment), args.Error(1)
}

func (m *mockCourseStore) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]repository.Enrollment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]repository.Enrollment), args.Error(1)
}

func TestCreateCourseValidation(t *testing.T) {
	svc := NewService(new(mockCourseStore), zerolog.Nop())
	ctx := context.Background()
	teacherID := uuid.New()

	_, err := svc.CreateCourse(ctx, Course{Language: "es"}, teacherID)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateCourse(ctx, Course{Title: "Spanish A1"}, teacherID)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateCourse(t *testing.T) {
	teacherID := uuid.New()
	courseID := uuid.New()

	store := new(mockCourseStore)
	store.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreateCourseParams) bool {
		return p.Title == "Spanish A1" && p.TeacherID == teacherID && p.Published
	})).Return(repository.Course{
		CourseID:  courseID,
		Title:     "Spanish A1",
		Language:  "es",
		TeacherID: teacherID,
		Published: true,
	}, nil)

	svc := NewService(store, zerolog.Nop())
	course, err := svc.CreateCourse(context.Background(), Course{Title: "Spanish A1", Language: "es"}, teacherID)

	assert.NoError(t, err)
	assert.Equal(t, courseID, course.ID)
	store.AssertExpectations(t)
}

func TestGetCourseNotFound(t *testing.T) {
	courseID := uuid.New()

	store := new(mockCourseStore)
	store.On("GetByID", mock.Anything, courseID).Return(repository.Course{}, repository.ErrNotFound)

	svc := NewService(store, zerolog.Nop())
	_, err := svc.GetCourse(context.Background(), courseID)

	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestEnrollIdempotent(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()
	enrollmentID := uuid.New()

	store := new(mockCourseStore)
	store.On("GetByID", mock.Anything, courseID).Return(repository.Course{CourseID: courseID, Published: true}, nil)
	store.On("Enroll", mock.Anything, courseID, userID).Return(repository.Enrollment{
		EnrollmentID: enrollmentID,
		CourseID:     courseID,
		UserID:       userID,
	}, nil)

	svc := NewService(store, zerolog.Nop())

	first, err := svc.Enroll(context.Background(), courseID, userID)
	assert.NoError(t, err)

	second, err := svc.Enroll(context.Background(), courseID, userID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnrollMissingCourse(t *testing.T) {
	courseID := uuid.New()

	store := new(mockCourseStore)
	store.On("GetByID", mock.Anything, courseID).Return(repository.Course{}, repository.ErrNotFound)

	svc := NewService(store, zerolog.Nop())
	_, err := svc.Enroll(context.Background(), courseID, uuid.New())

	assert.ErrorIs(t, err, ErrCourseNotFound)
	store.AssertNotCalled(t, "Enroll", mock.Anything, mock.Anything, mock.Anything)
}
