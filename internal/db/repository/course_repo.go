package repository

import (
	"context"

	"github.com/google/uuid"
)

// CourseRepository contains DB helpers for the course catalog.
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `course_id, title, description, language, level, teacher_id, published, created_at`

// CreateCourseParams holds the fields for a new course.
type CreateCourseParams struct {
	Title       string
	Description string
	Language    string
	Level       string
	TeacherID   uuid.UUID
	Published   bool
}

// Create inserts a course row.
func (r *CourseRepository) Create(ctx context.Context, params CreateCourseParams) (Course, error) {
	var c Course
	err := r.db.QueryRow(ctx, `
INSERT INTO courses (course_id, title, description, language, level, teacher_id, published)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+courseColumns,
		uuid.New(), params.Title, params.Description, params.Language,
		params.Level, params.TeacherID, params.Published,
	).Scan(&c.CourseID, &c.Title, &c.Description, &c.Language, &c.Level,
		&c.TeacherID, &c.Published, &c.CreatedAt)
	return c, err
}

// GetByID fetches a course by id.
func (r *CourseRepository) GetByID(ctx context.Context, courseID uuid.UUID) (Course, error) {
	var c Course
	err := r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE course_id = $1`, courseID).
		Scan(&c.CourseID, &c.Title, &c.Description, &c.Language, &c.Level,
			&c.TeacherID, &c.Published, &c.CreatedAt)
	return c, mapNoRows(err)
}

// ListPublished returns published courses, newest first.
func (r *CourseRepository) ListPublished(ctx context.Context) ([]Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE published ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.CourseID, &c.Title, &c.Description, &c.Language,
			&c.Level, &c.TeacherID, &c.Published, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Enroll records a student's enrollment. Enrolling twice is a no-op.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, userID uuid.UUID) (Enrollment, error) {
	var e Enrollment
	err := r.db.QueryRow(ctx, `
INSERT INTO enrollments (enrollment_id, course_id, user_id)
VALUES ($1, $2, $3)
ON CONFLICT (course_id, user_id)
DO UPDATE SET course_id = EXCLUDED.course_id
RETURNING enrollment_id, course_id, user_id, enrolled_at`,
		uuid.New(), courseID, userID,
	).Scan(&e.EnrollmentID, &e.CourseID, &e.UserID, &e.EnrolledAt)
	return e, err
}

// ListEnrollments returns a user's enrollments, newest first.
func (r *CourseRepository) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	rows, err := r.db.Query(ctx, `
SELECT enrollment_id, course_id, user_id, enrolled_at
FROM enrollments WHERE user_id = $1 ORDER BY enrolled_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.EnrollmentID, &e.CourseID, &e.UserID, &e.EnrolledAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// CountPublished returns the number of published courses.
func (r *CourseRepository) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM courses WHERE published`).Scan(&n)
	return n, err
}
