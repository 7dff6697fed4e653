package repository

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository exposes typed DB operations required by auth flows.
type UserRepository struct {
	db DBTX
}

// NewUserRepository constructs a user repository over a pgx pool or tx.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUserParams holds the fields for a new account.
type CreateUserParams struct {
	Email         *string
	PasswordHash  *string
	DisplayName   string
	Role          string
	AvatarURL     *string
	OAuthProvider *string
	OAuthSubject  *string
}

const createUserSQL = `
INSERT INTO users (user_id, email, password_hash, display_name, role, avatar_url, oauth_provider, oauth_subject)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING user_id, email, password_hash, display_name, role, avatar_url, oauth_provider, oauth_subject, created_at, last_login_at`

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, createUserSQL,
		uuid.New(), params.Email, params.PasswordHash, params.DisplayName,
		params.Role, params.AvatarURL, params.OAuthProvider, params.OAuthSubject,
	).Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
		&u.AvatarURL, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.LastLoginAt)
	return u, err
}

const getUserSQL = `
SELECT user_id, email, password_hash, display_name, role, avatar_url, oauth_provider, oauth_subject, created_at, last_login_at
FROM users`

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, getUserSQL+` WHERE email = $1`, email).
		Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
			&u.AvatarURL, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.LastLoginAt)
	return u, mapNoRows(err)
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, getUserSQL+` WHERE user_id = $1`, userID).
		Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
			&u.AvatarURL, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.LastLoginAt)
	return u, mapNoRows(err)
}

// UpdateLogin records the last login timestamp.
func (r *UserRepository) UpdateLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE user_id = $1`, userID)
	return err
}

// CountByRole returns the number of users holding a role.
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, err
}
