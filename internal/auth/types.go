package auth

import (
	"github.com/google/uuid"
)

// Role constants. Registration always yields a student; teacher and admin
// roles are assigned out of band.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents an authenticated account.
type User struct {
	ID          uuid.UUID
	Email       *string
	DisplayName string
	Role        string
	AvatarURL   *string
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RegisterRequest for email/password registration.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// OAuthProvider constants.
const (
	OAuthProviderGoogle = "google"
)
