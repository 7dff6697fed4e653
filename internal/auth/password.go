package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooShort rejects passwords under the minimum length before any
// hashing work happens.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// Cost 12 keeps a single hash in the low hundreds of milliseconds, slow
// enough to blunt offline guessing without stalling login.
const (
	passwordMinLen = 8
	passwordCost   = 12
)

// HashPassword produces the bcrypt hash stored on the user row.
func HashPassword(password string) (string, error) {
	if len(password) < passwordMinLen {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a login attempt against the stored hash. A non-nil
// error means the credentials do not match.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
