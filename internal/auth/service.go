package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/auth/jwt"
	"github.com/fluentora/backend/internal/db/repository"
)

// UserStore is the persistence seam for accounts. *repository.UserRepository
// satisfies it.
type UserStore interface {
	Create(ctx context.Context, params repository.CreateUserParams) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (repository.User, error)
	UpdateLogin(ctx context.Context, userID uuid.UUID) error
}

// Service handles authentication and account management.
type Service struct {
	users    UserStore
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
}

// NewService creates an authentication service.
func NewService(users UserStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		logger:   logger,
	}
}

// Register creates a new student account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *TokenPair, error) {
	if req.Email == "" {
		return nil, nil, fmt.Errorf("email required")
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, fmt.Errorf("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	row, err := s.users.Create(ctx, repository.CreateUserParams{
		Email:        &req.Email,
		PasswordHash: &passwordHash,
		DisplayName:  req.DisplayName,
		Role:         RoleStudent,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	user := userFromRow(row)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("email", req.Email).Msg("user registered")
	return &user, tokens, nil
}

// Login authenticates a user with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	row, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	if row.PasswordHash == nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}
	if err := VerifyPassword(*row.PasswordHash, req.Password); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	user := userFromRow(row)
	_ = s.users.UpdateLogin(ctx, user.ID)

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*User, *TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid refresh token")
	}

	row, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	user := userFromRow(row)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &user, tokens, nil
}

// LoginWithOAuth resolves an OAuth identity to an account, creating a
// student account on first login.
func (s *Service) LoginWithOAuth(ctx context.Context, provider string, info *OAuthUserInfo) (*User, *TokenPair, error) {
	if info.Email == "" {
		return nil, nil, fmt.Errorf("oauth identity has no email")
	}

	row, err := s.users.GetByEmail(ctx, info.Email)
	if errors.Is(err, repository.ErrNotFound) {
		row, err = s.users.Create(ctx, repository.CreateUserParams{
			Email:         &info.Email,
			DisplayName:   info.Name,
			Role:          RoleStudent,
			AvatarURL:     optional(info.AvatarURL),
			OAuthProvider: &provider,
			OAuthSubject:  &info.ProviderID,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create oauth user: %w", err)
		}
		s.logger.Info().Str("user_id", row.UserID.String()).Str("provider", provider).Msg("oauth user created")
	} else if err != nil {
		return nil, nil, fmt.Errorf("lookup email: %w", err)
	}

	user := userFromRow(row)
	_ = s.users.UpdateLogin(ctx, user.ID)

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &user, tokens, nil
}

// GetUser fetches the profile for /users/me.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	row, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	user := userFromRow(row)
	return &user, nil
}

// ValidateToken verifies an access token and returns its claims.
func (s *Service) ValidateToken(token string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(token)
}

func (s *Service) generateTokenPair(user User) (*TokenPair, error) {
	tokenUser := jwt.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}

	access, err := s.tokenMgr.GenerateAccessToken(tokenUser)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokenMgr.GenerateRefreshToken(tokenUser)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func userFromRow(row repository.User) User {
	return User{
		ID:          row.UserID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Role:        row.Role,
		AvatarURL:   row.AvatarURL,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
