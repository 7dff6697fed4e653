package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fluentora/backend/internal/auth/jwt"
	"github.com/fluentora/backend/internal/db/repository"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, params repository.CreateUserParams) (repository.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockUserStore) UpdateLogin(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func testService(store UserStore) *Service {
	return NewService(store, ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
	}, zerolog.Nop())
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, len(hash) > 20)
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("testpassword123")

	assert.NoError(t, VerifyPassword(hash, "testpassword123"))
	assert.Error(t, VerifyPassword(hash, "wrongpassword"))
}

func TestPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.Equal(t, ErrPasswordTooShort, err)
}

func TestServiceRegister(t *testing.T) {
	email := "student@example.com"

	store := new(mockUserStore)
	store.On("GetByEmail", mock.Anything, email).Return(repository.User{}, repository.ErrNotFound)
	store.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreateUserParams) bool {
		return p.Role == RoleStudent && p.Email != nil && *p.Email == email && p.PasswordHash != nil
	})).Return(repository.User{
		UserID:      uuid.New(),
		Email:       &email,
		DisplayName: "New Student",
		Role:        RoleStudent,
	}, nil)

	svc := testService(store)
	user, tokens, err := svc.Register(context.Background(), RegisterRequest{
		Email:       email,
		Password:    "testpassword123",
		DisplayName: "New Student",
	})

	assert.NoError(t, err)
	assert.Equal(t, RoleStudent, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	store.AssertExpectations(t)
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	email := "taken@example.com"

	store := new(mockUserStore)
	store.On("GetByEmail", mock.Anything, email).Return(repository.User{
		UserID: uuid.New(),
		Email:  &email,
	}, nil)

	svc := testService(store)
	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "testpassword123",
	})

	assert.Error(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestServiceLogin(t *testing.T) {
	email := "student@example.com"
	hash, _ := HashPassword("testpassword123")
	userID := uuid.New()

	store := new(mockUserStore)
	store.On("GetByEmail", mock.Anything, email).Return(repository.User{
		UserID:       userID,
		Email:        &email,
		PasswordHash: &hash,
		DisplayName:  "Student",
		Role:         RoleStudent,
	}, nil)
	store.On("UpdateLogin", mock.Anything, userID).Return(nil)

	svc := testService(store)
	user, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    email,
		Password: "testpassword123",
	})

	assert.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleStudent, claims.Role)
}

func TestServiceLoginWrongPassword(t *testing.T) {
	email := "student@example.com"
	hash, _ := HashPassword("testpassword123")

	store := new(mockUserStore)
	store.On("GetByEmail", mock.Anything, email).Return(repository.User{
		UserID:       uuid.New(),
		Email:        &email,
		PasswordHash: &hash,
	}, nil)

	svc := testService(store)
	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    email,
		Password: "wrongpassword",
	})

	assert.Error(t, err)
	store.AssertNotCalled(t, "UpdateLogin", mock.Anything, mock.Anything)
}

func TestServiceRefresh(t *testing.T) {
	email := "student@example.com"
	userID := uuid.New()
	row := repository.User{
		UserID:      userID,
		Email:       &email,
		DisplayName: "Student",
		Role:        RoleStudent,
	}
	hash, _ := HashPassword("testpassword123")
	row.PasswordHash = &hash

	store := new(mockUserStore)
	store.On("GetByEmail", mock.Anything, email).Return(row, nil)
	store.On("GetByID", mock.Anything, userID).Return(row, nil)
	store.On("UpdateLogin", mock.Anything, userID).Return(nil)

	svc := testService(store)
	_, tokens, err := svc.Login(context.Background(), LoginRequest{Email: email, Password: "testpassword123"})
	assert.NoError(t, err)

	user, fresh, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NotEmpty(t, fresh.AccessToken)

	// An access token is not a valid refresh token.
	_, _, err = svc.Refresh(context.Background(), RefreshRequest{RefreshToken: tokens.AccessToken})
	assert.Error(t, err)
}

func TestServiceLoginWithOAuthCreatesStudent(t *testing.T) {
	email := "oauth@example.com"

	store := new(mockUserStore)
	store.On("GetByEmail", mock.Anything, email).Return(repository.User{}, repository.ErrNotFound)
	store.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreateUserParams) bool {
		return p.Role == RoleStudent && p.OAuthProvider != nil && *p.OAuthProvider == OAuthProviderGoogle
	})).Return(repository.User{
		UserID:      uuid.New(),
		Email:       &email,
		DisplayName: "OAuth User",
		Role:        RoleStudent,
	}, nil)
	store.On("UpdateLogin", mock.Anything, mock.Anything).Return(nil)

	svc := testService(store)
	user, tokens, err := svc.LoginWithOAuth(context.Background(), OAuthProviderGoogle, &OAuthUserInfo{
		ProviderID: "google-123",
		Email:      email,
		Name:       "OAuth User",
	})

	assert.NoError(t, err)
	assert.Equal(t, RoleStudent, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	store.AssertExpectations(t)
}
