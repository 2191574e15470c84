package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Update applies fn to the user the expectation returns, mimicking the
// real repository.
func (m *MockUserRepository) Update(ctx context.Context, id string, fn func(user *models.User) error) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user := *args.Get(0).(*models.User)
	if err := fn(&user); err != nil {
		return nil, err
	}
	return &user, args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func newMockedAuthService(userRepo repositories.UserRepository) (*services.AuthService, repositories.SessionRepository) {
	store := repositories.NewMemoryRecordStore()
	sessions := repositories.NewRecordSessionRepository(store)
	notifications := services.NewNotificationService(repositories.NewRecordNotificationRepository(store, "storefront"))
	auth := services.NewAuthService(userRepo, sessions, repositories.NewRecordCartRepository(store), notifications, testJWTSecret)
	return auth, sessions
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService, sessions := newMockedAuthService(mockRepo)

	user := &models.User{
		ID:       "user-123",
		Name:     "Test User",
		Email:    "test@example.com",
		Password: hashPassword(t, "password123"),
		Status:   models.UserStatusActive,
	}

	// Test successful login
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("Update", ctx, user.ID).Return(user, nil).Once()

	session, err := authService.Login(ctx, "client-1", services.LoginRequest{Email: user.Email, Password: "password123"})
	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated)
	assert.Empty(t, session.CurrentUser.Password)
	assert.False(t, session.CurrentUser.LastLogin.IsZero())
	assert.NotEmpty(t, session.Token)
	mockRepo.AssertExpectations(t)

	// Validate the token structure
	parsedToken, err := jwt.Parse(session.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "client-1", claims["client_id"])

	stored, err := sessions.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, stored.IsAuthenticated)
	assert.Equal(t, user.ID, stored.CurrentUser.ID)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err = authService.Login(ctx, "client-2", services.LoginRequest{Email: user.Email, Password: "wrongpassword"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperrors.NotFound("user", "nobody@example.com")).Once()
	_, err = authService.Login(ctx, "client-2", services.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test missing fields
	_, err = authService.Login(ctx, "client-2", services.LoginRequest{Email: user.Email})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	untouched, err := sessions.Get(ctx, "client-2")
	require.NoError(t, err)
	assert.False(t, untouched.IsAuthenticated)
}

func TestAuthService_LoginSuspended(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService, sessions := newMockedAuthService(mockRepo)

	suspended := &models.User{
		ID:       "user-9",
		Email:    "banned@example.com",
		Password: hashPassword(t, "secret"),
		Status:   models.UserStatusSuspended,
	}
	mockRepo.On("GetByEmail", ctx, suspended.Email).Return(suspended, nil).Once()

	_, err := authService.Login(ctx, "client-1", services.LoginRequest{Email: suspended.Email, Password: "secret"})
	assert.ErrorIs(t, err, apperrors.ErrAccountSuspended)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	// lastLogin is never recorded for a suspended account.
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	session, err := sessions.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, session.IsAuthenticated)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService, _ := newMockedAuthService(mockRepo)

	req := services.SignupRequest{
		Name:            "New User",
		Email:           "new@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}

	// Test successful registration
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*models.User)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")))
		assert.Equal(t, models.UserStatusActive, u.Status)
		u.ID = "1700000000000"
	}).Return(nil).Once()

	session, err := authService.Signup(ctx, "client-1", req)
	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated)
	assert.Equal(t, "1700000000000", session.CurrentUser.ID)
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(apperrors.ErrEmailTaken).Once()
	_, err = authService.Signup(ctx, "client-2", req)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Test password mismatch never reaches the repository
	mismatch := req
	mismatch.ConfirmPassword = "different"
	_, err = authService.Signup(ctx, "client-2", mismatch)
	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)

	// Test missing fields
	_, err = authService.Signup(ctx, "client-2", services.SignupRequest{Name: "x"})
	require.Error(t, err)
	var se *apperrors.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, apperrors.ErrValidation, se.Code)
	assert.Contains(t, se.Fields, "Email")
	mockRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService, _ := newMockedAuthService(new(MockUserRepository))

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   "user-123",
		"client_id": "client-1",
		"exp":       jwt.TimeFunc().Add(time.Hour).Unix(), // Expires in 1 hour
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "client-1", claims["client_id"])

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test wrong secret
	forged, _ := token.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(forged)
	assert.Error(t, err)

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService, sessions := newMockedAuthService(mockRepo)

	user := &models.User{ID: "user-1", Name: "Old", Email: "old@example.com", Phone: "0550"}
	require.NoError(t, sessions.Save(ctx, models.AuthSession{
		IsAuthenticated: true,
		CurrentUser:     &models.User{ID: user.ID, Name: user.Name, Email: user.Email},
		ClientID:        "client-1",
	}))

	mockRepo.On("Update", ctx, user.ID).Return(user, nil).Once()
	name := "New"
	updated, err := authService.UpdateProfile(ctx, "client-1", user.ID, services.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "0550", updated.Phone)
	assert.False(t, updated.UpdatedAt.IsZero())

	session, err := sessions.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "New", session.CurrentUser.Name)

	empty := ""
	_, err = authService.UpdateProfile(ctx, "client-1", user.ID, services.ProfileUpdate{Email: &empty})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	mockRepo.AssertExpectations(t)
}
