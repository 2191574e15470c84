package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignupRequest is the signup form.
type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate carries the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Name    *string `json:"name" validate:"omitnil,min=1"`
	Email   *string `json:"email" validate:"omitnil,min=1"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// AuthService owns the authenticated-user slice of each client's state.
type AuthService struct {
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	cartRepo      repositories.CartRepository
	notifications *NotificationService
	validate      *validator.Validate
	jwtSecret     []byte
	tokenDurat    time.Duration // Duration for which JWT is valid
	now           func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	cartRepo repositories.CartRepository,
	notifications *NotificationService,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		cartRepo:      cartRepo,
		notifications: notifications,
		validate:      validator.New(),
		jwtSecret:     []byte(jwtSecret),
		tokenDurat:    24 * time.Hour,
		now:           time.Now,
	}
}

// Login authenticates a user and binds the client's session to them.
func (s *AuthService) Login(ctx context.Context, clientID string, req LoginRequest) (*models.AuthSession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Do not reveal whether the email exists.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.IsSuspended() {
		return nil, apperrors.ErrAccountSuspended
	}

	loginAt := s.now()
	updated, err := s.userRepo.Update(ctx, user.ID, func(u *models.User) error {
		u.LastLogin = loginAt
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	session, err := s.startSession(ctx, clientID, *updated)
	if err != nil {
		return nil, err
	}
	s.notifications.Notify(ctx, fmt.Sprintf("User logged in: %s", updated.Name), "fa-sign-in-alt", models.NotificationTypeUser)
	logger.Logger.Info("user logged in", zap.String("user_id", updated.ID), zap.String("client_id", clientID))
	return session, nil
}

// Signup registers a new user and logs them in on the client.
func (s *AuthService) Signup(ctx context.Context, clientID string, req SignupRequest) (*models.AuthSession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.FromValidation(err)
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Addresses: []models.Address{},
		Status:    models.UserStatusActive,
		CreatedAt: now,
		LastLogin: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	session, err := s.startSession(ctx, clientID, *user)
	if err != nil {
		return nil, err
	}
	s.notifications.Notify(ctx, fmt.Sprintf("New user registered: %s", user.Name), "fa-user-plus", models.NotificationTypeAuth)
	logger.Logger.Info("user registered", zap.String("user_id", user.ID))
	return session, nil
}

// Logout clears the client's session and cart. It cannot fail; store errors
// are logged.
func (s *AuthService) Logout(ctx context.Context, clientID string) {
	if err := s.sessionRepo.Delete(ctx, clientID); err != nil {
		logger.Logger.Warn("failed to clear session", zap.String("client_id", clientID), zap.Error(err))
	}
	if err := s.cartRepo.Delete(ctx, clientID); err != nil {
		logger.Logger.Warn("failed to clear cart", zap.String("client_id", clientID), zap.Error(err))
	}
}

// UpdateProfile merges the given fields into the user record.
func (s *AuthService) UpdateProfile(ctx context.Context, clientID, userID string, upd ProfileUpdate) (*models.User, error) {
	if err := s.validate.Struct(upd); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	updatedAt := s.now()
	updated, err := s.userRepo.Update(ctx, userID, func(u *models.User) error {
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Phone != nil {
			u.Phone = *upd.Phone
		}
		if upd.Address != nil {
			u.Address = *upd.Address
		}
		u.UpdatedAt = updatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.RefreshSessionUser(ctx, clientID, *updated); err != nil {
		return nil, err
	}
	s.notifications.Notify(ctx, fmt.Sprintf("User profile updated: %s", updated.Name), "fa-user-edit", models.NotificationTypeUser)
	public := updated.Public()
	return &public, nil
}

// CurrentSession returns the client's session, anonymous when logged out.
func (s *AuthService) CurrentSession(ctx context.Context, clientID string) (models.AuthSession, error) {
	return s.sessionRepo.Get(ctx, clientID)
}

// RequireUser returns the session user or apperrors.ErrNotAuthenticated.
func (s *AuthService) RequireUser(ctx context.Context, clientID string) (*models.User, error) {
	session, err := s.sessionRepo.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !session.IsAuthenticated || session.CurrentUser == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return session.CurrentUser, nil
}

// RefreshSessionUser replaces the session's copy of user when the client is
// logged in as that user.
func (s *AuthService) RefreshSessionUser(ctx context.Context, clientID string, user models.User) error {
	session, err := s.sessionRepo.Get(ctx, clientID)
	if err != nil {
		return err
	}
	if !session.IsAuthenticated || session.CurrentUser == nil || session.CurrentUser.ID != user.ID {
		return nil
	}
	public := user.Public()
	session.CurrentUser = &public
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

func (s *AuthService) startSession(ctx context.Context, clientID string, user models.User) (*models.AuthSession, error) {
	token, err := s.issueToken(user.ID, clientID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	session := models.AuthSession{
		IsAuthenticated: true,
		CurrentUser:     &public,
		ClientID:        clientID,
		Token:           token,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &session, nil
}

func (s *AuthService) issueToken(userID, clientID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   userID,
		"client_id": clientID,
		"exp":       now.Add(s.tokenDurat).Unix(),
		"iat":       now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		logger.Logger.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
