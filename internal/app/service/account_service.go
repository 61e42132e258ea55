package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"account_api/internal/common"
	"account_api/internal/common/security"
	"account_api/internal/common/validation"
	"account_api/internal/domain/model"
	"account_api/internal/domain/repository"
	"account_api/internal/platform/config"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountService implements registration, login, and profile management.
// Token verification itself lives in the auth middleware; this service
// mints tokens and feeds the revocation list on logout/refresh.
type AccountService struct {
	users       repository.UserRepository
	revocations repository.TokenRevocations
}

func NewAccountService(users repository.UserRepository, revocations repository.TokenRevocations) *AccountService {
	return &AccountService{users: users, revocations: revocations}
}

type RegisterRequest struct {
	FirstName            string `json:"first_name" validate:"required,min=2,max=100"`
	LastName             string `json:"last_name" validate:"required,min=2,max=100"`
	Username             string `json:"username" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest requires id and email; the remaining fields are
// optional and only applied when present in the request body.
type UpdateProfileRequest struct {
	ID        string  `json:"id" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
}

// TokenResult is the shared shape for any operation returning a fresh token.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	errs := validation.Check(req)
	if errs == nil {
		errs = validation.FieldErrors{}
	}

	// Uniqueness pre-checks feed the same field-error map as tag
	// validation. The DB constraint remains the backstop for races.
	if _, taken := errs["username"]; !taken && req.Username != "" {
		if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
			errs.Add("username", "The username has already been taken.")
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}
	email := strings.ToLower(req.Email)
	if _, taken := errs["email"]; !taken && req.Email != "" {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			errs.Add("email", "The email has already been taken.")
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Username:       req.Username,
		Email:          email,
		HashedPassword: string(hashedPassword),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*TokenResult, error) {
	if errs := validation.Check(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same error for unknown email and wrong password.
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueToken(user.ID)
}

// Logout revokes the presented token until its natural expiry.
func (s *AccountService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.revocations.Revoke(ctx, tokenID, time.Until(expiresAt))
}

// Refresh revokes the presented token and mints a fresh one.
func (s *AccountService) Refresh(ctx context.Context, tokenID string, expiresAt time.Time, userID string) (*TokenResult, error) {
	if err := s.revocations.Revoke(ctx, tokenID, time.Until(expiresAt)); err != nil {
		return nil, err
	}
	return s.issueToken(userID)
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*model.User, error) {
	if errs := validation.Check(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.users.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	user.Email = strings.ToLower(req.Email)
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Username != nil {
		user.Username = *req.Username
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) issueToken(userID string) (*TokenResult, error) {
	accessToken, _, err := security.GenerateToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(config.AppConfig.JWTTTLMinutes) * 60,
	}, nil
}
