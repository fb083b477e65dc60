package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tilehub/tilehub-go/internal/crypto"
	"github.com/tilehub/tilehub-go/internal/model"
	"github.com/tilehub/tilehub-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSamePassword       = errors.New("new password must differ from the current password")
)

// dummyHash is a well-formed Argon2id digest that matches no password. Login
// verifies against it when the email is unknown so that both failure paths do
// comparable work.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=2$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// UserStore abstracts user persistence. The repository satisfies it; tests
// substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// AuthService handles registration, authentication and profile management.
type AuthService struct {
	store     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account and returns an auth token. The unique
// keys in storage remain the final authority on email and username
// uniqueness; the pre-check below only shortcuts the common duplicate path.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if err := validateRegister(req); err != nil {
		return model.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return model.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.store.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.AuthResponse{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.AuthResponse{}, ErrUsernameTaken
		}
		return model.AuthResponse{}, err
	}

	token, err := crypto.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)

	return model.AuthResponse{
		Message: "registration successful",
		User:    user.Sanitized(),
		Token:   token,
	}, nil
}

// Login authenticates a user and returns an auth token. An unknown email and
// a wrong password both yield ErrInvalidCredentials so callers cannot probe
// which addresses are registered.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if err := validateLogin(req); err != nil {
		return model.AuthResponse{}, err
	}

	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))

	hash := dummyHash
	if err == nil {
		hash = user.PasswordHash
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}

	// Always run the comparison, even for an unknown email.
	match := crypto.VerifyPassword(req.Password, hash)
	if err != nil || !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	slog.Info("user login", "user_id", user.ID, "email", user.Email)

	return model.AuthResponse{
		Message: "login successful",
		User:    user.Sanitized(),
		Token:   token,
	}, nil
}

// GetProfile retrieves a user by ID and returns safe user data.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return user.Sanitized(), nil
}

// UpdateProfile changes the username and/or email of a user. Uniqueness of a
// changed email or username is enforced by the store against all other
// records; re-submitting the current value succeeds.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (model.ProfileResponse, error) {
	if err := validateUpdateProfile(req); err != nil {
		return model.ProfileResponse{}, err
	}

	user, err := s.store.UpdateProfile(ctx, userID, req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.ProfileResponse{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.ProfileResponse{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return model.ProfileResponse{}, ErrUserNotFound
		}
		return model.ProfileResponse{}, err
	}

	slog.Info("profile updated", "user_id", userID)

	return model.ProfileResponse{
		Message: "profile updated",
		User:    user.Sanitized(),
	}, nil
}

// ChangePassword replaces the password of a user after verifying the current
// one. The new password must differ from the current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req model.ChangePasswordRequest) error {
	if err := validateChangePassword(req); err != nil {
		return err
	}

	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !crypto.VerifyPassword(req.OldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	if crypto.VerifyPassword(req.NewPassword, user.PasswordHash) {
		return ErrSamePassword
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	slog.Info("password changed", "user_id", userID)
	return nil
}

// DeleteAccount removes a user record entirely.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
