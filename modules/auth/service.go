package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	domain "github.com/example/storefront/domain/user"
)

var (
	// ErrEmptyUsername is returned when a username field is blank.
	ErrEmptyUsername = errors.New("username must not be empty")
	// ErrInvalidEmail is returned when the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrInvalidCredentials is returned when login credentials are wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrRepairMismatch is returned when the password repair identity check fails.
	ErrRepairMismatch = errors.New("username and email do not match")
)

// Service handles account business logic.
type Service struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewService creates a new account Service.
func NewService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *Service {
	return &Service{repo: repo, hasher: hasher, jwt: jwt}
}

// Register creates a new account and returns it together with a session token.
func (s *Service) Register(_ context.Context, username, email string, dayBirth time.Time, password string) (*domain.User, string, error) {
	if username == "" {
		return nil, "", ErrEmptyUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, "", ErrPasswordTooLong
	}

	taken, err := s.repo.UsernameExists(username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, "", ErrUsernameTaken
	}

	taken, err = s.repo.EmailExists(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Username:     username,
		Email:        email,
		DayBirth:     dayBirth,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user and a session token.
func (s *Service) Login(_ context.Context, username, password string) (*domain.User, string, error) {
	if username == "" {
		return nil, "", ErrEmptyUsername
	}

	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// ValidateToken resolves a session token to claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	userID, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	return &domain.Claims{UserID: userID}, nil
}

// GetUser retrieves a user by id.
func (s *Service) GetUser(_ context.Context, id uint) (*domain.User, error) {
	return s.repo.FindByID(id)
}

// ListUsers returns every registered user, for the admin list page.
func (s *Service) ListUsers(_ context.Context) ([]*domain.User, error) {
	return s.repo.FindAll()
}

// UpdateProfile changes the fields a user may edit about themselves.
func (s *Service) UpdateProfile(_ context.Context, id uint, email string, dayBirth time.Time) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return s.repo.UpdateProfile(id, email, dayBirth)
}

// UpdateFlags changes the administrative fields of a user.
func (s *Service) UpdateFlags(_ context.Context, id uint, email string, dayBirth time.Time, active, staff, admin bool) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return s.repo.UpdateFlags(id, email, dayBirth, active, staff, admin)
}

// Deactivate marks the account inactive (self-service deletion).
func (s *Service) Deactivate(_ context.Context, id uint) error {
	return s.repo.Deactivate(id)
}

// DeleteUser removes the account row entirely (admin action). Purchase
// records and cart state are removed by the caller beforehand.
func (s *Service) DeleteUser(_ context.Context, id uint) error {
	return s.repo.Delete(id)
}

// BeginRepair checks the username/email pair of the password repair flow and
// returns the matching user.
func (s *Service) BeginRepair(_ context.Context, username, email string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrRepairMismatch
		}
		return nil, err
	}
	if user.Email != email {
		return nil, ErrRepairMismatch
	}
	return user, nil
}

// SetPassword replaces a user's password and returns a fresh session token.
func (s *Service) SetPassword(_ context.Context, id uint, password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(id, hash); err != nil {
		return "", err
	}
	return s.jwt.Generate(id)
}
