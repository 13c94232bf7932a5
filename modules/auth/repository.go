package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/example/storefront/domain/user"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create saves a new user.
func (r *UserRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID finds a user by id.
func (r *UserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByUsername finds a user by username.
func (r *UserRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindAll retrieves every registered user.
func (r *UserRepository) FindAll() ([]*domain.User, error) {
	var users []*domain.User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UsernameExists checks if a user with the given username exists.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count usernames: %w", err)
	}
	return count > 0, nil
}

// EmailExists checks if a user with the given email exists.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count emails: %w", err)
	}
	return count > 0, nil
}

// UpdateProfile updates the fields a user may change about themselves.
func (r *UserRepository) UpdateProfile(id uint, email string, dayBirth time.Time) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"email":      email,
		"day_birth":  dayBirth,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateFlags updates the administrative fields of a user.
func (r *UserRepository) UpdateFlags(id uint, email string, dayBirth time.Time, active, staff, admin bool) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"email":      email,
		"day_birth":  dayBirth,
		"is_active":  active,
		"is_staff":   staff,
		"is_admin":   admin,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user flags: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(id uint, passwordHash string) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Deactivate marks a user inactive without removing the row.
func (r *UserRepository) Deactivate(id uint) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"is_active":  false,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user row entirely.
func (r *UserRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
