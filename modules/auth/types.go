package auth

import (
	"time"

	domain "github.com/example/storefront/domain/user"
)

// UserView is the display record for a user, safe to hand to templates and
// sibling modules (no password hash).
type UserView struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	DayBirth time.Time `json:"day_birth"`
	IsActive bool      `json:"is_active"`
	IsStaff  bool      `json:"is_staff"`
	IsAdmin  bool      `json:"is_admin"`
}

// ToView maps a storage record to its display record.
func ToView(u *domain.User) UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		DayBirth: u.DayBirth,
		IsActive: u.IsActive,
		IsStaff:  u.IsStaff,
		IsAdmin:  u.IsAdmin,
	}
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID uint   `json:"user_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID uint `json:"user_id"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	User UserView `json:"user"`
}
