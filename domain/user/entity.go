package user

import (
	"time"
)

// User is the storage record for an account.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:255;not null"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	DayBirth     time.Time `gorm:"not null"`
	PasswordHash string    `gorm:"not null;type:text"`
	IsActive     bool      `gorm:"not null;default:true"`
	IsStaff      bool      `gorm:"not null;default:false"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims carries the identity extracted from a signed token.
type Claims struct {
	UserID uint
}
