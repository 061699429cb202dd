package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName  string         `json:"displayName" gorm:"not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	IsActive     bool           `json:"isActive" gorm:"not null;default:true"`
	Role         string         `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	Preferences  datatypes.JSON `json:"preferences" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address. Emails are compared
// case-insensitively everywhere, so every stored value and lookup goes through
// this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
