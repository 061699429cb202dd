package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one logged-in device. Only the bcrypt hash of the
// refresh token is stored; the raw token is returned to the client once and
// never persisted.
type Session struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string     `json:"-" gorm:"not null"`
	UserAgent        string     `json:"userAgent"`
	IP               string     `json:"ip" gorm:"type:varchar(45)"`
	LastUsedAt       time.Time  `json:"lastUsedAt" gorm:"not null"`
	ExpiresAt        time.Time  `json:"expiresAt" gorm:"not null"`
	Revoked          bool       `json:"revoked" gorm:"not null;default:false"`
	RevokedAt        *time.Time `json:"revokedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (Session) TableName() string {
	return "sessions"
}

// IsValid reports whether the session can still authenticate requests.
// A session past its expiry never validates, regardless of the revoked flag.
func (s *Session) IsValid(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt.After(now)
}
