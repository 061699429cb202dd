package domain

import (
	"time"

	"github.com/google/uuid"
)

// InviteStatus is the lifecycle state of a group invite.
// pending is the only non-terminal state.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
)

// Invite is a time-boxed proposal for an email address to join a group.
// Expiry is lazy: no timer flips pending invites to expired, so callers must
// check IsExpired before acting on a pending record.
type Invite struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GroupID     uuid.UUID    `json:"groupId" gorm:"type:uuid;not null;index"`
	InviterID   uuid.UUID    `json:"inviterId" gorm:"type:uuid;not null"`
	Email       string       `json:"email" gorm:"not null;index"`
	Role        MemberRole   `json:"role" gorm:"type:varchar(10);not null;default:'member'"`
	Status      InviteStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt" gorm:"not null"`
	RespondedAt *time.Time   `json:"respondedAt"`

	// Relations
	Group   *Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Inviter *User  `json:"inviter,omitempty" gorm:"foreignKey:InviterID"`
}

func (Invite) TableName() string {
	return "invites"
}

// IsExpired reports whether a still-pending invite has passed its expiry.
func (i *Invite) IsExpired(now time.Time) bool {
	return i.Status == InviteStatusPending && now.After(i.ExpiresAt)
}

// CanAccept reports whether the invite can still be accepted or declined.
func (i *Invite) CanAccept(now time.Time) bool {
	return i.Status == InviteStatusPending && !i.IsExpired(now)
}
