package domain

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole is the role of a user within a group
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

func (r MemberRole) Valid() bool {
	return r == MemberRoleAdmin || r == MemberRoleMember
}

// Group is a shared-expense group. The creator's membership record is
// synthesized at creation time and can never be removed or demoted.
type Group struct {
	ID                   uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                 string        `json:"name" gorm:"not null"`
	Description          string        `json:"description"`
	Currency             string        `json:"currency" gorm:"type:varchar(10);not null;default:'USD'"`
	DefaultSplitStrategy SplitStrategy `json:"defaultSplitStrategy" gorm:"type:varchar(20);not null;default:'equal'"`
	CreatedBy            uuid.UUID     `json:"createdBy" gorm:"type:uuid;not null"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`

	// Relations
	Members []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
}

func (Group) TableName() string {
	return "groups"
}

// GroupMember is one user's membership in a group. Referenced user is a weak
// reference; removing a user does not cascade here.
type GroupMember struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GroupID  uuid.UUID  `json:"groupId" gorm:"type:uuid;not null;index;uniqueIndex:idx_group_user"`
	UserID   uuid.UUID  `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_group_user"`
	Role     MemberRole `json:"role" gorm:"type:varchar(10);not null;default:'member'"`
	JoinedAt time.Time  `json:"joinedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

// Member returns the membership record for userID, or nil.
func (g *Group) Member(userID uuid.UUID) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// AdminCount counts admins in the roster, excluding the creator, who is
// implicitly privileged and not represented by this count.
func (g *Group) AdminCount() int {
	n := 0
	for _, m := range g.Members {
		if m.Role == MemberRoleAdmin && m.UserID != g.CreatedBy {
			n++
		}
	}
	return n
}
