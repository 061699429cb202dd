package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email       string
	displayName string
	password    string
	active      bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:       fmt.Sprintf("testuser_%s@example.com", suffix),
		displayName: fmt.Sprintf("testuser_%s", suffix),
		password:    "testpassword123",
		active:      true,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Disabled marks the user inactive
func (b *UserBuilder) Disabled() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        domain.NormalizeEmail(b.email),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		IsActive:     b.active,
		Role:         "user",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// SessionBuilder creates test sessions
type SessionBuilder struct {
	userID     uuid.UUID
	lastUsedAt time.Time
	expiresAt  time.Time
	revoked    bool
	revokedAt  *time.Time
}

// NewSessionBuilder creates a new SessionBuilder for the given user
func NewSessionBuilder(userID uuid.UUID) *SessionBuilder {
	now := time.Now()
	return &SessionBuilder{
		userID:     userID,
		lastUsedAt: now,
		expiresAt:  now.Add(30 * 24 * time.Hour),
	}
}

// LastUsedAt sets the last-used timestamp
func (b *SessionBuilder) LastUsedAt(t time.Time) *SessionBuilder {
	b.lastUsedAt = t
	return b
}

// ExpiresAt sets the expiry
func (b *SessionBuilder) ExpiresAt(t time.Time) *SessionBuilder {
	b.expiresAt = t
	return b
}

// Revoked marks the session revoked at the given time
func (b *SessionBuilder) Revoked(at time.Time) *SessionBuilder {
	b.revoked = true
	b.revokedAt = &at
	return b
}

// Build creates the session and returns it together with the raw refresh token
func (b *SessionBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Session, string) {
	t.Helper()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	rawToken := hex.EncodeToString(raw)

	hashed, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash refresh token: %v", err)
	}

	session := &domain.Session{
		ID:               uuid.New(),
		UserID:           b.userID,
		RefreshTokenHash: string(hashed),
		UserAgent:        "test-agent",
		IP:               "127.0.0.1",
		LastUsedAt:       b.lastUsedAt,
		ExpiresAt:        b.expiresAt,
		Revoked:          b.revoked,
		RevokedAt:        b.revokedAt,
		CreatedAt:        time.Now(),
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return session, rawToken
}

// GroupBuilder creates test groups with members
type GroupBuilder struct {
	name      string
	creatorID uuid.UUID
	members   []domain.GroupMember
}

// NewGroupBuilder creates a new GroupBuilder; the creator becomes an admin member
func NewGroupBuilder(creatorID uuid.UUID) *GroupBuilder {
	return &GroupBuilder{
		name:      fmt.Sprintf("testgroup_%s", uuid.New().String()[:8]),
		creatorID: creatorID,
		members: []domain.GroupMember{
			{ID: uuid.New(), UserID: creatorID, Role: domain.MemberRoleAdmin, JoinedAt: time.Now()},
		},
	}
}

// WithName sets the group name
func (b *GroupBuilder) WithName(name string) *GroupBuilder {
	b.name = name
	return b
}

// WithMember adds a member with the given role
func (b *GroupBuilder) WithMember(userID uuid.UUID, role domain.MemberRole) *GroupBuilder {
	b.members = append(b.members, domain.GroupMember{
		ID:       uuid.New(),
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	})
	return b
}

// Build creates the group and its members in the database
func (b *GroupBuilder) Build(t *testing.T, db *gorm.DB) *domain.Group {
	t.Helper()

	group := &domain.Group{
		ID:                   uuid.New(),
		Name:                 b.name,
		Currency:             "USD",
		DefaultSplitStrategy: domain.SplitEqual,
		CreatedBy:            b.creatorID,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
		Members:              b.members,
	}

	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	return group
}

// InviteBuilder creates test invites
type InviteBuilder struct {
	groupID   uuid.UUID
	inviterID uuid.UUID
	email     string
	role      domain.MemberRole
	status    domain.InviteStatus
	expiresAt time.Time
}

// NewInviteBuilder creates a pending invite expiring in 7 days
func NewInviteBuilder(groupID, inviterID uuid.UUID, email string) *InviteBuilder {
	return &InviteBuilder{
		groupID:   groupID,
		inviterID: inviterID,
		email:     email,
		role:      domain.MemberRoleMember,
		status:    domain.InviteStatusPending,
		expiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
}

// WithStatus sets the invite status
func (b *InviteBuilder) WithStatus(status domain.InviteStatus) *InviteBuilder {
	b.status = status
	return b
}

// ExpiresAt sets the expiry
func (b *InviteBuilder) ExpiresAt(t time.Time) *InviteBuilder {
	b.expiresAt = t
	return b
}

// Build creates the invite in the database
func (b *InviteBuilder) Build(t *testing.T, db *gorm.DB) *domain.Invite {
	t.Helper()

	invite := &domain.Invite{
		ID:        uuid.New(),
		GroupID:   b.groupID,
		InviterID: b.inviterID,
		Email:     domain.NormalizeEmail(b.email),
		Role:      b.role,
		Status:    b.status,
		CreatedAt: time.Now(),
		ExpiresAt: b.expiresAt,
	}

	if err := db.Create(invite).Error; err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}

	return invite
}
