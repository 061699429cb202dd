package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	// ListValidByUserID returns non-revoked, non-expired sessions for a user,
	// most recently used first.
	ListValidByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Session, error)
	// ListActive returns every non-revoked session across all users.
	ListActive(ctx context.Context) ([]*domain.Session, error)
	Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID, revokedAt time.Time) error
	// DeleteDefunct removes sessions that expired before now or were revoked
	// before staleBefore.
	DeleteDefunct(ctx context.Context, now, staleBefore time.Time) (int64, error)
	// UserIDsWithValidSessions lists users that still have at least one valid
	// session, for cap re-enforcement during cleanup.
	UserIDsWithValidSessions(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error)
	Update(ctx context.Context, group *domain.Group) error
	// Delete removes the group and everything it owns: members, invites,
	// expenses and their shares.
	Delete(ctx context.Context, id uuid.UUID) error
}

type GroupMemberRepository interface {
	Create(ctx context.Context, member *domain.GroupMember) error
	GetByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupMember, error)
	Update(ctx context.Context, member *domain.GroupMember) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invite, error)
	GetPendingByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*domain.Invite, error)
	ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*domain.Invite, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Invite, error)
	Update(ctx context.Context, invite *domain.Invite) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.GroupExpense) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupExpense, error)
	ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*domain.GroupExpense, error)
	UpdateShare(ctx context.Context, share *domain.ExpenseShare) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionFilter narrows transaction listings. Zero values mean "no filter".
type TransactionFilter struct {
	Type     domain.TransactionType
	Category string
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GoalRepository interface {
	Create(ctx context.Context, goal *domain.SavingsGoal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsGoal, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.SavingsGoal, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, goal *domain.SavingsGoal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Group       GroupRepository
	GroupMember GroupMemberRepository
	Invite      InviteRepository
	Expense     ExpenseRepository
	Transaction TransactionRepository
	Goal        GoalRepository
}
