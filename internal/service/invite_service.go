package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/config"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrDuplicateInvite     = errors.New("a pending invite already exists for this email")
	ErrInviteForbidden     = errors.New("invite belongs to a different email")
	ErrInviteNotActionable = errors.New("invite is no longer pending")
)

type InviteService struct {
	inviteRepo repository.InviteRepository
	groupRepo  repository.GroupRepository
	memberRepo repository.GroupMemberRepository
	userRepo   repository.UserRepository
	cfg        *config.Config
}

func NewInviteService(
	inviteRepo repository.InviteRepository,
	groupRepo repository.GroupRepository,
	memberRepo repository.GroupMemberRepository,
	userRepo repository.UserRepository,
	cfg *config.Config,
) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		cfg:        cfg,
	}
}

// CreateInvite proposes that an email address join the group. Only the group
// creator may invite. At most one pending, unexpired invite may exist per
// (group, email) pair; terminal invites never block a new one.
func (s *InviteService) CreateInvite(ctx context.Context, groupID, inviterID uuid.UUID, email string, role domain.MemberRole) (*domain.Invite, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.CreatedBy != inviterID {
		return nil, ErrNotGroupCreator
	}
	if !role.Valid() {
		role = domain.MemberRoleMember
	}

	email = domain.NormalizeEmail(email)

	// An existing user with this email must not already be a member.
	if invited, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		if group.Member(invited.ID) != nil {
			return nil, domain.ErrAlreadyMember
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	if pending, err := s.inviteRepo.GetPendingByGroupAndEmail(ctx, groupID, email); err == nil {
		if !pending.IsExpired(now) {
			return nil, ErrDuplicateInvite
		}
		// Lazily persist the expiry so the pair frees up.
		pending.Status = domain.InviteStatusExpired
		if err := s.inviteRepo.Update(ctx, pending); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	invite := &domain.Invite{
		ID:        uuid.New(),
		GroupID:   groupID,
		InviterID: inviterID,
		Email:     email,
		Role:      role,
		Status:    domain.InviteStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.InviteTTL),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// ListGroupInvites returns a group's invites. Creator only.
func (s *InviteService) ListGroupInvites(ctx context.Context, groupID, actorID uuid.UUID) ([]*domain.Invite, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.CreatedBy != actorID {
		return nil, ErrNotGroupCreator
	}
	return s.inviteRepo.ListByGroupID(ctx, groupID)
}

// ListInvitesForUser returns the invites addressed to the user's email.
func (s *InviteService) ListInvitesForUser(ctx context.Context, user *domain.User) ([]*domain.Invite, error) {
	return s.inviteRepo.ListByEmail(ctx, user.Email)
}

// Accept transitions a pending invite to accepted and adds the actor to the
// group roster with the proposed role. The actor's email must match the
// invite's (case-insensitive).
func (s *InviteService) Accept(ctx context.Context, inviteID uuid.UUID, actor *domain.User) (*domain.Invite, error) {
	invite, err := s.actionableInvite(ctx, inviteID, actor)
	if err != nil {
		return nil, err
	}

	// Idempotent on membership: accepting while already a member only flips
	// the invite status.
	if _, err := s.memberRepo.GetByGroupAndUser(ctx, invite.GroupID, actor.ID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		member := &domain.GroupMember{
			ID:       uuid.New(),
			GroupID:  invite.GroupID,
			UserID:   actor.ID,
			Role:     invite.Role,
			JoinedAt: time.Now(),
		}
		if err := s.memberRepo.Create(ctx, member); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	invite.Status = domain.InviteStatusAccepted
	invite.RespondedAt = &now
	if err := s.inviteRepo.Update(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// Decline transitions a pending invite to declined.
func (s *InviteService) Decline(ctx context.Context, inviteID uuid.UUID, actor *domain.User) (*domain.Invite, error) {
	invite, err := s.actionableInvite(ctx, inviteID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invite.Status = domain.InviteStatusDeclined
	invite.RespondedAt = &now
	if err := s.inviteRepo.Update(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// Cancel deletes an invite outright. Group creator only.
func (s *InviteService) Cancel(ctx context.Context, inviteID, actorID uuid.UUID) error {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return err
	}

	group, err := s.groupRepo.GetByID(ctx, invite.GroupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != actorID {
		return ErrNotGroupCreator
	}

	return s.inviteRepo.Delete(ctx, inviteID)
}

// actionableInvite loads the invite and checks ownership and actionability.
// A pending invite past its expiry is persisted as expired on observation.
func (s *InviteService) actionableInvite(ctx context.Context, inviteID uuid.UUID, actor *domain.User) (*domain.Invite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	if invite.Email != domain.NormalizeEmail(actor.Email) {
		return nil, ErrInviteForbidden
	}

	now := time.Now()
	if invite.IsExpired(now) {
		invite.Status = domain.InviteStatusExpired
		if err := s.inviteRepo.Update(ctx, invite); err != nil {
			return nil, err
		}
		return nil, ErrInviteNotActionable
	}
	if invite.Status != domain.InviteStatusPending {
		return nil, ErrInviteNotActionable
	}

	return invite, nil
}
