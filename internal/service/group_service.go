package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrNotGroupCreator = errors.New("only the group creator can perform this action")
	ErrMemberNotFound  = errors.New("member not found in group")
	ErrInvalidRole     = errors.New("invalid member role")
)

type GroupService struct {
	groupRepo  repository.GroupRepository
	memberRepo repository.GroupMemberRepository
	userRepo   repository.UserRepository
}

func NewGroupService(groupRepo repository.GroupRepository, memberRepo repository.GroupMemberRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
	}
}

type CreateGroupInput struct {
	Name                 string
	Description          string
	Currency             string
	DefaultSplitStrategy domain.SplitStrategy
}

// CreateGroup inserts the group with the creator's admin membership
// synthesized in the same write.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID uuid.UUID, input CreateGroupInput) (*domain.Group, error) {
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	strategy := input.DefaultSplitStrategy
	if strategy == "" {
		strategy = domain.SplitEqual
	}
	if !strategy.Valid() {
		return nil, domain.ErrInvalidSplit
	}

	now := time.Now()
	group := &domain.Group{
		ID:                   uuid.New(),
		Name:                 input.Name,
		Description:          input.Description,
		Currency:             currency,
		DefaultSplitStrategy: strategy,
		CreatedBy:            creatorID,
		CreatedAt:            now,
		UpdatedAt:            now,
		Members: []domain.GroupMember{
			{
				ID:       uuid.New(),
				UserID:   creatorID,
				Role:     domain.MemberRoleAdmin,
				JoinedAt: now,
			},
		},
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	return s.groupRepo.GetByID(ctx, group.ID)
}

// GetGroup returns the group only if userID is a member; otherwise the group
// is not visible and the call fails with ErrGroupNotFound.
func (s *GroupService) GetGroup(ctx context.Context, groupID, userID uuid.UUID) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.Member(userID) == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error) {
	return s.groupRepo.ListByUserID(ctx, userID)
}

type UpdateGroupInput struct {
	Name                 string
	Description          string
	Currency             string
	DefaultSplitStrategy domain.SplitStrategy
}

func (s *GroupService) UpdateGroup(ctx context.Context, groupID, actorID uuid.UUID, input UpdateGroupInput) (*domain.Group, error) {
	group, err := s.GetGroup(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != actorID {
		return nil, ErrNotGroupCreator
	}

	if input.Name != "" {
		group.Name = input.Name
	}
	if input.Description != "" {
		group.Description = input.Description
	}
	if input.Currency != "" {
		group.Currency = input.Currency
	}
	if input.DefaultSplitStrategy != "" {
		if !input.DefaultSplitStrategy.Valid() {
			return nil, domain.ErrInvalidSplit
		}
		group.DefaultSplitStrategy = input.DefaultSplitStrategy
	}
	group.UpdatedAt = time.Now()

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group and everything it owns. Creator only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, actorID uuid.UUID) error {
	group, err := s.GetGroup(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if group.CreatedBy != actorID {
		return ErrNotGroupCreator
	}
	return s.groupRepo.Delete(ctx, groupID)
}

// AddMember adds a user to the roster. Creator only.
func (s *GroupService) AddMember(ctx context.Context, groupID, actorID, userID uuid.UUID, role domain.MemberRole) (*domain.GroupMember, error) {
	group, err := s.GetGroup(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != actorID {
		return nil, ErrNotGroupCreator
	}
	if !role.Valid() {
		role = domain.MemberRoleMember
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if group.Member(userID) != nil {
		return nil, domain.ErrAlreadyMember
	}

	member := &domain.GroupMember{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember removes a user from the roster. The creator may remove any
// non-creator member; a member may remove themself. The creator is never
// removable, and the last remaining non-creator admin cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, userID uuid.UUID) error {
	group, err := s.GetGroup(ctx, groupID, actorID)
	if err != nil {
		return err
	}

	if userID == group.CreatedBy {
		return domain.ErrCreatorImmutable
	}
	if actorID != group.CreatedBy && actorID != userID {
		return ErrNotGroupCreator
	}

	member := group.Member(userID)
	if member == nil {
		return ErrMemberNotFound
	}

	if member.Role == domain.MemberRoleAdmin && group.AdminCount() == 1 {
		return domain.ErrLastAdminRemoval
	}

	return s.memberRepo.Delete(ctx, member.ID)
}

// UpdateMemberRole changes a member's role. Creator only; the creator's own
// record is immutable.
func (s *GroupService) UpdateMemberRole(ctx context.Context, groupID, actorID, userID uuid.UUID, role domain.MemberRole) (*domain.GroupMember, error) {
	group, err := s.GetGroup(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != actorID {
		return nil, ErrNotGroupCreator
	}
	if userID == group.CreatedBy {
		return nil, domain.ErrCreatorImmutable
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	member := group.Member(userID)
	if member == nil {
		return nil, ErrMemberNotFound
	}

	if member.Role == domain.MemberRoleAdmin && role == domain.MemberRoleMember && group.AdminCount() == 1 {
		return nil, domain.ErrLastAdminRemoval
	}

	member.Role = role
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}
