package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"gorm.io/gorm"
)

type groupMemberRepository struct {
	db *gorm.DB
}

func NewGroupMemberRepository(db *gorm.DB) *groupMemberRepository {
	return &groupMemberRepository{db: db}
}

func (r *groupMemberRepository) Create(ctx context.Context, member *domain.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *groupMemberRepository) GetByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupMember, error) {
	var member domain.GroupMember
	err := r.db.WithContext(ctx).
		First(&member, "group_id = ? AND user_id = ?", groupID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *groupMemberRepository) Update(ctx context.Context, member *domain.GroupMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *groupMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.GroupMember{}, "id = ?", id).Error
}
