package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"gorm.io/gorm"
)

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *groupRepository {
	return &groupRepository{db: db}
}

// Create inserts the group together with any members already attached to it,
// in a single transaction (gorm association insert).
func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Members.User").
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Group, error) {
	var groups []*domain.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Preload("Members").
		Preload("Members.User").
		Order("groups.created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) Update(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Omit("Members").Save(group).Error
}

func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("expense_id IN (?)", tx.Model(&domain.GroupExpense{}).Select("id").Where("group_id = ?", id)).
			Delete(&domain.ExpenseShare{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.GroupExpense{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Invite{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.GroupMember{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Group{}, "id = ?", id).Error
	})
}
