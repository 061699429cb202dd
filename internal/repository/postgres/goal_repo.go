package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"gorm.io/gorm"
)

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *goalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.SavingsGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	err := r.db.WithContext(ctx).First(&goal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	var goals []*domain.SavingsGoal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (r *goalRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.SavingsGoal{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.SavingsGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.SavingsGoal{}, "id = ?", id).Error
}
