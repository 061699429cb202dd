package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"gorm.io/gorm"
)

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *expenseRepository {
	return &expenseRepository{db: db}
}

// Create inserts the expense and its share rows in a single transaction
// (gorm association insert).
func (r *expenseRepository) Create(ctx context.Context, expense *domain.GroupExpense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupExpense, error) {
	var expense domain.GroupExpense
	err := r.db.WithContext(ctx).
		Preload("Shares").
		First(&expense, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*domain.GroupExpense, error) {
	var expenses []*domain.GroupExpense
	err := r.db.WithContext(ctx).
		Preload("Shares").
		Where("group_id = ?", groupID).
		Order("expense_date DESC, created_at DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) UpdateShare(ctx context.Context, share *domain.ExpenseShare) error {
	return r.db.WithContext(ctx).Save(share).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.ExpenseShare{}, "expense_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.GroupExpense{}, "id = ?", id).Error
	})
}
