package postgres

import (
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.Invite{},
		&domain.GroupExpense{},
		&domain.ExpenseShare{},
		&domain.Transaction{},
		&domain.SavingsGoal{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Group:       NewGroupRepository(db),
		GroupMember: NewGroupMemberRepository(db),
		Invite:      NewInviteRepository(db),
		Expense:     NewExpenseRepository(db),
		Transaction: NewTransactionRepository(db),
		Goal:        NewGoalRepository(db),
	}
}
