package service

import (
	"github.com/splitbook/splitbook/internal/config"
	"github.com/splitbook/splitbook/internal/repository"
)

type Services struct {
	Auth        *AuthService
	Group       *GroupService
	Invite      *InviteService
	Expense     *ExpenseService
	Transaction *TransactionService
	Goal        *GoalService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:        NewAuthService(repos.User, repos.Session, cfg),
		Group:       NewGroupService(repos.Group, repos.GroupMember, repos.User),
		Invite:      NewInviteService(repos.Invite, repos.Group, repos.GroupMember, repos.User, cfg),
		Expense:     NewExpenseService(repos.Expense, repos.Group),
		Transaction: NewTransactionService(repos.Transaction),
		Goal:        NewGoalService(repos.Goal, cfg),
	}
}
