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
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrMemberNotInGroup = errors.New("split participant is not a group member")
	ErrMemberNotInSplit = errors.New("member has no share in this expense")
	ErrNotExpenseOwner  = errors.New("only the payer or the group creator can delete an expense")
	ErrInvalidPayment   = errors.New("invalid payment status")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	groupRepo   repository.GroupRepository
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, groupRepo repository.GroupRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		groupRepo:   groupRepo,
	}
}

type CreateExpenseInput struct {
	Description   string
	Amount        int64
	Currency      string
	Category      string
	SplitStrategy domain.SplitStrategy
	ExpenseDate   time.Time
	PaidBy        uuid.UUID
	Participants  []domain.ShareInput
}

// CreateExpense computes the per-member shares for the chosen strategy and
// persists the expense with its share rows. The actor and every participant
// must be current group members.
func (s *ExpenseService) CreateExpense(ctx context.Context, groupID, actorID uuid.UUID, input CreateExpenseInput) (*domain.GroupExpense, error) {
	group, err := s.memberGroup(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	paidBy := input.PaidBy
	if paidBy == uuid.Nil {
		paidBy = actorID
	}
	if group.Member(paidBy) == nil {
		return nil, ErrMemberNotInGroup
	}
	for _, p := range input.Participants {
		if group.Member(p.UserID) == nil {
			return nil, ErrMemberNotInGroup
		}
	}

	strategy := input.SplitStrategy
	if strategy == "" {
		strategy = group.DefaultSplitStrategy
	}

	shares, err := domain.CalculateShares(strategy, input.Amount, input.Participants)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = group.Currency
	}
	expenseDate := input.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	now := time.Now()
	expense := &domain.GroupExpense{
		ID:            uuid.New(),
		GroupID:       groupID,
		PaidBy:        paidBy,
		Description:   input.Description,
		Amount:        input.Amount,
		Currency:      currency,
		Category:      input.Category,
		SplitStrategy: strategy,
		ExpenseDate:   expenseDate,
		CreatedAt:     now,
		UpdatedAt:     now,
		Shares:        shares,
	}
	for i := range expense.Shares {
		expense.Shares[i].ID = uuid.New()
		expense.Shares[i].ExpenseID = expense.ID
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, expenseID, actorID uuid.UUID) (*domain.GroupExpense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	if _, err := s.memberGroup(ctx, expense.GroupID, actorID); err != nil {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, groupID, actorID uuid.UUID) ([]*domain.GroupExpense, error) {
	if _, err := s.memberGroup(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListByGroupID(ctx, groupID)
}

// UpdatePaymentStatus sets a member's payment status on an expense. Status
// values form no order: any value may be set at any time, including moving
// a confirmed share back to unpaid.
func (s *ExpenseService) UpdatePaymentStatus(ctx context.Context, expenseID, actorID, memberID uuid.UUID, status domain.PaymentStatus, paidAt *time.Time) (*domain.GroupExpense, error) {
	if !status.Valid() {
		return nil, ErrInvalidPayment
	}

	expense, err := s.GetExpense(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}

	share := expense.Share(memberID)
	if share == nil {
		return nil, ErrMemberNotInSplit
	}

	share.PaymentStatus = status
	share.PaidAt = paidAt
	if status == domain.PaymentUnpaid {
		share.PaidAt = nil
	}

	if err := s.expenseRepo.UpdateShare(ctx, share); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense and its shares. Payer or group creator only.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, actorID uuid.UUID) error {
	expense, err := s.GetExpense(ctx, expenseID, actorID)
	if err != nil {
		return err
	}

	group, err := s.groupRepo.GetByID(ctx, expense.GroupID)
	if err != nil {
		return err
	}
	if expense.PaidBy != actorID && group.CreatedBy != actorID {
		return ErrNotExpenseOwner
	}

	return s.expenseRepo.Delete(ctx, expenseID)
}

// memberGroup loads the group and requires actorID to be a member.
func (s *ExpenseService) memberGroup(ctx context.Context, groupID, actorID uuid.UUID) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.Member(actorID) == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}
