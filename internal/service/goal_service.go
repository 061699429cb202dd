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
	ErrGoalNotFound     = errors.New("goal not found")
	ErrGoalLimitReached = errors.New("savings goal limit reached")
)

type GoalService struct {
	goalRepo repository.GoalRepository
	cfg      *config.Config
}

func NewGoalService(goalRepo repository.GoalRepository, cfg *config.Config) *GoalService {
	return &GoalService{goalRepo: goalRepo, cfg: cfg}
}

type GoalInput struct {
	Name         string
	TargetAmount int64
	Currency     string
	Deadline     *time.Time
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, input GoalInput) (*domain.SavingsGoal, error) {
	if input.TargetAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	count, err := s.goalRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.cfg.MaxGoalsPerUser) {
		return nil, ErrGoalLimitReached
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	goal := &domain.SavingsGoal{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         input.Name,
		TargetAmount: input.TargetAmount,
		Currency:     currency,
		Deadline:     input.Deadline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, goalID, userID uuid.UUID) (*domain.SavingsGoal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	return s.goalRepo.ListByUserID(ctx, userID)
}

func (s *GoalService) Update(ctx context.Context, goalID, userID uuid.UUID, input GoalInput) (*domain.SavingsGoal, error) {
	goal, err := s.Get(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		goal.Name = input.Name
	}
	if input.TargetAmount != 0 {
		if input.TargetAmount < 0 {
			return nil, ErrInvalidAmount
		}
		goal.TargetAmount = input.TargetAmount
	}
	if input.Currency != "" {
		goal.Currency = input.Currency
	}
	if input.Deadline != nil {
		goal.Deadline = input.Deadline
	}
	goal.Completed = goal.CurrentAmount >= goal.TargetAmount
	goal.UpdatedAt = time.Now()

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// AddProgress adds to the goal's saved amount and marks it completed once
// the target is reached.
func (s *GoalService) AddProgress(ctx context.Context, goalID, userID uuid.UUID, amount int64) (*domain.SavingsGoal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	goal, err := s.Get(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount += amount
	goal.Completed = goal.CurrentAmount >= goal.TargetAmount
	goal.UpdatedAt = time.Now()

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, goalID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, goalID, userID); err != nil {
		return err
	}
	return s.goalRepo.Delete(ctx, goalID)
}
