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
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction type")
)

type TransactionService struct {
	txRepo repository.TransactionRepository
}

func NewTransactionService(txRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{txRepo: txRepo}
}

type TransactionInput struct {
	Type        domain.TransactionType
	Amount      int64
	Currency    string
	Category    string
	Description string
	OccurredAt  time.Time
}

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, ErrInvalidTransaction
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	now := time.Now()
	tx := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Currency:    currency,
		Category:    input.Category,
		Description: input.Description,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, txID, userID uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, txID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if tx.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]*domain.Transaction, error) {
	return s.txRepo.ListByUserID(ctx, userID, filter)
}

func (s *TransactionService) Update(ctx context.Context, txID, userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	tx, err := s.Get(ctx, txID, userID)
	if err != nil {
		return nil, err
	}
	if input.Type != "" {
		if !input.Type.Valid() {
			return nil, ErrInvalidTransaction
		}
		tx.Type = input.Type
	}
	if input.Amount != 0 {
		if input.Amount < 0 {
			return nil, ErrInvalidAmount
		}
		tx.Amount = input.Amount
	}
	if input.Currency != "" {
		tx.Currency = input.Currency
	}
	if input.Category != "" {
		tx.Category = input.Category
	}
	if input.Description != "" {
		tx.Description = input.Description
	}
	if !input.OccurredAt.IsZero() {
		tx.OccurredAt = input.OccurredAt
	}
	tx.UpdatedAt = time.Now()

	if err := s.txRepo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, txID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, txID, userID); err != nil {
		return err
	}
	return s.txRepo.Delete(ctx, txID)
}
