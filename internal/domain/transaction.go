package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a personal income/expense record, unrelated to groups.
type Transaction struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID       `json:"userId" gorm:"type:uuid;not null;index"`
	Type        TransactionType `json:"type" gorm:"type:varchar(10);not null"`
	Amount      int64           `json:"amount" gorm:"not null"`
	Currency    string          `json:"currency" gorm:"type:varchar(10);not null"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurredAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}
