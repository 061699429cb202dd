package domain

import (
	"time"

	"github.com/google/uuid"
)

// SplitStrategy selects how a group expense is divided among members.
type SplitStrategy string

const (
	SplitEqual      SplitStrategy = "equal"
	SplitPercentage SplitStrategy = "percentage"
	SplitShare      SplitStrategy = "share"
	SplitCustom     SplitStrategy = "custom"
)

func (s SplitStrategy) Valid() bool {
	switch s {
	case SplitEqual, SplitPercentage, SplitShare, SplitCustom:
		return true
	}
	return false
}

// PaymentStatus tracks whether a member has settled their share.
// Transitions are unordered: any status may be set at any time.
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPaid      PaymentStatus = "paid"
	PaymentConfirmed PaymentStatus = "confirmed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentConfirmed:
		return true
	}
	return false
}

// GroupExpense is one spend event within a group. Amounts are integer minor
// currency units (cents).
type GroupExpense struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GroupID       uuid.UUID     `json:"groupId" gorm:"type:uuid;not null;index"`
	PaidBy        uuid.UUID     `json:"paidBy" gorm:"type:uuid;not null"`
	Description   string        `json:"description" gorm:"not null"`
	Amount        int64         `json:"amount" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"type:varchar(10);not null"`
	Category      string        `json:"category"`
	SplitStrategy SplitStrategy `json:"splitStrategy" gorm:"type:varchar(20);not null"`
	ExpenseDate   time.Time     `json:"expenseDate"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	// Relations
	Shares []ExpenseShare `json:"shares,omitempty" gorm:"foreignKey:ExpenseID"`
}

func (GroupExpense) TableName() string {
	return "group_expenses"
}

// ExpenseShare is one member's slice of a group expense.
type ExpenseShare struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExpenseID     uuid.UUID     `json:"expenseId" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID     `json:"userId" gorm:"type:uuid;not null"`
	Amount        int64         `json:"amount" gorm:"not null"`
	Percentage    float64       `json:"percentage"`
	ShareWeight   int           `json:"shareWeight"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(10);not null;default:'unpaid'"`
	PaidAt        *time.Time    `json:"paidAt"`
}

func (ExpenseShare) TableName() string {
	return "expense_shares"
}

// Share returns the share record for userID, or nil.
func (e *GroupExpense) Share(userID uuid.UUID) *ExpenseShare {
	for i := range e.Shares {
		if e.Shares[i].UserID == userID {
			return &e.Shares[i]
		}
	}
	return nil
}
