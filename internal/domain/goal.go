package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavingsGoal is a personal savings target. CurrentAmount accumulates via
// progress updates; Completed flips once it reaches TargetAmount.
type SavingsGoal struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Name          string     `json:"name" gorm:"not null"`
	TargetAmount  int64      `json:"targetAmount" gorm:"not null"`
	CurrentAmount int64      `json:"currentAmount" gorm:"not null;default:0"`
	Currency      string     `json:"currency" gorm:"type:varchar(10);not null"`
	Deadline      *time.Time `json:"deadline"`
	Completed     bool       `json:"completed" gorm:"not null;default:false"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (SavingsGoal) TableName() string {
	return "savings_goals"
}
