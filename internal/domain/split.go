package domain

import (
	"math"

	"github.com/google/uuid"
)

// ShareInput is the caller-supplied portion of one member's share. Which
// fields matter depends on the strategy: Percentage for percentage splits,
// Weight for share splits, Amount for custom splits. Equal splits only need
// the user id.
type ShareInput struct {
	UserID     uuid.UUID
	Amount     int64
	Percentage float64
	Weight     int
}

// CalculateShares distributes total (minor currency units) across the given
// members according to strategy.
//
// Rounding uses nearest-integer minor units and rounding residue is not
// redistributed: for equal, percentage and share splits the sum of the
// resulting amounts may differ from total by up to n-1 minor units. Custom
// splits are validated against the same tolerance and otherwise passed
// through untouched.
func CalculateShares(strategy SplitStrategy, total int64, inputs []ShareInput) ([]ExpenseShare, error) {
	if total <= 0 {
		return nil, ErrInvalidSplit
	}
	if len(inputs) == 0 {
		return nil, ErrInvalidSplit
	}
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.UserID]; dup {
			return nil, ErrInvalidSplit
		}
		seen[in.UserID] = struct{}{}
	}

	switch strategy {
	case SplitEqual:
		return equalShares(total, inputs), nil
	case SplitPercentage:
		return percentageShares(total, inputs)
	case SplitShare:
		return weightedShares(total, inputs)
	case SplitCustom:
		return customShares(total, inputs)
	default:
		return nil, ErrInvalidSplit
	}
}

func equalShares(total int64, inputs []ShareInput) []ExpenseShare {
	n := len(inputs)
	amount := roundMinor(float64(total) / float64(n))
	shares := make([]ExpenseShare, 0, n)
	for _, in := range inputs {
		shares = append(shares, ExpenseShare{
			UserID:        in.UserID,
			Amount:        amount,
			Percentage:    float64(amount) / float64(total) * 100,
			PaymentStatus: PaymentUnpaid,
		})
	}
	return shares
}

func percentageShares(total int64, inputs []ShareInput) ([]ExpenseShare, error) {
	var sum float64
	for _, in := range inputs {
		if in.Percentage < 0 {
			return nil, ErrInvalidSplit
		}
		sum += in.Percentage
	}
	if math.Abs(sum-100) > 0.01 {
		return nil, ErrInvalidSplit
	}
	shares := make([]ExpenseShare, 0, len(inputs))
	for _, in := range inputs {
		shares = append(shares, ExpenseShare{
			UserID:        in.UserID,
			Amount:        roundMinor(float64(total) * in.Percentage / 100),
			Percentage:    in.Percentage,
			PaymentStatus: PaymentUnpaid,
		})
	}
	return shares, nil
}

func weightedShares(total int64, inputs []ShareInput) ([]ExpenseShare, error) {
	var totalWeight int
	for _, in := range inputs {
		if in.Weight <= 0 {
			return nil, ErrInvalidSplit
		}
		totalWeight += in.Weight
	}
	shares := make([]ExpenseShare, 0, len(inputs))
	for _, in := range inputs {
		amount := roundMinor(float64(total) * float64(in.Weight) / float64(totalWeight))
		shares = append(shares, ExpenseShare{
			UserID:        in.UserID,
			Amount:        amount,
			Percentage:    float64(amount) / float64(total) * 100,
			ShareWeight:   in.Weight,
			PaymentStatus: PaymentUnpaid,
		})
	}
	return shares, nil
}

func customShares(total int64, inputs []ShareInput) ([]ExpenseShare, error) {
	var sum int64
	for _, in := range inputs {
		if in.Amount < 0 {
			return nil, ErrInvalidSplit
		}
		sum += in.Amount
	}
	tolerance := int64(len(inputs) - 1)
	if diff := sum - total; diff > tolerance || diff < -tolerance {
		return nil, ErrSplitMismatch
	}
	shares := make([]ExpenseShare, 0, len(inputs))
	for _, in := range inputs {
		shares = append(shares, ExpenseShare{
			UserID:        in.UserID,
			Amount:        in.Amount,
			Percentage:    float64(in.Amount) / float64(total) * 100,
			PaymentStatus: PaymentUnpaid,
		})
	}
	return shares, nil
}

// roundMinor rounds to the nearest minor unit, half away from zero.
func roundMinor(v float64) int64 {
	return int64(math.Round(v))
}
