package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inputs(n int) []domain.ShareInput {
	out := make([]domain.ShareInput, n)
	for i := range out {
		out[i] = domain.ShareInput{UserID: uuid.New()}
	}
	return out
}

func sumAmounts(shares []domain.ExpenseShare) int64 {
	var sum int64
	for _, s := range shares {
		sum += s.Amount
	}
	return sum
}

func TestCalculateShares_Equal(t *testing.T) {
	t.Run("divides evenly", func(t *testing.T) {
		shares, err := domain.CalculateShares(domain.SplitEqual, 9000, inputs(3))
		require.NoError(t, err)
		require.Len(t, shares, 3)
		for _, s := range shares {
			assert.Equal(t, int64(3000), s.Amount)
			assert.Equal(t, domain.PaymentUnpaid, s.PaymentStatus)
		}
		assert.Equal(t, int64(9000), sumAmounts(shares))
	})

	t.Run("rounding residue is not redistributed", func(t *testing.T) {
		// 100 over 3 members: each share rounds to 33, sum is 99, not 100.
		shares, err := domain.CalculateShares(domain.SplitEqual, 100, inputs(3))
		require.NoError(t, err)
		for _, s := range shares {
			assert.Equal(t, int64(33), s.Amount)
		}
		sum := sumAmounts(shares)
		assert.Equal(t, int64(99), sum)
		assert.LessOrEqual(t, sum-100, int64(2))
		assert.GreaterOrEqual(t, sum-100, int64(-2))
	})

	t.Run("single member takes it all", func(t *testing.T) {
		shares, err := domain.CalculateShares(domain.SplitEqual, 100, inputs(1))
		require.NoError(t, err)
		require.Len(t, shares, 1)
		assert.Equal(t, int64(100), shares[0].Amount)
		assert.InDelta(t, 100.0, shares[0].Percentage, 0.001)
	})
}

func TestCalculateShares_Percentage(t *testing.T) {
	t.Run("exact percentages", func(t *testing.T) {
		in := inputs(3)
		in[0].Percentage = 50
		in[1].Percentage = 30
		in[2].Percentage = 20

		shares, err := domain.CalculateShares(domain.SplitPercentage, 1000, in)
		require.NoError(t, err)
		assert.Equal(t, int64(500), shares[0].Amount)
		assert.Equal(t, int64(300), shares[1].Amount)
		assert.Equal(t, int64(200), shares[2].Amount)
		assert.Equal(t, int64(1000), sumAmounts(shares))
	})

	t.Run("percentages must sum to 100", func(t *testing.T) {
		in := inputs(2)
		in[0].Percentage = 60
		in[1].Percentage = 60

		_, err := domain.CalculateShares(domain.SplitPercentage, 1000, in)
		assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	})

	t.Run("negative percentage rejected", func(t *testing.T) {
		in := inputs(2)
		in[0].Percentage = 150
		in[1].Percentage = -50

		_, err := domain.CalculateShares(domain.SplitPercentage, 1000, in)
		assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	})
}

func TestCalculateShares_Weighted(t *testing.T) {
	t.Run("splits by weight", func(t *testing.T) {
		in := inputs(3)
		in[0].Weight = 2
		in[1].Weight = 1
		in[2].Weight = 1

		shares, err := domain.CalculateShares(domain.SplitShare, 1000, in)
		require.NoError(t, err)
		assert.Equal(t, int64(500), shares[0].Amount)
		assert.Equal(t, int64(250), shares[1].Amount)
		assert.Equal(t, int64(250), shares[2].Amount)
		assert.Equal(t, 2, shares[0].ShareWeight)
		assert.InDelta(t, 50.0, shares[0].Percentage, 0.001)
	})

	t.Run("zero weight rejected", func(t *testing.T) {
		in := inputs(2)
		in[0].Weight = 1
		in[1].Weight = 0

		_, err := domain.CalculateShares(domain.SplitShare, 1000, in)
		assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	})

	t.Run("uneven weights keep rounding residue", func(t *testing.T) {
		// 100 split 1:1:1 by weight behaves like equal: 33+33+33 = 99.
		in := inputs(3)
		for i := range in {
			in[i].Weight = 1
		}

		shares, err := domain.CalculateShares(domain.SplitShare, 100, in)
		require.NoError(t, err)
		assert.Equal(t, int64(99), sumAmounts(shares))
	})
}

func TestCalculateShares_Custom(t *testing.T) {
	t.Run("passes amounts through untouched", func(t *testing.T) {
		in := inputs(3)
		in[0].Amount = 700
		in[1].Amount = 200
		in[2].Amount = 100

		shares, err := domain.CalculateShares(domain.SplitCustom, 1000, in)
		require.NoError(t, err)
		assert.Equal(t, int64(700), shares[0].Amount)
		assert.Equal(t, int64(200), shares[1].Amount)
		assert.Equal(t, int64(100), shares[2].Amount)
		assert.InDelta(t, 70.0, shares[0].Percentage, 0.001)
	})

	t.Run("within rounding tolerance", func(t *testing.T) {
		// n-1 = 2 minor units of drift allowed.
		in := inputs(3)
		in[0].Amount = 33
		in[1].Amount = 33
		in[2].Amount = 33

		_, err := domain.CalculateShares(domain.SplitCustom, 100, in)
		assert.NoError(t, err)
	})

	t.Run("beyond tolerance rejected", func(t *testing.T) {
		in := inputs(2)
		in[0].Amount = 10
		in[1].Amount = 10

		_, err := domain.CalculateShares(domain.SplitCustom, 100, in)
		assert.ErrorIs(t, err, domain.ErrSplitMismatch)
	})
}

func TestCalculateShares_Validation(t *testing.T) {
	t.Run("empty participants", func(t *testing.T) {
		_, err := domain.CalculateShares(domain.SplitEqual, 100, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	})

	t.Run("non-positive total", func(t *testing.T) {
		_, err := domain.CalculateShares(domain.SplitEqual, 0, inputs(2))
		assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	})

	t.Run("duplicate participant", func(t *testing.T) {
		in := inputs(2)
		in[1].UserID = in[0].UserID

		_, err := domain.CalculateShares(domain.SplitEqual, 100, in)
		assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := domain.CalculateShares(domain.SplitStrategy("halvsies"), 100, inputs(2))
		assert.ErrorIs(t, err, domain.ErrInvalidSplit)
	})
}
