package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/repository/postgres"
	"github.com/splitbook/splitbook/internal/service"
	"github.com/splitbook/splitbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService_CreateExpense(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	expenseService := service.NewExpenseService(repos.Expense, repos.Group)
	ctx := context.Background()

	t.Run("equal split across three members", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		c, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).
			WithMember(b.ID, domain.MemberRoleMember).
			WithMember(c.ID, domain.MemberRoleMember).
			Build(t, testDB.DB)

		expense, err := expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:   "groceries",
			Amount:        9000,
			SplitStrategy: domain.SplitEqual,
			Participants: []domain.ShareInput{
				{UserID: creator.ID}, {UserID: b.ID}, {UserID: c.ID},
			},
		})
		require.NoError(t, err)
		require.Len(t, expense.Shares, 3)

		var sum int64
		for _, share := range expense.Shares {
			assert.Equal(t, int64(3000), share.Amount)
			assert.Equal(t, domain.PaymentUnpaid, share.PaymentStatus)
			sum += share.Amount
		}
		assert.Equal(t, int64(9000), sum)
		assert.Equal(t, creator.ID, expense.PaidBy, "payer defaults to the actor")
	})

	t.Run("currency and strategy default from the group", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)

		expense, err := expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:  "solo dinner",
			Amount:       2500,
			Participants: []domain.ShareInput{{UserID: creator.ID}},
		})
		require.NoError(t, err)
		assert.Equal(t, group.Currency, expense.Currency)
		assert.Equal(t, group.DefaultSplitStrategy, expense.SplitStrategy)
	})

	t.Run("non-member participant rejected", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)

		_, err := expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:   "dinner",
			Amount:        1000,
			SplitStrategy: domain.SplitEqual,
			Participants:  []domain.ShareInput{{UserID: creator.ID}, {UserID: outsider.ID}},
		})
		assert.ErrorIs(t, err, service.ErrMemberNotInGroup)
	})

	t.Run("non-member payer rejected", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)

		_, err := expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:   "dinner",
			Amount:        1000,
			PaidBy:        outsider.ID,
			SplitStrategy: domain.SplitEqual,
			Participants:  []domain.ShareInput{{UserID: creator.ID}},
		})
		assert.ErrorIs(t, err, service.ErrMemberNotInGroup)
	})

	t.Run("non-member actor sees not found", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)

		_, err := expenseService.CreateExpense(ctx, group.ID, outsider.ID, service.CreateExpenseInput{
			Description:   "dinner",
			Amount:        1000,
			SplitStrategy: domain.SplitEqual,
			Participants:  []domain.ShareInput{{UserID: outsider.ID}},
		})
		assert.ErrorIs(t, err, service.ErrGroupNotFound)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)

		_, err := expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:   "nothing",
			Amount:        0,
			SplitStrategy: domain.SplitEqual,
			Participants:  []domain.ShareInput{{UserID: creator.ID}},
		})
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	t.Run("custom split mismatch rejected", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).WithMember(b.ID, domain.MemberRoleMember).Build(t, testDB.DB)

		_, err := expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:   "lopsided",
			Amount:        1000,
			SplitStrategy: domain.SplitCustom,
			Participants: []domain.ShareInput{
				{UserID: creator.ID, Amount: 100},
				{UserID: b.ID, Amount: 100},
			},
		})
		assert.ErrorIs(t, err, domain.ErrSplitMismatch)
	})
}

func TestExpenseService_UpdatePaymentStatus(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	expenseService := service.NewExpenseService(repos.Expense, repos.Group)
	ctx := context.Background()

	setup := func(t *testing.T) (creator, member *domain.User, expense *domain.GroupExpense) {
		testDB.Truncate(t)
		creator, _ = testutil.NewUserBuilder().Build(t, testDB.DB)
		member, _ = testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).WithMember(member.ID, domain.MemberRoleMember).Build(t, testDB.DB)

		var err error
		expense, err = expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:   "rent",
			Amount:        10000,
			SplitStrategy: domain.SplitEqual,
			Participants:  []domain.ShareInput{{UserID: creator.ID}, {UserID: member.ID}},
		})
		require.NoError(t, err)
		return creator, member, expense
	}

	t.Run("mark a share paid", func(t *testing.T) {
		_, member, expense := setup(t)

		paidAt := time.Now()
		updated, err := expenseService.UpdatePaymentStatus(ctx, expense.ID, member.ID, member.ID, domain.PaymentPaid, &paidAt)
		require.NoError(t, err)

		share := updated.Share(member.ID)
		require.NotNil(t, share)
		assert.Equal(t, domain.PaymentPaid, share.PaymentStatus)
		assert.NotNil(t, share.PaidAt)
	})

	t.Run("any transition is allowed", func(t *testing.T) {
		creator, member, expense := setup(t)

		paidAt := time.Now()
		_, err := expenseService.UpdatePaymentStatus(ctx, expense.ID, creator.ID, member.ID, domain.PaymentConfirmed, &paidAt)
		require.NoError(t, err)

		// Back to unpaid clears the timestamp.
		updated, err := expenseService.UpdatePaymentStatus(ctx, expense.ID, creator.ID, member.ID, domain.PaymentUnpaid, nil)
		require.NoError(t, err)
		share := updated.Share(member.ID)
		assert.Equal(t, domain.PaymentUnpaid, share.PaymentStatus)
		assert.Nil(t, share.PaidAt)
	})

	t.Run("member without a share", func(t *testing.T) {
		creator, _, _ := setup(t)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		soloExpense, err := expenseService.CreateExpense(ctx, group.ID, creator.ID, service.CreateExpenseInput{
			Description:   "solo",
			Amount:        500,
			SplitStrategy: domain.SplitEqual,
			Participants:  []domain.ShareInput{{UserID: creator.ID}},
		})
		require.NoError(t, err)

		_, err = expenseService.UpdatePaymentStatus(ctx, soloExpense.ID, creator.ID, uuid.New(), domain.PaymentPaid, nil)
		assert.ErrorIs(t, err, service.ErrMemberNotInSplit)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, member, expense := setup(t)

		_, err := expenseService.UpdatePaymentStatus(ctx, expense.ID, member.ID, member.ID, domain.PaymentStatus("settled"), nil)
		assert.ErrorIs(t, err, service.ErrInvalidPayment)
	})
}

func TestExpenseService_DeleteExpense(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	expenseService := service.NewExpenseService(repos.Expense, repos.Group)
	ctx := context.Background()

	testDB.Truncate(t)
	creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	payer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	bystander, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	group := testutil.NewGroupBuilder(creator.ID).
		WithMember(payer.ID, domain.MemberRoleMember).
		WithMember(bystander.ID, domain.MemberRoleMember).
		Build(t, testDB.DB)

	expense, err := expenseService.CreateExpense(ctx, group.ID, payer.ID, service.CreateExpenseInput{
		Description:   "taxi",
		Amount:        3000,
		SplitStrategy: domain.SplitEqual,
		Participants:  []domain.ShareInput{{UserID: payer.ID}, {UserID: bystander.ID}},
	})
	require.NoError(t, err)

	err = expenseService.DeleteExpense(ctx, expense.ID, bystander.ID)
	assert.ErrorIs(t, err, service.ErrNotExpenseOwner)

	// Payer can delete their own expense.
	require.NoError(t, expenseService.DeleteExpense(ctx, expense.ID, payer.ID))

	_, err = expenseService.GetExpense(ctx, expense.ID, creator.ID)
	assert.ErrorIs(t, err, service.ErrExpenseNotFound)
}
