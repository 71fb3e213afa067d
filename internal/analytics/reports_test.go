package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/analytics"
	"wallet/internal/analytics/mocks"
	"wallet/internal/core"
)

func date(s string) core.Date { return core.MustParseDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func snapshotsAt(byDate map[string][]analytics.AccountBalance) func(context.Context, int64, core.Date) ([]analytics.AccountBalance, error) {
	return func(_ context.Context, _ int64, at core.Date) ([]analytics.AccountBalance, error) {
		return byDate[at.String()], nil
	}
}

func TestService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	from, to := date("2025-01-01"), date("2025-02-28")

	store.EXPECT().
		SumByPeriod(gomock.Any(), int64(1), core.Income, from, to, core.Month).
		Return(map[string]decimal.Decimal{"2025-01-01": dec("3000.00"), "2025-02-01": dec("3200.00")}, nil)
	store.EXPECT().
		SumByPeriod(gomock.Any(), int64(1), core.Expense, from, to, core.Month).
		Return(map[string]decimal.Decimal{"2025-01-01": dec("500.00"), "2025-02-01": dec("600.00")}, nil)
	store.EXPECT().
		LatestSnapshots(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(snapshotsAt(map[string][]analytics.AccountBalance{
			"2025-01-31": {{StorageAccountID: 1, Currency: "USD", Amount: dec("10000.00")}},
			"2025-02-28": {
				{StorageAccountID: 1, Currency: "USD", Amount: dec("12000.00")},
				{StorageAccountID: 2, Currency: "EUR", Amount: dec("50.00")},
			},
		})).
		Times(3)

	svc := analytics.NewService(store, 2)
	rows, err := svc.Summary(context.Background(), 1, from, to, core.Month)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	jan, feb := rows[0], rows[1]
	assert.Equal(t, "2025-01-01", jan.Period.String())
	assert.Equal(t, "3000.00", jan.Income.String())
	assert.Equal(t, "500.00", jan.Expenses.String())
	assert.Equal(t, "10000.00", jan.Profit.String())
	assert.Equal(t, "7000.00", jan.DerivedExpense.String())
	assert.Equal(t, "3000.00", jan.AvgIncome.String())
	assert.Equal(t, "10000.00", jan.AvgProfit.String())
	assert.Equal(t, "10000.00", jan.BalanceChange["USD"].String())

	assert.Equal(t, "2025-02-01", feb.Period.String())
	assert.Equal(t, "2050.00", feb.Profit.String())
	assert.Equal(t, "-1150.00", feb.DerivedExpense.String())
	assert.Equal(t, "3100.00", feb.AvgIncome.String())
	assert.Equal(t, "6025.00", feb.AvgProfit.String())
	assert.Equal(t, "2000.00", feb.BalanceChange["USD"].String())
	assert.Equal(t, "50.00", feb.BalanceChange["EUR"].String())
	assert.Equal(t, "12000.00", feb.Balances["USD"].String())
}

func TestService_SummaryCurrencyDisappears(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().SumByPeriod(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[string]decimal.Decimal{}, nil).Times(2)
	store.EXPECT().
		LatestSnapshots(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(snapshotsAt(map[string][]analytics.AccountBalance{
			"2024-12-31": {{StorageAccountID: 3, Currency: "EUR", Amount: dec("100.00")}},
		})).
		Times(2)

	rows, err := analytics.NewService(store, 1).Summary(context.Background(), 1, date("2025-01-10"), date("2025-01-20"), core.Month)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "-100.00", rows[0].BalanceChange["EUR"].String())
	assert.Equal(t, "-100.00", rows[0].Profit.String())
	assert.Equal(t, "0.00", rows[0].AvgProfit.String())
	assert.Empty(t, rows[0].Balances)
}

func TestService_SummaryQuietRangeKeepsHeldBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().SumByPeriod(gomock.Any(), int64(1), gomock.Any(), gomock.Any(), gomock.Any(), core.Month).
		Return(map[string]decimal.Decimal{}, nil).Times(2)
	held := []analytics.AccountBalance{{StorageAccountID: 1, Currency: "USD", Amount: dec("10000.00")}}
	store.EXPECT().LatestSnapshots(gomock.Any(), int64(1), gomock.Any()).Return(held, nil).Times(4)

	rows, err := analytics.NewService(store, 2).Summary(context.Background(), 1, date("2025-01-01"), date("2025-03-31"), core.Month)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, want := range []string{"2025-01-01", "2025-02-01", "2025-03-01"} {
		assert.Equal(t, want, rows[i].Period.String())
		assert.Equal(t, "10000.00", rows[i].Balances["USD"].String())
		assert.Equal(t, "0.00", rows[i].BalanceChange["USD"].String())
		assert.Equal(t, "0.00", rows[i].Profit.String())
		assert.Equal(t, "0.00", rows[i].Income.String())
	}
}

func TestService_SummaryEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := analytics.NewService(store, 4)

	t.Run("inverted range touches no store", func(t *testing.T) {
		rows, err := svc.Summary(context.Background(), 1, date("2025-02-01"), date("2025-01-01"), core.Month)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("range without any data", func(t *testing.T) {
		store.EXPECT().SumByPeriod(gomock.Any(), int64(1), gomock.Any(), gomock.Any(), gomock.Any(), core.Month).
			Return(map[string]decimal.Decimal{}, nil).Times(2)
		store.EXPECT().LatestSnapshots(gomock.Any(), int64(1), gomock.Any()).Return(nil, nil).Times(13)

		rows, err := svc.Summary(context.Background(), 1, date("2099-01-01"), date("2099-12-31"), core.Month)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("invalid granularity", func(t *testing.T) {
		_, err := svc.Summary(context.Background(), 1, date("2025-01-01"), date("2025-02-01"), core.Granularity("week"))
		assert.ErrorIs(t, err, core.ErrInvalidGranularity)
	})
}

func TestService_SummaryStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("database is locked")
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().SumByPeriod(gomock.Any(), gomock.Any(), core.Income, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, boom)

	rows, err := analytics.NewService(store, 1).Summary(context.Background(), 1, date("2025-01-01"), date("2025-03-01"), core.Month)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, rows)
}

func TestService_SummaryBalanceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("connection reset")
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().SumByPeriod(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[string]decimal.Decimal{}, nil).Times(2)
	store.EXPECT().LatestSnapshots(gomock.Any(), int64(1), date("2025-01-31")).Return(nil, boom)
	store.EXPECT().LatestSnapshots(gomock.Any(), int64(1), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := analytics.NewService(store, 1).Summary(context.Background(), 1, date("2025-01-01"), date("2025-03-01"), core.Month)
	assert.ErrorIs(t, err, boom)
}

func TestService_IncomeBySource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	from, to := date("2025-01-01"), date("2025-03-31")
	store.EXPECT().IncomeBySourcePeriod(gomock.Any(), int64(7), from, to, core.Month).
		Return([]analytics.SourceTotal{
			{Period: date("2025-03-01"), Source: strPtr("Salary"), Total: dec("3200")},
			{Period: date("2025-01-01"), Source: strPtr("Salary"), Total: dec("3000")},
			{Period: date("2025-01-01"), Source: nil, Total: dec("10.50")},
			{Period: date("2025-01-01"), Source: strPtr(""), Total: dec("4.50")},
		}, nil)

	rows, err := analytics.NewService(store, 1).IncomeBySource(context.Background(), 7, from, to, core.Month)
	require.NoError(t, err)

	// February has no income and is not emitted.
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-01-01", rows[0].Period.String())
	assert.Equal(t, "3015.00", rows[0].Total.String())
	assert.Equal(t, "15.00", rows[0].Sources["Other"].String())
	assert.Equal(t, "3000.00", rows[0].Sources["Salary"].String())
	assert.Equal(t, "2025-03-01", rows[1].Period.String())
	assert.Equal(t, "3200.00", rows[1].Total.String())
}

func TestService_BalanceByStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	from, to := date("2025-01-01"), date("2025-06-30")
	row := func(period string, account int64, location, currency, amount string) analytics.PeriodAccountBalance {
		return analytics.PeriodAccountBalance{
			Period: date(period),
			AccountBalance: analytics.AccountBalance{
				StorageAccountID: account,
				Location:         location,
				Currency:         currency,
				Amount:           dec(amount),
			},
		}
	}
	store.EXPECT().LatestSnapshotsByPeriod(gomock.Any(), int64(1), from, to, core.Quarter).
		Return([]analytics.PeriodAccountBalance{
			row("2025-04-01", 1, "Wise", "USD", "100"),
			row("2025-01-01", 2, "Revolut", "EUR", "200"),
			row("2025-01-01", 1, "Wise", "USD", "300"),
			row("2025-01-01", 1, "Wise", "USD", "5"), // same account, same date
			row("2025-01-01", 3, "", "EUR", "1"),
		}, nil)

	rows, err := analytics.NewService(store, 1).BalanceByStorage(context.Background(), 1, from, to, core.Quarter)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	q1 := rows[0]
	assert.Equal(t, "2025-01-01", q1.Period.String())
	require.Len(t, q1.Accounts, 3)
	assert.Equal(t, "? EUR", q1.Accounts[0].Name)
	assert.Equal(t, "1.00", q1.Accounts[0].Amount.String())
	assert.Equal(t, "Revolut EUR", q1.Accounts[1].Name)
	assert.Equal(t, "Wise USD", q1.Accounts[2].Name)
	assert.Equal(t, "305.00", q1.Accounts[2].Amount.String())
	assert.Equal(t, "201.00", q1.Totals["EUR"].String())
	assert.Equal(t, "305.00", q1.Totals["USD"].String())

	assert.Equal(t, "2025-04-01", rows[1].Period.String())
	assert.Equal(t, "100.00", rows[1].Totals["USD"].String())
}

func TestService_BudgetVsActual(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := analytics.NewService(store, 1)

	store.EXPECT().ListExpenseCategories(gomock.Any(), int64(1)).
		Return([]core.ExpenseCategory{
			{ID: 2, UserID: 1, Name: "Rent", BudgetedAmount: core.MoneyFromCents(100000)},
			{ID: 1, UserID: 1, Name: "Food", BudgetedAmount: core.MoneyFromCents(50000)},
		}, nil)
	store.EXPECT().ExpenseByCategory(gomock.Any(), int64(1), date("2024-02-01"), date("2024-02-29")).
		Return(map[int64]decimal.Decimal{2: dec("1000.00")}, nil)

	rows, err := svc.BudgetVsActual(context.Background(), 1, 2024, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Food", rows[0].Name)
	assert.Equal(t, "0.00", rows[0].Actual.String())
	assert.Equal(t, "500.00", rows[0].Remaining.String())
	assert.Equal(t, "Rent", rows[1].Name)
	assert.Equal(t, "1000.00", rows[1].Actual.String())
	assert.Equal(t, "0.00", rows[1].Remaining.String())

	for _, month := range []int{0, 13} {
		_, err := svc.BudgetVsActual(context.Background(), 1, 2024, month)
		assert.ErrorIs(t, err, core.ErrInvalidMonth)
	}
}

func TestService_ExpenseTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().ListExpenseCategories(gomock.Any(), int64(1)).
		Return([]core.ExpenseCategory{
			{ID: 1, Name: "Food", BudgetedAmount: core.MoneyFromCents(50000)},
			{ID: 2, Name: "Tax", BudgetedAmount: core.MoneyFromCents(20000), IsTax: true},
			{ID: 3, Name: "Flat", BudgetedAmount: core.MoneyFromCents(80000), IsRent: true},
		}, nil)

	tpl, err := analytics.NewService(store, 1).ExpenseTemplate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tpl.Items, 3)
	assert.Equal(t, "Flat", tpl.Items[0].Name)
	assert.Equal(t, "1500.00", tpl.Total.String())
	assert.Equal(t, "1300.00", tpl.WithoutTax.String())
	assert.Equal(t, "700.00", tpl.WithoutRent.String())
	assert.Equal(t, "500.00", tpl.WithoutTaxAndRent.String())
}
