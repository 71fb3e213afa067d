package analytics

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

// LedgerReader aggregates transactions on the store side. Periods are keyed by
// the YYYY-MM-DD string of their first day as produced by Truncate.
type LedgerReader interface {
	SumByPeriod(ctx context.Context, userID int64, txType core.TransactionType, from, to core.Date, g core.Granularity) (map[string]decimal.Decimal, error)
	IncomeBySourcePeriod(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]SourceTotal, error)
	ExpenseByCategory(ctx context.Context, userID int64, from, to core.Date) (map[int64]decimal.Decimal, error)
}

// SnapshotReader resolves balance snapshots.
type SnapshotReader interface {
	// LatestSnapshots returns, for each account, the snapshot rows carrying
	// the greatest date not after at.
	LatestSnapshots(ctx context.Context, userID int64, at core.Date) ([]AccountBalance, error)
	// LatestSnapshotsByPeriod returns, for each period and account with at
	// least one snapshot inside [from, to], the latest snapshot rows in that
	// period.
	LatestSnapshotsByPeriod(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]PeriodAccountBalance, error)
}

// CategoryReader lists the expense categories of a user.
type CategoryReader interface {
	ListExpenseCategories(ctx context.Context, userID int64) ([]core.ExpenseCategory, error)
}

// Store is everything the report builder reads.
type Store interface {
	LedgerReader
	SnapshotReader
	CategoryReader
}

// SourceTotal is the income of one source in one period. Source is nil when
// the transaction has no source or the source cannot be resolved.
type SourceTotal struct {
	Period core.Date
	Source *string
	Total  decimal.Decimal
}

// AccountBalance is one snapshot row joined to its account labels. Location
// and Currency are empty when the joined rows are missing.
type AccountBalance struct {
	StorageAccountID int64
	Date             core.Date
	Location         string
	Currency         string
	Amount           decimal.Decimal
}

// PeriodAccountBalance is the latest snapshot of an account within Period.
type PeriodAccountBalance struct {
	Period core.Date
	AccountBalance
}
