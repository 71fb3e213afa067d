// Package storage persists the ledger and balance snapshots in SQLite and
// answers the aggregate queries the analytics reports need.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"wallet/internal/analytics"
	"wallet/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ analytics.Store = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateCurrency(ctx context.Context, c core.Currency) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateCurrency(ctx, c.UserID, c.Code, c.Symbol)
	if err != nil {
		return 0, fmt.Errorf("create currency: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreateStorageLocation(ctx context.Context, l core.StorageLocation) (int64, error) {
	if l.UserID <= 0 {
		return 0, core.ErrMissingUser
	}
	id, err := r.queries.CreateStorageLocation(ctx, l.UserID, l.Name)
	if err != nil {
		return 0, fmt.Errorf("create storage location: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreateStorageAccount(ctx context.Context, a core.StorageAccount) (int64, error) {
	if a.UserID <= 0 {
		return 0, core.ErrMissingUser
	}
	id, err := r.queries.CreateStorageAccount(ctx, a.UserID, a.StorageLocationID, a.CurrencyID)
	if err != nil {
		return 0, fmt.Errorf("create storage account: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreateIncomeSource(ctx context.Context, s core.IncomeSource) (int64, error) {
	if s.UserID <= 0 {
		return 0, core.ErrMissingUser
	}
	id, err := r.queries.CreateIncomeSource(ctx, s.UserID, s.Name)
	if err != nil {
		return 0, fmt.Errorf("create income source: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreateExpenseCategory(ctx context.Context, c core.ExpenseCategory) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateExpenseCategory(ctx, CreateExpenseCategoryParams{
		UserID:        c.UserID,
		Name:          c.Name,
		BudgetedCents: c.BudgetedAmount.Cents(),
		IsTax:         c.IsTax,
		IsRent:        c.IsRent,
	})
	if err != nil {
		return 0, fmt.Errorf("create expense category: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:            t.UserID,
		Type:              string(t.Type),
		Date:              t.Date.String(),
		AmountCents:       t.Amount.Cents(),
		Description:       t.Description,
		CurrencyID:        t.CurrencyID,
		StorageAccountID:  t.StorageAccountID,
		IncomeSourceID:    nullInt64(t.IncomeSourceID),
		ExpenseCategoryID: nullInt64(t.ExpenseCategoryID),
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"user_id", t.UserID,
		"type", t.Type,
		"amount", t.Amount.String(),
		"date", t.Date.String())

	return id, nil
}

func (r *SQLiteRepository) CreateBalanceSnapshot(ctx context.Context, s core.BalanceSnapshot) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateBalanceSnapshot(ctx, s.UserID, s.StorageAccountID, s.Date.String(), s.Amount.Cents())
	if err != nil {
		return 0, fmt.Errorf("create balance snapshot: %w", err)
	}
	return id, nil
}

// SumByPeriod implements analytics.LedgerReader
func (r *SQLiteRepository) SumByPeriod(ctx context.Context, userID int64, txType core.TransactionType, from, to core.Date, g core.Granularity) (map[string]decimal.Decimal, error) {
	rows, err := r.queries.SumByPeriod(ctx, g, userID, string(txType), from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("sum %s by period: %w", txType, err)
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Period] = centsToDecimal(row.TotalCents)
	}
	return out, nil
}

// IncomeBySourcePeriod implements analytics.LedgerReader
func (r *SQLiteRepository) IncomeBySourcePeriod(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]analytics.SourceTotal, error) {
	rows, err := r.queries.IncomeBySourcePeriod(ctx, g, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("income by source: %w", err)
	}
	out := make([]analytics.SourceTotal, 0, len(rows))
	for _, row := range rows {
		period, err := core.ParseDate(row.Period)
		if err != nil {
			return nil, fmt.Errorf("parse period %q: %w", row.Period, err)
		}
		var source *string
		if row.Source.Valid {
			name := row.Source.String
			source = &name
		}
		out = append(out, analytics.SourceTotal{Period: period, Source: source, Total: centsToDecimal(row.TotalCents)})
	}
	return out, nil
}

// ExpenseByCategory implements analytics.LedgerReader
func (r *SQLiteRepository) ExpenseByCategory(ctx context.Context, userID int64, from, to core.Date) (map[int64]decimal.Decimal, error) {
	rows, err := r.queries.ExpenseByCategory(ctx, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("expense by category: %w", err)
	}
	out := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = centsToDecimal(row.TotalCents)
	}
	return out, nil
}

// LatestSnapshots implements analytics.SnapshotReader
func (r *SQLiteRepository) LatestSnapshots(ctx context.Context, userID int64, at core.Date) ([]analytics.AccountBalance, error) {
	rows, err := r.queries.LatestSnapshots(ctx, userID, at.String())
	if err != nil {
		return nil, fmt.Errorf("latest snapshots: %w", err)
	}
	out := make([]analytics.AccountBalance, 0, len(rows))
	for _, row := range rows {
		b, err := row.toAccountBalance()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// LatestSnapshotsByPeriod implements analytics.SnapshotReader
func (r *SQLiteRepository) LatestSnapshotsByPeriod(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]analytics.PeriodAccountBalance, error) {
	rows, err := r.queries.LatestSnapshotsByPeriod(ctx, g, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("latest snapshots by period: %w", err)
	}
	out := make([]analytics.PeriodAccountBalance, 0, len(rows))
	for _, row := range rows {
		period, err := core.ParseDate(row.Period)
		if err != nil {
			return nil, fmt.Errorf("parse period %q: %w", row.Period, err)
		}
		b, err := row.toAccountBalance()
		if err != nil {
			return nil, err
		}
		out = append(out, analytics.PeriodAccountBalance{Period: period, AccountBalance: b})
	}
	return out, nil
}

// ListExpenseCategories implements analytics.CategoryReader
func (r *SQLiteRepository) ListExpenseCategories(ctx context.Context, userID int64) ([]core.ExpenseCategory, error) {
	rows, err := r.queries.ListExpenseCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	out := make([]core.ExpenseCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.ExpenseCategory{
			ID:             row.ID,
			UserID:         row.UserID,
			Name:           row.Name,
			BudgetedAmount: core.MoneyFromCents(row.BudgetedCents),
			IsTax:          row.IsTax != 0,
			IsRent:         row.IsRent != 0,
		})
	}
	return out, nil
}

func (row SnapshotRow) toAccountBalance() (analytics.AccountBalance, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return analytics.AccountBalance{}, fmt.Errorf("parse snapshot date %q: %w", row.Date, err)
	}
	return analytics.AccountBalance{
		StorageAccountID: row.StorageAccountID,
		Date:             d,
		Location:         row.Location,
		Currency:         row.Currency,
		Amount:           centsToDecimal(row.AmountCents),
	}, nil
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
