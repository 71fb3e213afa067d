package storage

import (
	"context"
	"database/sql"
	"fmt"

	"wallet/internal/core"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the SQL statements of the repository.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// periodExpr truncates a YYYY-MM-DD text column to the first day of its
// period. Quarters start in months 1, 4, 7 and 10.
func periodExpr(g core.Granularity, column string) string {
	switch g {
	case core.Year:
		return fmt.Sprintf("strftime('%%Y-01-01', %s)", column)
	case core.Quarter:
		return fmt.Sprintf("printf('%%s-%%02d-01', strftime('%%Y', %[1]s), ((CAST(strftime('%%m', %[1]s) AS INTEGER) - 1) / 3) * 3 + 1)", column)
	default:
		return fmt.Sprintf("strftime('%%Y-%%m-01', %s)", column)
	}
}

const insertReturningID = " RETURNING id"

const createCurrency = `INSERT INTO currencies (user_id, code, symbol) VALUES (?, ?, ?)` + insertReturningID

func (q *Queries) CreateCurrency(ctx context.Context, userID int64, code, symbol string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createCurrency, userID, code, symbol).Scan(&id)
	return id, err
}

const createStorageLocation = `INSERT INTO storage_locations (user_id, name) VALUES (?, ?)` + insertReturningID

func (q *Queries) CreateStorageLocation(ctx context.Context, userID int64, name string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createStorageLocation, userID, name).Scan(&id)
	return id, err
}

const createStorageAccount = `INSERT INTO storage_accounts (user_id, storage_location_id, currency_id) VALUES (?, ?, ?)` + insertReturningID

func (q *Queries) CreateStorageAccount(ctx context.Context, userID, locationID, currencyID int64) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createStorageAccount, userID, locationID, currencyID).Scan(&id)
	return id, err
}

const createIncomeSource = `INSERT INTO income_sources (user_id, name) VALUES (?, ?)` + insertReturningID

func (q *Queries) CreateIncomeSource(ctx context.Context, userID int64, name string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createIncomeSource, userID, name).Scan(&id)
	return id, err
}

const createExpenseCategory = `INSERT INTO expense_categories (user_id, name, budgeted_cents, is_tax, is_rent)
VALUES (?, ?, ?, ?, ?)` + insertReturningID

type CreateExpenseCategoryParams struct {
	UserID        int64
	Name          string
	BudgetedCents int64
	IsTax         bool
	IsRent        bool
}

func (q *Queries) CreateExpenseCategory(ctx context.Context, arg CreateExpenseCategoryParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createExpenseCategory,
		arg.UserID, arg.Name, arg.BudgetedCents, boolToInt(arg.IsTax), boolToInt(arg.IsRent),
	).Scan(&id)
	return id, err
}

const createTransaction = `INSERT INTO transactions (
    user_id, type, date, amount_cents, description, currency_id,
    storage_account_id, income_source_id, expense_category_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)` + insertReturningID

type CreateTransactionParams struct {
	UserID            int64
	Type              string
	Date              string
	AmountCents       int64
	Description       string
	CurrencyID        int64
	StorageAccountID  int64
	IncomeSourceID    sql.NullInt64
	ExpenseCategoryID sql.NullInt64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createTransaction,
		arg.UserID,
		arg.Type,
		arg.Date,
		arg.AmountCents,
		arg.Description,
		arg.CurrencyID,
		arg.StorageAccountID,
		arg.IncomeSourceID,
		arg.ExpenseCategoryID,
	).Scan(&id)
	return id, err
}

const createBalanceSnapshot = `INSERT INTO balance_snapshots (user_id, storage_account_id, date, amount_cents)
VALUES (?, ?, ?, ?)` + insertReturningID

func (q *Queries) CreateBalanceSnapshot(ctx context.Context, userID, accountID int64, date string, amountCents int64) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createBalanceSnapshot, userID, accountID, date, amountCents).Scan(&id)
	return id, err
}

const sumByPeriod = `SELECT %s AS period, SUM(amount_cents)
FROM transactions
WHERE user_id = ? AND type = ? AND date >= ? AND date <= ?
GROUP BY period`

type PeriodSum struct {
	Period     string
	TotalCents int64
}

func (q *Queries) SumByPeriod(ctx context.Context, g core.Granularity, userID int64, txType, from, to string) ([]PeriodSum, error) {
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(sumByPeriod, periodExpr(g, "date")), userID, txType, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PeriodSum
	for rows.Next() {
		var i PeriodSum
		if err := rows.Scan(&i.Period, &i.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const incomeBySourcePeriod = `SELECT %s AS period, s.name, SUM(t.amount_cents)
FROM transactions t
LEFT JOIN income_sources s ON s.id = t.income_source_id AND s.user_id = t.user_id
WHERE t.user_id = ? AND t.type = 'income' AND t.date >= ? AND t.date <= ?
GROUP BY period, s.name
ORDER BY period`

type SourcePeriodSum struct {
	Period     string
	Source     sql.NullString
	TotalCents int64
}

func (q *Queries) IncomeBySourcePeriod(ctx context.Context, g core.Granularity, userID int64, from, to string) ([]SourcePeriodSum, error) {
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(incomeBySourcePeriod, periodExpr(g, "t.date")), userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SourcePeriodSum
	for rows.Next() {
		var i SourcePeriodSum
		if err := rows.Scan(&i.Period, &i.Source, &i.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const expenseByCategory = `SELECT expense_category_id, SUM(amount_cents)
FROM transactions
WHERE user_id = ? AND type = 'expense' AND expense_category_id IS NOT NULL
  AND date >= ? AND date <= ?
GROUP BY expense_category_id`

type CategorySum struct {
	CategoryID int64
	TotalCents int64
}

func (q *Queries) ExpenseByCategory(ctx context.Context, userID int64, from, to string) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, expenseByCategory, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategorySum
	for rows.Next() {
		var i CategorySum
		if err := rows.Scan(&i.CategoryID, &i.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const latestSnapshots = `SELECT b.storage_account_id, b.date, COALESCE(l.name, ''), COALESCE(c.code, ''), b.amount_cents
FROM balance_snapshots b
JOIN (
    SELECT storage_account_id, MAX(date) AS max_date
    FROM balance_snapshots
    WHERE user_id = ? AND date <= ?
    GROUP BY storage_account_id
) m ON m.storage_account_id = b.storage_account_id AND m.max_date = b.date
LEFT JOIN storage_accounts a ON a.id = b.storage_account_id
LEFT JOIN storage_locations l ON l.id = a.storage_location_id
LEFT JOIN currencies c ON c.id = a.currency_id
WHERE b.user_id = ?
ORDER BY b.storage_account_id, b.id`

type SnapshotRow struct {
	StorageAccountID int64
	Date             string
	Location         string
	Currency         string
	AmountCents      int64
}

func (q *Queries) LatestSnapshots(ctx context.Context, userID int64, at string) ([]SnapshotRow, error) {
	rows, err := q.db.QueryContext(ctx, latestSnapshots, userID, at, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SnapshotRow
	for rows.Next() {
		var i SnapshotRow
		if err := rows.Scan(&i.StorageAccountID, &i.Date, &i.Location, &i.Currency, &i.AmountCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const latestSnapshotsByPeriod = `SELECT m.period, b.storage_account_id, b.date, COALESCE(l.name, ''), COALESCE(c.code, ''), b.amount_cents
FROM balance_snapshots b
JOIN (
    SELECT %s AS period, storage_account_id, MAX(date) AS max_date
    FROM balance_snapshots
    WHERE user_id = ? AND date >= ? AND date <= ?
    GROUP BY period, storage_account_id
) m ON m.storage_account_id = b.storage_account_id AND m.max_date = b.date
LEFT JOIN storage_accounts a ON a.id = b.storage_account_id
LEFT JOIN storage_locations l ON l.id = a.storage_location_id
LEFT JOIN currencies c ON c.id = a.currency_id
WHERE b.user_id = ?
ORDER BY m.period, b.storage_account_id, b.id`

type PeriodSnapshotRow struct {
	Period string
	SnapshotRow
}

func (q *Queries) LatestSnapshotsByPeriod(ctx context.Context, g core.Granularity, userID int64, from, to string) ([]PeriodSnapshotRow, error) {
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(latestSnapshotsByPeriod, periodExpr(g, "date")), userID, from, to, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PeriodSnapshotRow
	for rows.Next() {
		var i PeriodSnapshotRow
		if err := rows.Scan(&i.Period, &i.StorageAccountID, &i.Date, &i.Location, &i.Currency, &i.AmountCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listExpenseCategories = `SELECT id, user_id, name, budgeted_cents, is_tax, is_rent
FROM expense_categories
WHERE user_id = ?
ORDER BY name, id`

type ExpenseCategoryRow struct {
	ID            int64
	UserID        int64
	Name          string
	BudgetedCents int64
	IsTax         int64
	IsRent        int64
}

func (q *Queries) ListExpenseCategories(ctx context.Context, userID int64) ([]ExpenseCategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenseCategories, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseCategoryRow
	for rows.Next() {
		var i ExpenseCategoryRow
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name, &i.BudgetedCents, &i.IsTax, &i.IsRent); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
