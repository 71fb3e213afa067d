// Package seed loads a JSON description of one or more ledgers into a store.
// Entities reference each other through local "ref" names so the same file
// loads into any backend regardless of the ids it assigns.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"wallet/internal/core"
)

// Writer is implemented by every data backend.
type Writer interface {
	CreateCurrency(ctx context.Context, c core.Currency) (int64, error)
	CreateStorageLocation(ctx context.Context, l core.StorageLocation) (int64, error)
	CreateStorageAccount(ctx context.Context, a core.StorageAccount) (int64, error)
	CreateIncomeSource(ctx context.Context, s core.IncomeSource) (int64, error)
	CreateExpenseCategory(ctx context.Context, c core.ExpenseCategory) (int64, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	CreateBalanceSnapshot(ctx context.Context, s core.BalanceSnapshot) (int64, error)
}

type Dataset struct {
	Users []Ledger `json:"users"`
}

type Ledger struct {
	UserID            int64         `json:"user_id"`
	Currencies        []Currency    `json:"currencies"`
	Locations         []Named       `json:"locations"`
	Accounts          []Account     `json:"accounts"`
	IncomeSources     []Named       `json:"income_sources"`
	ExpenseCategories []Category    `json:"expense_categories"`
	Transactions      []Transaction `json:"transactions"`
	Snapshots         []Snapshot    `json:"snapshots"`
}

type Currency struct {
	Ref    string `json:"ref"`
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

type Named struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

type Account struct {
	Ref      string `json:"ref"`
	Location string `json:"location"`
	Currency string `json:"currency"`
}

type Category struct {
	Ref            string `json:"ref"`
	Name           string `json:"name"`
	BudgetedAmount string `json:"budgeted_amount"`
	IsTax          bool   `json:"is_tax"`
	IsRent         bool   `json:"is_rent"`
}

type Transaction struct {
	Type        string `json:"type"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Account     string `json:"account"`
	Source      string `json:"source,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type Snapshot struct {
	Account string `json:"account"`
	Date    string `json:"date"`
	Amount  string `json:"amount"`
}

// Stats counts what a Load created.
type Stats struct {
	Transactions int
	Snapshots    int
	Categories   int
}

// LoadFile decodes the dataset at path and loads it into w.
func LoadFile(ctx context.Context, w Writer, path string) (Stats, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("read seed file: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return Stats{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return Load(ctx, w, ds)
}

// Load writes every ledger of ds into w. It stops at the first invalid entity.
func Load(ctx context.Context, w Writer, ds Dataset) (Stats, error) {
	var total Stats
	for _, l := range ds.Users {
		st, err := loadLedger(ctx, w, l)
		total.Transactions += st.Transactions
		total.Snapshots += st.Snapshots
		total.Categories += st.Categories
		if err != nil {
			return total, fmt.Errorf("user %d: %w", l.UserID, err)
		}
	}
	return total, nil
}

type account struct {
	id         int64
	currencyID int64
}

func loadLedger(ctx context.Context, w Writer, l Ledger) (Stats, error) {
	var st Stats
	user := l.UserID
	if user <= 0 {
		return st, core.ErrMissingUser
	}

	currencies := make(map[string]int64)
	for _, c := range l.Currencies {
		id, err := w.CreateCurrency(ctx, core.Currency{UserID: user, Code: c.Code, Symbol: c.Symbol})
		if err != nil {
			return st, fmt.Errorf("currency %q: %w", c.Ref, err)
		}
		currencies[c.Ref] = id
	}

	locations := make(map[string]int64)
	for _, n := range l.Locations {
		id, err := w.CreateStorageLocation(ctx, core.StorageLocation{UserID: user, Name: n.Name})
		if err != nil {
			return st, fmt.Errorf("location %q: %w", n.Ref, err)
		}
		locations[n.Ref] = id
	}

	accounts := make(map[string]account)
	for _, a := range l.Accounts {
		loc, ok := locations[a.Location]
		if !ok {
			return st, fmt.Errorf("account %q: unknown location %q", a.Ref, a.Location)
		}
		cur, ok := currencies[a.Currency]
		if !ok {
			return st, fmt.Errorf("account %q: unknown currency %q", a.Ref, a.Currency)
		}
		id, err := w.CreateStorageAccount(ctx, core.StorageAccount{UserID: user, StorageLocationID: loc, CurrencyID: cur})
		if err != nil {
			return st, fmt.Errorf("account %q: %w", a.Ref, err)
		}
		accounts[a.Ref] = account{id: id, currencyID: cur}
	}

	sources := make(map[string]int64)
	for _, n := range l.IncomeSources {
		id, err := w.CreateIncomeSource(ctx, core.IncomeSource{UserID: user, Name: n.Name})
		if err != nil {
			return st, fmt.Errorf("income source %q: %w", n.Ref, err)
		}
		sources[n.Ref] = id
	}

	categories := make(map[string]int64)
	for _, c := range l.ExpenseCategories {
		budget := core.MoneyFromCents(0)
		if c.BudgetedAmount != "" {
			m, err := core.ParseSignedAmount(c.BudgetedAmount)
			if err != nil {
				return st, fmt.Errorf("category %q: %w", c.Ref, err)
			}
			budget = m
		}
		id, err := w.CreateExpenseCategory(ctx, core.ExpenseCategory{
			UserID: user, Name: c.Name, BudgetedAmount: budget, IsTax: c.IsTax, IsRent: c.IsRent,
		})
		if err != nil {
			return st, fmt.Errorf("category %q: %w", c.Ref, err)
		}
		categories[c.Ref] = id
		st.Categories++
	}

	for i, t := range l.Transactions {
		tx, err := buildTransaction(user, t, accounts, sources, categories)
		if err != nil {
			return st, fmt.Errorf("transaction %d: %w", i, err)
		}
		if _, err := w.CreateTransaction(ctx, tx); err != nil {
			return st, fmt.Errorf("transaction %d: %w", i, err)
		}
		st.Transactions++
	}

	for i, s := range l.Snapshots {
		acc, ok := accounts[s.Account]
		if !ok {
			return st, fmt.Errorf("snapshot %d: unknown account %q", i, s.Account)
		}
		date, err := core.ParseDate(s.Date)
		if err != nil {
			return st, fmt.Errorf("snapshot %d: %w", i, err)
		}
		amount, err := core.ParseSignedAmount(s.Amount)
		if err != nil {
			return st, fmt.Errorf("snapshot %d: %w", i, err)
		}
		if _, err := w.CreateBalanceSnapshot(ctx, core.BalanceSnapshot{
			UserID: user, StorageAccountID: acc.id, Date: date, Amount: amount,
		}); err != nil {
			return st, fmt.Errorf("snapshot %d: %w", i, err)
		}
		st.Snapshots++
	}
	return st, nil
}

func buildTransaction(user int64, t Transaction, accounts map[string]account, sources, categories map[string]int64) (core.Transaction, error) {
	acc, ok := accounts[t.Account]
	if !ok {
		return core.Transaction{}, fmt.Errorf("unknown account %q", t.Account)
	}
	date, err := core.ParseDate(t.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(t.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		UserID:           user,
		Type:             core.TransactionType(t.Type),
		Date:             date,
		Amount:           amount,
		Description:      t.Description,
		CurrencyID:       acc.currencyID,
		StorageAccountID: acc.id,
	}
	if t.Source != "" {
		id, ok := sources[t.Source]
		if !ok {
			return core.Transaction{}, fmt.Errorf("unknown income source %q", t.Source)
		}
		tx.IncomeSourceID = &id
	}
	if t.Category != "" {
		id, ok := categories[t.Category]
		if !ok {
			return core.Transaction{}, fmt.Errorf("unknown expense category %q", t.Category)
		}
		tx.ExpenseCategoryID = &id
	}
	return tx, nil
}
