// Package memory keeps the ledger in process memory. It backs the memory data
// backend and serves as a fixture in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"wallet/internal/analytics"
	"wallet/internal/core"
)

type Store struct {
	mu         sync.RWMutex
	nextID     int64
	currencies map[int64]core.Currency
	locations  map[int64]core.StorageLocation
	accounts   map[int64]core.StorageAccount
	sources    map[int64]core.IncomeSource
	categories map[int64]core.ExpenseCategory
	txs        []core.Transaction
	snapshots  []core.BalanceSnapshot
}

var _ analytics.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		currencies: make(map[int64]core.Currency),
		locations:  make(map[int64]core.StorageLocation),
		accounts:   make(map[int64]core.StorageAccount),
		sources:    make(map[int64]core.IncomeSource),
		categories: make(map[int64]core.ExpenseCategory),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// id must be called with the write lock held.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateCurrency(_ context.Context, c core.Currency) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.currencies[c.ID] = c
	return c.ID, nil
}

func (s *Store) CreateStorageLocation(_ context.Context, l core.StorageLocation) (int64, error) {
	if l.UserID <= 0 {
		return 0, core.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id()
	s.locations[l.ID] = l
	return l.ID, nil
}

func (s *Store) CreateStorageAccount(_ context.Context, a core.StorageAccount) (int64, error) {
	if a.UserID <= 0 {
		return 0, core.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	s.accounts[a.ID] = a
	return a.ID, nil
}

func (s *Store) CreateIncomeSource(_ context.Context, src core.IncomeSource) (int64, error) {
	if src.UserID <= 0 {
		return 0, core.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	src.ID = s.id()
	s.sources[src.ID] = src
	return src.ID, nil
}

func (s *Store) CreateExpenseCategory(_ context.Context, c core.ExpenseCategory) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.categories[c.ID] = c
	return c.ID, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	s.txs = append(s.txs, t)
	return t.ID, nil
}

func (s *Store) CreateBalanceSnapshot(_ context.Context, b core.BalanceSnapshot) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.snapshots = append(s.snapshots, b)
	return b.ID, nil
}

func inRange(d, from, to core.Date) bool {
	return !d.Before(from) && !d.After(to)
}

func (s *Store) SumByPeriod(_ context.Context, userID int64, txType core.TransactionType, from, to core.Date, g core.Granularity) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]decimal.Decimal)
	for _, t := range s.txs {
		if t.UserID != userID || t.Type != txType || !inRange(t.Date, from, to) {
			continue
		}
		key := analytics.Truncate(t.Date, g).String()
		out[key] = out[key].Add(t.Amount.Decimal)
	}
	return out, nil
}

func (s *Store) IncomeBySourcePeriod(_ context.Context, userID int64, from, to core.Date, g core.Granularity) ([]analytics.SourceTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct {
		period string
		source string
		known  bool
	}
	totals := make(map[key]*analytics.SourceTotal)
	var order []key
	for _, t := range s.txs {
		if t.UserID != userID || t.Type != core.Income || !inRange(t.Date, from, to) {
			continue
		}
		period := analytics.Truncate(t.Date, g)
		k := key{period: period.String()}
		if t.IncomeSourceID != nil {
			if src, ok := s.sources[*t.IncomeSourceID]; ok && src.UserID == userID {
				k.source, k.known = src.Name, true
			}
		}
		st, ok := totals[k]
		if !ok {
			st = &analytics.SourceTotal{Period: period}
			if k.known {
				name := k.source
				st.Source = &name
			}
			totals[k] = st
			order = append(order, k)
		}
		st.Total = st.Total.Add(t.Amount.Decimal)
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].period < order[j].period })
	out := make([]analytics.SourceTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *totals[k])
	}
	return out, nil
}

func (s *Store) ExpenseByCategory(_ context.Context, userID int64, from, to core.Date) (map[int64]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]decimal.Decimal)
	for _, t := range s.txs {
		if t.UserID != userID || t.Type != core.Expense || t.ExpenseCategoryID == nil || !inRange(t.Date, from, to) {
			continue
		}
		out[*t.ExpenseCategoryID] = out[*t.ExpenseCategoryID].Add(t.Amount.Decimal)
	}
	return out, nil
}

// latest returns, per group key, every snapshot carrying the greatest date
// among those accepted by keep. Rows are ordered by key, account and id.
func (s *Store) latest(userID int64, keep func(core.BalanceSnapshot) (string, bool)) []groupedSnapshot {
	type groupKey struct {
		group   string
		account int64
	}
	best := make(map[groupKey][]core.BalanceSnapshot)
	for _, b := range s.snapshots {
		if b.UserID != userID {
			continue
		}
		group, ok := keep(b)
		if !ok {
			continue
		}
		k := groupKey{group: group, account: b.StorageAccountID}
		cur := best[k]
		switch {
		case len(cur) == 0 || b.Date.After(cur[0].Date):
			best[k] = []core.BalanceSnapshot{b}
		case b.Date.Equal(cur[0].Date):
			best[k] = append(cur, b)
		}
	}

	var out []groupedSnapshot
	for k, snaps := range best {
		for _, b := range snaps {
			out = append(out, groupedSnapshot{group: k.group, snapshot: b})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.group != b.group {
			return a.group < b.group
		}
		if a.snapshot.StorageAccountID != b.snapshot.StorageAccountID {
			return a.snapshot.StorageAccountID < b.snapshot.StorageAccountID
		}
		return a.snapshot.ID < b.snapshot.ID
	})
	return out
}

type groupedSnapshot struct {
	group    string
	snapshot core.BalanceSnapshot
}

func (s *Store) accountBalance(b core.BalanceSnapshot) analytics.AccountBalance {
	ab := analytics.AccountBalance{
		StorageAccountID: b.StorageAccountID,
		Date:             b.Date,
		Amount:           b.Amount.Decimal,
	}
	if acc, ok := s.accounts[b.StorageAccountID]; ok {
		ab.Location = s.locations[acc.StorageLocationID].Name
		ab.Currency = s.currencies[acc.CurrencyID].Code
	}
	return ab
}

func (s *Store) LatestSnapshots(_ context.Context, userID int64, at core.Date) ([]analytics.AccountBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.latest(userID, func(b core.BalanceSnapshot) (string, bool) {
		return "", !b.Date.After(at)
	})
	out := make([]analytics.AccountBalance, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.accountBalance(r.snapshot))
	}
	return out, nil
}

func (s *Store) LatestSnapshotsByPeriod(_ context.Context, userID int64, from, to core.Date, g core.Granularity) ([]analytics.PeriodAccountBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.latest(userID, func(b core.BalanceSnapshot) (string, bool) {
		return analytics.Truncate(b.Date, g).String(), inRange(b.Date, from, to)
	})
	out := make([]analytics.PeriodAccountBalance, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.PeriodAccountBalance{
			Period:         core.MustParseDate(r.group),
			AccountBalance: s.accountBalance(r.snapshot),
		})
	}
	return out, nil
}

func (s *Store) ListExpenseCategories(_ context.Context, userID int64) ([]core.ExpenseCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.ExpenseCategory
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
