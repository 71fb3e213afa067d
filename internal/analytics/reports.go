// Package analytics builds period-based financial reports from the ledger
// and the balance snapshots of a single user.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
)

const otherSource = "Other"

// Reporter is the report surface consumed by the HTTP layer and the export
// worker. Service and CachedService implement it.
type Reporter interface {
	Summary(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]SummaryRow, error)
	IncomeBySource(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]IncomeBySourceRow, error)
	BalanceByStorage(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]StorageBalanceRow, error)
	BudgetVsActual(ctx context.Context, userID int64, year, month int) ([]BudgetRow, error)
	ExpenseTemplate(ctx context.Context, userID int64) (ExpenseTemplate, error)
}

type SummaryRow struct {
	Period         core.Date             `json:"period"`
	Income         core.Money            `json:"income"`
	Expenses       core.Money            `json:"expenses"`
	Profit         core.Money            `json:"profit"`
	DerivedExpense core.Money            `json:"derived_expense"`
	AvgIncome      core.Money            `json:"avg_income"`
	AvgProfit      core.Money            `json:"avg_profit"`
	Balances       map[string]core.Money `json:"balances"`
	BalanceChange  map[string]core.Money `json:"balance_change"`
}

type IncomeBySourceRow struct {
	Period  core.Date             `json:"period"`
	Total   core.Money            `json:"total"`
	Sources map[string]core.Money `json:"sources"`
}

type AccountAmount struct {
	Name     string     `json:"name"`
	Currency string     `json:"currency"`
	Amount   core.Money `json:"amount"`
}

type StorageBalanceRow struct {
	Period   core.Date             `json:"period"`
	Accounts []AccountAmount       `json:"accounts"`
	Totals   map[string]core.Money `json:"totals"`
}

type BudgetRow struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Budgeted  core.Money `json:"budgeted"`
	Actual    core.Money `json:"actual"`
	Remaining core.Money `json:"remaining"`
}

type TemplateItem struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	BudgetedAmount core.Money `json:"budgeted_amount"`
	IsTax          bool       `json:"is_tax"`
	IsRent         bool       `json:"is_rent"`
}

type ExpenseTemplate struct {
	Items             []TemplateItem `json:"items"`
	Total             core.Money     `json:"total"`
	WithoutTax        core.Money     `json:"without_tax"`
	WithoutRent       core.Money     `json:"without_rent"`
	WithoutTaxAndRent core.Money     `json:"without_tax_and_rent"`
}

// Service computes reports straight from the store.
type Service struct {
	store    Store
	balances *Reconstructor
}

// NewService returns a Service resolving balance anchors with at most
// concurrency parallel store lookups.
func NewService(store Store, concurrency int) *Service {
	return &Service{store: store, balances: NewReconstructor(store, concurrency)}
}

// runningAverage is the mean of the strictly positive values observed so far.
type runningAverage struct {
	sum   decimal.Decimal
	count int64
}

func (a *runningAverage) observe(v decimal.Decimal) {
	if v.IsPositive() {
		a.sum = a.sum.Add(v)
		a.count++
	}
}

// value rounds half-up to two decimals. Only positive values are summed, so
// half away from zero is the same thing.
func (a *runningAverage) value() decimal.Decimal {
	if a.count == 0 {
		return decimal.Zero
	}
	return a.sum.DivRound(decimal.NewFromInt(a.count), 2)
}

// Summary reports, for each period, recorded income and the change in
// reconstructed balances. Profit is the sum of the balance changes over all
// currencies without conversion; recorded expenses are informational only.
// An empty slice is returned when the range holds no periods, or when the
// user has no data for it: no transactions and no balance at any anchor.
// Quiet periods with held balances still get a row.
func (s *Service) Summary(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]SummaryRow, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	periods := GeneratePeriods(from, to, g)
	if len(periods) == 0 {
		return []SummaryRow{}, nil
	}
	first, last := periods[0].Start, periods[len(periods)-1].End

	income, err := s.store.SumByPeriod(ctx, userID, core.Income, first, last, g)
	if err != nil {
		return nil, fmt.Errorf("income by period: %w", err)
	}
	expenses, err := s.store.SumByPeriod(ctx, userID, core.Expense, first, last, g)
	if err != nil {
		return nil, fmt.Errorf("expenses by period: %w", err)
	}

	opening := first.AddDays(-1)
	anchors := make([]core.Date, 0, len(periods)+1)
	anchors = append(anchors, opening)
	for _, p := range periods {
		anchors = append(anchors, p.End)
	}
	balances, err := s.balances.BalancesAt(ctx, userID, anchors)
	if err != nil {
		return nil, err
	}
	prev := balances[opening.String()]
	if len(income) == 0 && len(expenses) == 0 && noBalances(balances) {
		return []SummaryRow{}, nil
	}

	var avgIncome, avgProfit runningAverage
	rows := make([]SummaryRow, 0, len(periods))
	for _, p := range periods {
		cur := balances[p.End.String()]
		change := diffBalances(cur, prev)

		in := income[p.Key()]
		profit := decimal.Zero
		for _, v := range change {
			profit = profit.Add(v)
		}
		avgIncome.observe(in)
		avgProfit.observe(profit)

		rows = append(rows, SummaryRow{
			Period:         p.Start,
			Income:         core.NewMoney(in),
			Expenses:       core.NewMoney(expenses[p.Key()]),
			Profit:         core.NewMoney(profit),
			DerivedExpense: core.NewMoney(profit.Sub(in)),
			AvgIncome:      core.NewMoney(avgIncome.value()),
			AvgProfit:      core.NewMoney(avgProfit.value()),
			Balances:       toMoneyMap(cur),
			BalanceChange:  toMoneyMap(change),
		})
		prev = cur
	}
	return rows, nil
}

func noBalances(anchors map[string]Balances) bool {
	for _, b := range anchors {
		if len(b) > 0 {
			return false
		}
	}
	return true
}

// diffBalances returns cur - prev over the union of their currencies.
func diffBalances(cur, prev Balances) Balances {
	out := make(Balances, len(cur))
	for code, v := range cur {
		out[code] = v.Sub(prev[code])
	}
	for code, v := range prev {
		if _, ok := cur[code]; !ok {
			out[code] = v.Neg()
		}
	}
	return out
}

func toMoneyMap(b Balances) map[string]core.Money {
	out := make(map[string]core.Money, len(b))
	for k, v := range b {
		out[k] = core.NewMoney(v)
	}
	return out
}

// IncomeBySource groups income by period and source name. Income without a
// resolvable source is reported under "Other". Periods without income are
// not emitted.
func (s *Service) IncomeBySource(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]IncomeBySourceRow, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if from.After(to) {
		return []IncomeBySourceRow{}, nil
	}
	totals, err := s.store.IncomeBySourcePeriod(ctx, userID, from, to, g)
	if err != nil {
		return nil, fmt.Errorf("income by source: %w", err)
	}

	byPeriod := make(map[string]*IncomeBySourceRow)
	for _, t := range totals {
		key := t.Period.String()
		row, ok := byPeriod[key]
		if !ok {
			row = &IncomeBySourceRow{Period: t.Period, Sources: make(map[string]core.Money)}
			byPeriod[key] = row
		}
		name := otherSource
		if t.Source != nil && *t.Source != "" {
			name = *t.Source
		}
		row.Sources[name] = core.SumMoney(row.Sources[name], core.NewMoney(t.Total))
		row.Total = core.SumMoney(row.Total, core.NewMoney(t.Total))
	}

	rows := make([]IncomeBySourceRow, 0, len(byPeriod))
	for _, row := range byPeriod {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period.Before(rows[j].Period) })
	return rows, nil
}

// BalanceByStorage reports, per period, the latest snapshot of each account
// observed within that period. Accounts are labelled "{location} {currency}"
// and sorted by label. Periods without snapshots are not emitted.
func (s *Service) BalanceByStorage(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]StorageBalanceRow, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if from.After(to) {
		return []StorageBalanceRow{}, nil
	}
	snaps, err := s.store.LatestSnapshotsByPeriod(ctx, userID, from, to, g)
	if err != nil {
		return nil, fmt.Errorf("balance by storage: %w", err)
	}

	type accountKey struct {
		period  string
		account int64
	}
	accounts := make(map[accountKey]*AccountAmount)
	byPeriod := make(map[string]*StorageBalanceRow)
	for _, snap := range snaps {
		key := snap.Period.String()
		row, ok := byPeriod[key]
		if !ok {
			row = &StorageBalanceRow{Period: snap.Period, Totals: make(map[string]core.Money)}
			byPeriod[key] = row
		}
		location, currency := labelOrUnknown(snap.Location), labelOrUnknown(snap.Currency)
		amount := core.NewMoney(snap.Amount)

		ak := accountKey{period: key, account: snap.StorageAccountID}
		if acc, ok := accounts[ak]; ok {
			acc.Amount = core.SumMoney(acc.Amount, amount)
		} else {
			accounts[ak] = &AccountAmount{Name: location + " " + currency, Currency: currency, Amount: amount}
		}
		row.Totals[currency] = core.SumMoney(row.Totals[currency], amount)
	}
	for ak, acc := range accounts {
		row := byPeriod[ak.period]
		row.Accounts = append(row.Accounts, *acc)
	}

	rows := make([]StorageBalanceRow, 0, len(byPeriod))
	for _, row := range byPeriod {
		sort.Slice(row.Accounts, func(i, j int) bool {
			if row.Accounts[i].Name != row.Accounts[j].Name {
				return row.Accounts[i].Name < row.Accounts[j].Name
			}
			return row.Accounts[i].Amount.LessThan(row.Accounts[j].Amount.Decimal)
		})
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period.Before(rows[j].Period) })
	return rows, nil
}

func labelOrUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}

// BudgetVsActual compares each category budget with the expenses recorded
// against it in the given month. Categories are ordered by name.
func (s *Service) BudgetVsActual(ctx context.Context, userID int64, year, month int) ([]BudgetRow, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	if year < 1 || year > 9999 {
		return nil, core.ErrInvalidYear
	}
	start := core.NewDate(year, month, 1)
	end := start.AddMonths(1).AddDays(-1)

	categories, err := s.store.ListExpenseCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	actuals, err := s.store.ExpenseByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}

	sortCategories(categories)
	rows := make([]BudgetRow, 0, len(categories))
	for _, c := range categories {
		actual := core.NewMoney(actuals[c.ID])
		rows = append(rows, BudgetRow{
			ID:        c.ID,
			Name:      c.Name,
			Budgeted:  c.BudgetedAmount,
			Actual:    actual,
			Remaining: core.NewMoney(c.BudgetedAmount.Sub(actual.Decimal)),
		})
	}
	return rows, nil
}

// ExpenseTemplate lists the budgeted categories with totals excluding tax
// and rent categories.
func (s *Service) ExpenseTemplate(ctx context.Context, userID int64) (ExpenseTemplate, error) {
	categories, err := s.store.ListExpenseCategories(ctx, userID)
	if err != nil {
		return ExpenseTemplate{}, fmt.Errorf("list expense categories: %w", err)
	}
	sortCategories(categories)

	total, tax, rent := decimal.Zero, decimal.Zero, decimal.Zero
	items := make([]TemplateItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, TemplateItem{
			ID:             c.ID,
			Name:           c.Name,
			BudgetedAmount: c.BudgetedAmount,
			IsTax:          c.IsTax,
			IsRent:         c.IsRent,
		})
		total = total.Add(c.BudgetedAmount.Decimal)
		if c.IsTax {
			tax = tax.Add(c.BudgetedAmount.Decimal)
		}
		if c.IsRent {
			rent = rent.Add(c.BudgetedAmount.Decimal)
		}
	}
	return ExpenseTemplate{
		Items:             items,
		Total:             core.NewMoney(total),
		WithoutTax:        core.NewMoney(total.Sub(tax)),
		WithoutRent:       core.NewMoney(total.Sub(rent)),
		WithoutTaxAndRent: core.NewMoney(total.Sub(tax).Sub(rent)),
	}, nil
}

func sortCategories(cs []core.ExpenseCategory) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].ID < cs[j].ID
	})
}
