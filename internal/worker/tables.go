package worker

import (
	"fmt"
	"sort"
	"strconv"

	"wallet/internal/analytics"
	"wallet/internal/core"
	"wallet/internal/sheets"
)

// reportTitle names the destination tab. It carries the user and every
// parameter so exports of different requests never overwrite each other.
func reportTitle(userID int64, report string, params ...string) string {
	title := fmt.Sprintf("user %d %s", userID, report)
	for _, p := range params {
		if p != "" {
			title += " " + p
		}
	}
	return title
}

func summaryTable(title string, rows []analytics.SummaryRow) sheets.ReportTable {
	var currencies []string
	for _, r := range rows {
		currencies = mergeKeys(currencies, r.Balances)
	}

	header := []string{"period", "income", "expenses", "profit", "derived_expense", "avg_income", "avg_profit"}
	for _, c := range currencies {
		header = append(header, "balance "+c, "change "+c)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{
			r.Period.String(),
			r.Income.String(),
			r.Expenses.String(),
			r.Profit.String(),
			r.DerivedExpense.String(),
			r.AvgIncome.String(),
			r.AvgProfit.String(),
		}
		for _, c := range currencies {
			line = append(line, cell(r.Balances, c), cell(r.BalanceChange, c))
		}
		out = append(out, line)
	}
	return sheets.ReportTable{Title: title, Header: header, Rows: out}
}

func incomeBySourceTable(title string, rows []analytics.IncomeBySourceRow) sheets.ReportTable {
	var sources []string
	for _, r := range rows {
		sources = mergeKeys(sources, r.Sources)
	}

	header := append([]string{"period", "total"}, sources...)
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.Period.String(), r.Total.String()}
		for _, s := range sources {
			line = append(line, cell(r.Sources, s))
		}
		out = append(out, line)
	}
	return sheets.ReportTable{Title: title, Header: header, Rows: out}
}

// balanceByStorageTable writes one line per account followed by one "Total"
// line per currency for each period.
func balanceByStorageTable(title string, rows []analytics.StorageBalanceRow) sheets.ReportTable {
	var out [][]string
	for _, r := range rows {
		period := r.Period.String()
		for _, a := range r.Accounts {
			out = append(out, []string{period, a.Name, a.Currency, a.Amount.String()})
		}
		for _, c := range sortedKeys(r.Totals) {
			out = append(out, []string{period, "Total", c, r.Totals[c].String()})
		}
	}
	return sheets.ReportTable{
		Title:  title,
		Header: []string{"period", "account", "currency", "amount"},
		Rows:   out,
	}
}

func budgetTable(title string, rows []analytics.BudgetRow) sheets.ReportTable {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Budgeted.String(),
			r.Actual.String(),
			r.Remaining.String(),
		})
	}
	return sheets.ReportTable{
		Title:  title,
		Header: []string{"id", "name", "budgeted", "actual", "remaining"},
		Rows:   out,
	}
}

func templateTable(title string, tpl analytics.ExpenseTemplate) sheets.ReportTable {
	out := make([][]string, 0, len(tpl.Items)+4)
	for _, it := range tpl.Items {
		out = append(out, []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			it.BudgetedAmount.String(),
			strconv.FormatBool(it.IsTax),
			strconv.FormatBool(it.IsRent),
		})
	}
	out = append(out,
		[]string{"", "total", tpl.Total.String()},
		[]string{"", "without_tax", tpl.WithoutTax.String()},
		[]string{"", "without_rent", tpl.WithoutRent.String()},
		[]string{"", "without_tax_and_rent", tpl.WithoutTaxAndRent.String()},
	)
	return sheets.ReportTable{
		Title:  title,
		Header: []string{"id", "name", "budgeted_amount", "is_tax", "is_rent"},
		Rows:   out,
	}
}

// cell is empty when the key is absent, so a missing balance is not
// mistaken for a zero one.
func cell(m map[string]core.Money, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return v.String()
}

func mergeKeys(keys []string, m map[string]core.Money) []string {
	for k := range m {
		i := sort.SearchStrings(keys, k)
		if i < len(keys) && keys[i] == k {
			continue
		}
		keys = append(keys, "")
		copy(keys[i+1:], keys[i:])
		keys[i] = k
	}
	return keys
}

func sortedKeys(m map[string]core.Money) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
