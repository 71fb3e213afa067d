package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const dateLayout = "2006-01-02"

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Currency struct {
		ID     int64
		UserID int64
		Code   string
		Symbol string
	}

	StorageLocation struct {
		ID     int64
		UserID int64
		Name   string
	}

	// StorageAccount is one place money is held: a location in a currency.
	StorageAccount struct {
		ID                int64
		UserID            int64
		StorageLocationID int64
		CurrencyID        int64
	}

	IncomeSource struct {
		ID     int64
		UserID int64
		Name   string
	}

	ExpenseCategory struct {
		ID             int64
		UserID         int64
		Name           string
		BudgetedAmount Money
		IsTax          bool
		IsRent         bool
	}

	// Transaction amounts are always positive; the sign is carried by Type.
	Transaction struct {
		ID                int64
		UserID            int64
		Type              TransactionType
		Date              Date
		Amount            Money
		Description       string
		CurrencyID        int64
		StorageAccountID  int64
		IncomeSourceID    *int64 // optional
		ExpenseCategoryID *int64 // optional
	}

	// BalanceSnapshot is an observed balance of a storage account on a date.
	BalanceSnapshot struct {
		ID               int64
		UserID           int64
		StorageAccountID int64
		Date             Date
		Amount           Money
	}
)

var (
	ErrInvalidDay             = errors.New("invalid day")
	ErrInvalidMonth           = errors.New("invalid month")
	ErrInvalidYear            = errors.New("invalid year")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidType            = errors.New("invalid transaction type")
	ErrInvalidGranularity     = errors.New("invalid granularity")
	ErrEmptyName              = errors.New("empty name")
	ErrEmptyCurrencyCode      = errors.New("empty currency code")
	ErrMissingUser            = errors.New("missing user")
	ErrMissingStorageAccount  = errors.New("missing storage account")
	ErrNegativeBudgetedAmount = errors.New("budgeted amount cannot be negative")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day. Out of range values are
// normalized the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date n months later. Only safe on the first of a month.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (t Transaction) Validate() error {
	if t.UserID <= 0 {
		return ErrMissingUser
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.StorageAccountID <= 0 {
		return ErrMissingStorageAccount
	}
	if len(t.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	return nil
}

func (s BalanceSnapshot) Validate() error {
	if s.UserID <= 0 {
		return ErrMissingUser
	}
	if s.StorageAccountID <= 0 {
		return ErrMissingStorageAccount
	}
	return s.Date.Validate()
}

func (c ExpenseCategory) Validate() error {
	if c.UserID <= 0 {
		return ErrMissingUser
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if c.BudgetedAmount.IsNegative() {
		return ErrNegativeBudgetedAmount
	}
	return nil
}

func (c Currency) Validate() error {
	if c.UserID <= 0 {
		return ErrMissingUser
	}
	if strings.TrimSpace(c.Code) == "" {
		return ErrEmptyCurrencyCode
	}
	return nil
}
