package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wallet/internal/core"
)

// Report kinds accepted in export requests.
const (
	ReportSummary          = "summary"
	ReportIncomeBySource   = "income-by-source"
	ReportBalanceByStorage = "balance-by-storage"
	ReportExpenseVsBudget  = "expense-vs-budget"
	ReportExpenseTemplate  = "expense-template"
)

var ErrUnknownReport = errors.New("unknown report")

// ReportExportMessage asks the worker to compute a report and write it to the
// export target. Range reports use DateFrom, DateTo and GroupBy; the budget
// report uses Year and Month.
type ReportExportMessage struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Report    string    `json:"report"`
	DateFrom  string    `json:"date_from,omitempty"`
	DateTo    string    `json:"date_to,omitempty"`
	GroupBy   string    `json:"group_by,omitempty"`
	Year      int       `json:"year,omitempty"`
	Month     int       `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportExportMessage stamps a request with a fresh id and the current time.
func NewReportExportMessage(userID int64, report string) *ReportExportMessage {
	return &ReportExportMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Report:    report,
		Timestamp: time.Now().UTC(),
	}
}

// IsRangeReport reports whether the report takes a date range and granularity.
func IsRangeReport(report string) bool {
	switch report {
	case ReportSummary, ReportIncomeBySource, ReportBalanceByStorage:
		return true
	}
	return false
}

// Validate checks the parameters the report kind needs. Date and granularity
// errors wrap the core sentinels.
func (m *ReportExportMessage) Validate() error {
	if m.UserID <= 0 {
		return core.ErrMissingUser
	}
	switch {
	case IsRangeReport(m.Report):
		if _, err := core.ParseDate(m.DateFrom); err != nil {
			return fmt.Errorf("date_from: %w", err)
		}
		if _, err := core.ParseDate(m.DateTo); err != nil {
			return fmt.Errorf("date_to: %w", err)
		}
		if _, err := core.ParseGranularity(m.GroupBy); err != nil {
			return err
		}
	case m.Report == ReportExpenseVsBudget:
		if m.Month < 1 || m.Month > 12 {
			return core.ErrInvalidMonth
		}
		if m.Year < 1 || m.Year > 9999 {
			return core.ErrInvalidYear
		}
	case m.Report == ReportExpenseTemplate:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownReport, m.Report)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
