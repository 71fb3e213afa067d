// Package worker runs report exports requested over AMQP.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet/internal/amqp"
	"wallet/internal/analytics"
	"wallet/internal/core"
	"wallet/internal/log"
	"wallet/internal/sheets"
)

// ErrInvalidRequest marks export requests that can never succeed.
var ErrInvalidRequest = errors.New("invalid export request")

// ExportWorker computes the requested report and writes it through the export
// port.
type ExportWorker struct {
	reports analytics.Reporter
	writer  sheets.ReportWriter
	logger  *log.Logger
	timeout time.Duration
}

func NewExportWorker(reports analytics.Reporter, writer sheets.ReportWriter, logger *log.Logger, timeout time.Duration) *ExportWorker {
	if logger == nil {
		logger = log.FromContext(context.Background()).WithComponent(log.ComponentWorker)
	}
	return &ExportWorker{reports: reports, writer: writer, logger: logger, timeout: timeout}
}

// HandleExportMessage processes one export request. Invalid requests are
// logged and swallowed so the broker does not redeliver them; report and
// write failures are returned so the message is requeued.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ReportExportMessage) error {
	start := time.Now()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	table, err := w.BuildTable(ctx, msg)
	if errors.Is(err, ErrInvalidRequest) {
		w.logger.WarnContext(ctx, "Dropping invalid export request",
			log.NewFields().WithExport(msg.ID.String(), "").WithError(err).ToSlice()...)
		return nil
	}
	if err != nil {
		return err
	}

	ref, err := w.writer.WriteReport(ctx, table)
	if err != nil {
		return fmt.Errorf("write report %q: %w", table.Title, err)
	}

	fields := log.NewFields().
		WithExport(msg.ID.String(), ref).
		WithReport(msg.Report, msg.UserID, msg.DateFrom, msg.DateTo, msg.GroupBy)
	fields[log.FieldRows] = len(table.Rows)
	fields[log.FieldDuration] = time.Since(start).Milliseconds()
	w.logger.InfoContext(ctx, "Report exported", fields.ToSlice()...)
	return nil
}

// BuildTable computes the report named by msg and renders it as a table.
func (w *ExportWorker) BuildTable(ctx context.Context, msg *amqp.ReportExportMessage) (sheets.ReportTable, error) {
	if err := msg.Validate(); err != nil {
		return sheets.ReportTable{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if amqp.IsRangeReport(msg.Report) {
		// Validate has already checked these
		from, _ := core.ParseDate(msg.DateFrom)
		to, _ := core.ParseDate(msg.DateTo)
		g, _ := core.ParseGranularity(msg.GroupBy)
		title := reportTitle(msg.UserID, msg.Report, from.String(), to.String(), g.String())

		switch msg.Report {
		case amqp.ReportSummary:
			rows, err := w.reports.Summary(ctx, msg.UserID, from, to, g)
			if err != nil {
				return sheets.ReportTable{}, fmt.Errorf("summary: %w", err)
			}
			return summaryTable(title, rows), nil
		case amqp.ReportIncomeBySource:
			rows, err := w.reports.IncomeBySource(ctx, msg.UserID, from, to, g)
			if err != nil {
				return sheets.ReportTable{}, fmt.Errorf("income by source: %w", err)
			}
			return incomeBySourceTable(title, rows), nil
		default:
			rows, err := w.reports.BalanceByStorage(ctx, msg.UserID, from, to, g)
			if err != nil {
				return sheets.ReportTable{}, fmt.Errorf("balance by storage: %w", err)
			}
			return balanceByStorageTable(title, rows), nil
		}
	}

	if msg.Report == amqp.ReportExpenseVsBudget {
		rows, err := w.reports.BudgetVsActual(ctx, msg.UserID, msg.Year, msg.Month)
		if err != nil {
			return sheets.ReportTable{}, fmt.Errorf("budget vs actual: %w", err)
		}
		ym := fmt.Sprintf("%04d-%02d", msg.Year, msg.Month)
		return budgetTable(reportTitle(msg.UserID, msg.Report, ym), rows), nil
	}

	tpl, err := w.reports.ExpenseTemplate(ctx, msg.UserID)
	if err != nil {
		return sheets.ReportTable{}, fmt.Errorf("expense template: %w", err)
	}
	return templateTable(reportTitle(msg.UserID, msg.Report), tpl), nil
}
