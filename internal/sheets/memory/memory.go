package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"wallet/internal/sheets"
)

var _ sheets.ReportWriter = (*Writer)(nil)

// Writer keeps written tables in memory, keyed by title. Writing a title again
// replaces the previous table, like the Google adapter does.
type Writer struct {
	mu     sync.Mutex
	tables map[string]sheets.ReportTable
	writes int
}

func New() *Writer {
	return &Writer{tables: make(map[string]sheets.ReportTable)}
}

func (w *Writer) WriteReport(_ context.Context, table sheets.ReportTable) (string, error) {
	title := strings.TrimSpace(table.Title)
	if title == "" {
		return "", errors.New("report table title is required")
	}

	stored := sheets.ReportTable{
		Title:  title,
		Header: append([]string(nil), table.Header...),
		Rows:   make([][]string, len(table.Rows)),
	}
	for i, r := range table.Rows {
		stored.Rows[i] = append([]string(nil), r...)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.tables[title] = stored
	w.writes++
	return fmt.Sprintf("mem:%s:%d", title, w.writes), nil
}

// Table returns the last table written under title.
func (w *Writer) Table(title string) (sheets.ReportTable, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.tables[title]
	return t, ok
}

// Titles lists the written titles in no particular order.
func (w *Writer) Titles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.tables))
	for k := range w.tables {
		out = append(out, k)
	}
	return out
}
