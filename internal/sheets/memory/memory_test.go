package memory

import (
	"context"
	"testing"

	"wallet/internal/sheets"
)

func TestWriterStoresCopies(t *testing.T) {
	w := New()
	rows := [][]string{{"2025-01-01", "10.00"}}
	table := sheets.ReportTable{Title: " Summary ", Header: []string{"period", "income"}, Rows: rows}

	ref, err := w.WriteReport(context.Background(), table)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if ref != "mem:Summary:1" {
		t.Fatalf("ref = %q", ref)
	}

	rows[0][1] = "changed"
	got, ok := w.Table("Summary")
	if !ok {
		t.Fatal("table not stored under trimmed title")
	}
	if got.Rows[0][1] != "10.00" {
		t.Fatalf("stored table was mutated: %v", got.Rows)
	}
}

func TestWriterReplacesByTitle(t *testing.T) {
	w := New()
	ctx := context.Background()
	_, _ = w.WriteReport(ctx, sheets.ReportTable{Title: "T", Rows: [][]string{{"a"}}})
	ref, _ := w.WriteReport(ctx, sheets.ReportTable{Title: "T", Rows: [][]string{{"b"}, {"c"}}})

	if ref != "mem:T:2" {
		t.Fatalf("ref = %q", ref)
	}
	got, _ := w.Table("T")
	if len(got.Rows) != 2 || len(w.Titles()) != 1 {
		t.Fatalf("unexpected state: %+v %v", got, w.Titles())
	}
}

func TestWriterRejectsEmptyTitle(t *testing.T) {
	if _, err := New().WriteReport(context.Background(), sheets.ReportTable{Title: "  "}); err == nil {
		t.Fatal("expected error")
	}
}

func TestReportTableWidth(t *testing.T) {
	table := sheets.ReportTable{Header: []string{"a", "b"}, Rows: [][]string{{"1"}, {"1", "2", "3"}}}
	if table.Width() != 3 {
		t.Fatalf("Width() = %d", table.Width())
	}
}
