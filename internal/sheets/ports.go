// Package sheets defines the export port report tables are written through.
package sheets

import "context"

// ReportTable is a rendered report: a title naming the destination tab, a
// header row and string cells.
type ReportTable struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Width is the number of columns of the widest row, header included.
func (t ReportTable) Width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

type ReportWriter interface {
	// WriteReport replaces the destination tab contents with the table and
	// returns a reference to the written range.
	WriteReport(ctx context.Context, table ReportTable) (ref string, err error)
}
