// Package google writes report tables to a Google Sheets spreadsheet, one tab
// per export title.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"wallet/internal/log"
	"wallet/internal/sheets"
)

const maxTitleLength = 100

var _ sheets.ReportWriter = (*Client)(nil)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

// Credentials selects the service account key. JSON wins over File.
type Credentials struct {
	JSON string
	File string
}

// New creates a client authenticated with a service account key.
func New(ctx context.Context, spreadsheetID string, creds Credentials, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	credentialsJSON, err := creds.load()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, spreadsheetID, logger), nil
}

// NewWithService wraps an existing service, typically one pointed at a test
// endpoint.
func NewWithService(svc *gsheet.Service, spreadsheetID string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.FromContext(context.Background()).WithComponent(log.ComponentSheets)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, logger: logger}
}

func (c Credentials) load() ([]byte, error) {
	switch {
	case strings.TrimSpace(c.JSON) != "":
		return []byte(c.JSON), nil
	case strings.TrimSpace(c.File) != "":
		b, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// WriteReport creates the tab when missing, clears it and writes the header
// and rows starting at A1.
func (c *Client) WriteReport(ctx context.Context, table sheets.ReportTable) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	title := sanitizeTitle(table.Title)
	if title == "" {
		return "", errors.New("report table title is required")
	}

	if err := c.ensureSheet(ctx, title); err != nil {
		return "", err
	}

	quoted := quoteSheet(title)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, quoted, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", title, err)
	}

	values := toValues(table)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, quoted+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("update %s: %w", title, err)
	}

	ref := fmt.Sprintf("%s!A1:%s%d", quoted, columnName(max(1, table.Width())), len(values))
	c.logger.InfoContext(ctx, "Report written to Google Sheets",
		log.FieldSheetsRef, ref, log.FieldRows, len(table.Rows))
	return ref, nil
}

func (c *Client) ensureSheet(ctx context.Context, title string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	c.logger.DebugContext(ctx, "Created sheet tab", "title", title)
	return nil
}

func toValues(table sheets.ReportTable) [][]any {
	out := make([][]any, 0, len(table.Rows)+1)
	if len(table.Header) > 0 {
		out = append(out, toRow(table.Header))
	}
	for _, r := range table.Rows {
		out = append(out, toRow(r))
	}
	return out
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, v := range cells {
		row[i] = v
	}
	return row
}

// sanitizeTitle drops characters Sheets rejects in tab names and truncates to
// the maximum title length.
func sanitizeTitle(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '*', '?', '/', '\\', ':':
			return -1
		}
		if r < 32 {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxTitleLength {
		s = strings.TrimSpace(string(r[:maxTitleLength]))
	}
	return s
}

// quoteSheet quotes a tab name for A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// columnName converts a 1-based column index to its letters (1=A, 27=AA).
func columnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
