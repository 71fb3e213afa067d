package amqp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"wallet/internal/core"
	"wallet/internal/log"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, 1 * time.Second},
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{64, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"other error", errors.New("some other error"), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "wallet", queueName: "report_exports"}

	if client.isCircuitOpen() {
		t.Fatal("circuit should be closed initially")
	}

	for i := 0; i < maxFailures-1; i++ {
		client.recordFailure()
	}
	if client.isCircuitOpen() {
		t.Fatal("circuit should stay closed below the failure threshold")
	}

	client.recordFailure()
	if !client.isCircuitOpen() {
		t.Fatal("circuit should open at the failure threshold")
	}

	client.lastFailure = time.Now().Add(-openTimeout - time.Second)
	if client.isCircuitOpen() {
		t.Fatal("circuit should go half-open after the timeout")
	}
	if got := atomic.LoadInt32(&client.state); got != StateHalfOpen {
		t.Fatalf("state = %d, want half-open", got)
	}

	// a failure while half-open reopens immediately
	client.recordFailure()
	if !client.isCircuitOpen() {
		t.Fatal("circuit should reopen after a half-open failure")
	}

	client.recordSuccess()
	if client.isCircuitOpen() {
		t.Fatal("circuit should close after a success")
	}
	if atomic.LoadInt64(&client.failureCount) != 0 {
		t.Error("failure count should reset after success")
	}
}

func TestClient_PublishGuards(t *testing.T) {
	msg := NewReportExportMessage(1, ReportExpenseTemplate)

	t.Run("circuit open", func(t *testing.T) {
		client := &Client{state: StateOpen, lastFailure: time.Now()}
		err := client.PublishExportRequest(context.Background(), msg)
		if !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("expected ErrCircuitOpen, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := &Client{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := client.PublishExportRequest(ctx, msg); err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestDispatch(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Format: "json", Output: &buf})

	valid, err := NewReportExportMessage(3, ReportSummary).ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		body       []byte
		handlerErr error
		wantAck    bool
		wantNack   bool
		wantQueued bool
		wantCalled bool
	}{
		{name: "success acks", body: valid, wantAck: true, wantCalled: true},
		{name: "handler error requeues", body: valid, handlerErr: errors.New("sheets down"), wantNack: true, wantQueued: true, wantCalled: true},
		{name: "garbage is dropped", body: []byte("{not json"), wantNack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			called := false
			dispatch(context.Background(), logger, tt.body, ack, func(ctx context.Context, m *ReportExportMessage) error {
				called = true
				if m.UserID != 3 || m.Report != ReportSummary {
					t.Errorf("unexpected message %+v", m)
				}
				return tt.handlerErr
			})
			if called != tt.wantCalled || ack.acked != tt.wantAck || ack.nacked != tt.wantNack || ack.requeued != tt.wantQueued {
				t.Errorf("called=%v ack=%+v", called, ack)
			}
		})
	}

	if !strings.Contains(buf.String(), "Failed to unmarshal message") {
		t.Error("expected decode failure to be logged")
	}
}

func TestReportExportMessage_JSON(t *testing.T) {
	msg := &ReportExportMessage{
		ID:        uuid.MustParse("7f8d3a2e-1b4c-4d5e-9f60-718293a4b5c6"),
		UserID:    9,
		Report:    ReportExpenseVsBudget,
		Year:      2025,
		Month:     2,
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if strings.Contains(string(data), "date_from") {
		t.Errorf("empty range fields should be omitted: %s", data)
	}

	parsed, err := ReportExportMessageFromJSON(data)
	if err != nil {
		t.Fatalf("ReportExportMessageFromJSON() error = %v", err)
	}
	if parsed.ID != msg.ID || parsed.UserID != msg.UserID || parsed.Report != msg.Report ||
		parsed.Year != msg.Year || parsed.Month != msg.Month || !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("round trip mismatch: %+v != %+v", parsed, msg)
	}

	if _, err := ReportExportMessageFromJSON([]byte(`{"user_id":"x"}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNewReportExportMessage(t *testing.T) {
	a := NewReportExportMessage(1, ReportSummary)
	b := NewReportExportMessage(1, ReportSummary)
	if a.ID == uuid.Nil || a.ID == b.ID {
		t.Error("expected distinct non-nil ids")
	}
	if time.Since(a.Timestamp) > time.Minute {
		t.Error("timestamp should be recent")
	}
}

func TestReportExportMessage_Validate(t *testing.T) {
	rangeMsg := func(from, to, g string) *ReportExportMessage {
		m := NewReportExportMessage(1, ReportSummary)
		m.DateFrom, m.DateTo, m.GroupBy = from, to, g
		return m
	}
	budget := func(y, mo int) *ReportExportMessage {
		m := NewReportExportMessage(1, ReportExpenseVsBudget)
		m.Year, m.Month = y, mo
		return m
	}

	tests := []struct {
		name    string
		msg     *ReportExportMessage
		wantErr error
		anyErr  bool
	}{
		{name: "valid range", msg: rangeMsg("2025-01-01", "2025-03-31", "quarter")},
		{name: "default granularity", msg: rangeMsg("2025-01-01", "2025-03-31", "")},
		{name: "bad date", msg: rangeMsg("2025-13-01", "2025-03-31", "month"), anyErr: true},
		{name: "bad granularity", msg: rangeMsg("2025-01-01", "2025-03-31", "week"), wantErr: core.ErrInvalidGranularity},
		{name: "valid budget", msg: budget(2025, 2)},
		{name: "bad month", msg: budget(2025, 13), wantErr: core.ErrInvalidMonth},
		{name: "bad year", msg: budget(0, 1), wantErr: core.ErrInvalidYear},
		{name: "template", msg: NewReportExportMessage(1, ReportExpenseTemplate)},
		{name: "unknown", msg: NewReportExportMessage(1, "cashflow"), wantErr: ErrUnknownReport},
		{name: "no user", msg: NewReportExportMessage(0, ReportExpenseTemplate), wantErr: core.ErrMissingUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("expected an error")
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}
