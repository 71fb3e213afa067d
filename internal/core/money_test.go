package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.50", true},
		{"-1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseSignedAmount(t *testing.T) {
	got, err := ParseSignedAmount("-250,5")
	if err != nil || got.String() != "-250.50" {
		t.Fatalf("expected -250.50, got %s (err=%v)", got, err)
	}
	got, err = ParseSignedAmount("0")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero, got %s (err=%v)", got, err)
	}
}

func TestMoneyCents(t *testing.T) {
	if c := MoneyFromCents(123456).Cents(); c != 123456 {
		t.Fatalf("expected 123456, got %d", c)
	}
	if s := MoneyFromCents(-5).String(); s != "-0.05" {
		t.Fatalf("expected -0.05, got %s", s)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Money{"amount": MoneyFromCents(300000)})
	if err != nil || string(b) != `{"amount":"3000.00"}` {
		t.Fatalf("marshal = %s (err=%v)", b, err)
	}
	var m Money
	if err := json.Unmarshal([]byte(`"12.50"`), &m); err != nil || m.Cents() != 1250 {
		t.Fatalf("unmarshal = %s (err=%v)", m, err)
	}
}

func TestSumMoney(t *testing.T) {
	// 0.1 + 0.2 must be exact
	got := SumMoney(MoneyFromCents(10), MoneyFromCents(20))
	if got.String() != "0.30" {
		t.Fatalf("expected 0.30, got %s", got)
	}
}
