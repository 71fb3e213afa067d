package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/core"
	"wallet/internal/seed"
	"wallet/internal/storage/memory"
)

func TestLoadFile(t *testing.T) {
	store := memory.New()
	st, err := seed.LoadFile(context.Background(), store, "testdata/ledger.json")
	require.NoError(t, err)
	assert.Equal(t, 6, st.Transactions)
	assert.Equal(t, 5, st.Snapshots)
	assert.Equal(t, 2, st.Categories)

	cats, err := store.ListExpenseCategories(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "200.00", cats[1].BudgetedAmount.String())
}

func TestLoadRejectsUnknownRefs(t *testing.T) {
	tests := []struct {
		name   string
		ledger seed.Ledger
	}{
		{
			name:   "missing user",
			ledger: seed.Ledger{},
		},
		{
			name: "unknown location",
			ledger: seed.Ledger{
				UserID:     1,
				Currencies: []seed.Currency{{Ref: "usd", Code: "USD"}},
				Accounts:   []seed.Account{{Ref: "a", Location: "nowhere", Currency: "usd"}},
			},
		},
		{
			name: "unknown account",
			ledger: seed.Ledger{
				UserID:       1,
				Transactions: []seed.Transaction{{Type: "income", Date: "2025-01-01", Amount: "1", Account: "a"}},
			},
		},
		{
			name: "bad amount",
			ledger: seed.Ledger{
				UserID:     1,
				Currencies: []seed.Currency{{Ref: "usd", Code: "USD"}},
				Locations:  []seed.Named{{Ref: "l", Name: "L"}},
				Accounts:   []seed.Account{{Ref: "a", Location: "l", Currency: "usd"}},
				Transactions: []seed.Transaction{
					{Type: "income", Date: "2025-01-01", Amount: "-3", Account: "a"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Load(context.Background(), memory.New(), seed.Dataset{Users: []seed.Ledger{tt.ledger}})
			assert.Error(t, err)
		})
	}

	_, err := seed.Load(context.Background(), memory.New(), seed.Dataset{Users: []seed.Ledger{{}}})
	assert.ErrorIs(t, err, core.ErrMissingUser)
}
