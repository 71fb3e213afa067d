package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"wallet/internal/core"
)

// unknownLabel replaces location or currency names that could not be joined.
const unknownLabel = "?"

// Balances maps a currency code to an amount.
type Balances map[string]decimal.Decimal

// Reconstructor derives point-in-time balances from sparse snapshots.
type Reconstructor struct {
	snapshots   SnapshotReader
	concurrency int
}

// NewReconstructor returns a Reconstructor resolving at most concurrency
// anchors at once. Values below one mean sequential.
func NewReconstructor(snapshots SnapshotReader, concurrency int) *Reconstructor {
	return &Reconstructor{snapshots: snapshots, concurrency: max(1, concurrency)}
}

// BalanceAsOf sums, per currency, the latest snapshot of every account dated
// at or before at. Accounts without such a snapshot contribute nothing.
func (r *Reconstructor) BalanceAsOf(ctx context.Context, userID int64, at core.Date) (Balances, error) {
	rows, err := r.snapshots.LatestSnapshots(ctx, userID, at)
	if err != nil {
		return nil, fmt.Errorf("latest snapshots at %s: %w", at, err)
	}
	out := make(Balances)
	for _, row := range rows {
		code := row.Currency
		if code == "" {
			code = unknownLabel
		}
		out[code] = out[code].Add(row.Amount)
	}
	return out, nil
}

// BalancesAt resolves BalanceAsOf for every date, keyed by the date string.
// The first failure cancels the remaining lookups.
func (r *Reconstructor) BalancesAt(ctx context.Context, userID int64, dates []core.Date) (map[string]Balances, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	var mu sync.Mutex
	out := make(map[string]Balances, len(dates))
	for _, d := range dates {
		d := d
		g.Go(func() error {
			b, err := r.BalanceAsOf(ctx, userID, d)
			if err != nil {
				return err
			}
			mu.Lock()
			out[d.String()] = b
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
