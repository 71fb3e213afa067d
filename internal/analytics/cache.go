package analytics

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"wallet/internal/cache"
	"wallet/internal/core"
)

// CachedService memoises reports per user and parameter set. Concurrent
// identical requests share one computation.
type CachedService struct {
	next  Reporter
	cache *cache.LRUCache[any]
	group singleflight.Group
}

// NewCachedService wraps next with a cache of size entries living ttl each.
// The cache is returned so it can be registered for periodic cleanup.
func NewCachedService(next Reporter, size int, ttl time.Duration) *CachedService {
	return &CachedService{next: next, cache: cache.NewLRUCache[any](size, ttl)}
}

// NewReporter returns svc itself when ttl is not positive, and a
// CachedService otherwise.
func NewReporter(svc *Service, size int, ttl time.Duration) Reporter {
	if ttl <= 0 {
		return svc
	}
	return NewCachedService(svc, size, ttl)
}

// Cache exposes the underlying cache for cleanup registration and stats.
func (c *CachedService) Cache() *cache.LRUCache[any] {
	return c.cache
}

// load returns the cached value for key or computes it. Identical concurrent
// calls share one computation, which runs detached from any single caller's
// cancellation; each caller stops waiting when its own ctx is done.
func (c *CachedService) load(ctx context.Context, key string, compute func(context.Context) (any, error)) (any, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		v, err := compute(shared)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func rangeKey(kind string, userID int64, from, to core.Date, g core.Granularity) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s", kind, userID, from, to, g)
}

func (c *CachedService) Summary(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]SummaryRow, error) {
	v, err := c.load(ctx, rangeKey("summary", userID, from, to, g), func(ctx context.Context) (any, error) {
		return c.next.Summary(ctx, userID, from, to, g)
	})
	if err != nil {
		return nil, err
	}
	return cloneSummary(v.([]SummaryRow)), nil
}

func (c *CachedService) IncomeBySource(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]IncomeBySourceRow, error) {
	v, err := c.load(ctx, rangeKey("income-by-source", userID, from, to, g), func(ctx context.Context) (any, error) {
		return c.next.IncomeBySource(ctx, userID, from, to, g)
	})
	if err != nil {
		return nil, err
	}
	return cloneIncomeBySource(v.([]IncomeBySourceRow)), nil
}

func (c *CachedService) BalanceByStorage(ctx context.Context, userID int64, from, to core.Date, g core.Granularity) ([]StorageBalanceRow, error) {
	v, err := c.load(ctx, rangeKey("balance-by-storage", userID, from, to, g), func(ctx context.Context) (any, error) {
		return c.next.BalanceByStorage(ctx, userID, from, to, g)
	})
	if err != nil {
		return nil, err
	}
	return cloneStorageBalances(v.([]StorageBalanceRow)), nil
}

func (c *CachedService) BudgetVsActual(ctx context.Context, userID int64, year, month int) ([]BudgetRow, error) {
	key := fmt.Sprintf("budget|%d|%d|%d", userID, year, month)
	v, err := c.load(ctx, key, func(ctx context.Context) (any, error) {
		return c.next.BudgetVsActual(ctx, userID, year, month)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]BudgetRow)), nil
}

func (c *CachedService) ExpenseTemplate(ctx context.Context, userID int64) (ExpenseTemplate, error) {
	v, err := c.load(ctx, fmt.Sprintf("template|%d", userID), func(ctx context.Context) (any, error) {
		return c.next.ExpenseTemplate(ctx, userID)
	})
	if err != nil {
		return ExpenseTemplate{}, err
	}
	t := v.(ExpenseTemplate)
	t.Items = slices.Clone(t.Items)
	return t, nil
}

// The clone helpers copy every slice and map of a cached report, so callers
// may mutate what they get back.

func cloneSummary(rows []SummaryRow) []SummaryRow {
	out := slices.Clone(rows)
	for i := range out {
		out[i].Balances = maps.Clone(out[i].Balances)
		out[i].BalanceChange = maps.Clone(out[i].BalanceChange)
	}
	return out
}

func cloneIncomeBySource(rows []IncomeBySourceRow) []IncomeBySourceRow {
	out := slices.Clone(rows)
	for i := range out {
		out[i].Sources = maps.Clone(out[i].Sources)
	}
	return out
}

func cloneStorageBalances(rows []StorageBalanceRow) []StorageBalanceRow {
	out := slices.Clone(rows)
	for i := range out {
		out[i].Accounts = slices.Clone(out[i].Accounts)
		out[i].Totals = maps.Clone(out[i].Totals)
	}
	return out
}
