// Package aggregate computes totals and grouped views over a ledger.
//
// Every result is a pure function of the owner's entries. Because entries are
// append-only with monotonic ids, the owner's highest id (its watermark)
// identifies the entry set exactly, so cached results are keyed on it and a
// new append can never be served a stale answer.
package aggregate

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"budget/internal/cache"
	"budget/internal/core"
)

// Source is the read side of an entry store.
type Source interface {
	QueryByOwner(ctx context.Context, owner core.OwnerID, f core.Filter) iter.Seq2[core.Entry, error]
	Watermark(ctx context.Context, owner core.OwnerID) (int64, error)
}

type Aggregator struct {
	src    Source
	totals *cache.LRUCache[core.Totals]
	groups *cache.LRUCache[[]core.CategorySum]
}

// Options sizes the result caches. A zero Size disables caching.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

func New(src Source, opts Options) *Aggregator {
	a := &Aggregator{src: src}
	if opts.CacheSize > 0 {
		a.totals = cache.NewLRUCache[core.Totals](opts.CacheSize, opts.CacheTTL)
		a.groups = cache.NewLRUCache[[]core.CategorySum](opts.CacheSize, opts.CacheTTL)
	}
	return a
}

// Caches returns the result caches so a cache.Manager can sweep them.
func (a *Aggregator) Caches() []cache.Cleaner {
	if a.totals == nil {
		return nil
	}
	return []cache.Cleaner{a.totals, a.groups}
}

// TotalByKind sums all of the owner's income and expense entries.
// A kind with no entries contributes zero.
func (a *Aggregator) TotalByKind(ctx context.Context, owner core.OwnerID) (core.Totals, error) {
	key, err := a.key(ctx, owner, "")
	if err != nil {
		return core.Totals{}, err
	}
	if a.totals != nil {
		if t, ok := a.totals.Get(key); ok {
			return t, nil
		}
	}

	var t core.Totals
	for e, err := range a.src.QueryByOwner(ctx, owner, core.Filter{}) {
		if err != nil {
			return core.Totals{}, err
		}
		t = t.Add(e.Kind, e.Amount)
	}

	if a.totals != nil {
		a.totals.Set(key, t)
	}
	return t, nil
}

// GroupByCategoryAndKind sums the owner's entries of one month per
// (category, kind), ordered by category and then income before expense.
// The result is empty, not nil-with-error, when the month has no entries.
func (a *Aggregator) GroupByCategoryAndKind(ctx context.Context, owner core.OwnerID, month core.YearMonth) ([]core.CategorySum, error) {
	if month.IsZero() {
		return nil, &core.ValidationError{Field: "month", Reason: "month is required"}
	}
	key, err := a.key(ctx, owner, month.String())
	if err != nil {
		return nil, err
	}
	if a.groups != nil {
		if g, ok := a.groups.Get(key); ok {
			return slices.Clone(g), nil
		}
	}

	type groupKey struct {
		category string
		kind     core.Kind
	}
	sums := map[groupKey]core.Money{}
	for e, err := range a.src.QueryByOwner(ctx, owner, core.Filter{YearMonth: month}) {
		if err != nil {
			return nil, err
		}
		k := groupKey{e.Category, e.Kind}
		sums[k] = sums[k].Add(e.Amount)
	}

	groups := make([]core.CategorySum, 0, len(sums))
	for k, sum := range sums {
		groups = append(groups, core.CategorySum{Category: k.category, Kind: k.kind, Sum: sum})
	}
	slices.SortFunc(groups, func(x, y core.CategorySum) int {
		if c := cmp.Compare(x.Category, y.Category); c != 0 {
			return c
		}
		return cmp.Compare(x.Kind, y.Kind)
	})

	if a.groups != nil {
		a.groups.Set(key, slices.Clone(groups))
	}
	return groups, nil
}

// MonthlyReport returns the month's groups together with its income,
// expense and balance.
func (a *Aggregator) MonthlyReport(ctx context.Context, owner core.OwnerID, month core.YearMonth) (core.MonthlyReport, error) {
	groups, err := a.GroupByCategoryAndKind(ctx, owner, month)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	r := core.MonthlyReport{Month: month, Groups: groups}
	for _, g := range groups {
		r.Totals = r.Totals.Add(g.Kind, g.Sum)
	}
	return r, nil
}

func (a *Aggregator) key(ctx context.Context, owner core.OwnerID, scope string) (string, error) {
	if a.totals == nil {
		return "", nil
	}
	mark, err := a.src.Watermark(ctx, owner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d:%s", owner, mark, scope), nil
}
