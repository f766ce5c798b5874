package aggregate

import (
	"context"
	"errors"
	"iter"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
	"budget/internal/storage/memory"
)

var (
	jan2024 = core.YearMonth{Year: 2024, Month: time.January}
	feb2024 = core.YearMonth{Year: 2024, Month: time.February}
)

func money(t *testing.T, s string) core.Money {
	t.Helper()
	m, err := core.ParseMoney(s)
	require.NoError(t, err)
	return m
}

func seedScenario(t *testing.T) (*memory.Store, core.OwnerID) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	owner, err := store.CreateAccount(ctx, "u", "h")
	require.NoError(t, err)

	_, err = store.Append(ctx, core.EntryDraft{Amount: money(t, "1000.00"), Category: "Salary", Kind: core.Income, Date: core.NewDate(2024, 1, 5), Owner: owner})
	require.NoError(t, err)
	_, err = store.Append(ctx, core.EntryDraft{Amount: money(t, "250.50"), Category: "Food", Kind: core.Expense, Date: core.NewDate(2024, 1, 10), Owner: owner})
	require.NoError(t, err)
	return store, owner
}

func TestTotalByKindScenario(t *testing.T) {
	store, owner := seedScenario(t)
	agg := New(store, Options{CacheSize: 8, CacheTTL: time.Minute})

	tot, err := agg.TotalByKind(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", tot.Income.String())
	assert.Equal(t, "250.50", tot.Expense.String())
	assert.Equal(t, "749.50", tot.Balance.String())
}

func TestTotalByKindEmptyOwner(t *testing.T) {
	store := memory.New()
	owner, err := store.CreateAccount(context.Background(), "u", "h")
	require.NoError(t, err)

	tot, err := New(store, Options{}).TotalByKind(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, tot.Income.IsZero())
	assert.True(t, tot.Expense.IsZero())
	assert.True(t, tot.Balance.IsZero())
}

func TestGroupByCategoryAndKindScenario(t *testing.T) {
	store, owner := seedScenario(t)
	agg := New(store, Options{CacheSize: 8, CacheTTL: time.Minute})
	ctx := context.Background()

	groups, err := agg.GroupByCategoryAndKind(ctx, owner, jan2024)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.ElementsMatch(t, []string{"Salary/income/1000.00", "Food/expense/250.50"}, describe(groups))

	empty, err := agg.GroupByCategoryAndKind(ctx, owner, feb2024)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = agg.GroupByCategoryAndKind(ctx, owner, core.YearMonth{})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestGroupByCategoryAndKindSumsAndOrder(t *testing.T) {
	store, owner := seedScenario(t)
	ctx := context.Background()
	extra := []core.EntryDraft{
		{Amount: money(t, "0.10"), Category: "Food", Kind: core.Expense, Date: core.NewDate(2024, 1, 11), Owner: owner},
		{Amount: money(t, "0.20"), Category: "Food", Kind: core.Expense, Date: core.NewDate(2024, 1, 12), Owner: owner},
		{Amount: money(t, "5.00"), Category: "Food", Kind: core.Income, Date: core.NewDate(2024, 1, 12), Owner: owner},
		{Amount: money(t, "9.99"), Category: "Food", Kind: core.Expense, Date: core.NewDate(2024, 2, 1), Owner: owner},
	}
	for _, d := range extra {
		_, err := store.Append(ctx, d)
		require.NoError(t, err)
	}

	groups, err := New(store, Options{}).GroupByCategoryAndKind(ctx, owner, jan2024)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food/income/5.00", "Food/expense/250.80", "Salary/income/1000.00"}, describe(groups))
}

func TestMonthlyReport(t *testing.T) {
	store, owner := seedScenario(t)
	r, err := New(store, Options{}).MonthlyReport(context.Background(), owner, jan2024)
	require.NoError(t, err)
	assert.Equal(t, jan2024, r.Month)
	assert.Len(t, r.Groups, 2)
	assert.Equal(t, "749.50", r.Totals.Balance.String())
}

func TestBalanceIdentityHoldsForRandomAppends(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()
	store := memory.New()
	owner, err := store.CreateAccount(ctx, "u", "h")
	require.NoError(t, err)
	agg := New(store, Options{CacheSize: 4, CacheTTL: time.Minute})

	var income, expense int64
	for i := 0; i < 300; i++ {
		cents := rng.Int63n(1_000_000) + 1
		kind := core.Income
		if rng.Intn(2) == 0 {
			kind = core.Expense
			expense += cents
		} else {
			income += cents
		}
		_, err := store.Append(ctx, core.EntryDraft{
			Amount:   core.MoneyFromCents(cents),
			Category: "c",
			Kind:     kind,
			Date:     core.NewDate(2024, 1+rng.Intn(12), 1+rng.Intn(28)),
			Owner:    owner,
		})
		require.NoError(t, err)

		if i%50 == 0 {
			tot, err := agg.TotalByKind(ctx, owner)
			require.NoError(t, err)
			assert.True(t, tot.Balance.Equal(tot.Income.Sub(tot.Expense)))
			assert.Equal(t, income, tot.Income.Cents())
			assert.Equal(t, expense, tot.Expense.Cents())
		}
	}
}

func TestCacheSeesOwnWrites(t *testing.T) {
	store, owner := seedScenario(t)
	src := &countingSource{Source: store}
	agg := New(src, Options{CacheSize: 8, CacheTTL: time.Hour})
	ctx := context.Background()

	_, err := agg.TotalByKind(ctx, owner)
	require.NoError(t, err)
	_, err = agg.TotalByKind(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, src.queries, "second read should be served from cache")

	_, err = store.Append(ctx, core.EntryDraft{Amount: money(t, "49.50"), Category: "Gift", Kind: core.Income, Date: core.NewDate(2024, 1, 20), Owner: owner})
	require.NoError(t, err)

	tot, err := agg.TotalByKind(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "799.00", tot.Balance.String())
	assert.Equal(t, 2, src.queries)

	groups, err := agg.GroupByCategoryAndKind(ctx, owner, jan2024)
	require.NoError(t, err)
	groups[0].Category = "mutated"
	again, err := agg.GroupByCategoryAndKind(ctx, owner, jan2024)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Category, "cached groups must be copied out")
}

func TestSourceErrorsPropagate(t *testing.T) {
	boom := core.NewIOError("query entries", errors.New("disk gone"))
	agg := New(failingSource{err: boom}, Options{})

	_, err := agg.TotalByKind(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrIO)
	_, err = agg.GroupByCategoryAndKind(context.Background(), 1, jan2024)
	assert.ErrorIs(t, err, core.ErrIO)
}

func describe(groups []core.CategorySum) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Category + "/" + g.Kind.String() + "/" + g.Sum.String()
	}
	return out
}

type countingSource struct {
	Source
	queries int
}

func (c *countingSource) QueryByOwner(ctx context.Context, owner core.OwnerID, f core.Filter) iter.Seq2[core.Entry, error] {
	c.queries++
	return c.Source.QueryByOwner(ctx, owner, f)
}

type failingSource struct{ err error }

func (f failingSource) QueryByOwner(context.Context, core.OwnerID, core.Filter) iter.Seq2[core.Entry, error] {
	return func(yield func(core.Entry, error) bool) {
		yield(core.Entry{}, f.err)
	}
}

func (f failingSource) Watermark(context.Context, core.OwnerID) (int64, error) {
	return 0, nil
}
