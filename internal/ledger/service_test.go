package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/aggregate"
	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/report"
	"budget/internal/storage/memory"
)

type recordingPublisher struct {
	events []*amqp.EntryEvent
	err    error
}

func (p *recordingPublisher) PublishEntryAppended(_ context.Context, ev *amqp.EntryEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func newService(t *testing.T, pub EventPublisher) (*Service, core.OwnerID) {
	t.Helper()
	store := memory.NewWithClock(func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) })
	owner, err := store.CreateAccount(context.Background(), "asha", "hash")
	require.NoError(t, err)
	agg := aggregate.New(store, aggregate.Options{CacheSize: 16, CacheTTL: time.Minute})
	return NewService(store, agg, pub), owner
}

func draft(t *testing.T, owner core.OwnerID, amount, category string, kind core.Kind, date core.Date) core.EntryDraft {
	t.Helper()
	m, err := core.ParseMoney(amount)
	require.NoError(t, err)
	return core.EntryDraft{Amount: m, Category: category, Kind: kind, Date: date, Owner: owner}
}

func TestAppendPublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc, owner := newService(t, pub)
	ctx := context.Background()

	e, err := svc.Append(ctx, draft(t, owner, "1000", "Salary", core.Income, core.Date{}))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", e.Date.String(), "zero date defaults to the store clock")

	require.Len(t, pub.events, 1)
	assert.Equal(t, e.ID, pub.events[0].ID)
	assert.Equal(t, "1000.00", pub.events[0].Amount)
	assert.Equal(t, "income", pub.events[0].Kind)
}

func TestAppendSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, owner := newService(t, pub)
	ctx := context.Background()

	e, err := svc.Append(ctx, draft(t, owner, "12.34", "Food", core.Expense, core.NewDate(2024, 1, 2)))
	require.NoError(t, err)
	assert.Positive(t, e.ID)

	var n int
	for _, err := range svc.Entries(ctx, owner, core.Filter{}) {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 1, n, "entry must be stored even if publishing fails")
}

func TestAppendRejectsInvalidDraftWithoutEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc, owner := newService(t, pub)

	d := draft(t, owner, "5", "   ", core.Expense, core.Date{})
	_, err := svc.Append(context.Background(), d)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Empty(t, pub.events)

	d = draft(t, owner, "5", "Food", core.Kind(9), core.Date{})
	_, err = svc.Append(context.Background(), d)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Empty(t, pub.events)
}

func TestTotalsAndMonthlyReport(t *testing.T) {
	svc, owner := newService(t, nil)
	ctx := context.Background()
	_, err := svc.Append(ctx, draft(t, owner, "1000.00", "Salary", core.Income, core.NewDate(2024, 1, 5)))
	require.NoError(t, err)
	_, err = svc.Append(ctx, draft(t, owner, "250.50", "Food", core.Expense, core.NewDate(2024, 1, 10)))
	require.NoError(t, err)

	tot, err := svc.Totals(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "749.50", tot.Balance.String())

	r, err := svc.MonthlyReport(ctx, owner, core.YearMonth{Year: 2024, Month: time.January})
	require.NoError(t, err)
	assert.Len(t, r.Groups, 2)

	r, err = svc.MonthlyReport(ctx, owner, core.YearMonth{Year: 2024, Month: time.February})
	require.NoError(t, err)
	assert.Empty(t, r.Groups)
}

func TestExportWritesOwnerEntriesOnly(t *testing.T) {
	svc, owner := newService(t, nil)
	ctx := context.Background()
	_, err := svc.Append(ctx, draft(t, owner, "1000.00", "Salary", core.Income, core.NewDate(2024, 1, 5)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	n, err := svc.Export(ctx, owner, report.FileSink{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID,Amount,Category,Type,Date,Owner\n"))

	n, err = svc.Export(ctx, owner+1, report.FileSink{Path: path})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExportFailureIsIOError(t *testing.T) {
	svc, owner := newService(t, nil)
	_, err := svc.Export(context.Background(), owner, report.FileSink{Path: filepath.Join(t.TempDir(), "no", "such", "dir.csv")})
	assert.ErrorIs(t, err, core.ErrIO)
}
