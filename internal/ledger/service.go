// Package ledger is the handle callers use to record and read an owner's
// income and expense entries.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"budget/internal/aggregate"
	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/report"
)

// Service orchestrates the entry store, the aggregator and optional event
// publishing. It is created once per process and shared by every command.
type Service struct {
	store  EntryStore
	agg    *aggregate.Aggregator
	events EventPublisher
	now    func() time.Time
}

// NewService wires the service. events may be nil.
func NewService(store EntryStore, agg *aggregate.Aggregator, events EventPublisher) *Service {
	if agg == nil {
		agg = aggregate.New(store, aggregate.Options{})
	}
	return &Service{store: store, agg: agg, events: events, now: time.Now}
}

// Append durably stores the entry and then publishes an entry.appended
// event. A publish failure is logged; the entry is already saved.
func (s *Service) Append(ctx context.Context, d core.EntryDraft) (core.Entry, error) {
	e, err := s.store.Append(ctx, d)
	if err != nil {
		return core.Entry{}, fmt.Errorf("append entry: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishEntryAppended(ctx, amqp.NewEntryEvent(e, s.now())); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry event", "id", e.ID, "owner", e.Owner, "error", err)
		}
	}
	return e, nil
}

// Entries lists the owner's entries, newest first. The sequence re-reads
// the store each time it is ranged over.
func (s *Service) Entries(ctx context.Context, owner core.OwnerID, f core.Filter) iter.Seq2[core.Entry, error] {
	return s.store.QueryByOwner(ctx, owner, f)
}

func (s *Service) Totals(ctx context.Context, owner core.OwnerID) (core.Totals, error) {
	return s.agg.TotalByKind(ctx, owner)
}

func (s *Service) MonthlyReport(ctx context.Context, owner core.OwnerID, month core.YearMonth) (core.MonthlyReport, error) {
	return s.agg.MonthlyReport(ctx, owner, month)
}

// Export writes all of the owner's entries to every sink and returns the
// number of entries written.
func (s *Service) Export(ctx context.Context, owner core.OwnerID, sinks ...report.Sink) (int, error) {
	n, err := report.Export(ctx, s.store.QueryByOwner(ctx, owner, core.Filter{}), sinks...)
	if err != nil {
		return 0, fmt.Errorf("export entries: %w", err)
	}
	slog.InfoContext(ctx, "Exported entries", "owner", owner, "count", n, "destinations", len(sinks))
	return n, nil
}
