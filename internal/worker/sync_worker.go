// Package worker reacts to ledger events delivered over AMQP.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/report"
)

// Exporter writes an owner's full ledger to export sinks.
type Exporter interface {
	Export(ctx context.Context, owner core.OwnerID, sinks ...report.Sink) (int, error)
}

// SinkFor returns the sink an owner's ledger is mirrored into. Each owner
// needs a destination of their own: a mirror replaces its sink's contents.
type SinkFor func(owner core.OwnerID) report.Sink

// SyncWorker mirrors an owner's ledger into that owner's sink whenever one of
// their entries is appended. Events at or below the last synced id for an
// owner are already reflected and are skipped, so redelivery is harmless.
type SyncWorker struct {
	ledger  Exporter
	sinkFor SinkFor

	mu     sync.Mutex
	synced map[core.OwnerID]int64
}

func NewSyncWorker(ledger Exporter, sinkFor SinkFor) *SyncWorker {
	return &SyncWorker{ledger: ledger, sinkFor: sinkFor, synced: map[core.OwnerID]int64{}}
}

// HandleEntryEvent processes a single entry.appended message.
func (w *SyncWorker) HandleEntryEvent(ctx context.Context, ev *amqp.EntryEvent) error {
	owner := core.OwnerID(ev.Owner)

	w.mu.Lock()
	last := w.synced[owner]
	w.mu.Unlock()
	if ev.ID <= last {
		slog.DebugContext(ctx, "Entry already synced", "id", ev.ID, "owner", owner, "last", last)
		return nil
	}

	sink := w.sinkFor(owner)
	n, err := w.ledger.Export(ctx, owner, sink)
	if err != nil {
		return fmt.Errorf("sync owner %d to %s: %w", owner, sink.Name(), err)
	}

	w.mu.Lock()
	if ev.ID > w.synced[owner] {
		w.synced[owner] = ev.ID
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "Synced ledger", "owner", owner, "id", ev.ID, "rows", n, "destination", sink.Name())
	return nil
}
