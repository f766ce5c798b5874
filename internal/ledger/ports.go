package ledger

import (
	"context"
	"iter"

	"budget/internal/amqp"
	"budget/internal/core"
)

// Ports used by the ledger service.
type (
	// EntryStore is an append-only, per-owner entry log.
	EntryStore interface {
		Append(ctx context.Context, d core.EntryDraft) (core.Entry, error)
		QueryByOwner(ctx context.Context, owner core.OwnerID, f core.Filter) iter.Seq2[core.Entry, error]
		Watermark(ctx context.Context, owner core.OwnerID) (int64, error)
	}

	// EventPublisher announces appended entries to other processes.
	EventPublisher interface {
		PublishEntryAppended(ctx context.Context, ev *amqp.EntryEvent) error
	}
)
