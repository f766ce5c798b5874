package backend

import (
	"context"

	"budget/internal/account"
	"budget/internal/amqp"
	"budget/internal/ledger"
	gsheet "budget/internal/sheets/google"
)

// Store is the persistence a backend provides: accounts and the entry log.
type Store interface {
	account.Repository
	ledger.EntryStore
	Close() error
}

// CleanupFunc releases the resources of a backend.
type CleanupFunc func() error

// BackendResult holds the wired services of one process. Events and Sheets
// are nil when not configured.
type BackendResult struct {
	Store    Store
	Ledger   *ledger.Service
	Accounts *account.Gateway
	Events   *amqp.Client
	Sheets   *gsheet.Client
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
