package backend

import (
	"context"
	"errors"
	"fmt"

	"budget/internal/account"
	"budget/internal/aggregate"
	"budget/internal/amqp"
	"budget/internal/cache"
	"budget/internal/ledger"
	applog "budget/internal/log"
	gsheet "budget/internal/sheets/google"
	"budget/internal/storage"
	"budget/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend opens the store and wires the ledger around it. AMQP is
// optional: a broker that cannot be reached is logged and skipped. A
// configured spreadsheet that cannot be reached is an error.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(config)
	if err != nil {
		return nil, err
	}
	res := &BackendResult{Store: store}
	closers := []func() error{store.Close}

	var events ledger.EventPublisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
			res.Events = client
			events = client
			closers = append(closers, client.Close)
		}
	}

	if config.GoogleSpreadsheetID != "" {
		sheets, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			SheetName:          config.GoogleSheetName,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		res.Sheets = sheets
	}

	agg := aggregate.New(store, aggregate.Options{CacheSize: config.CacheSize, CacheTTL: config.CacheTTL})
	if caches := agg.Caches(); len(caches) > 0 {
		mgr := cache.NewManager()
		mgr.Register(caches...)
		mgr.StartCleanup(config.CacheTTL)
		closers = append(closers, func() error { mgr.Stop(); return nil })
	}

	var opts []account.Option
	if config.BcryptCost > 0 {
		opts = append(opts, account.WithCost(config.BcryptCost))
	}
	res.Ledger = ledger.NewService(store, agg, events)
	res.Accounts = account.NewGateway(store, opts...)
	res.Cleanup = func() error { return closeAll(closers) }

	f.logger.InfoContext(ctx, "Initialized backend",
		applog.FieldBackend, config.Type,
		"amqp_enabled", res.Events != nil,
		"sheets_enabled", res.Sheets != nil)
	return res, nil
}

func (f *DefaultFactory) openStore(config Config) (Store, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		return repo, nil
	case MemoryBackend:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// closeAll runs closers in reverse order and joins their errors.
func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
