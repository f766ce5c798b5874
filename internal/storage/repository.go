package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budget/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// Option customizes a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithClock sets the clock used to default omitted entry dates.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		r.now = now
	}
}

// DSN returns the connection string for dbPath with foreign keys enforced on every connection.
func DSN(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, core.NewIOError("create db directory", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, core.NewIOError("open sqlite database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, core.NewIOError("ping database", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, core.NewIOError("run migrations", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateAccount implements account.Repository
func (r *SQLiteRepository) CreateAccount(ctx context.Context, username, passwordHash string) (core.OwnerID, error) {
	id, err := r.queries.CreateAccount(ctx, username, passwordHash)
	if err != nil {
		if constraintKind(err) == constraintUnique {
			return 0, core.ErrDuplicateAccount
		}
		return 0, core.NewIOError("create account", err)
	}

	slog.InfoContext(ctx, "Account created", "owner", id, "username", username)
	return core.OwnerID(id), nil
}

// AccountByUsername implements account.Repository
func (r *SQLiteRepository) AccountByUsername(ctx context.Context, username string) (core.Account, error) {
	row, err := r.queries.GetAccountByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrAccountNotFound
	}
	if err != nil {
		return core.Account{}, core.NewIOError("get account", err)
	}
	return core.Account{
		ID:           core.OwnerID(row.ID),
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
	}, nil
}

// Append implements ledger.EntryStore
func (r *SQLiteRepository) Append(ctx context.Context, d core.EntryDraft) (core.Entry, error) {
	e, err := d.Build(core.DateOf(r.now()))
	if err != nil {
		return core.Entry{}, err
	}

	id, err := r.queries.CreateEntry(ctx, CreateEntryParams{
		AmountCents: e.Amount.Cents(),
		Category:    e.Category,
		Kind:        e.Kind.String(),
		Date:        e.Date.String(),
		OwnerID:     int64(e.Owner),
	})
	if err != nil {
		if constraintKind(err) == constraintForeignKey {
			return core.Entry{}, &core.ValidationError{Field: "owner", Reason: fmt.Sprintf("account %d does not exist", e.Owner)}
		}
		return core.Entry{}, core.NewIOError("append entry", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"owner", e.Owner,
		"kind", e.Kind.String(),
		"amount", e.Amount.String(),
		"category", e.Category,
		"date", e.Date.String())

	return e, nil
}

// QueryByOwner implements ledger.EntryStore. The query runs each time the
// sequence is ranged over, so it always reflects the current state.
func (r *SQLiteRepository) QueryByOwner(ctx context.Context, owner core.OwnerID, f core.Filter) iter.Seq2[core.Entry, error] {
	params := ListEntriesParams{OwnerID: int64(owner), Category: f.Category}
	if !f.YearMonth.IsZero() {
		params.YearMonth = f.YearMonth.String()
	}

	return func(yield func(core.Entry, error) bool) {
		rows, err := r.queries.ListEntriesByOwner(ctx, params)
		if err != nil {
			yield(core.Entry{}, core.NewIOError("query entries", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			row, err := scanEntryRow(rows)
			if err != nil {
				yield(core.Entry{}, core.NewIOError("scan entry", err))
				return
			}
			e, err := row.toEntry()
			if err != nil {
				yield(core.Entry{}, core.NewIOError("decode entry", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(core.Entry{}, core.NewIOError("query entries", err))
		}
	}
}

// Watermark implements ledger.EntryStore
func (r *SQLiteRepository) Watermark(ctx context.Context, owner core.OwnerID) (int64, error) {
	mark, err := r.queries.GetOwnerWatermark(ctx, int64(owner))
	if err != nil {
		return 0, core.NewIOError("get watermark", err)
	}
	return mark, nil
}

func (row EntryRow) toEntry() (core.Entry, error) {
	kind, err := core.ParseKind(row.Kind)
	if err != nil {
		return core.Entry{}, err
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{
		ID:       row.ID,
		Amount:   core.MoneyFromCents(row.AmountCents),
		Category: row.Category,
		Kind:     kind,
		Date:     date,
		Owner:    core.OwnerID(row.OwnerID),
	}, nil
}

const (
	constraintNone = iota
	constraintUnique
	constraintForeignKey
	constraintOther
)

func constraintKind(err error) int {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return constraintNone
	}
	msg := se.Error()
	switch {
	case strings.Contains(msg, "UNIQUE"):
		return constraintUnique
	case strings.Contains(msg, "FOREIGN KEY"):
		return constraintForeignKey
	}
	return constraintOther
}
