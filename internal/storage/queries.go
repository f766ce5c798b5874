package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

const createAccount = `
INSERT INTO accounts (username, password_hash) VALUES (?, ?)
`

func (q *Queries) CreateAccount(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := q.db.ExecContext(ctx, createAccount, username, passwordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getAccountByUsername = `
SELECT id, username, password_hash FROM accounts WHERE username = ?
`

type AccountRow struct {
	ID           int64
	Username     string
	PasswordHash string
}

func (q *Queries) GetAccountByUsername(ctx context.Context, username string) (AccountRow, error) {
	var a AccountRow
	err := q.db.QueryRowContext(ctx, getAccountByUsername, username).Scan(&a.ID, &a.Username, &a.PasswordHash)
	return a, err
}

const createEntry = `
INSERT INTO entries (amount_cents, category, kind, date, owner_id) VALUES (?, ?, ?, ?, ?)
`

type CreateEntryParams struct {
	AmountCents int64
	Category    string
	Kind        string
	Date        string
	OwnerID     int64
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createEntry,
		arg.AmountCents,
		arg.Category,
		arg.Kind,
		arg.Date,
		arg.OwnerID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Empty category/month arguments disable the corresponding predicate.
const listEntriesByOwner = `
SELECT id, amount_cents, category, kind, date, owner_id
FROM entries
WHERE owner_id = ?
  AND (? = '' OR category = ?)
  AND (? = '' OR substr(date, 1, 7) = ?)
ORDER BY date DESC, id DESC
`

type ListEntriesParams struct {
	OwnerID   int64
	Category  string
	YearMonth string
}

type EntryRow struct {
	ID          int64
	AmountCents int64
	Category    string
	Kind        string
	Date        string
	OwnerID     int64
}

func (q *Queries) ListEntriesByOwner(ctx context.Context, arg ListEntriesParams) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, listEntriesByOwner,
		arg.OwnerID,
		arg.Category, arg.Category,
		arg.YearMonth, arg.YearMonth,
	)
}

func scanEntryRow(rows *sql.Rows) (EntryRow, error) {
	var e EntryRow
	err := rows.Scan(&e.ID, &e.AmountCents, &e.Category, &e.Kind, &e.Date, &e.OwnerID)
	return e, err
}

const getOwnerWatermark = `
SELECT COALESCE(MAX(id), 0) FROM entries WHERE owner_id = ?
`

func (q *Queries) GetOwnerWatermark(ctx context.Context, ownerID int64) (int64, error) {
	var mark int64
	err := q.db.QueryRowContext(ctx, getOwnerWatermark, ownerID).Scan(&mark)
	return mark, err
}
