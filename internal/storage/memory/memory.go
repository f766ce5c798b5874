package memory

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"budget/internal/core"
)

// Store keeps accounts and entries in process memory. It honours the same
// contract as the SQLite repository, including the account reference check.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	accounts []core.Account
	byName   map[string]int
	items    []core.Entry
	nextID   int64
}

func New() *Store {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now, byName: map[string]int{}}
}

// CreateAccount stores the account and returns its id.
func (s *Store) CreateAccount(_ context.Context, username, passwordHash string) (core.OwnerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[username]; ok {
		return 0, core.ErrDuplicateAccount
	}
	id := core.OwnerID(len(s.accounts) + 1)
	s.accounts = append(s.accounts, core.Account{ID: id, Username: username, PasswordHash: passwordHash})
	s.byName[username] = len(s.accounts) - 1
	return id, nil
}

func (s *Store) AccountByUsername(_ context.Context, username string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byName[username]
	if !ok {
		return core.Account{}, core.ErrAccountNotFound
	}
	return s.accounts[i], nil
}

// Append validates and stores the entry.
func (s *Store) Append(_ context.Context, d core.EntryDraft) (core.Entry, error) {
	e, err := d.Build(core.DateOf(s.now()))
	if err != nil {
		return core.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(e.Owner) > len(s.accounts) {
		return core.Entry{}, &core.ValidationError{Field: "owner", Reason: fmt.Sprintf("account %d does not exist", e.Owner)}
	}
	s.nextID++
	e.ID = s.nextID
	s.items = append(s.items, e)
	return e, nil
}

// QueryByOwner snapshots the matching entries when ranged over and yields
// copies, newest date first.
func (s *Store) QueryByOwner(_ context.Context, owner core.OwnerID, f core.Filter) iter.Seq2[core.Entry, error] {
	return func(yield func(core.Entry, error) bool) {
		for _, e := range s.snapshot(owner, f) {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (s *Store) Watermark(_ context.Context, owner core.OwnerID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Owner == owner {
			return s.items[i].ID, nil
		}
	}
	return 0, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) snapshot(owner core.OwnerID, f core.Filter) []core.Entry {
	s.mu.Lock()
	out := make([]core.Entry, 0, len(s.items))
	for _, e := range s.items {
		if e.Owner == owner && f.Match(e) {
			out = append(out, e)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b core.Entry) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
