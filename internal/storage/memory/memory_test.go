package memory

import (
	"context"
	"testing"
	"time"

	"budget/internal/core"
)

func TestMemoryStoreAppendAndQuery(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner, err := s.CreateAccount(ctx, "u", "hash")
	if err != nil {
		t.Fatal(err)
	}

	e, err := s.Append(ctx, core.EntryDraft{
		Amount:   core.MoneyFromCents(123),
		Category: "Food",
		Kind:     core.Expense,
		Date:     core.NewDate(2024, 1, 1),
		Owner:    owner,
	})
	if err != nil || e.ID != 1 {
		t.Fatalf("unexpected append: id=%d err=%v", e.ID, err)
	}

	var got []core.Entry
	for e, err := range s.QueryByOwner(ctx, owner, core.Filter{}) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, e)
	}
	if len(got) != 1 || got[0].Amount.String() != "1.23" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestMemoryStoreOrderingAndWatermark(t *testing.T) {
	s := New()
	ctx := context.Background()
	a, _ := s.CreateAccount(ctx, "a", "h")
	b, _ := s.CreateAccount(ctx, "b", "h")

	days := []int{10, 20, 10}
	for _, d := range days {
		if _, err := s.Append(ctx, core.EntryDraft{Amount: core.MoneyFromCents(1), Category: "x", Kind: core.Income, Date: core.NewDate(2024, 1, d), Owner: a}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Append(ctx, core.EntryDraft{Amount: core.MoneyFromCents(1), Category: "x", Kind: core.Income, Date: core.NewDate(2024, 1, 30), Owner: b}); err != nil {
		t.Fatal(err)
	}

	var ids []int64
	for e := range s.QueryByOwner(ctx, a, core.Filter{}) {
		ids = append(ids, e.ID)
	}
	want := []int64{2, 3, 1}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	if mark, _ := s.Watermark(ctx, a); mark != 3 {
		t.Fatalf("expected watermark 3, got %d", mark)
	}
	if mark, _ := s.Watermark(ctx, 99); mark != 0 {
		t.Fatalf("expected watermark 0 for empty owner, got %d", mark)
	}
}

func TestMemoryStoreRejects(t *testing.T) {
	s := NewWithClock(func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) })
	ctx := context.Background()
	if _, err := s.CreateAccount(ctx, "u", "h"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAccount(ctx, "u", "h"); err != core.ErrDuplicateAccount {
		t.Fatalf("expected duplicate account error, got %v", err)
	}
	if _, err := s.AccountByUsername(ctx, "ghost"); err != core.ErrAccountNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.Append(ctx, core.EntryDraft{Amount: core.MoneyFromCents(1), Category: "x", Kind: core.Income, Owner: 7}); err == nil {
		t.Fatal("expected error for unknown owner")
	}
	e, err := s.Append(ctx, core.EntryDraft{Amount: core.MoneyFromCents(1), Category: "x", Kind: core.Income, Owner: 1})
	if err != nil || e.Date.String() != "2024-05-01" {
		t.Fatalf("expected clock date, got %s (err=%v)", e.Date, err)
	}
}
