package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	Income  Kind = iota + 1
	Expense
)

const (
	dateLayout      = "2006-01-02"
	minYear         = 1
	maxYear         = 9999
	yearMonthLayout = "2006-01"
	maxCategoryLen  = 100
)

type (
	// Kind tells whether an entry adds to or subtracts from the balance.
	// Only Income and Expense are valid; the zero value is not.
	Kind uint8

	// OwnerID is the opaque account identifier handed out by the account gateway.
	OwnerID int64

	Date struct {
		time.Time
	}

	YearMonth struct {
		Year  int
		Month time.Month
	}

	// Entry is a persisted ledger record. Entries are never mutated.
	Entry struct {
		ID       int64
		Amount   Money
		Category string
		Kind     Kind
		Date     Date
		Owner    OwnerID
	}

	// EntryDraft is what callers hand to a store. A zero Date means "today".
	EntryDraft struct {
		Amount   Money
		Category string
		Kind     Kind
		Date     Date
		Owner    OwnerID
	}

	// Filter narrows QueryByOwner. Zero fields match everything.
	Filter struct {
		Category  string
		YearMonth YearMonth
	}

	Account struct {
		ID           OwnerID
		Username     string
		PasswordHash string
	}
)

// ParseKind accepts "income" or "expense", ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return 0, &ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not income or expense", s)}
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (k Kind) String() string {
	switch k {
	case Income:
		return "income"
	case Expense:
		return "expense"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year(), Month: d.Month()}
}

// Validate rejects the zero date and any year that does not fit the
// four-digit YYYY-MM-DD form dates are stored and sorted in.
func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "date cannot be zero"}
	}
	if y := d.Year(); y < minYear || y > maxYear {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("year %d out of range %d-%d", y, minYear, maxYear)}
	}
	return nil
}

// ParseYearMonth parses a strict YYYY-MM month.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, &ValidationError{Field: "month", Reason: fmt.Sprintf("%q is not a YYYY-MM month", s)}
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Contains reports whether d falls in the month.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year() == ym.Year && d.Month() == ym.Month
}

// Match reports whether e passes every predicate of the filter.
func (f Filter) Match(e Entry) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if !f.YearMonth.IsZero() && !f.YearMonth.Contains(e.Date) {
		return false
	}
	return true
}

// Build validates the draft and returns the entry to persist, without an ID.
// today replaces an omitted date.
func (d EntryDraft) Build(today Date) (Entry, error) {
	if err := d.Amount.ValidateEntryAmount(); err != nil {
		return Entry{}, err
	}
	if !d.Kind.Valid() {
		return Entry{}, &ValidationError{Field: "kind", Reason: fmt.Sprintf("%s is not income or expense", d.Kind)}
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		return Entry{}, &ValidationError{Field: "category", Reason: "category cannot be empty"}
	}
	if len(category) > maxCategoryLen {
		return Entry{}, &ValidationError{Field: "category", Reason: fmt.Sprintf("category too long (max %d characters)", maxCategoryLen)}
	}
	if d.Owner <= 0 {
		return Entry{}, &ValidationError{Field: "owner", Reason: "owner is required"}
	}
	date := d.Date
	if date.IsZero() {
		date = today
	}
	if !date.IsZero() {
		date = DateOf(date.Time)
	}
	if err := date.Validate(); err != nil {
		return Entry{}, err
	}
	return Entry{
		Amount:   d.Amount,
		Category: category,
		Kind:     d.Kind,
		Date:     date,
		Owner:    d.Owner,
	}, nil
}
