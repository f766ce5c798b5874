// Package report renders ledger data for people (text) and for other tools
// (CSV rows written to export sinks).
package report

import (
	"fmt"
	"io"
	"iter"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

const DefaultCurrency = money.INR

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Formatter renders amounts in a single display currency.
type Formatter struct {
	currency string
}

func NewFormatter(currency string) *Formatter {
	if money.GetCurrency(currency) == nil {
		currency = DefaultCurrency
	}
	return &Formatter{currency: currency}
}

// Amount formats m with the currency symbol and grouping, e.g. ₹1,000.00.
func (f *Formatter) Amount(m core.Money) string {
	cents := m.Decimal().Shift(2)
	if cents.GreaterThanOrEqual(minCents) && cents.LessThanOrEqual(maxCents) {
		return money.New(cents.IntPart(), f.currency).Display()
	}
	return f.displayLarge(m.Decimal())
}

// displayLarge lays out sums past the int64 cents go-money works in, with the
// currency's own separators and template.
func (f *Formatter) displayLarge(d decimal.Decimal) string {
	cur := money.GetCurrency(f.currency)
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(cur.Thousand)
		}
		b.WriteRune(r)
	}
	s := strings.Replace(cur.Template, "1", b.String()+cur.Decimal+frac, 1)
	s = strings.Replace(s, "$", cur.Grapheme, 1)
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}

// RenderEntries writes one line per entry followed by the count.
func (f *Formatter) RenderEntries(w io.Writer, entries iter.Seq2[core.Entry, error]) error {
	var b strings.Builder
	b.WriteString("\n--- Transactions ---\n")
	n := 0
	for e, err := range entries {
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "ID: %d | %s | %s | %s | %s\n", e.ID, f.Amount(e.Amount), e.Category, e.Kind, e.Date)
		n++
	}
	fmt.Fprintf(&b, "Total: %d transactions\n", n)
	return writeString(w, b.String())
}

func (f *Formatter) RenderTotals(w io.Writer, t core.Totals) error {
	var b strings.Builder
	b.WriteString("\n--- Financial Summary ---\n")
	fmt.Fprintf(&b, "Total Income   : %s\n", f.Amount(t.Income))
	fmt.Fprintf(&b, "Total Expense  : %s\n", f.Amount(t.Expense))
	fmt.Fprintf(&b, "Current Balance: %s\n", f.Amount(t.Balance))
	return writeString(w, b.String())
}

// RenderMonthly writes the grouped month, or a no-data line when it is empty.
func (f *Formatter) RenderMonthly(w io.Writer, r core.MonthlyReport) error {
	if len(r.Groups) == 0 {
		return writeString(w, "No data for this month.\n")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- Report for %s ---\n", r.Month)
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "%-7s | %-15s | %s\n", title(g.Kind.String()), g.Category, f.Amount(g.Sum))
	}
	fmt.Fprintf(&b, "\nTotal Income : %s\n", f.Amount(r.Totals.Income))
	fmt.Fprintf(&b, "Total Expense: %s\n", f.Amount(r.Totals.Expense))
	fmt.Fprintf(&b, "Balance      : %s\n", f.Amount(r.Totals.Balance))
	return writeString(w, b.String())
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return core.NewIOError("write report", err)
	}
	return nil
}
