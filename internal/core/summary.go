package core

// Totals is the all-time income/expense summary of one owner.
type Totals struct {
	Income  Money
	Expense Money
	Balance Money
}

// CategorySum is the sum of one (category, kind) group.
type CategorySum struct {
	Category string
	Kind     Kind
	Sum      Money
}

// MonthlyReport is the grouped view of a single month with its totals.
type MonthlyReport struct {
	Month  YearMonth
	Groups []CategorySum
	Totals Totals
}

// Add folds an amount of the given kind into the totals.
func (t Totals) Add(k Kind, m Money) Totals {
	switch k {
	case Income:
		t.Income = t.Income.Add(m)
	case Expense:
		t.Expense = t.Expense.Add(m)
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}
