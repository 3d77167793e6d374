package category

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int
	Name string
	// InitialBudget is the amount allocated to the category at its start.
	InitialBudget decimal.Decimal
	// AddedBudget is reserved for future top-ups. It is stored but not yet
	// part of the balance formula.
	AddedBudget decimal.Decimal
	// BudgetStart is the boundary for included expenses: only expenses with
	// a timestamp at or after it reduce the balance.
	BudgetStart time.Time
	// CurrentBalance is derived from the expense ledger and cached by the
	// balance recalculator. It is never written directly by callers.
	CurrentBalance decimal.Decimal
}
