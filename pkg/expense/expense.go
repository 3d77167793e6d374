package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID int
	// UID is the public identifier used by the API; the numeric ID stays
	// internal to the store.
	UID       uuid.UUID
	Timestamp time.Time
	// Amount is the debited amount. Non-negative by convention; negative
	// amounts are treated as a data-quality error during summation.
	Amount   decimal.Decimal
	WalletID int
	// CategoryID is the passive category the expense is attributed to.
	CategoryID int
	// Planned is informational only and does not affect balances.
	Planned     bool
	Description string
}

// Filter narrows an expense query. Nil fields are ignored.
type Filter struct {
	WalletID   *int
	CategoryID *int
	From       *time.Time
}
