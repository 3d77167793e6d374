package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID   int
	Name string
	// InitialBalance is the amount of money the wallet started with.
	InitialBalance decimal.Decimal
	// StartTime is the boundary for included expenses: only expenses with a
	// timestamp at or after it reduce the balance.
	StartTime time.Time
	// CurrentBalance is derived from the expense ledger and cached by the
	// balance recalculator. It is never written directly by callers.
	CurrentBalance decimal.Decimal
}
