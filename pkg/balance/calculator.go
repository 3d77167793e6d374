package balance

import (
	"github.com/famspend/famspend/pkg/category"
	"github.com/famspend/famspend/pkg/expense"
	"github.com/famspend/famspend/pkg/wallet"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ComputeWalletBalance derives the wallet's current balance from the given
// expenses: initial balance minus the sum of amounts of expenses that belong
// to the wallet and fall on or after its start time. The expense slice may be
// the full ledger or a prefiltered subset; out-of-scope entries are ignored
// either way. The result is rounded to 2 decimal places and independent of
// the iteration order of the input.
func ComputeWalletBalance(w wallet.Wallet, expenses []expense.Expense) decimal.Decimal {
	sum := sumAmounts(expenses, func(e expense.Expense) bool {
		return e.WalletID == w.ID && !e.Timestamp.Before(w.StartTime)
	})
	return w.InitialBalance.Sub(sum).Round(2)
}

// ComputeCategoryBalance derives the category's current balance: initial
// budget minus the sum of amounts of expenses attributed to the category on
// or after its budget start.
func ComputeCategoryBalance(c category.Category, expenses []expense.Expense) decimal.Decimal {
	sum := sumAmounts(expenses, func(e expense.Expense) bool {
		return e.CategoryID == c.ID && !e.Timestamp.Before(c.BudgetStart)
	})
	return c.InitialBudget.Sub(sum).Round(2)
}

// sumAmounts never fails: expenses with a negative amount are a data-quality
// problem, logged and excluded from the sum.
func sumAmounts(expenses []expense.Expense, include func(expense.Expense) bool) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		if !include(e) {
			continue
		}
		if e.Amount.IsNegative() {
			log.Warnf("excluding expense %s from balance: negative amount %s", e.UID, e.Amount)
			continue
		}
		sum = sum.Add(e.Amount)
	}
	return sum
}
