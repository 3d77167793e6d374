package overview

import (
	"github.com/famspend/famspend/pkg/category"
	"github.com/famspend/famspend/pkg/expense"
	"github.com/famspend/famspend/pkg/wallet"
	"github.com/shopspring/decimal"
)

// Overview is a read-only snapshot of the whole tracker. The totals are
// derived from the cached per-entity balances, not recomputed from raw
// expenses.
type Overview struct {
	Wallets    []wallet.Wallet
	Categories []category.Category
	Expenses   []expense.Expense
	// TotalWalletBalance is the sum of all wallet current balances.
	TotalWalletBalance decimal.Decimal
	// TotalCategoryBalance is the sum of all category current balances.
	TotalCategoryBalance decimal.Decimal
	// OverallBalance is TotalWalletBalance minus TotalCategoryBalance.
	OverallBalance decimal.Decimal
}
