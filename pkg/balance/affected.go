package balance

import "github.com/famspend/famspend/internal/event_bus"

// AffectedAggregates is the set of wallet and category ids whose cached
// balances must be recalculated after a mutation.
type AffectedAggregates struct {
	WalletIDs   []int
	CategoryIDs []int
}

// AffectedByExpense computes the affected set for an expense mutation. Pass a
// single ref for add and delete; pass both the old and the new ref for an
// update, which yields up to two wallets and two categories when the expense
// moved between them. Duplicate and zero ids are dropped.
func AffectedByExpense(refs ...event_bus.ExpenseRef) AffectedAggregates {
	var affected AffectedAggregates
	seenWallets := map[int]bool{}
	seenCategories := map[int]bool{}
	for _, ref := range refs {
		if ref.WalletID != 0 && !seenWallets[ref.WalletID] {
			seenWallets[ref.WalletID] = true
			affected.WalletIDs = append(affected.WalletIDs, ref.WalletID)
		}
		if ref.CategoryID != 0 && !seenCategories[ref.CategoryID] {
			seenCategories[ref.CategoryID] = true
			affected.CategoryIDs = append(affected.CategoryIDs, ref.CategoryID)
		}
	}
	return affected
}
