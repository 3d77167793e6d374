package balance

import (
	"context"
	"errors"
	"sync"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/pkg/category"
	"github.com/famspend/famspend/pkg/expense"
	"github.com/famspend/famspend/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

// Recalculator keeps the cached currentBalance of every wallet and category
// consistent with the expense ledger. Every recalculation is a full recompute
// from the store, never an incremental delta, and is therefore idempotent.
type Recalculator interface {
	RecalculateWallet(ctx context.Context, walletID int) error
	RecalculateCategory(ctx context.Context, categoryID int) error
	// EnsureFresh retries recalculations that previously failed. Read paths
	// call it so a failed recalculation heals on the next observation.
	EnsureFresh(ctx context.Context) error
}

type RecalculatorImpl struct {
	wallets    wallet.Repo
	categories category.Repo
	expenses   expense.Repo
	locks      *entityLocks

	staleMu         sync.Mutex
	staleWallets    map[int]struct{}
	staleCategories map[int]struct{}
}

func NewRecalculator(wallets wallet.Repo, categories category.Repo, expenses expense.Repo) *RecalculatorImpl {
	return &RecalculatorImpl{
		wallets:         wallets,
		categories:      categories,
		expenses:        expenses,
		locks:           newEntityLocks(),
		staleWallets:    map[int]struct{}{},
		staleCategories: map[int]struct{}{},
	}
}

// Register subscribes the recalculator to all mutation events. The bus is
// synchronous, so by the time a service's Publish returns every affected
// balance has been recalculated and persisted.
func (r *RecalculatorImpl) Register(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.ExpenseCreatedEvent, func(ctx context.Context, data event_bus.ExpenseCreated) error {
		return r.recalculateAffected(ctx, AffectedByExpense(data.Expense))
	})
	event_bus.SubscribeTyped(bus, event_bus.ExpenseUpdatedEvent, func(ctx context.Context, data event_bus.ExpenseUpdated) error {
		return r.recalculateAffected(ctx, AffectedByExpense(data.Old, data.New))
	})
	event_bus.SubscribeTyped(bus, event_bus.ExpenseDeletedEvent, func(ctx context.Context, data event_bus.ExpenseDeleted) error {
		return r.recalculateAffected(ctx, AffectedByExpense(data.Expense))
	})
	event_bus.SubscribeTyped(bus, event_bus.WalletCreatedEvent, func(ctx context.Context, data event_bus.WalletCreated) error {
		return r.RecalculateWallet(ctx, data.ID)
	})
	event_bus.SubscribeTyped(bus, event_bus.WalletUpdatedEvent, func(ctx context.Context, data event_bus.WalletUpdated) error {
		return r.RecalculateWallet(ctx, data.ID)
	})
	event_bus.SubscribeTyped(bus, event_bus.CategoryCreatedEvent, func(ctx context.Context, data event_bus.CategoryCreated) error {
		return r.RecalculateCategory(ctx, data.ID)
	})
	event_bus.SubscribeTyped(bus, event_bus.CategoryUpdatedEvent, func(ctx context.Context, data event_bus.CategoryUpdated) error {
		return r.RecalculateCategory(ctx, data.ID)
	})
}

func (r *RecalculatorImpl) recalculateAffected(ctx context.Context, affected AffectedAggregates) error {
	var errs []error
	for _, id := range affected.WalletIDs {
		if err := r.RecalculateWallet(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, id := range affected.CategoryIDs {
		if err := r.RecalculateCategory(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *RecalculatorImpl) RecalculateWallet(ctx context.Context, walletID int) error {
	unlock := r.locks.lock(walletKey(walletID))
	defer unlock()

	w, err := r.wallets.GetByID(ctx, walletID)
	if err != nil {
		r.markStale(r.staleWallets, walletID)
		return err
	}
	if w == nil {
		// Recalculation for a deleted wallet is a no-op.
		log.Warnf("skipping balance recalculation: wallet %d no longer exists", walletID)
		r.clearStale(r.staleWallets, walletID)
		return nil
	}

	expenses, err := r.expenses.Find(ctx, expense.Filter{WalletID: &walletID, From: &w.StartTime})
	if err != nil {
		r.markStale(r.staleWallets, walletID)
		return err
	}

	newBalance := ComputeWalletBalance(*w, expenses)
	if _, err := r.wallets.UpdateBalance(ctx, walletID, newBalance); err != nil {
		r.markStale(r.staleWallets, walletID)
		return err
	}
	log.Debugf("recalculated wallet %d balance: %s", walletID, newBalance)
	r.clearStale(r.staleWallets, walletID)
	return nil
}

func (r *RecalculatorImpl) RecalculateCategory(ctx context.Context, categoryID int) error {
	unlock := r.locks.lock(categoryKey(categoryID))
	defer unlock()

	c, err := r.categories.GetByID(ctx, categoryID)
	if err != nil {
		r.markStale(r.staleCategories, categoryID)
		return err
	}
	if c == nil {
		// Recalculation for a deleted category is a no-op.
		log.Warnf("skipping balance recalculation: category %d no longer exists", categoryID)
		r.clearStale(r.staleCategories, categoryID)
		return nil
	}

	expenses, err := r.expenses.Find(ctx, expense.Filter{CategoryID: &categoryID, From: &c.BudgetStart})
	if err != nil {
		r.markStale(r.staleCategories, categoryID)
		return err
	}

	newBalance := ComputeCategoryBalance(*c, expenses)
	if _, err := r.categories.UpdateBalance(ctx, categoryID, newBalance); err != nil {
		r.markStale(r.staleCategories, categoryID)
		return err
	}
	log.Debugf("recalculated category %d balance: %s", categoryID, newBalance)
	r.clearStale(r.staleCategories, categoryID)
	return nil
}

func (r *RecalculatorImpl) EnsureFresh(ctx context.Context) error {
	r.staleMu.Lock()
	walletIDs := make([]int, 0, len(r.staleWallets))
	for id := range r.staleWallets {
		walletIDs = append(walletIDs, id)
	}
	categoryIDs := make([]int, 0, len(r.staleCategories))
	for id := range r.staleCategories {
		categoryIDs = append(categoryIDs, id)
	}
	r.staleMu.Unlock()

	var errs []error
	for _, id := range walletIDs {
		if err := r.RecalculateWallet(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, id := range categoryIDs {
		if err := r.RecalculateCategory(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *RecalculatorImpl) markStale(set map[int]struct{}, id int) {
	r.staleMu.Lock()
	set[id] = struct{}{}
	r.staleMu.Unlock()
}

func (r *RecalculatorImpl) clearStale(set map[int]struct{}, id int) {
	r.staleMu.Lock()
	delete(set, id)
	r.staleMu.Unlock()
}
