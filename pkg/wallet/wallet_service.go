package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/internal/utils"
	log "github.com/sirupsen/logrus"
)

// ErrExpensesExist is returned when a wallet cannot be deleted because
// expenses still reference it. Callers must delete or reassign those
// expenses first.
var ErrExpensesExist = errors.New("wallet is referenced by existing expenses")

// ExpenseCounter reports how many expenses reference a wallet. Implemented by
// the expense repository; declared here to keep this package free of an
// expense dependency.
type ExpenseCounter interface {
	CountForWallet(ctx context.Context, walletID int) (int, error)
}

// BalanceRefresher retries balance recalculations that previously failed.
// Implemented by the balance recalculator; declared here because the balance
// package depends on this one.
type BalanceRefresher interface {
	EnsureFresh(ctx context.Context) error
}

type Service interface {
	GetAll(ctx context.Context) ([]Wallet, error)
	Get(ctx context.Context, id int) (*Wallet, error)
	Create(ctx context.Context, wallet Wallet) (Wallet, error)
	Update(ctx context.Context, wallet Wallet) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo      Repo
	expenses  ExpenseCounter
	refresher BalanceRefresher
	bus       *event_bus.EventBus
	clock     utils.Clock
}

func NewService(repo Repo, expenses ExpenseCounter, refresher BalanceRefresher, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, expenses: expenses, refresher: refresher, bus: bus, clock: &utils.SystemClock{}}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Wallet, error) {
	// Heal balances whose recalculation failed on a previous mutation.
	if err := s.refresher.EnsureFresh(ctx); err != nil {
		log.Warnf("failed to refresh stale balances: %v", err)
	}
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (*Wallet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, wallet Wallet) (Wallet, error) {
	if wallet.Name == "" {
		return Wallet{}, fmt.Errorf("wallet name must not be empty")
	}
	if wallet.StartTime.IsZero() {
		wallet.StartTime = s.clock.Now()
	}
	// The cached balance starts at the initial balance; no expense can
	// reference the wallet yet.
	wallet.CurrentBalance = wallet.InitialBalance

	id, err := s.repo.Store(ctx, wallet)
	if err != nil {
		return Wallet{}, err
	}
	wallet.ID = id

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.WalletCreatedEvent, event_bus.WalletCreated{ID: id})); err != nil {
		log.Warnf("wallet %d created but balance recalculation failed: %v", id, err)
	}

	return wallet, nil
}

func (s *ServiceImpl) Update(ctx context.Context, wallet Wallet) (bool, error) {
	if wallet.Name == "" {
		return false, fmt.Errorf("wallet name must not be empty")
	}

	// An update that omits the start time keeps the stored boundary; a zero
	// time would pull every pre-boundary expense into the balance.
	if wallet.StartTime.IsZero() {
		existing, err := s.repo.GetByID(ctx, wallet.ID)
		if err != nil {
			return false, err
		}
		if existing == nil {
			log.Warnf("wallet not updated, probably because it does not exist (%d)", wallet.ID)
			return false, nil
		}
		wallet.StartTime = existing.StartTime
	}

	updated, err := s.repo.Update(ctx, wallet)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("wallet not updated, probably because it does not exist (%d)", wallet.ID)
		return false, nil
	}

	// Editing the start boundary or initial balance changes the set of
	// included expenses, so the balance is recomputed from scratch.
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.WalletUpdatedEvent, event_bus.WalletUpdated{ID: wallet.ID})); err != nil {
		log.Warnf("wallet %d updated but balance recalculation failed: %v", wallet.ID, err)
	}
	return true, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	count, err := s.expenses.CountForWallet(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, fmt.Errorf("cannot delete wallet %d: %w", id, ErrExpensesExist)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("wallet not deleted, probably because it does not exist (%d)", id)
		return false, nil
	}
	return true, nil
}
