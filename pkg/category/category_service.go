package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/internal/utils"
	log "github.com/sirupsen/logrus"
)

// ErrExpensesExist is returned when a category cannot be deleted because
// expenses still reference it. Callers must delete or reassign those
// expenses first.
var ErrExpensesExist = errors.New("category is referenced by existing expenses")

// ExpenseCounter reports how many expenses reference a category. Implemented
// by the expense repository; declared here to keep this package free of an
// expense dependency.
type ExpenseCounter interface {
	CountForCategory(ctx context.Context, categoryID int) (int, error)
}

// BalanceRefresher retries balance recalculations that previously failed.
// Implemented by the balance recalculator; declared here because the balance
// package depends on this one.
type BalanceRefresher interface {
	EnsureFresh(ctx context.Context) error
}

type Service interface {
	GetAll(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (*Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) (bool, error)
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

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	// Heal balances whose recalculation failed on a previous mutation.
	if err := s.refresher.EnsureFresh(ctx); err != nil {
		log.Warnf("failed to refresh stale balances: %v", err)
	}
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	if category.Name == "" {
		return Category{}, fmt.Errorf("category name must not be empty")
	}
	if category.BudgetStart.IsZero() {
		category.BudgetStart = s.clock.Now()
	}
	// The cached balance starts at the initial budget; no expense can
	// reference the category yet.
	category.CurrentBalance = category.InitialBudget

	id, err := s.repo.Store(ctx, category)
	if err != nil {
		return Category{}, err
	}
	category.ID = id

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.CategoryCreatedEvent, event_bus.CategoryCreated{ID: id})); err != nil {
		log.Warnf("category %d created but balance recalculation failed: %v", id, err)
	}

	return category, nil
}

func (s *ServiceImpl) Update(ctx context.Context, category Category) (bool, error) {
	if category.Name == "" {
		return false, fmt.Errorf("category name must not be empty")
	}

	// An update that omits the budget start keeps the stored boundary; a zero
	// time would pull every pre-boundary expense into the balance.
	if category.BudgetStart.IsZero() {
		existing, err := s.repo.GetByID(ctx, category.ID)
		if err != nil {
			return false, err
		}
		if existing == nil {
			log.Warnf("category not updated, probably because it does not exist (%d)", category.ID)
			return false, nil
		}
		category.BudgetStart = existing.BudgetStart
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("category not updated, probably because it does not exist (%d)", category.ID)
		return false, nil
	}

	// Editing the budget start or initial budget changes the set of
	// included expenses, so the balance is recomputed from scratch.
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.CategoryUpdatedEvent, event_bus.CategoryUpdated{ID: category.ID})); err != nil {
		log.Warnf("category %d updated but balance recalculation failed: %v", category.ID, err)
	}
	return true, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	count, err := s.expenses.CountForCategory(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, fmt.Errorf("cannot delete category %d: %w", id, ErrExpensesExist)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("category not deleted, probably because it does not exist (%d)", id)
		return false, nil
	}
	return true, nil
}
