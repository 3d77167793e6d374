package expense

import (
	"context"
	"fmt"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/internal/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Find(ctx context.Context, filter Filter) ([]Expense, error)
	Get(ctx context.Context, uid uuid.UUID) (*Expense, error)
	Create(ctx context.Context, expense Expense) (Expense, error)
	Update(ctx context.Context, expense Expense) (bool, error)
	Delete(ctx context.Context, uid uuid.UUID) (bool, error)
}

type ServiceImpl struct {
	repo  Repo
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: &utils.SystemClock{}}
}

func (s *ServiceImpl) Find(ctx context.Context, filter Filter) ([]Expense, error) {
	return s.repo.Find(ctx, filter)
}

func (s *ServiceImpl) Get(ctx context.Context, uid uuid.UUID) (*Expense, error) {
	return s.repo.GetByUID(ctx, uid)
}

func (s *ServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	if err := validate(expense); err != nil {
		return Expense{}, err
	}
	if expense.Timestamp.IsZero() {
		expense.Timestamp = s.clock.Now()
	}
	expense.UID = uuid.New()

	id, err := s.repo.Store(ctx, expense)
	if err != nil {
		return Expense{}, err
	}
	expense.ID = id

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ExpenseCreatedEvent, event_bus.ExpenseCreated{Expense: toRef(expense)})); err != nil {
		log.Warnf("expense %s created but balance recalculation failed: %v", expense.UID, err)
	}

	return expense, nil
}

func (s *ServiceImpl) Update(ctx context.Context, expense Expense) (bool, error) {
	if err := validate(expense); err != nil {
		return false, err
	}

	old, err := s.repo.GetByUID(ctx, expense.UID)
	if err != nil {
		return false, err
	}
	if old == nil {
		log.Warnf("expense not updated, probably because it does not exist (%s)", expense.UID)
		return false, nil
	}
	expense.ID = old.ID
	if expense.Timestamp.IsZero() {
		expense.Timestamp = old.Timestamp
	}

	updated, err := s.repo.Update(ctx, expense)
	if err != nil {
		return false, err
	}
	if !updated {
		return false, nil
	}

	// Both the old and the new wallet/category must be recalculated when the
	// expense moved between them.
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ExpenseUpdatedEvent, event_bus.ExpenseUpdated{Old: toRef(*old), New: toRef(expense)})); err != nil {
		log.Warnf("expense %s updated but balance recalculation failed: %v", expense.UID, err)
	}
	return true, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, uid uuid.UUID) (bool, error) {
	old, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return false, err
	}
	if old == nil {
		log.Warnf("expense not deleted, probably because it does not exist (%s)", uid)
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, old.ID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ExpenseDeletedEvent, event_bus.ExpenseDeleted{Expense: toRef(*old)})); err != nil {
		log.Warnf("expense %s deleted but balance recalculation failed: %v", uid, err)
	}
	return true, nil
}

func validate(expense Expense) error {
	if expense.Amount.IsNegative() {
		return fmt.Errorf("expense amount must not be negative: %s", expense.Amount)
	}
	if expense.WalletID == 0 {
		return fmt.Errorf("expense must reference a wallet")
	}
	if expense.CategoryID == 0 {
		return fmt.Errorf("expense must reference a category")
	}
	return nil
}

func toRef(expense Expense) event_bus.ExpenseRef {
	return event_bus.ExpenseRef{
		ID:         expense.ID,
		WalletID:   expense.WalletID,
		CategoryID: expense.CategoryID,
	}
}
