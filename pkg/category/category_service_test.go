package category

import (
	"context"
	"testing"
	"time"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type stubExpenseCounter struct {
	count int
}

func (s *stubExpenseCounter) CountForCategory(ctx context.Context, categoryID int) (int, error) {
	return s.count, nil
}

type stubRefresher struct {
	calls int
}

func (s *stubRefresher) EnsureFresh(ctx context.Context) error {
	s.calls++
	return nil
}

func newTestService(counter *stubExpenseCounter) (*ServiceImpl, *StubRepo) {
	repo := NewStubRepo()
	return NewService(repo, counter, &stubRefresher{}, event_bus.NewEventBus()), repo
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should initialize current balance to initial budget", func(t *testing.T) {
		// given
		service, repo := newTestService(&stubExpenseCounter{})

		// when
		created, err := service.Create(ctx, Category{
			Name:          "Groceries",
			InitialBudget: decimal.RequireFromString("200.00"),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "200.00", created.CurrentBalance.StringFixed(2))
		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "200.00", stored.CurrentBalance.StringFixed(2))
	})

	t.Run("should default the budget start to now", func(t *testing.T) {
		// given
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		service, _ := newTestService(&stubExpenseCounter{})
		service.clock = &utils.MockClock{FixedNow: now}

		// when
		created, err := service.Create(ctx, Category{Name: "Groceries"})

		// then
		require.NoError(t, err)
		assert.True(t, created.BudgetStart.Equal(now))
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		// given
		service, _ := newTestService(&stubExpenseCounter{})

		// when
		_, err := service.Create(ctx, Category{})

		// then
		assert.Error(t, err)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should keep the stored budget start when the update omits it", func(t *testing.T) {
		// given
		budgetStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		service, repo := newTestService(&stubExpenseCounter{})
		created, err := service.Create(ctx, Category{Name: "Groceries", BudgetStart: budgetStart})
		require.NoError(t, err)

		// when
		created.BudgetStart = time.Time{}
		ok, err := service.Update(ctx, created)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, stored.BudgetStart.Equal(budgetStart))
	})
}

func TestServiceImpl_GetAll(t *testing.T) {
	t.Run("should refresh stale balances before listing", func(t *testing.T) {
		// given
		refresher := &stubRefresher{}
		service := NewService(NewStubRepo(), &stubExpenseCounter{}, refresher, event_bus.NewEventBus())

		// when
		_, err := service.GetAll(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, refresher.calls)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete a category without expenses", func(t *testing.T) {
		// given
		service, repo := newTestService(&stubExpenseCounter{})
		created, err := service.Create(ctx, Category{Name: "Groceries"})
		require.NoError(t, err)

		// when
		ok, err := service.Delete(ctx, created.ID)

		// then
		require.NoError(t, err)
		assert.True(t, ok)
		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("should refuse to delete a category with expenses", func(t *testing.T) {
		// given
		service, _ := newTestService(&stubExpenseCounter{count: 1})
		created, err := service.Create(ctx, Category{Name: "Groceries"})
		require.NoError(t, err)

		// when
		ok, err := service.Delete(ctx, created.ID)

		// then
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrExpensesExist)
	})
}
