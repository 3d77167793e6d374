package expense

import (
	"context"
	"testing"
	"time"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestService() (*ServiceImpl, *StubRepo, *event_bus.EventBus) {
	repo := NewStubRepo()
	bus := event_bus.NewEventBus()
	return NewService(repo, bus), repo, bus
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should assign a uid and store the expense", func(t *testing.T) {
		// given
		service, repo, _ := newTestService()

		// when
		created, err := service.Create(ctx, Expense{
			Timestamp:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Amount:     decimal.RequireFromString("12.50"),
			WalletID:   1,
			CategoryID: 2,
		})

		// then
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.UID)
		stored, err := repo.GetByUID(ctx, created.UID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "12.50", stored.Amount.StringFixed(2))
	})

	t.Run("should default the timestamp to now", func(t *testing.T) {
		// given
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		service, _, _ := newTestService()
		service.clock = &utils.MockClock{FixedNow: now}

		// when
		created, err := service.Create(ctx, Expense{
			Amount:     decimal.RequireFromString("12.50"),
			WalletID:   1,
			CategoryID: 2,
		})

		// then
		require.NoError(t, err)
		assert.True(t, created.Timestamp.Equal(now))
	})

	t.Run("should publish a created event", func(t *testing.T) {
		// given
		service, _, bus := newTestService()
		var published []event_bus.ExpenseCreated
		event_bus.SubscribeTyped(bus, event_bus.ExpenseCreatedEvent, func(ctx context.Context, data event_bus.ExpenseCreated) error {
			published = append(published, data)
			return nil
		})

		// when
		created, err := service.Create(ctx, Expense{
			Amount:     decimal.RequireFromString("12.50"),
			WalletID:   1,
			CategoryID: 2,
		})

		// then
		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, created.ID, published[0].Expense.ID)
		assert.Equal(t, 1, published[0].Expense.WalletID)
		assert.Equal(t, 2, published[0].Expense.CategoryID)
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		// given
		service, _, _ := newTestService()

		// when
		_, err := service.Create(ctx, Expense{
			Amount:     decimal.RequireFromString("-5.00"),
			WalletID:   1,
			CategoryID: 2,
		})

		// then
		assert.Error(t, err)
	})

	t.Run("should reject a missing wallet reference", func(t *testing.T) {
		// given
		service, _, _ := newTestService()

		// when
		_, err := service.Create(ctx, Expense{
			Amount:     decimal.RequireFromString("5.00"),
			CategoryID: 2,
		})

		// then
		assert.Error(t, err)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should report false for a missing expense", func(t *testing.T) {
		// given
		service, _, _ := newTestService()

		// when
		ok, err := service.Update(ctx, Expense{
			UID:        uuid.New(),
			Amount:     decimal.RequireFromString("5.00"),
			WalletID:   1,
			CategoryID: 2,
		})

		// then
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should publish both old and new references", func(t *testing.T) {
		// given
		service, _, bus := newTestService()
		created, err := service.Create(ctx, Expense{
			Amount:     decimal.RequireFromString("5.00"),
			WalletID:   1,
			CategoryID: 2,
		})
		require.NoError(t, err)
		var published []event_bus.ExpenseUpdated
		event_bus.SubscribeTyped(bus, event_bus.ExpenseUpdatedEvent, func(ctx context.Context, data event_bus.ExpenseUpdated) error {
			published = append(published, data)
			return nil
		})

		// when: the expense moves to a different wallet
		created.WalletID = 3
		ok, err := service.Update(ctx, created)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, published, 1)
		assert.Equal(t, 1, published[0].Old.WalletID)
		assert.Equal(t, 3, published[0].New.WalletID)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should report false for a missing expense", func(t *testing.T) {
		// given
		service, _, _ := newTestService()

		// when
		ok, err := service.Delete(ctx, uuid.New())

		// then
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should delete and publish a deleted event", func(t *testing.T) {
		// given
		service, repo, bus := newTestService()
		created, err := service.Create(ctx, Expense{
			Amount:     decimal.RequireFromString("5.00"),
			WalletID:   1,
			CategoryID: 2,
		})
		require.NoError(t, err)
		var published []event_bus.ExpenseDeleted
		event_bus.SubscribeTyped(bus, event_bus.ExpenseDeletedEvent, func(ctx context.Context, data event_bus.ExpenseDeleted) error {
			published = append(published, data)
			return nil
		})

		// when
		ok, err := service.Delete(ctx, created.UID)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, published, 1)
		assert.Equal(t, created.ID, published[0].Expense.ID)
		stored, err := repo.GetByUID(ctx, created.UID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}
