package balance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/pkg/category"
	"github.com/famspend/famspend/pkg/expense"
	"github.com/famspend/famspend/pkg/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type fixture struct {
	walletRepo      *wallet.StubRepo
	categoryRepo    *category.StubRepo
	expenseRepo     *expense.StubRepo
	bus             *event_bus.EventBus
	recalculator    *RecalculatorImpl
	walletService   wallet.Service
	categoryService category.Service
	expenseService  expense.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		walletRepo:   wallet.NewStubRepo(),
		categoryRepo: category.NewStubRepo(),
		expenseRepo:  expense.NewStubRepo(),
		bus:          event_bus.NewEventBus(),
	}
	f.recalculator = NewRecalculator(f.walletRepo, f.categoryRepo, f.expenseRepo)
	f.recalculator.Register(f.bus)
	f.walletService = wallet.NewService(f.walletRepo, f.expenseRepo, f.recalculator, f.bus)
	f.categoryService = category.NewService(f.categoryRepo, f.expenseRepo, f.recalculator, f.bus)
	f.expenseService = expense.NewService(f.expenseRepo, f.bus)
	return f
}

func (f *fixture) createWallet(t *testing.T, name, initialBalance string) wallet.Wallet {
	t.Helper()
	w, err := f.walletService.Create(ctx, wallet.Wallet{
		Name:           name,
		InitialBalance: decimal.RequireFromString(initialBalance),
		StartTime:      t0,
	})
	require.NoError(t, err)
	return w
}

func (f *fixture) createCategory(t *testing.T, name, initialBudget string) category.Category {
	t.Helper()
	c, err := f.categoryService.Create(ctx, category.Category{
		Name:          name,
		InitialBudget: decimal.RequireFromString(initialBudget),
		BudgetStart:   t0,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) walletBalance(t *testing.T, id int) string {
	t.Helper()
	w, err := f.walletRepo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w.CurrentBalance.StringFixed(2)
}

func (f *fixture) categoryBalance(t *testing.T, id int) string {
	t.Helper()
	c, err := f.categoryRepo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.CurrentBalance.StringFixed(2)
}

func TestRecalculator_WalletLifecycle(t *testing.T) {
	t.Run("should initialize balance to initial balance on creation", func(t *testing.T) {
		// given
		f := setup(t)

		// when
		w := f.createWallet(t, "Cash", "100.00")

		// then
		assert.Equal(t, "100.00", f.walletBalance(t, w.ID))
	})

	t.Run("should recalculate from scratch when the start boundary moves", func(t *testing.T) {
		// given
		f := setup(t)
		w := f.createWallet(t, "Cash", "500.00")
		c := f.createCategory(t, "Groceries", "200.00")
		_, err := f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(time.Hour),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})
		require.NoError(t, err)
		require.Equal(t, "450.00", f.walletBalance(t, w.ID))

		// when: move the boundary past the expense
		w.StartTime = t0.Add(2 * time.Hour)
		ok, err := f.walletService.Update(ctx, w)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "500.00", f.walletBalance(t, w.ID))
	})

	t.Run("should keep the boundary when an update omits the start time", func(t *testing.T) {
		// given: an expense before the boundary, excluded from the balance
		f := setup(t)
		w := f.createWallet(t, "Cash", "500.00")
		c := f.createCategory(t, "Groceries", "200.00")
		_, err := f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(-time.Hour),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})
		require.NoError(t, err)
		require.Equal(t, "500.00", f.walletBalance(t, w.ID))

		// when: the update carries a zero start time
		w.Name = "Wallet"
		w.StartTime = time.Time{}
		ok, err := f.walletService.Update(ctx, w)

		// then: the boundary holds and the expense stays excluded
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "500.00", f.walletBalance(t, w.ID))
	})
}

func TestRecalculator_ExpenseLifecycle(t *testing.T) {
	t.Run("should debit wallet and category when an expense is added", func(t *testing.T) {
		// given
		f := setup(t)
		w := f.createWallet(t, "Cash", "500.00")
		c := f.createCategory(t, "Groceries", "200.00")

		// when
		_, err := f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(time.Minute),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "450.00", f.walletBalance(t, w.ID))
		assert.Equal(t, "150.00", f.categoryBalance(t, c.ID))
	})

	t.Run("should not change balances for an expense before the start boundary", func(t *testing.T) {
		// given
		f := setup(t)
		w := f.createWallet(t, "Cash", "500.00")
		c := f.createCategory(t, "Groceries", "200.00")
		_, err := f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(time.Minute),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})
		require.NoError(t, err)

		// when
		_, err = f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(-time.Minute),
			Amount:     decimal.RequireFromString("25.50"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "450.00", f.walletBalance(t, w.ID))
	})

	t.Run("should restore balances when an expense is deleted", func(t *testing.T) {
		// given
		f := setup(t)
		w := f.createWallet(t, "Cash", "500.00")
		c := f.createCategory(t, "Groceries", "200.00")
		created, err := f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(time.Minute),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})
		require.NoError(t, err)
		require.Equal(t, "450.00", f.walletBalance(t, w.ID))

		// when
		ok, err := f.expenseService.Delete(ctx, created.UID)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "500.00", f.walletBalance(t, w.ID))
		assert.Equal(t, "200.00", f.categoryBalance(t, c.ID))
	})

	t.Run("should recalculate both wallets when an expense moves between them", func(t *testing.T) {
		// given
		f := setup(t)
		w1 := f.createWallet(t, "Cash", "500.00")
		w2 := f.createWallet(t, "Bank", "300.00")
		c := f.createCategory(t, "Groceries", "200.00")
		created, err := f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(time.Minute),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w1.ID,
			CategoryID: c.ID,
		})
		require.NoError(t, err)
		require.Equal(t, "450.00", f.walletBalance(t, w1.ID))
		require.Equal(t, "300.00", f.walletBalance(t, w2.ID))

		// when
		created.WalletID = w2.ID
		ok, err := f.expenseService.Update(ctx, created)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "500.00", f.walletBalance(t, w1.ID))
		assert.Equal(t, "250.00", f.walletBalance(t, w2.ID))
	})
}

func TestRecalculator_Recalculate(t *testing.T) {
	t.Run("should be idempotent", func(t *testing.T) {
		// given
		f := setup(t)
		w := f.createWallet(t, "Cash", "500.00")
		c := f.createCategory(t, "Groceries", "200.00")
		_, err := f.expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(time.Minute),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})
		require.NoError(t, err)

		// when
		require.NoError(t, f.recalculator.RecalculateWallet(ctx, w.ID))
		first := f.walletBalance(t, w.ID)
		require.NoError(t, f.recalculator.RecalculateWallet(ctx, w.ID))
		second := f.walletBalance(t, w.ID)

		// then
		assert.Equal(t, "450.00", first)
		assert.Equal(t, first, second)
	})

	t.Run("should treat a missing entity as a no-op", func(t *testing.T) {
		// given
		f := setup(t)

		// when
		err := f.recalculator.RecalculateWallet(ctx, 999)

		// then
		assert.NoError(t, err)
	})
}

// failingExpenseRepo lets tests simulate a store failure during recalculation.
type failingExpenseRepo struct {
	*expense.StubRepo
	failFind bool
}

func (f *failingExpenseRepo) Find(ctx context.Context, filter expense.Filter) ([]expense.Expense, error) {
	if f.failFind {
		return nil, fmt.Errorf("store unavailable")
	}
	return f.StubRepo.Find(ctx, filter)
}

func TestRecalculator_StaleRetry(t *testing.T) {
	t.Run("should retry a failed recalculation on EnsureFresh", func(t *testing.T) {
		// given
		walletRepo := wallet.NewStubRepo()
		categoryRepo := category.NewStubRepo()
		expenseRepo := &failingExpenseRepo{StubRepo: expense.NewStubRepo()}
		bus := event_bus.NewEventBus()
		recalculator := NewRecalculator(walletRepo, categoryRepo, expenseRepo)
		recalculator.Register(bus)
		walletService := wallet.NewService(walletRepo, expenseRepo, recalculator, bus)
		categoryService := category.NewService(categoryRepo, expenseRepo, recalculator, bus)
		expenseService := expense.NewService(expenseRepo, bus)

		w, err := walletService.Create(ctx, wallet.Wallet{
			Name:           "Cash",
			InitialBalance: decimal.RequireFromString("500.00"),
			StartTime:      t0,
		})
		require.NoError(t, err)
		c, err := categoryService.Create(ctx, category.Category{
			Name:          "Groceries",
			InitialBudget: decimal.RequireFromString("200.00"),
			BudgetStart:   t0,
		})
		require.NoError(t, err)

		// when: the expense is stored but recalculation fails
		expenseRepo.failFind = true
		_, err = expenseService.Create(ctx, expense.Expense{
			Timestamp:  t0.Add(time.Minute),
			Amount:     decimal.RequireFromString("50.00"),
			WalletID:   w.ID,
			CategoryID: c.ID,
		})
		require.NoError(t, err)

		// then: the cached balance is stale
		stored, err := walletRepo.GetByID(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, "500.00", stored.CurrentBalance.StringFixed(2))

		// when: the store recovers and a list read observes the wallet
		expenseRepo.failFind = false
		_, err = walletService.GetAll(ctx)
		require.NoError(t, err)

		// then
		stored, err = walletRepo.GetByID(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, "450.00", stored.CurrentBalance.StringFixed(2))
		cStored, err := categoryRepo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "150.00", cStored.CurrentBalance.StringFixed(2))
	})
}
