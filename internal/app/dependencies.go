package app

import (
	"database/sql"

	"github.com/famspend/famspend/internal/event_bus"
	"github.com/famspend/famspend/pkg/balance"
	"github.com/famspend/famspend/pkg/category"
	"github.com/famspend/famspend/pkg/expense"
	"github.com/famspend/famspend/pkg/overview"
	"github.com/famspend/famspend/pkg/wallet"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	WalletRepo    wallet.Repo
	WalletService *wallet.ServiceImpl
	WalletHandler *wallet.Handler

	CategoryRepo    category.Repo
	CategoryService *category.ServiceImpl
	CategoryHandler *category.Handler

	ExpenseRepo    expense.Repo
	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	Recalculator *balance.RecalculatorImpl

	OverviewService *overview.ServiceImpl
	OverviewHandler *overview.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()

	deps.WalletRepo = wallet.NewRepo(db)
	deps.CategoryRepo = category.NewRepo(db)
	deps.ExpenseRepo = expense.NewRepo(db)

	// The recalculator must be subscribed before any service publishes a
	// mutation event, otherwise that mutation's balances would go stale.
	deps.Recalculator = balance.NewRecalculator(deps.WalletRepo, deps.CategoryRepo, deps.ExpenseRepo)
	deps.Recalculator.Register(deps.Bus)

	deps.WalletService = wallet.NewService(deps.WalletRepo, deps.ExpenseRepo, deps.Recalculator, deps.Bus)
	deps.WalletHandler = wallet.NewHandler(deps.WalletService)

	deps.CategoryService = category.NewService(deps.CategoryRepo, deps.ExpenseRepo, deps.Recalculator, deps.Bus)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.ExpenseService = expense.NewService(deps.ExpenseRepo, deps.Bus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.OverviewService = overview.NewService(deps.WalletRepo, deps.CategoryRepo, deps.ExpenseRepo, deps.Recalculator)
	deps.OverviewHandler = overview.NewHandler(deps.OverviewService)

	return deps
}
