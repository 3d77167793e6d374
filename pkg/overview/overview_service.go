package overview

import (
	"context"

	"github.com/famspend/famspend/pkg/balance"
	"github.com/famspend/famspend/pkg/category"
	"github.com/famspend/famspend/pkg/expense"
	"github.com/famspend/famspend/pkg/wallet"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	GetOverview(ctx context.Context) (Overview, error)
}

type ServiceImpl struct {
	wallets      wallet.Repo
	categories   category.Repo
	expenses     expense.Repo
	recalculator balance.Recalculator
}

func NewService(wallets wallet.Repo, categories category.Repo, expenses expense.Repo, recalculator balance.Recalculator) *ServiceImpl {
	return &ServiceImpl{
		wallets:      wallets,
		categories:   categories,
		expenses:     expenses,
		recalculator: recalculator,
	}
}

func (s *ServiceImpl) GetOverview(ctx context.Context) (Overview, error) {
	// Heal balances whose recalculation failed on a previous mutation. A
	// failure here keeps the ids marked stale for the next read.
	if err := s.recalculator.EnsureFresh(ctx); err != nil {
		log.Warnf("failed to refresh stale balances: %v", err)
	}

	var overview Overview
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wallets, err := s.wallets.GetAll(gCtx)
		overview.Wallets = wallets
		return err
	})
	g.Go(func() error {
		categories, err := s.categories.GetAll(gCtx)
		overview.Categories = categories
		return err
	})
	g.Go(func() error {
		expenses, err := s.expenses.Find(gCtx, expense.Filter{})
		overview.Expenses = expenses
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	overview.TotalWalletBalance = decimal.Zero
	for _, w := range overview.Wallets {
		overview.TotalWalletBalance = overview.TotalWalletBalance.Add(w.CurrentBalance)
	}
	overview.TotalCategoryBalance = decimal.Zero
	for _, c := range overview.Categories {
		overview.TotalCategoryBalance = overview.TotalCategoryBalance.Add(c.CurrentBalance)
	}
	overview.OverallBalance = overview.TotalWalletBalance.Sub(overview.TotalCategoryBalance)

	return overview, nil
}
