package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type StubRepo struct {
	nextId int
	data   map[int]Wallet
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[int]Wallet{}}
}

func (s *StubRepo) Store(ctx context.Context, wallet Wallet) (int, error) {
	s.nextId++
	wallet.ID = s.nextId
	s.data[wallet.ID] = wallet
	return wallet.ID, nil
}

func (s *StubRepo) GetByID(ctx context.Context, id int) (*Wallet, error) {
	wallet, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &wallet, nil
}

func (s *StubRepo) GetAll(ctx context.Context) ([]Wallet, error) {
	wallets := make([]Wallet, 0, len(s.data))
	for _, wallet := range s.data {
		wallets = append(wallets, wallet)
	}
	return wallets, nil
}

func (s *StubRepo) Update(ctx context.Context, wallet Wallet) (bool, error) {
	existing, ok := s.data[wallet.ID]
	if !ok {
		return false, nil
	}
	wallet.CurrentBalance = existing.CurrentBalance
	s.data[wallet.ID] = wallet
	return true, nil
}

func (s *StubRepo) UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) (bool, error) {
	wallet, ok := s.data[id]
	if !ok {
		return false, nil
	}
	wallet.CurrentBalance = balance
	s.data[id] = wallet
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[int]Wallet{}
}
