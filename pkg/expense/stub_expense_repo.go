package expense

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

type StubRepo struct {
	nextId int
	data   map[int]Expense
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[int]Expense{}}
}

func (s *StubRepo) Store(ctx context.Context, expense Expense) (int, error) {
	s.nextId++
	expense.ID = s.nextId
	s.data[expense.ID] = expense
	return expense.ID, nil
}

func (s *StubRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*Expense, error) {
	for _, expense := range s.data {
		if expense.UID == uid {
			return &expense, nil
		}
	}
	return nil, nil
}

func (s *StubRepo) Find(ctx context.Context, filter Filter) ([]Expense, error) {
	var expenses []Expense
	for _, expense := range s.data {
		if filter.WalletID != nil && expense.WalletID != *filter.WalletID {
			continue
		}
		if filter.CategoryID != nil && expense.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.From != nil && expense.Timestamp.Before(*filter.From) {
			continue
		}
		expenses = append(expenses, expense)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Timestamp.Equal(expenses[j].Timestamp) {
			return expenses[i].ID < expenses[j].ID
		}
		return expenses[i].Timestamp.Before(expenses[j].Timestamp)
	})
	return expenses, nil
}

func (s *StubRepo) Update(ctx context.Context, expense Expense) (bool, error) {
	if _, ok := s.data[expense.ID]; !ok {
		return false, nil
	}
	s.data[expense.ID] = expense
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) CountForWallet(ctx context.Context, walletID int) (int, error) {
	count := 0
	for _, expense := range s.data {
		if expense.WalletID == walletID {
			count++
		}
	}
	return count, nil
}

func (s *StubRepo) CountForCategory(ctx context.Context, categoryID int) (int, error) {
	count := 0
	for _, expense := range s.data {
		if expense.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[int]Expense{}
}
