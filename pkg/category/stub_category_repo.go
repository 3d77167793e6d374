package category

import (
	"context"

	"github.com/shopspring/decimal"
)

type StubRepo struct {
	nextId int
	data   map[int]Category
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[int]Category{}}
}

func (s *StubRepo) Store(ctx context.Context, category Category) (int, error) {
	s.nextId++
	category.ID = s.nextId
	s.data[category.ID] = category
	return category.ID, nil
}

func (s *StubRepo) GetByID(ctx context.Context, id int) (*Category, error) {
	category, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &category, nil
}

func (s *StubRepo) GetAll(ctx context.Context) ([]Category, error) {
	categories := make([]Category, 0, len(s.data))
	for _, category := range s.data {
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *StubRepo) Update(ctx context.Context, category Category) (bool, error) {
	existing, ok := s.data[category.ID]
	if !ok {
		return false, nil
	}
	category.CurrentBalance = existing.CurrentBalance
	s.data[category.ID] = category
	return true, nil
}

func (s *StubRepo) UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) (bool, error) {
	category, ok := s.data[id]
	if !ok {
		return false, nil
	}
	category.CurrentBalance = balance
	s.data[id] = category
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
	s.data = map[int]Category{}
}
