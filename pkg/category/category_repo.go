package category

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Store stores a new Category to the database
	Store(ctx context.Context, category Category) (int, error)
	GetByID(ctx context.Context, id int) (*Category, error)
	GetAll(ctx context.Context) ([]Category, error)
	// Update persists the source fields (name, budgets, budget start).
	Update(ctx context.Context, category Category) (bool, error)
	// UpdateBalance persists a freshly calculated current balance.
	UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, category Category) (int, error) {
	query := `INSERT INTO categories (name, initial_budget, added_budget, budget_start, current_balance)
				VALUES (?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		category.Name,
		category.InitialBudget.String(),
		category.AddedBudget.String(),
		category.BudgetStart.UnixMilli(),
		category.CurrentBalance.String(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	return int(lastInsertID), nil
}

func (r *RepoImpl) GetByID(ctx context.Context, id int) (*Category, error) {
	query := `SELECT id, name, initial_budget, added_budget, budget_start, current_balance
				FROM categories WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	category, err := scanCategory(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err := fmt.Errorf("could not scan category: %w", err)
		log.Error(err)
		return nil, err
	}
	return &category, nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, initial_budget, added_budget, budget_start, current_balance
				FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan category: %w", err)
			log.Error(err)
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return categories, nil
}

func (r *RepoImpl) Update(ctx context.Context, category Category) (bool, error) {
	query := `UPDATE categories SET name = ?, initial_budget = ?, added_budget = ?, budget_start = ? WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		category.Name,
		category.InitialBudget.String(),
		category.AddedBudget.String(),
		category.BudgetStart.UnixMilli(),
		category.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}

	return rowsAffected == 1, nil
}

func (r *RepoImpl) UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) (bool, error) {
	query := `UPDATE categories SET current_balance = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, balance.String(), id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM categories WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanCategory(scan func(dest ...any) error) (Category, error) {
	var category Category
	var initialBudget, addedBudget, currentBalance string
	var startMillis int64
	if err := scan(&category.ID, &category.Name, &initialBudget, &addedBudget, &startMillis, &currentBalance); err != nil {
		return Category{}, err
	}

	var err error
	category.InitialBudget, err = decimal.NewFromString(initialBudget)
	if err != nil {
		return Category{}, fmt.Errorf("invalid initial budget %q: %w", initialBudget, err)
	}
	category.AddedBudget, err = decimal.NewFromString(addedBudget)
	if err != nil {
		return Category{}, fmt.Errorf("invalid added budget %q: %w", addedBudget, err)
	}
	category.CurrentBalance, err = decimal.NewFromString(currentBalance)
	if err != nil {
		return Category{}, fmt.Errorf("invalid current balance %q: %w", currentBalance, err)
	}
	category.BudgetStart = time.UnixMilli(startMillis).UTC()
	return category, nil
}
