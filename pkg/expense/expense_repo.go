package expense

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Store stores a new Expense to the database
	Store(ctx context.Context, expense Expense) (int, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*Expense, error)
	// Find returns expenses matching the filter, oldest first.
	Find(ctx context.Context, filter Filter) ([]Expense, error)
	Update(ctx context.Context, expense Expense) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	CountForWallet(ctx context.Context, walletID int) (int, error)
	CountForCategory(ctx context.Context, categoryID int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, expense Expense) (int, error) {
	query := `INSERT INTO expenses (uid, timestamp, amount, wallet_id, passive_category_id, planned, description)
				VALUES (?, ?, ?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		expense.UID.String(),
		expense.Timestamp.UnixMilli(),
		expense.Amount.String(),
		expense.WalletID,
		expense.CategoryID,
		expense.Planned,
		expense.Description,
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

func (r *RepoImpl) GetByUID(ctx context.Context, uid uuid.UUID) (*Expense, error) {
	query := `SELECT id, uid, timestamp, amount, wallet_id, passive_category_id, planned, description
				FROM expenses WHERE uid = ?`
	row := r.db.QueryRowContext(ctx, query, uid.String())

	expense, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err := fmt.Errorf("could not scan expense: %w", err)
		log.Error(err)
		return nil, err
	}
	return &expense, nil
}

func (r *RepoImpl) Find(ctx context.Context, filter Filter) ([]Expense, error) {
	conditions := []string{"1 = 1"}
	args := []any{}
	if filter.WalletID != nil {
		conditions = append(conditions, "wallet_id = ?")
		args = append(args, *filter.WalletID)
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "passive_category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.From != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.From.UnixMilli())
	}

	query := fmt.Sprintf(
		`SELECT id, uid, timestamp, amount, wallet_id, passive_category_id, planned, description
			FROM expenses WHERE %s ORDER BY timestamp, id`,
		strings.Join(conditions, " AND "),
	)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan expense: %w", err)
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return expenses, nil
}

func (r *RepoImpl) Update(ctx context.Context, expense Expense) (bool, error) {
	query := `UPDATE expenses SET timestamp = ?, amount = ?, wallet_id = ?, passive_category_id = ?, planned = ?, description = ?
				WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		expense.Timestamp.UnixMilli(),
		expense.Amount.String(),
		expense.WalletID,
		expense.CategoryID,
		expense.Planned,
		expense.Description,
		expense.ID,
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

func (r *RepoImpl) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM expenses WHERE id = ?`
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

func (r *RepoImpl) CountForWallet(ctx context.Context, walletID int) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM expenses WHERE wallet_id = ?", walletID)
}

func (r *RepoImpl) CountForCategory(ctx context.Context, categoryID int) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM expenses WHERE passive_category_id = ?", categoryID)
}

func (r *RepoImpl) count(ctx context.Context, query string, arg any) (int, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	var count int
	if err := row.Scan(&count); err != nil {
		err := fmt.Errorf("could not count expenses: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func scanExpense(scan func(dest ...any) error) (Expense, error) {
	var expense Expense
	var uidString, amount string
	var timestampMillis int64
	if err := scan(
		&expense.ID,
		&uidString,
		&timestampMillis,
		&amount,
		&expense.WalletID,
		&expense.CategoryID,
		&expense.Planned,
		&expense.Description,
	); err != nil {
		return Expense{}, err
	}

	uid, err := uuid.Parse(uidString)
	if err != nil {
		return Expense{}, fmt.Errorf("invalid expense uid %q: %w", uidString, err)
	}
	expense.UID = uid
	expense.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Expense{}, fmt.Errorf("invalid expense amount %q: %w", amount, err)
	}
	expense.Timestamp = time.UnixMilli(timestampMillis).UTC()
	return expense, nil
}
