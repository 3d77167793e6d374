package wallet

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Store stores a new Wallet to the database
	Store(ctx context.Context, wallet Wallet) (int, error)
	GetByID(ctx context.Context, id int) (*Wallet, error)
	GetAll(ctx context.Context) ([]Wallet, error)
	// Update persists the source fields (name, initial balance, start time).
	Update(ctx context.Context, wallet Wallet) (bool, error)
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

func (r *RepoImpl) Store(ctx context.Context, wallet Wallet) (int, error) {
	query := `INSERT INTO wallets (name, initial_balance, start_timestamp, current_balance)
				VALUES (?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		wallet.Name,
		wallet.InitialBalance.String(),
		wallet.StartTime.UnixMilli(),
		wallet.CurrentBalance.String(),
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

func (r *RepoImpl) GetByID(ctx context.Context, id int) (*Wallet, error) {
	query := `SELECT id, name, initial_balance, start_timestamp, current_balance
				FROM wallets WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	wallet, err := scanWallet(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err := fmt.Errorf("could not scan wallet: %w", err)
		log.Error(err)
		return nil, err
	}
	return &wallet, nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]Wallet, error) {
	query := `SELECT id, name, initial_balance, start_timestamp, current_balance
				FROM wallets ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query wallets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan wallet: %w", err)
			log.Error(err)
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return wallets, nil
}

func (r *RepoImpl) Update(ctx context.Context, wallet Wallet) (bool, error) {
	query := `UPDATE wallets SET name = ?, initial_balance = ?, start_timestamp = ? WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		wallet.Name,
		wallet.InitialBalance.String(),
		wallet.StartTime.UnixMilli(),
		wallet.ID,
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
	query := `UPDATE wallets SET current_balance = ? WHERE id = ?`
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
	query := `DELETE FROM wallets WHERE id = ?`
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

func scanWallet(scan func(dest ...any) error) (Wallet, error) {
	var wallet Wallet
	var initialBalance, currentBalance string
	var startMillis int64
	if err := scan(&wallet.ID, &wallet.Name, &initialBalance, &startMillis, &currentBalance); err != nil {
		return Wallet{}, err
	}

	var err error
	wallet.InitialBalance, err = decimal.NewFromString(initialBalance)
	if err != nil {
		return Wallet{}, fmt.Errorf("invalid initial balance %q: %w", initialBalance, err)
	}
	wallet.CurrentBalance, err = decimal.NewFromString(currentBalance)
	if err != nil {
		return Wallet{}, fmt.Errorf("invalid current balance %q: %w", currentBalance, err)
	}
	wallet.StartTime = time.UnixMilli(startMillis).UTC()
	return wallet, nil
}
