package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account and fills in the generated id.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (user_id, currency, balance, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING account_id;
	`
	now := account.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
		account.CreatedAt = now
	}

	err := r.pool.QueryRow(ctx, query,
		account.UserID,
		account.Currency,
		account.Balance,
		now,
	).Scan(&account.AccountID)
	if err != nil {
		return mapPgError(err, "failed to save account")
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `
		SELECT account_id, user_id, currency, balance, created_at
		FROM accounts
		WHERE account_id = $1;
	`
	var acc domain.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&acc.AccountID,
		&acc.UserID,
		&acc.Currency,
		&acc.Balance,
		&acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapPgError(err, "failed to find account by ID")
	}
	return &acc, nil
}

// ListAccountsByUser retrieves all accounts owned by a user, ordered by id
// for a stable listing.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	query := `
		SELECT account_id, user_id, currency, balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY account_id;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapPgError(err, "failed to query accounts for user")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(
			&acc.AccountID,
			&acc.UserID,
			&acc.Currency,
			&acc.Balance,
			&acc.CreatedAt,
		); err != nil {
			return nil, mapPgError(err, "failed to scan account row")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account rows")
	}
	return accounts, nil
}
