package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// SaveUserWithAccounts inserts the user and their initial accounts in one
// transaction, so a failed account insert never leaves an account-less user
// behind. Generated ids and timestamps are written back into the arguments.
func (r *PgxUserRepository) SaveUserWithAccounts(ctx context.Context, user *domain.User, accounts []*domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()
	user.CreatedAt = now

	userQuery := `
		INSERT INTO users (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id;
	`
	if err := tx.QueryRow(ctx, userQuery,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.UserID); err != nil {
		return mapPgError(err, "failed to insert user")
	}

	accountQuery := `
		INSERT INTO accounts (user_id, currency, balance, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING account_id;
	`
	for _, acc := range accounts {
		acc.UserID = user.UserID
		acc.CreatedAt = now
		if err := tx.QueryRow(ctx, accountQuery,
			acc.UserID,
			acc.Currency,
			acc.Balance,
			acc.CreatedAt,
		).Scan(&acc.AccountID); err != nil {
			return mapPgError(err, "failed to insert initial account")
		}
	}

	return r.Commit(ctx, tx)
}

// FindUserByID retrieves a user by their id.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, password_hash, created_at
		FROM users
		WHERE user_id = $1;
	`
	return r.scanUser(r.Pool.QueryRow(ctx, query, userID))
}

// FindUserByEmail retrieves a user by their email address.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1;
	`
	return r.scanUser(r.Pool.QueryRow(ctx, query, email))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgxUserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "failed to find user")
	}
	return &user, nil
}
