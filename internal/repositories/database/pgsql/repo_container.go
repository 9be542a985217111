package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the pgx-backed implementation of every
// repository port from a single connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(pool),
		LedgerRepo:  newPgxLedgerRepository(pool),
		UserRepo:    newPgxUserRepository(pool),
	}
}
