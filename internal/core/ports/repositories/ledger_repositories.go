package repositories

import (
	"context"

	"github.com/minibank/minibank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerStore is the view of the store available inside one atomic unit of
// work. Every method runs on the same underlying database transaction; the
// writes become visible together at commit or not at all.
type LedgerStore interface {
	// LockAccounts acquires exclusive row locks on the given accounts and
	// returns their current state. Locks are always taken in ascending
	// account-id order regardless of the order of accountIDs, so concurrent
	// operations over overlapping account sets acquire locks in one total
	// order and cannot deadlock. Returns apperrors.ErrNotFound if any
	// requested account does not exist.
	LockAccounts(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error)

	// UpdateAccountBalances applies signed balance deltas to the given
	// accounts. Callers must hold locks on every account in changes.
	UpdateAccountBalances(ctx context.Context, changes map[int64]decimal.Decimal) error

	// SaveTransaction appends one transaction with its two ledger entries and
	// returns the persisted transaction. It refuses structurally invalid
	// input (see domain.ValidateEntries) unconditionally.
	SaveTransaction(ctx context.Context, kind domain.TransactionKind, entries []domain.LedgerEntry) (*domain.MonetaryTransaction, error)
}

// UnitOfWork runs a function inside a single database transaction. If fn
// returns an error the transaction is rolled back in full; no partial writes
// survive.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(store LedgerStore) error) error
}

// TransactionReader defines read operations for committed transactions and
// their entries. Reads run outside the engine's unit of work and only ever
// observe committed state.
type TransactionReader interface {
	// FindTransactionByID retrieves one transaction with its entries attached.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.MonetaryTransaction, error)

	// ListTransactions retrieves a page of transactions ordered by creation
	// time descending, optionally filtered by kind, plus the total matching
	// count.
	ListTransactions(ctx context.Context, kind *domain.TransactionKind, limit, offset int) ([]domain.MonetaryTransaction, int64, error)

	// FindEntriesByTransactionIDs retrieves entries for multiple transactions,
	// grouped by transaction id.
	FindEntriesByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines the atomic write surface with the read surface.
type LedgerRepositoryFacade interface {
	UnitOfWork
	TransactionReader
}
