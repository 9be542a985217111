package pgsql

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for transaction and ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// WithTx runs fn inside one database transaction. Any error from fn rolls the
// whole transaction back; there is no partial commit path.
func (r *PgxLedgerRepository) WithTx(ctx context.Context, fn func(store portsrepo.LedgerStore) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored after a successful commit.
	defer r.Rollback(ctx, tx)

	if err := fn(&pgxLedgerStore{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// pgxLedgerStore is the in-transaction view handed to the engine. All methods
// execute on the same pgx.Tx.
type pgxLedgerStore struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerStore = (*pgxLedgerStore)(nil)

// LockAccounts locks the given account rows FOR UPDATE in ascending-id order.
// The ORDER BY is what makes lock acquisition a total order across all
// concurrent operations touching overlapping account sets; without it two
// opposite-direction transfers over the same pair can lock in opposite order
// and deadlock.
func (s *pgxLedgerStore) LockAccounts(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	query := `
		SELECT account_id, user_id, currency, balance, created_at
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := s.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, mapPgError(err, "failed to lock accounts")
	}
	defer rows.Close()

	accountsMap := make(map[int64]domain.Account, len(ids))
	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(
			&acc.AccountID,
			&acc.UserID,
			&acc.Currency,
			&acc.Balance,
			&acc.CreatedAt,
		); err != nil {
			return nil, mapPgError(err, "failed to scan locked account row")
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating locked account rows")
	}

	if len(accountsMap) != len(ids) {
		missing := make([]int64, 0, len(ids))
		for _, id := range ids {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: accounts %v do not exist", apperrors.ErrNotFound, missing)
	}
	return accountsMap, nil
}

// UpdateAccountBalances applies signed deltas to the locked accounts.
func (s *pgxLedgerStore) UpdateAccountBalances(ctx context.Context, changes map[int64]decimal.Decimal) error {
	if len(changes) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	accountIDs := make([]int64, 0, len(changes))
	for accountID, delta := range changes {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, delta)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := s.tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = mapPgError(err, fmt.Sprintf("failed to update balance for account %d", accountIDs[i]))
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %d vanished during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = mapPgError(err, "failed to close balance update batch")
	}
	return batchErr
}

// SaveTransaction appends one transaction with its two entries. Structural
// invariants are enforced here unconditionally; business rules stay with the
// engine.
func (s *pgxLedgerStore) SaveTransaction(ctx context.Context, kind domain.TransactionKind, entries []domain.LedgerEntry) (*domain.MonetaryTransaction, error) {
	if err := domain.ValidateEntries(kind, entries); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	txn := domain.MonetaryTransaction{Kind: kind, CreatedAt: now}

	txnQuery := `
		INSERT INTO transactions (kind, created_at)
		VALUES ($1, $2)
		RETURNING transaction_id;
	`
	if err := s.tx.QueryRow(ctx, txnQuery, string(kind), now).Scan(&txn.TransactionID); err != nil {
		return nil, mapPgError(err, "failed to insert transaction")
	}

	entryQuery := `
		INSERT INTO ledger_entries (transaction_id, account_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING entry_id;
	`
	txn.Entries = make([]domain.LedgerEntry, len(entries))
	for i, e := range entries {
		e.TransactionID = txn.TransactionID
		e.CreatedAt = now
		if err := s.tx.QueryRow(ctx, entryQuery,
			e.TransactionID,
			e.AccountID,
			e.Amount,
			e.Description,
			e.CreatedAt,
		).Scan(&e.EntryID); err != nil {
			return nil, mapPgError(err, "failed to insert ledger entry")
		}
		txn.Entries[i] = e
	}
	return &txn, nil
}

// FindTransactionByID retrieves one transaction with its entries attached.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.MonetaryTransaction, error) {
	query := `
		SELECT transaction_id, kind, created_at
		FROM transactions
		WHERE transaction_id = $1;
	`
	var txn domain.MonetaryTransaction
	var kind string
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(&txn.TransactionID, &kind, &txn.CreatedAt)
	if err != nil {
		return nil, mapPgError(err, "failed to find transaction by ID")
	}
	txn.Kind = domain.TransactionKind(kind)

	entriesMap, err := r.FindEntriesByTransactionIDs(ctx, []int64{txn.TransactionID})
	if err != nil {
		return nil, err
	}
	txn.Entries = entriesMap[txn.TransactionID]
	return &txn, nil
}

// ListTransactions retrieves a page of transactions ordered by creation time
// descending, plus the total matching count. The transaction id breaks
// creation-time ties so the ordering is stable.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, kind *domain.TransactionKind, limit, offset int) ([]domain.MonetaryTransaction, int64, error) {
	baseQuery := `SELECT transaction_id, kind, created_at FROM transactions`
	countQuery := `SELECT COUNT(*) FROM transactions`
	orderClause := ` ORDER BY created_at DESC, transaction_id DESC`

	var args []any
	filterClause := ""
	if kind != nil {
		filterClause = ` WHERE kind = $1`
		args = append(args, string(*kind))
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery+filterClause, args...).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "failed to count transactions")
	}

	query := fmt.Sprintf("%s%s%s LIMIT $%d OFFSET $%d;", baseQuery, filterClause, orderClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err, "failed to query transactions")
	}
	defer rows.Close()

	transactions := []domain.MonetaryTransaction{}
	for rows.Next() {
		var txn domain.MonetaryTransaction
		var k string
		if err := rows.Scan(&txn.TransactionID, &k, &txn.CreatedAt); err != nil {
			return nil, 0, mapPgError(err, "failed to scan transaction row")
		}
		txn.Kind = domain.TransactionKind(k)
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapPgError(err, "error iterating transaction rows")
	}
	return transactions, total, nil
}

// FindEntriesByTransactionIDs retrieves entries for multiple transactions,
// grouped by transaction id. Transactions without entries get an empty slice.
func (r *PgxLedgerRepository) FindEntriesByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.LedgerEntry, error) {
	if len(transactionIDs) == 0 {
		return map[int64][]domain.LedgerEntry{}, nil
	}

	query := `
		SELECT entry_id, transaction_id, account_id, amount, description, created_at
		FROM ledger_entries
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query ledger entries")
	}
	defer rows.Close()

	entriesMap := make(map[int64][]domain.LedgerEntry)
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.TransactionID,
			&e.AccountID,
			&e.Amount,
			&e.Description,
			&e.CreatedAt,
		); err != nil {
			return nil, mapPgError(err, "failed to scan ledger entry row")
		}
		entriesMap[e.TransactionID] = append(entriesMap[e.TransactionID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating ledger entry rows")
	}

	for _, id := range transactionIDs {
		if _, exists := entriesMap[id]; !exists {
			entriesMap[id] = []domain.LedgerEntry{}
		}
	}
	return entriesMap, nil
}
