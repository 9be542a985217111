package services

import (
	"context"

	"github.com/minibank/minibank/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionSvcFacade is the engine executing money movements. Each
// operation is one atomic unit of work: all reads, checks and writes commit
// together or not at all.
type TransactionSvcFacade interface {
	// Transfer moves amount between two same-currency accounts. The initiator
	// must own the source account; the destination may belong to anyone.
	Transfer(ctx context.Context, initiatorUserID, fromAccountID, toAccountID int64, amount decimal.Decimal) (*dto.TransactionResult, error)

	// Exchange converts amount from the source account's currency into the
	// destination account's currency at the caller-supplied rate. Both
	// accounts must belong to the initiator.
	Exchange(ctx context.Context, initiatorUserID, fromAccountID, toAccountID int64, amount, rate decimal.Decimal) (*dto.TransactionResult, error)
}

// HistorySvcFacade exposes the paginated read of recorded transactions.
type HistorySvcFacade interface {
	// ListTransactions returns a page of transactions, newest first, with
	// their ledger entries attached.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetTransaction retrieves one recorded transaction with its entries
	// attached, or apperrors.ErrNotFound.
	GetTransaction(ctx context.Context, transactionID int64) (*dto.TransactionResponse, error)
}
