package dto

import (
	"time"

	"github.com/minibank/minibank/internal/core/domain"
	"github.com/minibank/minibank/internal/utils/money"
	"github.com/shopspring/decimal"
)

// TransferRequest defines the data needed to submit a transfer.
// Amounts are decimal-preserving text (e.g. "100.00").
type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId" binding:"required"`
	ToAccountID   int64           `json:"toAccountId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"dpositive"`
}

// ExchangeRequest defines the data needed to submit a currency exchange.
type ExchangeRequest struct {
	FromAccountID int64           `json:"fromAccountId" binding:"required"`
	ToAccountID   int64           `json:"toAccountId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"dpositive"`
	Rate          decimal.Decimal `json:"rate" binding:"dpositive"`
}

// AccountBalance is an account's post-commit balance as returned by the engine.
type AccountBalance struct {
	ID      int64  `json:"id"`
	Balance string `json:"balance"`
}

// TransactionResult is returned by a successful transfer or exchange.
type TransactionResult struct {
	TransactionID int64          `json:"id"`
	From          AccountBalance `json:"from"`
	To            AccountBalance `json:"to"`
}

// ListTransactionsParams holds the query parameters of a history listing.
// Page and Limit are 1-based; non-positive values fall back to the defaults.
type ListTransactionsParams struct {
	Type  string `form:"type" binding:"omitempty,oneof=transfer exchange"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// LedgerEntryResponse is one signed line item of a transaction.
type LedgerEntryResponse struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"accountId"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TransactionResponse is one recorded transaction with its entries attached.
type TransactionResponse struct {
	ID        int64                 `json:"id"`
	Type      string                `json:"type"`
	CreatedAt time.Time             `json:"createdAt"`
	Entries   []LedgerEntryResponse `json:"entries"`
}

// ListTransactionsResponse is one page of the transaction history.
type ListTransactionsResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
	Pages int64                 `json:"pages"`
}

// ToLedgerEntryResponse converts a domain ledger entry to its API shape.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          e.EntryID,
		AccountID:   e.AccountID,
		Amount:      money.Format(e.Amount),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// ToTransactionResponse converts a domain transaction to its API shape.
func ToTransactionResponse(t *domain.MonetaryTransaction) TransactionResponse {
	entries := make([]LedgerEntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = ToLedgerEntryResponse(e)
	}
	return TransactionResponse{
		ID:        t.TransactionID,
		Type:      string(t.Kind),
		CreatedAt: t.CreatedAt,
		Entries:   entries,
	}
}
