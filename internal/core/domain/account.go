package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a single-currency balance owned by exactly one user.
// The balance is a cached projection of the account's ledger entries; it is
// mutated only by the transaction engine, inside the same atomic unit of work
// that records the paired entries, and must never diverge from their sum.
type Account struct {
	AccountID int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Currency  string          `json:"currency"` // ISO-like code, e.g. "USD"
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}
