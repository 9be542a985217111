package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags one logical money movement.
type TransactionKind string

const (
	// KindTransfer is a same-currency movement between two accounts.
	KindTransfer TransactionKind = "transfer"
	// KindExchange is a cross-currency movement between two accounts of the
	// same user, converted at a caller-supplied rate.
	KindExchange TransactionKind = "exchange"
)

// ParseTransactionKind converts wire text into a TransactionKind.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(s) {
	case KindTransfer, KindExchange:
		return TransactionKind(s), nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// MonetaryTransaction is one committed money movement. It is immutable once
// created and owns exactly two ledger entries, a debit and a credit.
type MonetaryTransaction struct {
	TransactionID int64           `json:"id"`
	Kind          TransactionKind `json:"type"`
	CreatedAt     time.Time       `json:"createdAt"`
	Entries       []LedgerEntry   `json:"entries,omitempty"`
}

// LedgerEntry is one signed monetary line item belonging to exactly one
// transaction and one account. Entries are append-only; no update or delete
// path exists for committed rows.
type LedgerEntry struct {
	EntryID       int64           `json:"id"`
	TransactionID int64           `json:"transactionId"`
	AccountID     int64           `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

var (
	ErrEntryCount      = errors.New("transaction must have exactly two ledger entries")
	ErrEntryAccountRef = errors.New("ledger entry is missing an account reference")
	ErrEntryZeroAmount = errors.New("ledger entry amount must be non-zero")
	ErrEntrySigns      = errors.New("transaction requires one debit and one credit entry")
	ErrUnbalanced      = errors.New("transfer entries do not sum to zero")
)

// ValidateEntries enforces the structural shape of a double-entry transaction:
// exactly two entries, both referencing an account, one negative debit and one
// positive credit. Transfer legs must additionally cancel out exactly; an
// exchange debits and credits in different currencies, so its legs balance
// per-currency rather than numerically.
func ValidateEntries(kind TransactionKind, entries []LedgerEntry) error {
	if len(entries) != 2 {
		return ErrEntryCount
	}
	for _, e := range entries {
		if e.AccountID == 0 {
			return ErrEntryAccountRef
		}
		if e.Amount.IsZero() {
			return ErrEntryZeroAmount
		}
	}
	if entries[0].Amount.Sign() == entries[1].Amount.Sign() {
		return ErrEntrySigns
	}
	if kind == KindTransfer && !entries[0].Amount.Add(entries[1].Amount).IsZero() {
		return fmt.Errorf("%w: %s and %s", ErrUnbalanced, entries[0].Amount, entries[1].Amount)
	}
	return nil
}
