package events

import (
	"time"

	"github.com/minibank/minibank/internal/core/domain"
)

// TransactionCompleted is emitted after a transfer or exchange commits.
// Amounts are the canonical two-decimal strings.
type TransactionCompleted struct {
	TransactionID int64                  `json:"transaction_id"`
	Kind          domain.TransactionKind `json:"kind"`
	FromAccountID int64                  `json:"from_account_id"`
	ToAccountID   int64                  `json:"to_account_id"`
	Amount        string                 `json:"amount"`
	CreditAmount  string                 `json:"credit_amount"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

// Publisher delivers events to downstream consumers. Publishing happens after
// commit and is best-effort: a failed publish is logged by the caller, never
// rolled into the money movement's outcome.
type Publisher interface {
	Publish(topic string, event any) error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }
