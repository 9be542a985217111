package services

import (
	"context"

	"github.com/minibank/minibank/internal/core/domain"
)

// AccountSvcFacade exposes account creation plus balance and ownership lookups.
type AccountSvcFacade interface {
	// OpenAccount creates an additional zero-balance account in the given
	// currency for userID.
	OpenAccount(ctx context.Context, userID int64, currency string) (*domain.Account, error)

	// ListAccounts retrieves all accounts owned by userID; an empty slice if none.
	ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error)

	// GetBalance retrieves the account's current state. It fails with
	// apperrors.ErrNotFound both when the account does not exist and when it
	// exists but is not owned by userID.
	GetBalance(ctx context.Context, accountID int64, userID int64) (*domain.Account, error)
}
