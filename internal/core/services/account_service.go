package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account query service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountServiceImpl{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// OpenAccount creates an additional zero-balance account for the user. The
// starting accounts are created at registration; this covers further
// currencies.
func (s *accountServiceImpl) OpenAccount(ctx context.Context, userID int64, currency string) (*domain.Account, error) {
	if !isCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: currency must be a three-letter uppercase code", apperrors.ErrValidation)
	}

	account := &domain.Account{
		UserID:   userID,
		Currency: currency,
		Balance:  decimal.Zero,
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.Int64("user_id", userID), slog.String("currency", currency))
		return nil, err
	}
	s.LogInfo(ctx, "Account opened",
		slog.Int64("account_id", account.AccountID),
		slog.Int64("user_id", userID),
		slog.String("currency", currency))
	return account, nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Int64("user_id", userID))
		return nil, err
	}
	return accounts, nil
}

// GetBalance returns the account state only to its owner. A foreign account
// answers ErrNotFound, identical to a nonexistent one, so account ids cannot
// be probed.
func (s *accountServiceImpl) GetBalance(ctx context.Context, accountID int64, userID int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		s.LogDebug(ctx, "Balance lookup on account not owned by caller",
			slog.Int64("account_id", accountID),
			slog.Int64("user_id", userID))
		return nil, fmt.Errorf("%w: account %d not found", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}
