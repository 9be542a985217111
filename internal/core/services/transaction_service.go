package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/minibank/minibank/internal/dto"
	"github.com/minibank/minibank/internal/events"
	"github.com/minibank/minibank/internal/utils/money"
	"github.com/shopspring/decimal"
)

// transactionServiceImpl implements the TransactionSvcFacade interface. It is
// the only writer of transactions and ledger entries: every money movement
// goes through one WithTx unit of work that locks both accounts, re-checks
// all business rules on the locked state and writes balances plus the ledger
// record together.
type transactionServiceImpl struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
	publisher  events.Publisher
	eventTopic string
}

// NewTransactionService creates the transaction engine. publisher may be nil
// when no broker is configured.
func NewTransactionService(ledgerRepo portsrepo.LedgerRepositoryFacade, publisher events.Publisher, eventTopic string) portssvc.TransactionSvcFacade {
	return &transactionServiceImpl{
		ledgerRepo: ledgerRepo,
		publisher:  publisher,
		eventTopic: eventTopic,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionServiceImpl)(nil)

func (s *transactionServiceImpl) Transfer(ctx context.Context, initiatorUserID, fromAccountID, toAccountID int64, amount decimal.Decimal) (*dto.TransactionResult, error) {
	debit, err := validateMovementAmount(fromAccountID, toAccountID, amount)
	if err != nil {
		return nil, err
	}

	var result *dto.TransactionResult
	err = s.ledgerRepo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		accounts, err := store.LockAccounts(ctx, []int64{fromAccountID, toAccountID})
		if err != nil {
			return err
		}
		from := accounts[fromAccountID]
		to := accounts[toAccountID]

		if from.UserID != initiatorUserID {
			return fmt.Errorf("%w: account %d does not belong to the initiator", apperrors.ErrForbidden, fromAccountID)
		}
		if from.Currency != to.Currency {
			return fmt.Errorf("%w: transfer requires both accounts in the same currency, got %s and %s",
				apperrors.ErrValidation, from.Currency, to.Currency)
		}
		if from.Balance.LessThan(debit) {
			return fmt.Errorf("%w: account %d holds %s, needs %s",
				apperrors.ErrInsufficientFunds, fromAccountID, money.Format(from.Balance), money.Format(debit))
		}

		entries := []domain.LedgerEntry{
			{AccountID: fromAccountID, Amount: debit.Neg(), Description: string(domain.KindTransfer)},
			{AccountID: toAccountID, Amount: debit, Description: string(domain.KindTransfer)},
		}
		txn, err := store.SaveTransaction(ctx, domain.KindTransfer, entries)
		if err != nil {
			return err
		}
		if err := store.UpdateAccountBalances(ctx, map[int64]decimal.Decimal{
			fromAccountID: debit.Neg(),
			toAccountID:   debit,
		}); err != nil {
			return err
		}

		result = &dto.TransactionResult{
			TransactionID: txn.TransactionID,
			From:          dto.AccountBalance{ID: fromAccountID, Balance: money.Format(from.Balance.Sub(debit))},
			To:            dto.AccountBalance{ID: toAccountID, Balance: money.Format(to.Balance.Add(debit))},
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Transfer failed",
			slog.Int64("from_account_id", fromAccountID),
			slog.Int64("to_account_id", toAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer committed",
		slog.Int64("transaction_id", result.TransactionID),
		slog.Int64("from_account_id", fromAccountID),
		slog.Int64("to_account_id", toAccountID),
		slog.String("amount", money.Format(debit)))
	s.publishCompleted(ctx, result.TransactionID, domain.KindTransfer, fromAccountID, toAccountID, debit, debit)
	return result, nil
}

func (s *transactionServiceImpl) Exchange(ctx context.Context, initiatorUserID, fromAccountID, toAccountID int64, amount, rate decimal.Decimal) (*dto.TransactionResult, error) {
	debit, err := validateMovementAmount(fromAccountID, toAccountID, amount)
	if err != nil {
		return nil, err
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrValidation, rate)
	}
	// The converted leg is rounded exactly once, after the full-precision
	// multiplication.
	credit := money.Round2(amount.Mul(rate))
	if !credit.IsPositive() {
		return nil, fmt.Errorf("%w: amount %s at rate %s converts to nothing", apperrors.ErrValidation, amount, rate)
	}

	var result *dto.TransactionResult
	err = s.ledgerRepo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		accounts, err := store.LockAccounts(ctx, []int64{fromAccountID, toAccountID})
		if err != nil {
			return err
		}
		from := accounts[fromAccountID]
		to := accounts[toAccountID]

		if from.UserID != initiatorUserID || to.UserID != initiatorUserID {
			return fmt.Errorf("%w: exchange requires both accounts to belong to the initiator", apperrors.ErrForbidden)
		}
		if from.Currency == to.Currency {
			return fmt.Errorf("%w: exchange requires accounts in different currencies, both are %s",
				apperrors.ErrValidation, from.Currency)
		}
		if from.Balance.LessThan(debit) {
			return fmt.Errorf("%w: account %d holds %s, needs %s",
				apperrors.ErrInsufficientFunds, fromAccountID, money.Format(from.Balance), money.Format(debit))
		}

		entries := []domain.LedgerEntry{
			{AccountID: fromAccountID, Amount: debit.Neg(), Description: string(domain.KindExchange)},
			{AccountID: toAccountID, Amount: credit, Description: string(domain.KindExchange)},
		}
		txn, err := store.SaveTransaction(ctx, domain.KindExchange, entries)
		if err != nil {
			return err
		}
		if err := store.UpdateAccountBalances(ctx, map[int64]decimal.Decimal{
			fromAccountID: debit.Neg(),
			toAccountID:   credit,
		}); err != nil {
			return err
		}

		result = &dto.TransactionResult{
			TransactionID: txn.TransactionID,
			From:          dto.AccountBalance{ID: fromAccountID, Balance: money.Format(from.Balance.Sub(debit))},
			To:            dto.AccountBalance{ID: toAccountID, Balance: money.Format(to.Balance.Add(credit))},
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Exchange failed",
			slog.Int64("from_account_id", fromAccountID),
			slog.Int64("to_account_id", toAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Exchange committed",
		slog.Int64("transaction_id", result.TransactionID),
		slog.Int64("from_account_id", fromAccountID),
		slog.Int64("to_account_id", toAccountID),
		slog.String("amount", money.Format(debit)),
		slog.String("credited", money.Format(credit)))
	s.publishCompleted(ctx, result.TransactionID, domain.KindExchange, fromAccountID, toAccountID, debit, credit)
	return result, nil
}

// validateMovementAmount applies the checks shared by both operations and
// returns the two-decimal debit amount.
func validateMovementAmount(fromAccountID, toAccountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if fromAccountID == toAccountID {
		return decimal.Zero, fmt.Errorf("%w: source and destination account must differ", apperrors.ErrValidation)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount)
	}
	debit := money.Round2(amount)
	if !debit.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is below the smallest transferable unit", apperrors.ErrValidation, amount)
	}
	return debit, nil
}

// publishCompleted emits the post-commit event. Failures are logged only; the
// money has already moved.
func (s *transactionServiceImpl) publishCompleted(ctx context.Context, transactionID int64, kind domain.TransactionKind, fromAccountID, toAccountID int64, debit, credit decimal.Decimal) {
	if s.publisher == nil {
		return
	}
	event := events.TransactionCompleted{
		TransactionID: transactionID,
		Kind:          kind,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        money.Format(debit),
		CreditAmount:  money.Format(credit),
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(s.eventTopic, event); err != nil {
		s.LogError(ctx, err, "Failed to publish transaction completed event",
			slog.Int64("transaction_id", transactionID))
	}
}
