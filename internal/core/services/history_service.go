package services

import (
	"context"
	"fmt"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/minibank/minibank/internal/dto"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// historyServiceImpl implements the HistorySvcFacade interface
type historyServiceImpl struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewHistoryService creates a new transaction history service.
func NewHistoryService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.HistorySvcFacade {
	return &historyServiceImpl{ledgerRepo: ledgerRepo}
}

var _ portssvc.HistorySvcFacade = (*historyServiceImpl)(nil)

func (s *historyServiceImpl) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	page := params.Page
	if page <= 0 {
		page = defaultPage
	}
	// Any positive limit is honored as-is; bounding page sizes is a gateway
	// concern, not the engine's.
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var kind *domain.TransactionKind
	if params.Type != "" {
		k, err := domain.ParseTransactionKind(params.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		kind = &k
	}

	offset := (page - 1) * limit
	transactions, total, err := s.ledgerRepo.ListTransactions(ctx, kind, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}

	if len(transactions) > 0 {
		ids := make([]int64, len(transactions))
		for i, txn := range transactions {
			ids[i] = txn.TransactionID
		}
		entriesMap, err := s.ledgerRepo.FindEntriesByTransactionIDs(ctx, ids)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch entries for transaction page")
			return nil, err
		}
		for i := range transactions {
			transactions[i].Entries = entriesMap[transactions[i].TransactionID]
		}
	}

	items := make([]dto.TransactionResponse, len(transactions))
	for i := range transactions {
		items[i] = dto.ToTransactionResponse(&transactions[i])
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return &dto.ListTransactionsResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}, nil
}

func (s *historyServiceImpl) GetTransaction(ctx context.Context, transactionID int64) (*dto.TransactionResponse, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToTransactionResponse(txn)
	return &resp, nil
}
