package dto

import (
	"github.com/minibank/minibank/internal/core/domain"
	"github.com/minibank/minibank/internal/utils/money"
)

// CreateAccountRequest defines the data needed to open an additional account.
type CreateAccountRequest struct {
	Currency string `json:"currency" binding:"required,len=3,alpha,uppercase"`
}

// AccountResponse defines the data returned for an account. Balances cross
// the API as two-decimal text, never as binary floating point.
type AccountResponse struct {
	ID       int64  `json:"id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

// BalanceResponse is the payload of a single-account balance lookup.
type BalanceResponse struct {
	ID      int64  `json:"id"`
	Balance string `json:"balance"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:       a.AccountID,
		Currency: a.Currency,
		Balance:  money.Format(a.Balance),
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
