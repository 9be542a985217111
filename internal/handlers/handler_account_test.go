package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	"github.com/minibank/minibank/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestOpenAccount_Created() {
	account := &domain.Account{AccountID: 5, UserID: suite.userID, Currency: "GBP", Balance: decimal.Zero}
	suite.mockAccountSvc.On("OpenAccount", mock.Anything, suite.userID, "GBP").Return(account, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Currency: "GBP"}, true)

	suite.Equal(http.StatusCreated, w.Code)
	var got dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(int64(5), got.ID)
	suite.Equal("GBP", got.Currency)
	suite.Equal("0.00", got.Balance)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestOpenAccount_BadCurrency() {
	for _, currency := range []string{"", "usd", "US", "USDT"} {
		w := suite.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Currency: currency}, true)
		suite.Equal(http.StatusBadRequest, w.Code, "currency %q", currency)
	}
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "OpenAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestListAccounts_OK() {
	accounts := []domain.Account{
		{AccountID: 1, UserID: suite.userID, Currency: "USD", Balance: decimal.RequireFromString("1000.00")},
		{AccountID: 2, UserID: suite.userID, Currency: "EUR", Balance: decimal.RequireFromString("500.5")},
	}
	suite.mockAccountSvc.On("ListAccounts", mock.Anything, suite.userID).Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var got []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got, 2)
	suite.Equal("1000.00", got[0].Balance)
	// Balances always render with two fraction digits.
	suite.Equal("500.50", got[1].Balance)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetBalance_OK() {
	account := &domain.Account{AccountID: 1, UserID: suite.userID, Currency: "USD", Balance: decimal.RequireFromString("123.45")}
	suite.mockAccountSvc.On("GetBalance", mock.Anything, int64(1), suite.userID).Return(account, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/1/balance", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(int64(1), got.ID)
	suite.Equal("123.45", got.Balance)
}

func (suite *HandlerTestSuite) TestGetBalance_NotFound() {
	suite.mockAccountSvc.On("GetBalance", mock.Anything, int64(9), suite.userID).
		Return(nil, fmt.Errorf("%w: account 9 not found", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/9/balance", nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetBalance_BadID() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/abc/balance", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestMe_OK() {
	user := &domain.User{UserID: suite.userID, Email: "ada@example.com", Name: "Ada"}
	suite.mockUserSvc.On("GetUserByID", mock.Anything, suite.userID).Return(user, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/me", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(suite.userID, got.ID)
	suite.Equal("ada@example.com", got.Email)
	// The password hash never appears in the payload.
	suite.NotContains(w.Body.String(), "password")
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, false)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}
