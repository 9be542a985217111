package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/minibank/minibank/internal/dto"
	"github.com/minibank/minibank/internal/handlers"
	"github.com/minibank/minibank/internal/middleware"
	"github.com/minibank/minibank/internal/utils"
	"github.com/minibank/minibank/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock services shared by the handler tests ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) OpenAccount(ctx context.Context, userID int64, currency string) (*domain.Account, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetBalance(ctx context.Context, accountID int64, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) Transfer(ctx context.Context, initiatorUserID, fromAccountID, toAccountID int64, amount decimal.Decimal) (*dto.TransactionResult, error) {
	args := m.Called(ctx, initiatorUserID, fromAccountID, toAccountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}

func (m *MockTransactionService) Exchange(ctx context.Context, initiatorUserID, fromAccountID, toAccountID int64, amount, rate decimal.Decimal) (*dto.TransactionResult, error) {
	args := m.Called(ctx, initiatorUserID, fromAccountID, toAccountID, amount, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}

type MockHistoryService struct {
	mock.Mock
}

var _ portssvc.HistorySvcFacade = (*MockHistoryService)(nil)

func (m *MockHistoryService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockHistoryService) GetTransaction(ctx context.Context, transactionID int64) (*dto.TransactionResponse, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResponse), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

// --- Shared suite plumbing ---

const handlerTestSecret = "handler-test-secret"

type HandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockAccountSvc  *MockAccountService
	mockTxnSvc      *MockTransactionService
	mockHistorySvc  *MockHistoryService
	mockUserSvc     *MockUserService
	mockAuthSvc     *MockAuthService
	authorizedToken string
	userID          int64
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterValidations()

	suite.mockAccountSvc = new(MockAccountService)
	suite.mockTxnSvc = new(MockTransactionService)
	suite.mockHistorySvc = new(MockHistoryService)
	suite.mockUserSvc = new(MockUserService)
	suite.mockAuthSvc = new(MockAuthService)

	cfg := &config.Config{
		JWTSecret:     handlerTestSecret,
		AuthRateLimit: "1000-S",
		IsProduction:  true,
	}
	container := &portssvc.ServiceContainer{
		Account:     suite.mockAccountSvc,
		Transaction: suite.mockTxnSvc,
		History:     suite.mockHistorySvc,
		User:        suite.mockUserSvc,
		Auth:        suite.mockAuthSvc,
	}

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.Default()))
	handlers.RegisterRoutes(suite.router, cfg, container)

	suite.userID = 7
	token, err := utils.GenerateJWT(suite.userID, handlerTestSecret, time.Hour, "handler-test")
	suite.Require().NoError(err)
	suite.authorizedToken = token
}

func (suite *HandlerTestSuite) do(method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+suite.authorizedToken)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Transfer ---

func (suite *HandlerTestSuite) TestTransfer_Created() {
	amount := decimal.RequireFromString("150.00")
	result := &dto.TransactionResult{
		TransactionID: 42,
		From:          dto.AccountBalance{ID: 1, Balance: "850.00"},
		To:            dto.AccountBalance{ID: 2, Balance: "1150.00"},
	}
	suite.mockTxnSvc.On("Transfer", mock.Anything, suite.userID, int64(1), int64(2), mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(amount)
	})).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/transfer", gin.H{
		"fromAccountId": 1,
		"toAccountId":   2,
		"amount":        "150.00",
	}, true)

	suite.Equal(http.StatusCreated, w.Code)
	var got dto.TransactionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(int64(42), got.TransactionID)
	suite.Equal("850.00", got.From.Balance)
	suite.Equal("1150.00", got.To.Balance)
	suite.mockTxnSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestTransfer_ErrorMapping() {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: bad amount", apperrors.ErrValidation), http.StatusBadRequest},
		{"forbidden", fmt.Errorf("%w: not yours", apperrors.ErrForbidden), http.StatusForbidden},
		{"not found", fmt.Errorf("%w: no account", apperrors.ErrNotFound), http.StatusNotFound},
		{"insufficient funds", fmt.Errorf("%w: short", apperrors.ErrInsufficientFunds), http.StatusUnprocessableEntity},
		{"transient", fmt.Errorf("%w: retry", apperrors.ErrTransient), http.StatusConflict},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockTxnSvc.ExpectedCalls = nil
			suite.mockTxnSvc.On("Transfer", mock.Anything, suite.userID, int64(1), int64(2), mock.Anything).
				Return(nil, tt.serviceErr).Once()

			w := suite.do(http.MethodPost, "/api/v1/transactions/transfer", gin.H{
				"fromAccountId": 1,
				"toAccountId":   2,
				"amount":        "10.00",
			}, true)

			suite.Equal(tt.wantStatus, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestTransfer_BadBody() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/transfer", gin.H{
		"fromAccountId": 1,
	}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestTransfer_RequiresAuth() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/transfer", gin.H{
		"fromAccountId": 1,
		"toAccountId":   2,
		"amount":        "10.00",
	}, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Exchange ---

func (suite *HandlerTestSuite) TestExchange_Created() {
	result := &dto.TransactionResult{
		TransactionID: 99,
		From:          dto.AccountBalance{ID: 1, Balance: "966.67"},
		To:            dto.AccountBalance{ID: 3, Balance: "537.16"},
	}
	suite.mockTxnSvc.On("Exchange", mock.Anything, suite.userID, int64(1), int64(3),
		mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.RequireFromString("33.33")) }),
		mock.MatchedBy(func(r decimal.Decimal) bool { return r.Equal(decimal.RequireFromString("1.115")) }),
	).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/exchange", gin.H{
		"fromAccountId": 1,
		"toAccountId":   3,
		"amount":        "33.33",
		"rate":          "1.115",
	}, true)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockTxnSvc.AssertExpectations(suite.T())
}

// --- History ---

func (suite *HandlerTestSuite) TestListTransactions_QueryBinding() {
	page := &dto.ListTransactionsResponse{
		Items: []dto.TransactionResponse{},
		Total: 0, Page: 2, Limit: 5, Pages: 0,
	}
	suite.mockHistorySvc.On("ListTransactions", mock.Anything, dto.ListTransactionsParams{
		Type: "exchange", Page: 2, Limit: 5,
	}).Return(page, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions?type=exchange&page=2&limit=5", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockHistorySvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListTransactions_UnknownType() {
	w := suite.do(http.MethodGet, "/api/v1/transactions?type=withdrawal", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockHistorySvc.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetTransaction_OK() {
	txn := &dto.TransactionResponse{
		ID:   12,
		Type: "transfer",
		Entries: []dto.LedgerEntryResponse{
			{ID: 120, AccountID: 1, Amount: "-25.00", Description: "transfer"},
			{ID: 121, AccountID: 2, Amount: "25.00", Description: "transfer"},
		},
	}
	suite.mockHistorySvc.On("GetTransaction", mock.Anything, int64(12)).Return(txn, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/12", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(int64(12), got.ID)
	suite.Len(got.Entries, 2)
	suite.mockHistorySvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockHistorySvc.On("GetTransaction", mock.Anything, int64(99)).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/99", nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetTransaction_BadID() {
	w := suite.do(http.MethodGet, "/api/v1/transactions/abc", nil, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockHistorySvc.AssertNotCalled(suite.T(), "GetTransaction", mock.Anything, mock.Anything)
}

func TestTransactionHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
