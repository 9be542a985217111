package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestRegister_Created() {
	resp := &dto.AuthResponse{
		AccessToken: "token-abc",
		User:        dto.UserResponse{ID: 11, Email: "new@example.com", Name: "New"},
	}
	suite.mockAuthSvc.On("Register", mock.Anything, dto.RegisterRequest{
		Email:    "new@example.com",
		Name:     "New",
		Password: "hunter2-longer",
	}).Return(resp, nil).Once()

	w := suite.do(http.MethodPost, "/auth/register", gin.H{
		"email":    "new@example.com",
		"name":     "New",
		"password": "hunter2-longer",
	}, false)

	suite.Equal(http.StatusCreated, w.Code)
	var got dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("token-abc", got.AccessToken)
	suite.Equal(int64(11), got.User.ID)
	suite.mockAuthSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRegister_ValidationByBinding() {
	tests := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"name": "New", "password": "hunter2-longer"}},
		{"malformed email", gin.H{"email": "not-an-email", "name": "New", "password": "hunter2-longer"}},
		{"short password", gin.H{"email": "new@example.com", "name": "New", "password": "short"}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/auth/register", tt.body, false)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockAuthSvc.AssertNotCalled(suite.T(), "Register", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.mockAuthSvc.On("Register", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/auth/register", gin.H{
		"email":    "taken@example.com",
		"name":     "New",
		"password": "hunter2-longer",
	}, false)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestLogin_OK() {
	resp := &dto.AuthResponse{
		AccessToken: "token-abc",
		User:        dto.UserResponse{ID: 7, Email: "ada@example.com", Name: "Ada"},
	}
	suite.mockAuthSvc.On("Login", mock.Anything, dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	}).Return(resp, nil).Once()

	w := suite.do(http.MethodPost, "/auth/login", gin.H{
		"email":    "ada@example.com",
		"password": "correct-horse",
	}, false)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestLogin_BadCredentialsAnswer401() {
	suite.mockAuthSvc.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodPost, "/auth/login", gin.H{
		"email":    "ada@example.com",
		"password": "wrong",
	}, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
}
