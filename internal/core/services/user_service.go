package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/minibank/minibank/internal/dto"
	"github.com/minibank/minibank/internal/utils"
	"github.com/shopspring/decimal"
)

// Every new user starts with the same two accounts.
var startingBalances = []struct {
	Currency string
	Balance  decimal.Decimal
}{
	{Currency: "USD", Balance: decimal.RequireFromString("1000.00")},
	{Currency: "EUR", Balance: decimal.RequireFromString("500.00")},
}

// userServiceImpl implements the UserSvcFacade interface
type userServiceImpl struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userServiceImpl{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userServiceImpl)(nil)

func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("%w: failed to hash password", apperrors.ErrInternal)
	}

	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	accounts := make([]*domain.Account, len(startingBalances))
	for i, sb := range startingBalances {
		accounts[i] = &domain.Account{
			Currency: sb.Currency,
			Balance:  sb.Balance,
		}
	}

	if err := s.userRepo.SaveUserWithAccounts(ctx, user, accounts); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("email", req.Email))
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.Int64("user_id", user.UserID))
	return user, nil
}

// VerifyCredentials never reveals whether the email exists. Both failure
// paths return the same error.
func (s *userServiceImpl) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	invalidCredentials := fmt.Errorf("%w: invalid email or password", apperrors.ErrForbidden)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user by email")
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, invalidCredentials
	}
	return user, nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
