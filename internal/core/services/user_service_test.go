package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
	"github.com/minibank/minibank/internal/core/services"
	"github.com/minibank/minibank/internal/dto"
	"github.com/minibank/minibank/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUserWithAccounts(ctx context.Context, user *domain.User, accounts []*domain.Account) error {
	args := m.Called(ctx, user, accounts)
	return args.Error(0)
}

func TestRegister_CreatesStartingAccounts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo)

	mockRepo.On("SaveUserWithAccounts", ctx, mock.MatchedBy(func(user *domain.User) bool {
		// The hash, never the plaintext, goes to the repository.
		return user.Email == "ada@example.com" &&
			user.Name == "Ada" &&
			user.PasswordHash != "" &&
			user.PasswordHash != "hunter2-longer" &&
			utils.CheckPasswordHash("hunter2-longer", user.PasswordHash)
	}), mock.MatchedBy(func(accounts []*domain.Account) bool {
		return len(accounts) == 2 &&
			accounts[0].Currency == "USD" && accounts[0].Balance.Equal(decimal.RequireFromString("1000.00")) &&
			accounts[1].Currency == "EUR" && accounts[1].Balance.Equal(decimal.RequireFromString("500.00"))
	})).Return(nil).Once()

	user, err := service.Register(ctx, dto.RegisterRequest{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "hunter2-longer",
	})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo)

	mockRepo.On("SaveUserWithAccounts", ctx, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: users_email_key", apperrors.ErrDuplicate)).Once()

	_, err := service.Register(ctx, dto.RegisterRequest{
		Email:    "taken@example.com",
		Name:     "Ada",
		Password: "hunter2-longer",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestVerifyCredentials(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo)

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	user := &domain.User{UserID: 7, Email: "ada@example.com", PasswordHash: hash}

	mockRepo.On("FindUserByEmail", ctx, "ada@example.com").Return(user, nil)
	mockRepo.On("FindUserByEmail", ctx, "nobody@example.com").
		Return(nil, fmt.Errorf("%w: no user", apperrors.ErrNotFound))

	got, err := service.VerifyCredentials(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)

	_, wrongPassErr := service.VerifyCredentials(ctx, "ada@example.com", "wrong")
	_, unknownEmailErr := service.VerifyCredentials(ctx, "nobody@example.com", "correct-horse")

	require.Error(t, wrongPassErr)
	require.Error(t, unknownEmailErr)
	// The two failure modes must be indistinguishable.
	assert.Equal(t, wrongPassErr.Error(), unknownEmailErr.Error())
	assert.ErrorIs(t, wrongPassErr, apperrors.ErrForbidden)
}
