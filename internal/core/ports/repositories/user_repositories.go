package repositories

import (
	"context"

	"github.com/minibank/minibank/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user by id.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, including the password hash.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUserWithAccounts persists a new user together with their starting
	// accounts in one transaction, filling in all generated ids. Returns
	// apperrors.ErrDuplicate if the email is already taken.
	SaveUserWithAccounts(ctx context.Context, user *domain.User, accounts []*domain.Account) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
