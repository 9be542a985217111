package services

import (
	"context"

	"github.com/minibank/minibank/internal/core/domain"
	"github.com/minibank/minibank/internal/dto"
)

// UserSvcFacade manages user records and their starting accounts.
type UserSvcFacade interface {
	// Register creates a user with a hashed password plus one starting
	// account per configured currency.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// VerifyCredentials checks email and password, returning the user on
	// success. Unknown email and wrong password are indistinguishable.
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// AuthSvcFacade issues access tokens for registered users.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}
