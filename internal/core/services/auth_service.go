package services

import (
	"context"
	"fmt"
	"time"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/minibank/minibank/internal/core/domain"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/minibank/minibank/internal/dto"
	"github.com/minibank/minibank/internal/utils"
)

// authServiceImpl implements the AuthSvcFacade interface
type authServiceImpl struct {
	BaseService
	userService portssvc.UserSvcFacade
	jwtSecret   string
	jwtExpiry   time.Duration
	jwtIssuer   string
}

// NewAuthService creates a new auth service issuing HS256 access tokens.
func NewAuthService(userService portssvc.UserSvcFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authServiceImpl{
		userService: userService,
		jwtSecret:   jwtSecret,
		jwtExpiry:   jwtExpiry,
		jwtIssuer:   jwtIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authServiceImpl)(nil)

func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := s.userService.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issueToken(ctx, user)
}

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userService.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueToken(ctx, user)
}

func (s *authServiceImpl) issueToken(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return nil, fmt.Errorf("%w: failed to sign access token", apperrors.ErrInternal)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		User:        dto.ToUserResponse(user),
	}, nil
}
