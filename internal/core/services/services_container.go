package services

import (
	"time"

	portsrepo "github.com/minibank/minibank/internal/core/ports/repositories"
	portssvc "github.com/minibank/minibank/internal/core/ports/services"
	"github.com/minibank/minibank/internal/events"
)

// AuthConfig carries the token-signing parameters for the auth service.
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	JWTIssuer string
}

// NewServiceContainer wires every service from the repository provider.
// publisher may be nil; the engine then skips event emission.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, publisher events.Publisher, eventTopic string, authCfg AuthConfig) *portssvc.ServiceContainer {
	userService := NewUserService(repos.UserRepo)
	return &portssvc.ServiceContainer{
		Account:     NewAccountService(repos.AccountRepo),
		Transaction: NewTransactionService(repos.LedgerRepo, publisher, eventTopic),
		History:     NewHistoryService(repos.LedgerRepo),
		User:        userService,
		Auth:        NewAuthService(userService, authCfg.JWTSecret, authCfg.JWTExpiry, authCfg.JWTIssuer),
	}
}
