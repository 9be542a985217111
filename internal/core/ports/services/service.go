package services

// ServiceContainer bundles the service implementations handed to the
// transport layer.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Transaction TransactionSvcFacade
	History     HistorySvcFacade
	User        UserSvcFacade
	Auth        AuthSvcFacade
}
