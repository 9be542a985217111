package repositories

// RepositoryProvider bundles the repository implementations handed to the
// service layer. Wiring happens once in main; services receive interfaces.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	LedgerRepo  LedgerRepositoryFacade
	UserRepo    UserRepositoryFacade
}
