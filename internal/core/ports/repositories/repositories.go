package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	BranchRepo  BranchRepositoryFacade
	JournalRepo JournalStore
	// Close releases the underlying store, if any.
	Close func()
}
