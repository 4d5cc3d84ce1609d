package services

// ServiceContainer holds instances of all the application services used by the handlers.
type ServiceContainer struct {
	Account       AccountSvcFacade
	Journal       JournalSvcFacade
	SystemJournal SystemJournalSvc
}
