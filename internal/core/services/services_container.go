package services

import (
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
)

// journalFacade joins the posting engine, the void engine and the query layer.
type journalFacade struct {
	portssvc.JournalReaderSvc
	portssvc.JournalWriterSvc
	portssvc.JournalVoiderSvc
}

var _ portssvc.JournalSvcFacade = journalFacade{}

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	options = append([]ServiceOption{WithBranchReader(repos.BranchRepo)}, options...)

	posting := NewJournalService(repos.JournalRepo, repos.AccountRepo, options...)
	voiding := NewVoidService(repos.JournalRepo, repos.AccountRepo, options...)
	query := NewJournalQueryService(repos.JournalRepo, repos.AccountRepo, options...)

	return &portssvc.ServiceContainer{
		Account:       NewAccountService(repos.AccountRepo, repos.BranchRepo, options...),
		Journal:       journalFacade{JournalReaderSvc: query, JournalWriterSvc: posting, JournalVoiderSvc: voiding},
		SystemJournal: NewSystemJournalService(posting, options...),
	}
}
