// Package memory is an in-process ledger store. A single mutex makes every mutation atomic.
package memory

import (
	"fmt"
	"sync"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
)

// Store keeps branches, accounts and journal entries in maps.
type Store struct {
	mu        sync.RWMutex
	branches  map[string]domain.Branch
	accounts  map[string]domain.Account
	entries   map[string]*domain.JournalEntry
	sequences map[string]int64
	refIndex  map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		branches:  make(map[string]domain.Branch),
		accounts:  make(map[string]domain.Account),
		entries:   make(map[string]*domain.JournalEntry),
		sequences: make(map[string]int64),
		refIndex:  make(map[string]string),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.BranchRepositoryFacade  = (*Store)(nil)
	_ portsrepo.JournalStore            = (*Store)(nil)
)

// NewRepositoryProvider wires a fresh store into every repository slot.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewRepositoryProviderFor(New())
}

// NewRepositoryProviderFor wires s into every repository slot.
func NewRepositoryProviderFor(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: s,
		BranchRepo:  s,
		JournalRepo: s,
		Close:       func() {},
	}
}

func sequenceKey(branchID string, year int) string {
	return fmt.Sprintf("%s|%d", branchID, year)
}

func referenceKey(branchID string, refType domain.ReferenceType, refID string) string {
	return fmt.Sprintf("%s|%s|%s", branchID, refType, refID)
}

func cloneEntry(e *domain.JournalEntry) domain.JournalEntry {
	out := *e
	out.Lines = make([]domain.JournalEntryLine, len(e.Lines))
	copy(out.Lines, e.Lines)
	return out
}
