package services

import (
	"context"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
)

// JournalReaderSvc is the query and projection side of the ledger.
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines, filling blank account labels from the registry.
	GetEntry(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries and the token for the next page.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error)

	// SummarizeBranch folds every entry matching the filter into totals by state and reference type.
	SummarizeBranch(ctx context.Context, filter domain.EntryFilter) (*domain.LedgerSummary, error)
}

// JournalWriterSvc is the posting engine.
type JournalWriterSvc interface {
	// CreateEntry validates and atomically creates an entry, posting it when AutoPost is set.
	CreateEntry(ctx context.Context, actor domain.Actor, in domain.CreateEntryInput) (*domain.EntryRef, error)

	// PostEntry transitions a draft to posted and applies it to account balances.
	PostEntry(ctx context.Context, actor domain.Actor, branchID, entryID string) (*domain.JournalEntry, error)

	// UpdateDraftEntry replaces the header and lines of a draft.
	UpdateDraftEntry(ctx context.Context, actor domain.Actor, branchID, entryID string, in domain.UpdateEntryInput) (*domain.JournalEntry, error)
}

// JournalVoiderSvc is the void/reversal engine.
type JournalVoiderSvc interface {
	// VoidEntry reverses a posted entry's balance effect and marks it voided.
	VoidEntry(ctx context.Context, actor domain.Actor, branchID, entryID, reason string) (*domain.JournalEntry, error)

	// DeleteDraftEntry removes a draft entry and its lines.
	DeleteDraftEntry(ctx context.Context, actor domain.Actor, branchID, entryID string) error
}

// JournalSvcFacade combines all journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalVoiderSvc
}

// SystemJournalSvc generates balanced, auto-posted entries for business events.
type SystemJournalSvc interface {
	Generate(ctx context.Context, actor domain.Actor, branchID string, req domain.SystemJournalRequest) (*domain.EntryRef, error)
}
