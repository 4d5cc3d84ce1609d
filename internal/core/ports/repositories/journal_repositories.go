package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by line number, scoped to a branch.
	FindEntryByID(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference retrieves the non-voided entry created for a reference, if any.
	FindEntryByReference(ctx context.Context, branchID string, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries with their lines and the token for the next page.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines the atomic mutations of the ledger. Each call either lands completely or
// leaves the store unchanged.
type JournalWriter interface {
	// CreateEntryAtomic allocates the entry number, inserts the entry and its lines and, when
	// AutoPost is set, applies the posting. A non-voided entry with the same reference is returned
	// with Replayed set instead of writing a new one.
	CreateEntryAtomic(ctx context.Context, entry domain.NewEntry) (*domain.EntryRef, error)

	// PostEntryAtomic flips a draft to posted and applies each line to its account balance.
	PostEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time) error

	// VoidEntryAtomic marks a posted entry voided and applies the exact inverse of its posting.
	VoidEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time, reason string) error

	// UpdateDraftEntry replaces the header fields and lines of a draft.
	UpdateDraftEntry(ctx context.Context, branchID, entryID string, update domain.DraftUpdate) error

	// DeleteDraftEntry removes a draft and its lines.
	DeleteDraftEntry(ctx context.Context, branchID, entryID string) error
}

// JournalStore combines all journal repository interfaces.
type JournalStore interface {
	JournalReader
	JournalWriter
}
