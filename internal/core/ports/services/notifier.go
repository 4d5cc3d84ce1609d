package services

import "context"

// Ledger event names sent to the notification surface.
const (
	EventEntryCreated = "journal_entry_created"
	EventEntryPosted  = "journal_entry_posted"
	EventEntryVoided  = "journal_entry_voided"
	EventEntryDeleted = "journal_entry_deleted"
	EventEntryUpdated = "journal_entry_updated"
	FailedSuffix      = "_failed"
)

// LedgerEvent describes the outcome of a ledger mutation.
type LedgerEvent struct {
	Name        string
	ActorID     string
	BranchID    string
	EntryID     string
	EntryNumber string
	Err         error
	Properties  map[string]any
}

// LedgerNotifier is informed after the fact of ledger mutations. It is not part of the atomic unit
// and must not block.
type LedgerNotifier interface {
	Notify(ctx context.Context, event LedgerEvent)
}
