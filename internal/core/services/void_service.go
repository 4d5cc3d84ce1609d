package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/utils/accounting"
)

// voidService is the void/reversal engine. History is never deleted once posted.
type voidService struct {
	BaseService
	store    portsrepo.JournalStore
	accounts portsrepo.AccountReader
}

// NewVoidService creates the void/reversal engine.
func NewVoidService(store portsrepo.JournalStore, accounts portsrepo.AccountReader, options ...ServiceOption) portssvc.JournalVoiderSvc {
	svc := &voidService{store: store, accounts: accounts}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.JournalVoiderSvc = (*voidService)(nil)

// VoidEntry reverses the balance effect of a posted entry and marks it voided.
func (s *voidService) VoidEntry(ctx context.Context, actor domain.Actor, branchID, entryID, reason string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		s.LogWarn(ctx, apperrors.ErrReasonRequired, "Void rejected", slog.String("entry_id", entryID))
		return nil, apperrors.ErrReasonRequired
	}
	if err := s.RequireBranch(ctx, branchID); err != nil {
		return nil, err
	}
	if actor.ID == "" {
		return nil, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}

	entry, err := s.store.FindEntryByID(ctx, branchID, entryID)
	if err != nil {
		s.LogWarn(ctx, err, "Journal entry to void not found", slog.String("entry_id", entryID))
		return nil, err
	}
	if err := entry.CanVoid(); err != nil {
		s.LogWarn(ctx, err, "Journal entry cannot be voided", slog.String("entry_id", entryID))
		return nil, err
	}
	if err := s.checkReversalTargets(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Refusing to void entry with unusable reversal targets", slog.String("entry_id", entryID))
		s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryVoided, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, EntryNumber: entry.EntryNumber, Err: err})
		return nil, err
	}

	wctx, cancel := s.writeContext(ctx)
	defer cancel()
	if err := s.store.VoidEntryAtomic(wctx, branchID, entryID, actor, s.now(), reason); err != nil {
		err = s.classifyWriteError(wctx, err, "void journal entry")
		s.LogError(ctx, err, "Failed to void journal entry", slog.String("entry_id", entryID))
		s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryVoided, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, EntryNumber: entry.EntryNumber, Err: err})
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry voided",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("reason", reason))
	s.notify(ctx, portssvc.LedgerEvent{
		Name: portssvc.EventEntryVoided, ActorID: actor.ID, BranchID: branchID,
		EntryID: entryID, EntryNumber: entry.EntryNumber,
		Properties: map[string]any{"reason": reason},
	})

	return s.store.FindEntryByID(ctx, branchID, entryID)
}

// checkReversalTargets fails with an integrity violation when any account the entry was posted to
// has since been removed or deactivated. The store checks again under lock.
func (s *voidService) checkReversalTargets(ctx context.Context, entry domain.JournalEntry) error {
	ids := accounting.LineAccountIDs(entry.Lines)
	found, err := s.accounts.FindAccountsByIDs(ctx, entry.BranchID, ids)
	if err != nil {
		return apperrors.NewPersistenceError("failed to load accounts", err)
	}
	for _, id := range ids {
		acc, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: account %s of entry %s no longer exists", apperrors.ErrIntegrityViolation, id, entry.EntryNumber)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s %s of entry %s is deactivated", apperrors.ErrIntegrityViolation, acc.Code, acc.Name, entry.EntryNumber)
		}
	}
	return nil
}

// DeleteDraftEntry removes a draft and its lines. Posted entries can only be voided.
func (s *voidService) DeleteDraftEntry(ctx context.Context, actor domain.Actor, branchID, entryID string) error {
	if err := s.RequireBranch(ctx, branchID); err != nil {
		return err
	}

	entry, err := s.store.FindEntryByID(ctx, branchID, entryID)
	if err != nil {
		return err
	}
	if err := entry.CanEdit(); err != nil {
		s.LogWarn(ctx, err, "Journal entry cannot be deleted", slog.String("entry_id", entryID))
		return err
	}

	wctx, cancel := s.writeContext(ctx)
	defer cancel()
	if err := s.store.DeleteDraftEntry(wctx, branchID, entryID); err != nil {
		err = s.classifyWriteError(wctx, err, "delete journal entry")
		s.LogError(ctx, err, "Failed to delete draft journal entry", slog.String("entry_id", entryID))
		s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryDeleted, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, EntryNumber: entry.EntryNumber, Err: err})
		return err
	}

	s.LogInfo(ctx, "Draft journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entry.EntryNumber))
	s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryDeleted, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, EntryNumber: entry.EntryNumber})
	return nil
}
