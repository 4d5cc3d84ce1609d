package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/google/uuid"
)

// journalService is the posting engine: it creates entries and moves drafts to posted.
type journalService struct {
	BaseService
	store    portsrepo.JournalStore
	accounts portsrepo.AccountReader
}

// ServiceOption is a functional option shared by the ledger services.
type ServiceOption func(*BaseService)

// WithNotifier sets the notification surface informed after each mutation.
func WithNotifier(n portssvc.LedgerNotifier) ServiceOption {
	return func(s *BaseService) { s.Notifier = n }
}

// WithBranchReader enables branch existence checks.
func WithBranchReader(r portsrepo.BranchReader) ServiceOption {
	return func(s *BaseService) { s.BranchReader = r }
}

// WithWriteTimeout bounds each atomic write.
func WithWriteTimeout(d time.Duration) ServiceOption {
	return func(s *BaseService) { s.WriteTimeout = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) { s.Now = now }
}

func applyOptions(base *BaseService, options []ServiceOption) {
	for _, option := range options {
		option(base)
	}
}

// NewJournalService creates the posting engine.
func NewJournalService(store portsrepo.JournalStore, accounts portsrepo.AccountReader, options ...ServiceOption) portssvc.JournalWriterSvc {
	svc := &journalService{store: store, accounts: accounts}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.JournalWriterSvc = (*journalService)(nil)

// CreateEntry validates the candidate entry, resolves its accounts and hands it to the store as
// one atomic unit.
func (s *journalService) CreateEntry(ctx context.Context, actor domain.Actor, in domain.CreateEntryInput) (*domain.EntryRef, error) {
	logger := s.GetLogger(ctx).With(slog.String("branch_id", in.BranchID))

	if err := s.RequireBranch(ctx, in.BranchID); err != nil {
		s.LogWarn(ctx, err, "Journal entry rejected: branch check failed", slog.String("branch_id", in.BranchID))
		return nil, err
	}
	header, err := normalizeHeader(actor, in.EntryDate, in.ReferenceType, in.ReferenceID)
	if err != nil {
		s.LogWarn(ctx, err, "Journal entry rejected", slog.String("branch_id", in.BranchID))
		return nil, err
	}

	if err := domain.ValidateLines(in.Lines); err != nil {
		s.LogWarn(ctx, err, "Journal entry failed validation", slog.String("branch_id", in.BranchID))
		return nil, err
	}
	inputs := domain.CompactLines(in.Lines)

	entryID := uuid.NewString()
	lines, err := resolveLines(ctx, s.accounts, in.BranchID, entryID, inputs)
	if err != nil {
		s.LogWarn(ctx, err, "Journal entry references unusable accounts", slog.String("branch_id", in.BranchID))
		return nil, err
	}
	debit, credit := domain.ComputeTotals(inputs)

	newEntry := domain.NewEntry{
		EntryID:       entryID,
		BranchID:      in.BranchID,
		EntryDate:     header.entryDate,
		Description:   in.Description,
		ReferenceType: header.refType,
		ReferenceID:   header.refID,
		Lines:         lines,
		TotalDebit:    debit,
		TotalCredit:   credit,
		Actor:         actor,
		CreatedAt:     s.now(),
		AutoPost:      in.AutoPost,
	}

	wctx, cancel := s.writeContext(ctx)
	defer cancel()
	ref, err := s.store.CreateEntryAtomic(wctx, newEntry)
	if err != nil {
		err = s.classifyWriteError(wctx, err, "save journal entry")
		s.LogError(ctx, err, "Failed to create journal entry", slog.String("branch_id", in.BranchID))
		s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryCreated, ActorID: actor.ID, BranchID: in.BranchID, Err: err})
		return nil, err
	}

	if ref.Replayed {
		logger.Info("Journal entry already exists for reference, returning it",
			slog.String("entry_id", ref.EntryID),
			slog.String("entry_number", ref.EntryNumber))
		return ref, nil
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", ref.EntryID),
		slog.String("entry_number", ref.EntryNumber),
		slog.String("status", string(ref.Status)),
		slog.Int("lines", len(lines)))
	s.notify(ctx, portssvc.LedgerEvent{
		Name: portssvc.EventEntryCreated, ActorID: actor.ID, BranchID: in.BranchID,
		EntryID: ref.EntryID, EntryNumber: ref.EntryNumber,
		Properties: map[string]any{"auto_post": in.AutoPost, "reference_type": string(header.refType)},
	})
	if in.AutoPost {
		s.notify(ctx, portssvc.LedgerEvent{
			Name: portssvc.EventEntryPosted, ActorID: actor.ID, BranchID: in.BranchID,
			EntryID: ref.EntryID, EntryNumber: ref.EntryNumber,
		})
	}
	return ref, nil
}

// PostEntry moves a draft to posted and applies its lines to the account balances.
func (s *journalService) PostEntry(ctx context.Context, actor domain.Actor, branchID, entryID string) (*domain.JournalEntry, error) {
	if err := s.RequireBranch(ctx, branchID); err != nil {
		return nil, err
	}
	if actor.ID == "" {
		return nil, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}

	entry, err := s.store.FindEntryByID(ctx, branchID, entryID)
	if err != nil {
		s.LogWarn(ctx, err, "Journal entry to post not found", slog.String("entry_id", entryID))
		return nil, err
	}
	if err := entry.CanPost(); err != nil {
		s.LogWarn(ctx, err, "Journal entry cannot be posted", slog.String("entry_id", entryID))
		return nil, err
	}

	wctx, cancel := s.writeContext(ctx)
	defer cancel()
	if err := s.store.PostEntryAtomic(wctx, branchID, entryID, actor, s.now()); err != nil {
		err = s.classifyWriteError(wctx, err, "post journal entry")
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryPosted, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, EntryNumber: entry.EntryNumber, Err: err})
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entry.EntryNumber))
	s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryPosted, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, EntryNumber: entry.EntryNumber})

	return s.store.FindEntryByID(ctx, branchID, entryID)
}

// UpdateDraftEntry replaces a draft's header and lines after the same validation as creation.
func (s *journalService) UpdateDraftEntry(ctx context.Context, actor domain.Actor, branchID, entryID string, in domain.UpdateEntryInput) (*domain.JournalEntry, error) {
	if err := s.RequireBranch(ctx, branchID); err != nil {
		return nil, err
	}
	header, err := normalizeHeader(actor, in.EntryDate, in.ReferenceType, in.ReferenceID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindEntryByID(ctx, branchID, entryID)
	if err != nil {
		return nil, err
	}
	if err := existing.CanEdit(); err != nil {
		s.LogWarn(ctx, err, "Journal entry cannot be edited", slog.String("entry_id", entryID))
		return nil, err
	}

	if err := domain.ValidateLines(in.Lines); err != nil {
		s.LogWarn(ctx, err, "Journal entry update failed validation", slog.String("entry_id", entryID))
		return nil, err
	}
	inputs := domain.CompactLines(in.Lines)
	lines, err := resolveLines(ctx, s.accounts, branchID, entryID, inputs)
	if err != nil {
		return nil, err
	}
	debit, credit := domain.ComputeTotals(inputs)

	update := domain.DraftUpdate{
		EntryDate:     header.entryDate,
		Description:   in.Description,
		ReferenceType: header.refType,
		ReferenceID:   header.refID,
		Lines:         lines,
		TotalDebit:    debit,
		TotalCredit:   credit,
		Actor:         actor,
		UpdatedAt:     s.now(),
	}

	wctx, cancel := s.writeContext(ctx)
	defer cancel()
	if err := s.store.UpdateDraftEntry(wctx, branchID, entryID, update); err != nil {
		err = s.classifyWriteError(wctx, err, "save journal entry")
		s.LogError(ctx, err, "Failed to update draft journal entry", slog.String("entry_id", entryID))
		s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryUpdated, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, Err: err})
		return nil, err
	}

	s.LogInfo(ctx, "Draft journal entry updated", slog.String("entry_id", entryID), slog.Int("lines", len(lines)))
	s.notify(ctx, portssvc.LedgerEvent{Name: portssvc.EventEntryUpdated, ActorID: actor.ID, BranchID: branchID, EntryID: entryID, EntryNumber: existing.EntryNumber})

	return s.store.FindEntryByID(ctx, branchID, entryID)
}

type entryHeader struct {
	entryDate time.Time
	refType   domain.ReferenceType
	refID     *string
}

func normalizeHeader(actor domain.Actor, entryDate time.Time, refType domain.ReferenceType, refID string) (entryHeader, error) {
	if actor.ID == "" {
		return entryHeader{}, fmt.Errorf("%w: actor is required", apperrors.ErrValidation)
	}
	if entryDate.IsZero() {
		return entryHeader{}, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}
	if refType == "" {
		refType = domain.RefManual
	}
	if !refType.IsValid() {
		return entryHeader{}, fmt.Errorf("%w: unknown reference type %q", apperrors.ErrValidation, refType)
	}
	h := entryHeader{
		entryDate: time.Date(entryDate.Year(), entryDate.Month(), entryDate.Day(), 0, 0, 0, 0, time.UTC),
		refType:   refType,
	}
	if refID != "" {
		id := refID
		h.refID = &id
	}
	return h, nil
}

// resolveLines looks up every line account in the registry and snapshots its code and name.
// Only active, non-header accounts of the branch are accepted.
func resolveLines(ctx context.Context, accounts portsrepo.AccountReader, branchID, entryID string, inputs []domain.LineInput) ([]domain.JournalEntryLine, error) {
	ids := make([]string, 0, len(inputs))
	for _, l := range inputs {
		ids = append(ids, l.AccountID)
	}
	found, err := accounts.FindAccountsByIDs(ctx, branchID, ids)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to load accounts", err)
	}

	lines := make([]domain.JournalEntryLine, len(inputs))
	for i, in := range inputs {
		acc, ok := found[in.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: line %d: account %s not found in branch", apperrors.ErrMissingAccount, i+1, in.AccountID)
		}
		if !acc.IsPostable() {
			return nil, fmt.Errorf("%w: line %d: account %s %s is not postable", apperrors.ErrMissingAccount, i+1, acc.Code, acc.Name)
		}
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNumber:   i + 1,
			AccountID:    acc.AccountID,
			AccountCode:  acc.Code,
			AccountName:  acc.Name,
			DebitAmount:  in.DebitAmount,
			CreditAmount: in.CreditAmount,
			Description:  in.Description,
		}
	}
	return lines, nil
}
