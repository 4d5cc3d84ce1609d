package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/SscSPs/branch_ledger/internal/utils/accounting"
	"github.com/SscSPs/branch_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateEntryAtomic(ctx context.Context, entry domain.NewEntry) (*domain.EntryRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ReferenceID != nil {
		if id, ok := s.refIndex[referenceKey(entry.BranchID, entry.ReferenceType, *entry.ReferenceID)]; ok {
			existing := s.entries[id]
			return &domain.EntryRef{EntryID: existing.EntryID, EntryNumber: existing.EntryNumber, Status: existing.Status, Replayed: true}, nil
		}
	}

	accounts, err := s.postableAccounts(entry.BranchID, entry.Lines)
	if err != nil {
		return nil, err
	}
	var changes map[string]decimal.Decimal
	if entry.AutoPost {
		if changes, err = accounting.BalanceChanges(entry.Lines, accounts, accounting.Apply); err != nil {
			return nil, err
		}
	}

	key := sequenceKey(entry.BranchID, entry.EntryDate.Year())
	s.sequences[key]++
	number := domain.FormatEntryNumber(entry.EntryDate.Year(), s.sequences[key])

	stored := &domain.JournalEntry{
		EntryID:       entry.EntryID,
		BranchID:      entry.BranchID,
		EntryNumber:   number,
		EntryDate:     entry.EntryDate,
		Description:   entry.Description,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Status:        domain.StatusDraft,
		TotalDebit:    entry.TotalDebit,
		TotalCredit:   entry.TotalCredit,
		CreatedBy:     entry.Actor.ID,
		CreatedByName: entry.Actor.Name,
		CreatedAt:     entry.CreatedAt,
		LastUpdatedAt: entry.CreatedAt,
		Lines:         append([]domain.JournalEntryLine(nil), entry.Lines...),
	}
	if entry.AutoPost {
		s.applyChanges(changes)
		markPosted(stored, entry.Actor, entry.CreatedAt)
	}
	s.entries[stored.EntryID] = stored
	if entry.ReferenceID != nil {
		s.refIndex[referenceKey(entry.BranchID, entry.ReferenceType, *entry.ReferenceID)] = stored.EntryID
	}

	return &domain.EntryRef{EntryID: stored.EntryID, EntryNumber: number, Status: stored.Status}, nil
}

func (s *Store) PostEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryInBranch(branchID, entryID)
	if err != nil {
		return err
	}
	if err := entry.CanPost(); err != nil {
		return err
	}
	accounts, err := s.lineAccounts(branchID, entry.Lines)
	if err != nil {
		return err
	}
	for id, acc := range accounts {
		if !acc.IsPostable() {
			return fmt.Errorf("%w: account %s is no longer postable", apperrors.ErrMissingAccount, id)
		}
	}
	changes, err := accounting.BalanceChanges(entry.Lines, accounts, accounting.Apply)
	if err != nil {
		return err
	}

	s.applyChanges(changes)
	markPosted(entry, actor, at)
	return nil
}

func (s *Store) VoidEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryInBranch(branchID, entryID)
	if err != nil {
		return err
	}
	if err := entry.CanVoid(); err != nil {
		return err
	}
	accounts, err := s.lineAccounts(branchID, entry.Lines)
	if err != nil {
		return err
	}
	for id, acc := range accounts {
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is deactivated", apperrors.ErrIntegrityViolation, id)
		}
	}
	changes, err := accounting.BalanceChanges(entry.Lines, accounts, accounting.Reverse)
	if err != nil {
		return err
	}

	s.applyChanges(changes)
	entry.IsVoided = true
	entry.VoidedBy = &actor.ID
	entry.VoidedByName = &actor.Name
	entry.VoidedAt = &at
	entry.VoidReason = &reason
	entry.LastUpdatedAt = at
	if entry.ReferenceID != nil {
		delete(s.refIndex, referenceKey(branchID, entry.ReferenceType, *entry.ReferenceID))
	}
	return nil
}

func (s *Store) UpdateDraftEntry(ctx context.Context, branchID, entryID string, update domain.DraftUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryInBranch(branchID, entryID)
	if err != nil {
		return err
	}
	if err := entry.CanEdit(); err != nil {
		return err
	}
	if update.ReferenceID != nil {
		key := referenceKey(branchID, update.ReferenceType, *update.ReferenceID)
		if other, ok := s.refIndex[key]; ok && other != entryID {
			return fmt.Errorf("%w: reference %s already has an entry", apperrors.ErrDuplicate, *update.ReferenceID)
		}
	}
	if _, err := s.postableAccounts(branchID, update.Lines); err != nil {
		return err
	}

	if entry.ReferenceID != nil {
		delete(s.refIndex, referenceKey(branchID, entry.ReferenceType, *entry.ReferenceID))
	}
	entry.EntryDate = update.EntryDate
	entry.Description = update.Description
	entry.ReferenceType = update.ReferenceType
	entry.ReferenceID = update.ReferenceID
	entry.Lines = append([]domain.JournalEntryLine(nil), update.Lines...)
	entry.TotalDebit = update.TotalDebit
	entry.TotalCredit = update.TotalCredit
	entry.LastUpdatedAt = update.UpdatedAt
	if entry.ReferenceID != nil {
		s.refIndex[referenceKey(branchID, entry.ReferenceType, *entry.ReferenceID)] = entryID
	}
	return nil
}

func (s *Store) DeleteDraftEntry(ctx context.Context, branchID, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entryInBranch(branchID, entryID)
	if err != nil {
		return err
	}
	if err := entry.CanEdit(); err != nil {
		return err
	}
	if entry.ReferenceID != nil {
		delete(s.refIndex, referenceKey(branchID, entry.ReferenceType, *entry.ReferenceID))
	}
	delete(s.entries, entryID)
	return nil
}

func (s *Store) FindEntryByID(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, err := s.entryInBranch(branchID, entryID)
	if err != nil {
		return nil, err
	}
	out := cloneEntry(entry)
	return &out, nil
}

func (s *Store) FindEntryByReference(ctx context.Context, branchID string, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.refIndex[referenceKey(branchID, refType, refID)]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry for reference " + refID)
	}
	out := cloneEntry(s.entries[id])
	return &out, nil
}

func (s *Store) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	var cursorDate time.Time
	var cursorNumber string
	hasCursor := filter.NextToken != nil && *filter.NextToken != ""
	if hasCursor {
		var err error
		cursorDate, cursorNumber, err = pagination.DecodeEntryCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	limit := pagination.ClampLimit(filter.Limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.JournalEntry
	for _, e := range s.entries {
		if e.BranchID != filter.BranchID || !matchesFilter(e, filter) {
			continue
		}
		if hasCursor && !before(e, cursorDate, cursorNumber) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		return before(matched[j], matched[i].EntryDate, matched[i].EntryNumber)
	})

	var next *string
	if len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		token := pagination.EncodeEntryCursor(last.EntryDate, last.EntryNumber)
		next = &token
	}
	out := make([]domain.JournalEntry, len(matched))
	for i, e := range matched {
		out[i] = cloneEntry(e)
	}
	return out, next, nil
}

// before reports whether e sorts after the cursor in newest-first order.
func before(e *domain.JournalEntry, date time.Time, number string) bool {
	if e.EntryDate.Equal(date) {
		return domain.CompareEntryNumbers(e.EntryNumber, number) < 0
	}
	return e.EntryDate.Before(date)
}

func matchesFilter(e *domain.JournalEntry, f domain.EntryFilter) bool {
	if f.From != nil && e.EntryDate.Before(*f.From) {
		return false
	}
	if f.To != nil && e.EntryDate.After(*f.To) {
		return false
	}
	if f.State != nil && e.State() != *f.State {
		return false
	}
	if f.ReferenceType != nil && e.ReferenceType != *f.ReferenceType {
		return false
	}
	return true
}

func (s *Store) entryInBranch(branchID, entryID string) (*domain.JournalEntry, error) {
	entry, ok := s.entries[entryID]
	if !ok || entry.BranchID != branchID {
		return nil, apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return entry, nil
}

// lineAccounts returns the accounts referenced by lines. A missing one is an integrity violation.
func (s *Store) lineAccounts(branchID string, lines []domain.JournalEntryLine) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account)
	for _, id := range accounting.LineAccountIDs(lines) {
		acc, ok := s.accounts[id]
		if !ok || acc.BranchID != branchID {
			return nil, fmt.Errorf("%w: account %s not found in branch %s", apperrors.ErrIntegrityViolation, id, branchID)
		}
		out[id] = acc
	}
	return out, nil
}

func (s *Store) postableAccounts(branchID string, lines []domain.JournalEntryLine) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account)
	for _, id := range accounting.LineAccountIDs(lines) {
		acc, ok := s.accounts[id]
		if !ok || acc.BranchID != branchID || !acc.IsPostable() {
			return nil, fmt.Errorf("%w: account %s is missing, inactive or a header", apperrors.ErrMissingAccount, id)
		}
		out[id] = acc
	}
	return out, nil
}

func (s *Store) applyChanges(changes map[string]decimal.Decimal) {
	for _, id := range accounting.SortedKeys(changes) {
		acc := s.accounts[id]
		acc.Balance = acc.Balance.Add(changes[id])
		s.accounts[id] = acc
	}
}

func markPosted(e *domain.JournalEntry, actor domain.Actor, at time.Time) {
	e.Status = domain.StatusPosted
	e.ApprovedBy = &actor.ID
	e.ApprovedByName = &actor.Name
	e.ApprovedAt = &at
	e.LastUpdatedAt = at
}
