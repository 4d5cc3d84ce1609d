package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// journalQueryService reads entries for display. It never writes.
type journalQueryService struct {
	BaseService
	store    portsrepo.JournalReader
	accounts portsrepo.AccountReader
}

// NewJournalQueryService creates the query/projection layer.
func NewJournalQueryService(store portsrepo.JournalReader, accounts portsrepo.AccountReader, options ...ServiceOption) portssvc.JournalReaderSvc {
	svc := &journalQueryService{store: store, accounts: accounts}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.JournalReaderSvc = (*journalQueryService)(nil)

// GetEntry retrieves an entry with its lines.
func (s *journalQueryService) GetEntry(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error) {
	if err := s.RequireBranch(ctx, branchID); err != nil {
		return nil, err
	}
	entry, err := s.store.FindEntryByID(ctx, branchID, entryID)
	if err != nil {
		return nil, err
	}
	entries := []domain.JournalEntry{*entry}
	s.fillMissingLabels(ctx, branchID, entries)
	return &entries[0], nil
}

// ListEntries retrieves one page of entries.
func (s *journalQueryService) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	if err := s.RequireBranch(ctx, filter.BranchID); err != nil {
		return nil, nil, err
	}
	filter.Limit = pagination.ClampLimit(filter.Limit)

	entries, next, err := s.store.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("branch_id", filter.BranchID))
		return nil, nil, err
	}
	s.fillMissingLabels(ctx, filter.BranchID, entries)
	return entries, next, nil
}

// SummarizeBranch walks every page matching filter and folds it into a summary.
func (s *journalQueryService) SummarizeBranch(ctx context.Context, filter domain.EntryFilter) (*domain.LedgerSummary, error) {
	if err := s.RequireBranch(ctx, filter.BranchID); err != nil {
		return nil, err
	}
	filter.Limit = pagination.MaxLimit
	filter.NextToken = nil

	var all []domain.JournalEntry
	for {
		page, next, err := s.store.ListEntries(ctx, filter)
		if err != nil {
			s.LogError(ctx, err, "Failed to list journal entries for summary", slog.String("branch_id", filter.BranchID))
			return nil, err
		}
		all = append(all, page...)
		if next == nil {
			break
		}
		filter.NextToken = next
	}
	summary := SummarizeEntries(all)
	return &summary, nil
}

// fillMissingLabels replaces blank line snapshots with the account's current code and name.
// Lookup failures leave the blanks in place rather than failing the read.
func (s *journalQueryService) fillMissingLabels(ctx context.Context, branchID string, entries []domain.JournalEntry) {
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range entries {
		for _, l := range e.Lines {
			if l.AccountCode != "" && l.AccountName != "" {
				continue
			}
			if _, ok := seen[l.AccountID]; !ok {
				seen[l.AccountID] = struct{}{}
				ids = append(ids, l.AccountID)
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	accounts, err := s.accounts.FindAccountsByIDs(ctx, branchID, ids)
	if err != nil {
		s.LogWarn(ctx, err, "Could not load accounts to fill line labels", slog.String("branch_id", branchID))
		return
	}
	for ei := range entries {
		for li := range entries[ei].Lines {
			line := &entries[ei].Lines[li]
			acc, ok := accounts[line.AccountID]
			if !ok {
				continue
			}
			if line.AccountCode == "" {
				line.AccountCode = acc.Code
			}
			if line.AccountName == "" {
				line.AccountName = acc.Name
			}
		}
	}
}

// SummarizeEntries folds entries into totals by state and reference type.
func SummarizeEntries(entries []domain.JournalEntry) domain.LedgerSummary {
	zero := domain.EntryTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	summary := domain.LedgerSummary{
		Overall:         zero,
		ByState:         make(map[domain.EntryState]domain.EntryTotals),
		ByReferenceType: make(map[domain.ReferenceType]domain.EntryTotals),
	}
	for _, e := range entries {
		summary.Overall = summary.Overall.Add(e)

		st, ok := summary.ByState[e.State()]
		if !ok {
			st = zero
		}
		summary.ByState[e.State()] = st.Add(e)

		rt, ok := summary.ByReferenceType[e.ReferenceType]
		if !ok {
			rt = zero
		}
		summary.ByReferenceType[e.ReferenceType] = rt.Add(e)
	}
	return summary
}
