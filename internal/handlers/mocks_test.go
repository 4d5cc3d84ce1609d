package handlers_test

import (
	"context"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntry(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, branchID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockJournalService) SummarizeBranch(ctx context.Context, filter domain.EntryFilter) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}

func (m *MockJournalService) CreateEntry(ctx context.Context, actor domain.Actor, in domain.CreateEntryInput) (*domain.EntryRef, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryRef), args.Error(1)
}

func (m *MockJournalService) PostEntry(ctx context.Context, actor domain.Actor, branchID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, actor, branchID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UpdateDraftEntry(ctx context.Context, actor domain.Actor, branchID, entryID string, in domain.UpdateEntryInput) (*domain.JournalEntry, error) {
	args := m.Called(ctx, actor, branchID, entryID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) VoidEntry(ctx context.Context, actor domain.Actor, branchID, entryID, reason string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, actor, branchID, entryID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) DeleteDraftEntry(ctx context.Context, actor domain.Actor, branchID, entryID string) error {
	args := m.Called(ctx, actor, branchID, entryID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, branchID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, branchID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) BalanceSummary(ctx context.Context, branchID string) (*domain.AccountBalanceSummary, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalanceSummary), args.Error(1)
}

func (m *MockAccountService) SeedChart(ctx context.Context, chart dto.ChartOfAccounts, actorID string) (int, error) {
	args := m.Called(ctx, chart, actorID)
	return args.Int(0), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock SystemJournalService ---
type MockSystemJournalService struct {
	mock.Mock
}

func (m *MockSystemJournalService) Generate(ctx context.Context, actor domain.Actor, branchID string, req domain.SystemJournalRequest) (*domain.EntryRef, error) {
	args := m.Called(ctx, actor, branchID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryRef), args.Error(1)
}

var _ portssvc.SystemJournalSvc = (*MockSystemJournalService)(nil)
