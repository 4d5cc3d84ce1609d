package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockJournalStore struct {
	mock.Mock
}

var _ portsrepo.JournalStore = (*MockJournalStore)(nil)

func (m *MockJournalStore) FindEntryByID(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, branchID, entryID)
	if e, ok := args.Get(0).(*domain.JournalEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournalStore) FindEntryByReference(ctx context.Context, branchID string, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, branchID, refType, refID)
	if e, ok := args.Get(0).(*domain.JournalEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournalStore) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter)
	entries, _ := args.Get(0).([]domain.JournalEntry)
	next, _ := args.Get(1).(*string)
	return entries, next, args.Error(2)
}

func (m *MockJournalStore) CreateEntryAtomic(ctx context.Context, entry domain.NewEntry) (*domain.EntryRef, error) {
	args := m.Called(ctx, entry)
	if ref, ok := args.Get(0).(*domain.EntryRef); ok {
		return ref, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournalStore) PostEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time) error {
	return m.Called(ctx, branchID, entryID, actor, at).Error(0)
}

func (m *MockJournalStore) VoidEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time, reason string) error {
	return m.Called(ctx, branchID, entryID, actor, at, reason).Error(0)
}

func (m *MockJournalStore) UpdateDraftEntry(ctx context.Context, branchID, entryID string, update domain.DraftUpdate) error {
	return m.Called(ctx, branchID, entryID, update).Error(0)
}

func (m *MockJournalStore) DeleteDraftEntry(ctx context.Context, branchID, entryID string) error {
	return m.Called(ctx, branchID, entryID).Error(0)
}

type MockAccountReader struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

func (m *MockAccountReader) FindAccountByID(ctx context.Context, branchID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, branchID, accountID)
	if a, ok := args.Get(0).(*domain.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountReader) FindAccountsByIDs(ctx context.Context, branchID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, branchID, accountIDs)
	found, _ := args.Get(0).(map[string]domain.Account)
	return found, args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error) {
	args := m.Called(ctx, branchID)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

type JournalServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *MockJournalStore
	accounts *MockAccountReader
	notifier *recordingNotifier
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = new(MockJournalStore)
	s.accounts = new(MockAccountReader)
	s.notifier = &recordingNotifier{}

	s.accounts.On("FindAccountsByIDs", mock.Anything, branchMain, mock.Anything).Return(map[string]domain.Account{
		accCash:  {AccountID: accCash, BranchID: branchMain, Code: "1010", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
		accSales: {AccountID: accSales, BranchID: branchMain, Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.NormalCredit, IsActive: true},
	}, nil).Maybe()
}

func (s *JournalServiceTestSuite) TearDownTest() {
	s.store.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) writer(opts ...services.ServiceOption) portssvc.JournalWriterSvc {
	opts = append([]services.ServiceOption{services.WithNotifier(s.notifier)}, opts...)
	return services.NewJournalService(s.store, s.accounts, opts...)
}

func (s *JournalServiceTestSuite) TestCreateEntry_PassesResolvedEntryToStore() {
	s.store.On("CreateEntryAtomic", mock.Anything, mock.MatchedBy(func(e domain.NewEntry) bool {
		return e.BranchID == branchMain &&
			len(e.Lines) == 2 &&
			e.Lines[0].AccountCode == "1010" &&
			e.Lines[1].AccountName == "Sales" &&
			e.TotalDebit.Equal(decimal.NewFromInt(40)) &&
			e.ReferenceType == domain.RefManual &&
			e.ReferenceID == nil &&
			e.CreatedAt.Equal(fixedNow)
	})).Return(&domain.EntryRef{EntryID: "e-1", EntryNumber: "JE-2025-000001", Status: domain.StatusDraft}, nil).Once()

	ref, err := s.writer(services.WithClock(func() time.Time { return fixedNow })).CreateEntry(s.ctx, cashier, saleInput(40, 40))

	s.Require().NoError(err)
	s.Equal("e-1", ref.EntryID)
	s.Equal([]string{portssvc.EventEntryCreated}, s.notifier.names())
}

func (s *JournalServiceTestSuite) TestCreateEntry_WriteTimeoutIsOutcomeUnknown() {
	s.store.On("CreateEntryAtomic", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded).Once()

	_, err := s.writer(services.WithWriteTimeout(5*time.Millisecond)).CreateEntry(s.ctx, cashier, saleInput(40, 40))

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPersistence)
	s.ErrorIs(err, context.DeadlineExceeded)
	s.Contains(err.Error(), "outcome unknown")

	last := s.notifier.last()
	s.Equal(portssvc.EventEntryCreated, last.Name)
	s.Error(last.Err)
}

func (s *JournalServiceTestSuite) TestCreateEntry_StoreErrorBecomesPersistenceFailure() {
	cause := errors.New("connection reset by peer")
	s.store.On("CreateEntryAtomic", mock.Anything, mock.Anything).Return(nil, cause).Once()

	_, err := s.writer().CreateEntry(s.ctx, cashier, saleInput(40, 40))

	s.Equal(apperrors.CodePersistenceFailure, apperrors.Code(err))
	s.ErrorIs(err, cause)
	s.NotContains(err.Error(), "outcome unknown")
}

func (s *JournalServiceTestSuite) TestCreateEntry_TaxonomyErrorsPassThrough() {
	s.store.On("CreateEntryAtomic", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrMissingAccount).Once()

	_, err := s.writer().CreateEntry(s.ctx, cashier, saleInput(40, 40))

	s.Equal(apperrors.CodeMissingAccount, apperrors.Code(err))
}

func (s *JournalServiceTestSuite) TestCreateEntry_RejectedBeforeStore() {
	in := saleInput(40, 40)
	in.ReferenceType = domain.ReferenceType("invoice")

	_, err := s.writer().CreateEntry(s.ctx, cashier, in)
	s.ErrorIs(err, apperrors.ErrValidation)

	in = saleInput(40, 40)
	in.EntryDate = time.Time{}
	_, err = s.writer().CreateEntry(s.ctx, cashier, in)
	s.ErrorIs(err, apperrors.ErrValidation)

	in = saleInput(40, 40)
	in.Lines = in.Lines[:1]
	_, err = s.writer().CreateEntry(s.ctx, cashier, in)
	s.ErrorIs(err, apperrors.ErrTooFewLines)

	s.store.AssertNotCalled(s.T(), "CreateEntryAtomic", mock.Anything, mock.Anything)
	s.Empty(s.notifier.names())
}

func (s *JournalServiceTestSuite) TestCreateEntry_ReplayIsNotAnnounced() {
	s.store.On("CreateEntryAtomic", mock.Anything, mock.Anything).
		Return(&domain.EntryRef{EntryID: "e-1", Status: domain.StatusPosted, Replayed: true}, nil).Once()

	ref, err := s.writer().CreateEntry(s.ctx, cashier, saleInput(40, 40))

	s.Require().NoError(err)
	s.True(ref.Replayed)
	s.Empty(s.notifier.names())
}

func (s *JournalServiceTestSuite) TestPostEntry_TimeoutIsOutcomeUnknown() {
	draft := &domain.JournalEntry{EntryID: "e-1", BranchID: branchMain, EntryNumber: "JE-2025-000001", Status: domain.StatusDraft}
	s.store.On("FindEntryByID", mock.Anything, branchMain, "e-1").Return(draft, nil).Once()
	s.store.On("PostEntryAtomic", mock.Anything, branchMain, "e-1", cashier, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded).Once()

	_, err := s.writer(services.WithWriteTimeout(5*time.Millisecond)).PostEntry(s.ctx, cashier, branchMain, "e-1")

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.Contains(err.Error(), "outcome unknown")
	s.Equal(portssvc.EventEntryPosted, s.notifier.last().Name)
	s.Error(s.notifier.last().Err)
}

func (s *JournalServiceTestSuite) TestPostEntry_PostedEntryIsInvalidState() {
	posted := &domain.JournalEntry{EntryID: "e-1", BranchID: branchMain, Status: domain.StatusPosted}
	s.store.On("FindEntryByID", mock.Anything, branchMain, "e-1").Return(posted, nil).Once()

	_, err := s.writer().PostEntry(s.ctx, cashier, branchMain, "e-1")

	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.store.AssertNotCalled(s.T(), "PostEntryAtomic", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func TestBuildSystemJournal(t *testing.T) {
	accounts := map[domain.AccountRole]string{
		domain.RoleCash:      accCash,
		domain.RoleRevenue:   accSales,
		domain.RoleCOGS:      accCogs,
		domain.RoleInventory: accStock,
		domain.RoleExpense:   accRent,
	}

	t.Run("sale without cost has one pair", func(t *testing.T) {
		in, err := services.BuildSystemJournal(branchMain, domain.SystemJournalRequest{
			Kind: domain.KindCashSale, ReferenceID: "s-1", Date: saleDate, Amount: amount(90), Accounts: accounts,
		})
		require.NoError(t, err)
		assert.True(t, in.AutoPost)
		assert.Equal(t, domain.RefTransaction, in.ReferenceType)
		assert.Equal(t, "s-1", in.ReferenceID)
		require.Len(t, in.Lines, 2)
		assert.Equal(t, accCash, in.Lines[0].AccountID)
		assert.True(t, in.Lines[0].DebitAmount.Equal(amount(90)))
		assert.Equal(t, accSales, in.Lines[1].AccountID)
		assert.True(t, in.Lines[1].CreditAmount.Equal(amount(90)))
		assert.NoError(t, domain.ValidateLines(in.Lines))
	})

	t.Run("memo extends description", func(t *testing.T) {
		in, err := services.BuildSystemJournal(branchMain, domain.SystemJournalRequest{
			Kind: domain.KindExpense, Date: saleDate, Amount: amount(15), Memo: "printer ink", Accounts: accounts,
		})
		require.NoError(t, err)
		assert.Equal(t, "Expense: printer ink", in.Description)
		assert.Equal(t, domain.RefExpense, in.ReferenceType)
	})

	tests := []struct {
		name    string
		req     domain.SystemJournalRequest
		wantErr error
	}{
		{"unknown kind", domain.SystemJournalRequest{Kind: "barter", Amount: amount(1), Accounts: accounts}, apperrors.ErrValidation},
		{"zero amount", domain.SystemJournalRequest{Kind: domain.KindExpense, Amount: decimal.Zero, Accounts: accounts}, apperrors.ErrValidation},
		{"negative cost", domain.SystemJournalRequest{Kind: domain.KindCashSale, Amount: amount(1), CostAmount: amount(-1), Accounts: accounts}, apperrors.ErrValidation},
		{"missing role", domain.SystemJournalRequest{Kind: domain.KindPayroll, Amount: amount(1), Accounts: accounts}, apperrors.ErrMissingAccount},
		{"cost needs inventory", domain.SystemJournalRequest{Kind: domain.KindCashSale, Amount: amount(5), CostAmount: amount(2),
			Accounts: map[domain.AccountRole]string{domain.RoleCash: accCash, domain.RoleRevenue: accSales, domain.RoleCOGS: accCogs}}, apperrors.ErrMissingAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.BuildSystemJournal(branchMain, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSummarizeEntries(t *testing.T) {
	entries := []domain.JournalEntry{
		{Status: domain.StatusDraft, ReferenceType: domain.RefManual, TotalDebit: amount(10), TotalCredit: amount(10)},
		{Status: domain.StatusPosted, ReferenceType: domain.RefTransaction, TotalDebit: amount(20), TotalCredit: amount(20)},
		{Status: domain.StatusPosted, IsVoided: true, ReferenceType: domain.RefTransaction, TotalDebit: amount(5), TotalCredit: amount(5)},
	}

	summary := services.SummarizeEntries(entries)

	assert.Equal(t, 3, summary.Overall.Count)
	assert.True(t, summary.Overall.TotalDebit.Equal(amount(35)))
	assert.Equal(t, 1, summary.ByState[domain.StateVoided].Count)
	assert.Equal(t, 2, summary.ByReferenceType[domain.RefTransaction].Count)
	assert.True(t, summary.ByReferenceType[domain.RefTransaction].TotalCredit.Equal(amount(25)))
}
