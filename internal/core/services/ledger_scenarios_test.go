package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/core/services"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/SscSPs/branch_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const (
	branchMain  = "br-main"
	branchShut  = "br-closed"
	accCash     = "acc-cash"
	accSales    = "acc-sales"
	accRent     = "acc-rent"
	accCogs     = "acc-cogs"
	accStock    = "acc-stock"
	accHeader   = "acc-assets"
	accInactive = "acc-old"
)

var (
	cashier  = domain.Actor{ID: "user-1", Name: "Dana Cashier"}
	fixedNow = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	saleDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
)

// recordingNotifier keeps every ledger event it receives.
type recordingNotifier struct {
	mu     sync.Mutex
	events []portssvc.LedgerEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event portssvc.LedgerEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Name
	}
	return out
}

func (n *recordingNotifier) last() portssvc.LedgerEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type LedgerScenarioSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	notifier *recordingNotifier
}

func (s *LedgerScenarioSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.notifier = &recordingNotifier{}

	for _, b := range []domain.Branch{
		{BranchID: branchMain, Code: "MAIN", Name: "Main Street", IsActive: true},
		{BranchID: branchShut, Code: "OLD", Name: "Closed kiosk", IsActive: false},
	} {
		s.Require().NoError(s.store.SaveBranch(s.ctx, b))
	}
	for _, a := range []domain.Account{
		{AccountID: accHeader, Code: "1000", Name: "Assets", AccountType: domain.Asset, IsHeader: true},
		{AccountID: accCash, Code: "1010", Name: "Cash", AccountType: domain.Asset},
		{AccountID: accStock, Code: "1200", Name: "Inventory", AccountType: domain.Asset},
		{AccountID: accSales, Code: "4000", Name: "Sales", AccountType: domain.Revenue},
		{AccountID: accCogs, Code: "5000", Name: "Cost of goods sold", AccountType: domain.Expense},
		{AccountID: accRent, Code: "6000", Name: "Rent", AccountType: domain.Expense},
	} {
		a.BranchID = branchMain
		a.NormalBalance = a.AccountType.DefaultNormalBalance()
		a.Balance = decimal.Zero
		a.IsActive = true
		s.Require().NoError(s.store.SaveAccount(s.ctx, a))
	}
	s.Require().NoError(s.store.SaveAccount(s.ctx, domain.Account{
		AccountID: accInactive, BranchID: branchMain, Code: "1090", Name: "Old till",
		AccountType: domain.Asset, NormalBalance: domain.NormalDebit, Balance: decimal.Zero,
	}))

	s.svc = services.NewServiceContainer(memory.NewRepositoryProviderFor(s.store),
		services.WithNotifier(s.notifier),
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithWriteTimeout(5*time.Second),
	)
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func saleInput(debit, credit int64) domain.CreateEntryInput {
	return domain.CreateEntryInput{
		BranchID:    branchMain,
		EntryDate:   saleDate,
		Description: "Counter sale",
		Lines: []domain.LineInput{
			{AccountID: accCash, DebitAmount: amount(debit)},
			{AccountID: accSales, CreditAmount: amount(credit)},
		},
	}
}

func (s *LedgerScenarioSuite) balance(accountID string) decimal.Decimal {
	acc, err := s.svc.Account.GetAccount(s.ctx, branchMain, accountID)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *LedgerScenarioSuite) createPosted(in domain.CreateEntryInput) *domain.EntryRef {
	in.AutoPost = true
	ref, err := s.svc.Journal.CreateEntry(s.ctx, cashier, in)
	s.Require().NoError(err)
	return ref
}

func (s *LedgerScenarioSuite) TestCreateDraft_TotalsMatchAndBalancesUntouched() {
	ref, err := s.svc.Journal.CreateEntry(s.ctx, cashier, saleInput(100000, 100000))
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, ref.Status)
	s.Equal("JE-2025-000001", ref.EntryNumber)

	entry, err := s.svc.Journal.GetEntry(s.ctx, branchMain, ref.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StateDraft, entry.State())
	s.True(entry.TotalDebit.Equal(amount(100000)))
	s.True(entry.TotalCredit.Equal(amount(100000)))
	s.Equal(cashier.ID, entry.CreatedBy)
	s.Equal(cashier.Name, entry.CreatedByName)
	s.Equal(fixedNow, entry.CreatedAt)
	s.Require().Len(entry.Lines, 2)
	s.Equal("1010", entry.Lines[0].AccountCode)
	s.Equal(1, entry.Lines[0].LineNumber)

	// Drafts do not touch balances.
	s.True(s.balance(accCash).IsZero())
}

func (s *LedgerScenarioSuite) TestCreate_UnbalancedRejected() {
	_, err := s.svc.Journal.CreateEntry(s.ctx, cashier, saleInput(100000, 90000))
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnbalanced)
	s.Equal(apperrors.CodeUnbalanced, apperrors.Code(err))

	entries, _, err := s.svc.Journal.ListEntries(s.ctx, domain.EntryFilter{BranchID: branchMain})
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *LedgerScenarioSuite) TestPost_MovesBalancesOnce() {
	ref, err := s.svc.Journal.CreateEntry(s.ctx, cashier, saleInput(100000, 100000))
	s.Require().NoError(err)

	posted, err := s.svc.Journal.PostEntry(s.ctx, cashier, branchMain, ref.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StatePosted, posted.State())
	s.Require().NotNil(posted.ApprovedBy)
	s.Equal(cashier.ID, *posted.ApprovedBy)

	s.True(s.balance(accCash).Equal(amount(100000)), "cash is debit normal")
	s.True(s.balance(accSales).Equal(amount(100000)), "sales is credit normal")

	_, err = s.svc.Journal.PostEntry(s.ctx, cashier, branchMain, ref.EntryID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.True(s.balance(accCash).Equal(amount(100000)), "second post must not apply again")
}

func (s *LedgerScenarioSuite) TestVoid_RestoresBalances() {
	ref := s.createPosted(saleInput(100000, 100000))

	voided, err := s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, ref.EntryID, "correction")
	s.Require().NoError(err)
	s.True(voided.IsVoided)
	s.Equal(domain.StateVoided, voided.State())
	s.Require().NotNil(voided.VoidReason)
	s.Equal("correction", *voided.VoidReason)

	s.True(s.balance(accCash).IsZero())
	s.True(s.balance(accSales).IsZero())

	_, err = s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, ref.EntryID, "again")
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.True(s.balance(accCash).IsZero())
}

func (s *LedgerScenarioSuite) TestConcurrentCreates_DistinctNumbers() {
	const writers = 24
	numbers := make([]string, writers)

	g, ctx := errgroup.WithContext(s.ctx)
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			ref, err := s.svc.Journal.CreateEntry(ctx, cashier, saleInput(10, 10))
			if err != nil {
				return err
			}
			numbers[i] = ref.EntryNumber
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	seen := make(map[string]struct{}, writers)
	for _, n := range numbers {
		_, dup := seen[n]
		s.False(dup, "entry number %s issued twice", n)
		seen[n] = struct{}{}
	}
	s.Len(seen, writers)
}

func (s *LedgerScenarioSuite) TestValidationLineIndexMatchesRequest() {
	in := saleInput(100, 100)
	in.Lines = []domain.LineInput{
		{AccountID: accRent},
		{AccountID: accCash, DebitAmount: amount(100)},
		{CreditAmount: amount(100)},
	}

	_, err := s.svc.Journal.CreateEntry(s.ctx, cashier, in)

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal(apperrors.CodeMissingAccount, verr.Reason)
	s.Equal(2, verr.LineIndex)
}

func (s *LedgerScenarioSuite) TestZeroLinesAreDropped() {
	in := saleInput(100, 100)
	in.Lines = append(in.Lines, domain.LineInput{AccountID: accRent})

	ref, err := s.svc.Journal.CreateEntry(s.ctx, cashier, in)
	s.Require().NoError(err)

	entry, err := s.svc.Journal.GetEntry(s.ctx, branchMain, ref.EntryID)
	s.Require().NoError(err)
	s.Len(entry.Lines, 2)
}

func (s *LedgerScenarioSuite) TestUnpostableAccountsRejected() {
	for _, id := range []string{accHeader, accInactive, "acc-nowhere"} {
		in := saleInput(50, 50)
		in.Lines[0].AccountID = id
		_, err := s.svc.Journal.CreateEntry(s.ctx, cashier, in)
		s.ErrorIs(err, apperrors.ErrMissingAccount, id)
	}
}

func (s *LedgerScenarioSuite) TestBranchChecks() {
	in := saleInput(10, 10)
	in.BranchID = ""
	_, err := s.svc.Journal.CreateEntry(s.ctx, cashier, in)
	s.ErrorIs(err, apperrors.ErrMissingBranch)

	in.BranchID = "br-unknown"
	_, err = s.svc.Journal.CreateEntry(s.ctx, cashier, in)
	s.ErrorIs(err, apperrors.ErrNotFound)

	in.BranchID = branchShut
	_, err = s.svc.Journal.CreateEntry(s.ctx, cashier, in)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *LedgerScenarioSuite) TestVoidRequiresReason() {
	ref := s.createPosted(saleInput(10, 10))

	_, err := s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, ref.EntryID, "   ")
	s.ErrorIs(err, apperrors.ErrReasonRequired)
	s.True(s.balance(accCash).Equal(amount(10)))
}

func (s *LedgerScenarioSuite) TestVoidDraftRejected() {
	ref, err := s.svc.Journal.CreateEntry(s.ctx, cashier, saleInput(10, 10))
	s.Require().NoError(err)

	_, err = s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, ref.EntryID, "mistake")
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *LedgerScenarioSuite) TestVoidAgainstDeactivatedAccountIsIntegrityViolation() {
	ref := s.createPosted(saleInput(10, 10))

	sales, err := s.store.FindAccountByID(s.ctx, branchMain, accSales)
	s.Require().NoError(err)
	sales.IsActive = false
	s.Require().NoError(s.store.SaveAccount(s.ctx, *sales))

	_, err = s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, ref.EntryID, "correction")
	s.ErrorIs(err, apperrors.ErrIntegrityViolation)
	s.True(s.balance(accCash).Equal(amount(10)), "failed void leaves balances alone")

	entry, err := s.svc.Journal.GetEntry(s.ctx, branchMain, ref.EntryID)
	s.Require().NoError(err)
	s.False(entry.IsVoided)
}

func (s *LedgerScenarioSuite) TestReseedCannotFlipPostedAccount() {
	ref := s.createPosted(saleInput(500, 500))

	chart := dto.ChartOfAccounts{Branches: []dto.ChartBranch{{
		ID: branchMain, Code: "MAIN", Name: "Main Street",
		Accounts: []dto.ChartAccount{{ID: accSales, Code: "4000", Name: "Sales", Type: "expense"}},
	}}}
	_, err := s.svc.Account.SeedChart(s.ctx, chart, "seeder")
	s.ErrorIs(err, apperrors.ErrIntegrityViolation)

	sales, err := s.svc.Account.GetAccount(s.ctx, branchMain, accSales)
	s.Require().NoError(err)
	s.Equal(domain.Revenue, sales.AccountType)
	s.Equal(domain.NormalCredit, sales.NormalBalance)

	_, err = s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, ref.EntryID, "keyed twice")
	s.Require().NoError(err)
	s.True(s.balance(accCash).IsZero())
	s.True(s.balance(accSales).IsZero())
}

func (s *LedgerScenarioSuite) TestUpdateAndDeleteDraft() {
	ref, err := s.svc.Journal.CreateEntry(s.ctx, cashier, saleInput(10, 10))
	s.Require().NoError(err)

	updated, err := s.svc.Journal.UpdateDraftEntry(s.ctx, cashier, branchMain, ref.EntryID, domain.UpdateEntryInput{
		EntryDate:   saleDate.AddDate(0, 0, 1),
		Description: "Rent for March",
		Lines: []domain.LineInput{
			{AccountID: accRent, DebitAmount: amount(700)},
			{AccountID: accCash, CreditAmount: amount(700)},
		},
	})
	s.Require().NoError(err)
	s.Equal("Rent for March", updated.Description)
	s.Equal(ref.EntryNumber, updated.EntryNumber)
	s.True(updated.TotalDebit.Equal(amount(700)))
	s.Equal("6000", updated.Lines[0].AccountCode)

	s.Require().NoError(s.svc.Journal.DeleteDraftEntry(s.ctx, cashier, branchMain, ref.EntryID))
	_, err = s.svc.Journal.GetEntry(s.ctx, branchMain, ref.EntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerScenarioSuite) TestPostedEntryCannotBeEditedOrDeleted() {
	ref := s.createPosted(saleInput(10, 10))

	_, err := s.svc.Journal.UpdateDraftEntry(s.ctx, cashier, branchMain, ref.EntryID, domain.UpdateEntryInput{
		EntryDate: saleDate, Description: "edit", Lines: saleInput(20, 20).Lines,
	})
	s.ErrorIs(err, apperrors.ErrInvalidState)

	err = s.svc.Journal.DeleteDraftEntry(s.ctx, cashier, branchMain, ref.EntryID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *LedgerScenarioSuite) TestReferenceReplayReturnsExistingEntry() {
	in := saleInput(10, 10)
	in.ReferenceType = domain.RefTransaction
	in.ReferenceID = "txn-1"

	first := s.createPosted(in)
	second := s.createPosted(in)

	s.False(first.Replayed)
	s.True(second.Replayed)
	s.Equal(first.EntryID, second.EntryID)
	s.True(s.balance(accCash).Equal(amount(10)), "replay must not post twice")

	_, err := s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, first.EntryID, "refund")
	s.Require().NoError(err)

	third := s.createPosted(in)
	s.False(third.Replayed)
	s.NotEqual(first.EntryID, third.EntryID)
}

func (s *LedgerScenarioSuite) TestNotifierEvents() {
	ref := s.createPosted(saleInput(10, 10))
	s.Equal([]string{portssvc.EventEntryCreated, portssvc.EventEntryPosted}, s.notifier.names())

	_, err := s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, ref.EntryID, "refund")
	s.Require().NoError(err)
	last := s.notifier.last()
	s.Equal(portssvc.EventEntryVoided, last.Name)
	s.Equal(ref.EntryNumber, last.EntryNumber)
	s.Equal("refund", last.Properties["reason"])
	s.NoError(last.Err)
}

func (s *LedgerScenarioSuite) TestSystemJournalCashSaleWithCost() {
	req := domain.SystemJournalRequest{
		Kind:        domain.KindCashSale,
		ReferenceID: "sale-77",
		Date:        saleDate,
		Amount:      amount(250),
		CostAmount:  amount(100),
		Accounts: map[domain.AccountRole]string{
			domain.RoleCash:      accCash,
			domain.RoleRevenue:   accSales,
			domain.RoleCOGS:      accCogs,
			domain.RoleInventory: accStock,
		},
	}

	ref, err := s.svc.SystemJournal.Generate(s.ctx, cashier, branchMain, req)
	s.Require().NoError(err)
	s.Equal(domain.StatusPosted, ref.Status)

	s.True(s.balance(accCash).Equal(amount(250)))
	s.True(s.balance(accSales).Equal(amount(250)))
	s.True(s.balance(accCogs).Equal(amount(100)))
	s.True(s.balance(accStock).Equal(amount(-100)))

	again, err := s.svc.SystemJournal.Generate(s.ctx, cashier, branchMain, req)
	s.Require().NoError(err)
	s.True(again.Replayed)

	entry, err := s.svc.Journal.GetEntry(s.ctx, branchMain, ref.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.RefTransaction, entry.ReferenceType)
	s.Len(entry.Lines, 4)
}

func (s *LedgerScenarioSuite) TestSummaryAndBalanceSummary() {
	s.createPosted(saleInput(300, 300))
	rent := s.createPosted(domain.CreateEntryInput{
		BranchID: branchMain, EntryDate: saleDate, Description: "Rent",
		ReferenceType: domain.RefExpense,
		Lines: []domain.LineInput{
			{AccountID: accRent, DebitAmount: amount(120)},
			{AccountID: accCash, CreditAmount: amount(120)},
		},
	})
	_, err := s.svc.Journal.CreateEntry(s.ctx, cashier, saleInput(5, 5))
	s.Require().NoError(err)
	_, err = s.svc.Journal.VoidEntry(s.ctx, cashier, branchMain, rent.EntryID, "wrong month")
	s.Require().NoError(err)

	summary, err := s.svc.Journal.SummarizeBranch(s.ctx, domain.EntryFilter{BranchID: branchMain})
	s.Require().NoError(err)
	s.Equal(3, summary.Overall.Count)
	s.Equal(1, summary.ByState[domain.StatePosted].Count)
	s.Equal(1, summary.ByState[domain.StateDraft].Count)
	s.Equal(1, summary.ByState[domain.StateVoided].Count)
	s.Equal(1, summary.ByReferenceType[domain.RefExpense].Count)

	balances, err := s.svc.Account.BalanceSummary(s.ctx, branchMain)
	s.Require().NoError(err)
	s.True(balances.TotalAssets.Equal(amount(300)))
	s.True(balances.TotalRevenue.Equal(amount(300)))
	s.True(balances.TotalExpenses.IsZero())
	s.True(balances.IsBalanced)
}

func (s *LedgerScenarioSuite) TestListEntriesPagesNewestFirst() {
	for day := 1; day <= 5; day++ {
		in := saleInput(int64(day), int64(day))
		in.EntryDate = time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
		_, err := s.svc.Journal.CreateEntry(s.ctx, cashier, in)
		s.Require().NoError(err)
	}

	page, next, err := s.svc.Journal.ListEntries(s.ctx, domain.EntryFilter{BranchID: branchMain, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Require().NotNil(next)
	s.Equal(5, page[0].EntryDate.Day())
	s.Equal(4, page[1].EntryDate.Day())

	var all []domain.JournalEntry
	all = append(all, page...)
	for next != nil {
		page, next, err = s.svc.Journal.ListEntries(s.ctx, domain.EntryFilter{BranchID: branchMain, Limit: 2, NextToken: next})
		s.Require().NoError(err)
		all = append(all, page...)
	}
	s.Len(all, 5)
	s.Equal(1, all[4].EntryDate.Day())
}

func (s *LedgerScenarioSuite) TestMissingActorRejected() {
	_, err := s.svc.Journal.CreateEntry(s.ctx, domain.Actor{}, saleInput(10, 10))
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func TestLedgerScenarios(t *testing.T) {
	suite.Run(t, new(LedgerScenarioSuite))
}
