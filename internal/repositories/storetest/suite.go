// Package storetest holds the behaviour every ledger store must share, as a testify suite.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const (
	BranchID      = "br-main"
	OtherBranchID = "br-other"

	CashID     = "acc-cash"
	SalesID    = "acc-sales"
	ExpenseID  = "acc-rent"
	HeaderID   = "acc-assets"
	InactiveID = "acc-old"
	ForeignID  = "acc-foreign-cash"
)

// StoreSuite runs the shared store contract against the provider returned by NewProvider.
type StoreSuite struct {
	suite.Suite
	NewProvider func() portsrepo.RepositoryProvider
	// SetSequence presets the last issued entry sequence. Tests that need it are skipped when nil.
	SetSequence func(repos portsrepo.RepositoryProvider, branchID string, year int, last int64) error

	repos portsrepo.RepositoryProvider
	ctx   context.Context
	actor domain.Actor
	now   time.Time
}

func (s *StoreSuite) SetupTest() {
	s.repos = s.NewProvider()
	s.ctx = context.Background()
	s.actor = domain.Actor{ID: "user-1", Name: "Ana Teller"}
	s.now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	audit := domain.AuditFields{CreatedAt: s.now, CreatedBy: "seed", LastUpdatedAt: s.now, LastUpdatedBy: "seed"}
	for _, b := range []domain.Branch{
		{BranchID: BranchID, Code: "MAIN", Name: "Main", IsActive: true, AuditFields: audit},
		{BranchID: OtherBranchID, Code: "OTHER", Name: "Other", IsActive: true, AuditFields: audit},
	} {
		s.Require().NoError(s.repos.BranchRepo.SaveBranch(s.ctx, b))
	}
	for _, a := range []domain.Account{
		{AccountID: HeaderID, BranchID: BranchID, Code: "1000", Name: "Assets", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsHeader: true, IsActive: true},
		{AccountID: CashID, BranchID: BranchID, Code: "1100", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: InactiveID, BranchID: BranchID, Code: "1900", Name: "Old Till", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: false},
		{AccountID: SalesID, BranchID: BranchID, Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.NormalCredit, IsActive: true},
		{AccountID: ExpenseID, BranchID: BranchID, Code: "6100", Name: "Rent", AccountType: domain.Expense, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: ForeignID, BranchID: OtherBranchID, Code: "1100", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
	} {
		a.Balance = decimal.Zero
		a.AuditFields = audit
		s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, a))
	}
}

func (s *StoreSuite) TearDownTest() {
	if s.repos.Close != nil {
		s.repos.Close()
	}
}

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func line(entryID string, n int, accountID, debit, credit string) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:       uuid.NewString(),
		EntryID:      entryID,
		LineNumber:   n,
		AccountID:    accountID,
		AccountCode:  accountID,
		AccountName:  accountID,
		DebitAmount:  amount(debit),
		CreditAmount: amount(credit),
	}
}

// saleEntry debits cash and credits sales for value.
func (s *StoreSuite) saleEntry(branchID string, date time.Time, value string) domain.NewEntry {
	id := uuid.NewString()
	return domain.NewEntry{
		EntryID:       id,
		BranchID:      branchID,
		EntryDate:     date,
		Description:   "Cash sale",
		ReferenceType: domain.RefTransaction,
		Lines: []domain.JournalEntryLine{
			line(id, 1, CashID, value, "0"),
			line(id, 2, SalesID, "0", value),
		},
		TotalDebit:  amount(value),
		TotalCredit: amount(value),
		Actor:       s.actor,
		CreatedAt:   s.now,
	}
}

func (s *StoreSuite) day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) balance(accountID string) decimal.Decimal {
	acc, err := s.repos.AccountRepo.FindAccountByID(s.ctx, BranchID, accountID)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *StoreSuite) assertBalance(accountID, want string) {
	got := s.balance(accountID)
	s.Truef(got.Equal(amount(want)), "balance of %s: want %s, got %s", accountID, want, got)
}

func (s *StoreSuite) create(entry domain.NewEntry) *domain.EntryRef {
	ref, err := s.repos.JournalRepo.CreateEntryAtomic(s.ctx, entry)
	s.Require().NoError(err)
	return ref
}

func (s *StoreSuite) TestCreateDraft_AllocatesNumberAndLeavesBalances() {
	entry := s.saleEntry(BranchID, s.day(14), "150.00")
	ref := s.create(entry)

	s.Equal("JE-2025-000001", ref.EntryNumber)
	s.Equal(domain.StatusDraft, ref.Status)
	s.False(ref.Replayed)
	s.assertBalance(CashID, "0")
	s.assertBalance(SalesID, "0")

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, BranchID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StateDraft, got.State())
	s.True(got.EntryDate.Equal(s.day(14)))
	s.Require().Len(got.Lines, 2)
	s.Equal(1, got.Lines[0].LineNumber)
	s.Equal(CashID, got.Lines[0].AccountID)
	s.True(got.Lines[0].DebitAmount.Equal(amount("150")))
	s.True(got.TotalDebit.Equal(got.TotalCredit))
	s.Equal(s.actor.Name, got.CreatedByName)
	s.Nil(got.ApprovedBy)
}

func (s *StoreSuite) TestNumbering_PerBranchAndYear() {
	first := s.create(s.saleEntry(BranchID, s.day(1), "10"))
	second := s.create(s.saleEntry(BranchID, s.day(2), "10"))
	nextYear := s.create(s.saleEntry(BranchID, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "10"))

	other := s.saleEntry(OtherBranchID, s.day(1), "10")
	other.Lines = []domain.JournalEntryLine{line(other.EntryID, 1, ForeignID, "10", "0"), line(other.EntryID, 2, ForeignID, "0", "10")}
	otherRef := s.create(other)

	s.Equal("JE-2025-000001", first.EntryNumber)
	s.Equal("JE-2025-000002", second.EntryNumber)
	s.Equal("JE-2026-000001", nextYear.EntryNumber)
	s.Equal("JE-2025-000001", otherRef.EntryNumber)
}

func (s *StoreSuite) TestCreateAutoPost_AppliesBalances() {
	entry := s.saleEntry(BranchID, s.day(14), "100")
	entry.AutoPost = true
	ref := s.create(entry)

	s.Equal(domain.StatusPosted, ref.Status)
	s.assertBalance(CashID, "100")
	s.assertBalance(SalesID, "100")

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, BranchID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StatePosted, got.State())
	s.Require().NotNil(got.ApprovedBy)
	s.Equal(s.actor.ID, *got.ApprovedBy)
	s.Require().NotNil(got.ApprovedAt)
}

func (s *StoreSuite) TestCreate_RejectsUnpostableAccountsWithoutConsumingNumber() {
	for _, accountID := range []string{HeaderID, InactiveID, "acc-missing", ForeignID} {
		entry := s.saleEntry(BranchID, s.day(3), "5")
		entry.Lines[0].AccountID = accountID
		_, err := s.repos.JournalRepo.CreateEntryAtomic(s.ctx, entry)
		s.ErrorIsf(err, apperrors.ErrMissingAccount, "account %s", accountID)
	}

	ref := s.create(s.saleEntry(BranchID, s.day(3), "5"))
	s.Equal("JE-2025-000001", ref.EntryNumber)
}

func (s *StoreSuite) TestPost_AppliesOnceThenRejects() {
	entry := s.saleEntry(BranchID, s.day(14), "80")
	s.create(entry)

	s.Require().NoError(s.repos.JournalRepo.PostEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now))
	s.assertBalance(CashID, "80")
	s.assertBalance(SalesID, "80")

	err := s.repos.JournalRepo.PostEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.assertBalance(CashID, "80")
}

func (s *StoreSuite) TestPost_UnknownEntryOrWrongBranch() {
	entry := s.saleEntry(BranchID, s.day(14), "80")
	s.create(entry)

	err := s.repos.JournalRepo.PostEntryAtomic(s.ctx, OtherBranchID, entry.EntryID, s.actor, s.now)
	s.ErrorIs(err, apperrors.ErrNotFound)
	err = s.repos.JournalRepo.PostEntryAtomic(s.ctx, BranchID, "nope", s.actor, s.now)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreSuite) TestPost_DeactivatedAccountLeavesEntryDraft() {
	entry := s.saleEntry(BranchID, s.day(14), "80")
	s.create(entry)
	s.deactivate(SalesID)

	err := s.repos.JournalRepo.PostEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now)
	s.ErrorIs(err, apperrors.ErrMissingAccount)

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, BranchID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StateDraft, got.State())
	s.assertBalance(CashID, "0")
}

func (s *StoreSuite) TestVoid_ReversesExactly() {
	entry := s.saleEntry(BranchID, s.day(14), "42.50")
	entry.AutoPost = true
	s.create(entry)

	at := s.now.Add(time.Hour)
	s.Require().NoError(s.repos.JournalRepo.VoidEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, at, "duplicate"))
	s.assertBalance(CashID, "0")
	s.assertBalance(SalesID, "0")

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, BranchID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StateVoided, got.State())
	s.Equal(domain.StatusPosted, got.Status)
	s.Require().NotNil(got.VoidReason)
	s.Equal("duplicate", *got.VoidReason)
	s.Require().NotNil(got.VoidedAt)
	s.True(got.VoidedAt.Equal(at))

	err = s.repos.JournalRepo.VoidEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, at, "again")
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.assertBalance(CashID, "0")
}

func (s *StoreSuite) TestVoid_DraftIsInvalidState() {
	entry := s.saleEntry(BranchID, s.day(14), "10")
	s.create(entry)

	err := s.repos.JournalRepo.VoidEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now, "oops")
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *StoreSuite) TestVoid_DeactivatedAccountIsIntegrityViolation() {
	entry := s.saleEntry(BranchID, s.day(14), "60")
	entry.AutoPost = true
	s.create(entry)
	s.deactivate(SalesID)

	err := s.repos.JournalRepo.VoidEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now, "wrong till")
	s.ErrorIs(err, apperrors.ErrIntegrityViolation)
	s.assertBalance(CashID, "60")

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, BranchID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StatePosted, got.State())
}

func (s *StoreSuite) TestReference_ReplayUntilVoided() {
	ref := "sale-991"
	entry := s.saleEntry(BranchID, s.day(14), "25")
	entry.ReferenceID = &ref
	entry.AutoPost = true
	first := s.create(entry)

	again := s.saleEntry(BranchID, s.day(14), "25")
	again.ReferenceID = &ref
	again.AutoPost = true
	replay := s.create(again)

	s.True(replay.Replayed)
	s.Equal(first.EntryID, replay.EntryID)
	s.Equal(first.EntryNumber, replay.EntryNumber)
	s.assertBalance(CashID, "25")

	found, err := s.repos.JournalRepo.FindEntryByReference(s.ctx, BranchID, domain.RefTransaction, ref)
	s.Require().NoError(err)
	s.Equal(first.EntryID, found.EntryID)

	s.Require().NoError(s.repos.JournalRepo.VoidEntryAtomic(s.ctx, BranchID, first.EntryID, s.actor, s.now, "re-issue"))
	_, err = s.repos.JournalRepo.FindEntryByReference(s.ctx, BranchID, domain.RefTransaction, ref)
	s.ErrorIs(err, apperrors.ErrNotFound)

	reissue := s.saleEntry(BranchID, s.day(14), "30")
	reissue.ReferenceID = &ref
	fresh := s.create(reissue)
	s.False(fresh.Replayed)
	s.Equal("JE-2025-000002", fresh.EntryNumber)
}

func (s *StoreSuite) TestUpdateDraft_ReplacesLines() {
	entry := s.saleEntry(BranchID, s.day(14), "10")
	s.create(entry)

	lines := []domain.JournalEntryLine{
		line(entry.EntryID, 1, ExpenseID, "12", "0"),
		line(entry.EntryID, 2, CashID, "0", "12"),
	}
	err := s.repos.JournalRepo.UpdateDraftEntry(s.ctx, BranchID, entry.EntryID, domain.DraftUpdate{
		EntryDate:     s.day(15),
		Description:   "Rent",
		ReferenceType: domain.RefExpense,
		Lines:         lines,
		TotalDebit:    amount("12"),
		TotalCredit:   amount("12"),
		Actor:         s.actor,
		UpdatedAt:     s.now,
	})
	s.Require().NoError(err)

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, BranchID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal("Rent", got.Description)
	s.Equal(domain.RefExpense, got.ReferenceType)
	s.True(got.EntryDate.Equal(s.day(15)))
	s.Require().Len(got.Lines, 2)
	s.Equal(ExpenseID, got.Lines[0].AccountID)
	s.Equal("JE-2025-000001", got.EntryNumber)
}

func (s *StoreSuite) TestUpdateAndDelete_RejectPosted() {
	entry := s.saleEntry(BranchID, s.day(14), "10")
	entry.AutoPost = true
	s.create(entry)

	err := s.repos.JournalRepo.UpdateDraftEntry(s.ctx, BranchID, entry.EntryID, domain.DraftUpdate{
		EntryDate: s.day(14), Description: "x", ReferenceType: domain.RefManual,
		Lines: entry.Lines, TotalDebit: entry.TotalDebit, TotalCredit: entry.TotalCredit, Actor: s.actor, UpdatedAt: s.now,
	})
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.ErrorIs(s.repos.JournalRepo.DeleteDraftEntry(s.ctx, BranchID, entry.EntryID), apperrors.ErrInvalidState)
}

func (s *StoreSuite) TestDeleteDraft_NumberIsNotReused() {
	entry := s.saleEntry(BranchID, s.day(14), "10")
	s.create(entry)

	s.Require().NoError(s.repos.JournalRepo.DeleteDraftEntry(s.ctx, BranchID, entry.EntryID))
	_, err := s.repos.JournalRepo.FindEntryByID(s.ctx, BranchID, entry.EntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	next := s.create(s.saleEntry(BranchID, s.day(14), "10"))
	s.Equal("JE-2025-000002", next.EntryNumber)
}

func (s *StoreSuite) TestListEntries_OrderFiltersAndPages() {
	var ids []string
	for d := 1; d <= 5; d++ {
		e := s.saleEntry(BranchID, s.day(d), "1")
		e.AutoPost = d%2 == 0
		s.create(e)
		ids = append(ids, e.EntryID)
	}
	// same date as day 5, higher number
	tie := s.saleEntry(BranchID, s.day(5), "1")
	s.create(tie)

	page, next, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, Limit: 4})
	s.Require().NoError(err)
	s.Require().Len(page, 4)
	s.Require().NotNil(next)
	s.Equal("JE-2025-000006", page[0].EntryNumber)
	s.Equal("JE-2025-000005", page[1].EntryNumber)
	s.Equal("JE-2025-000003", page[3].EntryNumber)
	s.Len(page[0].Lines, 2)

	rest, next, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, Limit: 4, NextToken: next})
	s.Require().NoError(err)
	s.Nil(next)
	s.Require().Len(rest, 2)
	s.Equal("JE-2025-000002", rest[0].EntryNumber)
	s.Equal("JE-2025-000001", rest[1].EntryNumber)

	posted := domain.StatePosted
	postedOnly, _, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, State: &posted})
	s.Require().NoError(err)
	s.Len(postedOnly, 2)

	from, to := s.day(2), s.day(4)
	ranged, _, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, From: &from, To: &to})
	s.Require().NoError(err)
	s.Len(ranged, 3)

	expense := domain.RefExpense
	none, _, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, ReferenceType: &expense})
	s.Require().NoError(err)
	s.Empty(none)

	other, _, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: OtherBranchID})
	s.Require().NoError(err)
	s.Empty(other)

	bad := "not-a-token"
	_, _, err = s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreSuite) TestListEntries_OrdersPastSixDigitNumbers() {
	if s.SetSequence == nil {
		s.T().Skip("store cannot preset its entry sequence")
	}
	s.Require().NoError(s.SetSequence(s.repos, BranchID, 2025, 999998))
	for i := 0; i < 3; i++ {
		s.create(s.saleEntry(BranchID, s.day(9), "1"))
	}

	page, next, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Require().NotNil(next)
	s.Equal("JE-2025-1000001", page[0].EntryNumber)
	s.Equal("JE-2025-1000000", page[1].EntryNumber)

	rest, next, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{BranchID: BranchID, Limit: 2, NextToken: next})
	s.Require().NoError(err)
	s.Nil(next)
	s.Require().Len(rest, 1)
	s.Equal("JE-2025-999999", rest[0].EntryNumber)
}

func (s *StoreSuite) TestSaveAccount_PolarityFrozenWhilePosted() {
	entry := s.saleEntry(BranchID, s.day(14), "100")
	entry.AutoPost = true
	s.create(entry)

	sales, err := s.repos.AccountRepo.FindAccountByID(s.ctx, BranchID, SalesID)
	s.Require().NoError(err)
	retyped := *sales
	retyped.AccountType = domain.Expense
	retyped.NormalBalance = domain.NormalDebit

	err = s.repos.AccountRepo.SaveAccount(s.ctx, retyped)
	s.ErrorIs(err, apperrors.ErrIntegrityViolation)
	unchanged, err := s.repos.AccountRepo.FindAccountByID(s.ctx, BranchID, SalesID)
	s.Require().NoError(err)
	s.Equal(domain.Revenue, unchanged.AccountType)
	s.Equal(domain.NormalCredit, unchanged.NormalBalance)

	rent, err := s.repos.AccountRepo.FindAccountByID(s.ctx, BranchID, ExpenseID)
	s.Require().NoError(err)
	rent.AccountType = domain.Asset
	s.NoError(s.repos.AccountRepo.SaveAccount(s.ctx, *rent), "unused accounts can be reclassified")

	s.Require().NoError(s.repos.JournalRepo.VoidEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now, "correction"))
	s.assertBalance(CashID, "0")
	s.assertBalance(SalesID, "0")

	s.NoError(s.repos.AccountRepo.SaveAccount(s.ctx, retyped), "no live postings remain after the void")
}

func (s *StoreSuite) TestSaveAccount_KeepsRunningBalance() {
	entry := s.saleEntry(BranchID, s.day(14), "70")
	entry.AutoPost = true
	s.create(entry)

	acc, err := s.repos.AccountRepo.FindAccountByID(s.ctx, BranchID, CashID)
	s.Require().NoError(err)
	acc.Name = "Cash on hand"
	acc.Balance = decimal.Zero
	s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, *acc))

	s.assertBalance(CashID, "70")
	renamed, err := s.repos.AccountRepo.FindAccountByID(s.ctx, BranchID, CashID)
	s.Require().NoError(err)
	s.Equal("Cash on hand", renamed.Name)

	found, err := s.repos.AccountRepo.FindAccountsByIDs(s.ctx, BranchID, []string{CashID, ForeignID, "acc-missing"})
	s.Require().NoError(err)
	s.Len(found, 1)

	list, err := s.repos.AccountRepo.ListAccounts(s.ctx, BranchID)
	s.Require().NoError(err)
	s.Require().Len(list, 5)
	s.True(sort.SliceIsSorted(list, func(i, j int) bool { return list[i].Code < list[j].Code }))
}

func (s *StoreSuite) TestConcurrentCreates_UniqueNumbersAndBalancedLedger() {
	const writers = 16
	var g errgroup.Group
	numbers := make([]string, writers)
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			entry := s.saleEntry(BranchID, s.day(14), "2.50")
			entry.AutoPost = true
			ref, err := s.repos.JournalRepo.CreateEntryAtomic(s.ctx, entry)
			if err != nil {
				return fmt.Errorf("writer %d: %w", i, err)
			}
			numbers[i] = ref.EntryNumber
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	seen := make(map[string]bool, writers)
	for _, n := range numbers {
		s.False(seen[n], "duplicate entry number %s", n)
		seen[n] = true
	}
	for i := 1; i <= writers; i++ {
		s.True(seen[domain.FormatEntryNumber(2025, int64(i))])
	}
	s.assertBalance(CashID, "40")
	s.assertBalance(SalesID, "40")
}

func (s *StoreSuite) TestConcurrentPostAndVoid_ApplyOnce() {
	entry := s.saleEntry(BranchID, s.day(14), "9")
	s.create(entry)

	const racers = 8
	var g errgroup.Group
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		g.Go(func() error {
			results[i] = s.repos.JournalRepo.PostEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now)
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(1, countNil(results))
	s.assertBalance(CashID, "9")

	for i := 0; i < racers; i++ {
		g.Go(func() error {
			results[i] = s.repos.JournalRepo.VoidEntryAtomic(s.ctx, BranchID, entry.EntryID, s.actor, s.now, "race")
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(1, countNil(results))
	s.assertBalance(CashID, "0")
}

func countNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}

func (s *StoreSuite) deactivate(accountID string) {
	acc, err := s.repos.AccountRepo.FindAccountByID(s.ctx, BranchID, accountID)
	s.Require().NoError(err)
	acc.IsActive = false
	s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, *acc))
}
