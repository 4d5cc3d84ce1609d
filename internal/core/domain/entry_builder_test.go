package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cashAccount = domain.Account{
		AccountID: "acc-cash", Code: "1110", Name: "Kas", AccountType: domain.Asset,
		NormalBalance: domain.NormalDebit, IsActive: true,
	}
	salesAccount = domain.Account{
		AccountID: "acc-sales", Code: "4100", Name: "Penjualan", AccountType: domain.Revenue,
		NormalBalance: domain.NormalCredit, IsActive: true,
	}
)

func newBalancedBuilder(t *testing.T) *domain.EntryBuilder {
	t.Helper()
	b := domain.NewEntryBuilder("branch-1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, b.SetLineAccount(0, cashAccount))
	require.NoError(t, b.SetLineAmount(0, domain.SideDebit, decimal.NewFromInt(100000)))
	require.NoError(t, b.SetLineAccount(1, salesAccount))
	require.NoError(t, b.SetLineAmount(1, domain.SideCredit, decimal.NewFromInt(100000)))
	return b
}

func TestEntryBuilder_StartsWithTwoLines(t *testing.T) {
	b := domain.NewEntryBuilder("branch-1", time.Now())
	assert.Len(t, b.Lines(), 2)
	assert.Equal(t, domain.RefManual, b.ReferenceType)
}

func TestEntryBuilder_SetLineAccountSnapshotsLabels(t *testing.T) {
	b := newBalancedBuilder(t)
	lines := b.Lines()
	assert.Equal(t, "1110", lines[0].AccountCode)
	assert.Equal(t, "Kas", lines[0].AccountName)
	assert.Equal(t, "acc-sales", lines[1].AccountID)
}

func TestEntryBuilder_SetLineAccountRejectsHeader(t *testing.T) {
	b := domain.NewEntryBuilder("branch-1", time.Now())
	header := cashAccount
	header.IsHeader = true

	err := b.SetLineAccount(0, header)
	assert.ErrorIs(t, err, apperrors.ErrMissingAccount)
}

func TestEntryBuilder_SetLineAmountClearsOtherSide(t *testing.T) {
	b := domain.NewEntryBuilder("branch-1", time.Now())
	require.NoError(t, b.SetLineAmount(0, domain.SideDebit, decimal.NewFromInt(50)))
	require.NoError(t, b.SetLineAmount(0, domain.SideCredit, decimal.NewFromInt(20)))

	line := b.Lines()[0]
	assert.True(t, line.DebitAmount.IsZero())
	assert.True(t, line.CreditAmount.Equal(decimal.NewFromInt(20)))

	require.NoError(t, b.SetLineAmount(0, domain.SideDebit, decimal.NewFromInt(5)))
	line = b.Lines()[0]
	assert.True(t, line.CreditAmount.IsZero())
}

func TestEntryBuilder_SetLineAmountRejectsNegative(t *testing.T) {
	b := domain.NewEntryBuilder("branch-1", time.Now())
	err := b.SetLineAmount(0, domain.SideDebit, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestEntryBuilder_RemoveLineKeepsTwo(t *testing.T) {
	b := domain.NewEntryBuilder("branch-1", time.Now())
	err := b.RemoveLine(0)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, apperrors.CodeTooFewLines, vErr.Reason)

	idx := b.AddLine()
	assert.Equal(t, 2, idx)
	require.NoError(t, b.RemoveLine(idx))
	assert.Len(t, b.Lines(), 2)
}

func TestEntryBuilder_IndexOutOfRange(t *testing.T) {
	b := domain.NewEntryBuilder("branch-1", time.Now())
	assert.ErrorIs(t, b.SetLineDescription(7, "x"), apperrors.ErrValidation)
}

func TestEntryBuilder_ComputeTotals(t *testing.T) {
	b := newBalancedBuilder(t)
	debit, credit := b.ComputeTotals()
	assert.True(t, debit.Equal(decimal.NewFromInt(100000)))
	assert.True(t, credit.Equal(decimal.NewFromInt(100000)))
}

func TestEntryBuilder_Validate(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		assert.NoError(t, newBalancedBuilder(t).Validate())
	})

	t.Run("unbalanced", func(t *testing.T) {
		b := newBalancedBuilder(t)
		require.NoError(t, b.SetLineAmount(1, domain.SideCredit, decimal.NewFromInt(90000)))

		var vErr *domain.ValidationError
		require.ErrorAs(t, b.Validate(), &vErr)
		assert.Equal(t, apperrors.CodeUnbalanced, vErr.Reason)
		assert.ErrorIs(t, b.Validate(), apperrors.ErrUnbalanced)
	})

	t.Run("too few lines", func(t *testing.T) {
		b := domain.NewEntryBuilder("branch-1", time.Now())
		require.NoError(t, b.SetLineAccount(0, cashAccount))
		require.NoError(t, b.SetLineAmount(0, domain.SideDebit, decimal.NewFromInt(10)))
		assert.ErrorIs(t, b.Validate(), apperrors.ErrTooFewLines)
	})

	t.Run("missing account", func(t *testing.T) {
		b := domain.NewEntryBuilder("branch-1", time.Now())
		require.NoError(t, b.SetLineAccount(0, cashAccount))
		require.NoError(t, b.SetLineAmount(0, domain.SideDebit, decimal.NewFromInt(10)))
		require.NoError(t, b.SetLineAmount(1, domain.SideCredit, decimal.NewFromInt(10)))
		assert.ErrorIs(t, b.Validate(), apperrors.ErrMissingAccount)
	})
}

func TestEntryBuilder_BuildDropsEmptyLines(t *testing.T) {
	b := newBalancedBuilder(t)
	b.AddLine()
	b.Description = "Penjualan tunai"

	in, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, in.Lines, 2)
	assert.Equal(t, "branch-1", in.BranchID)
	assert.Equal(t, "Penjualan tunai", in.Description)
}
