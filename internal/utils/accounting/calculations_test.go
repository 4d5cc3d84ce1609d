package accounting

import (
	"testing"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		line   domain.JournalEntryLine
		normal domain.NormalBalance
		want   decimal.Decimal
	}{
		{"debit to debit-normal", domain.JournalEntryLine{DebitAmount: d(100), CreditAmount: d(0)}, domain.NormalDebit, d(100)},
		{"credit to debit-normal", domain.JournalEntryLine{DebitAmount: d(0), CreditAmount: d(40)}, domain.NormalDebit, d(-40)},
		{"credit to credit-normal", domain.JournalEntryLine{DebitAmount: d(0), CreditAmount: d(100)}, domain.NormalCredit, d(100)},
		{"debit to credit-normal", domain.JournalEntryLine{DebitAmount: d(25), CreditAmount: d(0)}, domain.NormalCredit, d(-25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tt.line, tt.normal)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}

	_, err := CalculateSignedAmount(domain.JournalEntryLine{AccountID: "x"}, "SIDEWAYS")
	assert.Error(t, err)
}

func TestBalanceChanges_ApplyThenReverseIsZero(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":  {AccountID: "cash", NormalBalance: domain.NormalDebit},
		"sales": {AccountID: "sales", NormalBalance: domain.NormalCredit},
		"cogs":  {AccountID: "cogs", NormalBalance: domain.NormalDebit},
	}
	lines := []domain.JournalEntryLine{
		{LineNumber: 1, AccountID: "cash", DebitAmount: d(100000), CreditAmount: d(0)},
		{LineNumber: 2, AccountID: "sales", DebitAmount: d(0), CreditAmount: d(100000)},
		{LineNumber: 3, AccountID: "cogs", DebitAmount: d(60000), CreditAmount: d(0)},
		{LineNumber: 4, AccountID: "cash", DebitAmount: d(0), CreditAmount: d(60000)},
	}

	applied, err := BalanceChanges(lines, accounts, Apply)
	require.NoError(t, err)
	assert.True(t, d(40000).Equal(applied["cash"]))
	assert.True(t, d(100000).Equal(applied["sales"]))
	assert.True(t, d(60000).Equal(applied["cogs"]))

	reversed, err := BalanceChanges(lines, accounts, Reverse)
	require.NoError(t, err)
	for id, delta := range applied {
		assert.True(t, delta.Add(reversed[id]).IsZero(), "account %s", id)
	}
}

func TestBalanceChanges_MissingAccount(t *testing.T) {
	lines := []domain.JournalEntryLine{{LineNumber: 1, AccountID: "gone", DebitAmount: d(1)}}
	_, err := BalanceChanges(lines, map[string]domain.Account{}, Apply)
	assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
}

func TestLineAccountIDs_SortedAndDistinct(t *testing.T) {
	lines := []domain.JournalEntryLine{{AccountID: "b"}, {AccountID: "a"}, {AccountID: "b"}}
	assert.Equal(t, []string{"a", "b"}, LineAccountIDs(lines))
}
