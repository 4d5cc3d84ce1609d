package domain_test

import (
	"testing"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalEntry_StateGuards(t *testing.T) {
	tests := []struct {
		name      string
		entry     domain.JournalEntry
		wantState domain.EntryState
		canPost   bool
		canVoid   bool
		canEdit   bool
	}{
		{"draft", domain.JournalEntry{Status: domain.StatusDraft}, domain.StateDraft, true, false, true},
		{"posted", domain.JournalEntry{Status: domain.StatusPosted}, domain.StatePosted, false, true, false},
		{"voided", domain.JournalEntry{Status: domain.StatusPosted, IsVoided: true}, domain.StateVoided, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantState, tt.entry.State())
			check := func(ok bool, err error) {
				if ok {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, apperrors.ErrInvalidState)
				}
			}
			check(tt.canPost, tt.entry.CanPost())
			check(tt.canVoid, tt.entry.CanVoid())
			check(tt.canEdit, tt.entry.CanEdit())
		})
	}
}

func TestFormatEntryNumber(t *testing.T) {
	assert.Equal(t, "JE-2026-000001", domain.FormatEntryNumber(2026, 1))
	assert.Equal(t, "JE-2026-1234567", domain.FormatEntryNumber(2026, 1234567))
}

func TestReferenceType_IsValid(t *testing.T) {
	assert.True(t, domain.RefPayroll.IsValid())
	assert.False(t, domain.ReferenceType("invoice").IsValid())
}

func TestAccountType_DefaultNormalBalance(t *testing.T) {
	assert.Equal(t, domain.NormalDebit, domain.Asset.DefaultNormalBalance())
	assert.Equal(t, domain.NormalDebit, domain.Expense.DefaultNormalBalance())
	assert.Equal(t, domain.NormalCredit, domain.Revenue.DefaultNormalBalance())
	assert.Equal(t, domain.NormalCredit, domain.Liability.DefaultNormalBalance())
}

func TestCompareEntryNumbers(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"JE-2025-000001", "JE-2025-000002", -1},
		{"JE-2025-999999", "JE-2025-1000000", -1},
		{"JE-2025-1000001", "JE-2025-1000000", 1},
		{"JE-2025-1000000", "JE-2025-999999", 1},
		{"JE-2025-000042", "JE-2025-000042", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CompareEntryNumbers(tt.a, tt.b))
		})
	}
}

func TestCheckPolarityChange(t *testing.T) {
	sales := domain.Account{Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.NormalCredit}
	retyped := sales
	retyped.AccountType = domain.Expense
	retyped.NormalBalance = domain.NormalDebit
	renamed := sales
	renamed.Name = "Shop Sales"

	withBalance := sales
	withBalance.Balance = decimal.NewFromInt(100)

	assert.NoError(t, domain.CheckPolarityChange(sales, retyped, false), "fresh account")
	assert.NoError(t, domain.CheckPolarityChange(withBalance, renamed, true), "rename keeps polarity")
	assert.ErrorIs(t, domain.CheckPolarityChange(withBalance, retyped, false), apperrors.ErrIntegrityViolation)
	assert.ErrorIs(t, domain.CheckPolarityChange(sales, retyped, true), apperrors.ErrIntegrityViolation, "zero balance with live lines")
}
