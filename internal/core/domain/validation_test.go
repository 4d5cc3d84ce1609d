package domain_test

import (
	"testing"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(account string, debit, credit float64) domain.LineInput {
	return domain.LineInput{
		AccountID:    account,
		DebitAmount:  decimal.NewFromFloat(debit),
		CreditAmount: decimal.NewFromFloat(credit),
	}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.LineInput
		wantErr error
	}{
		{"balanced pair", []domain.LineInput{line("a", 100, 0), line("b", 0, 100)}, nil},
		{"within tolerance", []domain.LineInput{line("a", 100.01, 0), line("b", 0, 100)}, nil},
		{"outside tolerance", []domain.LineInput{line("a", 100.02, 0), line("b", 0, 100)}, apperrors.ErrUnbalanced},
		{"split credit", []domain.LineInput{line("a", 150, 0), line("b", 0, 100), line("c", 0, 50)}, nil},
		{"single line", []domain.LineInput{line("a", 100, 0)}, apperrors.ErrTooFewLines},
		{"zero lines do not count", []domain.LineInput{line("a", 0, 0), line("b", 0, 0)}, apperrors.ErrTooFewLines},
		{"both sides", []domain.LineInput{line("a", 10, 10), line("b", 0, 0)}, apperrors.ErrValidation},
		{"negative", []domain.LineInput{line("a", -10, 0), line("b", 0, -10)}, apperrors.ErrValidation},
		{"missing account", []domain.LineInput{line("", 10, 0), line("b", 0, 10)}, apperrors.ErrMissingAccount},
		{"five decimals", []domain.LineInput{line("a", 1.00001, 0), line("b", 0, 1.00001)}, apperrors.ErrValidation},
		{"four decimals", []domain.LineInput{line("a", 1.0001, 0), line("b", 0, 1.0001)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateLines(tt.lines)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompactLines(t *testing.T) {
	lines := []domain.LineInput{line("a", 10, 0), line("b", 0, 0), line("", 0, 0), line("c", 0, 10)}
	assert.Len(t, domain.CompactLines(lines), 2)
}

func TestValidateLines_ScaleReportsLineIndex(t *testing.T) {
	lines := []domain.LineInput{
		line("a", 12.5, 0),
		{AccountID: "b", CreditAmount: decimal.RequireFromString("12.50001")},
	}
	err := domain.ValidateLines(lines)

	var verr *domain.ValidationError
	if assert.ErrorAs(t, err, &verr) {
		assert.Equal(t, apperrors.CodeValidation, verr.Reason)
		assert.Equal(t, 1, verr.LineIndex)
	}
}
