package domain

import (
	"fmt"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest accepted difference between debit and credit totals.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// MinLines is the minimum number of lines carrying an amount.
const MinLines = 2

// AmountScale is the number of decimal places a stored amount keeps.
const AmountScale = 4

// ValidationError is a structured validation failure. Reason is one of the ledger error codes.
type ValidationError struct {
	Reason    apperrors.ErrorCode
	LineIndex int
	Message   string
	kind      error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.kind }

func newValidationError(kind error, reason apperrors.ErrorCode, line int, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, LineIndex: line, Message: fmt.Sprintf(format, args...), kind: kind}
}

// ComputeTotals sums the debit and credit columns.
func ComputeTotals(lines []LineInput) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.DebitAmount)
		credit = credit.Add(l.CreditAmount)
	}
	return debit, credit
}

// IsBalanced reports whether debit and credit agree within BalanceTolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThanOrEqual(BalanceTolerance)
}

func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}

// CompactLines drops lines without an amount. They have no ledger effect and are never persisted.
func CompactLines(lines []LineInput) []LineInput {
	out := make([]LineInput, 0, len(lines))
	for _, l := range lines {
		if l.IsZero() {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ValidateLines checks the double-entry rules for a candidate set of lines.
// Lines with an account but no amount are tolerated and do not count toward MinLines.
func ValidateLines(lines []LineInput) error {
	nonZero := 0
	for i, l := range lines {
		if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
			return newValidationError(apperrors.ErrValidation, apperrors.CodeValidation, i, "line %d: amounts cannot be negative", i+1)
		}
		if !fitsScale(l.DebitAmount) || !fitsScale(l.CreditAmount) {
			return newValidationError(apperrors.ErrValidation, apperrors.CodeValidation, i, "line %d: amounts carry at most %d decimal places", i+1, AmountScale)
		}
		if l.DebitAmount.IsPositive() && l.CreditAmount.IsPositive() {
			return newValidationError(apperrors.ErrValidation, apperrors.CodeValidation, i, "line %d: a line carries either a debit or a credit, not both", i+1)
		}
		if !l.IsZero() {
			nonZero++
		}
	}
	if nonZero < MinLines {
		return newValidationError(apperrors.ErrTooFewLines, apperrors.CodeTooFewLines, -1, "entry needs at least %d lines with an amount, got %d", MinLines, nonZero)
	}
	for i, l := range lines {
		if l.AccountID == "" && !l.IsZero() {
			return newValidationError(apperrors.ErrMissingAccount, apperrors.CodeMissingAccount, i, "line %d: account is required", i+1)
		}
	}
	debit, credit := ComputeTotals(lines)
	if !IsBalanced(debit, credit) {
		return newValidationError(apperrors.ErrUnbalanced, apperrors.CodeUnbalanced, -1, "debit and credit must balance: debit %s, credit %s", debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}
