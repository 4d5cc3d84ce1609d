package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Direction selects whether a delta applies or reverses a posting.
type Direction int

const (
	Apply   Direction = 1
	Reverse Direction = -1
)

// CalculateSignedAmount returns the change a line makes to an account's balance.
// DEBIT-normal accounts grow with debits and shrink with credits; CREDIT-normal accounts the reverse.
func CalculateSignedAmount(line domain.JournalEntryLine, normal domain.NormalBalance) (decimal.Decimal, error) {
	switch normal {
	case domain.NormalDebit:
		return line.DebitAmount.Sub(line.CreditAmount), nil
	case domain.NormalCredit:
		return line.CreditAmount.Sub(line.DebitAmount), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal balance '%s' for account %s", normal, line.AccountID)
	}
}

// BalanceChanges folds the lines of an entry into one delta per account.
// Every line account must be present in accounts; a missing one is an integrity violation.
func BalanceChanges(lines []domain.JournalEntryLine, accounts map[string]domain.Account, dir Direction) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	sign := decimal.NewFromInt(int64(dir))
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s of line %d not found", apperrors.ErrIntegrityViolation, line.AccountID, line.LineNumber)
		}
		signed, err := CalculateSignedAmount(line, acc.NormalBalance)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrityViolation, err)
		}
		changes[line.AccountID] = changes[line.AccountID].Add(signed.Mul(sign))
	}
	return changes, nil
}

// LineAccountIDs returns the distinct account ids of lines in ascending order.
// Stores lock accounts in this order.
func LineAccountIDs(lines []domain.JournalEntryLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	sort.Strings(ids)
	return ids
}

// SortedKeys returns the account ids of changes in ascending order.
func SortedKeys(changes map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
