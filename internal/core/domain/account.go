package domain

import (
	"fmt"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance grows.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// DefaultNormalBalance returns the conventional polarity for the account type.
func (t AccountType) DefaultNormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// IsValid reports whether n is DEBIT or CREDIT.
func (n NormalBalance) IsValid() bool {
	return n == NormalDebit || n == NormalCredit
}

// Account is a read model of the accounts registry. The ledger only reads it and applies balance deltas.
type Account struct {
	AccountID     string          `json:"accountID"`
	BranchID      string          `json:"branchID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Balance       decimal.Decimal `json:"balance"`
	IsHeader      bool            `json:"isHeader"`
	IsActive      bool            `json:"isActive"`
	Description   string          `json:"description"`
	AuditFields
}

// IsPostable reports whether journal lines may target the account.
func (a Account) IsPostable() bool {
	return a.IsActive && !a.IsHeader
}

// CheckPolarityChange rejects a change of account type or normal balance once the account carries
// a balance or live posted lines, since voids reverse with the account's current polarity.
func CheckPolarityChange(existing, next Account, hasLivePostings bool) error {
	if existing.AccountType == next.AccountType && existing.NormalBalance == next.NormalBalance {
		return nil
	}
	if existing.Balance.IsZero() && !hasLivePostings {
		return nil
	}
	return fmt.Errorf("%w: account %s %s has postings, its type and normal balance cannot change",
		apperrors.ErrIntegrityViolation, existing.Code, existing.Name)
}
