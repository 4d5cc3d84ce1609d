package models

import (
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

// Account is a row of the accounts table.
type Account struct {
	AccountID     string          `db:"account_id"`
	BranchID      string          `db:"branch_id"`
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	NormalBalance string          `db:"normal_balance"`
	Balance       decimal.Decimal `db:"balance"`
	IsHeader      bool            `db:"is_header"`
	IsActive      bool            `db:"is_active"`
	Description   string          `db:"description"`
	AuditFields
}

// Branch is a row of the branches table.
type Branch struct {
	BranchID string `db:"branch_id"`
	Code     string `db:"code"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
	AuditFields
}
