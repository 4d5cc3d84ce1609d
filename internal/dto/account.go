package dto

import (
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse is an account as returned by the API.
type AccountResponse struct {
	AccountID     string          `json:"accountId"`
	BranchID      string          `json:"branchId"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   string          `json:"accountType"`
	NormalBalance string          `json:"normalBalance"`
	Balance       decimal.Decimal `json:"balance"`
	IsHeader      bool            `json:"isHeader"`
	IsActive      bool            `json:"isActive"`
	Description   string          `json:"description,omitempty"`
}

// ToAccountResponse converts a domain account.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		BranchID:      a.BranchID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		NormalBalance: string(a.NormalBalance),
		Balance:       a.Balance,
		IsHeader:      a.IsHeader,
		IsActive:      a.IsActive,
		Description:   a.Description,
	}
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts a slice of domain accounts.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts))}
	for i, a := range accounts {
		resp.Accounts[i] = ToAccountResponse(a)
	}
	return resp
}

// BalanceSummaryResponse totals running balances by account type.
type BalanceSummaryResponse struct {
	TotalAssets      decimal.Decimal   `json:"totalAssets"`
	TotalLiabilities decimal.Decimal   `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal   `json:"totalEquity"`
	TotalRevenue     decimal.Decimal   `json:"totalRevenue"`
	TotalExpenses    decimal.Decimal   `json:"totalExpenses"`
	NetIncome        decimal.Decimal   `json:"netIncome"`
	IsBalanced       bool              `json:"isBalanced"`
	Accounts         []AccountResponse `json:"accounts"`
}

// ToBalanceSummaryResponse converts a domain balance summary.
func ToBalanceSummaryResponse(s domain.AccountBalanceSummary) BalanceSummaryResponse {
	return BalanceSummaryResponse{
		TotalAssets:      s.TotalAssets,
		TotalLiabilities: s.TotalLiabilities,
		TotalEquity:      s.TotalEquity,
		TotalRevenue:     s.TotalRevenue,
		TotalExpenses:    s.TotalExpenses,
		NetIncome:        s.NetIncome,
		IsBalanced:       s.IsBalanced,
		Accounts:         ToListAccountsResponse(s.Accounts).Accounts,
	}
}
