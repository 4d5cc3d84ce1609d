package domain

import "github.com/shopspring/decimal"

// EntryTotals aggregates a group of entries.
type EntryTotals struct {
	Count       int             `json:"count"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// Add folds one entry into the totals.
func (t EntryTotals) Add(e JournalEntry) EntryTotals {
	return EntryTotals{
		Count:       t.Count + 1,
		TotalDebit:  t.TotalDebit.Add(e.TotalDebit),
		TotalCredit: t.TotalCredit.Add(e.TotalCredit),
	}
}

// LedgerSummary groups entry totals by lifecycle state and by reference type.
type LedgerSummary struct {
	Overall         EntryTotals                   `json:"overall"`
	ByState         map[EntryState]EntryTotals    `json:"byState"`
	ByReferenceType map[ReferenceType]EntryTotals `json:"byReferenceType"`
}

// AccountBalanceSummary totals running balances per account type for a branch.
type AccountBalanceSummary struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetIncome        decimal.Decimal `json:"netIncome"`
	IsBalanced       bool            `json:"isBalanced"`
	Accounts         []Account       `json:"accounts"`
}
