package dto

import (
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TotalsResponse aggregates a group of entries.
type TotalsResponse struct {
	Count       int             `json:"count"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// LedgerSummaryResponse groups entry totals by state and reference type.
type LedgerSummaryResponse struct {
	Overall         TotalsResponse            `json:"overall"`
	ByState         map[string]TotalsResponse `json:"byState"`
	ByReferenceType map[string]TotalsResponse `json:"byReferenceType"`
}

func toTotalsResponse(t domain.EntryTotals) TotalsResponse {
	return TotalsResponse{Count: t.Count, TotalDebit: t.TotalDebit, TotalCredit: t.TotalCredit}
}

// ToLedgerSummaryResponse converts a domain ledger summary.
func ToLedgerSummaryResponse(s domain.LedgerSummary) LedgerSummaryResponse {
	resp := LedgerSummaryResponse{
		Overall:         toTotalsResponse(s.Overall),
		ByState:         make(map[string]TotalsResponse, len(s.ByState)),
		ByReferenceType: make(map[string]TotalsResponse, len(s.ByReferenceType)),
	}
	for state, t := range s.ByState {
		resp.ByState[string(state)] = toTotalsResponse(t)
	}
	for rt, t := range s.ByReferenceType {
		resp.ByReferenceType[string(rt)] = toTotalsResponse(t)
	}
	return resp
}
