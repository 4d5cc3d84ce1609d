package dto

import (
	"time"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SystemJournalRequest asks for an auto-posted entry generated from a template.
type SystemJournalRequest struct {
	Kind        string            `json:"kind" binding:"required"`
	ReferenceID string            `json:"referenceId" binding:"max=255"`
	Date        time.Time         `json:"date" binding:"required"`
	Amount      decimal.Decimal   `json:"amount" binding:"decimal_gte0"`
	CostAmount  decimal.Decimal   `json:"costAmount" binding:"decimal_gte0"`
	Memo        string            `json:"memo" binding:"max=1000"`
	Accounts    map[string]string `json:"accounts" binding:"required"`
}

// ToDomain converts the request for the system journal service.
func (r SystemJournalRequest) ToDomain() domain.SystemJournalRequest {
	accounts := make(map[domain.AccountRole]string, len(r.Accounts))
	for role, id := range r.Accounts {
		accounts[domain.AccountRole(role)] = id
	}
	return domain.SystemJournalRequest{
		Kind:        domain.SystemJournalKind(r.Kind),
		ReferenceID: r.ReferenceID,
		Date:        r.Date,
		Amount:      r.Amount,
		CostAmount:  r.CostAmount,
		Memo:        r.Memo,
		Accounts:    accounts,
	}
}
