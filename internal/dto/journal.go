package dto

import (
	"time"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a create or update request.
type JournalLineRequest struct {
	AccountID    string          `json:"accountId"`
	DebitAmount  decimal.Decimal `json:"debitAmount" binding:"decimal_gte0"`
	CreditAmount decimal.Decimal `json:"creditAmount" binding:"decimal_gte0"`
	Description  string          `json:"description" binding:"max=500"`
}

// CreateJournalEntryRequest defines the data needed to create a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate     time.Time            `json:"entryDate" binding:"required"`
	Description   string               `json:"description" binding:"required,max=1000"`
	ReferenceType string               `json:"referenceType" binding:"omitempty,ref_type"`
	ReferenceID   string               `json:"referenceId" binding:"max=255"`
	Lines         []JournalLineRequest `json:"lines" binding:"dive"`
	AutoPost      bool                 `json:"autoPost"`
}

// UpdateJournalEntryRequest replaces the header and lines of a draft.
type UpdateJournalEntryRequest struct {
	EntryDate     time.Time            `json:"entryDate" binding:"required"`
	Description   string               `json:"description" binding:"required,max=1000"`
	ReferenceType string               `json:"referenceType" binding:"omitempty,ref_type"`
	ReferenceID   string               `json:"referenceId" binding:"max=255"`
	Lines         []JournalLineRequest `json:"lines" binding:"dive"`
}

// VoidJournalEntryRequest carries the mandatory void reason.
type VoidJournalEntryRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ListJournalEntriesParams defines the query parameters for listing entries.
type ListJournalEntriesParams struct {
	From          time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To            time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Status        string    `form:"status" binding:"omitempty,oneof=draft posted voided"`
	ReferenceType string    `form:"referenceType" binding:"omitempty,ref_type"`
	Limit         int       `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken     string    `form:"nextToken"`
}

func toLineInputs(lines []JournalLineRequest) []domain.LineInput {
	out := make([]domain.LineInput, len(lines))
	for i, l := range lines {
		out[i] = domain.LineInput{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return out
}

func refTypeOrManual(refType string) domain.ReferenceType {
	if refType == "" {
		return domain.RefManual
	}
	return domain.ReferenceType(refType)
}

// ToDomain converts the request for the posting engine.
func (r CreateJournalEntryRequest) ToDomain(branchID string) domain.CreateEntryInput {
	return domain.CreateEntryInput{
		BranchID:      branchID,
		EntryDate:     r.EntryDate,
		Description:   r.Description,
		ReferenceType: refTypeOrManual(r.ReferenceType),
		ReferenceID:   r.ReferenceID,
		Lines:         toLineInputs(r.Lines),
		AutoPost:      r.AutoPost,
	}
}

// ToDomain converts the request for the posting engine.
func (r UpdateJournalEntryRequest) ToDomain() domain.UpdateEntryInput {
	return domain.UpdateEntryInput{
		EntryDate:     r.EntryDate,
		Description:   r.Description,
		ReferenceType: refTypeOrManual(r.ReferenceType),
		ReferenceID:   r.ReferenceID,
		Lines:         toLineInputs(r.Lines),
	}
}

// ToFilter converts the query parameters into a store filter.
func (p ListJournalEntriesParams) ToFilter(branchID string) domain.EntryFilter {
	f := domain.EntryFilter{BranchID: branchID, Limit: p.Limit}
	if !p.From.IsZero() {
		from := p.From
		f.From = &from
	}
	if !p.To.IsZero() {
		to := p.To
		f.To = &to
	}
	if p.Status != "" {
		state := domain.EntryState(p.Status)
		f.State = &state
	}
	if p.ReferenceType != "" {
		rt := domain.ReferenceType(p.ReferenceType)
		f.ReferenceType = &rt
	}
	if p.NextToken != "" {
		token := p.NextToken
		f.NextToken = &token
	}
	return f
}

// JournalLineResponse is a line as returned by the API.
type JournalLineResponse struct {
	LineID       string          `json:"lineId"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountId"`
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
}

// JournalEntryResponse is an entry with its lines as returned by the API.
type JournalEntryResponse struct {
	EntryID        string                `json:"entryId"`
	BranchID       string                `json:"branchId"`
	EntryNumber    string                `json:"entryNumber"`
	EntryDate      time.Time             `json:"entryDate"`
	Description    string                `json:"description"`
	ReferenceType  string                `json:"referenceType"`
	ReferenceID    *string               `json:"referenceId,omitempty"`
	Status         string                `json:"status"`
	State          string                `json:"state"`
	IsVoided       bool                  `json:"isVoided"`
	TotalDebit     decimal.Decimal       `json:"totalDebit"`
	TotalCredit    decimal.Decimal       `json:"totalCredit"`
	CreatedBy      string                `json:"createdBy"`
	CreatedByName  string                `json:"createdByName"`
	CreatedAt      time.Time             `json:"createdAt"`
	ApprovedBy     *string               `json:"approvedBy,omitempty"`
	ApprovedByName *string               `json:"approvedByName,omitempty"`
	ApprovedAt     *time.Time            `json:"approvedAt,omitempty"`
	VoidedBy       *string               `json:"voidedBy,omitempty"`
	VoidedByName   *string               `json:"voidedByName,omitempty"`
	VoidedAt       *time.Time            `json:"voidedAt,omitempty"`
	VoidReason     *string               `json:"voidReason,omitempty"`
	Lines          []JournalLineResponse `json:"lines"`
}

// ToJournalEntryResponse converts a domain entry into its API representation.
func ToJournalEntryResponse(e domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			AccountCode:  l.AccountCode,
			AccountName:  l.AccountName,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:        e.EntryID,
		BranchID:       e.BranchID,
		EntryNumber:    e.EntryNumber,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		ReferenceType:  string(e.ReferenceType),
		ReferenceID:    e.ReferenceID,
		Status:         string(e.Status),
		State:          string(e.State()),
		IsVoided:       e.IsVoided,
		TotalDebit:     e.TotalDebit,
		TotalCredit:    e.TotalCredit,
		CreatedBy:      e.CreatedBy,
		CreatedByName:  e.CreatedByName,
		CreatedAt:      e.CreatedAt,
		ApprovedBy:     e.ApprovedBy,
		ApprovedByName: e.ApprovedByName,
		ApprovedAt:     e.ApprovedAt,
		VoidedBy:       e.VoidedBy,
		VoidedByName:   e.VoidedByName,
		VoidedAt:       e.VoidedAt,
		VoidReason:     e.VoidReason,
		Lines:          lines,
	}
}

// CreateJournalEntryResponse identifies the created (or replayed) entry.
type CreateJournalEntryResponse struct {
	EntryID     string `json:"entryId"`
	EntryNumber string `json:"entryNumber"`
	Status      string `json:"status"`
	Replayed    bool   `json:"replayed"`
}

// ToCreateJournalEntryResponse converts an entry ref.
func ToCreateJournalEntryResponse(ref domain.EntryRef) CreateJournalEntryResponse {
	return CreateJournalEntryResponse{
		EntryID:     ref.EntryID,
		EntryNumber: ref.EntryNumber,
		Status:      string(ref.Status),
		Replayed:    ref.Replayed,
	}
}

// ListJournalEntriesResponse is a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListJournalEntriesResponse converts a page of domain entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	resp := ListJournalEntriesResponse{Entries: make([]JournalEntryResponse, len(entries)), NextToken: nextToken}
	for i, e := range entries {
		resp.Entries[i] = ToJournalEntryResponse(e)
	}
	return resp
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Line  *int   `json:"line,omitempty"`
}
