package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryStatus is the persisted status of a journal entry.
type EntryStatus string

const (
	StatusDraft  EntryStatus = "draft"
	StatusPosted EntryStatus = "posted"
)

// EntryState is the lifecycle state derived from status and the voided flag.
type EntryState string

const (
	StateDraft  EntryState = "draft"
	StatePosted EntryState = "posted"
	StateVoided EntryState = "voided"
)

// IsValid reports whether s is a known state.
func (s EntryState) IsValid() bool {
	return s == StateDraft || s == StatePosted || s == StateVoided
}

// ReferenceType links an entry to the event that originated it.
type ReferenceType string

const (
	RefTransaction ReferenceType = "transaction"
	RefExpense     ReferenceType = "expense"
	RefPayroll     ReferenceType = "payroll"
	RefAdvance     ReferenceType = "advance"
	RefTransfer    ReferenceType = "transfer"
	RefReceivable  ReferenceType = "receivable"
	RefPayable     ReferenceType = "payable"
	RefManual      ReferenceType = "manual"
	RefAdjustment  ReferenceType = "adjustment"
	RefClosing     ReferenceType = "closing"
	RefOpening     ReferenceType = "opening"
)

// ReferenceTypes lists every known reference type.
var ReferenceTypes = []ReferenceType{
	RefTransaction, RefExpense, RefPayroll, RefAdvance, RefTransfer, RefReceivable,
	RefPayable, RefManual, RefAdjustment, RefClosing, RefOpening,
}

// IsValid reports whether r is a known reference type.
func (r ReferenceType) IsValid() bool {
	for _, t := range ReferenceTypes {
		if t == r {
			return true
		}
	}
	return false
}

// JournalEntry is the header of a double-entry journal entry.
// IsVoided is only ever true when Status is StatusPosted.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	BranchID      string          `json:"branchID"`
	EntryNumber   string          `json:"entryNumber"`
	EntryDate     time.Time       `json:"entryDate"`
	Description   string          `json:"description"`
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   *string         `json:"referenceID,omitempty"`
	Status        EntryStatus     `json:"status"`
	IsVoided      bool            `json:"isVoided"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`

	CreatedBy      string     `json:"createdBy"`
	CreatedByName  string     `json:"createdByName"`
	CreatedAt      time.Time  `json:"createdAt"`
	ApprovedBy     *string    `json:"approvedBy,omitempty"`
	ApprovedByName *string    `json:"approvedByName,omitempty"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	VoidedBy       *string    `json:"voidedBy,omitempty"`
	VoidedByName   *string    `json:"voidedByName,omitempty"`
	VoidedAt       *time.Time `json:"voidedAt,omitempty"`
	VoidReason     *string    `json:"voidReason,omitempty"`
	LastUpdatedAt  time.Time  `json:"lastUpdatedAt"`

	Lines []JournalEntryLine `json:"lines,omitempty"`
}

// State derives the lifecycle state.
func (e JournalEntry) State() EntryState {
	switch {
	case e.Status == StatusDraft:
		return StateDraft
	case e.IsVoided:
		return StateVoided
	default:
		return StatePosted
	}
}

// CanPost returns ErrInvalidState unless the entry is a draft.
func (e JournalEntry) CanPost() error {
	if e.Status != StatusDraft {
		return fmt.Errorf("%w: entry %s is %s, only drafts can be posted", apperrors.ErrInvalidState, e.EntryNumber, e.State())
	}
	return nil
}

// CanVoid returns ErrInvalidState unless the entry is posted and not yet voided.
func (e JournalEntry) CanVoid() error {
	if e.Status != StatusPosted || e.IsVoided {
		return fmt.Errorf("%w: entry %s is %s, only posted entries can be voided", apperrors.ErrInvalidState, e.EntryNumber, e.State())
	}
	return nil
}

// CanEdit returns ErrInvalidState unless the entry is a draft. Deleting follows the same rule.
func (e JournalEntry) CanEdit() error {
	if e.Status != StatusDraft {
		return fmt.Errorf("%w: entry %s is %s, only drafts can be changed", apperrors.ErrInvalidState, e.EntryNumber, e.State())
	}
	return nil
}

// JournalEntryLine is one debit or credit of an entry. AccountCode and AccountName are
// snapshots taken when the line was written.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// LineInput is a caller-supplied line before account resolution.
type LineInput struct {
	AccountID    string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
	Description  string
}

// IsZero reports whether the line carries no amount.
func (l LineInput) IsZero() bool {
	return l.DebitAmount.IsZero() && l.CreditAmount.IsZero()
}

// CreateEntryInput is the request to create a journal entry.
type CreateEntryInput struct {
	BranchID      string
	EntryDate     time.Time
	Description   string
	ReferenceType ReferenceType
	ReferenceID   string
	Lines         []LineInput
	AutoPost      bool
}

// UpdateEntryInput replaces the editable parts of a draft.
type UpdateEntryInput struct {
	EntryDate     time.Time
	Description   string
	ReferenceType ReferenceType
	ReferenceID   string
	Lines         []LineInput
}

// EntryRef identifies a created entry. Replayed is set when an existing entry with the same
// reference was returned instead of writing a new one.
type EntryRef struct {
	EntryID     string      `json:"entryID"`
	EntryNumber string      `json:"entryNumber"`
	Status      EntryStatus `json:"status"`
	Replayed    bool        `json:"replayed"`
}

// NewEntry is a fully resolved entry handed to the store for atomic creation.
// EntryNumber is allocated by the store.
type NewEntry struct {
	EntryID       string
	BranchID      string
	EntryDate     time.Time
	Description   string
	ReferenceType ReferenceType
	ReferenceID   *string
	Lines         []JournalEntryLine
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	Actor         Actor
	CreatedAt     time.Time
	AutoPost      bool
}

// DraftUpdate is a fully resolved replacement for a draft's header and lines.
type DraftUpdate struct {
	EntryDate     time.Time
	Description   string
	ReferenceType ReferenceType
	ReferenceID   *string
	Lines         []JournalEntryLine
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	Actor         Actor
	UpdatedAt     time.Time
}

// EntryFilter narrows a branch's entry listing.
type EntryFilter struct {
	BranchID      string
	From          *time.Time
	To            *time.Time
	State         *EntryState
	ReferenceType *ReferenceType
	Limit         int
	NextToken     *string
}

// FormatEntryNumber renders the branch-scoped entry number for a year and sequence value.
func FormatEntryNumber(year int, seq int64) string {
	return fmt.Sprintf("JE-%d-%06d", year, seq)
}

// CompareEntryNumbers orders two entry numbers of the same year by sequence value. Longer
// numbers are larger, so JE-2025-1000000 sorts after JE-2025-999999.
func CompareEntryNumbers(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
