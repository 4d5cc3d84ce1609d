package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus is the persisted status column of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "draft"
	Posted JournalStatus = "posted"
)

// JournalEntry is a row of the journal_entries table. Nullable columns scan into sql.Null types.
type JournalEntry struct {
	EntryID        string          `db:"entry_id"`
	BranchID       string          `db:"branch_id"`
	EntryNumber    string          `db:"entry_number"`
	EntryDate      time.Time       `db:"entry_date"`
	Description    string          `db:"description"`
	ReferenceType  string          `db:"reference_type"`
	ReferenceID    sql.NullString  `db:"reference_id"`
	Status         JournalStatus   `db:"status"`
	IsVoided       bool            `db:"is_voided"`
	TotalDebit     decimal.Decimal `db:"total_debit"`
	TotalCredit    decimal.Decimal `db:"total_credit"`
	CreatedByName  string          `db:"created_by_name"`
	ApprovedBy     sql.NullString  `db:"approved_by"`
	ApprovedByName sql.NullString  `db:"approved_by_name"`
	ApprovedAt     sql.NullTime    `db:"approved_at"`
	VoidedBy       sql.NullString  `db:"voided_by"`
	VoidedByName   sql.NullString  `db:"voided_by_name"`
	VoidedAt       sql.NullTime    `db:"voided_at"`
	VoidReason     sql.NullString  `db:"void_reason"`
	AuditFields
}

// JournalEntryLine is a row of the journal_entry_lines table.
type JournalEntryLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	LineNumber   int             `db:"line_number"`
	AccountID    string          `db:"account_id"`
	AccountCode  string          `db:"account_code"`
	AccountName  string          `db:"account_name"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Description  string          `db:"description"`
}
