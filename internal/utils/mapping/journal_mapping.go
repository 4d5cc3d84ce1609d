package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/SscSPs/branch_ledger/internal/models"
)

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:        m.EntryID,
		BranchID:       m.BranchID,
		EntryNumber:    m.EntryNumber,
		EntryDate:      m.EntryDate.UTC(),
		Description:    m.Description,
		ReferenceType:  domain.ReferenceType(m.ReferenceType),
		ReferenceID:    nullStringPtr(m.ReferenceID),
		Status:         domain.EntryStatus(m.Status),
		IsVoided:       m.IsVoided,
		TotalDebit:     m.TotalDebit,
		TotalCredit:    m.TotalCredit,
		CreatedBy:      m.CreatedBy,
		CreatedByName:  m.CreatedByName,
		CreatedAt:      m.CreatedAt,
		ApprovedBy:     nullStringPtr(m.ApprovedBy),
		ApprovedByName: nullStringPtr(m.ApprovedByName),
		ApprovedAt:     nullTimePtr(m.ApprovedAt),
		VoidedBy:       nullStringPtr(m.VoidedBy),
		VoidedByName:   nullStringPtr(m.VoidedByName),
		VoidedAt:       nullTimePtr(m.VoidedAt),
		VoidReason:     nullStringPtr(m.VoidReason),
		LastUpdatedAt:  m.LastUpdatedAt,
	}
}

// ToModelJournalEntryLine converts a domain line to its row form.
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		LineNumber:   d.LineNumber,
		AccountID:    d.AccountID,
		AccountCode:  d.AccountCode,
		AccountName:  d.AccountName,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		Description:  d.Description,
	}
}

// ToDomainJournalEntryLine converts a line row to the domain line.
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNumber:   m.LineNumber,
		AccountID:    m.AccountID,
		AccountCode:  m.AccountCode,
		AccountName:  m.AccountName,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		Description:  m.Description,
	}
}

// ToDomainJournalEntryLineSlice converts line rows in order.
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}

// NullString maps an optional string to its nullable column value.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func nullTimePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}
