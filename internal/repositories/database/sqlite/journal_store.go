package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/SscSPs/branch_ledger/internal/models"
	"github.com/SscSPs/branch_ledger/internal/utils/accounting"
	"github.com/SscSPs/branch_ledger/internal/utils/mapping"
	"github.com/SscSPs/branch_ledger/internal/utils/pagination"
)

const entryColumns = `entry_id, branch_id, entry_number, entry_date, description, reference_type, reference_id,
	status, is_voided, total_debit, total_credit,
	created_at, created_by, created_by_name, approved_by, approved_by_name, approved_at,
	voided_by, voided_by_name, voided_at, void_reason, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, account_code, account_name, debit_amount, credit_amount, description`

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var m models.JournalEntry
	var entryDate, createdAt, updatedAt string
	var approvedAt, voidedAt sql.NullString
	err := row.Scan(
		&m.EntryID, &m.BranchID, &m.EntryNumber, &entryDate, &m.Description, &m.ReferenceType, &m.ReferenceID,
		&m.Status, &m.IsVoided, &m.TotalDebit, &m.TotalCredit,
		&createdAt, &m.CreatedBy, &m.CreatedByName, &m.ApprovedBy, &m.ApprovedByName, &approvedAt,
		&m.VoidedBy, &m.VoidedByName, &voidedAt, &m.VoidReason, &updatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if m.EntryDate, err = time.Parse(dateLayout, entryDate); err != nil {
		return domain.JournalEntry{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.JournalEntry{}, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.JournalEntry{}, err
	}
	if m.ApprovedAt, err = parseNullTime(approvedAt); err != nil {
		return domain.JournalEntry{}, err
	}
	if m.VoidedAt, err = parseNullTime(voidedAt); err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournalEntry(m), nil
}

func (s *Store) CreateEntryAtomic(ctx context.Context, entry domain.NewEntry) (*domain.EntryRef, error) {
	var ref *domain.EntryRef
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if entry.ReferenceID != nil {
			replay, err := findReplay(ctx, tx, entry)
			if err != nil || replay != nil {
				ref = replay
				return err
			}
		}

		ids := accounting.LineAccountIDs(entry.Lines)
		accounts, err := accountsByIDs(ctx, tx, entry.BranchID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if acc, ok := accounts[id]; !ok || !acc.IsPostable() {
				return fmt.Errorf("%w: account %s is missing, inactive or a header", apperrors.ErrMissingAccount, id)
			}
		}

		year := entry.EntryDate.Year()
		var seq int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO journal_entry_sequences (branch_id, year, last_value) VALUES (?, ?, 1)
			ON CONFLICT (branch_id, year) DO UPDATE SET last_value = last_value + 1
			RETURNING last_value`, entry.BranchID, year).Scan(&seq)
		if err != nil {
			return wrapError(err, "allocate entry number for branch %s", entry.BranchID)
		}
		number := domain.FormatEntryNumber(year, seq)

		status := domain.StatusDraft
		var approvedBy, approvedByName *string
		var approvedAt *time.Time
		if entry.AutoPost {
			status = domain.StatusPosted
			approvedBy, approvedByName, approvedAt = &entry.Actor.ID, &entry.Actor.Name, &entry.CreatedAt
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO journal_entries (
				entry_id, branch_id, entry_number, entry_date, description, reference_type, reference_id,
				status, is_voided, total_debit, total_credit,
				created_at, created_by, created_by_name, approved_by, approved_by_name, approved_at,
				last_updated_at, last_updated_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.EntryID, entry.BranchID, number, formatDate(entry.EntryDate), entry.Description,
			string(entry.ReferenceType), mapping.NullString(entry.ReferenceID),
			string(status), entry.TotalDebit.String(), entry.TotalCredit.String(),
			formatTime(entry.CreatedAt), entry.Actor.ID, entry.Actor.Name,
			mapping.NullString(approvedBy), mapping.NullString(approvedByName), nullTime(approvedAt),
			formatTime(entry.CreatedAt), entry.Actor.ID,
		)
		if err != nil {
			return wrapError(err, "insert journal entry %s", entry.EntryID)
		}
		if err := insertLines(ctx, tx, entry.EntryID, entry.Lines); err != nil {
			return err
		}

		if entry.AutoPost {
			changes, err := accounting.BalanceChanges(entry.Lines, accounts, accounting.Apply)
			if err != nil {
				return err
			}
			if err := applyBalanceChanges(ctx, tx, accounts, changes, entry.Actor.ID, entry.CreatedAt); err != nil {
				return err
			}
		}
		ref = &domain.EntryRef{EntryID: entry.EntryID, EntryNumber: number, Status: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func findReplay(ctx context.Context, q queryer, entry domain.NewEntry) (*domain.EntryRef, error) {
	var ref domain.EntryRef
	err := q.QueryRowContext(ctx, `
		SELECT entry_id, entry_number, status FROM journal_entries
		WHERE branch_id = ? AND reference_type = ? AND reference_id = ? AND is_voided = 0`,
		entry.BranchID, string(entry.ReferenceType), *entry.ReferenceID,
	).Scan(&ref.EntryID, &ref.EntryNumber, &ref.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err, "look up reference %s", *entry.ReferenceID)
	}
	ref.Replayed = true
	return &ref, nil
}

func insertLines(ctx context.Context, tx *sql.Tx, entryID string, lines []domain.JournalEntryLine) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO journal_entry_lines (`+lineColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return wrapError(err, "prepare line insert")
	}
	defer stmt.Close()
	for _, l := range lines {
		m := mapping.ToModelJournalEntryLine(l)
		_, err := stmt.ExecContext(ctx, m.LineID, entryID, m.LineNumber, m.AccountID, m.AccountCode, m.AccountName,
			m.DebitAmount.String(), m.CreditAmount.String(), m.Description)
		if err != nil {
			return wrapError(err, "insert line %d of journal entry %s", m.LineNumber, entryID)
		}
	}
	return nil
}

func loadEntry(ctx context.Context, q queryer, branchID, entryID string) (*domain.JournalEntry, error) {
	entry, err := scanEntry(q.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE branch_id = ? AND entry_id = ?`, branchID, entryID))
	if err != nil {
		return nil, wrapError(err, "journal entry %s", entryID)
	}
	lines, err := linesByEntryIDs(ctx, q, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

func (s *Store) PostEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		entry, err := loadEntry(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanPost(); err != nil {
			return err
		}
		ids := accounting.LineAccountIDs(entry.Lines)
		accounts, err := accountsByIDs(ctx, tx, branchID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			acc, ok := accounts[id]
			if !ok {
				return fmt.Errorf("%w: account %s of entry %s no longer exists", apperrors.ErrIntegrityViolation, id, entry.EntryNumber)
			}
			if !acc.IsPostable() {
				return fmt.Errorf("%w: account %s is no longer postable", apperrors.ErrMissingAccount, id)
			}
		}
		changes, err := accounting.BalanceChanges(entry.Lines, accounts, accounting.Apply)
		if err != nil {
			return err
		}
		if err := applyBalanceChanges(ctx, tx, accounts, changes, actor.ID, at); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE journal_entries
			SET status = 'posted', approved_by = ?, approved_by_name = ?, approved_at = ?, last_updated_at = ?, last_updated_by = ?
			WHERE branch_id = ? AND entry_id = ?`,
			actor.ID, actor.Name, formatTime(at), formatTime(at), actor.ID, branchID, entryID)
		if err != nil {
			return wrapError(err, "post journal entry %s", entryID)
		}
		return nil
	})
}

func (s *Store) VoidEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time, reason string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		entry, err := loadEntry(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanVoid(); err != nil {
			return err
		}
		ids := accounting.LineAccountIDs(entry.Lines)
		accounts, err := accountsByIDs(ctx, tx, branchID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if acc, ok := accounts[id]; !ok || !acc.IsActive {
				return fmt.Errorf("%w: account %s of entry %s is missing or deactivated", apperrors.ErrIntegrityViolation, id, entry.EntryNumber)
			}
		}
		changes, err := accounting.BalanceChanges(entry.Lines, accounts, accounting.Reverse)
		if err != nil {
			return err
		}
		if err := applyBalanceChanges(ctx, tx, accounts, changes, actor.ID, at); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE journal_entries
			SET is_voided = 1, voided_by = ?, voided_by_name = ?, voided_at = ?, void_reason = ?, last_updated_at = ?, last_updated_by = ?
			WHERE branch_id = ? AND entry_id = ?`,
			actor.ID, actor.Name, formatTime(at), reason, formatTime(at), actor.ID, branchID, entryID)
		if err != nil {
			return wrapError(err, "void journal entry %s", entryID)
		}
		return nil
	})
}

func (s *Store) UpdateDraftEntry(ctx context.Context, branchID, entryID string, update domain.DraftUpdate) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		entry, err := loadEntry(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanEdit(); err != nil {
			return err
		}
		ids := accounting.LineAccountIDs(update.Lines)
		accounts, err := accountsByIDs(ctx, tx, branchID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if acc, ok := accounts[id]; !ok || !acc.IsPostable() {
				return fmt.Errorf("%w: account %s is missing, inactive or a header", apperrors.ErrMissingAccount, id)
			}
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE journal_entries
			SET entry_date = ?, description = ?, reference_type = ?, reference_id = ?,
			    total_debit = ?, total_credit = ?, last_updated_at = ?, last_updated_by = ?
			WHERE branch_id = ? AND entry_id = ?`,
			formatDate(update.EntryDate), update.Description, string(update.ReferenceType), mapping.NullString(update.ReferenceID),
			update.TotalDebit.String(), update.TotalCredit.String(), formatTime(update.UpdatedAt), update.Actor.ID,
			branchID, entryID)
		if err != nil {
			return wrapError(err, "update journal entry %s", entryID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = ?`, entryID); err != nil {
			return wrapError(err, "replace lines of journal entry %s", entryID)
		}
		return insertLines(ctx, tx, entryID, update.Lines)
	})
}

func (s *Store) DeleteDraftEntry(ctx context.Context, branchID, entryID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		entry, err := loadEntry(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanEdit(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = ?`, entryID); err != nil {
			return wrapError(err, "delete lines of journal entry %s", entryID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE entry_id = ?`, entryID); err != nil {
			return wrapError(err, "delete journal entry %s", entryID)
		}
		return nil
	})
}

func (s *Store) FindEntryByID(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error) {
	return loadEntry(ctx, s.db, branchID, entryID)
}

func (s *Store) FindEntryByReference(ctx context.Context, branchID string, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error) {
	var entryID string
	err := s.db.QueryRowContext(ctx, `
		SELECT entry_id FROM journal_entries
		WHERE branch_id = ? AND reference_type = ? AND reference_id = ? AND is_voided = 0`,
		branchID, string(refType), refID).Scan(&entryID)
	if err != nil {
		return nil, wrapError(err, "journal entry for reference %s", refID)
	}
	return loadEntry(ctx, s.db, branchID, entryID)
}

func (s *Store) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := pagination.ClampLimit(filter.Limit)

	conditions := []string{"branch_id = ?"}
	args := []any{filter.BranchID}
	if filter.From != nil {
		conditions = append(conditions, "entry_date >= ?")
		args = append(args, formatDate(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "entry_date <= ?")
		args = append(args, formatDate(*filter.To))
	}
	if filter.State != nil {
		switch *filter.State {
		case domain.StateDraft:
			conditions = append(conditions, "status = 'draft'")
		case domain.StatePosted:
			conditions = append(conditions, "status = 'posted' AND is_voided = 0")
		case domain.StateVoided:
			conditions = append(conditions, "is_voided = 1")
		}
	}
	if filter.ReferenceType != nil {
		conditions = append(conditions, "reference_type = ?")
		args = append(args, string(*filter.ReferenceType))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastNumber, err := pagination.DecodeEntryCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		conditions = append(conditions, "(entry_date < ? OR (entry_date = ? AND (length(entry_number) < ? OR (length(entry_number) = ? AND entry_number < ?))))")
		args = append(args, formatDate(lastDate), formatDate(lastDate), len(lastNumber), len(lastNumber), lastNumber)
	}
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE `+
		strings.Join(conditions, " AND ")+` ORDER BY entry_date DESC, length(entry_number) DESC, entry_number DESC LIMIT ?`, args...)
	if err != nil {
		return nil, nil, wrapError(err, "list journal entries of branch %s", filter.BranchID)
	}
	var entries []domain.JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, wrapError(err, "scan journal entry row")
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, wrapError(err, "iterate journal entry rows")
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeEntryCursor(last.EntryDate, last.EntryNumber)
		next = &token
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	lines, err := linesByEntryIDs(ctx, s.db, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, next, nil
}

func linesByEntryIDs(ctx context.Context, q queryer, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	out := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(entryIDs))
	for i, id := range entryIDs {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(entryIDs)), ", ")
	rows, err := q.QueryContext(ctx, `SELECT `+lineColumns+` FROM journal_entry_lines WHERE entry_id IN (`+
		placeholders+`) ORDER BY entry_id, line_number`, args...)
	if err != nil {
		return nil, wrapError(err, "query journal entry lines")
	}
	defer rows.Close()

	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.LineNumber, &m.AccountID, &m.AccountCode, &m.AccountName,
			&m.DebitAmount, &m.CreditAmount, &m.Description); err != nil {
			return nil, wrapError(err, "scan journal entry line")
		}
		out[m.EntryID] = append(out[m.EntryID], mapping.ToDomainJournalEntryLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate journal entry lines")
	}
	return out, nil
}
