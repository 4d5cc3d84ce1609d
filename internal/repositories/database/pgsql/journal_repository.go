package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/branch_ledger/internal/models"
	"github.com/SscSPs/branch_ledger/internal/utils/accounting"
	"github.com/SscSPs/branch_ledger/internal/utils/mapping"
	"github.com/SscSPs/branch_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, branch_id, entry_number, entry_date, description, reference_type, reference_id,
	status, is_voided, total_debit, total_credit,
	created_at, created_by, created_by_name, approved_by, approved_by_name, approved_at,
	voided_by, voided_by_name, voided_at, void_reason, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, account_code, account_name, debit_amount, credit_amount, description`

type PgxJournalRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
}

// newPgxJournalRepository creates a new repository for journal entries. It shares the account
// repository to lock and update balances inside its transactions.
func newPgxJournalRepository(pool *pgxpool.Pool, accounts *PgxAccountRepository) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accounts:       accounts,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalStore
var _ portsrepo.JournalStore = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.BranchID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.Status,
		&m.IsVoided,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.CreatedByName,
		&m.ApprovedBy,
		&m.ApprovedByName,
		&m.ApprovedAt,
		&m.VoidedBy,
		&m.VoidedByName,
		&m.VoidedAt,
		&m.VoidReason,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateEntryAtomic allocates the next number of the branch and year, inserts the entry with its
// lines and, for auto-post, applies the balances, all in one transaction.
func (r *PgxJournalRepository) CreateEntryAtomic(ctx context.Context, entry domain.NewEntry) (*domain.EntryRef, error) {
	if entry.ReferenceID != nil {
		if ref, err := r.findReplay(ctx, r.Pool, entry); err != nil || ref != nil {
			return ref, err
		}
	}

	var ref *domain.EntryRef
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		accounts, err := r.accounts.lockAccountsInTx(ctx, tx, entry.BranchID, accounting.LineAccountIDs(entry.Lines))
		if err != nil {
			return err
		}
		for _, id := range accounting.LineAccountIDs(entry.Lines) {
			if acc, ok := accounts[id]; !ok || !acc.IsPostable() {
				return fmt.Errorf("%w: account %s is missing, inactive or a header", apperrors.ErrMissingAccount, id)
			}
		}

		number, err := r.nextEntryNumber(ctx, tx, entry.BranchID, entry.EntryDate.Year())
		if err != nil {
			return err
		}

		status := models.Draft
		var approvedBy, approvedByName *string
		var approvedAt *time.Time
		if entry.AutoPost {
			status = models.Posted
			approvedBy, approvedByName, approvedAt = &entry.Actor.ID, &entry.Actor.Name, &entry.CreatedAt
		}

		insert := `
			INSERT INTO journal_entries (
				entry_id, branch_id, entry_number, entry_date, description, reference_type, reference_id,
				status, is_voided, total_debit, total_credit,
				created_at, created_by, created_by_name, approved_by, approved_by_name, approved_at,
				last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9, $10, $11, $12, $13, $14, $15, $16, $11, $12);
		`
		_, err = tx.Exec(ctx, insert,
			entry.EntryID,
			entry.BranchID,
			number,
			entry.EntryDate,
			entry.Description,
			string(entry.ReferenceType),
			mapping.NullString(entry.ReferenceID),
			status,
			entry.TotalDebit,
			entry.TotalCredit,
			entry.CreatedAt,
			entry.Actor.ID,
			entry.Actor.Name,
			mapping.NullString(approvedBy),
			mapping.NullString(approvedByName),
			approvedAt,
		)
		if err != nil {
			return wrapQueryError(err, "insert journal entry %s", entry.EntryID)
		}
		if err := insertLines(ctx, tx, entry.EntryID, entry.Lines); err != nil {
			return err
		}

		if entry.AutoPost {
			changes, err := accounting.BalanceChanges(entry.Lines, accounts, accounting.Apply)
			if err != nil {
				return err
			}
			if err := r.accounts.applyBalanceChangesInTx(ctx, tx, changes, entry.Actor.ID, entry.CreatedAt); err != nil {
				return err
			}
		}

		ref = &domain.EntryRef{EntryID: entry.EntryID, EntryNumber: number, Status: domain.EntryStatus(status)}
		return nil
	})
	if err != nil {
		// A concurrent create with the same reference won the race on the partial unique index.
		if entry.ReferenceID != nil && errors.Is(err, apperrors.ErrDuplicate) {
			if replay, findErr := r.findReplay(ctx, r.Pool, entry); findErr == nil && replay != nil {
				return replay, nil
			}
		}
		return nil, err
	}
	return ref, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxJournalRepository) findReplay(ctx context.Context, q rowQuerier, entry domain.NewEntry) (*domain.EntryRef, error) {
	query := `
		SELECT entry_id, entry_number, status
		FROM journal_entries
		WHERE branch_id = $1 AND reference_type = $2 AND reference_id = $3 AND NOT is_voided;
	`
	var ref domain.EntryRef
	err := q.QueryRow(ctx, query, entry.BranchID, string(entry.ReferenceType), *entry.ReferenceID).
		Scan(&ref.EntryID, &ref.EntryNumber, &ref.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapQueryError(err, "look up reference %s", *entry.ReferenceID)
	}
	ref.Replayed = true
	return &ref, nil
}

// nextEntryNumber bumps the per-branch, per-year counter. The row lock serializes concurrent creates.
func (r *PgxJournalRepository) nextEntryNumber(ctx context.Context, tx pgx.Tx, branchID string, year int) (string, error) {
	query := `
		INSERT INTO journal_entry_sequences (branch_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (branch_id, year) DO UPDATE
		SET last_value = journal_entry_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, branchID, year).Scan(&seq); err != nil {
		return "", wrapQueryError(err, "allocate entry number for branch %s", branchID)
	}
	return domain.FormatEntryNumber(year, seq), nil
}

func insertLines(ctx context.Context, tx pgx.Tx, entryID string, lines []domain.JournalEntryLine) error {
	query := `INSERT INTO journal_entry_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	batch := &pgx.Batch{}
	for _, l := range lines {
		m := mapping.ToModelJournalEntryLine(l)
		batch.Queue(query, m.LineID, entryID, m.LineNumber, m.AccountID, m.AccountCode, m.AccountName, m.DebitAmount, m.CreditAmount, m.Description)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrapQueryError(err, "insert lines of journal entry %s", entryID)
	}
	return nil
}

// lockEntryInTx loads an entry of a branch with its lines and holds a row lock on the header.
func (r *PgxJournalRepository) lockEntryInTx(ctx context.Context, tx pgx.Tx, branchID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE branch_id = $1 AND entry_id = $2 FOR UPDATE;`
	m, err := scanEntry(tx.QueryRow(ctx, query, branchID, entryID))
	if err != nil {
		return nil, wrapQueryError(err, "journal entry %s", entryID)
	}
	entry := mapping.ToDomainJournalEntry(m)
	lines, err := r.linesByEntryIDs(ctx, tx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

// PostEntryAtomic flips a draft to posted and applies its lines to the account balances.
func (r *PgxJournalRepository) PostEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := r.lockEntryInTx(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanPost(); err != nil {
			return err
		}
		accounts, err := r.accounts.lockAccountsInTx(ctx, tx, branchID, accounting.LineAccountIDs(entry.Lines))
		if err != nil {
			return err
		}
		for _, id := range accounting.LineAccountIDs(entry.Lines) {
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
		if err := r.accounts.applyBalanceChangesInTx(ctx, tx, changes, actor.ID, at); err != nil {
			return err
		}

		update := `
			UPDATE journal_entries
			SET status = 'posted', approved_by = $3, approved_by_name = $4, approved_at = $5,
			    last_updated_at = $5, last_updated_by = $3
			WHERE branch_id = $1 AND entry_id = $2;
		`
		if _, err := tx.Exec(ctx, update, branchID, entryID, actor.ID, actor.Name, at); err != nil {
			return wrapQueryError(err, "post journal entry %s", entryID)
		}
		return nil
	})
}

// VoidEntryAtomic marks a posted entry voided and reverses its balance effect.
func (r *PgxJournalRepository) VoidEntryAtomic(ctx context.Context, branchID, entryID string, actor domain.Actor, at time.Time, reason string) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := r.lockEntryInTx(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanVoid(); err != nil {
			return err
		}
		accounts, err := r.accounts.lockAccountsInTx(ctx, tx, branchID, accounting.LineAccountIDs(entry.Lines))
		if err != nil {
			return err
		}
		for _, id := range accounting.LineAccountIDs(entry.Lines) {
			acc, ok := accounts[id]
			if !ok || !acc.IsActive {
				return fmt.Errorf("%w: account %s of entry %s is missing or deactivated", apperrors.ErrIntegrityViolation, id, entry.EntryNumber)
			}
		}
		changes, err := accounting.BalanceChanges(entry.Lines, accounts, accounting.Reverse)
		if err != nil {
			return err
		}
		if err := r.accounts.applyBalanceChangesInTx(ctx, tx, changes, actor.ID, at); err != nil {
			return err
		}

		update := `
			UPDATE journal_entries
			SET is_voided = true, voided_by = $3, voided_by_name = $4, voided_at = $5, void_reason = $6,
			    last_updated_at = $5, last_updated_by = $3
			WHERE branch_id = $1 AND entry_id = $2;
		`
		if _, err := tx.Exec(ctx, update, branchID, entryID, actor.ID, actor.Name, at, reason); err != nil {
			return wrapQueryError(err, "void journal entry %s", entryID)
		}
		return nil
	})
}

// UpdateDraftEntry replaces the header and lines of a draft.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, branchID, entryID string, update domain.DraftUpdate) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := r.lockEntryInTx(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanEdit(); err != nil {
			return err
		}
		ids := accounting.LineAccountIDs(update.Lines)
		accounts, err := r.accounts.queryAccountMap(ctx, tx,
			`SELECT `+accountColumns+` FROM accounts WHERE branch_id = $1 AND account_id = ANY($2);`, branchID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if acc, ok := accounts[id]; !ok || !acc.IsPostable() {
				return fmt.Errorf("%w: account %s is missing, inactive or a header", apperrors.ErrMissingAccount, id)
			}
		}

		query := `
			UPDATE journal_entries
			SET entry_date = $3, description = $4, reference_type = $5, reference_id = $6,
			    total_debit = $7, total_credit = $8, last_updated_at = $9, last_updated_by = $10
			WHERE branch_id = $1 AND entry_id = $2;
		`
		_, err = tx.Exec(ctx, query, branchID, entryID,
			update.EntryDate,
			update.Description,
			string(update.ReferenceType),
			mapping.NullString(update.ReferenceID),
			update.TotalDebit,
			update.TotalCredit,
			update.UpdatedAt,
			update.Actor.ID,
		)
		if err != nil {
			return wrapQueryError(err, "update journal entry %s", entryID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
			return wrapQueryError(err, "replace lines of journal entry %s", entryID)
		}
		return insertLines(ctx, tx, entryID, update.Lines)
	})
}

// DeleteDraftEntry removes a draft and its lines. Its number is not reused.
func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, branchID, entryID string) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := r.lockEntryInTx(ctx, tx, branchID, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanEdit(); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
			return wrapQueryError(err, "delete lines of journal entry %s", entryID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID); err != nil {
			return wrapQueryError(err, "delete journal entry %s", entryID)
		}
		return nil
	})
}

// FindEntryByID retrieves an entry of a branch with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, branchID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE branch_id = $1 AND entry_id = $2;`
	return r.findOne(ctx, query, branchID, entryID)
}

// FindEntryByReference retrieves the non-voided entry created for a reference.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, branchID string, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE branch_id = $1 AND reference_type = $2 AND reference_id = $3 AND NOT is_voided;
	`
	return r.findOne(ctx, query, branchID, string(refType), refID)
}

func (r *PgxJournalRepository) findOne(ctx context.Context, query string, args ...any) (*domain.JournalEntry, error) {
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapQueryError(err, "journal entry")
	}
	entry := mapping.ToDomainJournalEntry(m)
	lines, err := r.linesByEntryIDs(ctx, r.Pool, []string{entry.EntryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.EntryID]
	return &entry, nil
}

// ListEntries retrieves a page of entries, newest entry date first, with their lines.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := pagination.ClampLimit(filter.Limit)

	conditions := []string{"branch_id = $1"}
	args := []any{filter.BranchID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.From != nil {
		conditions = append(conditions, "entry_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "entry_date <= "+arg(*filter.To))
	}
	if filter.State != nil {
		switch *filter.State {
		case domain.StateDraft:
			conditions = append(conditions, "status = 'draft'")
		case domain.StatePosted:
			conditions = append(conditions, "status = 'posted' AND NOT is_voided")
		case domain.StateVoided:
			conditions = append(conditions, "is_voided")
		}
	}
	if filter.ReferenceType != nil {
		conditions = append(conditions, "reference_type = "+arg(string(*filter.ReferenceType)))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastNumber, err := pagination.DecodeEntryCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		conditions = append(conditions, "(entry_date, length(entry_number), entry_number) < ("+arg(lastDate)+", "+arg(len(lastNumber))+", "+arg(lastNumber)+")")
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY entry_date DESC, length(entry_number) DESC, entry_number DESC LIMIT ` + arg(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, wrapQueryError(err, "list journal entries of branch %s", filter.BranchID)
	}
	defer rows.Close()

	var ms []models.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, wrapQueryError(err, "scan journal entry row")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapQueryError(err, "iterate journal entry rows")
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeEntryCursor(last.EntryDate.UTC(), last.EntryNumber)
		next = &token
	}

	entries := make([]domain.JournalEntry, len(ms))
	ids := make([]string, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
		ids[i] = m.EntryID
	}
	lines, err := r.linesByEntryIDs(ctx, r.Pool, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, next, nil
}

func (r *PgxJournalRepository) linesByEntryIDs(ctx context.Context, q querier, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	out := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_number;`
	rows, err := q.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, wrapQueryError(err, "query journal entry lines")
	}
	defer rows.Close()

	rowsByEntry := make(map[string][]models.JournalEntryLine, len(entryIDs))
	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.LineNumber, &m.AccountID, &m.AccountCode, &m.AccountName, &m.DebitAmount, &m.CreditAmount, &m.Description); err != nil {
			return nil, wrapQueryError(err, "scan journal entry line")
		}
		rowsByEntry[m.EntryID] = append(rowsByEntry[m.EntryID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, "iterate journal entry lines")
	}
	for entryID, ms := range rowsByEntry {
		out[entryID] = mapping.ToDomainJournalEntryLineSlice(ms)
	}
	return out, nil
}
