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
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, branch_id, code, name, account_type, normal_balance, balance, is_header, is_active, description, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row rowScanner) (domain.Account, error) {
	var m models.Account
	var createdAt, updatedAt string
	err := row.Scan(
		&m.AccountID, &m.BranchID, &m.Code, &m.Name, &m.AccountType, &m.NormalBalance, &m.Balance,
		&m.IsHeader, &m.IsActive, &m.Description, &createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Account{}, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (s *Store) SaveBranch(ctx context.Context, branch domain.Branch) error {
	m := mapping.ToModelBranch(branch)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO branches (branch_id, code, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (branch_id) DO UPDATE
		SET code = excluded.code, name = excluded.name, is_active = excluded.is_active,
		    last_updated_at = excluded.last_updated_at, last_updated_by = excluded.last_updated_by`,
		m.BranchID, m.Code, m.Name, m.IsActive,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		return wrapError(err, "save branch %s", m.BranchID)
	}
	return nil
}

func (s *Store) FindBranchByID(ctx context.Context, branchID string) (*domain.Branch, error) {
	var m models.Branch
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT branch_id, code, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM branches WHERE branch_id = ?`, branchID,
	).Scan(&m.BranchID, &m.Code, &m.Name, &m.IsActive, &createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, wrapError(err, "find branch %s", branchID)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, wrapError(err, "parse branch %s", branchID)
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, wrapError(err, "parse branch %s", branchID)
	}
	b := mapping.ToDomainBranch(m)
	return &b, nil
}

// SaveAccount upserts account metadata. The balance is only written on insert, and the type and
// normal balance are frozen once the account has postings.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := scanAccount(tx.QueryRowContext(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, m.AccountID))
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return wrapError(err, "find account %s", m.AccountID)
		case existing.BranchID != m.BranchID:
			return fmt.Errorf("%w: account %s belongs to another branch", apperrors.ErrDuplicate, m.AccountID)
		default:
			var live bool
			if err := tx.QueryRowContext(ctx, `
				SELECT EXISTS (
					SELECT 1 FROM journal_entry_lines l
					JOIN journal_entries e ON e.entry_id = l.entry_id
					WHERE l.account_id = ? AND e.status = 'posted' AND e.is_voided = 0
				)`, m.AccountID).Scan(&live); err != nil {
				return wrapError(err, "check postings of account %s", m.AccountID)
			}
			if err := domain.CheckPolarityChange(existing, account, live); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (`+accountColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (account_id) DO UPDATE
			SET code = excluded.code, name = excluded.name, account_type = excluded.account_type,
			    normal_balance = excluded.normal_balance, is_header = excluded.is_header,
			    is_active = excluded.is_active, description = excluded.description,
			    last_updated_at = excluded.last_updated_at, last_updated_by = excluded.last_updated_by
			WHERE accounts.branch_id = excluded.branch_id`,
			m.AccountID, m.BranchID, m.Code, m.Name, string(m.AccountType), m.NormalBalance, m.Balance.String(),
			m.IsHeader, m.IsActive, m.Description,
			formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
		)
		if err != nil {
			return wrapError(err, "save account %s", m.AccountID)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: account %s belongs to another branch", apperrors.ErrDuplicate, m.AccountID)
		}
		return nil
	})
}

func (s *Store) FindAccountByID(ctx context.Context, branchID, accountID string) (*domain.Account, error) {
	acc, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE branch_id = ? AND account_id = ?`, branchID, accountID))
	if err != nil {
		return nil, wrapError(err, "find account %s", accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, branchID string, accountIDs []string) (map[string]domain.Account, error) {
	return accountsByIDs(ctx, s.db, branchID, accountIDs)
}

func (s *Store) ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE branch_id = ? ORDER BY code`, branchID)
	if err != nil {
		return nil, wrapError(err, "list accounts of branch %s", branchID)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, wrapError(err, "scan account row")
		}
		out = append(out, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate account rows")
	}
	return out, nil
}

func accountsByIDs(ctx context.Context, q queryer, branchID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(accountIDs)+1)
	args = append(args, branchID)
	for _, id := range accountIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(accountIDs)), ", ")
	rows, err := q.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE branch_id = ? AND account_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, wrapError(err, "query accounts")
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, wrapError(err, "scan account row")
		}
		out[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate account rows")
	}
	return out, nil
}

// applyBalanceChanges writes the new balances in ascending account id order. The write lock of
// the immediate transaction keeps the read-modify-write safe.
func applyBalanceChanges(ctx context.Context, tx *sql.Tx, accounts map[string]domain.Account, changes map[string]decimal.Decimal, userID string, at time.Time) error {
	for _, id := range accounting.SortedKeys(changes) {
		if changes[id].IsZero() {
			continue
		}
		balance := accounts[id].Balance.Add(changes[id])
		res, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = ?, last_updated_at = ?, last_updated_by = ? WHERE account_id = ?`,
			balance.String(), formatTime(at), userID, id)
		if err != nil {
			return wrapError(err, "update balance of account %s", id)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: account %s vanished during balance update", apperrors.ErrIntegrityViolation, id)
		}
	}
	return nil
}
