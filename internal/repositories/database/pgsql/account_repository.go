package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/branch_ledger/internal/models"
	"github.com/SscSPs/branch_ledger/internal/utils/accounting"
	"github.com/SscSPs/branch_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, branch_id, code, name, account_type, normal_balance, balance, is_header, is_active, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.BranchID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.Balance,
		&m.IsHeader,
		&m.IsActive,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount upserts account metadata. The balance column is only set on insert. The existing
// row is locked so the type and normal balance cannot change under a concurrent posting.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		existing, err := scanAccount(tx.QueryRow(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 FOR UPDATE;`, m.AccountID))
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return wrapQueryError(err, "find account %s", m.AccountID)
		case existing.BranchID != m.BranchID:
			return fmt.Errorf("%w: account %s belongs to another branch", apperrors.ErrDuplicate, m.AccountID)
		default:
			var live bool
			liveQuery := `
				SELECT EXISTS (
					SELECT 1 FROM journal_entry_lines l
					JOIN journal_entries e ON e.entry_id = l.entry_id
					WHERE l.account_id = $1 AND e.status = 'posted' AND NOT e.is_voided
				);`
			if err := tx.QueryRow(ctx, liveQuery, m.AccountID).Scan(&live); err != nil {
				return wrapQueryError(err, "check postings of account %s", m.AccountID)
			}
			if err := domain.CheckPolarityChange(mapping.ToDomainAccount(existing), account, live); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO accounts (` + accountColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (account_id) DO UPDATE
			SET code = EXCLUDED.code,
			    name = EXCLUDED.name,
			    account_type = EXCLUDED.account_type,
			    normal_balance = EXCLUDED.normal_balance,
			    is_header = EXCLUDED.is_header,
			    is_active = EXCLUDED.is_active,
			    description = EXCLUDED.description,
			    last_updated_at = EXCLUDED.last_updated_at,
			    last_updated_by = EXCLUDED.last_updated_by
			WHERE accounts.branch_id = EXCLUDED.branch_id;
		`
		tag, err := tx.Exec(ctx, query,
			m.AccountID,
			m.BranchID,
			m.Code,
			m.Name,
			m.AccountType,
			m.NormalBalance,
			m.Balance,
			m.IsHeader,
			m.IsActive,
			m.Description,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return wrapQueryError(err, "save account %s", m.AccountID)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s belongs to another branch", apperrors.ErrDuplicate, m.AccountID)
		}
		return nil
	})
}

// FindAccountByID retrieves an account of a branch.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, branchID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE branch_id = $1 AND account_id = $2;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, branchID, accountID))
	if err != nil {
		return nil, wrapQueryError(err, "find account %s", accountID)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves the accounts of a branch among accountIDs. Missing ids are absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, branchID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE branch_id = $1 AND account_id = ANY($2);`
	return r.queryAccountMap(ctx, r.Pool, query, branchID, accountIDs)
}

// ListAccounts retrieves all accounts of a branch ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE branch_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, branchID)
	if err != nil {
		return nil, wrapQueryError(err, "list accounts of branch %s", branchID)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, wrapQueryError(err, "scan account row")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, "iterate account rows")
	}
	return mapping.ToDomainAccountSlice(out), nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxAccountRepository) queryAccountMap(ctx context.Context, q querier, query string, args ...any) (map[string]domain.Account, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError(err, "query accounts")
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, wrapQueryError(err, "scan account row")
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, "iterate account rows")
	}
	return accounts, nil
}

// lockAccountsInTx locks the given accounts of a branch in ascending id order so concurrent
// posts never deadlock. Accounts that do not exist are absent from the result.
func (r *PgxAccountRepository) lockAccountsInTx(ctx context.Context, tx pgx.Tx, branchID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE branch_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	accounts, err := r.queryAccountMap(ctx, tx, query, branchID, accountIDs)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(accountIDs) {
		missing := make([]string, 0)
		for _, id := range accountIDs {
			if _, ok := accounts[id]; !ok {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "branch_id", branchID, "missing_accounts", missing)
	}
	return accounts, nil
}

// applyBalanceChangesInTx adds each delta to its account balance in ascending id order.
func (r *PgxAccountRepository) applyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(changes))
	for _, id := range accounting.SortedKeys(changes) {
		if changes[id].IsZero() {
			continue
		}
		batch.Queue(query, id, changes[id], now, userID)
		ids = append(ids, id)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range ids {
		ct, err := br.Exec()
		if err != nil && batchErr == nil {
			batchErr = wrapQueryError(err, "update balance of account %s", id)
		} else if err == nil && ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s vanished during balance update", apperrors.ErrIntegrityViolation, id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = wrapQueryError(err, "close balance update batch")
	}
	return batchErr
}
