package sqlite

// Schema is applied on every open. Amounts are decimal strings, dates are YYYY-MM-DD and
// timestamps RFC 3339 in UTC so lexical order matches time order.
const Schema = `
CREATE TABLE IF NOT EXISTS branches (
    branch_id       TEXT PRIMARY KEY,
    code            TEXT NOT NULL UNIQUE,
    name            TEXT NOT NULL,
    is_active       INTEGER NOT NULL DEFAULT 1,
    created_at      TEXT NOT NULL,
    created_by      TEXT NOT NULL,
    last_updated_at TEXT NOT NULL,
    last_updated_by TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    account_id      TEXT PRIMARY KEY,
    branch_id       TEXT NOT NULL REFERENCES branches(branch_id),
    code            TEXT NOT NULL,
    name            TEXT NOT NULL,
    account_type    TEXT NOT NULL,
    normal_balance  TEXT NOT NULL,
    balance         TEXT NOT NULL DEFAULT '0',
    is_header       INTEGER NOT NULL DEFAULT 0,
    is_active       INTEGER NOT NULL DEFAULT 1,
    description     TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL,
    created_by      TEXT NOT NULL,
    last_updated_at TEXT NOT NULL,
    last_updated_by TEXT NOT NULL,
    UNIQUE (branch_id, code)
);

CREATE TABLE IF NOT EXISTS journal_entry_sequences (
    branch_id  TEXT NOT NULL,
    year       INTEGER NOT NULL,
    last_value INTEGER NOT NULL,
    PRIMARY KEY (branch_id, year)
);

CREATE TABLE IF NOT EXISTS journal_entries (
    entry_id         TEXT PRIMARY KEY,
    branch_id        TEXT NOT NULL REFERENCES branches(branch_id),
    entry_number     TEXT NOT NULL,
    entry_date       TEXT NOT NULL,
    description      TEXT NOT NULL,
    reference_type   TEXT NOT NULL,
    reference_id     TEXT,
    status           TEXT NOT NULL CHECK (status IN ('draft', 'posted')),
    is_voided        INTEGER NOT NULL DEFAULT 0,
    total_debit      TEXT NOT NULL,
    total_credit     TEXT NOT NULL,
    created_at       TEXT NOT NULL,
    created_by       TEXT NOT NULL,
    created_by_name  TEXT NOT NULL,
    approved_by      TEXT,
    approved_by_name TEXT,
    approved_at      TEXT,
    voided_by        TEXT,
    voided_by_name   TEXT,
    voided_at        TEXT,
    void_reason      TEXT,
    last_updated_at  TEXT NOT NULL,
    last_updated_by  TEXT NOT NULL,
    UNIQUE (branch_id, entry_number)
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_branch_date
    ON journal_entries (branch_id, entry_date DESC, length(entry_number) DESC, entry_number DESC);

CREATE UNIQUE INDEX IF NOT EXISTS uq_journal_entries_live_reference
    ON journal_entries (branch_id, reference_type, reference_id)
    WHERE reference_id IS NOT NULL AND is_voided = 0;

CREATE TABLE IF NOT EXISTS journal_entry_lines (
    line_id       TEXT PRIMARY KEY,
    entry_id      TEXT NOT NULL REFERENCES journal_entries(entry_id) ON DELETE CASCADE,
    line_number   INTEGER NOT NULL,
    account_id    TEXT NOT NULL REFERENCES accounts(account_id),
    account_code  TEXT NOT NULL,
    account_name  TEXT NOT NULL,
    debit_amount  TEXT NOT NULL,
    credit_amount TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    UNIQUE (entry_id, line_number)
);
`
