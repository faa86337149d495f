// Package db provides SQLite storage for the ledger book: the account
// tree, registered currencies, and committed transactions with their
// splits.
package db

// Schema defines the SQL statements to create the book tables.
const Schema = `
-- Chart of accounts, stored as an adjacency tree.
-- parent_id 0 means the account hangs directly off the root.
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    parent_id INTEGER NOT NULL DEFAULT 0,
    name TEXT NOT NULL,                -- one path segment, case-sensitive
    account_type TEXT NOT NULL DEFAULT '',
    UNIQUE(parent_id, name)
);

CREATE INDEX IF NOT EXISTS idx_accounts_parent
    ON accounts(parent_id);

-- Currencies registered in the book (ISO 4217 codes).
CREATE TABLE IF NOT EXISTS currencies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL UNIQUE
);

-- Transaction headers.
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    post_date TEXT NOT NULL,           -- YYYY-MM-DD
    description TEXT NOT NULL,
    currency_id INTEGER NOT NULL REFERENCES currencies(id),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_date
    ON transactions(post_date);

-- Splits: the signed legs of each transaction.
-- value is an exact decimal string, negative for credits.
CREATE TABLE IF NOT EXISTS splits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tx_id INTEGER NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
    account_id INTEGER NOT NULL REFERENCES accounts(id),
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_splits_tx
    ON splits(tx_id);

CREATE INDEX IF NOT EXISTS idx_splits_account
    ON splits(account_id);
`

// InitializeSchema initializes the book schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
