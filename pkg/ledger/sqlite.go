package ledger

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgaray/ledgerpost/pkg/db"
)

// SQLiteSession is the book-backed Session implementation.
type SQLiteSession struct {
	conn *db.Connection
}

var _ Session = (*SQLiteSession)(nil)

// Open opens an exclusive writable session over the book at dbPath.
func Open(dbPath string) (*SQLiteSession, error) {
	conn, err := db.Open(dbPath)
	if err != nil {
		return nil, &SessionError{Op: "open", Err: err}
	}
	return &SQLiteSession{conn: conn}, nil
}

// ResolveAccount walks the tree one segment at a time. Each step is an
// exact, case-sensitive match against the children of the current
// account; any missing segment resolves the whole path to (nil, nil).
func (s *SQLiteSession) ResolveAccount(dottedPath string) (*Account, error) {
	var (
		parentID    int64
		accountID   int64
		accountType string
	)
	for _, segment := range strings.Split(dottedPath, ".") {
		err := s.conn.QueryRow(
			`SELECT id, account_type FROM accounts WHERE parent_id = ? AND name = ?`,
			parentID, segment,
		).Scan(&accountID, &accountType)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, &SessionError{Op: "resolve account", Err: err}
		}
		parentID = accountID
	}
	return &Account{
		ID:   accountID,
		Name: dottedPath[strings.LastIndex(dottedPath, ".")+1:],
		Path: dottedPath,
		Type: accountType,
	}, nil
}

// EnsureAccount resolves an account, creating missing segments. The
// account type of created segments is derived from the path's top
// segment so the chart bootstrap stays a single pass.
func (s *SQLiteSession) EnsureAccount(dottedPath string) (*Account, error) {
	segments := strings.Split(dottedPath, ".")
	accountType := typeForRootSegment(segments[0])

	var parentID, accountID int64
	for _, segment := range segments {
		err := s.conn.QueryRow(
			`SELECT id FROM accounts WHERE parent_id = ? AND name = ?`,
			parentID, segment,
		).Scan(&accountID)
		if err == sql.ErrNoRows {
			result, insErr := s.conn.Exec(
				`INSERT INTO accounts (parent_id, name, account_type) VALUES (?, ?, ?)`,
				parentID, segment, accountType,
			)
			if insErr != nil {
				return nil, &SessionError{Op: "create account", Err: insErr}
			}
			accountID, insErr = result.LastInsertId()
			if insErr != nil {
				return nil, &SessionError{Op: "create account", Err: insErr}
			}
		} else if err != nil {
			return nil, &SessionError{Op: "ensure account", Err: err}
		}
		parentID = accountID
	}
	return &Account{
		ID:   accountID,
		Name: segments[len(segments)-1],
		Path: dottedPath,
		Type: accountType,
	}, nil
}

// LookupCurrency resolves a registered ISO 4217 code.
func (s *SQLiteSession) LookupCurrency(code string) (*Currency, error) {
	var id int64
	err := s.conn.QueryRow(`SELECT id FROM currencies WHERE code = ?`, code).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, &UnknownCurrencyError{Code: code}
	}
	if err != nil {
		return nil, &SessionError{Op: "lookup currency", Err: err}
	}
	return &Currency{ID: id, Code: code}, nil
}

// EnsureCurrency registers a currency code if it is not known yet.
func (s *SQLiteSession) EnsureCurrency(code string) (*Currency, error) {
	if _, err := s.conn.Exec(
		`INSERT INTO currencies (code) VALUES (?) ON CONFLICT(code) DO NOTHING`, code,
	); err != nil {
		return nil, &SessionError{Op: "register currency", Err: err}
	}
	return s.LookupCurrency(code)
}

// Begin opens a transaction for edit. Durability is deferred to
// Commit: the header and splits ride a storage-level transaction, so a
// Rollback leaves nothing behind.
func (s *SQLiteSession) Begin(date time.Time, description string, currency *Currency) (Tx, error) {
	sqlTx, err := s.conn.Begin()
	if err != nil {
		return nil, &SessionError{Op: "begin transaction", Err: err}
	}
	result, err := sqlTx.Exec(
		`INSERT INTO transactions (post_date, description, currency_id) VALUES (?, ?, ?)`,
		date.Format("2006-01-02"), description, currency.ID,
	)
	if err != nil {
		sqlTx.Rollback()
		return nil, &SessionError{Op: "begin transaction", Err: err}
	}
	txID, err := result.LastInsertId()
	if err != nil {
		sqlTx.Rollback()
		return nil, &SessionError{Op: "begin transaction", Err: err}
	}
	return &sqliteTx{sqlTx: sqlTx, txID: txID}, nil
}

// Accounts returns the sorted full dotted names of every account. The
// tree is walked iteratively with an explicit stack over a single read
// of the accounts table.
func (s *SQLiteSession) Accounts() ([]string, error) {
	rows, err := s.conn.Query(`SELECT id, parent_id, name FROM accounts`)
	if err != nil {
		return nil, &SessionError{Op: "list accounts", Err: err}
	}
	defer rows.Close()

	type node struct {
		id   int64
		name string
	}
	children := make(map[int64][]node)
	for rows.Next() {
		var n node
		var parentID int64
		if err := rows.Scan(&n.id, &parentID, &n.name); err != nil {
			return nil, &SessionError{Op: "list accounts", Err: err}
		}
		children[parentID] = append(children[parentID], n)
	}
	if err := rows.Err(); err != nil {
		return nil, &SessionError{Op: "list accounts", Err: err}
	}

	type frame struct {
		id   int64
		path string
	}
	var names []string
	stack := []frame{{id: 0, path: ""}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range children[top.id] {
			path := child.name
			if top.path != "" {
				path = top.path + "." + child.name
			}
			names = append(names, path)
			stack = append(stack, frame{id: child.id, path: path})
		}
	}
	sort.Strings(names)
	return names, nil
}

// Balance sums the committed split values of one account.
func (s *SQLiteSession) Balance(account *Account) (decimal.Decimal, error) {
	rows, err := s.conn.Query(`SELECT value FROM splits WHERE account_id = ?`, account.ID)
	if err != nil {
		return decimal.Zero, &SessionError{Op: "balance", Err: err}
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return decimal.Zero, &SessionError{Op: "balance", Err: err}
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, &SessionError{Op: "balance", Err: fmt.Errorf("corrupt split value %q: %w", value, err)}
		}
		sum = sum.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, &SessionError{Op: "balance", Err: err}
	}
	return sum, nil
}

// Save checkpoints the WAL so the book file itself reflects every
// committed transaction.
func (s *SQLiteSession) Save() error {
	if _, err := s.conn.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return &SessionError{Op: "save", Err: err}
	}
	return nil
}

// Close releases the session.
func (s *SQLiteSession) Close() error {
	if err := s.conn.Close(); err != nil {
		return &SessionError{Op: "close", Err: err}
	}
	return nil
}

// sqliteTx is an open edit over the book.
type sqliteTx struct {
	sqlTx *sql.Tx
	txID  int64
	done  bool
}

func (t *sqliteTx) AddLeg(account *Account, amount decimal.Decimal) error {
	_, err := t.sqlTx.Exec(
		`INSERT INTO splits (tx_id, account_id, value) VALUES (?, ?, ?)`,
		t.txID, account.ID, amount.String(),
	)
	if err != nil {
		return &SessionError{Op: "add leg", Err: err}
	}
	return nil
}

func (t *sqliteTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.sqlTx.Commit(); err != nil {
		return &SessionError{Op: "commit", Err: err}
	}
	return nil
}

func (t *sqliteTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.sqlTx.Rollback(); err != nil {
		return &SessionError{Op: "rollback", Err: err}
	}
	return nil
}

// typeForRootSegment derives a coarse account type from the chart's
// top-level grouping names. Unknown roots get an empty type.
func typeForRootSegment(root string) string {
	switch root {
	case "Activos", "Assets":
		return "asset"
	case "Pasivo", "Pasivos", "Liabilities":
		return "liability"
	case "Patrimonio", "Equity":
		return "equity"
	case "Ingresos", "Income":
		return "income"
	case "Gastos", "Expenses":
		return "expense"
	}
	return ""
}
