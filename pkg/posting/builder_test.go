package posting

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgaray/ledgerpost/pkg/ledger"
	"github.com/mgaray/ledgerpost/pkg/money"
)

// fakeSession is an in-memory Session for builder tests. Accounts in
// the accounts set resolve; everything else returns (nil, nil).
type fakeSession struct {
	accounts    map[string]bool
	currencies  map[string]bool
	committed   []*fakeTx
	rolledBack  []*fakeTx
	failAddLeg  string // account path whose AddLeg fails
	failCommit  bool
	nextID      int64
}

type fakeLeg struct {
	path   string
	amount decimal.Decimal
}

type fakeTx struct {
	session     *fakeSession
	description string
	currency    string
	legs        []fakeLeg
}

func newFakeSession(accounts ...string) *fakeSession {
	s := &fakeSession{
		accounts:   map[string]bool{},
		currencies: map[string]bool{"ARS": true, "USD": true},
	}
	for _, a := range accounts {
		s.accounts[a] = true
	}
	return s
}

func (s *fakeSession) ResolveAccount(path string) (*ledger.Account, error) {
	if !s.accounts[path] {
		return nil, nil
	}
	s.nextID++
	return &ledger.Account{ID: s.nextID, Path: path, Name: path}, nil
}

func (s *fakeSession) EnsureAccount(path string) (*ledger.Account, error) {
	s.accounts[path] = true
	return s.ResolveAccount(path)
}

func (s *fakeSession) LookupCurrency(code string) (*ledger.Currency, error) {
	if !s.currencies[code] {
		return nil, &ledger.UnknownCurrencyError{Code: code}
	}
	return &ledger.Currency{ID: 1, Code: code}, nil
}

func (s *fakeSession) EnsureCurrency(code string) (*ledger.Currency, error) {
	s.currencies[code] = true
	return s.LookupCurrency(code)
}

func (s *fakeSession) Begin(date time.Time, description string, currency *ledger.Currency) (ledger.Tx, error) {
	return &fakeTx{session: s, description: description, currency: currency.Code}, nil
}

func (s *fakeSession) Accounts() ([]string, error)                           { return nil, nil }
func (s *fakeSession) Balance(*ledger.Account) (decimal.Decimal, error)      { return decimal.Zero, nil }
func (s *fakeSession) Save() error                                           { return nil }
func (s *fakeSession) Close() error                                          { return nil }

func (t *fakeTx) AddLeg(account *ledger.Account, amount decimal.Decimal) error {
	if t.session.failAddLeg == account.Path {
		return &ledger.SessionError{Op: "add leg", Err: fmt.Errorf("disk full")}
	}
	t.legs = append(t.legs, fakeLeg{path: account.Path, amount: amount})
	return nil
}

func (t *fakeTx) Commit() error {
	if t.session.failCommit {
		return &ledger.SessionError{Op: "commit", Err: fmt.Errorf("locked")}
	}
	t.session.committed = append(t.session.committed, t)
	return nil
}

func (t *fakeTx) Rollback() error {
	t.session.rolledBack = append(t.session.rolledBack, t)
	return nil
}

func legAmount(v string, currency string) money.Amount {
	return money.New(decimal.RequireFromString(v), currency)
}

func TestPostBalancedTransaction(t *testing.T) {
	session := newFakeSession("Pasivo.Visa", "Gastos.Comida")
	builder := NewBuilder(session, nil)

	err := builder.Post(Transaction{
		Date:        time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Description: "COTODIGITAL",
		Currency:    "ARS",
		Legs: []Leg{
			Credit("Pasivo.Visa", legAmount("130555.73", "ARS")),
			Debit("Gastos.Comida", legAmount("130555.73", "ARS")),
		},
	})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}

	if len(session.committed) != 1 {
		t.Fatalf("%d transactions committed, expected 1", len(session.committed))
	}
	tx := session.committed[0]
	sum := decimal.Zero
	for _, leg := range tx.legs {
		sum = sum.Add(leg.amount)
	}
	if !sum.IsZero() {
		t.Errorf("committed legs sum to %s, expected zero", sum)
	}
}

func TestPostShortKeyTranslation(t *testing.T) {
	session := newFakeSession("Pasivo.Tarjeta.Visa", "Gastos.Transporte.Uber")
	builder := NewBuilder(session, map[string]string{
		"visa": "Pasivo.Tarjeta.Visa",
	})

	err := builder.Post(Transaction{
		Date:        time.Now(),
		Description: "PAYU*AR*UBER",
		Currency:    "ARS",
		Legs: []Leg{
			Credit("visa", legAmount("18540.00", "ARS")),
			Debit("Gastos.Transporte.Uber", legAmount("18540.00", "ARS")),
		},
	})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
}

func TestPostUnbalancedRejected(t *testing.T) {
	session := newFakeSession("A", "B")
	builder := NewBuilder(session, nil)

	err := builder.Post(Transaction{
		Date:        time.Now(),
		Description: "bad",
		Currency:    "ARS",
		Legs: []Leg{
			Credit("A", legAmount("100.00", "ARS")),
			Debit("B", legAmount("99.99", "ARS")),
		},
	})

	var ube *UnbalancedTransactionError
	if !errors.As(err, &ube) {
		t.Fatalf("error = %v, expected *UnbalancedTransactionError", err)
	}
	if !ube.Residual.Equal(decimal.RequireFromString("-0.01")) {
		t.Errorf("residual = %s, expected -0.01", ube.Residual)
	}
	// Never coerced, never posted.
	if len(session.committed) != 0 {
		t.Errorf("%d transactions committed, expected 0", len(session.committed))
	}
}

func TestPostPerCurrencyBalance(t *testing.T) {
	session := newFakeSession("A", "B", "C", "D")
	builder := NewBuilder(session, nil)

	// Balanced in ARS but not in USD.
	err := builder.Post(Transaction{
		Date:        time.Now(),
		Description: "mixed",
		Currency:    "ARS",
		Legs: []Leg{
			Credit("A", legAmount("10.00", "ARS")),
			Debit("B", legAmount("10.00", "ARS")),
			Debit("C", legAmount("5.73", "USD")),
		},
	})

	var ube *UnbalancedTransactionError
	if !errors.As(err, &ube) {
		t.Fatalf("error = %v, expected *UnbalancedTransactionError", err)
	}
	if ube.Currency != "USD" {
		t.Errorf("unbalanced currency = %s, expected USD", ube.Currency)
	}
}

func TestPostAccountNotFound(t *testing.T) {
	session := newFakeSession("A")
	builder := NewBuilder(session, nil)

	err := builder.Post(Transaction{
		Date:        time.Now(),
		Description: "missing dest",
		Currency:    "ARS",
		Legs: []Leg{
			Credit("A", legAmount("10.00", "ARS")),
			Debit("Gastos.Nada", legAmount("10.00", "ARS")),
		},
	})

	var anf *ledger.AccountNotFoundError
	if !errors.As(err, &anf) {
		t.Fatalf("error = %v, expected *AccountNotFoundError", err)
	}
	if anf.Path != "Gastos.Nada" {
		t.Errorf("error names %q, expected Gastos.Nada", anf.Path)
	}
	// Resolution happens before Begin: no rollback needed, nothing open.
	if len(session.rolledBack) != 0 || len(session.committed) != 0 {
		t.Errorf("rolledBack=%d committed=%d, expected 0/0", len(session.rolledBack), len(session.committed))
	}
}

func TestPostRollsBackOnLegFailure(t *testing.T) {
	session := newFakeSession("A", "B")
	session.failAddLeg = "B"
	builder := NewBuilder(session, nil)

	err := builder.Post(Transaction{
		Date:        time.Now(),
		Description: "leg failure",
		Currency:    "ARS",
		Legs: []Leg{
			Credit("A", legAmount("10.00", "ARS")),
			Debit("B", legAmount("10.00", "ARS")),
		},
	})
	if err == nil {
		t.Fatal("Post expected error, got none")
	}

	if len(session.rolledBack) != 1 {
		t.Errorf("%d transactions rolled back, expected 1", len(session.rolledBack))
	}
	if len(session.committed) != 0 {
		t.Errorf("%d transactions committed, expected 0", len(session.committed))
	}
}

func TestPostNoLegs(t *testing.T) {
	builder := NewBuilder(newFakeSession(), nil)
	err := builder.Post(Transaction{Currency: "ARS"})
	if !errors.Is(err, ErrNoLegs) {
		t.Errorf("error = %v, expected ErrNoLegs", err)
	}
}

func TestPostRoundsAtBoundary(t *testing.T) {
	session := newFakeSession("A", "B")
	builder := NewBuilder(session, nil)

	// Unrounded inputs that balance exactly and round to cents.
	err := builder.Post(Transaction{
		Date:        time.Now(),
		Description: "rounding",
		Currency:    "ARS",
		Legs: []Leg{
			Credit("A", legAmount("10.005", "ARS")),
			Debit("B", legAmount("10.005", "ARS")),
		},
	})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}

	for _, leg := range session.committed[0].legs {
		if leg.amount.Exponent() < -2 {
			t.Errorf("leg amount %s not rounded to cents", leg.amount)
		}
	}
}
