package posting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func batchEntry(day int, desc, amount, currency, dest string) BatchEntry {
	return BatchEntry{
		Date:           time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Description:    desc,
		Amount:         legAmount(amount, currency),
		DestinationKey: dest,
	}
}

func TestPostBatchAllValid(t *testing.T) {
	session := newFakeSession("Pasivo.Visa.ARS", "Pasivo.Visa.USD", "Gastos.Comida", "Gastos.Subs")
	builder := NewBuilder(session, nil)

	sources := map[string]string{"ARS": "Pasivo.Visa.ARS", "USD": "Pasivo.Visa.USD"}
	entries := []BatchEntry{
		batchEntry(2, "COTODIGITAL", "130555.73", "ARS", "Gastos.Comida"),
		batchEntry(2, "SUBSCRIBESTAR", "5.73", "USD", "Gastos.Subs"),
		batchEntry(7, "CARREFOUR", "96299.00", "ARS", "Gastos.Comida"),
	}

	report := builder.PostBatch(entries, sources)

	if report.Succeeded != 3 {
		t.Errorf("Succeeded = %d, expected 3", report.Succeeded)
	}
	if len(report.Failed) != 0 {
		t.Errorf("Failed = %d, expected 0", len(report.Failed))
	}
	if len(session.committed) != 3 {
		t.Errorf("%d transactions committed, expected 3", len(session.committed))
	}
}

func TestPostBatchIsolatesFailures(t *testing.T) {
	session := newFakeSession("Pasivo.Visa.ARS", "Gastos.Comida", "Gastos.Transporte")
	builder := NewBuilder(session, nil)

	sources := map[string]string{"ARS": "Pasivo.Visa.ARS"}
	entries := []BatchEntry{
		batchEntry(1, "ok-1", "10.00", "ARS", "Gastos.Comida"),
		batchEntry(2, "bad-account", "20.00", "ARS", "Gastos.NoExiste"),
		batchEntry(3, "ok-2", "30.00", "ARS", "Gastos.Transporte"),
		batchEntry(4, "ok-3", "40.00", "ARS", "Gastos.Comida"),
	}

	report := builder.PostBatch(entries, sources)

	// Exactly N-1 successes and one failure naming the bad entry;
	// entries after the failure were still attempted.
	if report.Succeeded != 3 {
		t.Errorf("Succeeded = %d, expected 3", report.Succeeded)
	}
	if len(report.Failed) != 1 {
		t.Fatalf("Failed = %d, expected 1", len(report.Failed))
	}
	failure := report.Failed[0]
	if failure.Entry.Description != "bad-account" {
		t.Errorf("failure references %q, expected bad-account", failure.Entry.Description)
	}
	if failure.Kind != KindAccountNotFound {
		t.Errorf("failure kind = %s, expected %s", failure.Kind, KindAccountNotFound)
	}

	// Commit order follows input order.
	if len(session.committed) != 3 {
		t.Fatalf("%d transactions committed, expected 3", len(session.committed))
	}
	for i, desc := range []string{"ok-1", "ok-2", "ok-3"} {
		if session.committed[i].description != desc {
			t.Errorf("commit %d = %q, expected %q", i, session.committed[i].description, desc)
		}
	}
}

func TestPostBatchUnsupportedCurrency(t *testing.T) {
	session := newFakeSession("Pasivo.Visa.ARS", "Gastos.Comida")
	builder := NewBuilder(session, nil)

	entries := []BatchEntry{
		batchEntry(1, "euro charge", "10.00", "EUR", "Gastos.Comida"),
		batchEntry(2, "ok", "20.00", "ARS", "Gastos.Comida"),
	}

	report := builder.PostBatch(entries, map[string]string{"ARS": "Pasivo.Visa.ARS"})

	if report.Succeeded != 1 {
		t.Errorf("Succeeded = %d, expected 1", report.Succeeded)
	}
	if len(report.Failed) != 1 {
		t.Fatalf("Failed = %d, expected 1", len(report.Failed))
	}
	if report.Failed[0].Kind != KindInvalidInput {
		t.Errorf("failure kind = %s, expected %s", report.Failed[0].Kind, KindInvalidInput)
	}
}

func TestPostBatchNonPositiveAmount(t *testing.T) {
	session := newFakeSession("Pasivo.Visa.ARS", "Gastos.Comida")
	builder := NewBuilder(session, nil)

	entries := []BatchEntry{
		{
			Date:           time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Description:    "zero",
			Amount:         legAmount("0", "ARS"),
			DestinationKey: "Gastos.Comida",
		},
	}

	report := builder.PostBatch(entries, map[string]string{"ARS": "Pasivo.Visa.ARS"})

	if report.Succeeded != 0 || len(report.Failed) != 1 {
		t.Fatalf("Succeeded=%d Failed=%d, expected 0/1", report.Succeeded, len(report.Failed))
	}
	if report.Failed[0].Kind != KindInvalidInput {
		t.Errorf("failure kind = %s, expected %s", report.Failed[0].Kind, KindInvalidInput)
	}
}

func TestPostBatchExplicitSource(t *testing.T) {
	session := newFakeSession("Activos.Banco", "Gastos.Comida")
	builder := NewBuilder(session, nil)

	entry := batchEntry(1, "debit purchase", "15.00", "ARS", "Gastos.Comida")
	entry.SourceKey = "Activos.Banco"

	report := builder.PostBatch([]BatchEntry{entry}, nil)

	if report.Succeeded != 1 {
		t.Fatalf("Succeeded = %d, expected 1: %+v", report.Succeeded, report.Failed)
	}
	tx := session.committed[0]
	sum := decimal.Zero
	for _, leg := range tx.legs {
		sum = sum.Add(leg.amount)
	}
	if !sum.IsZero() {
		t.Errorf("legs sum to %s, expected zero", sum)
	}
}
