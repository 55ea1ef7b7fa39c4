package services

import (
	"context"
	"errors"
	"testing"

	"epaypro/internal/core"
	"epaypro/internal/ledger/memory"
)

type fakePublisher struct {
	recorded []core.Transaction
	alerts   []core.Supplier
	fail     bool
}

func (f *fakePublisher) PublishTransactionRecorded(_ context.Context, tx core.Transaction) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.recorded = append(f.recorded, tx)
	return nil
}

func (f *fakePublisher) PublishLowBalanceAlert(_ context.Context, s core.Supplier) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.alerts = append(f.alerts, s)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func lowFloatStore() *memory.Store {
	return memory.New([]core.Supplier{
		{ID: "1", Provider: core.ProviderFawry, CurrentBalance: core.Money{Cents: 150000}, Threshold: core.Money{Cents: 200000}},
	}, nil)
}

func payout(cents int64) core.Transaction {
	return core.Transaction{
		Provider:   core.ProviderFawry,
		Type:       core.TypePayout,
		Amount:     core.Money{Cents: cents},
		Commission: core.Money{Cents: 150},
		ClientName: "محل السعادة",
		Status:     core.StatusCompleted,
	}
}

func TestRecordTransactionPublishesEvents(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(lowFloatStore(), pub)

	ref, err := svc.RecordTransaction(context.Background(), payout(10000))
	if err != nil || ref == "" {
		t.Fatalf("record: ref=%q err=%v", ref, err)
	}
	if len(pub.recorded) != 1 || pub.recorded[0].ID != ref {
		t.Fatalf("expected recorded event, got %v", pub.recorded)
	}
	// supplier was already under threshold, debit keeps it there
	if len(pub.alerts) != 1 || pub.alerts[0].Provider != core.ProviderFawry {
		t.Fatalf("expected low balance alert, got %v", pub.alerts)
	}
	if pub.alerts[0].CurrentBalance.Cents != 140000 {
		t.Fatalf("alert carries post-debit balance, got %d", pub.alerts[0].CurrentBalance.Cents)
	}
}

func TestRecordTransactionSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{fail: true}
	svc := NewLedgerService(lowFloatStore(), pub)

	ref, err := svc.RecordTransaction(context.Background(), payout(10000))
	if err != nil || ref == "" {
		t.Fatalf("publish failure must not fail the request: ref=%q err=%v", ref, err)
	}
	txs, _ := svc.ListTransactions(context.Background())
	if len(txs) != 1 {
		t.Fatalf("transaction should be recorded regardless, got %d", len(txs))
	}
}

func TestRecordTransactionWithoutPublisher(t *testing.T) {
	svc := NewLedgerService(lowFloatStore(), nil)
	if _, err := svc.RecordTransaction(context.Background(), payout(10000)); err != nil {
		t.Fatalf("nil publisher should be fine: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close with nil publisher: %v", err)
	}
}

func TestRegisterClientAssignsNextCode(t *testing.T) {
	store := memory.New(nil, []core.Client{
		{ID: "c1", Code: "1001", Name: "a", Phone: "1"},
		{ID: "c2", Code: "abc", Name: "b", Phone: "2"},
	})
	svc := NewLedgerService(store, nil)

	ref, err := svc.RegisterClient(context.Background(), core.Client{Name: "c", Phone: "3"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	clients, _ := svc.ListClients(context.Background())
	var got core.Client
	for _, c := range clients {
		if c.ID == ref {
			got = c
		}
	}
	if got.Code != "1002" {
		t.Fatalf("expected assigned code 1002, got %q", got.Code)
	}
}
