package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:         NewID(),
		Date:       time.Now(),
		Provider:   ProviderFawry,
		Type:       TypePayout,
		Amount:     Money{Cents: 100000},
		Commission: Money{Cents: 1500},
		ClientName: "محل السعادة موبايل",
		Status:     StatusCompleted,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		func(tx Transaction) Transaction { tx.Provider = "paypal"; return tx }(good),
		func(tx Transaction) Transaction { tx.Type = "transfer"; return tx }(good),
		func(tx Transaction) Transaction { tx.Status = "done"; return tx }(good),
		func(tx Transaction) Transaction { tx.Amount = Money{}; return tx }(good),
		func(tx Transaction) Transaction { tx.Commission = Money{Cents: -1}; return tx }(good),
		func(tx Transaction) Transaction { tx.ClientName = "  "; return tx }(good),
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMaintenanceValidate(t *testing.T) {
	good := MaintenanceRecord{
		ID:           NewID(),
		SerialNumber: "VX-520-998",
		ClientName:   "النجم للاتصالات",
		Issue:        "عطل في بيت الكارت",
		ReceivedDate: NewDate(2024, 5, 21),
		Status:       MaintenancePending,
		Cost:         Money{Cents: 15000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []MaintenanceRecord{
		func(m MaintenanceRecord) MaintenanceRecord { m.SerialNumber = ""; return m }(good),
		func(m MaintenanceRecord) MaintenanceRecord { m.ClientName = ""; return m }(good),
		func(m MaintenanceRecord) MaintenanceRecord { m.Issue = ""; return m }(good),
		func(m MaintenanceRecord) MaintenanceRecord { m.Status = "broken"; return m }(good),
		func(m MaintenanceRecord) MaintenanceRecord { m.Cost = Money{Cents: -1}; return m }(good),
	}
	for i, m := range bads {
		if err := m.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestEnumsAreClosed(t *testing.T) {
	for _, p := range Providers() {
		if !p.IsValid() {
			t.Fatalf("provider %q should be valid", p)
		}
	}
	if Provider("stripe").IsValid() {
		t.Fatalf("unknown provider accepted")
	}
	for _, tt := range TransactionTypes() {
		if !tt.IsValid() {
			t.Fatalf("type %q should be valid", tt)
		}
	}
	for _, s := range MaintenanceStatuses() {
		if !s.IsValid() {
			t.Fatalf("status %q should be valid", s)
		}
	}
	if MaintenanceStatus("scrapped").IsValid() {
		t.Fatalf("unknown maintenance status accepted")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-21")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-05-21" {
		t.Fatalf("round-trip: %q", d.String())
	}
	if _, err := ParseDate("21/05/2024"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}
