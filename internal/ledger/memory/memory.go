// Package memory holds the in-memory ledger store. All application state
// lives here for the lifetime of the process; there is no persistence by
// design.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"epaypro/internal/core"
)

var ErrTicketNotFound = errors.New("maintenance ticket not found")

// Store owns the four record collections. Transactions and maintenance
// tickets are kept newest-first, clients in registration order. Records are
// never deleted; the only in-place updates are maintenance status changes
// and the supplier float debit.
type Store struct {
	mu           sync.Mutex
	version      uint64
	transactions []core.Transaction
	clients      []core.Client
	suppliers    []core.Supplier
	maintenance  []core.MaintenanceRecord
}

func New(suppliers []core.Supplier, clients []core.Client) *Store {
	return &Store{
		suppliers: append([]core.Supplier(nil), suppliers...),
		clients:   append([]core.Client(nil), clients...),
	}
}

// NewFromFiles builds a store seeded from JSON files in base, falling back
// to the built-in book for any collection whose file is absent.
func NewFromFiles(base string) *Store {
	suppliers := readSeed[core.Supplier](filepath.Join(base, "seed_suppliers.json"))
	if len(suppliers) == 0 {
		suppliers = defaultSuppliers()
	}
	clients := readSeed[core.Client](filepath.Join(base, "seed_clients.json"))
	if len(clients) == 0 {
		clients = defaultClients()
	}
	s := New(suppliers, clients)
	s.transactions = readSeed[core.Transaction](filepath.Join(base, "seed_transactions.json"))
	if len(s.transactions) == 0 {
		s.transactions = defaultTransactions()
	}
	s.maintenance = readSeed[core.MaintenanceRecord](filepath.Join(base, "seed_maintenance.json"))
	if len(s.maintenance) == 0 {
		s.maintenance = defaultMaintenance()
	}
	return s
}

// RecordTransaction validates and prepends the transaction, then debits the
// matching supplier's float by the raw amount. Commission is deliberately
// not netted against the float; it is tracked separately by the aggregator.
// A transaction against a provider with no supplier row records fine and
// debits nothing.
func (s *Store) RecordTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = core.NewID()
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if tx.Status == "" {
		tx.Status = core.StatusCompleted
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]core.Transaction{tx}, s.transactions...)
	for i, sup := range s.suppliers {
		if sup.Provider == tx.Provider {
			s.suppliers[i].CurrentBalance = sup.CurrentBalance.Sub(tx.Amount)
		}
	}
	s.version++
	return tx.ID, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

// RegisterClient validates and appends the client. New clients start with
// the no-transactions sentinel unless the caller set one.
func (s *Store) RegisterClient(_ context.Context, c core.Client) (string, error) {
	if c.ID == "" {
		c.ID = core.NewID()
	}
	if c.LastTransaction == "" {
		c.LastTransaction = core.NoTransactions
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
	s.version++
	return c.ID, nil
}

func (s *Store) ListClients(_ context.Context) ([]core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Client(nil), s.clients...), nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Supplier(nil), s.suppliers...), nil
}

// OpenMaintenance validates and prepends the ticket. Tickets always open as
// pending regardless of what the caller supplied.
func (s *Store) OpenMaintenance(_ context.Context, rec core.MaintenanceRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = core.NewID()
	}
	if rec.ReceivedDate.IsZero() {
		rec.ReceivedDate = core.Today()
	}
	rec.Status = core.MaintenancePending
	if err := rec.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = append([]core.MaintenanceRecord{rec}, s.maintenance...)
	s.version++
	return rec.ID, nil
}

func (s *Store) ListMaintenance(_ context.Context) ([]core.MaintenanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MaintenanceRecord(nil), s.maintenance...), nil
}

// UpdateMaintenanceStatus moves a ticket to status. Any status is reachable
// from any other by direct selection.
func (s *Store) UpdateMaintenanceStatus(_ context.Context, id string, status core.MaintenanceStatus) (core.MaintenanceRecord, error) {
	if !status.IsValid() {
		return core.MaintenanceRecord{}, core.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.maintenance {
		if rec.ID == id {
			s.maintenance[i].Status = status
			s.version++
			return s.maintenance[i], nil
		}
	}
	return core.MaintenanceRecord{}, ErrTicketNotFound
}

// Version returns the mutation counter. Derived views memoized against a
// version remain valid until the next mutation.
func (s *Store) Version(_ context.Context) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func readSeed[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// The built-in book mirrors the initial ledger the business was onboarded
// with.
func defaultSuppliers() []core.Supplier {
	return []core.Supplier{
		{ID: "1", Provider: core.ProviderFawry, CurrentBalance: core.Money{Cents: 1540000}, Threshold: core.Money{Cents: 200000}},
		{ID: "2", Provider: core.ProviderAman, CurrentBalance: core.Money{Cents: 820000}, Threshold: core.Money{Cents: 150000}},
		{ID: "3", Provider: core.ProviderOPay, CurrentBalance: core.Money{Cents: 1200000}, Threshold: core.Money{Cents: 300000}},
		{ID: "4", Provider: core.ProviderVodafoneCash, CurrentBalance: core.Money{Cents: 450000}, Threshold: core.Money{Cents: 100000}},
	}
}

func defaultClients() []core.Client {
	return []core.Client{
		{ID: "c1", Code: "1001", Name: "محل السعادة موبايل", Phone: "01012345678", Balance: core.Money{Cents: 50000}, LastTransaction: "2024-05-20"},
		{ID: "c2", Code: "1002", Name: "سنترال الأمل", Phone: "01198765432", Balance: core.Money{Cents: -20000}, LastTransaction: "2024-05-19"},
		{ID: "c3", Code: "1003", Name: "النجم للاتصالات", Phone: "01234567890", Balance: core.Money{Cents: 120000}, LastTransaction: "2024-05-20"},
	}
}

func defaultTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "t1", Date: time.Now(), Provider: core.ProviderFawry, Type: core.TypePayout,
			Amount: core.Money{Cents: 100000}, Commission: core.Money{Cents: 1500},
			ClientName: "محل السعادة موبايل", Status: core.StatusCompleted},
		{ID: "t2", Date: time.Now(), Provider: core.ProviderVodafoneCash, Type: core.TypeCashOut,
			Amount: core.Money{Cents: 50000}, Commission: core.Money{Cents: 500},
			ClientName: "سنترال الأمل", Status: core.StatusCompleted},
	}
}

func defaultMaintenance() []core.MaintenanceRecord {
	return []core.MaintenanceRecord{
		{ID: "m1", SerialNumber: "VX-520-998", ClientName: "محل السعادة موبايل",
			Issue: "عطل في بيت الكارت", ReceivedDate: core.NewDate(2024, 5, 21),
			Status: core.MaintenanceInProgress, Cost: core.Money{Cents: 15000}},
		{ID: "m2", SerialNumber: "PAX-A920-12", ClientName: "النجم للاتصالات",
			Issue: "تغيير بطارية", ReceivedDate: core.NewDate(2024, 5, 20),
			Status: core.MaintenancePending, Cost: core.Money{Cents: 45000}},
	}
}
