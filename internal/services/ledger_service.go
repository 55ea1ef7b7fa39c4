package services

import (
	"context"
	"fmt"
	"log/slog"

	"epaypro/internal/backend"
	"epaypro/internal/core"
)

// EventPublisher publishes ledger events to the message broker.
// *amqp.Client satisfies it; a nil publisher disables eventing.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, tx core.Transaction) error
	PublishLowBalanceAlert(ctx context.Context, s core.Supplier) error
	Close() error
}

// LedgerService orchestrates ledger mutations and the events they raise.
// Publishing failures are logged and never fail the user's request.
type LedgerService struct {
	backend   backend.Backend
	publisher EventPublisher
}

func NewLedgerService(b backend.Backend, publisher EventPublisher) *LedgerService {
	return &LedgerService{backend: b, publisher: publisher}
}

// RecordTransaction records the transaction, then publishes the recorded
// event and, when the debit left the supplier under its alert threshold, a
// low-balance alert.
func (s *LedgerService) RecordTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	ref, err := s.backend.RecordTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("record transaction: %w", err)
	}
	tx.ID = ref

	if s.publisher == nil {
		return ref, nil
	}

	if err := s.publisher.PublishTransactionRecorded(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event", "id", ref, "error", err)
	}

	sups, err := s.backend.ListSuppliers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list suppliers for alert check", "error", err)
		return ref, nil
	}
	for _, sup := range sups {
		if sup.Provider != tx.Provider {
			continue
		}
		if sup.CurrentBalance.Cents < sup.Threshold.Cents {
			if err := s.publisher.PublishLowBalanceAlert(ctx, sup); err != nil {
				slog.ErrorContext(ctx, "Failed to publish low balance alert",
					"provider", sup.Provider, "error", err)
			}
		}
	}

	return ref, nil
}

// RegisterClient assigns the next client code and appends the client.
func (s *LedgerService) RegisterClient(ctx context.Context, c core.Client) (string, error) {
	clients, err := s.backend.ListClients(ctx)
	if err != nil {
		return "", fmt.Errorf("list clients: %w", err)
	}
	c.Code = core.NextClientCode(clients)

	ref, err := s.backend.RegisterClient(ctx, c)
	if err != nil {
		return "", fmt.Errorf("register client: %w", err)
	}
	slog.InfoContext(ctx, "Client registered", "id", ref, "code", c.Code)
	return ref, nil
}

// OpenMaintenance records a new repair ticket.
func (s *LedgerService) OpenMaintenance(ctx context.Context, rec core.MaintenanceRecord) (string, error) {
	ref, err := s.backend.OpenMaintenance(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("open maintenance ticket: %w", err)
	}
	return ref, nil
}

// UpdateMaintenanceStatus moves a ticket to the selected status.
func (s *LedgerService) UpdateMaintenanceStatus(ctx context.Context, id string, status core.MaintenanceStatus) (core.MaintenanceRecord, error) {
	rec, err := s.backend.UpdateMaintenanceStatus(ctx, id, status)
	if err != nil {
		return core.MaintenanceRecord{}, fmt.Errorf("update maintenance status: %w", err)
	}
	slog.InfoContext(ctx, "Maintenance status updated", "id", id, "status", status)
	return rec, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.backend.ListTransactions(ctx)
}

func (s *LedgerService) ListClients(ctx context.Context) ([]core.Client, error) {
	return s.backend.ListClients(ctx)
}

func (s *LedgerService) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	return s.backend.ListSuppliers(ctx)
}

func (s *LedgerService) ListMaintenance(ctx context.Context) ([]core.MaintenanceRecord, error) {
	return s.backend.ListMaintenance(ctx)
}

func (s *LedgerService) Version(ctx context.Context) uint64 {
	return s.backend.Version(ctx)
}

// Close closes the event publisher connection, if any.
func (s *LedgerService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
