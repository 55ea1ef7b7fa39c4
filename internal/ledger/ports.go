// Package ledger defines the ports through which the application reads and
// mutates the ledger collections.
package ledger

import (
	"context"

	"epaypro/internal/core"
)

type (
	// TransactionRecorder records a transaction newest-first and debits the
	// matching supplier's float by the raw amount. Commission is tracked
	// separately and is not netted against the float.
	TransactionRecorder interface {
		RecordTransaction(ctx context.Context, tx core.Transaction) (ref string, err error)
	}

	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// ClientRegistrar appends a client to the back of the collection.
	ClientRegistrar interface {
		RegisterClient(ctx context.Context, c core.Client) (ref string, err error)
	}

	ClientLister interface {
		ListClients(ctx context.Context) ([]core.Client, error)
	}

	SupplierLister interface {
		ListSuppliers(ctx context.Context) ([]core.Supplier, error)
	}

	// MaintenanceOpener records a maintenance ticket newest-first.
	MaintenanceOpener interface {
		OpenMaintenance(ctx context.Context, rec core.MaintenanceRecord) (ref string, err error)
	}

	MaintenanceLister interface {
		ListMaintenance(ctx context.Context) ([]core.MaintenanceRecord, error)
	}

	// MaintenanceStatusUpdater moves a ticket to any status. There is no
	// forward-only restriction: delivered tickets can be reopened.
	MaintenanceStatusUpdater interface {
		UpdateMaintenanceStatus(ctx context.Context, id string, status core.MaintenanceStatus) (core.MaintenanceRecord, error)
	}

	// VersionReader exposes a counter bumped on every mutation, used to key
	// memoized aggregates.
	VersionReader interface {
		Version(ctx context.Context) uint64
	}
)
