package core

import "strings"

// FilterAll is the categorical filter value meaning "no filter".
const FilterAll = "all"

// MatchTransaction reports whether a transaction matches a free-text query
// and a provider filter. The query is a case-insensitive substring match
// against the client name, the provider name or the transaction type; the
// provider filter, unless FilterAll, must equal the provider exactly. Both
// predicates are ANDed, and an empty query matches everything.
func MatchTransaction(tx Transaction, query string, provider string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	matchesQuery := q == "" ||
		strings.Contains(strings.ToLower(tx.ClientName), q) ||
		strings.Contains(strings.ToLower(string(tx.Provider)), q) ||
		strings.Contains(strings.ToLower(string(tx.Type)), q)
	matchesProvider := provider == FilterAll || provider == "" || string(tx.Provider) == provider
	return matchesQuery && matchesProvider
}

// MatchMaintenance reports whether a maintenance ticket matches a free-text
// query and a status filter. The query matches against client name, serial
// number or issue text; the status filter, unless FilterAll, must equal the
// ticket status exactly.
func MatchMaintenance(rec MaintenanceRecord, query string, status string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	matchesQuery := q == "" ||
		strings.Contains(strings.ToLower(rec.ClientName), q) ||
		strings.Contains(strings.ToLower(rec.SerialNumber), q) ||
		strings.Contains(strings.ToLower(rec.Issue), q)
	matchesStatus := status == FilterAll || status == "" || string(rec.Status) == status
	return matchesQuery && matchesStatus
}

// FilterTransactions returns the transactions matching query and provider,
// preserving input order. Collections are small, so a full rescan on every
// call is fine.
func FilterTransactions(txs []Transaction, query string, provider string) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if MatchTransaction(tx, query, provider) {
			out = append(out, tx)
		}
	}
	return out
}

// FilterMaintenance returns the tickets matching query and status,
// preserving input order.
func FilterMaintenance(recs []MaintenanceRecord, query string, status string) []MaintenanceRecord {
	out := make([]MaintenanceRecord, 0, len(recs))
	for _, rec := range recs {
		if MatchMaintenance(rec, query, status) {
			out = append(out, rec)
		}
	}
	return out
}
