package core

import "sort"

// MaintenanceSortMode orders maintenance tickets in list views.
type MaintenanceSortMode string

const (
	SortDateDesc MaintenanceSortMode = "date_desc"
	SortDateAsc  MaintenanceSortMode = "date_asc"
	SortCostDesc MaintenanceSortMode = "cost_desc"
	SortCostAsc  MaintenanceSortMode = "cost_asc"
)

func (m MaintenanceSortMode) IsValid() bool {
	switch m {
	case SortDateDesc, SortDateAsc, SortCostDesc, SortCostAsc:
		return true
	}
	return false
}

// CompareMaintenance returns -1, 0 or 1 ordering a before/equal/after b for
// the given mode. Dates compare at calendar-day resolution.
func CompareMaintenance(a, b MaintenanceRecord, mode MaintenanceSortMode) int {
	switch mode {
	case SortDateAsc:
		return compareInt64(a.ReceivedDate.Unix(), b.ReceivedDate.Unix())
	case SortCostDesc:
		return compareInt64(b.Cost.Cents, a.Cost.Cents)
	case SortCostAsc:
		return compareInt64(a.Cost.Cents, b.Cost.Cents)
	default: // SortDateDesc
		return compareInt64(b.ReceivedDate.Unix(), a.ReceivedDate.Unix())
	}
}

// SortMaintenance returns a sorted copy of recs. The sort is stable so ties
// keep their original relative order. Sorting is applied after filtering.
func SortMaintenance(recs []MaintenanceRecord, mode MaintenanceSortMode) []MaintenanceRecord {
	out := make([]MaintenanceRecord, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareMaintenance(out[i], out[j], mode) < 0
	})
	return out
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
