package core

import "strconv"

// Summary is the structured input handed to the AI insight prompt.
type Summary struct {
	TotalTransactions int
	TotalVolume       Money
	TotalCommission   Money
	LowBalances       []Provider
	TopProviders      []Provider
}

// TotalVolume sums transaction amounts over the full collection.
func TotalVolume(txs []Transaction) Money {
	var total Money
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

// TotalCommission sums commissions over the full collection.
func TotalCommission(txs []Transaction) Money {
	var total Money
	for _, tx := range txs {
		total = total.Add(tx.Commission)
	}
	return total
}

// TransactionCount returns the number of recorded transactions.
func TransactionCount(txs []Transaction) int {
	return len(txs)
}

// TotalSupplierBalance sums the float held with every supplier.
func TotalSupplierBalance(sups []Supplier) Money {
	var total Money
	for _, s := range sups {
		total = total.Add(s.CurrentBalance)
	}
	return total
}

// LowBalanceSuppliers returns the suppliers whose float is strictly below
// their alert threshold. A balance exactly at the threshold is not low.
func LowBalanceSuppliers(sups []Supplier) []Supplier {
	out := make([]Supplier, 0, len(sups))
	for _, s := range sups {
		if s.CurrentBalance.Cents < s.Threshold.Cents {
			out = append(out, s)
		}
	}
	return out
}

// NextClientCode derives the next client code from the existing clients:
// the maximum numeric code plus one, rendered as a string. Unparseable
// codes are ignored and an empty collection (or one with no numeric codes)
// yields "1001". The call is a pure read, it does not reserve the code.
func NextClientCode(clients []Client) string {
	maxCode := 1000
	for _, c := range clients {
		n, err := strconv.Atoi(c.Code)
		if err != nil {
			continue
		}
		if n > maxCode {
			maxCode = n
		}
	}
	return strconv.Itoa(maxCode + 1)
}

// ActiveProviders returns the distinct providers appearing in the
// transaction log, in first-appearance order. Despite feeding the summary's
// "most active providers" line, this is a distinct set, not a ranking.
func ActiveProviders(txs []Transaction) []Provider {
	seen := map[Provider]struct{}{}
	out := make([]Provider, 0, len(txs))
	for _, tx := range txs {
		if _, ok := seen[tx.Provider]; ok {
			continue
		}
		seen[tx.Provider] = struct{}{}
		out = append(out, tx.Provider)
	}
	return out
}

// BuildSummary computes the financial snapshot consumed by the dashboard
// and the AI insight prompt. Both inputs are the full collections, not
// filtered views.
func BuildSummary(txs []Transaction, sups []Supplier) Summary {
	low := LowBalanceSuppliers(sups)
	lowProviders := make([]Provider, 0, len(low))
	for _, s := range low {
		lowProviders = append(lowProviders, s.Provider)
	}
	return Summary{
		TotalTransactions: TransactionCount(txs),
		TotalVolume:       TotalVolume(txs),
		TotalCommission:   TotalCommission(txs),
		LowBalances:       lowProviders,
		TopProviders:      ActiveProviders(txs),
	}
}
