package http

import (
	"log/slog"
	"net/http"

	"epaypro/internal/core"
)

// handleDashboard renders the stat cards and supplier balance overview.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	sum, err := s.summary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard summary error", "error", err)
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">تعذر تحميل لوحة المتابعة</div></section>`))
		return
	}

	sups, err := s.ledger.ListSuppliers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Supplier list error", "error", err)
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">تعذر تحميل لوحة المتابعة</div></section>`))
		return
	}

	var maxCents int64
	for _, sp := range sups {
		if sp.CurrentBalance.Cents > maxCents {
			maxCents = sp.CurrentBalance.Cents
		}
	}

	type balanceRow struct {
		Provider string
		Balance  string
		Width    int
		Low      bool
	}
	data := struct {
		TransactionCount int
		TotalVolume      string
		TotalCommission  string
		TotalFloat       string
		Balances         []balanceRow
		Alerts           []string
	}{
		TransactionCount: sum.TotalTransactions,
		TotalVolume:      formatPounds(sum.TotalVolume.Cents),
		TotalCommission:  formatPounds(sum.TotalCommission.Cents),
		TotalFloat:       formatPounds(core.TotalSupplierBalance(sups).Cents),
	}

	low := make(map[core.Provider]bool)
	for _, sp := range core.LowBalanceSuppliers(sups) {
		low[sp.Provider] = true
		data.Alerts = append(data.Alerts, string(sp.Provider))
	}

	for _, sp := range sups {
		data.Balances = append(data.Balances, balanceRow{
			Provider: string(sp.Provider),
			Balance:  formatPounds(sp.CurrentBalance.Cents),
			Width:    barWidth(sp.CurrentBalance.Cents, maxCents),
			Low:      low[sp.Provider],
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">إجمالي الحجم: ` + data.TotalVolume + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">تعذر عرض لوحة المتابعة</div></section>`))
	}
}
