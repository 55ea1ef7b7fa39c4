package http

import (
	"log/slog"
	"net/http"
)

// handleSuppliers renders the provider float balances partial.
func (s *Server) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	sups, err := s.ledger.ListSuppliers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Supplier list error", "error", err)
		_, _ = w.Write([]byte(`<section id="suppliers" class="suppliers"><div class="placeholder">تعذر تحميل أرصدة الموردين</div></section>`))
		return
	}

	type row struct {
		Provider  string
		Balance   string
		Threshold string
		Low       bool
	}
	data := struct {
		Rows []row
	}{}

	for _, sp := range sups {
		data.Rows = append(data.Rows, row{
			Provider:  string(sp.Provider),
			Balance:   formatPounds(sp.CurrentBalance.Cents),
			Threshold: formatPounds(sp.Threshold.Cents),
			Low:       sp.CurrentBalance.Cents < sp.Threshold.Cents,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="suppliers" class="suppliers"><div class="placeholder">لا توجد بيانات</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "suppliers.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "suppliers.html")
		_, _ = w.Write([]byte(`<section id="suppliers" class="suppliers"><div class="placeholder">تعذر عرض أرصدة الموردين</div></section>`))
	}
}
