package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"epaypro/internal/core"
	applog "epaypro/internal/log"
)

// handleTransactions renders the transaction log partial, optionally
// filtered by a free-text query and a provider.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	query := queryParam(r, "q")
	provider := queryParam(r, "provider")

	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err)
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">تعذر تحميل سجل العمليات</div></section>`))
		return
	}
	txs = core.FilterTransactions(txs, query, provider)

	type row struct {
		Date       string
		Provider   string
		Type       string
		ClientName string
		Amount     string
		Commission string
		Status     string
		Note       string
	}
	data := struct {
		Query    string
		Provider string
		Count    int
		Rows     []row
	}{Query: query, Provider: provider, Count: len(txs)}

	for _, tx := range txs {
		data.Rows = append(data.Rows, row{
			Date:       tx.Date.Format("2006-01-02"),
			Provider:   string(tx.Provider),
			Type:       string(tx.Type),
			ClientName: tx.ClientName,
			Amount:     formatPounds(tx.Amount.Cents),
			Commission: formatPounds(tx.Commission.Cents),
			Status:     string(tx.Status),
			Note:       tx.Note,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">عدد العمليات: ` + strconv.Itoa(data.Count) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transactions.html")
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">تعذر عرض سجل العمليات</div></section>`))
	}
}

// handleCreateTransaction records a transaction submitted from the form.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">صيغة الطلب غير صحيحة</div>`))
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	amountCents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">المبلغ غير صحيح</div>`))
		return
	}

	// Commission is optional and may legitimately be zero.
	var commissionCents int64
	if v := strings.TrimSpace(r.Form.Get("commission")); v != "" {
		commissionCents, err = core.ParseSignedDecimalToCents(v)
		if err != nil || commissionCents < 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">العمولة غير صحيحة</div>`))
			return
		}
	}

	tx := core.Transaction{
		Provider:   core.Provider(formValue(r, "provider")),
		Type:       core.TransactionType(formValue(r, "type")),
		Amount:     core.Money{Cents: amountCents},
		Commission: core.Money{Cents: commissionCents},
		ClientName: formValue(r, "client_name"),
		Status:     core.StatusCompleted,
		Note:       formValue(r, "note"),
	}
	if v := formValue(r, "status"); v != "" {
		tx.Status = core.TransactionStatus(v)
	}
	if err := tx.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">بيانات غير صحيحة: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	ref, err := s.ledger.RecordTransaction(r.Context(), tx)
	if err != nil {
		fields := applog.NewFields().
			WithError(err).
			WithOperation(applog.OpCreate).
			WithTransaction(tx.ID, string(tx.Provider), tx.ClientName, tx.Amount.Cents)
		slog.ErrorContext(r.Context(), "Transaction record error", fields.ToSlice()...)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">تعذر حفظ العملية</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">تم تسجيل العملية (#` + template.HTMLEscapeString(ref) + `): ` +
		template.HTMLEscapeString(tx.ClientName) +
		` — ` + template.HTMLEscapeString(formatPounds(tx.Amount.Cents)) +
		` (` + template.HTMLEscapeString(string(tx.Provider)) + `)</div>`))
}
