package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"epaypro/internal/core"
)

// handleClients renders the reseller list partial.
func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	clients, err := s.ledger.ListClients(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Client list error", "error", err)
		_, _ = w.Write([]byte(`<section id="clients" class="clients"><div class="placeholder">تعذر تحميل قائمة العملاء</div></section>`))
		return
	}

	type row struct {
		Code            string
		Name            string
		Phone           string
		Balance         string
		Negative        bool
		LastTransaction string
	}
	data := struct {
		Count int
		Rows  []row
	}{Count: len(clients)}

	for _, c := range clients {
		data.Rows = append(data.Rows, row{
			Code:            c.Code,
			Name:            c.Name,
			Phone:           c.Phone,
			Balance:         formatPounds(c.Balance.Cents),
			Negative:        c.Balance.Cents < 0,
			LastTransaction: c.LastTransaction,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="clients" class="clients"><div class="placeholder">لا توجد بيانات</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "clients.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "clients.html")
		_, _ = w.Write([]byte(`<section id="clients" class="clients"><div class="placeholder">تعذر عرض قائمة العملاء</div></section>`))
	}
}

// handleCreateClient registers a reseller; the ledger assigns the code.
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
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

	var balanceCents int64
	if v := strings.TrimSpace(r.Form.Get("balance")); v != "" {
		var err error
		balanceCents, err = core.ParseSignedDecimalToCents(v)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">الرصيد الافتتاحي غير صحيح</div>`))
			return
		}
	}

	c := core.Client{
		Name:    formValue(r, "name"),
		Phone:   formValue(r, "phone"),
		Balance: core.Money{Cents: balanceCents},
	}
	if err := c.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">بيانات غير صحيحة: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	ref, err := s.ledger.RegisterClient(r.Context(), c)
	if err != nil {
		slog.ErrorContext(r.Context(), "Client register error", "error", err, "name", c.Name)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">تعذر إضافة العميل</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">تمت إضافة العميل (#` + template.HTMLEscapeString(ref) + `): ` +
		template.HTMLEscapeString(c.Name) + `</div>`))
}
