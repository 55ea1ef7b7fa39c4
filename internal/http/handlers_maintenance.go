package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"epaypro/internal/core"
	"epaypro/internal/ledger/memory"
)

// handleMaintenance renders the repair ticket partial. Filtering runs
// before sorting; an unknown sort mode falls back to newest-first.
func (s *Server) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	query := queryParam(r, "q")
	status := queryParam(r, "status")
	sortMode := core.MaintenanceSortMode(queryParam(r, "sort"))
	if !sortMode.IsValid() {
		sortMode = core.SortDateDesc
	}

	recs, err := s.ledger.ListMaintenance(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Maintenance list error", "error", err)
		_, _ = w.Write([]byte(`<section id="maintenance" class="maintenance"><div class="placeholder">تعذر تحميل تذاكر الصيانة</div></section>`))
		return
	}
	recs = core.SortMaintenance(core.FilterMaintenance(recs, query, status), sortMode)

	type row struct {
		ID           string
		SerialNumber string
		ClientName   string
		Issue        string
		ReceivedDate string
		Status       string
		Cost         string
	}
	data := struct {
		Query    string
		Status   string
		Sort     string
		Count    int
		Statuses []core.MaintenanceStatus
		Rows     []row
	}{
		Query:    query,
		Status:   status,
		Sort:     string(sortMode),
		Count:    len(recs),
		Statuses: core.MaintenanceStatuses(),
	}

	for _, rec := range recs {
		data.Rows = append(data.Rows, row{
			ID:           rec.ID,
			SerialNumber: rec.SerialNumber,
			ClientName:   rec.ClientName,
			Issue:        rec.Issue,
			ReceivedDate: rec.ReceivedDate.String(),
			Status:       string(rec.Status),
			Cost:         formatPounds(rec.Cost.Cents),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="maintenance" class="maintenance"><div class="placeholder">لا توجد بيانات</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "maintenance.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "maintenance.html")
		_, _ = w.Write([]byte(`<section id="maintenance" class="maintenance"><div class="placeholder">تعذر عرض تذاكر الصيانة</div></section>`))
	}
}

// handleCreateMaintenance opens a repair ticket. New tickets always start
// in the pending state regardless of the submitted form.
func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
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

	var costCents int64
	if v := strings.TrimSpace(r.Form.Get("cost")); v != "" {
		var err error
		costCents, err = core.ParseSignedDecimalToCents(v)
		if err != nil || costCents < 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">تكلفة الإصلاح غير صحيحة</div>`))
			return
		}
	}

	rec := core.MaintenanceRecord{
		SerialNumber: formValue(r, "serial_number"),
		ClientName:   formValue(r, "client_name"),
		Issue:        formValue(r, "issue"),
		Cost:         core.Money{Cents: costCents},
		Status:       core.MaintenancePending,
	}
	if v := formValue(r, "received_date"); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			rec.ReceivedDate = d
		}
	}
	if err := rec.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">بيانات غير صحيحة: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	ref, err := s.ledger.OpenMaintenance(r.Context(), rec)
	if err != nil {
		slog.ErrorContext(r.Context(), "Maintenance open error", "error", err, "serial", rec.SerialNumber)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">تعذر فتح التذكرة</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">تم فتح تذكرة صيانة (#` + template.HTMLEscapeString(ref) + `): ` +
		template.HTMLEscapeString(rec.SerialNumber) + `</div>`))
}

// handleMaintenanceStatus moves a ticket to the selected status. Any state
// may move to any other, including back to pending.
func (s *Server) handleMaintenanceStatus(w http.ResponseWriter, r *http.Request) {
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

	id := formValue(r, "id")
	status := core.MaintenanceStatus(formValue(r, "status"))

	rec, err := s.ledger.UpdateMaintenanceStatus(r.Context(), id, status)
	if err != nil {
		switch {
		case errors.Is(err, memory.ErrTicketNotFound):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<div class="error">التذكرة غير موجودة</div>`))
		case errors.Is(err, core.ErrInvalidStatus):
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">حالة غير صحيحة</div>`))
		default:
			slog.ErrorContext(r.Context(), "Maintenance status error", "error", err, "id", id)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<div class="error">تعذر تحديث الحالة</div>`))
		}
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">تم تحديث الحالة إلى: ` +
		template.HTMLEscapeString(string(rec.Status)) + `</div>`))
}
