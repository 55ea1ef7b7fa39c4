package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"epaypro/internal/insight"
)

// handleInsight generates the Arabic financial report. Only one generation
// runs at a time: requests arriving while one is in flight get a busy
// indicator instead of a second upstream call.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	s.insightMu.Lock()
	if s.insightBusy {
		s.insightMu.Unlock()
		_, _ = w.Write([]byte(`<div id="insight" class="insight busy">جاري التحليل...</div>`))
		return
	}
	s.insightBusy = true
	s.insightMu.Unlock()

	defer func() {
		s.insightMu.Lock()
		s.insightBusy = false
		s.insightMu.Unlock()
	}()

	text := insight.Fallback
	if s.generator != nil {
		sum, err := s.summary(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Insight summary error", "error", err)
		} else {
			// No timeout here: generation is allowed to take as long as
			// the request context lives.
			generated, err := s.generator.Generate(r.Context(), insight.BuildPrompt(sum))
			if err != nil {
				slog.ErrorContext(r.Context(), "Insight generation error", "error", err)
			} else {
				text = generated
			}
		}
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<div id="insight" class="insight">` + template.HTMLEscapeString(text) + `</div>`))
		return
	}
	data := struct {
		Text string
	}{Text: text}
	if err := s.templates.ExecuteTemplate(w, "insight.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "insight.html")
		_, _ = w.Write([]byte(`<div id="insight" class="insight">` + insight.Fallback + `</div>`))
	}
}
