package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"epaypro/internal/cache"
	"epaypro/internal/core"
	"epaypro/internal/insight"
	applog "epaypro/internal/log"
	"epaypro/internal/services"
	appweb "epaypro/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	ledger      *services.LedgerService
	generator   insight.Generator
	rateLimiter *rateLimiter

	// Derived dashboard aggregates, keyed by ledger version so any write
	// invalidates them implicitly.
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager

	// Guards the single in-flight AI report generation.
	insightMu   sync.Mutex
	insightBusy bool

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.LedgerService, gen insight.Generator) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       ledger,
		generator:    gen,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[core.Summary](50, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Tiny cache for static assets
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// Ledger mutations
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("/clients", s.withSecurityHeaders(s.handleCreateClient))
	mux.HandleFunc("/maintenance", s.withSecurityHeaders(s.handleCreateMaintenance))
	mux.HandleFunc("/maintenance/status", s.withSecurityHeaders(s.handleMaintenanceStatus))

	// UI partials
	mux.HandleFunc("/ui/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/ui/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/ui/clients", s.withSecurityHeaders(s.handleClients))
	mux.HandleFunc("/ui/suppliers", s.withSecurityHeaders(s.handleSuppliers))
	mux.HandleFunc("/ui/maintenance", s.withSecurityHeaders(s.handleMaintenance))
	mux.HandleFunc("/ui/insight", s.withSecurityHeaders(s.handleInsight))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()

		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		startFields := applog.NewFields().
			WithRequestID(requestID).
			WithClientIP(clientIP).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer"))
		slog.InfoContext(ctx, "Request started", startFields.ToSlice()...)

		// Apply rate limiting to mutations
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		endFields := applog.NewFields().
			WithRequestID(requestID).
			WithClientIP(clientIP).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
			WithHTTPResponse(rw.statusCode, duration.Milliseconds(), rw.statusCode < 400)
		slog.InfoContext(ctx, "Request completed", endFields.ToSlice()...)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today     string
		Providers []core.Provider
		Types     []core.TransactionType
		Statuses  []core.MaintenanceStatus
	}{
		Today:     core.Today().String(),
		Providers: core.Providers(),
		Types:     core.TransactionTypes(),
		Statuses:  core.MaintenanceStatuses(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// summary returns the dashboard aggregates, memoized per ledger version.
func (s *Server) summary(ctx context.Context) (core.Summary, error) {
	version := s.ledger.Version(ctx)
	key := cache.VersionKey("summary", version)
	if sum, found := s.summaryCache.Get(key); found {
		slog.DebugContext(ctx, "Summary cache hit", "key", key)
		return sum, nil
	}

	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	sups, err := s.ledger.ListSuppliers(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	sum := core.BuildSummary(txs, sups)
	// Cache only when the ledger did not move between the version read and
	// the list reads, so a concurrent mutation cannot park newer data under
	// an older key.
	if s.ledger.Version(ctx) == version {
		s.summaryCache.Set(key, sum)
	}
	return sum, nil
}
