package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"epaypro/internal/cache"
	"epaypro/internal/core"
	"epaypro/internal/ledger/memory"
	"epaypro/internal/services"
)

func testSuppliers() []core.Supplier {
	return []core.Supplier{
		{ID: "s1", Provider: core.ProviderFawry, CurrentBalance: core.Money{Cents: 150_000_00}, Threshold: core.Money{Cents: 20_000_00}},
		{ID: "s2", Provider: core.ProviderAman, CurrentBalance: core.Money{Cents: 5_000_00}, Threshold: core.Money{Cents: 10_000_00}},
	}
}

func testClients() []core.Client {
	return []core.Client{
		{ID: "c1", Code: "1001", Name: "أحمد محمود", Phone: "01001234567", Balance: core.Money{Cents: 250_00}, LastTransaction: core.NoTransactions},
	}
}

func newTestServer() *Server {
	store := memory.New(testSuppliers(), testClients())
	svc := services.NewLedgerService(store, nil)
	return NewServer(":0", svc, nil)
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "إدارة خدمات الدفع الإلكتروني") {
		t.Fatalf("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestDashboardPartial(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/dashboard", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "فوري") {
		t.Errorf("dashboard missing provider balance row: %s", body)
	}
	// Aman sits under its threshold and must raise an alert.
	if !strings.Contains(body, "تنبيه") || !strings.Contains(body, "أمان") {
		t.Errorf("dashboard missing low balance alert: %s", body)
	}
}

func TestCreateTransactionValidationAndSuccess(t *testing.T) {
	srv := newTestServer()

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader("provider=فوري&type=تحويل لعميل&client_name=x&amount=abc"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 422 {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Unknown provider
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader("provider=nope&type=تحويل لعميل&client_name=x&amount=10"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 422 {
		t.Fatalf("expected 422 for unknown provider, got %d", rr.Code)
	}

	// Success
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader("provider=فوري&type=تحويل لعميل&client_name=أحمد&amount=100.50&commission=1.25"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success in body: %s", rr.Body.String())
	}
	if rr.Header().Get("HX-Trigger") == "" {
		t.Error("expected HX-Trigger header on successful create")
	}

	// The debit shows up in the transaction log.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), "أحمد") {
		t.Errorf("transaction log missing new entry: %s", rr.Body.String())
	}
}

func TestCreateTransactionCommissionBoundaries(t *testing.T) {
	srv := newTestServer()

	// An explicit zero commission is valid input.
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader("provider=فوري&type=تحويل لعميل&client_name=أحمد&amount=100&commission=0"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("zero commission should be accepted, got %d: %s", rr.Code, rr.Body.String())
	}

	// Negative commission is not.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader("provider=فوري&type=تحويل لعميل&client_name=أحمد&amount=100&commission=-5"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 422 {
		t.Fatalf("negative commission should be rejected, got %d", rr.Code)
	}
}

func TestTransactionsFilter(t *testing.T) {
	srv := newTestServer()

	for _, form := range []string{
		"provider=فوري&type=تحويل لعميل&client_name=أحمد&amount=10",
		"provider=أمان&type=عمولة&client_name=سارة&amount=20",
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("seed transaction failed: %d", rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/transactions?provider="+escapeQuery("فوري"), nil)
	srv.Handler.ServeHTTP(rr, req)
	body := rr.Body.String()
	if !strings.Contains(body, "أحمد") || strings.Contains(body, "سارة") {
		t.Errorf("provider filter not applied: %s", body)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/transactions?q="+escapeQuery("سارة"), nil)
	srv.Handler.ServeHTTP(rr, req)
	body = rr.Body.String()
	if strings.Contains(body, "أحمد") || !strings.Contains(body, "سارة") {
		t.Errorf("query filter not applied: %s", body)
	}
}

func TestCreateClientAssignsCode(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/clients",
		strings.NewReader("name=منى&phone=01007654321&balance=0"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/clients", nil)
	srv.Handler.ServeHTTP(rr, req)
	// Seeded client holds 1001, so the new one gets 1002.
	if !strings.Contains(rr.Body.String(), "1002") {
		t.Errorf("client list missing assigned code: %s", rr.Body.String())
	}
}

func TestMaintenanceLifecycle(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/maintenance",
		strings.NewReader("serial_number=POS-77&client_name=خالد&issue=شاشة مكسورة&cost=350"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("open ticket: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/maintenance", nil)
	srv.Handler.ServeHTTP(rr, req)
	body := rr.Body.String()
	if !strings.Contains(body, "POS-77") || !strings.Contains(body, string(core.MaintenancePending)) {
		t.Fatalf("ticket should open in pending state: %s", body)
	}

	// Extract the ticket id from the store via the service path: update an
	// unknown id first to confirm the 404 branch.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/maintenance/status",
		strings.NewReader("id=missing&status="+string(core.MaintenanceFixed)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown ticket, got %d", rr.Code)
	}

	recs, err := srv.ledger.ListMaintenance(context.Background())
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected one ticket, got %d (err=%v)", len(recs), err)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/maintenance/status",
		strings.NewReader("id="+recs[0].ID+"&status="+string(core.MaintenanceFixed)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status update: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), string(core.MaintenanceFixed)) {
		t.Errorf("status update response missing new status: %s", rr.Body.String())
	}
}

func TestMaintenanceSortParam(t *testing.T) {
	srv := newTestServer()

	for _, form := range []string{
		"serial_number=A&client_name=خالد&issue=عطل&cost=100",
		"serial_number=B&client_name=خالد&issue=عطل&cost=900",
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/maintenance", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("seed ticket failed: %d", rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/maintenance?sort=cost_desc", nil)
	srv.Handler.ServeHTTP(rr, req)
	body := rr.Body.String()
	if strings.Index(body, ">B<") > strings.Index(body, ">A<") {
		t.Errorf("cost_desc should list the expensive ticket first: %s", body)
	}
}

type slowGenerator struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
	text  string
	err   error
}

func (g *slowGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	return g.text, g.err
}

func TestInsightGeneratesReport(t *testing.T) {
	store := memory.New(testSuppliers(), testClients())
	svc := services.NewLedgerService(store, nil)
	gen := &slowGenerator{text: "الوضع المالي مستقر"}
	srv := NewServer(":0", svc, gen)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ui/insight", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("insight status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "الوضع المالي مستقر") {
		t.Errorf("insight missing generated text: %s", rr.Body.String())
	}
}

func TestInsightFallbackOnError(t *testing.T) {
	store := memory.New(testSuppliers(), testClients())
	svc := services.NewLedgerService(store, nil)
	gen := &slowGenerator{err: context.DeadlineExceeded}
	srv := NewServer(":0", svc, gen)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ui/insight", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("insight status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "عذراً، تعذر تحليل البيانات حالياً") {
		t.Errorf("insight should fall back on generator error: %s", rr.Body.String())
	}
}

func TestInsightBusyGuard(t *testing.T) {
	store := memory.New(testSuppliers(), testClients())
	svc := services.NewLedgerService(store, nil)
	gen := &slowGenerator{text: "تقرير", delay: 200 * time.Millisecond}
	srv := NewServer(":0", svc, gen)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ui/insight", nil)
		srv.Handler.ServeHTTP(rr, req)
	}()

	time.Sleep(50 * time.Millisecond)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ui/insight", nil)
	srv.Handler.ServeHTTP(rr, req)
	wg.Wait()

	if !strings.Contains(rr.Body.String(), "جاري التحليل") {
		t.Errorf("second concurrent request should get the busy indicator: %s", rr.Body.String())
	}
	gen.mu.Lock()
	defer gen.mu.Unlock()
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}

func TestInsightWithoutGeneratorFallsBack(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ui/insight", nil)
	srv.Handler.ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), "عذراً، تعذر تحليل البيانات حالياً") {
		t.Errorf("missing generator should render the fallback: %s", rr.Body.String())
	}
}

func TestInsightEscapesGeneratedMarkup(t *testing.T) {
	store := memory.New(testSuppliers(), testClients())
	svc := services.NewLedgerService(store, nil)
	gen := &slowGenerator{text: `تقرير <script>alert(1)</script>`}
	srv := NewServer(":0", svc, gen)
	// Exercise the raw fallback writer used when template parsing failed.
	srv.templates = nil

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ui/insight", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("insight status=%d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("generated markup must not reach the page unescaped: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("generated markup should be escaped: %s", body)
	}
}

// mutatingStore lands a write between the version read and the list reads,
// the narrowest interleaving a concurrent request can produce.
type mutatingStore struct {
	*memory.Store
	once sync.Once
}

func (m *mutatingStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	m.once.Do(func() {
		_, _ = m.Store.RecordTransaction(ctx, core.Transaction{
			Provider: core.ProviderFawry, Type: core.TypePayout,
			Amount: core.Money{Cents: 100}, ClientName: "x", Status: core.StatusCompleted,
		})
	})
	return m.Store.ListTransactions(ctx)
}

func TestSummarySkipsCacheWhenLedgerMovesUnderneath(t *testing.T) {
	store := &mutatingStore{Store: memory.New(testSuppliers(), testClients())}
	svc := services.NewLedgerService(store, nil)
	srv := NewServer(":0", svc, nil)
	ctx := context.Background()

	before := svc.Version(ctx)
	sum, err := srv.summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalTransactions != 1 {
		t.Fatalf("summary should see the interleaved write, got %d transactions", sum.TotalTransactions)
	}
	if _, found := srv.summaryCache.Get(cache.VersionKey("summary", before)); found {
		t.Errorf("post-write aggregates must not be cached under the pre-write version key")
	}

	// The next call runs on a settled ledger and memoizes normally.
	after := svc.Version(ctx)
	if _, err := srv.summary(ctx); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if _, found := srv.summaryCache.Get(cache.VersionKey("summary", after)); !found {
		t.Errorf("settled summary should be memoized under the current version key")
	}
}

func escapeQuery(s string) string {
	r := strings.NewReplacer(" ", "%20")
	return r.Replace(s)
}
