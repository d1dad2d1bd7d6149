package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expenso/internal/log"
	"expenso/internal/services"
	"expenso/internal/store/memory"
)

var testNow = time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

func quietLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	st := memory.New(memory.WithClock(func() time.Time { return testNow.Add(-time.Hour) }))
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.BackendName == "" {
		opts.BackendName = "memory"
	}
	s := NewServer(":0",
		services.NewTransactionService(st, nil),
		services.NewDashboardService(st, func() time.Time { return testNow }),
		opts)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func do(s *Server, method, target, body, contentType string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func createTx(t *testing.T, s *Server, body string) TransactionDTO {
	t.Helper()
	rec := do(s, http.MethodPost, "/api/transactions", body, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s: status %d body %s", body, rec.Code, rec.Body.String())
	}
	return decode[TransactionDTO](t, rec)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(s, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec)["status"]; got != "ok" {
		t.Errorf("expected status ok, got %q", got)
	}
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		ready      func(context.Context) error
		wantStatus int
	}{
		{"no check configured", nil, http.StatusOK},
		{"store reachable", func(context.Context) error { return nil }, http.StatusOK},
		{"store down", func(context.Context) error { return errors.New("connection refused") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Options{Ready: tt.ready, BackendName: "sqlite"})
			rec := do(s, http.MethodGet, "/readyz", "", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK {
				if got := decode[map[string]string](t, rec)["store"]; got != "sqlite" {
					t.Errorf("expected store sqlite, got %q", got)
				}
			}
		})
	}
}

func TestCreateTransaction(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantAmount  string
		wantSource  string
	}{
		{
			name:        "expense with string amount rounds half up",
			body:        `{"type":"expense","amount":"12.345","category":"Food","mood":"😊"}`,
			contentType: "application/json",
			wantStatus:  http.StatusCreated,
			wantAmount:  "12.35",
		},
		{
			name:        "expense with numeric amount",
			body:        `{"type":"expense","amount":12.5,"category":"Travel"}`,
			contentType: "application/json",
			wantStatus:  http.StatusCreated,
			wantAmount:  "12.50",
		},
		{
			name:        "form encoded income mirrors source",
			body:        "type=income&amount=1500,00&category=Salary",
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusCreated,
			wantAmount:  "1500.00",
			wantSource:  "Salary",
		},
		{
			name:        "unknown category",
			body:        `{"type":"expense","amount":"5","category":"Rent"}`,
			contentType: "application/json",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "negative amount",
			body:        `{"type":"expense","amount":"-5","category":"Food"}`,
			contentType: "application/json",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "mood on income",
			body:        `{"type":"income","amount":"5","category":"Gift","mood":"😢"}`,
			contentType: "application/json",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "unknown type",
			body:        `{"type":"transfer","amount":"5","category":"Food"}`,
			contentType: "application/json",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "malformed json",
			body:        `{"type":"expense",`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Options{})
			rec := do(s, http.MethodPost, "/api/transactions", tt.body, tt.contentType)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			if tt.wantStatus != http.StatusCreated {
				if decode[ErrorBody](t, rec).Error == "" {
					t.Error("expected an error message")
				}
				return
			}

			tx := decode[TransactionDTO](t, rec)
			if tx.ID == "" {
				t.Error("expected an id")
			}
			if tx.Amount != tt.wantAmount {
				t.Errorf("expected amount %s, got %s", tt.wantAmount, tx.Amount)
			}
			if tx.Source != tt.wantSource {
				t.Errorf("expected source %q, got %q", tt.wantSource, tx.Source)
			}
			if loc := rec.Header().Get("Location"); loc != "/api/transactions/"+tx.ID {
				t.Errorf("unexpected Location %q", loc)
			}
		})
	}
}

func TestCreateTransactionBodyTooLarge(t *testing.T) {
	s := newTestServer(t, Options{})
	body := `{"type":"expense","amount":"5","category":"Food","note":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := do(s, http.MethodPost, "/api/transactions", body, "application/json")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestGetAndDeleteTransaction(t *testing.T) {
	s := newTestServer(t, Options{})
	tx := createTx(t, s, `{"type":"expense","amount":"9.99","category":"Fun","note":"cinema"}`)

	rec := do(s, http.MethodGet, "/api/transactions/"+tx.ID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	if got := decode[TransactionDTO](t, rec); got.Note != "cinema" || got.Amount != "9.99" {
		t.Errorf("unexpected transaction %+v", got)
	}

	if rec := do(s, http.MethodDelete, "/api/transactions/"+tx.ID, "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := do(s, http.MethodGet, "/api/transactions/"+tx.ID, "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", rec.Code)
	}
	if rec := do(s, http.MethodDelete, "/api/transactions/"+tx.ID, "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestListTransactions(t *testing.T) {
	s := newTestServer(t, Options{})
	createTx(t, s, `{"type":"expense","amount":"10","category":"Food"}`)
	createTx(t, s, `{"type":"income","amount":"100","category":"Gift"}`)
	createTx(t, s, `{"type":"expense","amount":"20","category":"Bills"}`)

	tests := []struct {
		query      string
		wantStatus int
		wantCount  int
	}{
		{"", http.StatusOK, 3},
		{"?type=expense", http.StatusOK, 2},
		{"?type=INCOME", http.StatusOK, 1},
		{"?type=bogus", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(s, http.MethodGet, "/api/transactions"+tt.query, "", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			list := decode[TransactionListDTO](t, rec)
			if list.Count != tt.wantCount || len(list.Transactions) != tt.wantCount {
				t.Errorf("expected %d transactions, got %d", tt.wantCount, list.Count)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t, Options{})
	createTx(t, s, `{"type":"income","amount":"100","category":"Salary"}`)
	createTx(t, s, `{"type":"expense","amount":"30.5","category":"Food"}`)
	createTx(t, s, `{"type":"expense","amount":"10","category":"Fun"}`)

	rec := do(s, http.MethodGet, "/api/summary", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sum := decode[SummaryDTO](t, rec)

	if sum.Balance.Income != "100.00" || sum.Balance.Expense != "40.50" || sum.Balance.Balance != "59.50" {
		t.Errorf("unexpected balance %+v", sum.Balance)
	}
	if sum.TopCategory == nil || sum.TopCategory.Category != "Food" {
		t.Errorf("expected Food as top category, got %+v", sum.TopCategory)
	}
	if sum.Today != "40.50" {
		t.Errorf("expected today 40.50, got %s", sum.Today)
	}
	if len(sum.Week) != 7 {
		t.Errorf("expected 7 days, got %d", len(sum.Week))
	}
	if sum.Week[6].Day != "2024-03-15" {
		t.Errorf("expected the last day to be today, got %s", sum.Week[6].Day)
	}
}

func TestInsightsRoastingFlag(t *testing.T) {
	tests := []struct {
		name    string
		def     bool
		query   string
		wantFor bool
	}{
		{"default off", false, "", false},
		{"default on", true, "", true},
		{"query overrides default", true, "?roast=false", false},
		{"query enables", false, "?roast=true", true},
		{"garbage falls back", true, "?roast=maybe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Options{RoastingDefault: tt.def})
			createTx(t, s, `{"type":"expense","amount":"80","category":"Shopping","mood":"😤"}`)

			rec := do(s, http.MethodGet, "/api/insights"+tt.query, "", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			report := decode[ReportDTO](t, rec)
			if report.Roasting != tt.wantFor {
				t.Errorf("expected roasting=%v, got %v", tt.wantFor, report.Roasting)
			}
			if report.Daily == "" {
				t.Error("daily insight is always present")
			}
			if !tt.wantFor && (report.CategoryRoast != "" || report.MoodRoast != "") {
				t.Errorf("roasts must be empty when roasting is off: %+v", report)
			}
			if tt.wantFor && report.MoodRoast == "" {
				t.Error("expected a mood roast")
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, Options{})
	createTx(t, s, `{"type":"expense","amount":"12","category":"Food"}`)

	rec := do(s, http.MethodGet, "/api/dashboard?roast=true", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	dash := decode[DashboardDTO](t, rec)
	if dash.Summary.Count != 1 || !dash.Report.Roasting {
		t.Errorf("unexpected dashboard %+v", dash)
	}
}

func TestCatalogue(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(s, http.MethodGet, "/api/catalogue", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cat := decode[CatalogueDTO](t, rec)
	if len(cat.Categories) != 6 || len(cat.Sources) != 5 || len(cat.Moods) != 5 {
		t.Fatalf("unexpected catalogue sizes: %d categories, %d sources, %d moods",
			len(cat.Categories), len(cat.Sources), len(cat.Moods))
	}
	if cat.Categories[0].Name != "Food" || cat.Categories[0].Color != "#FF6B6B" {
		t.Errorf("unexpected first category %+v", cat.Categories[0])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(s, http.MethodPut, "/api/summary", "", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestMiddlewareChain(t *testing.T) {
	s := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/catalogue", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
	if rec.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}

	if rec := do(s, http.MethodGet, "/api/transactions?next=../../etc/passwd", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected suspicious request to be blocked, got %d", rec.Code)
	}

	m := s.Metrics()
	if m.Requests.TotalRequests != 2 {
		t.Errorf("expected 2 traced requests, got %d", m.Requests.TotalRequests)
	}
	if m.Suspicious != 1 {
		t.Errorf("expected 1 suspicious request, got %d", m.Suspicious)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimitRPM: 2})

	for i := 0; i < 2; i++ {
		if rec := do(s, http.MethodGet, "/api/catalogue", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := do(s, http.MethodGet, "/api/catalogue", "", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if decode[ErrorBody](t, rec).Error == "" {
		t.Error("expected JSON error body")
	}

	if rec := do(s, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Errorf("probes must not be rate limited, got %d", rec.Code)
	}
	if got := s.Metrics().RateLimit.Rejected; got != 1 {
		t.Errorf("expected 1 rejected request, got %d", got)
	}
}

func TestShutdownTwice(t *testing.T) {
	s := newTestServer(t, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}
