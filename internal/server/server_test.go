package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"calibreport/internal/app"
	"calibreport/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	a, err := app.New(cfg, nil)
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return NewServer(a.Handler(), false, nil)
}

func TestIndexServed(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/anything"} {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "不确定度") {
			t.Fatalf("%s: index page not served", path)
		}
	}
}

func TestMissingReferenceWorkbook(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session/instrument", strings.NewReader(`{"name":"角度仪"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "table_unavailable") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/status", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
}
