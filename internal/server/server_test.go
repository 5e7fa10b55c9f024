package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vendorguard/helpassist/internal/db"
	"github.com/vendorguard/helpassist/internal/knowledge"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{Port: 0, DataDir: t.TempDir()}, database, logger)
}

func TestHealthz(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestFeatureRoutesMount(t *testing.T) {
	s := setupTestServer(t)
	knowledge.RegisterRoutes(s.Router(), knowledge.NewStore(s.Database()))

	req := httptest.NewRequest(http.MethodGet, "/api/kb/entries", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from mounted kb routes, got %d", w.Code)
	}
}
