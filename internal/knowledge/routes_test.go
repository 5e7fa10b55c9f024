package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func setupTestRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestCreateEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	body := `{"context":"general","topic":"support","keywords":["help","contact"],"response_text":"Contact support via the help menu."}`
	req := httptest.NewRequest(http.MethodPost, "/api/kb/entries", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created TopicEntry
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.ID == "" || !created.Active {
		t.Errorf("expected active entry with ID, got %+v", created)
	}
}

func TestCreateEndpointValidation(t *testing.T) {
	r, _ := setupTestRouter(t)

	// Keywords absent and not flagged default: ambiguous, rejected.
	body := `{"context":"assessment","keywords":[],"topic":"x","response_text":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/api/kb/entries", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	r, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/kb/entries/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestListEndpointFilters(t *testing.T) {
	r, store := setupTestRouter(t)
	ctx := context.Background()

	mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "features", Keywords: []string{"feature"}, ResponseText: "Features.",
	})
	inactive := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "legacy", Keywords: []string{"legacy"}, ResponseText: "Old.",
	})
	mustCreate(t, store, TopicEntry{
		Context: ContextAssessment, Topic: "scoring", Keywords: []string{"score"}, ResponseText: "Scoring.",
	})
	store.Deactivate(ctx, inactive.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/kb/entries?context=general&active=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []TopicEntry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 1 || entries[0].Topic != "features" {
		t.Errorf("expected only the active general entry, got %+v", entries)
	}
}

func TestUpdateEndpoint(t *testing.T) {
	r, store := setupTestRouter(t)

	created := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "support", Keywords: []string{"help"}, ResponseText: "Contact support.",
	})

	body := `{"response_text":"Email help@vendorguard.io."}`
	req := httptest.NewRequest(http.MethodPut, "/api/kb/entries/"+created.ID, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated TopicEntry
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.ResponseText != "Email help@vendorguard.io." {
		t.Errorf("expected patched text, got %q", updated.ResponseText)
	}
}

func TestDeleteEndpointRequiresConfirmation(t *testing.T) {
	r, store := setupTestRouter(t)

	created := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "obsolete", Keywords: []string{"old"}, ResponseText: "Old.",
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/kb/entries/"+created.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 without confirm, got %d", w.Code)
	}

	// Entry must still exist after the refused delete.
	if _, err := store.Get(context.Background(), created.ID); err != nil {
		t.Fatalf("entry vanished without confirmation: %v", err)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/kb/entries/"+created.ID+"?confirm=true", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with confirm, got %d", w.Code)
	}
}

func TestDeactivateEndpoint(t *testing.T) {
	r, store := setupTestRouter(t)

	created := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "features", Keywords: []string{"feature"}, ResponseText: "Features.",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/kb/entries/"+created.ID+"/deactivate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entry TopicEntry
	json.NewDecoder(w.Body).Decode(&entry)
	if entry.Active {
		t.Error("expected entry to be inactive")
	}
}

func TestStatsEndpoint(t *testing.T) {
	r, store := setupTestRouter(t)

	mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "features", Keywords: []string{"feature"}, ResponseText: "Features.",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/kb/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.TotalEntries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.TotalEntries)
	}
}
