package knowledge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the knowledge base admin API.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/kb", func(r chi.Router) {
		r.Get("/entries", handleListEntries(store))
		r.Get("/entries/search", handleSearchEntries(store))
		r.Get("/entries/{id}", handleGetEntry(store))
		r.Post("/entries", handleCreateEntry(store))
		r.Put("/entries/{id}", handleUpdateEntry(store))
		r.Post("/entries/{id}/activate", handleSetActive(store, true))
		r.Post("/entries/{id}/deactivate", handleSetActive(store, false))
		r.Delete("/entries/{id}", handleDeleteEntry(store))
		r.Get("/stats", handleStats(store))
		r.Get("/contexts", handleListContexts())
	})
}

func handleListEntries(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hc := HelpContext(r.URL.Query().Get("context"))
		entries, err := store.List(r.Context(), hc)
		if err != nil {
			writeError(w, err)
			return
		}
		if r.URL.Query().Get("active") == "true" {
			filtered := entries[:0]
			for _, e := range entries {
				if e.Active {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}
		if entries == nil {
			entries = []TopicEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleSearchEntries(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, `{"error":"q parameter is required"}`, http.StatusBadRequest)
			return
		}
		hc := HelpContext(r.URL.Query().Get("context"))

		entries, err := store.Search(r.Context(), query, hc)
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []TopicEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleGetEntry(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleCreateEntry(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e TopicEntry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		created, err := store.Create(r.Context(), e)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func handleUpdateEntry(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch EntryPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		updated, err := store.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func handleSetActive(store *Store, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var err error
		if active {
			err = store.Activate(r.Context(), id)
		} else {
			err = store.Deactivate(r.Context(), id)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		entry, err := store.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

// handleDeleteEntry hard-deletes an entry. The caller must acknowledge
// the destructive nature with ?confirm=true; deactivation is the soft
// path.
func handleDeleteEntry(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error": "hard delete is permanent and removes usage history; pass confirm=true or use deactivate instead",
			})
			return
		}
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleStats(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleListContexts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Contexts())
	}
}

// writeError maps the store error taxonomy onto HTTP statuses:
// ValidationError 400, ErrNotFound 404, ErrStoreUnavailable 503.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
