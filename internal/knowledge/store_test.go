package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/vendorguard/helpassist/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func mustCreate(t *testing.T, store *Store, e TopicEntry) *TopicEntry {
	t.Helper()
	created, err := store.Create(context.Background(), e)
	if err != nil {
		t.Fatalf("Create(%s): %v", e.Topic, err)
	}
	return created
}

func TestCreateAssignsMetadata(t *testing.T) {
	store := setupTestStore(t)

	created := mustCreate(t, store, TopicEntry{
		Context:      ContextGeneral,
		Topic:        "features",
		Keywords:     []string{"Feature", " DASHBOARD "},
		ResponseText: "The platform covers vendor onboarding, assessments and reporting.",
		Suggestions:  []string{"Tell me about assessments"},
	})

	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if !created.Active {
		t.Error("expected new entry to be active")
	}
	if created.UsageCount != 0 {
		t.Errorf("expected usage 0, got %d", created.UsageCount)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	// Keywords are normalized to trimmed lowercase.
	if created.Keywords[0] != "feature" || created.Keywords[1] != "dashboard" {
		t.Errorf("expected normalized keywords, got %v", created.Keywords)
	}
}

func TestCreateValidation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry TopicEntry
	}{
		{"empty response text", TopicEntry{Context: ContextGeneral, Topic: "t", Keywords: []string{"k"}}},
		{"unknown context", TopicEntry{Context: "billing", Topic: "t", Keywords: []string{"k"}, ResponseText: "r"}},
		{"no keywords without default flag", TopicEntry{Context: ContextAssessment, Topic: "t", ResponseText: "x"}},
		{"default with keywords", TopicEntry{Context: ContextGeneral, Topic: "t", Keywords: []string{"k"}, ResponseText: "r", IsDefault: true}},
		{"blank topic", TopicEntry{Context: ContextGeneral, Keywords: []string{"k"}, ResponseText: "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.entry)
			if !IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestOneDefaultPerContext(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "default", ResponseText: "Here is what I can help with.", IsDefault: true,
	})

	_, err := store.Create(ctx, TopicEntry{
		Context: ContextGeneral, Topic: "another default", ResponseText: "Also a default.", IsDefault: true,
	})
	if !IsValidation(err) {
		t.Errorf("expected ValidationError for second default, got %v", err)
	}

	// A default in a different context is fine.
	mustCreate(t, store, TopicEntry{
		Context: ContextAssessment, Topic: "default", ResponseText: "Assessment help.", IsDefault: true,
	})
}

func TestListPreservesDeclarationOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, topic := range []string{"first", "second", "third"} {
		mustCreate(t, store, TopicEntry{
			Context: ContextVendorOnboarding, Topic: topic,
			Keywords: []string{topic}, ResponseText: "about " + topic,
		})
	}

	entries, err := store.List(ctx, ContextVendorOnboarding)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].Topic != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].Topic)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "support", Keywords: []string{"help"}, ResponseText: "Contact support.",
	})

	text := "Contact support at support@example.com."
	updated, err := store.Update(ctx, created.ID, EntryPatch{ResponseText: &text})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ResponseText != text {
		t.Errorf("expected updated response text, got %q", updated.ResponseText)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("expected UpdatedAt to be refreshed")
	}
	// Untouched fields survive a partial patch.
	if updated.Topic != "support" || len(updated.Keywords) != 1 {
		t.Errorf("expected untouched fields to survive, got %+v", updated)
	}
}

func TestUpdateRejectionLeavesEntryUntouched(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "support", Keywords: []string{"help"}, ResponseText: "Contact support.",
	})

	empty := ""
	_, err := store.Update(ctx, created.ID, EntryPatch{ResponseText: &empty})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ResponseText != "Contact support." {
		t.Errorf("rejected update must not persist, got %q", got.ResponseText)
	}
}

func TestUpdateNotFound(t *testing.T) {
	store := setupTestStore(t)

	text := "x"
	_, err := store.Update(context.Background(), "missing", EntryPatch{ResponseText: &text})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeactivateActivateIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, TopicEntry{
		Context: ContextAssessment, Topic: "scoring", Keywords: []string{"score"}, ResponseText: "Scores range 0-100.",
	})

	for i := 0; i < 2; i++ {
		if err := store.Deactivate(ctx, created.ID); err != nil {
			t.Fatalf("Deactivate #%d: %v", i+1, err)
		}
	}

	active, err := store.ListActive(ctx, ContextAssessment)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active entries, got %d", len(active))
	}

	for i := 0; i < 2; i++ {
		if err := store.Activate(ctx, created.ID); err != nil {
			t.Fatalf("Activate #%d: %v", i+1, err)
		}
	}

	active, err = store.ListActive(ctx, ContextAssessment)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("expected 1 active entry, got %d", len(active))
	}
}

func TestDeleteRemovesEntry(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "obsolete", Keywords: []string{"old"}, ResponseText: "Old info.",
	})

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestIncrementUsage(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "features", Keywords: []string{"feature"}, ResponseText: "Feature overview.",
	})

	for i := 0; i < 3; i++ {
		if err := store.IncrementUsage(ctx, created.ID); err != nil {
			t.Fatalf("IncrementUsage: %v", err)
		}
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UsageCount != 3 {
		t.Errorf("expected usage 3, got %d", got.UsageCount)
	}
}

func TestSearch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mustCreate(t, store, TopicEntry{
		Context: ContextVendorOnboarding, Topic: "documents",
		Keywords: []string{"document"}, ResponseText: "Upload your insurance certificate.",
	})
	mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "support",
		Keywords: []string{"help"}, ResponseText: "Contact support.",
	})

	hits, err := store.Search(ctx, "insurance", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Topic != "documents" {
		t.Errorf("expected the documents entry, got %+v", hits)
	}

	hits, err = store.Search(ctx, "support", ContextVendorOnboarding)
	if err != nil {
		t.Fatalf("Search with context: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no vendor-onboarding hits for 'support', got %d", len(hits))
	}
}

func TestStatsProjection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := mustCreate(t, store, TopicEntry{
		Context: ContextGeneral, Topic: "features", Keywords: []string{"feature"}, ResponseText: "Features.",
	})
	b := mustCreate(t, store, TopicEntry{
		Context: ContextAssessment, Topic: "scoring", Keywords: []string{"score"}, ResponseText: "Scoring.",
	})
	mustCreate(t, store, TopicEntry{
		Context: ContextAssessment, Topic: "deadline", Keywords: []string{"deadline"}, ResponseText: "Deadlines.",
	})

	store.Deactivate(ctx, b.ID)
	store.IncrementUsage(ctx, a.ID)
	store.IncrementUsage(ctx, a.ID)
	store.IncrementUsage(ctx, b.ID)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalEntries != 3 {
		t.Errorf("expected 3 total, got %d", stats.TotalEntries)
	}
	if stats.ActiveEntries != 2 {
		t.Errorf("expected 2 active, got %d", stats.ActiveEntries)
	}
	if got := stats.BreakdownByContext[ContextAssessment]; got.Total != 2 || got.Active != 1 {
		t.Errorf("assessment breakdown: expected 2/1, got %d/%d", got.Total, got.Active)
	}
	if len(stats.TopEntriesByUsage) != 2 || stats.TopEntriesByUsage[0].ID != a.ID {
		t.Errorf("expected entry %s on top, got %+v", a.ID, stats.TopEntriesByUsage)
	}
}

func TestParseContext(t *testing.T) {
	for _, hc := range Contexts() {
		if _, err := ParseContext(string(hc)); err != nil {
			t.Errorf("ParseContext(%s): %v", hc, err)
		}
	}
	if _, err := ParseContext("billing"); !IsValidation(err) {
		t.Errorf("expected ValidationError for unknown context, got %v", err)
	}
}
