package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendorguard/helpassist/internal/db"
)

// Store manages persistence of topic entries.
type Store struct {
	db *db.DB
}

// NewStore creates a new knowledge base store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

const entryColumns = `id, context, topic, keywords, response_text, suggestions, is_default, active, usage_count, position, created_at, updated_at`

// List returns entries, optionally filtered by context, in declaration
// order (the order the resolver scans them in).
func (s *Store) List(ctx context.Context, hc HelpContext) ([]TopicEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM topic_entries`
	args := []interface{}{}
	if hc != "" {
		if _, err := ParseContext(string(hc)); err != nil {
			return nil, err
		}
		query += ` WHERE context = ?`
		args = append(args, string(hc))
	}
	query += ` ORDER BY context, position ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("listing entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListActive returns active entries for one context in declaration order.
func (s *Store) ListActive(ctx context.Context, hc HelpContext) ([]TopicEntry, error) {
	if _, err := ParseContext(string(hc)); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM topic_entries
		 WHERE context = ? AND active = 1 ORDER BY position ASC`,
		string(hc),
	)
	if err != nil {
		return nil, unavailable("listing active entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Get retrieves an entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*TopicEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM topic_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("getting entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("getting entry", err)
	}
	return e, nil
}

// Create validates and inserts a new entry. The ID, timestamps and
// position are assigned by the store.
func (s *Store) Create(ctx context.Context, e TopicEntry) (*TopicEntry, error) {
	e.Keywords = normalizeKeywords(e.Keywords)
	if err := validate(&e); err != nil {
		return nil, err
	}

	e.ID = uuid.New().String()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.Active = true
	e.UsageCount = 0

	// Next position within the context keeps declaration order stable.
	var maxPos sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM topic_entries WHERE context = ?`, string(e.Context),
	).Scan(&maxPos)
	if err != nil {
		return nil, unavailable("assigning position", err)
	}
	e.Position = int(maxPos.Int64) + 1

	keywords, suggestions := marshalLists(e)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO topic_entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Context), e.Topic, keywords, e.ResponseText, suggestions,
		boolToInt(e.IsDefault), boolToInt(e.Active), e.UsageCount, e.Position, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if e.IsDefault && isUniqueViolation(err) {
			return nil, &ValidationError{Field: "is_default", Reason: fmt.Sprintf("context %s already has a default entry", e.Context)}
		}
		return nil, unavailable("inserting entry", err)
	}

	return &e, nil
}

// Update applies a patch to an existing entry and refreshes UpdatedAt.
// The patched entry is re-validated in full; on rejection nothing is
// written.
func (s *Store) Update(ctx context.Context, id string, patch EntryPatch) (*TopicEntry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Topic != nil {
		e.Topic = *patch.Topic
	}
	if patch.Keywords != nil {
		e.Keywords = normalizeKeywords(*patch.Keywords)
	}
	if patch.ResponseText != nil {
		e.ResponseText = *patch.ResponseText
	}
	if patch.Suggestions != nil {
		e.Suggestions = *patch.Suggestions
	}
	if patch.IsDefault != nil {
		e.IsDefault = *patch.IsDefault
	}

	if err := validate(e); err != nil {
		return nil, err
	}
	e.UpdatedAt = time.Now().UTC()

	keywords, suggestions := marshalLists(*e)
	_, err = s.db.ExecContext(ctx,
		`UPDATE topic_entries
		 SET topic = ?, keywords = ?, response_text = ?, suggestions = ?, is_default = ?, updated_at = ?
		 WHERE id = ?`,
		e.Topic, keywords, e.ResponseText, suggestions, boolToInt(e.IsDefault), e.UpdatedAt, e.ID,
	)
	if err != nil {
		if e.IsDefault && isUniqueViolation(err) {
			return nil, &ValidationError{Field: "is_default", Reason: fmt.Sprintf("context %s already has a default entry", e.Context)}
		}
		return nil, unavailable("updating entry", err)
	}

	return e, nil
}

// Deactivate excludes an entry from resolution. Idempotent: deactivating
// an inactive entry succeeds.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Activate re-includes an entry in resolution. Idempotent.
func (s *Store) Activate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *Store) setActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE topic_entries SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), time.Now().UTC(), id,
	)
	if err != nil {
		return unavailable("setting active flag", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("setting active flag", err)
	}
	if n == 0 {
		return fmt.Errorf("setting active flag on %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete permanently removes an entry. Callers are expected to confirm
// destructively first; Deactivate is the soft alternative.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM topic_entries WHERE id = ?`, id)
	if err != nil {
		return unavailable("deleting entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("deleting entry", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// IncrementUsage bumps an entry's match counter. Best-effort: the
// resolver logs and ignores failures so a counting hiccup never blocks
// reply delivery.
func (s *Store) IncrementUsage(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE topic_entries SET usage_count = usage_count + 1 WHERE id = ?`, id)
	if err != nil {
		return unavailable("incrementing usage", err)
	}
	return nil
}

// Search finds entries whose topic or response text contains the query
// substring, optionally restricted to one context.
func (s *Store) Search(ctx context.Context, query string, hc HelpContext) ([]TopicEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM topic_entries
		 WHERE (topic LIKE ? OR response_text LIKE ?)`
	args := []interface{}{"%" + query + "%", "%" + query + "%"}
	if hc != "" {
		if _, err := ParseContext(string(hc)); err != nil {
			return nil, err
		}
		q += ` AND context = ?`
		args = append(args, string(hc))
	}
	q += ` ORDER BY context, position ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, unavailable("searching entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Stats computes the aggregate view by scanning the store. There is no
// persisted aggregate table.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	entries, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	st := &Stats{BreakdownByContext: make(map[HelpContext]ContextStats)}
	for _, e := range entries {
		st.TotalEntries++
		cs := st.BreakdownByContext[e.Context]
		cs.Total++
		if e.Active {
			st.ActiveEntries++
			cs.Active++
		}
		st.BreakdownByContext[e.Context] = cs
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, context, topic, usage_count FROM topic_entries
		 WHERE usage_count > 0 ORDER BY usage_count DESC, position ASC LIMIT 10`)
	if err != nil {
		return nil, unavailable("computing top entries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u UsageStat
		var hc string
		if err := rows.Scan(&u.ID, &hc, &u.Topic, &u.UsageCount); err != nil {
			return nil, unavailable("scanning usage stat", err)
		}
		u.Context = HelpContext(hc)
		st.TopEntriesByUsage = append(st.TopEntriesByUsage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("computing top entries", err)
	}

	return st, nil
}

// validate enforces the entry policy: a response body is always required,
// the context must belong to the closed set, keywords are required unless
// the entry is the context default, and a default entry carries none.
func validate(e *TopicEntry) error {
	if _, err := ParseContext(string(e.Context)); err != nil {
		return err
	}
	if strings.TrimSpace(e.ResponseText) == "" {
		return &ValidationError{Field: "response_text", Reason: "must not be empty"}
	}
	if strings.TrimSpace(e.Topic) == "" {
		return &ValidationError{Field: "topic", Reason: "must not be empty"}
	}
	if e.IsDefault {
		if len(e.Keywords) > 0 {
			return &ValidationError{Field: "keywords", Reason: "a default entry matches by fallback, not keywords; remove them"}
		}
		return nil
	}
	if len(e.Keywords) == 0 {
		return &ValidationError{Field: "keywords", Reason: "at least one keyword is required unless the entry is flagged as the context default"}
	}
	for _, k := range e.Keywords {
		if strings.TrimSpace(k) == "" {
			return &ValidationError{Field: "keywords", Reason: "keywords must not be blank"}
		}
	}
	return nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

func marshalLists(e TopicEntry) (keywords, suggestions string) {
	kb, _ := json.Marshal(e.Keywords)
	sb, _ := json.Marshal(e.Suggestions)
	if e.Keywords == nil {
		kb = []byte("[]")
	}
	if e.Suggestions == nil {
		sb = []byte("[]")
	}
	return string(kb), string(sb)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*TopicEntry, error) {
	var e TopicEntry
	var hc, keywords, suggestions string
	var isDefault, active int
	err := row.Scan(&e.ID, &hc, &e.Topic, &keywords, &e.ResponseText, &suggestions,
		&isDefault, &active, &e.UsageCount, &e.Position, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Context = HelpContext(hc)
	e.IsDefault = isDefault != 0
	e.Active = active != 0
	if err := json.Unmarshal([]byte(keywords), &e.Keywords); err != nil {
		return nil, fmt.Errorf("decoding keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestions), &e.Suggestions); err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]TopicEntry, error) {
	var entries []TopicEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, unavailable("scanning entry", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("reading entries", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
