package resolver

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vendorguard/helpassist/internal/knowledge"
)

// Reply is what the resolver hands back for a user message. Resolve
// never fails: when the store is unreachable or nothing matches, the
// reply is the context fallback.
type Reply struct {
	Text        string   `json:"text"`
	HTML        string   `json:"html"`
	Suggestions []string `json:"suggestions"`
	EntryID     string   `json:"entry_id,omitempty"`
	Matched     bool     `json:"matched"`
}

// Resolver maps free-text user input to a curated response by scanning
// active entries in declaration order. First keyword match wins; there
// is no scoring, so admins can predict a reply by reading keyword lists
// top to bottom.
type Resolver struct {
	store *knowledge.Store
	log   *slog.Logger
	md    goldmark.Markdown
}

// New creates a resolver over the given store.
func New(store *knowledge.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store: store,
		log:   logger,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Resolve returns the reply for the given input within a context.
func (r *Resolver) Resolve(ctx context.Context, text string, hc knowledge.HelpContext) Reply {
	normalized := strings.ToLower(text)

	entries, err := r.store.ListActive(ctx, hc)
	if err != nil {
		r.log.Warn("knowledge store unreachable, using fallback", "context", hc, "error", err)
		return r.fallback(hc)
	}

	for _, e := range entries {
		if e.IsDefault {
			continue
		}
		if matchesAny(normalized, e.Keywords) {
			if err := r.store.IncrementUsage(ctx, e.ID); err != nil {
				r.log.Warn("usage counter update failed", "entry", e.ID, "error", err)
			}
			return r.reply(e)
		}
	}

	// No keyword matched: prefer a stored default over the built-in one.
	for _, e := range entries {
		if e.IsDefault {
			return r.reply(e)
		}
	}
	return r.fallback(hc)
}

func matchesAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

func (r *Resolver) reply(e knowledge.TopicEntry) Reply {
	return Reply{
		Text:        e.ResponseText,
		HTML:        r.renderHTML(e.ResponseText),
		Suggestions: e.Suggestions,
		EntryID:     e.ID,
		Matched:     !e.IsDefault,
	}
}

func (r *Resolver) fallback(hc knowledge.HelpContext) Reply {
	fb := fallbackFor(hc)
	return Reply{
		Text:        fb.text,
		HTML:        r.renderHTML(fb.text),
		Suggestions: fb.suggestions,
	}
}

// renderHTML converts the markdown response body for the widget. A
// rendering failure falls back to the raw text.
func (r *Resolver) renderHTML(text string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		r.log.Warn("markdown rendering failed", "error", err)
		return text
	}
	return buf.String()
}
