package knowledge

import (
	"fmt"
	"time"
)

// HelpContext selects which topic entries a conversation matches against.
type HelpContext string

const (
	ContextVendorOnboarding HelpContext = "vendor-onboarding"
	ContextAssessment       HelpContext = "assessment"
	ContextGeneral          HelpContext = "general"
)

// validContexts is the closed set of recognized contexts.
var validContexts = map[HelpContext]bool{
	ContextVendorOnboarding: true,
	ContextAssessment:       true,
	ContextGeneral:          true,
}

// Contexts returns all recognized contexts in a stable order.
func Contexts() []HelpContext {
	return []HelpContext{ContextVendorOnboarding, ContextAssessment, ContextGeneral}
}

// ParseContext validates a context string against the closed set.
func ParseContext(s string) (HelpContext, error) {
	hc := HelpContext(s)
	if !validContexts[hc] {
		return "", &ValidationError{Field: "context", Reason: fmt.Sprintf("unknown context %q: must be one of vendor-onboarding, assessment, general", s)}
	}
	return hc, nil
}

// TopicEntry is a stored keyword-to-response mapping.
//
// Non-default entries carry at least one keyword; a default entry carries
// none and answers when nothing else in its context matches. Inactive
// entries are excluded from resolution but retained for re-activation.
type TopicEntry struct {
	ID           string      `json:"id"`
	Context      HelpContext `json:"context"`
	Topic        string      `json:"topic"`
	Keywords     []string    `json:"keywords"`
	ResponseText string      `json:"response_text"`
	Suggestions  []string    `json:"suggestions"`
	IsDefault    bool        `json:"is_default"`
	Active       bool        `json:"active"`
	UsageCount   int         `json:"usage_count"`
	Position     int         `json:"position"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// EntryPatch carries partial updates for a topic entry. Nil fields are
// left untouched.
type EntryPatch struct {
	Topic        *string   `json:"topic,omitempty"`
	Keywords     *[]string `json:"keywords,omitempty"`
	ResponseText *string   `json:"response_text,omitempty"`
	Suggestions  *[]string `json:"suggestions,omitempty"`
	IsDefault    *bool     `json:"is_default,omitempty"`
}

// UsageStat pairs an entry with its match count for the stats view.
type UsageStat struct {
	ID         string      `json:"id"`
	Context    HelpContext `json:"context"`
	Topic      string      `json:"topic"`
	UsageCount int         `json:"usage_count"`
}

// ContextStats summarizes one context's share of the knowledge base.
type ContextStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Stats is a read-time projection over the whole store.
type Stats struct {
	TotalEntries       int                          `json:"total_entries"`
	ActiveEntries      int                          `json:"active_entries"`
	TopEntriesByUsage  []UsageStat                  `json:"top_entries_by_usage"`
	BreakdownByContext map[HelpContext]ContextStats `json:"breakdown_by_context"`
}
