// Package seed ships the starter knowledge base: the curated topics the
// help widget answered from before entries became editable.
package seed

import (
	"context"
	"fmt"

	"github.com/vendorguard/helpassist/internal/knowledge"
)

// Entries returns the starter topic entries in declaration order.
// Within a context, earlier entries win keyword ties, so the ordering
// here is part of the content.
func Entries() []knowledge.TopicEntry {
	return []knowledge.TopicEntry{
		// vendor-onboarding
		{
			Context:  knowledge.ContextVendorOnboarding,
			Topic:    "documents",
			Keywords: []string{"document", "upload", "file", "paperwork"},
			ResponseText: "For vendor onboarding, you'll need to upload several documents:\n\n" +
				"- A completed **W-9** (or W-8BEN for international vendors)\n" +
				"- Proof of insurance with at least the minimum coverage your buyer requires\n" +
				"- Current compliance certifications (ISO 27001, SOC 2, or equivalent)\n\n" +
				"PDF is preferred; scans must be legible.",
			Suggestions: []string{"What formats are accepted?", "Where do I upload documents?"},
		},
		{
			Context:  knowledge.ContextVendorOnboarding,
			Topic:    "requirements",
			Keywords: []string{"requirement", "required", "need to provide", "mandatory"},
			ResponseText: "Your vendor profile must include a primary contact, a billing address, " +
				"your tax identification, and at least one category of goods or services. " +
				"Buyers may add their own required fields, which appear with a red marker on the form.",
			Suggestions: []string{"What documents do I need?", "Can I save a draft?"},
		},
		{
			Context:  knowledge.ContextVendorOnboarding,
			Topic:    "status",
			Keywords: []string{"status", "progress", "how long", "approved", "pending"},
			ResponseText: "Your onboarding status is shown at the top of the vendor portal: " +
				"**Draft**, **Submitted**, **In review**, or **Approved**. " +
				"Review typically takes 3-5 business days once all documents are in.",
			Suggestions: []string{"What documents do I need?", "Who reviews my submission?"},
		},
		{
			Context: knowledge.ContextVendorOnboarding,
			Topic:   "onboarding help",
			ResponseText: "I can help with vendor onboarding. Ask me about the documents you need " +
				"to upload, the profile requirements, or where your submission currently stands.",
			Suggestions: []string{"documents", "requirements", "status"},
			IsDefault:   true,
		},

		// assessment
		{
			Context:  knowledge.ContextAssessment,
			Topic:    "scoring",
			Keywords: []string{"score", "scoring", "rating", "calculated"},
			ResponseText: "Risk scores range from 0 (lowest risk) to 100. The score weighs your " +
				"questionnaire answers, document freshness, and any external risk signals your " +
				"buyer has enabled. Scores recalculate whenever an input changes.",
			Suggestions: []string{"What lowers my score?", "How often are scores updated?"},
		},
		{
			Context:  knowledge.ContextAssessment,
			Topic:    "questionnaire",
			Keywords: []string{"questionnaire", "question", "form", "answer"},
			ResponseText: "The questionnaire adapts to your vendor category: answering \"yes\" to " +
				"handling customer data, for example, opens the data-protection section. " +
				"You can save partial answers and return later; nothing is submitted until you confirm.",
			Suggestions: []string{"Can someone else fill in a section?", "When is my assessment due?"},
		},
		{
			Context:  knowledge.ContextAssessment,
			Topic:    "deadlines",
			Keywords: []string{"deadline", "due", "late", "extension"},
			ResponseText: "Assessment deadlines are set by your buyer and shown on the assessment " +
				"card. Most buyers allow one extension request; use the **Request extension** button " +
				"before the due date, not after.",
			Suggestions: []string{"How do I request an extension?"},
		},
		{
			Context: knowledge.ContextAssessment,
			Topic:   "assessment help",
			ResponseText: "I can help with your risk assessment. Ask me about how scoring works, " +
				"filling out the questionnaire, or submission deadlines.",
			Suggestions: []string{"scoring", "questionnaire", "deadlines"},
			IsDefault:   true,
		},

		// general
		{
			Context:  knowledge.ContextGeneral,
			Topic:    "features",
			Keywords: []string{"feature", "what can", "capabilities", "do for me"},
			ResponseText: "The platform covers the full supply-chain-risk cycle: vendor onboarding, " +
				"risk assessments and scoring, document management, and continuous monitoring " +
				"dashboards. Most teams start with onboarding and add assessments later.",
			Suggestions: []string{"How do I get started?", "Tell me about assessments"},
		},
		{
			Context:  knowledge.ContextGeneral,
			Topic:    "getting started",
			Keywords: []string{"start", "begin", "setup", "set up", "first"},
			ResponseText: "To get started, create your organization profile, then invite your first " +
				"vendor from the **Vendors** page. The onboarding checklist on your dashboard tracks " +
				"what's left.",
			Suggestions: []string{"What can this platform do?", "How do I invite a vendor?"},
		},
		{
			Context:  knowledge.ContextGeneral,
			Topic:    "support",
			Keywords: []string{"support", "contact", "human", "agent", "phone"},
			ResponseText: "You can reach our support team from the **Help** menu, or email " +
				"support@vendorguard.io. Enterprise plans include a dedicated success manager.",
			Suggestions: []string{"What are the support hours?"},
		},
		{
			Context: knowledge.ContextGeneral,
			Topic:   "general help",
			ResponseText: "Here is what I can help with: platform **features**, **getting started**, " +
				"and reaching **support**.",
			Suggestions: []string{"features", "getting-started", "support"},
			IsDefault:   true,
		},
	}
}

// Load inserts the starter entries into an empty store. A non-empty
// store is left untouched so reseeding never duplicates or reorders
// existing content.
func Load(ctx context.Context, store *knowledge.Store) (int, error) {
	existing, err := store.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("checking store: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	n := 0
	for _, e := range Entries() {
		if _, err := store.Create(ctx, e); err != nil {
			return n, fmt.Errorf("seeding %q: %w", e.Topic, err)
		}
		n++
	}
	return n, nil
}
