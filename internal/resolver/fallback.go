package resolver

import "github.com/vendorguard/helpassist/internal/knowledge"

// fallbackReply is the built-in "here is what I can help with" answer
// used when nothing in a context matches and the context has no stored
// default entry (or the store cannot be reached at all).
type fallbackReply struct {
	text        string
	suggestions []string
}

var fallbacks = map[knowledge.HelpContext]fallbackReply{
	knowledge.ContextVendorOnboarding: {
		text: "I didn't find a specific answer for that, but here is what I can help with during vendor onboarding:\n\n" +
			"- **Documents** — which files to upload and in what format\n" +
			"- **Requirements** — what your vendor profile must include\n" +
			"- **Status** — where your onboarding currently stands",
		suggestions: []string{"documents", "requirements", "status"},
	},
	knowledge.ContextAssessment: {
		text: "I didn't find a specific answer for that, but here is what I can help with on risk assessments:\n\n" +
			"- **Scoring** — how risk scores are calculated\n" +
			"- **Questionnaire** — filling out the assessment questionnaire\n" +
			"- **Deadlines** — submission and review timelines",
		suggestions: []string{"scoring", "questionnaire", "deadlines"},
	},
	knowledge.ContextGeneral: {
		text: "I'm not sure about that one. Here is what I can help with:\n\n" +
			"- **Features** — what the platform can do\n" +
			"- **Getting started** — setting up your account and first vendor\n" +
			"- **Support** — reaching a human when you need one",
		suggestions: []string{"features", "getting-started", "support"},
	},
}

// fallbackFor returns the built-in reply for a context. Routing is
// total over the closed context set; an unknown value (impossible via
// ParseContext) gets the general fallback.
func fallbackFor(hc knowledge.HelpContext) fallbackReply {
	if fb, ok := fallbacks[hc]; ok {
		return fb
	}
	return fallbacks[knowledge.ContextGeneral]
}
