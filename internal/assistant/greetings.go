package assistant

import "github.com/vendorguard/helpassist/internal/knowledge"

// greetingPools holds the opening lines the assistant picks from when a
// session starts. One is chosen at random per session.
var greetingPools = map[knowledge.HelpContext][]string{
	knowledge.ContextVendorOnboarding: {
		"Hi! I can walk you through vendor onboarding. What would you like to know?",
		"Welcome to vendor onboarding! Ask me about documents, requirements, or your current status.",
		"Hello! Need a hand getting your vendor set up? I'm here to help.",
	},
	knowledge.ContextAssessment: {
		"Hi! I can help with your risk assessment. What's on your mind?",
		"Welcome! Ask me anything about scoring, the questionnaire, or deadlines.",
		"Hello! Working through an assessment? I can explain how it all fits together.",
	},
	knowledge.ContextGeneral: {
		"Hi there! How can I help you today?",
		"Hello! Ask me anything about the platform.",
		"Welcome! I'm here to help — what would you like to know?",
	},
}

// starterSuggestions are the fixed one-click follow-ups attached to the
// greeting message.
var starterSuggestions = map[knowledge.HelpContext][]string{
	knowledge.ContextVendorOnboarding: {
		"What documents do I need?",
		"What are the requirements?",
		"What's my onboarding status?",
	},
	knowledge.ContextAssessment: {
		"How is my risk score calculated?",
		"How do I fill out the questionnaire?",
		"When is my assessment due?",
	},
	knowledge.ContextGeneral: {
		"What can this platform do?",
		"How do I get started?",
		"How do I contact support?",
	},
}
