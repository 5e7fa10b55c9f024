package assistant

import (
	"time"

	"github.com/vendorguard/helpassist/internal/knowledge"
)

// Author identifies who wrote a transcript message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// AttachmentKind classifies a display-only reference on a message.
type AttachmentKind string

const (
	AttachmentDocument   AttachmentKind = "document"
	AttachmentLink       AttachmentKind = "link"
	AttachmentAssessment AttachmentKind = "assessment"
)

// Attachment is a reference carried on a message. The engine never
// navigates; it only exposes the Ref string for the host to act on.
type Attachment struct {
	Kind  AttachmentKind `json:"kind"`
	Label string         `json:"label"`
	Ref   string         `json:"ref"`
}

// Message is one transcript entry. Immutable once appended.
type Message struct {
	ID          string       `json:"id"`
	Author      Author       `json:"author"`
	Body        string       `json:"body"`
	HTML        string       `json:"html,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	Suggestions []string     `json:"suggestions,omitempty"` // assistant messages only
	Attachments []Attachment `json:"attachments,omitempty"`
}

// State is the read-only view of the widget exposed to entry points.
type State struct {
	IsOpen      bool                  `json:"is_open"`
	IsMinimized bool                  `json:"is_minimized"`
	Context     knowledge.HelpContext `json:"context,omitempty"`
}

// EventKind names the update kinds pushed to a widget transport.
type EventKind string

const (
	EventState   EventKind = "state"
	EventMessage EventKind = "message"
	EventTyping  EventKind = "typing"
	EventPrefill EventKind = "prefill"
)

// Event is pushed to the transport whenever the session changes.
type Event struct {
	Kind    EventKind `json:"kind"`
	State   State     `json:"state"`
	Message *Message  `json:"message,omitempty"`
	Prefill string    `json:"prefill,omitempty"`
}
