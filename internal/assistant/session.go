package assistant

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vendorguard/helpassist/internal/knowledge"
	"github.com/vendorguard/helpassist/internal/resolver"
)

// Responder produces a reply for user input. Satisfied by
// *resolver.Resolver; tests substitute their own.
type Responder interface {
	Resolve(ctx context.Context, text string, hc knowledge.HelpContext) resolver.Reply
}

// sessionConfig carries the injectable pieces of a session: randomness,
// delay range, timer and clock, so tests can run deterministically.
type sessionConfig struct {
	rng      *rand.Rand
	delayMin time.Duration
	delayMax time.Duration
	after    func(d time.Duration, f func())
	now      func() time.Time
	notify   func(Event)
}

// Session is one conversation: a fixed context, an append-only
// transcript and an open/minimized flag. Created and destroyed by the
// Host; the transcript is discarded on close, preserved on minimize.
type Session struct {
	mu sync.Mutex

	id        string
	context   knowledge.HelpContext
	responder Responder
	cfg       sessionConfig

	transcript []Message
	minimized  bool
	closed     bool
	pending    bool
	draft      string
}

// newSession creates a session seeded with a greeting drawn from the
// context's pool and the fixed starter suggestions.
func newSession(hc knowledge.HelpContext, responder Responder, cfg sessionConfig) *Session {
	s := &Session{
		id:        uuid.New().String(),
		context:   hc,
		responder: responder,
		cfg:       cfg,
	}

	pool := greetingPools[hc]
	greeting := pool[cfg.rng.Intn(len(pool))]
	s.transcript = append(s.transcript, Message{
		ID:          uuid.New().String(),
		Author:      AuthorAssistant,
		Body:        greeting,
		Timestamp:   cfg.now(),
		Suggestions: starterSuggestions[hc],
	})

	return s
}

// Context returns the session's fixed context.
func (s *Session) Context() knowledge.HelpContext { return s.context }

// Transcript returns a copy of the message list.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Pending reports whether a reply is being composed.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Draft returns the current input prefill.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Submit appends a user message and schedules the assistant reply after
// a randomized short delay. Returns false without touching the
// transcript when the text is blank, the session is minimized or
// closed, or a reply is already pending (at most one in flight).
func (s *Session) Submit(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	if s.closed || s.minimized || s.pending {
		s.mu.Unlock()
		return false
	}

	msg := Message{
		ID:        uuid.New().String(),
		Author:    AuthorUser,
		Body:      text,
		Timestamp: s.cfg.now(),
	}
	s.transcript = append(s.transcript, msg)
	s.pending = true
	s.draft = ""

	delay := s.cfg.delayMin
	if span := s.cfg.delayMax - s.cfg.delayMin; span > 0 {
		delay += time.Duration(s.cfg.rng.Int63n(int64(span) + 1))
	}
	notify := s.cfg.notify
	state := s.stateLocked()
	s.mu.Unlock()

	if notify != nil {
		notify(Event{Kind: EventMessage, State: state, Message: &msg})
		notify(Event{Kind: EventTyping, State: state})
	}

	s.cfg.after(delay, func() {
		reply := s.responder.Resolve(context.Background(), text, s.context)
		s.deliver(reply)
	})
	return true
}

// deliver appends the resolved reply. A session closed while the timer
// was running discards the reply silently.
func (s *Session) deliver(reply resolver.Reply) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = false
	msg := Message{
		ID:          uuid.New().String(),
		Author:      AuthorAssistant,
		Body:        reply.Text,
		HTML:        reply.HTML,
		Timestamp:   s.cfg.now(),
		Suggestions: reply.Suggestions,
	}
	s.transcript = append(s.transcript, msg)
	notify := s.cfg.notify
	state := s.stateLocked()
	s.mu.Unlock()

	if notify != nil {
		notify(Event{Kind: EventMessage, State: state, Message: &msg})
	}
}

// ClickSuggestion records the suggestion as the input draft and returns
// it for the host to place in the input field. It does not submit.
func (s *Session) ClickSuggestion(text string) string {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}
	s.draft = text
	notify := s.cfg.notify
	state := s.stateLocked()
	s.mu.Unlock()

	if notify != nil {
		notify(Event{Kind: EventPrefill, State: state, Prefill: text})
	}
	return text
}

func (s *Session) minimize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.minimized = true
	}
}

func (s *Session) maximize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.minimized = false
	}
}

// close discards the transcript. A pending reply timer that fires later
// finds the session closed and becomes a no-op.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.transcript = nil
}

func (s *Session) state() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.closed {
		return State{}
	}
	return State{
		IsOpen:      !s.minimized,
		IsMinimized: s.minimized,
		Context:     s.context,
	}
}
