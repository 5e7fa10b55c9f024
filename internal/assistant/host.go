package assistant

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vendorguard/helpassist/internal/knowledge"
)

// Options configures a Host. Zero values get production defaults; tests
// inject a seeded Rand and a synchronous After.
type Options struct {
	// DelayMin/DelayMax bound the simulated "composing a reply" delay.
	DelayMin time.Duration
	DelayMax time.Duration
	// Rand drives greeting selection and delay sampling.
	Rand *rand.Rand
	// After schedules the reply timer. Defaults to time.AfterFunc.
	After func(d time.Duration, f func())
	// Notify receives session events for a transport to push.
	Notify func(Event)
	// Clock supplies message timestamps. Defaults to time.Now.
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DelayMin == 0 && o.DelayMax == 0 {
		o.DelayMin = 600 * time.Millisecond
		o.DelayMax = 1400 * time.Millisecond
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.After == nil {
		o.After = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Host owns at most one live conversation session. Each widget (one per
// browser tab) gets its own Host; there is no shared package state, so
// independent hosts never cross-contaminate.
type Host struct {
	mu        sync.Mutex
	responder Responder
	opts      Options
	session   *Session
}

// NewHost creates a host around a responder.
func NewHost(responder Responder, opts Options) *Host {
	return &Host{responder: responder, opts: opts.withDefaults()}
}

// Open ensures a session is open in the given context. A live session
// in a different context is closed first: switching context always
// restarts the transcript. Opening the current context just restores a
// minimized widget.
func (h *Host) Open(hc knowledge.HelpContext) State {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		if h.session.Context() == hc {
			h.session.maximize()
			return h.session.state()
		}
		h.session.close()
		h.session = nil
	}

	h.session = newSession(hc, h.responder, sessionConfig{
		rng:      h.opts.Rand,
		delayMin: h.opts.DelayMin,
		delayMax: h.opts.DelayMax,
		after:    h.opts.After,
		now:      h.opts.Clock,
		notify:   h.opts.Notify,
	})
	return h.session.state()
}

// Close discards the session and its transcript.
func (h *Host) Close() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != nil {
		h.session.close()
		h.session = nil
	}
	return State{}
}

// Minimize hides the widget without discarding the transcript. No-op
// when no session is alive.
func (h *Host) Minimize() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return State{}
	}
	h.session.minimize()
	return h.session.state()
}

// Maximize restores a minimized widget.
func (h *Host) Maximize() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return State{}
	}
	h.session.maximize()
	return h.session.state()
}

// Toggle cycles the widget: closed opens a general session, minimized
// restores, open closes.
func (h *Host) Toggle() State {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()

	switch {
	case session == nil:
		return h.Open(knowledge.ContextGeneral)
	case session.state().IsMinimized:
		return h.Maximize()
	default:
		return h.Close()
	}
}

// Submit forwards user input to the live session. Returns false when
// the widget is closed or the session refuses the input.
func (h *Host) Submit(text string) bool {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session == nil {
		return false
	}
	return session.Submit(text)
}

// ClickSuggestion prefills the input with the suggestion text.
func (h *Host) ClickSuggestion(text string) string {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session == nil {
		return ""
	}
	return session.ClickSuggestion(text)
}

// Transcript returns the live session's messages, nil when closed.
func (h *Host) Transcript() []Message {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session == nil {
		return nil
	}
	return session.Transcript()
}

// Pending reports whether a reply is being composed.
func (h *Host) Pending() bool {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	return session != nil && session.Pending()
}

// State exposes the read-only widget state for entry points.
func (h *Host) State() State {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session == nil {
		return State{}
	}
	return session.state()
}
