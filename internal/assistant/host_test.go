package assistant

import (
	"testing"

	"github.com/vendorguard/helpassist/internal/knowledge"
)

func TestHostStateClosedByDefault(t *testing.T) {
	host := newTestHost(&fakeResponder{}, &manualTimer{})

	got := host.State()
	if got.IsOpen || got.IsMinimized || got.Context != "" {
		t.Errorf("expected closed state, got %+v", got)
	}
	if host.Submit("anyone there?") {
		t.Error("submit must be rejected with no session")
	}
}

func TestHostOpenState(t *testing.T) {
	host := newTestHost(&fakeResponder{}, &manualTimer{})

	got := host.Open(knowledge.ContextAssessment)
	if !got.IsOpen || got.IsMinimized || got.Context != knowledge.ContextAssessment {
		t.Errorf("expected open assessment state, got %+v", got)
	}
}

func TestHostContextSwitchRestartsTranscript(t *testing.T) {
	timer := &manualTimer{}
	host := newTestHost(&fakeResponder{}, timer)

	host.Open(knowledge.ContextGeneral)
	host.Submit("remember me")
	timer.Fire()
	if len(host.Transcript()) < 2 {
		t.Fatal("expected some conversation before the switch")
	}

	got := host.Open(knowledge.ContextVendorOnboarding)
	if got.Context != knowledge.ContextVendorOnboarding {
		t.Errorf("expected vendor-onboarding context, got %s", got.Context)
	}
	transcript := host.Transcript()
	if len(transcript) != 1 {
		t.Errorf("context switch must restart the transcript, got %d messages", len(transcript))
	}
}

func TestHostReopenSameContextKeepsTranscript(t *testing.T) {
	timer := &manualTimer{}
	host := newTestHost(&fakeResponder{}, timer)

	host.Open(knowledge.ContextGeneral)
	host.Submit("hello")
	timer.Fire()
	before := len(host.Transcript())

	host.Minimize()
	got := host.Open(knowledge.ContextGeneral)
	if !got.IsOpen {
		t.Errorf("expected restored open state, got %+v", got)
	}
	if len(host.Transcript()) != before {
		t.Error("reopening the same context must not restart the transcript")
	}
}

func TestHostToggleCycle(t *testing.T) {
	host := newTestHost(&fakeResponder{}, &manualTimer{})

	// closed -> open(general)
	got := host.Toggle()
	if !got.IsOpen || got.Context != knowledge.ContextGeneral {
		t.Fatalf("toggle from closed must open general, got %+v", got)
	}

	// open -> closed (not minimized)
	got = host.Toggle()
	if got.IsOpen || got.IsMinimized {
		t.Fatalf("toggle from open must close, got %+v", got)
	}

	// closed -> open again, minimize, then toggle restores
	host.Toggle()
	host.Minimize()
	got = host.Toggle()
	if !got.IsOpen || got.IsMinimized {
		t.Errorf("toggle from minimized must maximize, got %+v", got)
	}
}

func TestHostMinimizeWithoutSessionIsNoOp(t *testing.T) {
	host := newTestHost(&fakeResponder{}, &manualTimer{})

	got := host.Minimize()
	if got.IsOpen || got.IsMinimized {
		t.Errorf("minimize with no session must stay closed, got %+v", got)
	}
	got = host.Maximize()
	if got.IsOpen || got.IsMinimized {
		t.Errorf("maximize with no session must stay closed, got %+v", got)
	}
}

func TestIndependentHostsDoNotShareState(t *testing.T) {
	timerA := &manualTimer{}
	timerB := &manualTimer{}
	a := newTestHost(&fakeResponder{}, timerA)
	b := newTestHost(&fakeResponder{}, timerB)

	a.Open(knowledge.ContextGeneral)
	a.Submit("only for A")
	timerA.Fire()

	if b.State().IsOpen {
		t.Error("host B must not observe host A's session")
	}
	if b.Transcript() != nil {
		t.Error("host B must have no transcript")
	}
}
