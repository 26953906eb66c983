package report

import (
	"testing"
	"time"
)

func readyListing(id int64) []Record {
	return []Record{{ID: DurableID(id), Status: StatusReady, Origin: OriginConfirmed}}
}

func TestPollConfirmsOnReadyMatch(t *testing.T) {
	s := NewPollSession(42)

	if state := s.Observe(nil); state != PollActive {
		t.Fatalf("after empty listing: state = %v, want Active", state)
	}
	if state := s.Observe(readyListing(7)); state != PollActive {
		t.Fatalf("after wrong-id listing: state = %v, want Active", state)
	}
	if state := s.Observe(readyListing(42)); state != PollConfirmed {
		t.Fatalf("after matching listing: state = %v, want Confirmed", state)
	}
	if s.Attempts() != 3 {
		t.Errorf("attempts = %d, want 3", s.Attempts())
	}
}

func TestPollIgnoresGeneratingMatch(t *testing.T) {
	s := NewPollSession(42)
	listing := []Record{{ID: DurableID(42), Status: StatusGenerating}}
	if state := s.Observe(listing); state != PollActive {
		t.Fatalf("a Generating row must not confirm, got %v", state)
	}
}

func TestPollExhaustsAtBudget(t *testing.T) {
	s := NewPollSession(42)
	for i := 0; i < DefaultPollMaxAttempts-1; i++ {
		if state := s.Observe(nil); state != PollActive {
			t.Fatalf("attempt %d: state = %v, want Active", i+1, state)
		}
	}
	if state := s.Observe(nil); state != PollExhausted {
		t.Fatalf("final attempt: state = %v, want Exhausted", state)
	}
	// Terminal states are sticky
	if state := s.Observe(readyListing(42)); state != PollExhausted {
		t.Fatalf("observe after exhaustion: state = %v, want Exhausted", state)
	}
	if s.Attempts() != DefaultPollMaxAttempts {
		t.Errorf("attempts = %d, want %d", s.Attempts(), DefaultPollMaxAttempts)
	}
}

func TestStartPollReplacesPriorSession(t *testing.T) {
	c := NewController(NewStore(), &fakeBackend{}, &fakeAssembler{})

	first := c.StartPoll(1)
	second := c.StartPoll(2)

	if c.ActivePoll() != second {
		t.Fatal("second session must be the active one")
	}
	// Observations on the replaced session are dropped
	if state := c.ObservePoll(first, readyListing(1)); state != PollExhausted {
		t.Fatalf("stale session observation = %v, want Exhausted", state)
	}
	if second.Attempts() != 0 {
		t.Errorf("active session consumed attempts it never made: %d", second.Attempts())
	}
}

func TestObservePollClearsActiveOnTerminal(t *testing.T) {
	c := NewController(NewStore(), &fakeBackend{}, &fakeAssembler{}, WithPollMaxAttempts(1))

	session := c.StartPoll(42)
	if state := c.ObservePoll(session, nil); state != PollExhausted {
		t.Fatalf("state = %v, want Exhausted after one-attempt budget", state)
	}
	if c.ActivePoll() != nil {
		t.Fatal("terminal session must be cleared from the controller")
	}
}

func TestRunPollBoundedAgainstDeadBackend(t *testing.T) {
	backend := &fakeBackend{listErr: errUnreachable}
	c := NewController(NewStore(), backend, &fakeAssembler{},
		WithPollInterval(time.Millisecond),
		WithPollMaxAttempts(3),
	)

	session := c.StartPoll(42)
	done := make(chan PollState, 1)
	go func() { done <- c.RunPoll(t.Context(), session) }()

	select {
	case state := <-done:
		if state != PollExhausted {
			t.Fatalf("state = %v, want Exhausted", state)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunPoll did not terminate against a dead backend")
	}
	if session.Attempts() != 3 {
		t.Errorf("attempts = %d, want 3 (failed fetches still consume the budget)", session.Attempts())
	}
}

func TestRunPollConfirms(t *testing.T) {
	backend := &fakeBackend{listing: readyListing(42)}
	c := NewController(NewStore(), backend, &fakeAssembler{}, WithPollInterval(time.Millisecond))

	session := c.StartPoll(42)
	if state := c.RunPoll(t.Context(), session); state != PollConfirmed {
		t.Fatalf("state = %v, want Confirmed", state)
	}
	if session.Attempts() != 1 {
		t.Errorf("attempts = %d, want 1", session.Attempts())
	}
}
