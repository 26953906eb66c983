package report

import (
	"time"

	"plantops/internal/logging"
)

// Confirmation polling guards against eventually consistent backends where a
// write is acknowledged before it becomes visible to reads. It is a
// consistency-assurance mechanism, not a correctness gate: the record is
// already shown as Ready from the synchronous confirmation, so exhaustion is
// silent.
const (
	// DefaultPollInterval is the delay between listing re-fetches.
	DefaultPollInterval = 3 * time.Second
	// DefaultPollMaxAttempts bounds the number of listing calls per
	// confirmed generation.
	DefaultPollMaxAttempts = 10
)

// PollState is the state of one confirmation-poll session.
type PollState int

const (
	PollActive PollState = iota
	PollConfirmed
	PollExhausted
)

func (s PollState) String() string {
	switch s {
	case PollActive:
		return "Polling"
	case PollConfirmed:
		return "Confirmed"
	default:
		return "Exhausted"
	}
}

// PollSession tracks the bounded confirmation poll for one confirmed
// generation. It is a pure state machine: the caller supplies each freshly
// fetched backend listing through Observe and drives the timing (a tea.Tick
// chain in the console, a ticker loop in the CLI).
type PollSession struct {
	reportID    int64
	attempts    int
	maxAttempts int
	state       PollState
}

// NewPollSession starts a session for the given durable report identity.
func NewPollSession(reportID int64) *PollSession {
	return &PollSession{
		reportID:    reportID,
		maxAttempts: DefaultPollMaxAttempts,
		state:       PollActive,
	}
}

// ReportID returns the durable identity the session is confirming.
func (s *PollSession) ReportID() int64 { return s.reportID }

// Attempts returns the number of listing fetches consumed so far.
func (s *PollSession) Attempts() int { return s.attempts }

// State returns the current session state.
func (s *PollSession) State() PollState { return s.state }

// Done reports whether the session reached a terminal state.
func (s *PollSession) Done() bool { return s.state != PollActive }

// Observe consumes one fetched backend listing. It counts the attempt, then
// transitions to Confirmed when the listing contains the report as Ready, or
// to Exhausted once the attempt budget is spent without a match.
func (s *PollSession) Observe(listing []Record) PollState {
	if s.state != PollActive {
		return s.state
	}
	s.attempts++

	want := DurableID(s.reportID)
	for _, r := range listing {
		if r.ID.Equal(want) && r.Status == StatusReady {
			s.state = PollConfirmed
			logging.Poll("report %d confirmed durable after %d attempt(s)", s.reportID, s.attempts)
			return s.state
		}
	}

	if s.attempts >= s.maxAttempts {
		s.state = PollExhausted
		// Soft signal only: the listing endpoint may be eventually
		// consistent. The record already shows Ready.
		logging.PollWarn("report %d not visible in listing after %d attempts; giving up", s.reportID, s.attempts)
	}
	return s.state
}
