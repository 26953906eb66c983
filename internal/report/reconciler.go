package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"plantops/internal/logging"
)

// Backend is the system of record for persisted reports. It is authoritative:
// whatever it lists wins over client-held state.
type Backend interface {
	ListReports(ctx context.Context) ([]Record, error)
	CreateReport(ctx context.Context, cfg CreateConfig) (CreateResult, error)
	DeleteReport(ctx context.Context, id int64) error
}

// Assembler builds the downloadable document from report parameters and
// aggregated plant data. Pure given its inputs; performs no reconciliation.
type Assembler interface {
	Assemble(ctx context.Context, p Params) (Artifact, error)
}

// Artifact is a locally assembled document.
type Artifact struct {
	Path string
	Size int64
}

// OutcomeKind classifies how a generation attempt settled.
type OutcomeKind int

const (
	// OutcomeSuccess: document assembled and backend acknowledged with a
	// durable identity; the optimistic record was promoted in place.
	OutcomeSuccess OutcomeKind = iota
	// OutcomePartial: document assembled but the backend returned no usable
	// identity; the record is kept and flagged "save verification pending".
	OutcomePartial
	// OutcomeFailure: assembly or persistence failed; the optimistic record
	// was removed from the store.
	OutcomeFailure
	// OutcomeCancelled: the user removed the optimistic record while
	// generation was still in flight; the removal wins and any backend row
	// the create produced is cleaned up.
	OutcomeCancelled
)

// Outcome is the dedicated result type returned by the generation chain.
type Outcome struct {
	Kind     OutcomeKind
	Record   Record
	Artifact Artifact
	Err      error
}

// ErrNotFound is returned when an operation names a record the store does
// not hold.
var ErrNotFound = errors.New("report not found")

// Controller orchestrates report creation and keeps the client store
// consistent with the backend under latency and partial failure. It owns the
// single active confirmation-poll session: starting a new one cancels any
// prior session, and navigating away tears it down.
type Controller struct {
	store     *Store
	backend   Backend
	assembler Assembler

	pollInterval time.Duration
	maxAttempts  int
	unreachable  func(error) bool

	mu         sync.Mutex
	activePoll *PollSession
	pollCancel context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval overrides the confirmation-poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) { c.pollInterval = d }
}

// WithPollMaxAttempts overrides the confirmation-poll attempt budget.
func WithPollMaxAttempts(n int) Option {
	return func(c *Controller) { c.maxAttempts = n }
}

// WithUnreachableClassifier sets the predicate that decides whether a backend
// error means "backend unreachable" (as opposed to a real failure) for the
// delete rollback policy.
func WithUnreachableClassifier(f func(error) bool) Option {
	return func(c *Controller) { c.unreachable = f }
}

// NewController wires the reconciliation controller to its collaborators.
func NewController(store *Store, backend Backend, assembler Assembler, opts ...Option) *Controller {
	c := &Controller{
		store:        store,
		backend:      backend,
		assembler:    assembler,
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultPollMaxAttempts,
		unreachable:  func(error) bool { return false },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store exposes the report store for read access by the UI.
func (c *Controller) Store() *Store { return c.store }

// PollInterval returns the configured confirmation-poll interval.
func (c *Controller) PollInterval() time.Duration { return c.pollInterval }

// Begin performs the synchronous half of submitGeneration: it validates the
// parameters, mints a provisional identity, and inserts exactly one
// optimistic Generating record at the head of the store. The caller sees the
// record before any network latency is incurred.
func (c *Controller) Begin(p Params) (Record, error) {
	if !ValidType(p.Type) {
		return Record{}, fmt.Errorf("unsupported report type %q", p.Type)
	}
	rec := Record{
		ID:            NewProvisionalID(),
		Name:          p.DisplayName(),
		Type:          p.Type,
		Format:        p.Format,
		GeneratedDate: time.Now(),
		Status:        StatusGenerating,
		Origin:        OriginOptimistic,
		SortKey:       time.Now(),
	}
	if err := c.store.InsertHead(rec); err != nil {
		return Record{}, err
	}
	logging.Reports("generation started: %s (%s)", rec.ID, rec.Name)
	return rec, nil
}

// Finish performs the asynchronous half of submitGeneration for the record
// returned by Begin. Document assembly and backend persistence run
// independently; either may fail without the other. The store is always left
// in a consistent, renderable shape:
//
//   - create acknowledged with a durable id and document built: the record
//     is promoted in place (same position, durable id, Ready, file pointer).
//   - create acknowledged without a usable id, document built: the record is
//     kept and flagged pending verification (partial success).
//   - assembly or persistence failed: the optimistic record is removed and
//     the error surfaced. No record is ever left stuck Generating.
//   - the record was deleted mid-flight: the removal stands, any persisted
//     backend row is cleaned up, and the outcome settles as cancelled.
func (c *Controller) Finish(ctx context.Context, rec Record, p Params) Outcome {
	var (
		art       Artifact
		asmErr    error
		res       CreateResult
		createErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		art, asmErr = c.assembler.Assemble(gctx, p)
		return nil
	})
	g.Go(func() error {
		res, createErr = c.backend.CreateReport(gctx, CreateConfig{
			Name:          rec.Name,
			Type:          rec.Type,
			Format:        rec.Format,
			GeneratedDate: rec.GeneratedDate,
			Status:        StatusGenerating.String(),
		})
		return nil
	})
	_ = g.Wait()

	if _, ok := c.store.Get(rec.ID); !ok {
		// The record was deleted while generation was in flight. The
		// user's dismissal wins over both halves: discard the artifact
		// and drop any backend row the create produced.
		if createErr == nil && res.ReportID > 0 {
			if err := c.backend.DeleteReport(ctx, res.ReportID); err != nil {
				logging.ReportsError("cleanup of report %d removed mid-generation failed: %v", res.ReportID, err)
			}
		}
		logging.Reports("generation for %s discarded: record removed while in flight", rec.ID)
		return Outcome{Kind: OutcomeCancelled}
	}

	if asmErr != nil {
		// Assembly failure is a generation failure regardless of the
		// backend outcome. If the backend did persist a row for a document
		// that does not exist, remove it so the listing stays truthful.
		c.store.Remove(rec.ID)
		if createErr == nil && res.ReportID > 0 {
			if err := c.backend.DeleteReport(ctx, res.ReportID); err != nil {
				logging.ReportsError("cleanup of orphaned report %d failed: %v", res.ReportID, err)
			}
		}
		logging.ReportsError("generation failed (assembly): %v", asmErr)
		return Outcome{Kind: OutcomeFailure, Err: fmt.Errorf("document assembly failed: %w", asmErr)}
	}

	c.store.SetLocalArtifact(rec.ID, art.Path)

	if createErr != nil {
		c.store.Remove(rec.ID)
		logging.ReportsError("generation failed (persistence): %v", createErr)
		return Outcome{Kind: OutcomeFailure, Artifact: art, Err: fmt.Errorf("report could not be saved: %w", createErr)}
	}

	if res.ReportID <= 0 {
		// Acknowledged but no usable identity. Keep the record so the
		// user's document is not silently lost, without over-promising
		// durability.
		c.store.MarkPendingVerification(rec.ID, true)
		logging.ReportsError("create returned no report id for %s", rec.ID)
		kept, _ := c.store.Get(rec.ID)
		return Outcome{Kind: OutcomePartial, Record: kept, Artifact: art}
	}

	durable := DurableID(res.ReportID)
	if err := c.store.Promote(rec.ID, durable, res.DownloadURL, sizeLabel(art.Size)); err != nil {
		return Outcome{Kind: OutcomeFailure, Artifact: art, Err: err}
	}
	logging.Reports("report %s promoted to %s", rec.ID, durable)

	promoted, _ := c.store.Get(durable)
	return Outcome{Kind: OutcomeSuccess, Record: promoted, Artifact: art}
}

// Generate runs the full submitGeneration chain end to end: optimistic
// insert, assembly and persistence, and (on success) the blocking
// confirmation poll. Used by the CLI; the console stages the same calls
// through its message loop instead.
func (c *Controller) Generate(ctx context.Context, p Params) Outcome {
	rec, err := c.Begin(p)
	if err != nil {
		return Outcome{Kind: OutcomeFailure, Err: err}
	}
	out := c.Finish(ctx, rec, p)
	if out.Kind == OutcomeSuccess {
		if id, ok := out.Record.ID.Durable(); ok {
			session := c.StartPoll(id)
			c.RunPoll(ctx, session)
		}
	}
	return out
}

// Refresh re-fetches the backend listing and merges it into the store,
// preserving optimistic records still awaiting confirmation.
func (c *Controller) Refresh(ctx context.Context) error {
	listing, err := c.backend.ListReports(ctx)
	if err != nil {
		return fmt.Errorf("refresh report listing: %w", err)
	}
	c.store.Merge(listing)
	return nil
}

// StartPoll begins the bounded confirmation poll for a durable identity.
// Only one poll session may be active at a time: starting a new one cancels
// any prior session (last-writer-wins on the polling resource).
func (c *Controller) StartPoll(reportID int64) *PollSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
	c.activePoll = NewPollSession(reportID)
	c.activePoll.maxAttempts = c.maxAttempts
	logging.Poll("confirmation poll started for report %d", reportID)
	return c.activePoll
}

// ActivePoll returns the currently active session, if any.
func (c *Controller) ActivePoll() *PollSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activePoll
}

// StopPoll tears down any active poll session; called when the user
// navigates away so no timer is left dangling.
func (c *Controller) StopPoll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
	c.activePoll = nil
}

// ObservePoll feeds one fetched listing to a session. Stale sessions (ones
// replaced by a later StartPoll) are ignored. When the session reaches a
// terminal state the controller clears its residual optimistic bookkeeping.
func (c *Controller) ObservePoll(session *PollSession, listing []Record) PollState {
	c.mu.Lock()
	if session == nil || session != c.activePoll {
		c.mu.Unlock()
		return PollExhausted
	}
	c.mu.Unlock()

	state := session.Observe(listing)
	if state != PollActive {
		c.mu.Lock()
		if c.activePoll == session {
			c.activePoll = nil
			c.pollCancel = nil
		}
		c.mu.Unlock()
		c.store.MarkPendingVerification(DurableID(session.ReportID()), false)
	}
	return state
}

// RunPoll drives a session with a real ticker until it terminates or the
// context is canceled. This is the CLI driver; the console uses tea.Tick.
func (c *Controller) RunPoll(ctx context.Context, session *PollSession) PollState {
	pollCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.activePoll == session {
		c.pollCancel = cancel
	}
	c.mu.Unlock()
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-pollCtx.Done():
			return session.State()
		case <-ticker.C:
			listing, err := c.backend.ListReports(pollCtx)
			if err != nil {
				// A failed fetch still consumes an attempt so the loop
				// stays bounded even against a dead backend.
				listing = nil
			}
			if state := c.ObservePoll(session, listing); state != PollActive {
				return state
			}
		}
	}
}

// sizeLabel renders a byte count the way the report list displays it.
func sizeLabel(n int64) string {
	if n <= 0 {
		return ""
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n/div >= unit && exp < 2 {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KM"[exp])
}
