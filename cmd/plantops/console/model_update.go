package console

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"plantops/internal/api"
	"plantops/internal/logging"
	"plantops/internal/report"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings first
		switch msg.Type {
		case tea.KeyCtrlC:
			m.Shutdown()
			return m, tea.Quit

		case tea.KeyEsc:
			if m.confirmDelete != nil {
				m.confirmDelete = nil
				m.setStatus("Removal cancelled", statusNeutral)
				return m, nil
			}
			if m.viewMode != ReportsView {
				m.viewMode = ReportsView
				return m, nil
			}
			m.Shutdown()
			return m, tea.Quit
		}

		// A pending delete confirmation swallows everything except y/n
		if m.confirmDelete != nil {
			switch msg.String() {
			case "y", "Y":
				id := *m.confirmDelete
				m.confirmDelete = nil
				return m.startDelete(id)
			case "n", "N":
				m.confirmDelete = nil
				m.setStatus("Removal cancelled", statusNeutral)
			}
			return m, nil
		}

		switch m.viewMode {
		case ReportsView:
			return m.updateReportsKeys(msg)
		case CreateView:
			return m.updateCreateKeys(msg)
		case PreviewView:
			switch msg.String() {
			case "q", "esc":
				m.viewMode = ReportsView
				return m, nil
			case "d":
				if rec, ok := m.selectedRecord(); ok {
					return m.startDownload(rec)
				}
				return m, nil
			}
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		case PlantsView:
			return m.updatePlantsKeys(msg)
		case DashboardView:
			switch msg.String() {
			case "q":
				m.viewMode = ReportsView
			case "r":
				m.statsLoaded = false
				return m, m.fetchStatsCmd()
			}
			return m, nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = m.newViewport(msg.Width, msg.Height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - 6
		}
		return m, nil

	case spinner.TickMsg:
		if m.busy || m.ctrl.ActivePoll() != nil {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			if api.IsUnreachable(msg.err) {
				m.setStatus("Backend unreachable, showing last known reports", statusWarn)
				return m.loadHistoryFallback()
			}
			m.setStatus(fmt.Sprintf("Refresh failed: %v", msg.err), statusBad)
			return m, nil
		}
		m.records = m.ctrl.Store().Snapshot()
		m.clampCursor()
		return m, nil

	case generationSettledMsg:
		return m.handleGenerationSettled(msg.outcome)

	case pollTickMsg:
		// A newer generation may have replaced this poll session
		if m.ctrl.ActivePoll() != msg.session || msg.session.Done() {
			return m, nil
		}
		return m, m.pollFetchCmd(msg.session)

	case pollListingMsg:
		return m.handlePollListing(msg)

	case deleteDoneMsg:
		m.records = m.ctrl.Store().Snapshot()
		m.clampCursor()
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Delete failed, report restored: %v", msg.err), statusBad)
			return m, nil
		}
		if m.hist != nil {
			if n, ok := msg.id.Durable(); ok {
				_ = m.hist.Forget(n)
			}
		}
		m.setStatus("Report removed", statusOK)
		return m, nil

	case downloadDoneMsg:
		return m.handleDownloadDone(msg)

	case plantsFetchedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Plants unavailable: %v", msg.err), statusBad)
			return m, nil
		}
		m.plants = msg.plants
		m.plantsLoaded = true
		m.plantCursor = 0
		return m, nil

	case statsFetchedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Dashboard unavailable: %v", msg.err), statusBad)
			return m, nil
		}
		m.stats = msg.stats
		m.statsLoaded = true
		return m, nil
	}

	return m, nil
}

// =============================================================================
// KEY HANDLERS
// =============================================================================

func (m Model) updateReportsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case "g", "n":
		if m.busy {
			m.setStatus("A generation is already in flight", statusWarn)
			return m, nil
		}
		m.create = createState{}
		m.viewMode = CreateView
	case "r":
		return m, m.refreshCmd()
	case "d":
		if rec, ok := m.selectedRecord(); ok {
			return m.startDownload(rec)
		}
	case "v", "enter":
		if rec, ok := m.selectedRecord(); ok {
			m.preview = report.PreviewFor(rec)
			m.viewMode = PreviewView
			return m.renderPreview()
		}
	case "x", "backspace":
		if rec, ok := m.selectedRecord(); ok {
			id := rec.ID
			m.confirmDelete = &id
			m.setStatus(fmt.Sprintf("Remove %q? (y/n)", rec.Name), statusWarn)
		}
	case "p":
		m.viewMode = PlantsView
		if !m.plantsLoaded {
			return m, m.fetchPlantsCmd()
		}
	case "s":
		m.viewMode = DashboardView
		if !m.statsLoaded {
			return m, m.fetchStatsCmd()
		}
	case "q":
		m.Shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.viewMode = ReportsView
		return m, nil
	case "up", "k":
		if m.create.field > fieldType {
			m.create.field--
		}
	case "down", "j", "tab":
		if m.create.field < fieldConfirm {
			m.create.field++
		}
	case "left", "h":
		m.cycleCreateOption(-1)
	case "right", "l", " ":
		m.cycleCreateOption(1)
	case "enter":
		if m.create.field != fieldConfirm {
			m.create.field++
			return m, nil
		}
		return m.startGeneration()
	}
	return m, nil
}

func (m Model) updatePlantsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.plantCursor > 0 {
			m.plantCursor--
		}
	case "down", "j":
		if m.plantCursor < len(m.plants)-1 {
			m.plantCursor++
		}
	case "r":
		m.plantsLoaded = false
		return m, m.fetchPlantsCmd()
	case "q":
		m.viewMode = ReportsView
	}
	return m, nil
}

func (m *Model) cycleCreateOption(dir int) {
	wrap := func(idx, n int) int {
		idx += dir
		if idx < 0 {
			return n - 1
		}
		return idx % n
	}
	switch m.create.field {
	case fieldType:
		m.create.typeIdx = wrap(m.create.typeIdx, len(report.Types()))
	case fieldFormat:
		m.create.formatIdx = wrap(m.create.formatIdx, len(formatOptions))
	case fieldPeriod:
		m.create.periodIdx = wrap(m.create.periodIdx, len(periodPresets))
	case fieldCategory:
		m.create.categoryIdx = wrap(m.create.categoryIdx, len(categoryOptions))
	}
}

// =============================================================================
// RECONCILIATION FLOW
// =============================================================================

// startGeneration inserts the optimistic record synchronously, then hands
// assembly and persistence to a command. The record is visible in the list
// before the first network byte moves.
func (m Model) startGeneration() (tea.Model, tea.Cmd) {
	p := m.create.params(time.Now())
	rec, err := m.ctrl.Begin(p)
	if err != nil {
		m.setStatus(fmt.Sprintf("Cannot generate: %v", err), statusBad)
		return m, nil
	}
	m.busy = true
	m.viewMode = ReportsView
	m.records = m.ctrl.Store().Snapshot()
	m.cursor = 0
	m.setStatus(fmt.Sprintf("Generating %q...", rec.Name), statusNeutral)
	return m, tea.Batch(m.finishGenerationCmd(rec, p), m.spinner.Tick)
}

func (m Model) handleGenerationSettled(out report.Outcome) (tea.Model, tea.Cmd) {
	m.busy = false
	m.records = m.ctrl.Store().Snapshot()
	m.clampCursor()

	switch out.Kind {
	case report.OutcomeSuccess:
		m.setStatus(fmt.Sprintf("Report saved: %s", out.Record.Name), statusOK)
		if m.hist != nil {
			_ = m.hist.RecordConfirmed(out.Record)
		}
		if n, ok := out.Record.ID.Durable(); ok {
			session := m.ctrl.StartPoll(n)
			return m, tea.Batch(m.pollTickCmd(session), m.spinner.Tick)
		}
		return m, nil

	case report.OutcomePartial:
		m.setStatus("Document built, save verification pending", statusWarn)
		return m, nil

	case report.OutcomeCancelled:
		// The user removed the record while it was generating; nothing to
		// announce beyond the removal they asked for.
		return m, nil

	default:
		m.setStatus(fmt.Sprintf("Generation failed: %v", out.Err), statusBad)
		return m, nil
	}
}

func (m Model) handlePollListing(msg pollListingMsg) (tea.Model, tea.Cmd) {
	state := m.ctrl.ObservePoll(msg.session, msg.listing)
	switch state {
	case report.PollConfirmed:
		m.records = m.ctrl.Store().Snapshot()
		logging.Poll("report %d confirmed after %d attempts", msg.session.ReportID(), msg.session.Attempts())
		return m, nil
	case report.PollExhausted:
		// Budget spent without confirmation. The record stays as-is.
		return m, nil
	default:
		return m, m.pollTickCmd(msg.session)
	}
}

func (m Model) startDelete(id report.ID) (tea.Model, tea.Cmd) {
	m.setStatus("Removing...", statusNeutral)
	return m, m.deleteCmd(id)
}

func (m Model) startDownload(rec report.Record) (tea.Model, tea.Cmd) {
	if rec.Status == report.StatusGenerating {
		m.setStatus("Report is still generating", statusWarn)
		return m, nil
	}
	m.setStatus(fmt.Sprintf("Downloading %q...", rec.Name), statusNeutral)
	return m, m.downloadCmd(rec)
}

func (m Model) handleDownloadDone(msg downloadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, report.ErrStillGenerating):
			m.setStatus("Report is still generating", statusWarn)
		case errors.Is(msg.err, report.ErrNoFile):
			m.setStatus("No file available for this report", statusWarn)
		default:
			m.setStatus(fmt.Sprintf("Download failed: %v", msg.err), statusBad)
		}
		return m, nil
	}
	m.ctrl.Store().SetLocalArtifact(msg.id, msg.path)
	m.records = m.ctrl.Store().Snapshot()
	if m.hist != nil {
		if n, ok := msg.id.Durable(); ok {
			_ = m.hist.RecordDownload(n, msg.path)
		}
	}
	m.setStatus(fmt.Sprintf("Saved to %s", msg.path), statusOK)
	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) setStatus(s string, kind statusKind) {
	m.status = s
	m.statusKind = kind
}

func (m Model) selectedRecord() (report.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return report.Record{}, false
	}
	return m.records[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// loadHistoryFallback swaps in the journaled listing when the backend is
// down. Optimistic records in the live store are kept on top.
func (m Model) loadHistoryFallback() (tea.Model, tea.Cmd) {
	if m.hist == nil {
		return m, nil
	}
	journaled, err := m.hist.ListConfirmed()
	if err != nil {
		logging.HistoryError("fallback listing: %v", err)
		return m, nil
	}
	m.ctrl.Store().Merge(journaled)
	m.records = m.ctrl.Store().Snapshot()
	m.clampCursor()
	return m, nil
}

func (m Model) renderPreview() (tea.Model, tea.Cmd) {
	body := m.preview.Markdown
	if m.renderer != nil {
		if out, err := m.renderer.Render(body); err == nil {
			body = out
		}
	}
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
	return m, nil
}
