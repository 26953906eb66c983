package console

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"plantops/internal/api"
	"plantops/internal/logging"
	"plantops/internal/report"
)

// =============================================================================
// MESSAGES
// =============================================================================

// refreshDoneMsg reports a listing fetch-and-merge
type refreshDoneMsg struct {
	err error
}

// generationSettledMsg carries the outcome of one generation request
type generationSettledMsg struct {
	outcome report.Outcome
}

// pollTickMsg fires one confirmation poll attempt
type pollTickMsg struct {
	session *report.PollSession
}

// pollListingMsg carries the listing fetched for one poll attempt.
// listing is nil when the fetch failed; the attempt is still consumed.
type pollListingMsg struct {
	session *report.PollSession
	listing []report.Record
}

// deleteDoneMsg reports a removal
type deleteDoneMsg struct {
	id  report.ID
	err error
}

// downloadDoneMsg reports a download
type downloadDoneMsg struct {
	id   report.ID
	path string
	err  error
}

type plantsFetchedMsg struct {
	plants []api.Plant
	err    error
}

type statsFetchedMsg struct {
	stats api.DashboardStats
	err   error
}

// =============================================================================
// COMMANDS
// =============================================================================

// refreshCmd fetches the backend listing and merges it into the store.
// Optimistic in-flight records survive the merge.
func (m Model) refreshCmd() tea.Cmd {
	ctx := m.rootCtx
	ctrl := m.ctrl
	return func() tea.Msg {
		return refreshDoneMsg{err: ctrl.Refresh(ctx)}
	}
}

// finishGenerationCmd runs document assembly and backend persistence for
// an already-inserted optimistic record.
func (m Model) finishGenerationCmd(rec report.Record, p report.Params) tea.Cmd {
	ctx := m.rootCtx
	ctrl := m.ctrl
	return func() tea.Msg {
		return generationSettledMsg{outcome: ctrl.Finish(ctx, rec, p)}
	}
}

// pollTickCmd schedules the next confirmation poll attempt.
func (m Model) pollTickCmd(session *report.PollSession) tea.Cmd {
	return tea.Tick(m.ctrl.PollInterval(), func(time.Time) tea.Msg {
		return pollTickMsg{session: session}
	})
}

// pollFetchCmd fetches the listing for one poll attempt.
func (m Model) pollFetchCmd(session *report.PollSession) tea.Cmd {
	ctx := m.rootCtx
	backend := m.backend
	return func() tea.Msg {
		listing, err := backend.ListReports(ctx)
		if err != nil {
			logging.PollWarn("poll fetch failed for report %d: %v", session.ReportID(), err)
			listing = nil
		}
		return pollListingMsg{session: session, listing: listing}
	}
}

// deleteCmd removes a report. Restoration on failure happens inside the
// controller before the error comes back.
func (m Model) deleteCmd(id report.ID) tea.Cmd {
	ctx := m.rootCtx
	ctrl := m.ctrl
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: ctrl.Delete(ctx, id)}
	}
}

// downloadCmd fetches and saves a report document.
func (m Model) downloadCmd(rec report.Record) tea.Cmd {
	ctx := m.rootCtx
	dl := m.downloader
	return func() tea.Msg {
		path, err := dl.Download(ctx, rec)
		return downloadDoneMsg{id: rec.ID, path: path, err: err}
	}
}

func (m Model) fetchPlantsCmd() tea.Cmd {
	ctx := m.rootCtx
	data := m.data
	return func() tea.Msg {
		plants, err := data.ListPlants(ctx, api.PlantFilter{})
		return plantsFetchedMsg{plants: plants, err: err}
	}
}

func (m Model) fetchStatsCmd() tea.Cmd {
	ctx := m.rootCtx
	data := m.data
	return func() tea.Msg {
		stats, err := data.DashboardStats(ctx)
		return statsFetchedMsg{stats: stats, err: err}
	}
}
